package config

const (
	EnvPrefix = "MEETHA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CartStoreRedis = "redis"
	CartStoreDB    = "db"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "MEETHA_APP_ENV"
	EnvPort                   = "MEETHA_APP_PORT"
	EnvDBDSN                  = "MEETHA_DB_DSN"
	EnvDBHost                 = "MEETHA_DB_HOST"
	EnvDBUser                 = "MEETHA_DB_USER"
	EnvDBName                 = "MEETHA_DB_NAME"
	EnvRedisURL               = "MEETHA_REDIS_URL"
	EnvJWTSecret              = "MEETHA_JWT_SECRET"
	EnvJWTIssuer              = "MEETHA_JWT_ISSUER"
	EnvJWTExpMins             = "MEETHA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MEETHA_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "MEETHA_USE_SQLITE"
	EnvCartStore              = "MEETHA_CART_STORE"
	EnvCartSlotTTL            = "MEETHA_CART_SLOT_TTL"
	EnvCORSAllowedOrigins     = "MEETHA_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
