package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEETHA_APP_ENV" required:"true"`
	Port         string `envconfig:"MEETHA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEETHA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEETHA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEETHA_DB_DSN"`
	Driver string `envconfig:"MEETHA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEETHA_DB_HOST"`
	LegacyPort     int    `envconfig:"MEETHA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEETHA_DB_USER"`
	LegacyPassword string `envconfig:"MEETHA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEETHA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEETHA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEETHA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEETHA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEETHA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEETHA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Dialect returns the normalized gorm dialect for the configured driver.
func (db DBConfig) Dialect() string {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	if driver == DBDriverSQLite || strings.HasPrefix(db.DSN, "file:") {
		return DBDriverSQLite
	}
	return DBDriverPostgres
}

type RedisConfig struct {
	URL          string        `envconfig:"MEETHA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEETHA_REDIS_ADDR"`
	Password     string        `envconfig:"MEETHA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEETHA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEETHA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEETHA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEETHA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEETHA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEETHA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MEETHA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MEETHA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MEETHA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MEETHA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MEETHA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MEETHA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MEETHA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MEETHA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MEETHA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MEETHA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MEETHA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MEETHA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MEETHA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MEETHA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MEETHA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MEETHA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MEETHA_AUTO_MIGRATE" default:"false"`
}

// CartConfig selects the durable slot backing session carts.
type CartConfig struct {
	Store   string        `envconfig:"MEETHA_CART_STORE" default:"redis"`
	SlotTTL time.Duration `envconfig:"MEETHA_CART_SLOT_TTL" default:"720h"`
	LockTTL time.Duration `envconfig:"MEETHA_CART_LOCK_TTL" default:"5s"`

	LockAttempts  int           `envconfig:"MEETHA_CART_LOCK_ATTEMPTS" default:"3"`
	LockRetryWait time.Duration `envconfig:"MEETHA_CART_LOCK_RETRY_WAIT" default:"50ms"`
}

// StoreKind returns the normalized slot kind (redis/db).
func (c CartConfig) StoreKind() string {
	kind := strings.TrimSpace(strings.ToLower(c.Store))
	if kind == "" {
		return CartStoreRedis
	}
	return kind
}

func (c CartConfig) validate() error {
	switch c.StoreKind() {
	case CartStoreRedis, CartStoreDB:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s", EnvCartStore, CartStoreRedis, CartStoreDB)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MEETHA_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:meetha.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
