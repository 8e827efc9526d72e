package migrate

import (
	"context"
	"fmt"

	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/db"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations when the app runs in dev mode with auto-migrate
// enabled, or whenever the sqlite flag is on (the sqlite file has no other way to get a schema).
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	sqliteMode := client.Dialect() == config.DBDriverSQLite
	if !sqliteMode && (!cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate) {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})
	logg.Info(ctx, "running goose migrations (auto-run)")

	applied, err := Run(ctx, sqlDB, client.Dialect(), "up")
	if err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	ctx = logg.WithField(ctx, "applied", len(applied))
	logg.Info(ctx, "goose migrations completed")
	return nil
}
