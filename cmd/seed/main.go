package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	product "github.com/merawaalameetha/meetha-backend/internal/products"
	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/db"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
	"github.com/merawaalameetha/meetha-backend/pkg/migrate"
	"github.com/merawaalameetha/meetha-backend/pkg/security"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	vendorPassword := flag.String("vendor-password", "vendor123", "password assigned to newly created vendor accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(*vendorPassword, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash vendor password", err)
		os.Exit(1)
	}

	result, err := product.Seed(ctx, dbClient.DB(), hash)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"vendors":  result.Vendors,
		"products": result.Products,
	})
	logg.Info(ctx, "seed complete")
}
