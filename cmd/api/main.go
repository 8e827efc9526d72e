package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/merawaalameetha/meetha-backend/api"
	"github.com/merawaalameetha/meetha-backend/api/routes"
	"github.com/merawaalameetha/meetha-backend/internal/auth"
	"github.com/merawaalameetha/meetha-backend/internal/cart"
	product "github.com/merawaalameetha/meetha-backend/internal/products"
	"github.com/merawaalameetha/meetha-backend/internal/users"
	"github.com/merawaalameetha/meetha-backend/pkg/auth/session"
	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/db"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
	"github.com/merawaalameetha/meetha-backend/pkg/metrics"
	"github.com/merawaalameetha/meetha-backend/pkg/migrate"
	"github.com/merawaalameetha/meetha-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Users:          userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	productService, err := product.NewService(product.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(
		cartSlot(cfg.Cart, dbClient, redisClient),
		cart.NewSessionLocker(redisClient, cfg.Cart.LockTTL, cart.WithLockRetry(cfg.Cart.LockAttempts, cfg.Cart.LockRetryWait)),
		productService,
		cart.WithMetrics(metrics.NewCartMetrics(registry)),
		cart.WithServiceLogger(logg),
	)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		sessionManager,
		registry,
		metrics.NewHTTPMetrics(registry),
		authService,
		registerService,
		productService,
		cartService,
	)
	server := api.NewServer(cfg.App, handler)

	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       server.Addr,
		"cart_store": cfg.Cart.StoreKind(),
	})
	logg.Info(ctx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func cartSlot(cfg config.CartConfig, dbClient *db.Client, redisClient *redis.Client) cart.Persister {
	if cfg.StoreKind() == config.CartStoreDB {
		return cart.NewDBSlot(dbClient.DB())
	}
	return cart.NewRedisSlot(redisClient, cfg.SlotTTL)
}
