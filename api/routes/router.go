package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/merawaalameetha/meetha-backend/api/controllers"
	cartcontrollers "github.com/merawaalameetha/meetha-backend/api/controllers/cart"
	"github.com/merawaalameetha/meetha-backend/api/middleware"
	"github.com/merawaalameetha/meetha-backend/internal/auth"
	"github.com/merawaalameetha/meetha-backend/internal/cart"
	product "github.com/merawaalameetha/meetha-backend/internal/products"
	"github.com/merawaalameetha/meetha-backend/pkg/auth/session"
	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/enums"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
	"github.com/merawaalameetha/meetha-backend/pkg/metrics"
	"github.com/merawaalameetha/meetha-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	registerService auth.RegisterService,
	productService product.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// a nil *redis.Client must not leak into the interface-typed stores
	var (
		readiness   = map[string]controllers.Pinger{"db": dbP}
		rateStore   middleware.RateLimiterStore
		idempotency redis.IdempotencyStore
	)
	if redisClient != nil {
		readiness["redis"] = redisClient
		rateStore = redisClient
		idempotency = redisClient
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(registerService, logg))
			r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productId}", controllers.ProductDetail(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			// inline so the full route pattern is resolved before the idempotency lookup
			r.With(middleware.Idempotency(idempotency, logg)).Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Get("/items/{productId}", cartcontrollers.CartItemFetch(cartService, logg))
			r.Patch("/items/{productId}", cartcontrollers.CartUpdateQuantity(cartService, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(cartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Get("/me", controllers.Me(authService, logg))

			r.With(middleware.RequireRole(logg, enums.UserRoleVendor)).Get("/vendor/products", controllers.VendorProductList(productService, logg))
		})
	})

	return r
}
