package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/merawaalameetha/meetha-backend/api/middleware"
	"github.com/merawaalameetha/meetha-backend/internal/auth"
	"github.com/merawaalameetha/meetha-backend/internal/cart"
	product "github.com/merawaalameetha/meetha-backend/internal/products"
	"github.com/merawaalameetha/meetha-backend/internal/users"
	pkgAuth "github.com/merawaalameetha/meetha-backend/pkg/auth"
	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/db"
	"github.com/merawaalameetha/meetha-backend/pkg/enums"
	"github.com/merawaalameetha/meetha-backend/pkg/metrics"
	"github.com/merawaalameetha/meetha-backend/pkg/migrate"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{Message: "User created successfully"}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "meetha", ExpirationMinutes: 10},
	}
}

// newTestRouter wires the real catalog and cart services over a seeded sqlite database.
func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(ctx, config.DBConfig{DSN: dsn, Driver: config.DBDriverSQLite}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	_, err = migrate.Run(ctx, sqlDB, client.Dialect(), "up")
	require.NoError(t, err)
	_, err = product.Seed(ctx, client.DB(), "hash")
	require.NoError(t, err)

	productSvc, err := product.NewService(product.NewRepository(client.DB()))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cartSvc, err := cart.NewService(
		cart.NewDBSlot(client.DB()),
		cart.NewSessionLocker(nil, 0),
		productSvc,
		cart.WithMetrics(metrics.NewCartMetrics(reg)),
	)
	require.NoError(t, err)

	router := NewRouter(
		testConfig(),
		nil,
		client,
		nil,
		stubSessionManager{},
		reg,
		metrics.NewHTTPMetrics(reg),
		stubAuthService{},
		stubRegisterService{},
		productSvc,
		cartSvc,
	)
	return router, reg
}

func do(t *testing.T, h http.Handler, method, target, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

type cartEnvelope struct {
	Data struct {
		Items []struct {
			ProductID string  `json:"productId"`
			Quantity  float64 `json:"quantity"`
		} `json:"items"`
		TotalItems float64 `json:"totalItems"`
		TotalPrice float64 `json:"totalPrice"`
	} `json:"data"`
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/health/live", "", "").Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/health/ready", "", "").Code)
}

func TestCartFlowPersistsAcrossRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	list := do(t, router, http.MethodGet, "/api/v1/products?category=BARFI", "", "")
	require.Equal(t, http.StatusOK, list.Code)
	var products struct {
		Data []struct {
			ID         string  `json:"id"`
			Price      float64 `json:"price"`
			MinOrderKg float64 `json:"minOrderKg"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &products))
	require.NotEmpty(t, products.Data)
	target := products.Data[0]

	first := do(t, router, http.MethodGet, "/api/v1/cart", "", "")
	require.Equal(t, http.StatusOK, first.Code)
	session := first.Header().Get(middleware.CartSessionHeader)
	require.NotEmpty(t, session)

	add := do(t, router, http.MethodPost, "/api/v1/cart/items", session,
		fmt.Sprintf(`{"product_id":%q,"quantity":%v}`, target.ID, target.MinOrderKg+1))
	require.Equal(t, http.StatusOK, add.Code, add.Body.String())

	fetched := do(t, router, http.MethodGet, "/api/v1/cart", session, "")
	var env cartEnvelope
	require.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	require.Equal(t, target.ID, env.Data.Items[0].ProductID)
	require.Equal(t, target.MinOrderKg+1, env.Data.TotalItems)
	require.InDelta(t, target.Price*(target.MinOrderKg+1), env.Data.TotalPrice, 0.001)

	item := do(t, router, http.MethodGet, "/api/v1/cart/items/"+target.ID, session, "")
	require.Equal(t, http.StatusOK, item.Code)

	other := do(t, router, http.MethodGet, "/api/v1/cart", "someone-else", "")
	var otherEnv cartEnvelope
	require.NoError(t, json.Unmarshal(other.Body.Bytes(), &otherEnv))
	require.Empty(t, otherEnv.Data.Items)

	removed := do(t, router, http.MethodPatch, "/api/v1/cart/items/"+target.ID, session, `{"quantity":0}`)
	require.Equal(t, http.StatusOK, removed.Code)
	require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/cart/items/"+target.ID, session, "").Code)
}

func TestCartAddUnknownProduct(t *testing.T) {
	router, _ := newTestRouter(t)
	resp := do(t, router, http.MethodPost, "/api/v1/cart/items", "guest", `{"product_id":"missing","quantity":1}`)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/me", "", "").Code)
}

func TestVendorProductsRequireVendorRole(t *testing.T) {
	router, _ := newTestRouter(t)
	cfg := testConfig().JWT

	bearer := func(payload pkgAuth.AccessTokenPayload) *httptest.ResponseRecorder {
		token, err := pkgAuth.MintAccessToken(cfg, time.Now(), payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	vendorID := product.VendorSeedID("sharma.sweets@gmail.com")
	resp := bearer(pkgAuth.AccessTokenPayload{UserID: vendorID, Role: enums.UserRoleVendor, VendorID: &vendorID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var listings struct {
		Data []struct {
			VendorName string `json:"vendorName"`
			IsActive   bool   `json:"isActive"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listings))
	require.Len(t, listings.Data, 5)
	require.Equal(t, "Sharma Sweet House", listings.Data[0].VendorName)

	customer := bearer(pkgAuth.AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.Equal(t, http.StatusForbidden, customer.Code)

	require.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/v1/vendor/products", "", "").Code)
}

func TestRegisterRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"name":"Priya","email":"priya@example.com","password":"secret1","confirmPassword":"secret1"}`
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/auth/register", "", body).Code)
}

func TestMetricsEndpointExposesRouteCounters(t *testing.T) {
	router, _ := newTestRouter(t)
	do(t, router, http.MethodGet, "/api/v1/products", "", "")

	resp := do(t, router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `meetha_http_requests_total{method="GET",route="/api/v1/products`)
}
