package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/merawaalameetha/meetha-backend/api/middleware"
	"github.com/merawaalameetha/meetha-backend/internal/auth"
	"github.com/merawaalameetha/meetha-backend/internal/users"
	"github.com/merawaalameetha/meetha-backend/pkg/config"
	"github.com/merawaalameetha/meetha-backend/pkg/enums"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
)

type stubAuthService struct {
	login   *auth.LoginResponse
	profile *users.UserDTO
	err     error
	lastReq auth.LoginRequest
	lastID  uuid.UUID
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastReq = req
	return s.login, s.err
}

func (s *stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	s.lastID = userID
	return s.profile, s.err
}

type stubRegisterService struct {
	resp    *auth.RegisterResponse
	err     error
	lastReq auth.RegisterRequest
	calls   int
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	s.calls++
	s.lastReq = req
	return s.resp, s.err
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubAuthService{login: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"secret1"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "access", resp.Header().Get(TokenHeader))
	require.Equal(t, "a@example.com", svc.lastReq.Email)
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"nope"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "invalid credentials")
}

func TestAuthRegisterCreated(t *testing.T) {
	reg := &stubRegisterService{resp: &auth.RegisterResponse{
		Message: "User created successfully",
		User:    users.UserSummary{ID: uuid.New(), Name: "Priya", Email: "priya@example.com", Role: enums.UserRoleCustomer},
	}}
	body := `{"name":"Priya","email":"priya@example.com","password":"secret1","confirmPassword":"secret1"}`
	resp := httptest.NewRecorder()
	AuthRegister(reg, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, resp.Code)
	var envelope struct {
		Data struct {
			Message string `json:"message"`
			User    struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, "User created successfully", envelope.Data.Message)
	require.Equal(t, "CUSTOMER", envelope.Data.User.Role)
}

func TestAuthRegisterValidation(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
		msg   string
	}{
		"short name":        {`{"name":"P","email":"p@example.com","password":"secret1","confirmPassword":"secret1"}`, "name", "must be at least 2 characters"},
		"bad email":         {`{"name":"Priya","email":"nope","password":"secret1","confirmPassword":"secret1"}`, "email", "must be a valid email"},
		"short password":    {`{"name":"Priya","email":"p@example.com","password":"12345","confirmPassword":"12345"}`, "password", "must be at least 6 characters"},
		"password mismatch": {`{"name":"Priya","email":"p@example.com","password":"secret1","confirmPassword":"secret2"}`, "confirmPassword", "passwords don't match"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reg := &stubRegisterService{}
			resp := httptest.NewRecorder()
			AuthRegister(reg, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tc.body)))

			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.Zero(t, reg.calls)
			var envelope struct {
				Error struct {
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
			require.Equal(t, tc.msg, envelope.Error.Details[tc.field])
		})
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "User with this email already exists")}
	body := `{"name":"Priya","email":"priya@example.com","password":"secret1","confirmPassword":"secret1"}`
	resp := httptest.NewRecorder()
	AuthRegister(reg, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestMeUsesContextUser(t *testing.T) {
	userID := uuid.New()
	svc := &stubAuthService{profile: &users.UserDTO{ID: userID, Name: "Priya"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	Me(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, userID, svc.lastID)

	resp = httptest.NewRecorder()
	Me(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": nil}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "dev", resp.Header().Get(envHeader))

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": stubPinger{err: errors.New("down")}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
