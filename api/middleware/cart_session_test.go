package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCartSessionMintsAndEchoes(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	require.Equal(t, seen, resp.Header().Get(CartSessionHeader))
}

func TestCartSessionKeepsClientKey(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CartSessionHeader, " guest_42 ")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, "guest_42", seen)
	require.Equal(t, "guest_42", resp.Header().Get(CartSessionHeader))
}

func TestCartSessionRejectsUnsafeKeys(t *testing.T) {
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, key := range []string{"a:b", "a b", strings.Repeat("x", maxCartSessionLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(CartSessionHeader, key)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusBadRequest, resp.Code, "key %q", key)
	}
}
