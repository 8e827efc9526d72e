package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/merawaalameetha/meetha-backend/api/responses"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

const (
	CartSessionHeader = "X-Cart-Session"

	maxCartSessionLen = 128
)

// CartSession resolves the cart key for the request. A missing header mints a
// fresh session; the effective key is always echoed back on the response.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if key == "" {
				key = uuid.NewString()
			} else if !validCartSession(key) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session"))
				return
			}

			w.Header().Set(CartSessionHeader, key)

			ctx := WithCartSession(r.Context(), key)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, key)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validCartSession keeps keys safe to embed in redis keys and SQL rows.
func validCartSession(key string) bool {
	if len(key) > maxCartSessionLen {
		return false
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
