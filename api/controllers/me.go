package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/merawaalameetha/meetha-backend/api/middleware"
	"github.com/merawaalameetha/meetha-backend/api/responses"
	"github.com/merawaalameetha/meetha-backend/internal/auth"
	pkgerrors "github.com/merawaalameetha/meetha-backend/pkg/errors"
	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

// Me returns the profile of the authenticated user.
func Me(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		profile, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
