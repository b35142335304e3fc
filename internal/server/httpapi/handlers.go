package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/philharmonia/harmony/internal/common"
)

const (
	msgSuperuserExists  = "Superuser already exists."
	msgSuperuserEnvMiss = "Superuser environment variables are missing."
	msgSuperuserCreated = "Superuser '%s' created successfully!"
	msgInternalError    = "Internal Server Error"
)

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) handleSetupSuperuser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := s.accounts.BootstrapSuperuser(ctx)
	switch {
	case errors.Is(err, common.ErrSuperuserExists):
		writeText(w, http.StatusOK, msgSuperuserExists)
	case errors.Is(err, common.ErrSuperuserConfigMissing):
		s.logger.Warn(ctx, "superuser bootstrap skipped", "error", err)
		writeText(w, http.StatusInternalServerError, msgSuperuserEnvMiss)
	case err != nil:
		s.logger.Error(ctx, "superuser bootstrap failed",
			"error", err, "request_id", chimw.GetReqID(ctx))
		writeText(w, http.StatusInternalServerError, msgInternalError)
	default:
		s.logger.Info(ctx, "superuser created", "username", account.Username)
		writeText(w, http.StatusOK, fmt.Sprintf(msgSuperuserCreated, account.Username))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Ping(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeText(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeText(w, http.StatusOK, "ok")
}
