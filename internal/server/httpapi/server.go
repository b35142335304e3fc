// Package httpapi exposes the server's HTTP surface: the superuser
// bootstrap endpoint, the health check and media/static file serving.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/philharmonia/harmony/internal/logging"
	"github.com/philharmonia/harmony/internal/server/config"
	"github.com/philharmonia/harmony/internal/server/models"
)

// AccountService is the account behaviour the handlers depend on.
type AccountService interface {
	BootstrapSuperuser(ctx context.Context) (*models.Account, error)
	Ping(ctx context.Context) error
}

type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	accounts AccountService
}

func NewServer(cfg *config.Config, logger logging.Logger, accounts AccountService) *Server {
	return &Server{cfg: cfg, logger: logger, accounts: accounts}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.allowedHosts)
	r.Use(s.secureTransport)
	r.Use(s.corsMiddleware())

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.SetupRateLimit > 0 {
			r.Use(s.rateLimitMiddleware(s.cfg.SetupRateLimit))
		}
		// Any method triggers the bootstrap.
		r.HandleFunc("/setup-superuser", s.handleSetupSuperuser)
		r.HandleFunc("/setup-superuser/", s.handleSetupSuperuser)
	})

	r.Get("/media/*", s.mediaHandler())
	r.Head("/media/*", s.mediaHandler())
	r.Get("/static/*", s.staticHandler())
	r.Head("/static/*", s.staticHandler())

	return r
}
