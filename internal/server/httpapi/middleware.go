package httpapi

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/philharmonia/harmony/internal/netx"
)

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	if r.responseData.status == 0 {
		r.responseData.status = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		data := &responseData{}
		lw := &loggingResponseWriter{ResponseWriter: w, responseData: data}
		next.ServeHTTP(lw, r)

		s.logger.Info(r.Context(), "request handled",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
			"remote", netx.ClientIP(r, s.cfg.Profile.TrustForwardedProto),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// allowedHosts rejects requests whose Host header is not configured.
func (s *Server) allowedHosts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !slices.Contains(s.cfg.AllowedHosts, netx.Hostname(r.Host)) {
			s.logger.Warn(r.Context(), "disallowed host", "host", r.Host)
			writeText(w, http.StatusBadRequest, "Bad Request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureTransport redirects plain HTTP to HTTPS and sets HSTS when the
// active profile asks for it. The health check is exempt from redirects.
func (s *Server) secureTransport(next http.Handler) http.Handler {
	p := s.cfg.Profile

	hsts := ""
	if p.HSTSSeconds > 0 {
		hsts = fmt.Sprintf("max-age=%d", p.HSTSSeconds)
		if p.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if p.HSTSPreload {
			hsts += "; preload"
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secure := netx.IsSecure(r, p.TrustForwardedProto)

		if p.SSLRedirect && !secure && r.URL.Path != "/healthz" {
			http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
			return
		}
		if secure && hsts != "" {
			w.Header().Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware admits cross-origin requests only from the trusted origins.
func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	origins := s.cfg.CSRFTrustedOrigins

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return slices.Contains(origins, origin)
		},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
