package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/philharmonia/harmony/internal/r2"
	"github.com/philharmonia/harmony/internal/server/config"
)

const staticCacheControl = "public, max-age=31536000, immutable"

// mediaHandler serves uploaded media from the local media root or
// redirects to the public bucket URL.
func (s *Server) mediaHandler() http.HandlerFunc {
	media := s.cfg.Media

	if media.Backend == config.MediaR2 {
		return func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
			if key == "" {
				http.NotFound(w, r)
				return
			}
			http.Redirect(w, r, r2.ObjectURL(media.PublicURL, key), http.StatusFound)
		}
	}

	fs := http.StripPrefix("/media/", http.FileServer(http.Dir(media.Root)))
	return noDirListing(fs)
}

func (s *Server) staticHandler() http.HandlerFunc {
	fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.StaticRoot)))
	next := noDirListing(fs)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", staticCacheControl)
		next(w, r)
	}
}

func noDirListing(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}
}
