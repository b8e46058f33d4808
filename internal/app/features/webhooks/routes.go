// internal/app/features/webhooks/routes.go
package webhooks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/webhooks. Deliveries carry no session;
// limit is usually keyed by client IP.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limit != nil {
		r.Use(limit)
	}
	r.Post("/github", h.ServeGitHub)
	return r
}
