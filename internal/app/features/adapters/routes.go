// internal/app/features/adapters/routes.go
package adapters

import (
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Middleware is a rate limiter or any other request guard. Route functions
// accept nil to leave their routes unguarded.
type Middleware = func(http.Handler) http.Handler

func guarded(r chi.Router, mw Middleware, register func(chi.Router)) {
	r.Group(func(g chi.Router) {
		if mw != nil {
			g.Use(mw)
		}
		register(g)
	})
}

// AIRoutes is mounted under /api/ai.
func AIRoutes(h *Handler, sm *auth.SessionManager, limit Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	guarded(r, limit, func(g chi.Router) {
		g.Post("/generate-readme", h.HandleGenerateReadme)
	})
	return r
}

// GitHubRoutes is mounted under /api/github.
func GitHubRoutes(h *Handler, sm *auth.SessionManager, limit Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	guarded(r, limit, func(g chi.Router) {
		g.Post("/create-repo", h.HandleCreateRepo)
	})
	return r
}

// NotificationRoutes is mounted under /api/notifications. It takes no
// session: the webhook relay calls it server to server.
func NotificationRoutes(h *Handler, limit Middleware) chi.Router {
	r := chi.NewRouter()
	guarded(r, limit, func(g chi.Router) {
		g.Post("/send-update", h.HandleSendUpdate)
	})
	return r
}
