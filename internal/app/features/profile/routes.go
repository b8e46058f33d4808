// internal/app/features/profile/routes.go
package profile

import (
	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/profile. Every route needs a session.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Get("/roles", h.ServeRoles)
	r.Put("/role", h.HandleSetRole)
	r.Put("/display-name", h.HandleSetDisplayName)
	r.Get("/sign-ins", h.ServeSignIns)
	return r
}
