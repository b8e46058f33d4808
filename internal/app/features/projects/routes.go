// internal/app/features/projects/routes.go
package projects

import (
	"net/http"

	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /api/projects. upstreamLimit guards the routes
// that call GitHub or the AI service; pass nil to leave them unlimited.
func Routes(h *Handler, sm *auth.SessionManager, upstreamLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Route("/{id}", func(pr chi.Router) {
		pr.Get("/", h.ServeProject)
		pr.Post("/collaborators", h.HandleAddCollaborator)

		pr.Group(func(up chi.Router) {
			if upstreamLimit != nil {
				up.Use(upstreamLimit)
			}
			up.Post("/repository", h.HandleConnectRepository)
			up.Post("/readme", h.HandleGenerateReadme)
		})
	})

	return r
}
