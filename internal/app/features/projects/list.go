// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/devcollab/devcollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type listResponse struct {
	Projects []models.Project `json:"projects"`
	Stats    collab.Stats     `json:"stats"`
}

// ServeList handles GET /api/projects?q=&status=.
//
// Projects are the caller's own, newest first, narrowed by q and status.
// Stats count every owned project regardless of the filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	a := actor(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var all []models.Project
	for p, err := range h.Svc.ListOwnedProjects(ctx, a.UID) {
		if err != nil {
			jsonio.Error(w, r, h.Log, err)
			return
		}
		all = append(all, p)
	}

	q := query.Search(r, "q")
	status := query.Get(r, "status")
	filtered := collab.FilterProjects(all, q, status)

	h.Log.Debug("projects listed",
		zap.String("uid", a.UID),
		zap.Int("owned", len(all)),
		zap.Int("shown", len(filtered)))
	jsonio.Write(w, http.StatusOK, listResponse{Projects: filtered, Stats: collab.ComputeStats(all)})
}

// ServeProject handles GET /api/projects/{id}.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.GetProject(ctx, chi.URLParam(r, "id"), actor(r))
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}
