// internal/app/features/projects/mutate.go
package projects

import (
	"context"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

type createRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags"`
}

// HandleCreate handles POST /api/projects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.CreateProject(ctx, actor(r), collab.NewProject{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
		Tags:        req.Tags,
	})
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	w.Header().Set("Location", "/api/projects/"+p.ID.Hex())
	jsonio.Write(w, http.StatusCreated, p)
}

type collaboratorRequest struct {
	Email string `json:"email"`
}

// HandleAddCollaborator handles POST /api/projects/{id}/collaborators.
func (h *Handler) HandleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req collaboratorRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Svc.AddCollaborator(ctx, chi.URLParam(r, "id"), actor(r), req.Email)
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}

// HandleConnectRepository handles POST /api/projects/{id}/repository. It
// takes no body.
func (h *Handler) HandleConnectRepository(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "connect repository")
	defer cancel()

	p, err := h.Svc.ConnectRepository(ctx, chi.URLParam(r, "id"), actor(r))
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}

// HandleGenerateReadme handles POST /api/projects/{id}/readme. It takes no
// body; any previous README is replaced.
func (h *Handler) HandleGenerateReadme(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "generate readme")
	defer cancel()

	p, err := h.Svc.GenerateReadme(ctx, chi.URLParam(r, "id"), actor(r))
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	jsonio.Write(w, http.StatusOK, p)
}
