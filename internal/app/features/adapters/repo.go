// internal/app/features/adapters/repo.go
package adapters

import (
	"net/http"
	"strings"

	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type createRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     *bool  `json:"private"` // nil means private
}

// HandleCreateRepo handles POST /api/github/create-repo.
//
// The name is sanitized the same way project repositories are. GitHub's
// own rejections keep their status code.
func (h *Handler) HandleCreateRepo(w http.ResponseWriter, r *http.Request) {
	var req createRepoRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonio.Error(w, r, h.Log, apperr.Invalid("Repository name is required"))
		return
	}
	name := github.RepoName(req.Name)
	if name == "" {
		jsonio.Error(w, r, h.Log, apperr.Invalid("Repository name has no usable characters"))
		return
	}

	desc := req.Description
	if desc == "" {
		desc = "DevCollab project: " + req.Name
	}
	private := req.Private == nil || *req.Private

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "create repository")
	defer cancel()

	repo, err := h.Repos.CreateRepository(ctx, github.RepoRequest{Name: name, Description: desc, Private: private})
	if err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}

	h.Log.Info("repository created", zap.String("repo", repo.HTMLURL), zap.Bool("private", repo.Private))
	jsonio.Write(w, http.StatusOK, repo)
}
