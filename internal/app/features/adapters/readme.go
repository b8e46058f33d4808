// internal/app/features/adapters/readme.go
package adapters

import (
	"net/http"
	"time"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type generateReadmeRequest struct {
	ProjectName string `json:"projectName"`
	Description string `json:"description"`
	GitHubRepo  string `json:"githubRepo"`
	ProjectType string `json:"projectType"`
}

type generateReadmeResponse struct {
	Readme      string    `json:"readme"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// HandleGenerateReadme handles POST /api/ai/generate-readme.
func (h *Handler) HandleGenerateReadme(w http.ResponseWriter, r *http.Request) {
	var req generateReadmeRequest
	if err := jsonio.Decode(w, r, &req); err != nil {
		jsonio.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upstream(), h.Log, "generate readme")
	defer cancel()

	readme, err := h.Readmes.GenerateReadme(ctx, gemini.ReadmeRequest{
		ProjectName: req.ProjectName,
		Description: req.Description,
		GitHubRepo:  req.GitHubRepo,
		ProjectType: req.ProjectType,
	})
	if err != nil {
		h.failAs500(w, r, err, "Failed to generate README")
		return
	}

	h.Log.Info("readme generated", zap.String("project", req.ProjectName), zap.Int("bytes", len(readme)))
	jsonio.Write(w, http.StatusOK, generateReadmeResponse{Readme: readme, GeneratedAt: time.Now().UTC()})
}
