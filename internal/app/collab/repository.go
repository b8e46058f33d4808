package collab

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/policy/projectpolicy"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// ConnectRepository creates a GitHub repository named after the project and
// links it. The project is only written after GitHub confirms creation.
//
// Calling it on an already linked project creates another repository and
// replaces the link.
func (s *Service) ConnectRepository(ctx context.Context, id string, actor Actor) (models.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := projectpolicy.RequireOwner(actor.UID, p); err != nil {
		return models.Project{}, err
	}

	name := github.RepoName(p.Name)
	if name == "" {
		return models.Project{}, apperr.Invalid("Project name has no characters usable in a repository name")
	}
	if p.HasRepository() {
		s.Log.Warn("relinking project that already has a repository",
			zap.String("project_id", id), zap.String("current", p.GitHubRepo))
	}

	desc := p.Description
	if desc == "" {
		desc = "DevCollab project: " + p.Name
	}

	start := time.Now()
	repo, err := s.Repos.CreateRepository(ctx, github.RepoRequest{
		Name:        name,
		Description: desc,
		Private:     p.Visibility != models.VisibilityPublic,
	})
	s.observe("github", start, err)
	if err != nil {
		return models.Project{}, fmt.Errorf("create repository: %w", err)
	}

	updated, err := s.Projects.SetRepository(ctx, id, repo.HTMLURL, strconv.FormatInt(repo.ID, 10))
	if err != nil {
		return models.Project{}, fmt.Errorf("link repository %s: %w", repo.HTMLURL, err)
	}
	s.Log.Info("repository linked", zap.String("project_id", id), zap.String("repo", repo.HTMLURL))
	return updated, nil
}

// GenerateReadme replaces the project's README with a freshly generated one.
// Any previous README is discarded.
func (s *Service) GenerateReadme(ctx context.Context, id string, actor Actor) (models.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := projectpolicy.RequireOwner(actor.UID, p); err != nil {
		return models.Project{}, err
	}

	start := time.Now()
	readme, err := s.Readmes.GenerateReadme(ctx, gemini.ReadmeRequest{
		ProjectName: p.Name,
		Description: p.Description,
		GitHubRepo:  p.GitHubRepo,
		ProjectType: gemini.DefaultProjectType,
	})
	s.observe("gemini", start, err)
	if err != nil {
		return models.Project{}, fmt.Errorf("generate readme: %w", err)
	}

	updated, err := s.Projects.SetReadme(ctx, id, readme)
	if err != nil {
		return models.Project{}, fmt.Errorf("save readme: %w", err)
	}
	s.Log.Info("readme generated", zap.String("project_id", id), zap.Int("bytes", len(readme)))
	return updated, nil
}
