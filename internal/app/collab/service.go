// Package collab implements the profile and project operations every API
// route goes through: profile get-or-create, project creation and listing,
// collaborator management, repository linking, README generation and the
// push-event relay.
//
// Invariants kept here rather than in the store:
//   - a project's owner email is always one of its collaborators;
//   - collaborators hold no duplicates (exact string match);
//   - the repository URL and ID are written together, and only after the
//     remote call succeeded.
package collab

import (
	"context"
	"iter"
	"time"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// ProfileStore persists profiles keyed by uid.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, p models.Profile) (models.Profile, bool, error)
	GetByID(ctx context.Context, uid string) (models.Profile, error)
	SetRole(ctx context.Context, uid, role string) (models.Profile, error)
	SetDisplayName(ctx context.Context, uid, name string) (models.Profile, error)
}

// ProjectStore persists projects. Mutations return the updated document.
type ProjectStore interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	ListByOwner(ctx context.Context, ownerID string) iter.Seq2[models.Project, error]
	AddCollaborator(ctx context.Context, id, email string) (models.Project, error)
	SetRepository(ctx context.Context, id, repoURL, repoID string) (models.Project, error)
	SetReadme(ctx context.Context, id, readme string) (models.Project, error)
	FindByRepository(ctx context.Context, repoURL string) (models.Project, error)
}

// RepoCreator creates remote repositories.
type RepoCreator interface {
	CreateRepository(ctx context.Context, req github.RepoRequest) (github.Repo, error)
}

// ReadmeGenerator writes README documents.
type ReadmeGenerator interface {
	GenerateReadme(ctx context.Context, req gemini.ReadmeRequest) (string, error)
}

// Actor is the signed-in caller of an operation.
type Actor struct {
	UID   string
	Email string
}

// Service runs the collaboration operations. All fields are required except
// Metrics, which defaults to a no-op recorder.
type Service struct {
	Profiles ProfileStore
	Projects ProjectStore
	Repos    RepoCreator
	Readmes  ReadmeGenerator
	Metrics  metrics.Recorder
	Log      *zap.Logger
}

func (s *Service) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

func (s *Service) observe(service string, start time.Time, err error) {
	s.recorder().UpstreamCall(service, err, time.Since(start))
}
