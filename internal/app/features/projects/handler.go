// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"iter"
	"net/http"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/system/auth"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// Service is the part of the collaboration service these routes use.
type Service interface {
	CreateProject(ctx context.Context, owner collab.Actor, in collab.NewProject) (models.Project, error)
	ListOwnedProjects(ctx context.Context, ownerID string) iter.Seq2[models.Project, error]
	GetProject(ctx context.Context, id string, actor collab.Actor) (models.Project, error)
	AddCollaborator(ctx context.Context, id string, actor collab.Actor, email string) (models.Project, error)
	ConnectRepository(ctx context.Context, id string, actor collab.Actor) (models.Project, error)
	GenerateReadme(ctx context.Context, id string, actor collab.Actor) (models.Project, error)
}

// Handler owns the /api/projects routes.
type Handler struct {
	Svc Service
	Log *zap.Logger
}

// NewHandler constructs a projects Handler.
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// actor is the signed-in caller. Routes sit behind RequireSignedIn.
func actor(r *http.Request) collab.Actor {
	u, _ := auth.CurrentUser(r)
	return collab.Actor{UID: u.ID, Email: u.Email}
}
