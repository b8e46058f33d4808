package collab

import (
	"context"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/devcollab/devcollab/internal/app/policy/projectpolicy"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// emailPattern is a syntactic check only: local part, "@", and a domain
// containing a dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NewProject is the input of CreateProject.
type NewProject struct {
	Name        string
	Description string
	Visibility  string // public or private; empty means private
	Tags        []string
}

// CreateProject creates an active project owned by the actor, with the
// actor's email as the first collaborator.
func (s *Service) CreateProject(ctx context.Context, owner Actor, in NewProject) (models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Project{}, apperr.Invalid("Project name is required")
	}
	if owner.UID == "" || owner.Email == "" {
		return models.Project{}, apperr.Invalid("Owner identity is incomplete")
	}
	vis := in.Visibility
	if vis == "" {
		vis = models.VisibilityPrivate
	}
	if !models.IsValidVisibility(vis) {
		return models.Project{}, apperr.Invalid("Visibility must be public or private")
	}

	p, err := s.Projects.Create(ctx, models.Project{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Visibility:    vis,
		OwnerID:       owner.UID,
		OwnerEmail:    owner.Email,
		Collaborators: []string{owner.Email},
		Tags:          cleanTags(in.Tags),
		Status:        models.ProjectStatusActive,
	})
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.Log.Info("project created", zap.String("project_id", p.ID.Hex()), zap.String("owner", owner.UID))
	return p, nil
}

// ListOwnedProjects yields the owner's projects, newest first.
func (s *Service) ListOwnedProjects(ctx context.Context, ownerID string) iter.Seq2[models.Project, error] {
	return s.Projects.ListByOwner(ctx, ownerID)
}

// GetProject loads a project for any signed-in caller.
func (s *Service) GetProject(ctx context.Context, id string, actor Actor) (models.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if !projectpolicy.CanRead(actor.UID, p) {
		return models.Project{}, apperr.Forbidden("Sign in to view this project")
	}
	return p, nil
}

// AddCollaborator adds email to the project. Only the owner may; email must
// look like an address and must not be listed already (exact match).
func (s *Service) AddCollaborator(ctx context.Context, id string, actor Actor, email string) (models.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := projectpolicy.RequireOwner(actor.UID, p); err != nil {
		return models.Project{}, err
	}

	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return models.Project{}, apperr.Invalid("Please enter a valid email address")
	}
	if p.HasCollaborator(email) {
		return models.Project{}, apperr.Conflict("Collaborator already exists")
	}

	// The store re-checks membership atomically; a concurrent add of the
	// same address surfaces as a conflict here.
	updated, err := s.Projects.AddCollaborator(ctx, id, email)
	if err != nil {
		return models.Project{}, err
	}
	s.Log.Info("collaborator added", zap.String("project_id", id), zap.String("email", email))
	return updated, nil
}

func cleanTags(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
