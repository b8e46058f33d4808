// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Project status values. New projects start active; nothing transitions
// them afterwards yet.
const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Project is a collaboration unit owned by one profile and shared with
// collaborator email addresses.
//
// NOTE:
//   - Collaborators are plain email strings, not profile references.
//     Invitees do not need an account.
//   - OwnerEmail is always present in Collaborators.
//   - GitHubRepo and GitHubRepoID are written together or not at all.
type Project struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Visibility  string             `bson:"visibility" json:"visibility"`

	OwnerID       string   `bson:"owner_id" json:"ownerId"`
	OwnerEmail    string   `bson:"owner_email" json:"ownerEmail"`
	Collaborators []string `bson:"collaborators" json:"collaborators"`

	GitHubRepo   string `bson:"github_repo,omitempty" json:"githubRepo,omitempty"`
	GitHubRepoID string `bson:"github_repo_id,omitempty" json:"githubRepoId,omitempty"`

	Readme string   `bson:"readme,omitempty" json:"readme,omitempty"`
	Tags   []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Status string   `bson:"status" json:"status"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// HasRepository reports whether a GitHub repository is linked.
func (p Project) HasRepository() bool {
	return p.GitHubRepo != ""
}

// HasCollaborator reports whether email is already listed (exact match).
func (p Project) HasCollaborator(email string) bool {
	for _, c := range p.Collaborators {
		if c == email {
			return true
		}
	}
	return false
}

// IsValidVisibility reports whether v is public or private.
func IsValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}
