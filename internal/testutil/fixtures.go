package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/devcollab/devcollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProfile inserts a profile for uid.
func (f *Fixtures) CreateProfile(ctx context.Context, uid, email, displayName string) models.Profile {
	f.t.Helper()

	p := models.Profile{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateProject inserts an active project owned by ownerID with the owner
// as its only collaborator.
func (f *Fixtures) CreateProject(ctx context.Context, ownerID, ownerEmail, name string) models.Project {
	f.t.Helper()

	p := models.Project{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Description:   name + " description",
		Visibility:    models.VisibilityPrivate,
		OwnerID:       ownerID,
		OwnerEmail:    ownerEmail,
		Collaborators: []string{ownerEmail},
		Status:        models.ProjectStatusActive,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// LinkRepository sets the repository fields of an existing project.
func (f *Fixtures) LinkRepository(ctx context.Context, id primitive.ObjectID, url, repoID string) {
	f.t.Helper()

	_, err := f.db.Collection("projects").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"github_repo": url, "github_repo_id": repoID},
	})
	if err != nil {
		f.t.Fatalf("failed to link test repository: %v", err)
	}
}
