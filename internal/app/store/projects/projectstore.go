package projectstore

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the projects collection name.
const Collection = "projects"

var errProjectNotFound = apperr.NotFound("Project not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts p with a new ID and creation time. Callers are responsible
// for the owner being in Collaborators.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	p.UpdatedAt = nil
	if p.Collaborators == nil {
		// $addToSet fails on a null field.
		p.Collaborators = []string{}
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByID loads a project. A malformed id is reported as not found.
func (s *Store) GetByID(ctx context.Context, id string) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, errProjectNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// ListByOwner yields the owner's projects, newest first. Each iteration runs
// a fresh query, so ranging twice reflects the store at that time.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) iter.Seq2[models.Project, error] {
	return func(yield func(models.Project, error) bool) {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
		cur, err := s.c.Find(ctx, bson.M{"owner_id": ownerID}, opts)
		if err != nil {
			yield(models.Project{}, err)
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var p models.Project
			if err := cur.Decode(&p); err != nil {
				if !yield(models.Project{}, err) {
					return
				}
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(models.Project{}, err)
		}
	}
}

// AddCollaborator appends email unless it is already listed, in one atomic
// update. It returns the updated project, or ErrAlreadyExists when email is
// present.
func (s *Store) AddCollaborator(ctx context.Context, id, email string) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, errProjectNotFound
	}

	p, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "collaborators": bson.M{"$ne": email}},
		bson.M{
			"$addToSet":    bson.M{"collaborators": email},
			"$currentDate": bson.M{"updated_at": true},
		},
	)
	if !errors.Is(err, apperr.ErrNotFound) {
		return p, err
	}

	// Nothing matched: either the project is gone or email is already there.
	n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if cerr != nil {
		return models.Project{}, cerr
	}
	if n == 0 {
		return models.Project{}, errProjectNotFound
	}
	return models.Project{}, apperr.Conflict("Collaborator already exists")
}

// SetRepository links a repository, writing URL and ID together.
func (s *Store) SetRepository(ctx context.Context, id, repoURL, repoID string) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, errProjectNotFound
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$set":         bson.M{"github_repo": repoURL, "github_repo_id": repoID},
		"$currentDate": bson.M{"updated_at": true},
	})
}

// SetReadme replaces the README.
func (s *Store) SetReadme(ctx context.Context, id, readme string) (models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Project{}, errProjectNotFound
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{
		"$set":         bson.M{"readme": readme},
		"$currentDate": bson.M{"updated_at": true},
	})
}

// FindByRepository returns the project linked to repoURL (exact match).
// Nothing enforces one project per repository; the oldest link wins.
func (s *Store) FindByRepository(ctx context.Context, repoURL string) (models.Project, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"github_repo": repoURL}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Project{}, errProjectNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Project{}, errProjectNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) findOneAndUpdate(ctx context.Context, filter, update bson.M) (models.Project, error) {
	var p models.Project
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Project{}, errProjectNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}
