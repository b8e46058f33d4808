package profilestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the profiles collection name.
const Collection = "profiles"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetOrCreate returns the profile for p.ID, inserting p when none exists.
// created reports whether this call inserted it.
//
// The insert is a single upsert keyed by _id with $setOnInsert, so
// concurrent first sign-ins for one uid yield one document and an existing
// profile is never modified.
func (s *Store) GetOrCreate(ctx context.Context, p models.Profile) (models.Profile, bool, error) {
	onInsert := bson.M{
		"email":        p.Email,
		"display_name": p.DisplayName,
		"created_at":   time.Now().UTC().Truncate(time.Millisecond),
	}
	if p.PhotoURL != "" {
		onInsert["photo_url"] = p.PhotoURL
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	created := false
	switch {
	case err == nil:
		created = res.UpsertedCount == 1
	case wafflemongo.IsDup(err):
		// Lost the upsert race; the winner's document is read below.
	default:
		return models.Profile{}, false, err
	}

	out, err := s.GetByID(ctx, p.ID)
	if err != nil {
		return models.Profile{}, false, err
	}
	return out, created, nil
}

// GetByID loads the profile for uid.
func (s *Store) GetByID(ctx context.Context, uid string) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, apperr.NotFound("Profile not found")
		}
		return models.Profile{}, err
	}
	return p, nil
}

// SetRole stores role as given and bumps updated_at.
func (s *Store) SetRole(ctx context.Context, uid, role string) (models.Profile, error) {
	return s.update(ctx, uid, bson.M{"role": role})
}

// SetDisplayName replaces the display name and bumps updated_at.
func (s *Store) SetDisplayName(ctx context.Context, uid, name string) (models.Profile, error) {
	return s.update(ctx, uid, bson.M{"display_name": name})
}

func (s *Store) update(ctx context.Context, uid string, set bson.M) (models.Profile, error) {
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": set, "$currentDate": bson.M{"updated_at": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, apperr.NotFound("Profile not found")
		}
		return models.Profile{}, err
	}
	return p, nil
}
