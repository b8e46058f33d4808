// internal/app/store/signins/signinstore.go
package signinstore

import (
	"context"
	"net/http"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/ratelimit"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the sign-in history collection name.
const Collection = "signins"

// MaxRecent caps how many records Recent returns.
const MaxRecent = 50

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts rec. A zero CreatedAt is set to now.
func (s *Store) Create(ctx context.Context, rec models.SignInRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// CreateFrom records a sign-in of uid through provider, taking the client
// address and user agent from r.
func (s *Store) CreateFrom(ctx context.Context, r *http.Request, uid, provider string, newProfile bool) error {
	return s.Create(ctx, models.SignInRecord{
		UID:        uid,
		Provider:   provider,
		IP:         ratelimit.ClientIP(r),
		UserAgent:  r.UserAgent(),
		NewProfile: newProfile,
	})
}

// Recent returns uid's latest sign-ins, newest first. limit is clamped to
// 1..MaxRecent.
func (s *Store) Recent(ctx context.Context, uid string, limit int) ([]models.SignInRecord, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	cur, err := s.c.Find(ctx,
		bson.M{"uid": uid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.SignInRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBefore removes records created before cutoff.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
