// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Index names. Tests and operators refer to them directly.
const (
	ProjectsOwnerCreated = "idx_projects_owner_created"
	ProjectsGitHubRepo   = "idx_projects_github_repo"
	ProfilesEmail        = "idx_profiles_email"
	SignInsUIDCreated    = "idx_signins_uid_created"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureProjects(ctx, db); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureSignIns(ctx, db); err != nil {
		problems = append(problems, "signins: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}

// Mongo/DocDB return IndexOptionsConflict when the same keys already exist
// under another name or with other options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // key signature -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// recreate drops ex and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("drop %s: %w", ex.Name, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isDuplicateKeyErr(err) {
			return errors.New("cannot create unique index (duplicates present)")
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)))

		existing, err := listIndexes(ctx, coll)
		if err != nil {
			// Collection may not exist yet; CreateOne creates it.
			existing = map[string]existingIndex{}
		}

		if ex, ok := existing[sig]; ok {
			if isUnique(unique) == isUnique(ex.Unique) && (name == "" || ex.Name == name) {
				log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
				continue
			}
			// Name or options differ: drop and recreate.
			if err := recreate(ctx, coll, ex, m); err != nil {
				log.Warn("index recreate failed", zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
				continue
			}
			log.Info("index recreated", zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflictErr(err) {
			// Raced with another instance creating the same keys.
			if again, lerr := listIndexes(ctx, coll); lerr == nil {
				if ex, ok := again[sig]; ok && isUnique(unique) == isUnique(ex.Unique) {
					log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
					continue
				}
			}
		}
		if err != nil {
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		log.Info("index ensured", zap.String("created_name", created), zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureProjects(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("projects")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Dashboard listing: owner's projects, newest first.
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName(ProjectsOwnerCreated),
		},
		// Webhook lookup by repository URL. Not unique: a repository may be
		// linked from more than one project and the oldest one wins.
		{
			Keys:    bson.D{{Key: "github_repo", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName(ProjectsGitHubRepo).SetSparse(true),
		},
	})
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("profiles")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Not unique: one person may sign in through two providers with the
		// same address and get two profiles.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(ProfilesEmail),
		},
	})
}

func ensureSignIns(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("signins")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// A user's recent sign-ins, newest first.
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName(SignInsUIDCreated),
		},
	})
}
