package profilestore_test

import (
	"errors"
	"sync"
	"testing"

	profilestore "github.com/devcollab/devcollab/internal/app/store/profiles"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"github.com/devcollab/devcollab/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_GetOrCreate_CreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, created, err := store.GetOrCreate(ctx, models.Profile{ID: "google:1", Email: "jane@x.com", DisplayName: "jane"})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("expected first call to create the profile")
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// A second sign-in with different claims must not modify the profile.
	second, created, err := store.GetOrCreate(ctx, models.Profile{ID: "google:1", Email: "other@x.com", DisplayName: "Other"})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("expected second call to find the existing profile")
	}
	if second.Email != "jane@x.com" || second.DisplayName != "jane" {
		t.Errorf("existing profile was modified: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestStore_GetOrCreate_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := store.GetOrCreate(ctx, models.Profile{ID: "github:7", Email: "a@x.com", DisplayName: "a"})
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	count, err := db.Collection(profilestore.Collection).CountDocuments(ctx, bson.M{"_id": "github:7"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 profile, got %d", count)
	}
	if createdCount != 1 {
		t.Errorf("expected exactly one creator, got %d", createdCount)
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProfile(ctx, "google:2", "bob@x.com", "bob")

	p, err := store.SetRole(ctx, "google:2", models.RoleDesigner)
	if err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if p.Role != models.RoleDesigner {
		t.Errorf("Role = %q", p.Role)
	}
	if p.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}

	// Values outside the enum are stored as given.
	p, err = store.SetRole(ctx, "google:2", "astronaut")
	if err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if p.Role != "astronaut" {
		t.Errorf("Role = %q", p.Role)
	}
}

func TestStore_SetRole_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.SetRole(ctx, "google:missing", models.RoleDeveloper)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetDisplayName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateProfile(ctx, "google:3", "cy@x.com", "cy")

	p, err := store.SetDisplayName(ctx, "google:3", "Cy Young")
	if err != nil {
		t.Fatalf("SetDisplayName failed: %v", err)
	}
	if p.DisplayName != "Cy Young" || p.Email != "cy@x.com" {
		t.Errorf("unexpected profile %+v", p)
	}
}
