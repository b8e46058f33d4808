package collab

import (
	"context"
	"errors"
	"testing"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
)

func TestGetOrCreateProfile_DefaultsNameToEmailLocalPart(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	p, created, err := env.svc.GetOrCreateProfile(ctx, Identity{UID: "google:1", Email: "jane@x.com"})
	if err != nil {
		t.Fatalf("GetOrCreateProfile: %v", err)
	}
	if !created {
		t.Error("first sign-in should create the profile")
	}
	if p.DisplayName != "jane" {
		t.Errorf("DisplayName = %q, want %q", p.DisplayName, "jane")
	}
}

func TestGetOrCreateProfile_SecondSignInKeepsExisting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.GetOrCreateProfile(ctx, Identity{UID: "google:1", Email: "jane@x.com", DisplayName: "Jane"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.SetDisplayName(ctx, "google:1", "Jane D."); err != nil {
		t.Fatal(err)
	}

	p, created, err := env.svc.GetOrCreateProfile(ctx, Identity{UID: "google:1", Email: "jane@x.com", DisplayName: "Jane"})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second sign-in must not recreate the profile")
	}
	if p.DisplayName != "Jane D." {
		t.Errorf("DisplayName = %q, want the edited name kept", p.DisplayName)
	}
}

func TestGetOrCreateProfile_RequiresEmail(t *testing.T) {
	env := newTestEnv()
	_, _, err := env.svc.GetOrCreateProfile(context.Background(), Identity{UID: "github:9"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(env.profiles.byID) != 0 {
		t.Error("no profile should be stored")
	}
}

func TestSetRole_StoresUnlistedValues(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if _, _, err := env.svc.GetOrCreateProfile(ctx, Identity{UID: "google:1", Email: "jane@x.com"}); err != nil {
		t.Fatal(err)
	}

	for _, role := range []string{"developer", "astronaut"} {
		p, err := env.svc.SetRole(ctx, "google:1", "  "+role+" ")
		if err != nil {
			t.Fatalf("SetRole(%q): %v", role, err)
		}
		if p.Role != role {
			t.Errorf("Role = %q, want %q", p.Role, role)
		}
		if p.UpdatedAt == nil {
			t.Error("UpdatedAt should be set")
		}
	}
}

func TestSetRole_UnknownProfile(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.SetRole(context.Background(), "google:404", "designer")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetDisplayName_RejectsBlank(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	if _, _, err := env.svc.GetOrCreateProfile(ctx, Identity{UID: "google:1", Email: "jane@x.com"}); err != nil {
		t.Fatal(err)
	}
	_, err := env.svc.SetDisplayName(ctx, "google:1", "   ")
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
