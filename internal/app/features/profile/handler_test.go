package profile_test

import (
	"net/http"
	"testing"

	"github.com/devcollab/devcollab/internal/app/collab"
	"github.com/devcollab/devcollab/internal/app/features/profile"
	profilestore "github.com/devcollab/devcollab/internal/app/store/profiles"
	signinstore "github.com/devcollab/devcollab/internal/app/store/signins"
	"github.com/devcollab/devcollab/internal/app/system/jsonio"
	"github.com/devcollab/devcollab/internal/domain/models"
	"github.com/devcollab/devcollab/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *profile.Handler {
	h, _ := newTestHandlerWithHistory(t)
	return h
}

func newTestHandlerWithHistory(t *testing.T) (*profile.Handler, *signinstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := testutil.Owner()
	testutil.NewFixtures(t, db).CreateProfile(ctx, owner.ID, owner.Email, owner.Name)

	svc := &collab.Service{Profiles: profilestore.New(db), Log: zap.NewNop()}
	history := signinstore.New(db)
	return profile.NewHandler(svc, history, zap.NewNop()), history
}

func TestServeProfile(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/profile", nil, testutil.Owner()))

	rec.AssertStatus(t, http.StatusOK)
	var p models.Profile
	rec.DecodeJSON(t, &p)
	if p.ID != testutil.Owner().ID || p.Email != testutil.Owner().Email {
		t.Errorf("profile = %+v", p)
	}
}

func TestServeProfile_NoProfile(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/profile", nil, testutil.Stranger()))

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleSetRole(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		role   string
	}{
		{"known role", map[string]string{"role": "developer"}, http.StatusOK, "developer"},
		{"unlisted role is stored", map[string]string{"role": "astronaut"}, http.StatusOK, "astronaut"},
		{"missing role", map[string]string{}, http.StatusBadRequest, ""},
		{"malformed body", "{", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t)
			rec := testutil.NewRecorder()
			h.HandleSetRole(rec, testutil.NewAuthenticatedRequest(http.MethodPut, "/api/profile/role", tc.body, testutil.Owner()))

			rec.AssertStatus(t, tc.status)
			if tc.status != http.StatusOK {
				var body jsonio.ErrorBody
				rec.DecodeJSON(t, &body)
				if body.Code != "invalid_input" {
					t.Errorf("code = %q", body.Code)
				}
				return
			}
			var p models.Profile
			rec.DecodeJSON(t, &p)
			if p.Role != tc.role {
				t.Errorf("role = %q, want %q", p.Role, tc.role)
			}
			if p.UpdatedAt == nil {
				t.Error("updatedAt should be set")
			}
		})
	}
}

func TestHandleSetDisplayName(t *testing.T) {
	h := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleSetDisplayName(rec, testutil.NewAuthenticatedRequest(http.MethodPut, "/api/profile/display-name",
		map[string]string{"displayName": "  Jane D.  "}, testutil.Owner()))
	rec.AssertStatus(t, http.StatusOK)
	var p models.Profile
	rec.DecodeJSON(t, &p)
	if p.DisplayName != "Jane D." {
		t.Errorf("displayName = %q", p.DisplayName)
	}

	rec = testutil.NewRecorder()
	h.HandleSetDisplayName(rec, testutil.NewAuthenticatedRequest(http.MethodPut, "/api/profile/display-name",
		map[string]string{"displayName": " "}, testutil.Owner()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeSignIns(t *testing.T) {
	h, history := newTestHandlerWithHistory(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := testutil.Owner()
	for i := 0; i < 3; i++ {
		if err := history.Create(ctx, models.SignInRecord{UID: owner.ID, Provider: "google"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := history.Create(ctx, models.SignInRecord{UID: testutil.Stranger().ID, Provider: "github"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := testutil.NewRecorder()
	h.ServeSignIns(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/profile/sign-ins?limit=2", nil, owner))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		SignIns []models.SignInRecord `json:"signIns"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.SignIns) != 2 {
		t.Fatalf("got %d sign-ins, want 2", len(body.SignIns))
	}
	for _, s := range body.SignIns {
		if s.UID != owner.ID {
			t.Errorf("leaked another user's sign-in: %+v", s)
		}
	}
}

func TestServeSignIns_BadLimit(t *testing.T) {
	h := newTestHandler(t)

	for _, q := range []string{"limit=abc", "limit=-1", "limit=0"} {
		rec := testutil.NewRecorder()
		h.ServeSignIns(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/profile/sign-ins?"+q, nil, testutil.Owner()))
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeRoles(t *testing.T) {
	h := profile.NewHandler(nil, nil, zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeRoles(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/profile/roles", nil, testutil.Owner()))

	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Roles []models.ProfileRole `json:"roles"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Roles) != len(models.AllProfileRoles) {
		t.Fatalf("got %d roles, want %d", len(body.Roles), len(models.AllProfileRoles))
	}
	if body.Roles[0].Value != models.RoleDeveloper || body.Roles[0].Label != "Developer" {
		t.Errorf("first role = %+v", body.Roles[0])
	}
}
