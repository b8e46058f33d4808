package collab

import (
	"context"
	"fmt"
	"strings"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.uber.org/zap"
)

// Identity is what an identity provider asserts about a signed-in user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// GetOrCreateProfile returns the profile for id.UID, creating it from the
// identity claims on first sign-in. created reports whether it was created.
func (s *Service) GetOrCreateProfile(ctx context.Context, id Identity) (models.Profile, bool, error) {
	if id.UID == "" {
		return models.Profile{}, false, apperr.Invalid("uid is required")
	}
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return models.Profile{}, false, apperr.Invalid("An email address is required to sign in")
	}

	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = emailLocalPart(email)
	}

	p, created, err := s.Profiles.GetOrCreate(ctx, models.Profile{
		ID:          id.UID,
		Email:       email,
		DisplayName: name,
		PhotoURL:    id.PhotoURL,
	})
	if err != nil {
		return models.Profile{}, false, fmt.Errorf("get or create profile: %w", err)
	}
	if created {
		s.Log.Info("profile created", zap.String("uid", p.ID))
	}
	return p, created, nil
}

// GetProfile loads the profile for uid.
func (s *Service) GetProfile(ctx context.Context, uid string) (models.Profile, error) {
	return s.Profiles.GetByID(ctx, uid)
}

// SetRole records the caller's role. Values outside the known roles are
// stored as given.
func (s *Service) SetRole(ctx context.Context, uid, role string) (models.Profile, error) {
	role = strings.TrimSpace(role)
	if !models.IsKnownProfileRole(role) {
		s.Log.Debug("storing unlisted profile role", zap.String("uid", uid), zap.String("role", role))
	}
	return s.Profiles.SetRole(ctx, uid, role)
}

// SetDisplayName renames the caller.
func (s *Service) SetDisplayName(ctx context.Context, uid, name string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, apperr.Invalid("Display name is required")
	}
	return s.Profiles.SetDisplayName(ctx, uid, name)
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
