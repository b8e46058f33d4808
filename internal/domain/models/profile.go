// internal/domain/models/profile.go
package models

import "time"

// Profile is the per-user account record.
//
// NOTE:
//   - ID is the identity provider's uid (e.g. "google:1093...") and is the
//     document _id, so the store can create it with a single keyed upsert.
//   - Email is written once on creation and never updated.
type Profile struct {
	ID          string `bson:"_id" json:"uid"`
	Email       string `bson:"email" json:"email"`
	DisplayName string `bson:"display_name" json:"displayName"`
	PhotoURL    string `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Role        string `bson:"role,omitempty" json:"role,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
