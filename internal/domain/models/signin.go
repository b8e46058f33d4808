// internal/domain/models/signin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SignInRecord is one successful sign-in. Records are append-only.
type SignInRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID        string             `bson:"uid" json:"uid"`
	Provider   string             `bson:"provider" json:"provider"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	NewProfile bool               `bson:"new_profile" json:"newProfile"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
