package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin roles. The "authority" role is the trusted off-chain entity
// allowed to submit commitment roots; "admin" may change engine
// configuration and clear a stuck randomness request.
const (
	RoleAdmin     = "admin"
	RoleAuthority = "authority"
)

// AdminUser represents a privileged user of the engine API.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
