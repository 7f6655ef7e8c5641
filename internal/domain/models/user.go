// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can own projects, belong to projects, and hold
// pending project invitations.
//
// NOTE:
//   - Projects and Invitations mirror the member/invitation arrays on the
//     Project documents. A project id appears in at most one of the two
//     arrays for a given user at any time. The two collections are updated
//     independently; every transition is written so that re-driving it
//     converges (see system/invitations).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	Projects    []primitive.ObjectID `bson:"projects" json:"projects"`
	Invitations []primitive.ObjectID `bson:"invitations" json:"invitations"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AvailableUser is the slim projection returned by username prefix search
// when picking collaborators to invite.
type AvailableUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
}
