// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a workspace shared by a set of members. The owner is always a
// member. Members and Invitations are disjoint for any given user id; both
// arrays are mirrored on the User documents of the users they reference.
//
// Avatars are embedded and append-only: an avatar belongs to exactly one
// project and is never mutated or removed once recorded.
type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Title     string             `bson:"title" json:"title"`
	Region    string             `bson:"region" json:"region"`
	APIKey    string             `bson:"api_key" json:"api_key"`
	APISecret string             `bson:"api_secret" json:"-"`

	Members     []primitive.ObjectID `bson:"members" json:"members"`
	Invitations []primitive.ObjectID `bson:"invitations" json:"invitations"`
	Avatars     []Avatar             `bson:"avatars" json:"avatars"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProjectView is the display projection of a project: member ids joined to
// usernames, api_secret withheld.
type ProjectView struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Title       string               `bson:"title" json:"title"`
	Region      string               `bson:"region" json:"region"`
	APIKey      string               `bson:"api_key" json:"api_key"`
	Members     []MemberView         `bson:"members" json:"members"`
	Invitations []primitive.ObjectID `bson:"invitations" json:"invitations"`
	Avatars     []Avatar             `bson:"avatars" json:"avatars"`
}

// MemberView pairs a member's id with their username for display.
type MemberView struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
}

// InvitationView is a pending invitation as shown to the invited user:
// the project plus its author's username.
type InvitationView struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Region string             `bson:"region" json:"region"`
	Author string             `bson:"author" json:"author"`
}
