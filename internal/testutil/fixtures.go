package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stampahq/stampa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given username.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		AvatarURL:    "https://stampa-user-avatars.s3.eu-west-3.amazonaws.com/" + username + ".png",
		Projects:     []primitive.ObjectID{},
		Invitations:  []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateProject creates a test project owned by the given user, with the
// owner as its only member, and records the membership on the owner's user
// document the way the project create flow does.
func (f *Fixtures) CreateProject(ctx context.Context, owner models.User, title string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:          primitive.NewObjectID(),
		Owner:       owner.ID,
		Title:       title,
		Region:      "eu-west-3",
		APIKey:      "k3yk3yk",
		APISecret:   "s3cr3ts",
		Members:     []primitive.ObjectID{owner.ID},
		Invitations: []primitive.ObjectID{},
		Avatars:     []models.Avatar{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	f.addToSet(ctx, "users", owner.ID, "projects", project.ID)

	return project
}

// CreateInvitedPair invites the given user to the project on both sides,
// mirroring what the invitation coordinator writes: the project id on the
// user's invitation list and the user id on the project's.
func (f *Fixtures) CreateInvitedPair(ctx context.Context, project models.Project, invitee models.User) {
	f.t.Helper()

	f.addToSet(ctx, "users", invitee.ID, "invitations", project.ID)
	f.addToSet(ctx, "projects", project.ID, "invitations", invitee.ID)
}

// AddMember records an existing membership on both the project and the user.
func (f *Fixtures) AddMember(ctx context.Context, project models.Project, member models.User) {
	f.t.Helper()

	f.addToSet(ctx, "projects", project.ID, "members", member.ID)
	f.addToSet(ctx, "users", member.ID, "projects", project.ID)
}

func (f *Fixtures) addToSet(ctx context.Context, collection string, id primitive.ObjectID, field string, value primitive.ObjectID) {
	f.t.Helper()

	res, err := f.db.Collection(collection).UpdateByID(ctx,
		id,
		bson.M{"$addToSet": bson.M{field: value}},
	)
	if err != nil {
		f.t.Fatalf("failed to update %s fixture: %v", collection, err)
	}
	if res.MatchedCount == 0 {
		f.t.Fatalf("fixture %s document %s not found", collection, id.Hex())
	}
}
