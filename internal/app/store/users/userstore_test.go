package userstore_test

import (
	"testing"

	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, "marcel", "hash", "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID.IsZero() {
		t.Error("expected a generated id")
	}
	if u.Projects == nil || u.Invitations == nil {
		t.Error("expected empty, non-nil membership and invitation sets")
	}

	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"username": "marcel"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := userstore.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, "marcel", "hash", ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, "marcel", "otherhash", "")
	if !apperr.IsKind(err, apperr.UserExists) {
		t.Fatalf("expected UserExists, got %v", err)
	}
}

func TestStore_GetByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := fixtures.CreateUser(ctx, "giulia")

	u, err := store.GetByUsername(ctx, "giulia")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("ID: got %s, want %s", u.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_GetByUsername_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByUsername(ctx, "nobody")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestStore_AddMembership_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "marcel")
	projectID := primitive.NewObjectID()

	if err := store.AddMembership(ctx, user.ID, projectID); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}
	// Re-applying the same write must be a no-op, not an error.
	if err := store.AddMembership(ctx, user.ID, projectID); err != nil {
		t.Fatalf("repeated AddMembership failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Projects) != 1 {
		t.Errorf("expected 1 membership, got %d", len(got.Projects))
	}
}

func TestStore_AddMembership_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.AddMembership(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestStore_RemoveInvitation_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "marcel")
	projectID := primitive.NewObjectID()

	if err := store.AddInvitation(ctx, user.ID, projectID); err != nil {
		t.Fatalf("AddInvitation failed: %v", err)
	}
	if err := store.RemoveInvitation(ctx, user.ID, projectID); err != nil {
		t.Fatalf("RemoveInvitation failed: %v", err)
	}
	// Removing an absent element succeeds.
	if err := store.RemoveInvitation(ctx, user.ID, projectID); err != nil {
		t.Fatalf("repeated RemoveInvitation failed: %v", err)
	}

	got, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Invitations) != 0 {
		t.Errorf("expected 0 invitations, got %d", len(got.Invitations))
	}
}

func TestStore_IsMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	ok, err := store.IsMember(ctx, owner.ID, project.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("expected owner to be a member")
	}

	ok, err = store.IsMember(ctx, primitive.NewObjectID(), project.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if ok {
		t.Error("expected unknown user to not be a member")
	}
}

func TestStore_SearchAvailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	fixtures.CreateUser(ctx, "maria")
	fixtures.CreateUser(ctx, "mario")
	fixtures.CreateUser(ctx, "giulia")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	// Members are excluded; non-matching prefixes are excluded.
	found, err := store.SearchAvailable(ctx, "mar", project.ID, 5)
	if err != nil {
		t.Fatalf("SearchAvailable failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 available users, got %d", len(found))
	}
	for _, u := range found {
		if u.Username == "marcel" {
			t.Error("project member should not appear in available users")
		}
	}
}

func TestStore_SearchAvailable_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "owner")
	project := fixtures.CreateProject(ctx, owner, "Studio")
	for _, name := range []string{"user1", "user2", "user3"} {
		fixtures.CreateUser(ctx, name)
	}

	found, err := store.SearchAvailable(ctx, "user", project.ID, 2)
	if err != nil {
		t.Fatalf("SearchAvailable failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected the limit of 2 results, got %d", len(found))
	}
}
