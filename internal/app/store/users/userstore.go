// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the users collection.
//
// All membership/invitation mutations are idempotent set operations
// ($addToSet / $pull): re-applying one is a no-op, not an error. Only a
// filter that matches no document (unknown user id) is reported as NotFound.
// That property is what makes the multi-step flows in system/invitations
// safe to re-drive after a partial failure.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user with empty membership and invitation sets.
func (s *Store) Create(ctx context.Context, username, passwordHash, avatarURL string) (models.User, error) {
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
		AvatarURL:    avatarURL,
		Projects:     []primitive.ObjectID{},
		Invitations:  []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, apperr.New(apperr.UserExists, "user %s already exists", username)
		}
		return models.User{}, apperr.Wrap(apperr.StoreWriteFailure, err, "could not create user")
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "user %s was not found", id.Hex())
		}
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not load user")
	}
	return &u, nil
}

// GetByUsername loads a user by exact username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "user %s was not found", username)
		}
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not load user")
	}
	return &u, nil
}

// IsMember reports whether the user's membership set contains projectID.
func (s *Store) IsMember(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": userID, "projects": projectID})
	if err != nil {
		return false, apperr.Wrap(apperr.StoreWriteFailure, err, "could not check membership")
	}
	return n > 0, nil
}

// AddMembership adds projectID to the user's membership set.
func (s *Store) AddMembership(ctx context.Context, userID, projectID primitive.ObjectID) error {
	return s.update(ctx, userID, bson.M{"$addToSet": bson.M{"projects": projectID}})
}

// AddInvitation adds projectID to the user's invitation set.
func (s *Store) AddInvitation(ctx context.Context, userID, projectID primitive.ObjectID) error {
	return s.update(ctx, userID, bson.M{"$addToSet": bson.M{"invitations": projectID}})
}

// RemoveInvitation removes projectID from the user's invitation set.
func (s *Store) RemoveInvitation(ctx context.Context, userID, projectID primitive.ObjectID) error {
	return s.update(ctx, userID, bson.M{"$pull": bson.M{"invitations": projectID}})
}

func (s *Store) update(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updated_at": time.Now().UTC()}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return apperr.Wrap(apperr.StoreWriteFailure, err, "could not update user")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user %s was not found", userID.Hex())
	}
	return nil
}

// SearchAvailable returns up to limit users whose username starts with
// prefix and who are not members of projectID. Pending invitees still show
// up here; duplicate invites are caught by the coordinator, not hidden by
// the search.
func (s *Store) SearchAvailable(ctx context.Context, prefix string, projectID primitive.ObjectID, limit int64) ([]models.AvailableUser, error) {
	filter := bson.M{
		"projects": bson.M{"$ne": projectID},
		"username": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)},
	}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"username": 1})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not search users")
	}
	var out []models.AvailableUser
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not search users")
	}
	return out, nil
}

// EnsureIndexes creates the unique username index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
