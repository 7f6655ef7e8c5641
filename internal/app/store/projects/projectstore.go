// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"time"

	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides access to the projects collection.
//
// Member/invitation mutations follow the same discipline as the user store:
// $addToSet / $pull keyed by project id, no-op re-application allowed,
// NotFound only when the project id matches nothing. Avatars are appended
// with $push because the avatar list is append-only and every element
// carries a fresh ObjectID.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a new project with the owner as its only member.
func (s *Store) Create(ctx context.Context, owner primitive.ObjectID, title, region, apiKey, apiSecret string) (models.Project, error) {
	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		Owner:       owner,
		Title:       title,
		Region:      region,
		APIKey:      apiKey,
		APISecret:   apiSecret,
		Members:     []primitive.ObjectID{owner},
		Invitations: []primitive.ObjectID{},
		Avatars:     []models.Avatar{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, apperr.Wrap(apperr.StoreWriteFailure, err, "could not create project")
	}
	return p, nil
}

// GetDoc loads the raw project document.
func (s *Store) GetDoc(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "project %s was not found", id.Hex())
		}
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not load project")
	}
	return &p, nil
}

// Get returns the display projection of a project, with member ids joined
// to usernames through the users collection.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (*models.ProjectView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "members",
			"foreignField": "_id",
			"as":           "members",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":    1,
			"owner":  1,
			"title":  1,
			"region": 1,
			"api_key": 1,
			"members": bson.M{
				"_id":      1,
				"username": 1,
			},
			"invitations": 1,
			"avatars":     1,
		}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not load project")
	}
	var views []models.ProjectView
	if err := cur.All(ctx, &views); err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not load project")
	}
	if len(views) == 0 {
		return nil, apperr.New(apperr.NotFound, "project %s was not found", id.Hex())
	}
	return &views[0], nil
}

// ListForUser returns every project whose member set contains userID.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not list projects")
	}
	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not list projects")
	}
	return out, nil
}

// ListInvitationsForUser returns the pending invitations of a user as
// display views: project title, region, and the owner's username.
func (s *Store) ListInvitationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.InvitationView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"invitations": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "owner_info",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":    1,
			"title":  1,
			"region": 1,
			"author": bson.M{"$first": "$owner_info.username"},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not list invitations")
	}
	var out []models.InvitationView
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Wrap(apperr.StoreWriteFailure, err, "could not list invitations")
	}
	return out, nil
}

// Credentials returns the project's API secret.
func (s *Store) Credentials(ctx context.Context, id primitive.ObjectID) (string, error) {
	p, err := s.GetDoc(ctx, id)
	if err != nil {
		return "", err
	}
	return p.APISecret, nil
}

// AddMember adds userID to the project's member set.
func (s *Store) AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return s.update(ctx, projectID, bson.M{"$addToSet": bson.M{"members": userID}})
}

// AddInvitation adds userID to the project's invitation set.
func (s *Store) AddInvitation(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return s.update(ctx, projectID, bson.M{"$addToSet": bson.M{"invitations": userID}})
}

// RemoveInvitation removes userID from the project's invitation set.
func (s *Store) RemoveInvitation(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return s.update(ctx, projectID, bson.M{"$pull": bson.M{"invitations": userID}})
}

// AppendAvatar records an ingested avatar on the project.
func (s *Store) AppendAvatar(ctx context.Context, projectID primitive.ObjectID, avatar models.Avatar) error {
	return s.update(ctx, projectID, bson.M{"$push": bson.M{"avatars": avatar}})
}

func (s *Store) update(ctx context.Context, projectID primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updated_at": time.Now().UTC()}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return apperr.Wrap(apperr.StoreWriteFailure, err, "could not update project")
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "project %s was not found", projectID.Hex())
	}
	return nil
}
