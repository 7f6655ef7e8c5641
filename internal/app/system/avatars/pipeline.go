// internal/app/system/avatars/pipeline.go
package avatars

import (
	"context"

	"github.com/google/uuid"
	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/cloud"
	"github.com/stampahq/stampa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Pipeline ingests inbound avatar images: decode, persist the blob to the
// project's region-scoped bucket, record the reference on the project.
// Everything before the object-store write is pure validation, so a bad
// payload never leaves a blob behind. The inverse failure — blob stored but
// the project append failing — leaves an orphaned object; the object store
// has no transactional append, so the orphan is accepted and logged rather
// than compensated.
type Pipeline struct {
	projects *projectstore.Store
	store    cloud.ObjectStore
	log      *zap.Logger
}

func NewPipeline(projects *projectstore.Store, store cloud.ObjectStore, logger *zap.Logger) *Pipeline {
	return &Pipeline{projects: projects, store: store, log: logger}
}

// Ingest validates, stores, and records one avatar for a project. The
// requester must be a current member. The declared MIME subtype is kept as
// the avatar's type; the detected format names the object's extension.
func (p *Pipeline) Ingest(ctx context.Context, projectID, requesterID primitive.ObjectID, name, imagePayload string) (models.Avatar, error) {
	project, err := p.projects.GetDoc(ctx, projectID)
	if err != nil {
		return models.Avatar{}, err
	}
	if !memberOf(project, requesterID) {
		return models.Avatar{}, apperr.New(apperr.NotAMember, "user %s is not in the project", requesterID.Hex())
	}

	subtype, data, err := ParsePayload(imagePayload)
	if err != nil {
		return models.Avatar{}, err
	}
	format, err := DecodeImage(data)
	if err != nil {
		return models.Avatar{}, err
	}

	key := uuid.New().String() + "." + format
	url, err := p.store.Put(ctx, project.ID.Hex(), project.Region, key, "image/"+subtype, data)
	if err != nil {
		return models.Avatar{}, apperr.Wrap(apperr.StoreWriteFailure, err, "could not store the avatar image")
	}

	avatar := models.Avatar{
		ID:       primitive.NewObjectID(),
		Name:     name,
		MimeType: subtype,
		URL:      url,
	}
	if err := p.projects.AppendAvatar(ctx, projectID, avatar); err != nil {
		// The blob stays behind; an append retry reuses a fresh key, so the
		// stale object is unreferenced garbage, not a correctness problem.
		p.log.Warn("avatar blob orphaned: project append failed after object store write",
			zap.String("project_id", projectID.Hex()),
			zap.String("key", key),
			zap.Error(err))
		return models.Avatar{}, err
	}
	return avatar, nil
}

func memberOf(project *models.Project, userID primitive.ObjectID) bool {
	for _, id := range project.Members {
		if id == userID {
			return true
		}
	}
	return false
}
