// internal/app/features/projects/handler.go
package projects

import (
	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/cloud"
	"go.uber.org/zap"
)

// Handler owns the project endpoints: creation, listing, the joined
// project view, collaborator search, and API credentials.
//
// It is constructed once at startup in bootstrap, sharing the stores, the
// object store, and the logger with the other features.
type Handler struct {
	Users    *userstore.Store
	Projects *projectstore.Store
	Store    cloud.ObjectStore
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, projects *projectstore.Store, store cloud.ObjectStore, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Projects: projects,
		Store:    store,
		Log:      logger,
	}
}
