// internal/app/features/avatars/handler.go
package avatars

import (
	"net/http"

	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/avatars"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"github.com/stampahq/stampa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler accepts avatar uploads for a project.
type Handler struct {
	Pipeline *avatars.Pipeline
	Log      *zap.Logger
}

func NewHandler(pipeline *avatars.Pipeline, logger *zap.Logger) *Handler {
	return &Handler{Pipeline: pipeline, Log: logger}
}

type uploadPayload struct {
	Name    string `json:"name"`
	Project string `json:"project"`
	Image   string `json:"image"` // data:<type>/<subtype>;base64,<data>
}

// Create handles POST /avatars.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var payload uploadPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	projectID, err := primitive.ObjectIDFromHex(payload.Project)
	if err != nil {
		httpjson.WriteError(w, apperr.New(apperr.InvalidForm, "invalid project id"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "avatars.create")
	defer cancel()

	avatar, err := h.Pipeline.Ingest(ctx, projectID, userID, payload.Name, payload.Image)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, avatar)
}
