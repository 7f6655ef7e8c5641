// internal/app/features/projects/create.go
package projects

import (
	"net/http"

	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"github.com/stampahq/stampa/internal/app/system/keygen"
	"github.com/stampahq/stampa/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type createPayload struct {
	Title  string `json:"title"`
	Region string `json:"region"`
}

// Create handles POST /projects.
//
// A project is born with its owner enrolled on both sides and a dedicated
// region-scoped bucket named after the project id. The three writes
// (project insert, user membership, bucket) have no shared transaction;
// failures past the insert surface as PartialTransition so the caller
// knows the project exists but is not fully provisioned.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var payload createPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if payload.Title == "" || payload.Region == "" {
		httpjson.WriteError(w, apperr.New(apperr.InvalidForm, "title and region are required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "projects.create")
	defer cancel()

	apiKey, apiSecret, err := keygen.NewCredentials()
	if err != nil {
		h.Log.Error("credential generation failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}

	project, err := h.Projects.Create(ctx, userID, payload.Title, payload.Region, apiKey, apiSecret)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if err := h.Users.AddMembership(ctx, userID, project.ID); err != nil {
		h.Log.Error("project created but owner membership write failed",
			zap.String("project_id", project.ID.Hex()), zap.Error(err))
		httpjson.WriteError(w, apperr.Wrap(apperr.PartialTransition, err, "project was only partially provisioned"))
		return
	}
	if err := h.Store.CreateBucket(ctx, project.ID.Hex(), project.Region); err != nil {
		h.Log.Error("project created but bucket provisioning failed",
			zap.String("project_id", project.ID.Hex()), zap.Error(err))
		httpjson.WriteError(w, apperr.Wrap(apperr.PartialTransition, err, "project was only partially provisioned"))
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("owner", userID.Hex()),
		zap.String("region", project.Region))
	httpjson.Write(w, http.StatusOK, project)
}
