// internal/app/features/invitations/handler.go
package invitations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"github.com/stampahq/stampa/internal/app/system/invitations"
	"github.com/stampahq/stampa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler exposes the invitation lifecycle over HTTP. All transition logic
// lives in the coordinator; the handler only translates requests and error
// kinds.
type Handler struct {
	Coordinator *invitations.Coordinator
	Projects    *projectstore.Store
	Log         *zap.Logger
}

func NewHandler(coordinator *invitations.Coordinator, projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Coordinator: coordinator, Projects: projects, Log: logger}
}

type invitePayload struct {
	Username string `json:"username"`
	Project  string `json:"project"`
}

type okResponse struct {
	Status string `json:"status"`
}

// Invite handles POST /invitation.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	var payload invitePayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	projectID, err := primitive.ObjectIDFromHex(payload.Project)
	if err != nil {
		httpjson.WriteError(w, apperr.New(apperr.InvalidForm, "invalid project id"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "invitations.invite")
	defer cancel()

	if err := h.Coordinator.Invite(ctx, userID, projectID, payload.Username); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, okResponse{Status: "ok"})
}

// List handles GET /invitation: the caller's pending invitations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "invitations.list")
	defer cancel()

	list, err := h.Projects.ListInvitationsForUser(ctx, userID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// Accept handles POST /invitation/{projectID}/accept and returns the
// refreshed project view the caller just joined.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.transitionRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "invitations.accept")
	defer cancel()

	view, err := h.Coordinator.Accept(ctx, userID, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// Deny handles POST /invitation/{projectID}/deny.
func (h *Handler) Deny(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.transitionRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "invitations.deny")
	defer cancel()

	if err := h.Coordinator.Deny(ctx, userID, projectID); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, okResponse{Status: "ok"})
}

func (h *Handler) transitionRequest(w http.ResponseWriter, r *http.Request) (userID, projectID primitive.ObjectID, ok bool) {
	userID, ok = auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		httpjson.WriteError(w, apperr.New(apperr.InvalidForm, "invalid project id"))
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, projectID, true
}
