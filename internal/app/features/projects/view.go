// internal/app/features/projects/view.go
package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"github.com/stampahq/stampa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const availableUserLimit = 5

// Get handles GET /projects/{projectID}. Members only; returns the joined
// view with member usernames.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "projects.get")
	defer cancel()

	member, err := h.Users.IsMember(ctx, userID, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if !member {
		httpjson.WriteError(w, apperr.New(apperr.NotAMember, "user %s is not in the project", userID.Hex()))
		return
	}

	view, err := h.Projects.Get(ctx, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, view)
}

// List handles GET /projects: every project the caller is a member of.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "projects.list")
	defer cancel()

	list, err := h.Projects.ListForUser(ctx, userID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

// AvailableUsers handles GET /projects/{projectID}/available_users?username=.
// Returns up to five users matching the prefix who are not yet members.
func (h *Handler) AvailableUsers(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectRequest(w, r)
	if !ok {
		return
	}
	prefix := r.URL.Query().Get("username")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "projects.available_users")
	defer cancel()

	member, err := h.Users.IsMember(ctx, userID, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if !member {
		httpjson.WriteError(w, apperr.New(apperr.NotAMember, "user %s is not in the project", userID.Hex()))
		return
	}

	users, err := h.Users.SearchAvailable(ctx, prefix, projectID, availableUserLimit)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

// Credentials handles GET /projects/{projectID}/credentials. Members only.
func (h *Handler) Credentials(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "projects.credentials")
	defer cancel()

	member, err := h.Users.IsMember(ctx, userID, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if !member {
		httpjson.WriteError(w, apperr.New(apperr.NotAMember, "user %s is not in the project", userID.Hex()))
		return
	}

	secret, err := h.Projects.Credentials(ctx, projectID)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, secret)
}

// projectRequest extracts the authenticated user and the projectID URL
// parameter, writing the error response itself when either is missing.
func (h *Handler) projectRequest(w http.ResponseWriter, r *http.Request) (userID, projectID primitive.ObjectID, ok bool) {
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
