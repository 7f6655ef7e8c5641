// internal/app/features/auth/handler.go
package auth

import (
	"net/http"

	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/apperr"
	"github.com/stampahq/stampa/internal/app/system/auth"
	"github.com/stampahq/stampa/internal/app/system/avatars"
	"github.com/stampahq/stampa/internal/app/system/cloud"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"github.com/stampahq/stampa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler owns the public registration and login endpoints.
//
// Registration generates an initials avatar for the new account and stores
// it in the application avatar bucket before the user document is written,
// mirroring the rest of the system: blob first, record second.
type Handler struct {
	Users        *userstore.Store
	Store        cloud.ObjectStore
	Tokens       *auth.Manager
	AvatarBucket string
	AvatarRegion string
	Log          *zap.Logger
}

func NewHandler(users *userstore.Store, store cloud.ObjectStore, tokens *auth.Manager, avatarBucket, avatarRegion string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		Store:        store,
		Tokens:       tokens,
		AvatarBucket: avatarBucket,
		AvatarRegion: avatarRegion,
		Log:          logger,
	}
}

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if payload.Username == "" || payload.Password == "" {
		httpjson.WriteError(w, apperr.New(apperr.InvalidForm, "username and password are required"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "auth.register")
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}

	png, err := avatars.GenerateInitials(payload.Username)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}
	key := primitive.NewObjectID().Hex() + ".png"
	avatarURL, err := h.Store.Put(ctx, h.AvatarBucket, h.AvatarRegion, key, "image/png", png)
	if err != nil {
		h.Log.Error("registration avatar upload failed", zap.Error(err))
		httpjson.WriteError(w, apperr.Wrap(apperr.StoreWriteFailure, err, "could not store the account avatar"))
		return
	}

	user, err := h.Users.Create(ctx, payload.Username, string(hash), avatarURL)
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	token, err := h.Tokens.IssueToken(user.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}
	h.Log.Info("user registered", zap.String("user_id", user.ID.Hex()))
	httpjson.Write(w, http.StatusOK, tokenResponse{Token: token})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := httpjson.Decode(r, &payload); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "auth.login")
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, payload.Username)
	if err != nil {
		// The username is not confirmed or denied for failed logins.
		httpjson.WriteError(w, apperr.New(apperr.InvalidCredentials, "can not login user %s", payload.Username))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		httpjson.WriteError(w, apperr.New(apperr.InvalidCredentials, "can not login user %s", payload.Username))
		return
	}

	token, err := h.Tokens.IssueToken(user.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tokenResponse{Token: token})
}
