// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stampahq/stampa/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ctxKey int

const userIDKey ctxKey = 1

// Manager issues and verifies the bearer tokens that authenticate API
// requests. Tokens are HS256 JWTs whose subject is the user's ObjectID.
type Manager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

func NewManager(secret string, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, log: logger}
}

// IssueToken mints a signed token for the given user.
func (m *Manager) IssueToken(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyToken parses a compact token string and returns the user id it was
// issued for.
func (m *Manager) VerifyToken(token string) (primitive.ObjectID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(claims.Subject)
}

// RequireAuth rejects requests without a valid bearer token and makes the
// authenticated user id available via UserID.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := cutBearer(header)
		if !ok {
			httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := m.VerifyToken(raw)
		if err != nil {
			m.log.Debug("bearer token rejected", zap.Error(err))
			httpjson.WriteErrorMessage(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user's id placed by RequireAuth.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := r.Context().Value(userIDKey).(primitive.ObjectID)
	return id, ok
}

// WithUserID injects a user id into the request context. For tests.
func WithUserID(r *http.Request, id primitive.ObjectID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, id))
}

func cutBearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
