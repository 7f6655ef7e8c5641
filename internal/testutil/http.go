package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stampahq/stampa/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewJSONRequest creates an HTTP request carrying the given body as JSON.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates a JSON request with the given user id in
// context, bypassing the bearer-token middleware.
func NewAuthenticatedRequest(t *testing.T, method, target string, userID primitive.ObjectID, body any) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = NewJSONRequest(t, method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return auth.WithUserID(req, userID)
}

// DecodeJSONResponse unmarshals the recorded response body into dst.
func DecodeJSONResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}
