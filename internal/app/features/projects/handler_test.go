package projects_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	projectsfeature "github.com/stampahq/stampa/internal/app/features/projects"
	projectstore "github.com/stampahq/stampa/internal/app/store/projects"
	userstore "github.com/stampahq/stampa/internal/app/store/users"
	"github.com/stampahq/stampa/internal/app/system/cloud"
	"github.com/stampahq/stampa/internal/app/system/keygen"
	"github.com/stampahq/stampa/internal/testutil"
	"go.uber.org/zap"
)

type fakeObjectStore struct {
	buckets []string
}

func (f *fakeObjectStore) CreateBucket(ctx context.Context, bucket, region string) error {
	f.buckets = append(f.buckets, bucket)
	return nil
}

func (f *fakeObjectStore) Put(ctx context.Context, bucket, region, key, contentType string, body []byte) (string, error) {
	return cloud.URL(bucket, region, key), nil
}

func (f *fakeObjectStore) Get(ctx context.Context, bucket, region, key string) ([]byte, error) {
	return nil, nil
}

func newTestHandler(t *testing.T) (*projectsfeature.Handler, *testutil.Fixtures, *fakeObjectStore) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := &fakeObjectStore{}
	h := projectsfeature.NewHandler(userstore.New(db), projectstore.New(db), store, zap.NewNop())
	return h, testutil.NewFixtures(t, db), store
}

func TestHandler_Create(t *testing.T) {
	h, fixtures, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/projects", owner.ID, map[string]string{
		"title":  "Studio",
		"region": "eu-west-3",
	})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		APIKey string `json:"api_key"`
	}
	testutil.DecodeJSONResponse(t, rec, &resp)
	if resp.Title != "Studio" {
		t.Errorf("title: got %q, want %q", resp.Title, "Studio")
	}
	if len(resp.APIKey) != keygen.CredentialLength {
		t.Errorf("api key length: got %d, want %d", len(resp.APIKey), keygen.CredentialLength)
	}

	// The project bucket is named after the project id.
	if len(store.buckets) != 1 || store.buckets[0] != resp.ID {
		t.Errorf("buckets: got %v, want [%s]", store.buckets, resp.ID)
	}

	// The owner's membership is mirrored on the user document.
	u, err := userstore.New(fixtures.DB()).GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(u.Projects) != 1 {
		t.Errorf("expected 1 membership on the owner, got %d", len(u.Projects))
	}
}

func TestHandler_Create_MissingTitle(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")

	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/api/projects", owner.ID, map[string]string{
		"region": "eu-west-3",
	})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandler_Get(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/projects/"+project.ID.Hex(), owner.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", project.ID.Hex())
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Members []struct {
			Username string `json:"username"`
		} `json:"members"`
	}
	testutil.DecodeJSONResponse(t, rec, &resp)
	if len(resp.Members) != 1 || resp.Members[0].Username != "marcel" {
		t.Errorf("members: got %v, want the owner's username joined in", resp.Members)
	}
}

func TestHandler_Get_NotAMember(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	outsider := fixtures.CreateUser(ctx, "eve")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/projects/"+project.ID.Hex(), outsider.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", project.ID.Hex())
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandler_Get_BadProjectID(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/projects/garbage", owner.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", "garbage")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandler_List(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	marcel := fixtures.CreateUser(ctx, "marcel")
	giulia := fixtures.CreateUser(ctx, "giulia")
	fixtures.CreateProject(ctx, marcel, "Mine")
	fixtures.CreateProject(ctx, giulia, "Theirs")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, "/api/projects", marcel.ID, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp []struct {
		Title string `json:"title"`
	}
	testutil.DecodeJSONResponse(t, rec, &resp)
	if len(resp) != 1 || resp[0].Title != "Mine" {
		t.Errorf("projects: got %v, want only the caller's project", resp)
	}
}

func TestHandler_AvailableUsers(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	fixtures.CreateUser(ctx, "maria")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet,
		"/api/projects/"+project.ID.Hex()+"/available_users?username=mar", owner.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", project.ID.Hex())
	rec := httptest.NewRecorder()
	h.AvailableUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp []struct {
		Username string `json:"username"`
	}
	testutil.DecodeJSONResponse(t, rec, &resp)
	if len(resp) != 1 || resp[0].Username != "maria" {
		t.Errorf("available users: got %v, want [maria]", resp)
	}
}

func TestHandler_Credentials(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet,
		"/api/projects/"+project.ID.Hex()+"/credentials", owner.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", project.ID.Hex())
	rec := httptest.NewRecorder()
	h.Credentials(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var secret string
	testutil.DecodeJSONResponse(t, rec, &secret)
	if secret != project.APISecret {
		t.Errorf("secret: got %q, want %q", secret, project.APISecret)
	}
}

func TestHandler_Credentials_NotAMember(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "marcel")
	outsider := fixtures.CreateUser(ctx, "eve")
	project := fixtures.CreateProject(ctx, owner, "Studio")

	req := testutil.NewAuthenticatedRequest(t, http.MethodGet,
		"/api/projects/"+project.ID.Hex()+"/credentials", outsider.ID, nil)
	req = testutil.WithChiURLParam(req, "projectID", project.ID.Hex())
	rec := httptest.NewRecorder()
	h.Credentials(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
