package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/config"
	"github.com/hanzi-archive/curator/internal/models"
	"github.com/hanzi-archive/curator/internal/session"
)

// fakeBackend is a minimal in-process stand-in for the remote catalog API.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(models.Identity{Username: req["username"], IsAdmin: true, Token: "tok-1"})
	})
	mux.HandleFunc("/api/works", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Work{{ID: "w1", Filename: "a.jpg"}})
	})
	mux.HandleFunc("/api/works/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/search/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Annotation{{ID: "a1", WorkID: "w1", Character: "永"}})
	})
	mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.User{
			{ID: "u1", Username: "admin"},
			{ID: "u2", Username: "alice"},
		})
	})
	mux.HandleFunc("/api/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/admin/homepage", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.HomepageItem{
			{ContentKey: "hero_title", ContentValue: "书法数据库", ContentType: "text"},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testHandler(t *testing.T, backendURL string) (*Handler, *session.Holder) {
	t.Helper()

	cfg := &config.Config{
		Backend:    config.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second},
		Thresholds: config.ThresholdConfig{AutoSelect: 90, LowCut: 80},
		Detect:     config.DetectConfig{Source: "backend"},
		TokenFile:  filepath.Join(t.TempDir(), "credentials.json"),
	}

	sessions := session.New(cfg.TokenFile)
	sessions.Restore()
	client := api.NewClient(cfg.Backend.BaseURL, sessions, cfg.Backend.Timeout)

	h, err := New(cfg, client, sessions)
	require.NoError(t, err)
	return h, sessions
}

func TestSessionLifecycle(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	// unauthenticated snapshot
	rec := httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest("GET", "/api/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, false, snap["isAuthenticated"])

	// login
	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"username":"admin","password":"secret"}`)
	h.HandleSession(rec, httptest.NewRequest("POST", "/api/session", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest("GET", "/api/session", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, true, snap["isAuthenticated"])
	assert.Equal(t, "admin", snap["username"])

	// logout
	rec = httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest("DELETE", "/api/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest("GET", "/api/session", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, false, snap["isAuthenticated"])
}

func TestSessionLoginRejected(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	h.HandleSession(rec, httptest.NewRequest("POST", "/api/session", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLoginRequiresFields(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	rec := httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest("POST", "/api/session", strings.NewReader(`{"username":"admin"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorksListAndDelete(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	rec := httptest.NewRecorder()
	h.HandleWorks(rec, httptest.NewRequest("GET", "/api/works", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var works []models.Work
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &works))
	require.Len(t, works, 1)

	// deletion without acknowledgement is refused
	rec = httptest.NewRecorder()
	h.HandleWorkDetail(rec, httptest.NewRequest("DELETE", "/api/works/w1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleWorkDetail(rec, httptest.NewRequest("DELETE", "/api/works/w1?confirm=true", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnnotationsFilterByWork(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	rec := httptest.NewRecorder()
	h.HandleAnnotations(rec, httptest.NewRequest("GET", "/api/annotations?work=w1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var annotations []models.Annotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &annotations))
	require.Len(t, annotations, 1)

	rec = httptest.NewRecorder()
	h.HandleAnnotations(rec, httptest.NewRequest("GET", "/api/annotations?work=other", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &annotations))
	assert.Empty(t, annotations)
}

func TestUserSelfDeleteForbidden(t *testing.T) {
	backend := fakeBackend(t)
	h, sessions := testHandler(t, backend.URL)
	require.NoError(t, sessions.Login(models.Identity{Username: "admin", Token: "tok-1"}))

	rec := httptest.NewRecorder()
	h.HandleUsers(rec, httptest.NewRequest("GET", "/api/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleUserDetail(rec, httptest.NewRequest("DELETE", "/api/users/u1?confirm=true", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleUserDetail(rec, httptest.NewRequest("DELETE", "/api/users/u2?confirm=true", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHomepageGroupedResponse(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	rec := httptest.NewRecorder()
	h.HandleHomepage(rec, httptest.NewRequest("GET", "/api/homepage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Hero     map[string]any   `json:"hero"`
		Features []map[string]any `json:"features"`
		Gallery  []map[string]any `json:"gallery"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "书法数据库", resp.Hero["Title"])
	assert.Len(t, resp.Features, 6)
	assert.Len(t, resp.Gallery, 4)
}

func TestHomepageUpdateUnknownKey(t *testing.T) {
	backend := fakeBackend(t)
	h, _ := testHandler(t, backend.URL)

	// seed the panel's row set
	rec := httptest.NewRecorder()
	h.HandleHomepage(rec, httptest.NewRequest("GET", "/api/homepage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/homepage/feature_9_title", strings.NewReader(`{"content_value":"x"}`))
	h.HandleHomepageDetail(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
