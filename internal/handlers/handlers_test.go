package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"video-editor/internal/database"
	"video-editor/internal/mediatypes"
	"video-editor/internal/startup"
)

// setupTestHandlers creates handlers over a fresh SQLite database.
func setupTestHandlers(t *testing.T) (*Handlers, *database.Database) {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	config := &startup.Config{PixelsPerSecond: 100, SnapTolerancePx: 8}
	return New(db, config), db
}

func setupTestProject(t *testing.T, db *database.Database) *database.Project {
	t.Helper()

	p, err := db.CreateProject(context.Background(), "test project")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	return p
}

func addTestElement(t *testing.T, db *database.Database, projectID, laneID string, kind mediatypes.Kind, start, duration float64) *database.Element {
	t.Helper()

	el, err := db.AddElement(context.Background(), projectID, database.NewElement{
		LaneID: laneID, Kind: kind, StartTime: start, Duration: duration,
	})
	if err != nil {
		t.Fatalf("AddElement failed: %v", err)
	}
	return el
}

// newRequest builds a request with mux route variables set.
func newRequest(t *testing.T, method, target string, body interface{}, vars map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestNewAppliesEditorDefaults(t *testing.T) {
	t.Parallel()

	h := New(nil, &startup.Config{})
	if h.pxPerSec != 50 || h.tolerance != 8 {
		t.Errorf("defaults = %v px/s, %v px", h.pxPerSec, h.tolerance)
	}
}

func TestHealthCheck(t *testing.T) {
	h, db := setupTestHandlers(t)
	p := setupTestProject(t, db)
	addTestElement(t, db, p.ID, "Text-0", mediatypes.KindText, 0, 5)

	w := httptest.NewRecorder()
	h.HealthCheck(w, newRequest(t, http.MethodGet, "/health", nil, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	decodeBody(t, w, &resp)
	if resp.Status != statusHealthy || !resp.Ready {
		t.Errorf("response = %+v", resp)
	}
	if resp.TotalProjects != 1 || resp.TotalElements != 1 {
		t.Errorf("stats = %d projects, %d clips", resp.TotalProjects, resp.TotalElements)
	}
	if resp.SchemaVersion == "" {
		t.Error("schema version missing")
	}
	if resp.LastImport != nil {
		t.Errorf("lastImport = %v, want none before any import", resp.LastImport)
	}
}

func TestHealthCheckDatabaseClosed(t *testing.T) {
	h, db := setupTestHandlers(t)
	_ = db.Close()

	w := httptest.NewRecorder()
	h.HealthCheck(w, newRequest(t, http.MethodGet, "/health", nil, nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}

	w = httptest.NewRecorder()
	h.ReadinessCheck(w, newRequest(t, http.MethodGet, "/readyz", nil, nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness status = %d, want 503", w.Code)
	}
}

func TestReadinessAndLiveness(t *testing.T) {
	h, _ := setupTestHandlers(t)

	w := httptest.NewRecorder()
	h.ReadinessCheck(w, newRequest(t, http.MethodGet, "/readyz", nil, nil))
	if w.Code != http.StatusOK {
		t.Errorf("readiness status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	h.LivenessCheck(w, newRequest(t, http.MethodGet, "/livez", nil, nil))
	var resp map[string]string
	decodeBody(t, w, &resp)
	if resp["status"] != "alive" {
		t.Errorf("liveness = %v", resp)
	}

	w = httptest.NewRecorder()
	h.LivenessCheck(w, newRequest(t, http.MethodHead, "/livez", nil, nil))
	if w.Body.Len() != 0 {
		t.Errorf("HEAD liveness wrote a body: %q", w.Body.String())
	}
}

func TestGetVersion(t *testing.T) {
	h, _ := setupTestHandlers(t)

	w := httptest.NewRecorder()
	h.GetVersion(w, newRequest(t, http.MethodGet, "/version", nil, nil))

	var info startup.BuildInfo
	decodeBody(t, w, &info)
	if info.Version != startup.Version {
		t.Errorf("version = %q, want %q", info.Version, startup.Version)
	}
	if w.Header().Get("Cache-Control") != "no-cache" {
		t.Error("version response should not be cached")
	}
}
