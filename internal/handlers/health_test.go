package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"askdocs/internal/retrieval"
	"askdocs/internal/storage"
)

func doHealth(t *testing.T, h *HealthHandler) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Healthy(t *testing.T) {
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	h := NewHealthHandler(managerWithSnapshot(t), db)
	w := doHealth(t, h)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Checks["index"] != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("checks = %+v", resp.Checks)
	}
	if resp.Chunks != 2 {
		t.Errorf("chunks = %d, want 2", resp.Chunks)
	}
}

func TestHealthHandler_IndexNotBuilt(t *testing.T) {
	manager := retrieval.NewManager(filepath.Join(t.TempDir(), "artifacts"))
	h := NewHealthHandler(manager, nil)

	w := doHealth(t, h)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var resp HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "unhealthy" || resp.Checks["index"] != "error" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	h := NewHealthHandler(retrieval.NewManager(t.TempDir()), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
