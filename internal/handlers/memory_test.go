package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"askdocs/internal/storage"
)

type fakeFactStore struct {
	facts []storage.Fact
}

func (s *fakeFactStore) Add(_ context.Context, target, summary string) (bool, error) {
	s.facts = append(s.facts, storage.Fact{Target: target, Summary: summary, CreatedAt: time.Now()})
	return true, nil
}

func (s *fakeFactStore) List(_ context.Context, target string) ([]storage.Fact, error) {
	var out []storage.Fact
	for _, f := range s.facts {
		if f.Target == target {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFactStore) ListAll(_ context.Context) ([]storage.Fact, error) {
	return s.facts, nil
}

func doMemory(t *testing.T, h *MemoryHandler, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMemoryHandler_ListAll(t *testing.T) {
	store := &fakeFactStore{facts: []storage.Fact{
		{Target: "USER", Summary: "User's name is Ada", CreatedAt: time.Now()},
		{Target: "COMPANY", Summary: "Project uses bm25 in its stack", CreatedAt: time.Now()},
	}}
	h := NewMemoryHandler(store)

	w := doMemory(t, h, "/api/memory")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp MemoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Facts) != 2 {
		t.Errorf("got %d facts, want 2", len(resp.Facts))
	}
}

func TestMemoryHandler_FilterByTarget(t *testing.T) {
	store := &fakeFactStore{facts: []storage.Fact{
		{Target: "USER", Summary: "User's name is Ada"},
		{Target: "COMPANY", Summary: "Project uses bm25 in its stack"},
	}}
	h := NewMemoryHandler(store)

	w := doMemory(t, h, "/api/memory?target=user")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp MemoryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Facts) != 1 || resp.Facts[0].Target != "USER" {
		t.Errorf("facts = %+v", resp.Facts)
	}
}

func TestMemoryHandler_BadTarget(t *testing.T) {
	h := NewMemoryHandler(&fakeFactStore{})
	if w := doMemory(t, h, "/api/memory?target=OTHER"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMemoryHandler_Empty(t *testing.T) {
	h := NewMemoryHandler(&fakeFactStore{})

	w := doMemory(t, h, "/api/memory")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp MemoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Facts == nil || len(resp.Facts) != 0 {
		t.Errorf("facts should be an empty array, got %v", resp.Facts)
	}
}

func TestMemoryHandler_MethodNotAllowed(t *testing.T) {
	h := NewMemoryHandler(&fakeFactStore{})
	req := httptest.NewRequest(http.MethodPost, "/api/memory", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
