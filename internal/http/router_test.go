package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"askdocs/internal/corpus"
	"askdocs/internal/rag"
	"askdocs/internal/retrieval"
	"askdocs/internal/storage"
)

type stubRetriever struct{}

func (stubRetriever) Retrieve(_ context.Context, _ string, _ int) ([]corpus.ScoredChunk, error) {
	return []corpus.ScoredChunk{
		{ChunkRecord: corpus.ChunkRecord{ChunkID: "a_p1_0", Filename: "a.md", Page: 1, Text: "alpha"}},
	}, nil
}

type stubEngine struct{}

func (stubEngine) Answer(_ context.Context, _ string, _ []corpus.ScoredChunk) (rag.Result, error) {
	return rag.Result{Answer: "ok", Citations: []rag.Citation{}}, nil
}

type stubRebuilder struct{}

func (stubRebuilder) Rebuild(_ context.Context, _ string) error { return nil }

type stubFactStore struct{}

func (stubFactStore) Add(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}

func (stubFactStore) List(_ context.Context, _ string) ([]storage.Fact, error) {
	return nil, nil
}

func (stubFactStore) ListAll(_ context.Context) ([]storage.Fact, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(&Deps{
		Retriever: stubRetriever{},
		Engine:    stubEngine{},
		Pipeline:  stubRebuilder{},
		Manager:   retrieval.NewManager(filepath.Join(t.TempDir(), "artifacts")),
		FactStore: stubFactStore{},
		SourceDir: "docs",
		TopK:      5,
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"ask", http.MethodPost, "/api/ask", `{"question":"q"}`, http.StatusOK},
		{"reindex", http.MethodPost, "/api/reindex", "", http.StatusOK},
		{"health without index", http.MethodGet, "/api/health", "", http.StatusServiceUnavailable},
		{"memory", http.MethodGet, "/api/memory", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/memory", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request ID")
	}
}

func TestRouterKeepsClientRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/memory", nil)
	req.Header.Set("X-Request-ID", "client-id-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-123" {
		t.Errorf("X-Request-ID = %q, want client-supplied value", got)
	}
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
