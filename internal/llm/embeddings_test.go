package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedTextsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := EmbeddingsResponse{}
		for range req.Input {
			resp.Data = append(resp.Data, EmbeddingData{Embedding: []float64{0.1, 0.2, 0.3}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "test-model", 3)
	vecs, err := client.EmbedTexts(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("EmbedTexts: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	if len(vecs[0]) != 3 {
		t.Errorf("vector size %d, want 3", len(vecs[0]))
	}
}

func TestEmbedTextsSizeMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2]}]}`))
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"one"}); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestEmbedTextsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client := NewEmbeddingsClient(server.URL, "k", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"one", "two"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:0", "k", "test-model", 3)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
