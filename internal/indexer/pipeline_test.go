package indexer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"askdocs/internal/retrieval"
)

// hashEmbedder derives a deterministic unit vector from each text, so row
// alignment can be verified after parallel embedding.
type hashEmbedder struct {
	dim   int
	calls atomic.Int64
	fail  bool
}

func (e *hashEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.fail {
		return nil, errors.New("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		h := fnv.New32a()
		h.Write([]byte(text))
		seed := h.Sum32()
		v := make([]float32, e.dim)
		for d := range v {
			v[d] = float32((seed>>(d%8))&0xff) + 1
		}
		out[i] = v
	}
	return out, nil
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write doc: %v", err)
	}
}

func TestPipelineRebuild(t *testing.T) {
	sourceDir := t.TempDir()
	writeDoc(t, sourceDir, "alpha.txt", "alpha document about onboarding and benefits")
	writeDoc(t, sourceDir, "beta.md", "# Beta\n\nanother document about security policy")

	artifacts := filepath.Join(t.TempDir(), "artifacts")
	manager := retrieval.NewManager(artifacts)
	embedder := &hashEmbedder{dim: 4}
	p := NewPipeline(manager, embedder, "test-model", 4, Options{ChunkSize: 30, ChunkOverlap: 5, BatchSize: 2, Workers: 3})

	if err := p.Rebuild(context.Background(), sourceDir); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	snap := manager.Current()
	if snap == nil {
		t.Fatal("no snapshot installed after rebuild")
	}
	if snap.Index.Len() != len(snap.Chunks) {
		t.Fatalf("index rows (%d) != chunk records (%d)", snap.Index.Len(), len(snap.Chunks))
	}
	if snap.Meta.ModelName != "test-model" || snap.Meta.Dimension != 4 {
		t.Errorf("meta = %+v", snap.Meta)
	}
	if snap.Meta.ChunkCount != len(snap.Chunks) {
		t.Errorf("meta chunk count %d != %d records", snap.Meta.ChunkCount, len(snap.Chunks))
	}
	if !sort.SliceIsSorted(snap.Chunks, func(i, j int) bool {
		return snap.Chunks[i].ChunkID < snap.Chunks[j].ChunkID
	}) {
		t.Error("chunks should be sorted by chunk ID")
	}

	for _, name := range []string{"vectors.bin", "chunks.jsonl", "meta.json"} {
		if _, err := os.Stat(filepath.Join(artifacts, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestPipelineRowAlignment(t *testing.T) {
	sourceDir := t.TempDir()
	// Enough small docs to spread across several embedding batches.
	for i := 0; i < 9; i++ {
		writeDoc(t, sourceDir, fmt.Sprintf("doc%d.txt", i), fmt.Sprintf("unique content number %d for alignment", i))
	}

	manager := retrieval.NewManager(filepath.Join(t.TempDir(), "artifacts"))
	embedder := &hashEmbedder{dim: 4}
	p := NewPipeline(manager, embedder, "test-model", 4, Options{ChunkSize: 200, ChunkOverlap: 0, BatchSize: 2, Workers: 4})

	if err := p.Rebuild(context.Background(), sourceDir); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	snap := manager.Current()

	// Searching with a chunk's own embedding must return that chunk first:
	// parallel batch writes may not scramble row order.
	reference := &hashEmbedder{dim: 4}
	for i, chunk := range snap.Chunks {
		vecs, err := reference.EmbedTexts(context.Background(), []string{chunk.Text})
		if err != nil {
			t.Fatal(err)
		}
		hits, err := snap.Index.Search(vecs[0], 1)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != i {
			t.Fatalf("chunk %d (%s) not found at its own row, got %+v", i, chunk.ChunkID, hits)
		}
	}
}

func TestPipelineEmbedderFailure(t *testing.T) {
	sourceDir := t.TempDir()
	writeDoc(t, sourceDir, "doc.txt", "content")

	manager := retrieval.NewManager(filepath.Join(t.TempDir(), "artifacts"))
	p := NewPipeline(manager, &hashEmbedder{dim: 4, fail: true}, "test-model", 4, Options{})

	if err := p.Rebuild(context.Background(), sourceDir); err == nil {
		t.Fatal("expected error from failing embedder")
	}
	if manager.Current() != nil {
		t.Error("failed rebuild must not install a snapshot")
	}
}

func TestPipelineEmptySourceDir(t *testing.T) {
	manager := retrieval.NewManager(filepath.Join(t.TempDir(), "artifacts"))
	p := NewPipeline(manager, &hashEmbedder{dim: 4}, "test-model", 4, Options{})

	if err := p.Rebuild(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for source dir with no documents")
	}
}

func TestPipelineReloadRoundTrip(t *testing.T) {
	sourceDir := t.TempDir()
	writeDoc(t, sourceDir, "doc.txt", "reload round trip content")

	artifacts := filepath.Join(t.TempDir(), "artifacts")
	manager := retrieval.NewManager(artifacts)
	p := NewPipeline(manager, &hashEmbedder{dim: 4}, "test-model", 4, Options{})
	if err := p.Rebuild(context.Background(), sourceDir); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	built := manager.Current()

	fresh := retrieval.NewManager(artifacts)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	loaded := fresh.Current()

	if loaded.Index.Len() != built.Index.Len() {
		t.Errorf("loaded %d rows, built %d", loaded.Index.Len(), built.Index.Len())
	}
	if len(loaded.Chunks) != len(built.Chunks) {
		t.Fatalf("loaded %d chunks, built %d", len(loaded.Chunks), len(built.Chunks))
	}
	for i := range loaded.Chunks {
		if loaded.Chunks[i] != built.Chunks[i] {
			t.Errorf("chunk %d differs after reload", i)
		}
	}
	if loaded.Meta != built.Meta {
		t.Errorf("meta differs after reload: %+v vs %+v", loaded.Meta, built.Meta)
	}
}
