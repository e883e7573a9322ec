package indexer

import (
	"context"
	"fmt"
	"sync"

	"askdocs/internal/contextutil"
	"askdocs/internal/corpus"
	"askdocs/internal/ingest"
	"askdocs/internal/retrieval"
	"askdocs/internal/service"
	"askdocs/internal/vectorstore"
)

// Options tunes the build pipeline.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	// BatchSize is how many chunk texts go into one embeddings request.
	BatchSize int
	// Workers bounds how many embedding batches run concurrently.
	Workers int
}

// Pipeline turns a source directory into a corpus snapshot and installs it
// through the snapshot manager.
type Pipeline struct {
	manager   *retrieval.Manager
	embedder  retrieval.Embedder
	modelName string
	dim       int
	opts      Options
}

// NewPipeline creates a build pipeline. The model name and dimension are
// recorded in the snapshot's build meta so queries can be checked against
// the embedding model the corpus was built with.
func NewPipeline(manager *retrieval.Manager, embedder retrieval.Embedder, modelName string, dim int, opts Options) *Pipeline {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 800
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = 150
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 64
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Pipeline{
		manager:   manager,
		embedder:  embedder,
		modelName: modelName,
		dim:       dim,
		opts:      opts,
	}
}

// Rebuild ingests sourceDir, builds a fresh snapshot, persists it and swaps
// it in. Returns ErrRebuildInProgress if another rebuild is already running.
func (p *Pipeline) Rebuild(ctx context.Context, sourceDir string) error {
	return p.manager.Rebuild(func() (*retrieval.Snapshot, error) {
		return p.buildSnapshot(ctx, sourceDir)
	})
}

func (p *Pipeline) buildSnapshot(ctx context.Context, sourceDir string) (*retrieval.Snapshot, error) {
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := ingest.Scan(ctx, sourceDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &service.ValidationError{Field: "source_dir", Message: "no ingestable documents found"}
	}

	chunks, err := ChunkDocuments(docs, p.opts.ChunkSize, p.opts.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, &service.ValidationError{Field: "source_dir", Message: "documents produced no chunks"}
	}

	// Row alignment contract: chunk i in the sorted stream corresponds to
	// vector row i in the index, across process restarts.
	corpus.SortChunks(chunks)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	logger.InfoContext(ctx, "embedding corpus",
		"documents", len(docs),
		"chunks", len(chunks),
		"batch_size", p.opts.BatchSize,
		"workers", p.opts.Workers,
	)

	vectors, err := p.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	index, err := vectorstore.Build(p.dim, vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}

	meta := corpus.BuildMeta{
		ModelName:  p.modelName,
		Dimension:  p.dim,
		ChunkCount: len(chunks),
	}
	return retrieval.NewSnapshot(chunks, index, meta)
}

// embedAll embeds texts in batches across a bounded worker pool. Each batch
// writes into its own region of the result slice, so workers never contend
// on output and row order matches input order exactly.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	type batch struct {
		start, end int
	}
	jobs := make(chan batch)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				if failed() {
					continue
				}
				embeddings, err := p.embedder.EmbedTexts(ctx, texts[b.start:b.end])
				if err != nil {
					fail(fmt.Errorf("failed to embed batch [%d:%d]: %w", b.start, b.end, err))
					continue
				}
				copy(vectors[b.start:b.end], embeddings)
			}
		}()
	}

	for start := 0; start < len(texts); start += p.opts.BatchSize {
		end := start + p.opts.BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		jobs <- batch{start: start, end: end}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}
