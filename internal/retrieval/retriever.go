// Package retrieval implements hybrid dense+sparse retrieval over an
// immutable corpus snapshot: exact vector search, BM25 keyword search, and
// reciprocal rank fusion of the two rankings.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"askdocs/internal/contextutil"
	"askdocs/internal/corpus"
	"askdocs/internal/service"
)

// Embedder turns query text into a vector using the same model and
// normalization as at build time. Using a different model than the one
// recorded in the snapshot's build meta is a caller error.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Options tunes the retriever.
type Options struct {
	// CandidateMultiplier controls the over-fetch depth: both retrievers run
	// to min(topK*CandidateMultiplier, corpus size) so fusion sees comparable
	// pools. A heuristic, not a tuned constant.
	CandidateMultiplier int
	// RRFSmoothing is the K constant of reciprocal rank fusion.
	RRFSmoothing float64
	// Hybrid enables sparse search and fusion. When false only dense search
	// runs and scores are cosine similarities.
	Hybrid bool
}

// Retriever materializes the top-k chunks for a query from the active snapshot.
type Retriever struct {
	manager  *Manager
	embedder Embedder
	opts     Options
}

// NewRetriever creates a retriever over the manager's active snapshot.
func NewRetriever(manager *Manager, embedder Embedder, opts Options) *Retriever {
	if opts.CandidateMultiplier <= 0 {
		opts.CandidateMultiplier = 3
	}
	if opts.RRFSmoothing <= 0 {
		opts.RRFSmoothing = 60
	}
	return &Retriever{
		manager:  manager,
		embedder: embedder,
		opts:     opts,
	}
}

// Retrieve returns the topK most relevant chunks for the query, best first.
// Each result is a fresh copy; the snapshot's records are never mutated.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]corpus.ScoredChunk, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return nil, &service.ValidationError{Field: "query", Message: "must be a non-empty string"}
	}
	if topK <= 0 {
		return nil, &service.ValidationError{Field: "top_k", Message: "must be greater than 0"}
	}

	snap := r.manager.Current()
	if snap == nil || snap.Index.Len() == 0 {
		return nil, &service.ValidationError{Field: "index", Message: "index is empty, build it first"}
	}
	if snap.Index.Len() != len(snap.Chunks) {
		return nil, fmt.Errorf("%w: index has %d vectors but %d chunk records",
			service.ErrIntegrity, snap.Index.Len(), len(snap.Chunks))
	}

	total := snap.Index.Len()
	candidateK := topK * r.opts.CandidateMultiplier
	if candidateK > total {
		candidateK = total
	}

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	denseHits, err := snap.Index.Search(embeddings[0], candidateK)
	if err != nil {
		return nil, fmt.Errorf("dense search failed: %w", err)
	}

	if !r.opts.Hybrid {
		results := make([]corpus.ScoredChunk, 0, topK)
		for _, hit := range denseHits {
			if len(results) == topK {
				break
			}
			results = append(results, corpus.ScoredChunk{
				ChunkRecord: snap.Chunks[hit.ID],
				Score:       float64(hit.Score),
			})
		}
		logger.DebugContext(ctx, "dense retrieval completed", "hits", len(results), "candidate_k", candidateK)
		return results, nil
	}

	denseIDs := make([]int, len(denseHits))
	for i, hit := range denseHits {
		denseIDs[i] = hit.ID
	}
	sparseHits := snap.Sparse.Score(query, candidateK)
	sparseIDs := make([]int, len(sparseHits))
	for i, hit := range sparseHits {
		sparseIDs[i] = hit.ID
	}

	fused := FuseRRF(denseIDs, sparseIDs, r.opts.RRFSmoothing)

	results := make([]corpus.ScoredChunk, 0, topK)
	for _, hit := range fused {
		if len(results) == topK {
			break
		}
		results = append(results, corpus.ScoredChunk{
			ChunkRecord: snap.Chunks[hit.ID],
			Score:       hit.Score,
		})
	}

	logger.DebugContext(ctx, "hybrid retrieval completed",
		"dense_hits", len(denseIDs),
		"sparse_hits", len(sparseIDs),
		"fused", len(fused),
		"returned", len(results),
		"candidate_k", candidateK,
	)
	return results, nil
}
