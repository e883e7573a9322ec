// Package vectorstore provides an in-process, exact inner-product vector index.
// Vectors are L2-normalized before insertion and search so that inner product
// equals cosine similarity. The index is immutable once built and is safe for
// concurrent readers.
package vectorstore

import (
	"fmt"
	"math"
	"sort"
)

// Hit is a single search result: the row ID of a stored vector and its
// inner-product score against the query.
type Hit struct {
	ID    int
	Score float32
}

// FlatIndex stores normalized vectors in row order and performs exact
// inner-product nearest-neighbor search. Row order is the alignment key with
// the chunk metadata stream and must never change after Build.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index for vectors of the given dimension.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Build creates an index from the given vectors, normalizing each row.
// The input slice is not retained; rows are copied.
func Build(dim int, vectors [][]float32) (*FlatIndex, error) {
	idx, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	if err := idx.Add(vectors...); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors to the index, normalizing each one.
// Only the build pipeline calls this; a published index is never mutated.
func (idx *FlatIndex) Add(vectors ...[]float32) error {
	for i, v := range vectors {
		if len(v) != idx.dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), idx.dim)
		}
		idx.vectors = append(idx.vectors, Normalize(v))
	}
	return nil
}

// Len returns the number of stored vectors.
func (idx *FlatIndex) Len() int {
	return len(idx.vectors)
}

// Dim returns the vector dimension.
func (idx *FlatIndex) Dim() int {
	return idx.dim
}

// Search returns the top-k rows by inner product against the query, best
// first. The query is normalized before scoring. k is clamped to the number of
// stored vectors; fewer than k results is not an error.
func (idx *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), idx.dim)
	}
	if k <= 0 || idx.Len() == 0 {
		return nil, nil
	}
	if k > idx.Len() {
		k = idx.Len()
	}

	q := Normalize(query)
	hits := make([]Hit, 0, idx.Len())
	for i, v := range idx.vectors {
		hits = append(hits, Hit{ID: i, Score: dot(q, v)})
	}

	// Stable so equal scores keep row order, matching the metadata stream.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	return hits[:k], nil
}

// Normalize returns an L2-normalized copy of v.
// A zero vector is returned unchanged (as a copy) rather than raising an
// error, so that dot products with it are simply zero.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1 / norm)
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
