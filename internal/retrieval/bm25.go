package retrieval

import (
	"math"
	"sort"
	"strings"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// SparseHit is a single keyword-search result: the corpus row ID of a chunk
// and its BM25 score.
type SparseHit struct {
	ID    int
	Score float64
}

// BM25Index ranks chunks by keyword relevance. Documents are identified by
// their row index in the corpus, matching the vector index rows. The index is
// immutable once built and safe for concurrent readers.
type BM25Index struct {
	termFreqs []map[string]int
	docFreqs  map[string]int
	docLens   []int
	avgDocLen float64
}

// NewBM25Index builds a sparse index over chunk texts, one document per row.
func NewBM25Index(texts []string) *BM25Index {
	idx := &BM25Index{
		termFreqs: make([]map[string]int, len(texts)),
		docFreqs:  make(map[string]int),
		docLens:   make([]int, len(texts)),
	}

	var totalLen int
	for i, text := range texts {
		terms := tokenize(text)
		freqs := make(map[string]int, len(terms))
		for _, term := range terms {
			freqs[term]++
		}
		for term := range freqs {
			idx.docFreqs[term]++
		}
		idx.termFreqs[i] = freqs
		idx.docLens[i] = len(terms)
		totalLen += len(terms)
	}
	if len(texts) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(texts))
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *BM25Index) Len() int {
	return len(idx.termFreqs)
}

// Score returns up to topK documents ranked by BM25 relevance to the query,
// best first. Only documents with a positive score are returned. Ties are
// broken by corpus order, lower row first.
func (idx *BM25Index) Score(query string, topK int) []SparseHit {
	queryTerms := tokenize(query)
	if len(queryTerms) == 0 || topK <= 0 {
		return nil
	}

	scores := make([]float64, idx.Len())
	matched := false
	for _, term := range queryTerms {
		df, ok := idx.docFreqs[term]
		if !ok {
			continue
		}
		idf := idx.idf(df)
		for row, freqs := range idx.termFreqs {
			tf, ok := freqs[term]
			if !ok {
				continue
			}
			scores[row] += idf * idx.tfWeight(float64(tf), float64(idx.docLens[row]))
			matched = true
		}
	}
	if !matched {
		return nil
	}

	hits := make([]SparseHit, 0, idx.Len())
	for row, score := range scores {
		if score > 0 {
			hits = append(hits, SparseHit{ID: row, Score: score})
		}
	}
	// Stable sort over rows already in corpus order gives the tie-break.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func (idx *BM25Index) idf(df int) float64 {
	n := float64(idx.Len())
	return math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1)
}

func (idx *BM25Index) tfWeight(tf, docLen float64) float64 {
	return (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(docLen/idx.avgDocLen)))
}

// tokenize lowercases and splits on whitespace.
// No stemming or stopword removal: scoring stays deterministic and
// reproducible across rebuilds.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
