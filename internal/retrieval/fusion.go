package retrieval

import "sort"

// FusedHit is an ID with its accumulated reciprocal-rank-fusion score.
type FusedHit struct {
	ID    int
	Score float64
}

// FuseRRF merges two ranked ID lists (best first) with reciprocal rank
// fusion: each list contributes 1/(smoothing+rank) per ID, ranks 1-based, and
// an ID's total is the sum of its contributions. A larger smoothing constant
// flattens the influence of exact rank position.
//
// Output contains every ID with at least one contribution, sorted by
// descending total score. Ties keep insertion order: the dense list is walked
// first, then the sparse list, so an ID first seen in the dense pass wins a
// tie against one first seen later. Callers depend on this ordering.
func FuseRRF(dense, sparse []int, smoothing float64) []FusedHit {
	hits := make([]FusedHit, 0, len(dense)+len(sparse))
	pos := make(map[int]int, len(dense)+len(sparse))

	accumulate := func(ids []int) {
		for rank, id := range ids {
			contribution := 1 / (smoothing + float64(rank+1))
			if p, seen := pos[id]; seen {
				hits[p].Score += contribution
				continue
			}
			pos[id] = len(hits)
			hits = append(hits, FusedHit{ID: id, Score: contribution})
		}
	}
	accumulate(dense)
	accumulate(sparse)

	// Stable sort preserves insertion order for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})
	return hits
}
