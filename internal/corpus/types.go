// Package corpus defines the chunk records produced by ingestion/chunking and
// the on-disk artifact formats that align them with the vector index.
package corpus

import "sort"

// ChunkRecord is one indexed passage of a source document.
// Records are immutable once indexed; retrieval returns copies.
type ChunkRecord struct {
	// ChunkID is unique within a corpus build, e.g. "report_ab12cd34_p3_0".
	ChunkID  string `json:"chunk_id"`
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	// Page is the 1-based source page the chunk was cut from.
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ScoredChunk is a ChunkRecord plus a retrieval score.
// The score is a cosine similarity in pure-dense mode and an RRF score in
// hybrid mode. Created fresh per retrieval call.
type ScoredChunk struct {
	ChunkRecord
	Score float64 `json:"score"`
}

// BuildMeta describes an index build. Persisted next to the vector blob so a
// model or dimension mismatch can be detected at load time.
type BuildMeta struct {
	ModelName  string `json:"model_name"`
	Dimension  int    `json:"dimension"`
	ChunkCount int    `json:"chunk_count"`
}

// SortChunks orders records by chunk ID using byte-wise comparison.
// This ordering is the only valid alignment key between vector index rows and
// chunk records and must be applied identically on every rebuild and reload.
func SortChunks(chunks []ChunkRecord) {
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
}
