// Package indexer builds corpus snapshots: it chunks ingested documents,
// embeds the chunks in parallel batches, and assembles the dense index.
package indexer

import (
	"fmt"
	"strings"

	"askdocs/internal/corpus"
	"askdocs/internal/ingest"
	"askdocs/internal/service"
)

// splitText cuts text into overlapping windows of at most size runes,
// advancing size-overlap runes per step. Windows that are empty after
// trimming are dropped. Deterministic for a given input.
func splitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkDocuments splits each page of each document into overlapping chunks.
// Chunk IDs follow the pattern {doc_id}_p{page}_{index}, where index counts
// chunks within the page.
func ChunkDocuments(docs []ingest.Document, size, overlap int) ([]corpus.ChunkRecord, error) {
	if size <= 0 {
		return nil, &service.ValidationError{Field: "chunk_size", Message: "must be a positive integer"}
	}
	if overlap < 0 {
		return nil, &service.ValidationError{Field: "chunk_overlap", Message: "must be non-negative"}
	}
	if overlap >= size {
		return nil, &service.ValidationError{
			Field:   "chunk_overlap",
			Message: fmt.Sprintf("overlap (%d) must be less than chunk size (%d)", overlap, size),
		}
	}

	var records []corpus.ChunkRecord
	for _, doc := range docs {
		for _, page := range doc.Pages {
			for idx, piece := range splitText(page.Text, size, overlap) {
				records = append(records, corpus.ChunkRecord{
					ChunkID:  fmt.Sprintf("%s_p%d_%d", doc.DocID, page.Page, idx),
					DocID:    doc.DocID,
					Filename: doc.Filename,
					Page:     page.Page,
					Text:     piece,
				})
			}
		}
	}
	return records, nil
}
