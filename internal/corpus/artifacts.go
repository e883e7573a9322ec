package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// WriteChunks writes records to path, one JSON object per line, in slice order.
// Callers must pass chunks already sorted by chunk ID so the file order matches
// the vector index rows.
func WriteChunks(path string, chunks []ChunkRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range chunks {
		if err := enc.Encode(&chunks[i]); err != nil {
			return fmt.Errorf("failed to encode chunk %s: %w", chunks[i].ChunkID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush chunk file: %w", err)
	}
	return nil
}

// ReadChunks reads a chunk metadata stream written by WriteChunks.
// Blank lines are skipped; order is preserved.
func ReadChunks(path string) ([]ChunkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var chunks []ChunkRecord
	scanner := bufio.NewScanner(f)
	// Chunk text can exceed the default scanner buffer.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec ChunkRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse chunk file line %d: %w", line, err)
		}
		chunks = append(chunks, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunk file: %w", err)
	}
	return chunks, nil
}

// WriteMeta writes build metadata as indented JSON.
func WriteMeta(path string, meta BuildMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal build meta: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write build meta: %w", err)
	}
	return nil
}

// ReadMeta reads build metadata written by WriteMeta.
func ReadMeta(path string) (BuildMeta, error) {
	var meta BuildMeta
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("failed to read build meta: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to parse build meta: %w", err)
	}
	return meta, nil
}
