package rag

import "context"

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_oracle.go -package=mocks askdocs/internal/rag GenerationOracle

// GenerationOracle abstracts the external language-generation call so the
// retry state machine and security filter are testable without a live
// backend. Implementations may block up to their configured timeout and must
// honor context cancellation.
type GenerationOracle interface {
	// Generate produces raw text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Citation ties a claim in a generated answer to a specific source chunk.
// Derived per query from the generated text; never persisted.
type Citation struct {
	Filename string `json:"filename"`
	ChunkID  string `json:"chunk_id"`
	Page     int    `json:"page"`
}

// Result is the outcome of one answer pipeline run. A refusal is a successful
// outcome: a fixed user-visible message with no citations.
type Result struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	// Refused reports whether the pipeline declined to answer (insufficient
	// grounding, disallowed intent, or sensitive-data leakage).
	Refused bool `json:"refused,omitempty"`
}
