// Package rag turns retrieved chunks into a grounded, citation-backed answer:
// prompt assembly, generation, conservative citation repair, a bounded retry
// state machine, and security gates on both sides of the generation call.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"askdocs/internal/contextutil"
	"askdocs/internal/corpus"
	"askdocs/internal/service"
)

// Engine answers a query from retrieved chunks.
type Engine interface {
	// Answer runs the full pipeline: security pre-gate, prompt assembly,
	// generation, citation repair/extraction with one retry, refusal on
	// missing grounding, and a post-generation sensitive-data scan.
	// Refusals are successful results, not errors.
	Answer(ctx context.Context, query string, chunks []corpus.ScoredChunk) (Result, error)
}

type engine struct {
	oracle GenerationOracle
	prompt *PromptBuilder
	filter *SecurityFilter
	logger *slog.Logger
}

// NewEngine creates an answer engine around the given generation oracle.
func NewEngine(oracle GenerationOracle, prompt *PromptBuilder) Engine {
	return &engine{
		oracle: oracle,
		prompt: prompt,
		filter: NewSecurityFilter(),
		logger: slog.Default(),
	}
}

func refusal(message string) Result {
	return Result{Answer: message, Citations: []Citation{}, Refused: true}
}

// Answer implements Engine.
func (e *engine) Answer(ctx context.Context, query string, chunks []corpus.ScoredChunk) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return Result{}, &service.ValidationError{Field: "query", Message: "must be a non-empty string"}
	}

	// Disallowed intent: refuse without ever invoking generation.
	if e.filter.IsDisallowedQuery(query) {
		logger.InfoContext(ctx, "disallowed query intent, refusing without generation")
		return refusal(RefusalConfidential), nil
	}

	if len(chunks) == 0 {
		logger.InfoContext(ctx, "no context chunks supplied, refusing")
		return refusal(RefusalInsufficient), nil
	}

	prompt := e.prompt.Build(query, chunks)

	raw, err := e.oracle.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("generation failed: %w", err)
	}
	raw = RepairCitations(raw)
	citations := ExtractCitations(raw)

	// Retry policy: exactly one additional attempt with a stricter formatting
	// reminder when the first pass produced no valid citations.
	if len(citations) == 0 {
		logger.InfoContext(ctx, "no valid citations found, retrying with formatting reminder")
		raw, err = e.oracle.Generate(ctx, WithRetryReminder(prompt))
		if err != nil {
			return Result{}, fmt.Errorf("generation retry failed: %w", err)
		}
		raw = RepairCitations(raw)
		citations = ExtractCitations(raw)
	}

	if len(citations) == 0 {
		logger.InfoContext(ctx, "still no valid citations after retry, refusing")
		return refusal(RefusalInsufficient), nil
	}

	// Safety override takes precedence over grounding: a leaked email or
	// phone number voids the answer even with valid citations.
	if e.filter.ContainsSensitive(raw) {
		logger.InfoContext(ctx, "sensitive data detected in generated answer, refusing")
		return refusal(RefusalConfidential), nil
	}

	logger.InfoContext(ctx, "answer generated", "citations", len(citations), "answer_length", len(raw))
	return Result{Answer: raw, Citations: citations}, nil
}
