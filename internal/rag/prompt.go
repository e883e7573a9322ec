package rag

import (
	"fmt"
	"strings"

	"askdocs/internal/corpus"
)

// RefusalInsufficient is the fixed message returned when the answer cannot be
// grounded in the supplied sources. The prompt instructs the model to emit it
// verbatim, and the pipeline returns it after a failed citation retry.
const RefusalInsufficient = "I don't have enough information in the uploaded documents to answer that."

// RefusalConfidential is the fixed message returned when a query or answer
// touches confidential data.
const RefusalConfidential = "I can't share that information because it is confidential."

// retrySuffix is appended to the original prompt for the single retry after a
// generation with no valid citations.
const retrySuffix = "\n\nYour previous answer had invalid citation formatting. " +
	"Output citations ONLY in the exact format " +
	"[source:<filename>#<chunk_id> p=<page>] " +
	"with a single integer page. " +
	"Any citation not matching this exact format is invalid."

// PromptBuilder assembles grounded prompts that demand the strict citation
// grammar.
type PromptBuilder struct {
	// MaxChunks caps how many of the supplied (already ranked) chunks are
	// included.
	MaxChunks int
	// MaxChunkChars truncates each chunk's text at a hard character boundary.
	MaxChunkChars int
}

// NewPromptBuilder creates a builder with the given budgets.
func NewPromptBuilder(maxChunks, maxChunkChars int) *PromptBuilder {
	if maxChunks <= 0 {
		maxChunks = 5
	}
	if maxChunkChars <= 0 {
		maxChunkChars = 1200
	}
	return &PromptBuilder{MaxChunks: maxChunks, MaxChunkChars: maxChunkChars}
}

// Build assembles the grounded prompt from the query and retrieved chunks.
// Each included chunk is framed with a header carrying its filename, chunk ID
// and page in the exact citation syntax the model must copy.
func (b *PromptBuilder) Build(query string, chunks []corpus.ScoredChunk) string {
	included := chunks
	if len(included) > b.MaxChunks {
		included = included[:b.MaxChunks]
	}

	var sources strings.Builder
	for _, c := range included {
		text := c.Text
		if runes := []rune(text); len(runes) > b.MaxChunkChars {
			text = string(runes[:b.MaxChunkChars])
		}
		fmt.Fprintf(&sources, "SOURCE [source:%s#%s p=%d]\n%s\n\n", c.Filename, c.ChunkID, c.Page, text)
	}

	return fmt.Sprintf(`You are a precise document assistant. Answer the user's question using ONLY the sources below.

STRICT RULES:
1. Use ONLY information from the provided sources. Do not use outside knowledge.
2. Every factual claim MUST include an inline citation in this EXACT format:
   [source:<filename>#<chunk_id> p=<page>]
   Where <page> is a SINGLE integer (e.g. p=3). No commas, no ranges, no spaces.
   Example of a VALID citation:   [source:report.pdf#report_abc_p3_0 p=3]
   Example of an INVALID citation: [source:report.pdf#chunk p=1, 3]
   Any citation not matching the exact format is invalid and will be rejected.
3. The page number is fixed per SOURCE header. You MUST copy it exactly as shown.
4. Never output page ranges, multiple pages, commas, hyphens, or a second 'p='.
   Each citation must contain exactly one 'p=' token followed by one integer.
5. If the answer cannot be found in the sources, respond with exactly:
   "%s"
6. Do not guess, infer, or speculate beyond what the sources state.

─────────────────────────────────────────────
%s
─────────────────────────────────────────────

Question: %s

Answer:`, RefusalInsufficient, strings.TrimSpace(sources.String()), strings.TrimSpace(query))
}

// WithRetryReminder returns the prompt extended with the strict formatting
// reminder used for the single citation retry.
func WithRetryReminder(prompt string) string {
	return prompt + retrySuffix
}
