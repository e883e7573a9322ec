package ingest

import (
	"strings"
	"testing"
)

func TestExtractMarkdownText(t *testing.T) {
	source := `# Onboarding Guide

Welcome to the **team**. See [the handbook](https://example.com) for details.

- First item
- Second item

` + "```go\nfmt.Println(\"hi\")\n```\n"

	got := extractMarkdownText([]byte(source))

	for _, want := range []string{
		"Onboarding Guide",
		"Welcome to the team.",
		"See the handbook for details.",
		"First item",
		"Second item",
		`fmt.Println("hi")`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("extracted text missing %q in %q", want, got)
		}
	}
	for _, banned := range []string{"**", "](", "https://example.com", "```"} {
		if strings.Contains(got, banned) {
			t.Errorf("extracted text should not contain %q, got %q", banned, got)
		}
	}
}

func TestExtractMarkdownTextBlockBoundaries(t *testing.T) {
	got := extractMarkdownText([]byte("first paragraph\n\nsecond paragraph"))
	if !strings.Contains(got, "first paragraph\n\n") {
		t.Errorf("paragraphs should be separated by a blank line, got %q", got)
	}
	if !strings.Contains(got, "second paragraph") {
		t.Errorf("second paragraph missing from %q", got)
	}
}
