package ingest

import (
	"regexp"
	"strings"
)

var (
	hyphenBreakRe = regexp.MustCompile(`(\w)-\n(\w)`)
	separatorRe   = regexp.MustCompile(`(?m)^[=\-]{4,}\s*$`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text: Unix line endings, hyphenated word
// breaks joined, decorative separator lines (====, ----) removed, and runs
// of 3+ blank lines collapsed to one blank line. Individual newlines are
// preserved.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	text = separatorRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
