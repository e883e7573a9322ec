package memory

import (
	"regexp"
	"strings"

	"askdocs/internal/storage"
)

// statementRe recognizes pure preference or identity statements that should
// be remembered without running retrieval at all.
var statementRe = regexp.MustCompile(`(?i)\b(` +
	`i\s+prefer` +
	`|i\s+like` +
	`|i\s+love` +
	`|i\s+enjoy` +
	`|i'?m\s+into` +
	`|i\s+am\s+into` +
	`|my\s+name\s+is` +
	`|call\s+me` +
	`|i'?m\s+an?` +
	`|i\s+am\s+an?` +
	`|my\s+role\s+is` +
	`|i\s+work\s+as` +
	`|i\s+am\s+working\s+as` +
	`|send\s+me` +
	`|don'?t\s+explain` +
	`|don'?t\s+summarize` +
	`|do\s+not\s+explain` +
	`|do\s+not\s+summarize` +
	`|no\s+summary` +
	`|no\s+explanation` +
	`|no\s+briefing` +
	`|no\s+brief` +
	`)`)

// questionRe recognizes questions about stored memory ("what do I like",
// "what is my name").
var questionRe = regexp.MustCompile(`(?i)\b(` +
	`what\s+(do|did|don't|doesn't)\s+i\s+(like|love|enjoy|prefer|hate|want|need)` +
	`|what\s+is\s+my\s+(name|role|job|preference|hobby|interest)` +
	`|who\s+am\s+i` +
	`|what\s+are\s+my\s+(preferences?|interests?|hobbies|goals?)` +
	`|do\s+you\s+(know|remember)\s+(me|my)` +
	`)`)

var fragmentSplitRe = regexp.MustCompile(`(?i)\band\b`)

// SplitFragments splits compound input on "and" so each clause can be
// evaluated independently ("my name is Ada and I prefer short answers").
func SplitFragments(text string) []string {
	var fragments []string
	for _, frag := range fragmentSplitRe.Split(text, -1) {
		if frag = strings.TrimSpace(frag); frag != "" {
			fragments = append(fragments, frag)
		}
	}
	return fragments
}

// IsStatement reports whether any fragment of the input is a preference or
// identity statement.
func IsStatement(text string) bool {
	for _, frag := range SplitFragments(text) {
		if statementRe.MatchString(frag) {
			return true
		}
	}
	return false
}

// IsQuestion reports whether the input asks about stored memory.
func IsQuestion(text string) bool {
	return questionRe.MatchString(text)
}

// AnswerFromFacts renders stored user facts as a plain-text answer.
func AnswerFromFacts(facts []storage.Fact) string {
	if len(facts) == 0 {
		return "I don't have anything stored in your memory yet."
	}
	var b strings.Builder
	b.WriteString("Based on what I know about you:")
	for _, f := range facts {
		b.WriteString("\n  - ")
		b.WriteString(f.Summary)
	}
	return b.String()
}
