// Package memory implements deterministic, LLM-free conversation memory:
// rule tables decide whether an exchange contains a fact worth remembering
// and summarize it, and a recorder persists accepted facts.
package memory

import (
	"fmt"
	"regexp"
	"strings"
)

// Memory targets.
const (
	TargetUser    = "USER"
	TargetCompany = "COMPANY"
	TargetNone    = "NONE"
)

// writeThreshold is the minimum confidence required to persist a decision.
const writeThreshold = 0.8

// Decision is the outcome of evaluating one exchange against the rule tables.
type Decision struct {
	ShouldWrite bool    `json:"should_write"`
	Target      string  `json:"target"`
	Summary     string  `json:"summary"`
	Confidence  float64 `json:"confidence"`
}

// secretPatterns veto any write. They run before the rule tables so a
// credential never reaches the fact store, whatever else the text matches.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z0-9+/]{20,}={0,2}`),
	regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`),
	regexp.MustCompile(`\b\d[\d\s\-().]{7,}\d\b`),
	regexp.MustCompile(`(?i)(token|secret|password|api[_-]?key|bearer)\s*[=:]\s*\S+`),
}

type rule struct {
	re        *regexp.Regexp
	summarize func(m []string) string
}

// userRules capture identity and preference statements. Order matters: the
// first matching rule wins.
var userRules = []rule{
	{
		re: regexp.MustCompile(`(?i)\b(my name is|call me)\s+([A-Z][a-z]+)`),
		summarize: func(m []string) string {
			return fmt.Sprintf("User's name is %s", m[2])
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bprefer\b.{0,40}\b(concise|brief|short)\b`),
		summarize: func(m []string) string {
			return "User prefers concise answers"
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bprefer\b.{0,40}\bbullet[s\s]`),
		summarize: func(m []string) string {
			return "User prefers bullet point answers"
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bprefer\b.{0,40}\bstep.by.step\b`),
		summarize: func(m []string) string {
			return "User prefers step-by-step explanations"
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(preparing for|studying for|practicing for)\s+(.{4,60})`),
		summarize: func(m []string) string {
			return fmt.Sprintf("User is preparing for: %s", strings.TrimSpace(m[2]))
		},
	},
}

// companyRules capture facts about the project and its conventions.
var companyRules = []rule{
	{
		re: regexp.MustCompile(`(?i)\b(sqlite|bm25|rank fusion|rrf|goldmark|embeddings?)\b`),
		summarize: func(m []string) string {
			return fmt.Sprintf("Project uses %s in its stack", strings.ToLower(m[1]))
		},
	},
	{
		re: regexp.MustCompile(`\[source:[^\]#]+#[^\]]+\s+p=\d+\]`),
		summarize: func(m []string) string {
			return "Project uses citation format [source:<filename>#<chunk_id> p=<page>]"
		},
	},
	{
		re: regexp.MustCompile(`(?i)artifacts[\\/](vectors\.bin|chunks\.jsonl|meta\.json)`),
		summarize: func(m []string) string {
			return fmt.Sprintf("Project artifact: artifacts/%s", strings.ToLower(m[1]))
		},
	},
	{
		re: regexp.MustCompile(`(?i)\bartifacts[\\/]`),
		summarize: func(m []string) string {
			return "Project stores outputs in the artifacts/ directory"
		},
	},
}

func looksLikeSecret(text string) bool {
	for _, p := range secretPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Decide deterministically evaluates an exchange. Secrets veto everything;
// user rules are checked before company rules.
func Decide(userText, assistantText string) Decision {
	combined := userText + " " + assistantText
	none := Decision{Target: TargetNone}

	if looksLikeSecret(combined) {
		return none
	}

	for _, r := range userRules {
		if m := r.re.FindStringSubmatch(combined); m != nil {
			return Decision{
				ShouldWrite: true,
				Target:      TargetUser,
				Summary:     r.summarize(m),
				Confidence:  0.9,
			}
		}
	}
	for _, r := range companyRules {
		if m := r.re.FindStringSubmatch(combined); m != nil {
			return Decision{
				ShouldWrite: true,
				Target:      TargetCompany,
				Summary:     r.summarize(m),
				Confidence:  0.85,
			}
		}
	}
	return none
}
