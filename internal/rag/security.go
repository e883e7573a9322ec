package rag

import "regexp"

// contactKeywordsRe triggers an immediate refusal before any generation call:
// these queries seek personal contact details that must never be surfaced.
var contactKeywordsRe = regexp.MustCompile(`(?i)\b(phone|email|contact|reach|call|mail|address)\b`)

// injectionRe catches prompt-injection and secret-extraction phrasing.
var injectionRe = regexp.MustCompile(`(?i)(` +
	`ignore prior instructions` +
	`|reveal secrets?` +
	`|show system prompt` +
	`|dump memory` +
	`|expose internal` +
	`|bypass rules?` +
	`|give me hidden` +
	`|print hidden` +
	`|confidential data` +
	`|api[_\s\-]?key` +
	`|secret[_\s\-]?key` +
	`)`)

// sensitivePatterns are leakage signatures scanned for in generated answers:
// email addresses, US-shaped phone numbers, and international phone numbers.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`),
	regexp.MustCompile(`(\+?1[\s\-.]?)?(\(?\d{3}\)?[\s\-.]?)\d{3}[\s\-.]\d{4}`),
	regexp.MustCompile(`\+\d{1,3}[\s\-.]?\d{4,14}`),
}

// SecurityFilter gates queries before generation and scans answers after it.
// Both checks are stateless and safe for concurrent use.
type SecurityFilter struct{}

// NewSecurityFilter creates the filter.
func NewSecurityFilter() *SecurityFilter {
	return &SecurityFilter{}
}

// IsDisallowedQuery reports whether the query matches a disallowed intent:
// contact-detail requests or prompt-injection phrasing. A disallowed query
// short-circuits the pipeline without invoking generation.
func (f *SecurityFilter) IsDisallowedQuery(query string) bool {
	return contactKeywordsRe.MatchString(query) || f.IsInjection(query)
}

// IsInjection reports whether the text matches prompt-injection or
// secret-extraction phrasing only, without the contact-keyword gate.
func (f *SecurityFilter) IsInjection(text string) bool {
	return injectionRe.MatchString(text)
}

// ContainsSensitive reports whether generated text contains an email address
// or phone number. A match overrides an otherwise-valid answer.
func (f *SecurityFilter) ContainsSensitive(text string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
