package rag

import (
	"regexp"
	"strconv"
)

// citationRe matches the exact citation grammar:
// [source:<filename>#<chunk_id> p=<page>] where <filename> contains no '#',
// ']' or whitespace, <chunk_id> contains no whitespace or ']', and <page> is
// one or more ASCII digits. Anything else is not a citation.
var citationRe = regexp.MustCompile(`\[source:([^#\]\s]+)#([^\s\]]+)\s+p=(\d+)\]`)

// sourceBlockRe matches a whole [source:...] block so repairs stay scoped
// inside it. Text outside matched blocks is never altered.
var sourceBlockRe = regexp.MustCompile(`\[source:[^\]]*\]`)

// repairPatterns are the narrow, conservative fixes applied to the page token
// inside a citation block:
//
//	p=1 - p=19  →  p=1
//	p=1 - 19    →  p=1
//	p=1, 3      →  p=1
var repairPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(p=\d+)\s*-\s*p=\d+`), "$1"},
	{regexp.MustCompile(`(p=\d+)\s*-\s*\d+`), "$1"},
	{regexp.MustCompile(`(p=\d+),\s*\d+`), "$1"},
}

// RepairCitations conservatively fixes malformed page tokens inside
// [source:...] blocks only.
func RepairCitations(text string) string {
	return sourceBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		for _, p := range repairPatterns {
			block = p.re.ReplaceAllString(block, p.replacement)
		}
		return block
	})
}

// ExtractCitations parses all strictly-formatted citation markers from text.
// Results are deduplicated by (filename, chunk_id, page), preserving
// first-seen order. A malformed marker (e.g., a page range that survived
// repair) is simply not a citation.
func ExtractCitations(text string) []Citation {
	type key struct {
		filename string
		chunkID  string
		page     int
	}
	seen := make(map[key]struct{})
	var result []Citation

	for _, m := range citationRe.FindAllStringSubmatch(text, -1) {
		page, err := strconv.Atoi(m[3])
		if err != nil {
			continue // digits-only by the regexp; overflow is the only path here
		}
		k := key{filename: m[1], chunkID: m[2], page: page}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, Citation{Filename: m[1], ChunkID: m[2], Page: page})
	}
	return result
}
