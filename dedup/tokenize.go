package dedup

import (
	"regexp"
	"strings"
)

// wordTokenRe extracts maximal runs of [a-z0-9] from a lowercased string,
// per SPEC_FULL.md §4.3. Used by filtering, SimHash features, and nowhere
// else. This regex is exact per spec and must not be replaced by a
// statistical tokenizer (see DESIGN.md: dropped jdkato/prose/v2).
var wordTokenRe = regexp.MustCompile(`[a-z0-9]+`)

// WordTokens returns the word tokens of s (case-insensitive).
func WordTokens(s string) []string {
	return wordTokenRe.FindAllString(strings.ToLower(s), -1)
}

// WordTokenCount returns len(WordTokens(s)) without building the slice's
// backing strings more than necessary.
func WordTokenCount(s string) int {
	return len(wordTokenRe.FindAllStringIndex(strings.ToLower(s), -1))
}
