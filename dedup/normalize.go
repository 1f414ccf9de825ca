package dedup

import "strings"

// smartQuoteReplacer folds the four "smart" quote codepoints to ASCII,
// per SPEC_FULL.md §4.1 step 2. Grounded in the teacher's NormalizeForHash
// (rag/core.go), generalized here to the exact quote-folding rule the
// spec requires rather than stripping punctuation wholesale.
var smartQuoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", "\"", "”", "\"",
)

// Normalize maps a raw sentence to its canonical comparison form (C1).
// It is a pure, stateless function of raw: lowercase, fold smart quotes,
// collapse whitespace. It does not strip punctuation; equality downstream
// is byte-equality over the result.
func Normalize(raw string) string {
	folded := strings.ToLower(raw)
	folded = smartQuoteReplacer.Replace(folded)
	return collapseWhitespace(folded)
}

// collapseWhitespace replaces runs of whitespace with a single ASCII
// space and trims the ends.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x85, 0xA0:
		return true
	}
	return false
}
