package dedup

import (
	"regexp"
	"strings"
)

// terminators are the sentence-boundary punctuation marks of SPEC_FULL.md §4.2.
const terminators = ".!?:;"

var crlfRunRe = regexp.MustCompile(`[\r\n]+`)

const (
	safetySplitTokenLimit = 80
	safetySplitChunkSize  = 30
)

// SplitSentences breaks normalized-whitespace document text into an
// ordered sequence of raw sentence strings (C2). It does not normalize
// or filter; callers apply Normalize and the min-word-count filter
// afterward, per SPEC_FULL.md §4.2.
//
// Grounded in the teacher's hand-rolled rag/splitter.go (RegexSentenceSplitter):
// a manual rune scan rather than a regex with lookbehind, since Go's RE2
// engine has no lookbehind and the split point ("whitespace immediately
// following a terminator") depends on what precedes the whitespace.
func SplitSentences(text string) []string {
	collapsed := crlfRunRe.ReplaceAllString(text, " ")

	runes := []rune(collapsed)
	var pieces []string
	var cur strings.Builder

	i := 0
	for i < len(runes) {
		r := runes[i]
		cur.WriteRune(r)
		if strings.ContainsRune(terminators, r) {
			j := i + 1
			k := j
			for k < len(runes) && isSpace(runes[k]) {
				k++
			}
			if k > j {
				pieces = append(pieces, cur.String())
				cur.Reset()
				i = k
				continue
			}
		}
		i++
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}

	var sentences []string
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences = append(sentences, safetySplit(p)...)
	}
	return sentences
}

// safetySplit cuts an overlong piece into contiguous fixed-size token
// chunks, per SPEC_FULL.md §4.2 step 4. This bounds worst-case sentence
// length for signature quality and is deliberate, not a bug.
func safetySplit(piece string) []string {
	tokens := strings.Fields(piece)
	if len(tokens) <= safetySplitTokenLimit {
		return []string{piece}
	}

	var chunks []string
	for start := 0; start < len(tokens); start += safetySplitChunkSize {
		end := start + safetySplitChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
	}
	return chunks
}
