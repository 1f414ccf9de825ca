package dedup

import (
	"context"
	"fmt"
	"testing"
)

// ingestForTest mirrors engine.ingest's contract (dense per-document
// sent_id over surviving sentences, corpus-wide gid) without pulling in
// the engine package's I/O dependencies, so the scenarios from
// SPEC_FULL.md §8 can be exercised directly against the pure algorithms.
func ingestForTest(texts []string, minWords, ngram int) []SentenceItem {
	var items []SentenceItem
	gid := 0
	for docID, text := range texts {
		sid := 0
		for _, raw := range SplitSentences(text) {
			norm := Normalize(raw)
			if WordTokenCount(norm) < minWords {
				continue
			}
			items = append(items, SentenceItem{
				GID: gid, DocID: docID, SentID: sid, Raw: raw, Norm: norm, Sig: SimHash64(norm, ngram),
			})
			gid++
			sid++
		}
	}
	return items
}

func TestScenarioByteIdenticalSentences(t *testing.T) {
	items := ingestForTest([]string{
		"The quick brown fox jumps over the lazy sleeping dog.",
		"The quick brown fox jumps over the lazy sleeping dog.",
	}, 8, 3)

	exact := ExactPairs(items)
	if len(exact) != 1 {
		t.Fatalf("expected exactly one exact pair, got %+v", exact)
	}

	lsh := LSHCandidates(items, 8)
	strict, _ := SplitByHamming(lsh, 6)
	if len(strict) != 1 || strict[0].Hamming != 0 {
		t.Fatalf("expected the identical pair in the strict stratum with hamming 0, got %+v", strict)
	}

	edges := BuildEdges(items, exact, lsh)
	blocks := BuildBlocks(edges, nil, 2)
	if len(blocks) != 0 {
		t.Errorf("a single-sentence match should not meet block_min_run=2, got %+v", blocks)
	}
}

func TestScenarioNearDuplicateWordSwap(t *testing.T) {
	items := ingestForTest([]string{
		"Customer satisfaction scores improved steadily over the past several quarters.",
		"Customer satisfaction scores improved steadily over the past several years.",
	}, 8, 3)

	if exact := ExactPairs(items); len(exact) != 0 {
		t.Fatalf("expected no exact pair for a one-word swap, got %+v", exact)
	}

	lsh := LSHCandidates(items, 8)
	if len(lsh) != 1 {
		t.Fatalf("expected one SimHash candidate, got %+v", lsh)
	}
	strict, _ := SplitByHamming(lsh, 6)
	if len(strict) != 1 {
		t.Errorf("expected the word-swap pair in the strict stratum (hamming <= 6), got hamming=%d", lsh[0].Hamming)
	}

	matched := MatchedAnySets(items, lsh)
	if len(matched[0]) == 0 || len(matched[1]) == 0 {
		t.Error("expected both documents to show matched sentences")
	}
}

func TestScenarioAlignedThreeSentenceBlock(t *testing.T) {
	filler := func(prefix string, n int) string {
		s := ""
		for i := 0; i < n; i++ {
			s += fmt.Sprintf("Unrelated %s filler sentence number %d with enough words to survive. ", prefix, i)
		}
		return s
	}
	docA := filler("alpha-doc", 4) + "Alpha bravo charlie delta echo foxtrot golf hotel. " +
		"India juliet kilo lima mike november oscar papa. " +
		"Quebec romeo sierra tango uniform victor whiskey xray."
	docB := filler("bravo-doc", 10) + "Alpha bravo charlie delta echo foxtrot golf hotel. " +
		"India juliet kilo lima mike november oscar papa. " +
		"Quebec romeo sierra tango uniform victor whiskey xray."

	items := ingestForTest([]string{docA, docB}, 8, 3)
	exact := ExactPairs(items)
	edges := BuildEdges(items, exact)
	blocks := BuildBlocks(edges, nil, 2)

	if len(blocks) != 1 {
		t.Fatalf("expected exactly one merged block, got %+v", blocks)
	}
	b := blocks[0]
	if b.Len != 3 || b.AEnd-b.AStart != 2 || b.BEnd-b.BStart != 2 {
		t.Errorf("expected a 3-sentence aligned run, got %+v", b)
	}

	inBlock := InBlockSentences(blocks)
	if len(inBlock[0]) != 3 || len(inBlock[1]) != 3 {
		t.Errorf("expected 3 in-block sentences per document, got %+v", inBlock)
	}
}

func TestScenarioShortSentenceFiltering(t *testing.T) {
	items := ingestForTest([]string{
		"Yes, indeed. This sentence has more than enough words to survive the filter."},
		8, 3)
	if len(items) != 1 {
		t.Fatalf("expected the short sentence to be dropped, got %+v", items)
	}
	if items[0].SentID != 0 {
		t.Errorf("surviving sentence should take sent_id 0 (dense numbering), got %d", items[0].SentID)
	}
}

func TestScenarioSameDocumentDuplicationIgnored(t *testing.T) {
	items := ingestForTest([]string{
		"This exact sentence appears twice in one document file. " +
			"This exact sentence appears twice in one document file.",
	}, 8, 3)

	exact := ExactPairs(items)
	if len(exact) != 0 {
		t.Fatalf("expected no pairs for same-document duplication, got %+v", exact)
	}
	matched := MatchedAnySets(items, exact)
	if len(matched) != 0 {
		t.Errorf("expected matched_sentences_any to stay empty, got %+v", matched)
	}
}

func TestScenarioEmbeddingOnlyNearDuplicate(t *testing.T) {
	items := []SentenceItem{
		{GID: 0, DocID: 0, SentID: 0, Sig: 0x1},
		{GID: 1, DocID: 1, SentID: 0, Sig: 0xFFFFFFFFFFFFFFF0},
	}
	if d := Hamming(items[0].Sig, items[1].Sig); d <= 8 {
		t.Fatalf("test fixture invalid: expected hamming > 8, got %d", d)
	}

	strictLSH, moderateLSH := SplitByHamming(LSHCandidates(items, 8), 6)
	if len(strictLSH) != 0 || len(moderateLSH) != 0 {
		t.Fatalf("expected no SimHash candidates for this fixture, got strict=%+v moderate=%+v", strictLSH, moderateLSH)
	}

	vectors := map[int][]float32{0: {0}, 1: {1}}
	index := &fakeIndex{neighborsByGID: map[int][]Neighbor{
		0: {{GID: 1, Cosine: 0.91}},
		1: {{GID: 0, Cosine: 0.91}},
	}}
	strict, moderate, err := EmbedPairs(context.Background(), items, vectors, index, 8, 0.90, 0.88)
	if err != nil {
		t.Fatalf("EmbedPairs returned error: %v", err)
	}
	if len(strict) != 1 || len(moderate) != 1 {
		t.Fatalf("expected one pair in both embedding strata, got strict=%+v moderate=%+v", strict, moderate)
	}

	edges := BuildEdges(items, moderate)
	blocks := BuildBlocks(edges, nil, 2)
	if len(blocks) != 0 {
		t.Errorf("a single embedding pair should not form a block, got %+v", blocks)
	}
}
