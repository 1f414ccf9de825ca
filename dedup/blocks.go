package dedup

// BuildBlocks implements C8: for every document pair's sorted sentence
// coordinates, greedily extend a run while the next coordinate is exactly
// one past the current run's end in both documents. Runs of length below
// blockMinRun are discarded. This is a local greedy scan, not a globally
// optimal alignment — ties and overlaps resolve in coordinate order,
// matching original_source/corpus_dedup_runner.py's block-merge loop
// exactly (sort by (sentA, sentB), extend while both increment by 1).
func BuildBlocks(edges map[DocPairKey]map[SentPair]struct{}, docNames map[int]string, blockMinRun int) []Block {
	var blocks []Block
	for _, key := range SortedDocPairKeys(edges) {
		pts := SortedEdges(edges[key])
		i := 0
		for i < len(pts) {
			a0, b0 := pts[i].SentA, pts[i].SentB
			a1, b1 := a0, b0
			j := i + 1
			for j < len(pts) && pts[j].SentA == a1+1 && pts[j].SentB == b1+1 {
				a1, b1 = pts[j].SentA, pts[j].SentB
				j++
			}
			runLen := a1 - a0 + 1
			if runLen >= blockMinRun {
				blocks = append(blocks, Block{
					DocA: key.DocA, AStart: a0, AEnd: a1,
					DocB: key.DocB, BStart: b0, BEnd: b1,
					Len: runLen,
				})
			}
			i = j
		}
	}
	return blocks
}

// InBlockSentences returns, for every document, the set of sentence ids
// covered by at least one emitted block — the input to C9's
// in_block_sentences metric.
func InBlockSentences(blocks []Block) map[int]map[int]struct{} {
	covered := make(map[int]map[int]struct{})
	mark := func(doc, start, end int) {
		if covered[doc] == nil {
			covered[doc] = make(map[int]struct{})
		}
		for s := start; s <= end; s++ {
			covered[doc][s] = struct{}{}
		}
	}
	for _, b := range blocks {
		mark(b.DocA, b.AStart, b.AEnd)
		mark(b.DocB, b.BStart, b.BEnd)
	}
	return covered
}
