package dedup

import "sort"

// DocPairKey identifies an unordered pair of distinct documents, always
// stored with DocA < DocB.
type DocPairKey struct {
	DocA int
	DocB int
}

// SentPair is a matched (sentA, sentB) coordinate within one DocPairKey's
// edge set, oriented so SentA belongs to DocA and SentB to DocB.
type SentPair struct {
	SentA int
	SentB int
}

// BuildEdges implements the cross-document join underlying C7/C8: every
// matched pair from every enabled channel (exact, SimHash-moderate,
// embedding-moderate) becomes one sentence-coordinate edge between its two
// documents, deduplicated by (docA, docB, sentA, sentB) regardless of
// which channel(s) produced it.
//
// Grounded in original_source/corpus_dedup_runner.py's edges
// defaultdict(set) construction, which folds all three pair streams into
// one set-of-coordinates per document pair before block merging.
func BuildEdges(items []SentenceItem, streams ...[]Pair) map[DocPairKey]map[SentPair]struct{} {
	byGID := make(map[int]SentenceItem, len(items))
	for _, it := range items {
		byGID[it.GID] = it
	}

	edges := make(map[DocPairKey]map[SentPair]struct{})
	for _, pairs := range streams {
		for _, p := range pairs {
			a, okA := byGID[p.GIDA]
			b, okB := byGID[p.GIDB]
			if !okA || !okB || a.DocID == b.DocID {
				continue
			}
			if a.DocID > b.DocID {
				a, b = b, a
			}
			key := DocPairKey{DocA: a.DocID, DocB: b.DocID}
			if edges[key] == nil {
				edges[key] = make(map[SentPair]struct{})
			}
			edges[key][SentPair{SentA: a.SentID, SentB: b.SentID}] = struct{}{}
		}
	}
	return edges
}

// SortedEdges returns edges[key]'s coordinates sorted by (SentA, SentB),
// the order C8's greedy run merge requires.
func SortedEdges(coords map[SentPair]struct{}) []SentPair {
	out := make([]SentPair, 0, len(coords))
	for c := range coords {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentA != out[j].SentA {
			return out[i].SentA < out[j].SentA
		}
		return out[i].SentB < out[j].SentB
	})
	return out
}

// SortedDocPairKeys returns edges' keys in deterministic (DocA, DocB) order.
func SortedDocPairKeys(edges map[DocPairKey]map[SentPair]struct{}) []DocPairKey {
	keys := make([]DocPairKey, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].DocA != keys[j].DocA {
			return keys[i].DocA < keys[j].DocA
		}
		return keys[i].DocB < keys[j].DocB
	})
	return keys
}

// MatchedAnySets returns, for every document, the set of sentence ids that
// participate in at least one pair from any of the given channels — the
// input to C9's matched_sentences_any metric.
func MatchedAnySets(items []SentenceItem, streams ...[]Pair) map[int]map[int]struct{} {
	byGID := make(map[int]SentenceItem, len(items))
	for _, it := range items {
		byGID[it.GID] = it
	}

	matched := make(map[int]map[int]struct{})
	mark := func(it SentenceItem) {
		if matched[it.DocID] == nil {
			matched[it.DocID] = make(map[int]struct{})
		}
		matched[it.DocID][it.SentID] = struct{}{}
	}
	for _, pairs := range streams {
		for _, p := range pairs {
			a, okA := byGID[p.GIDA]
			b, okB := byGID[p.GIDB]
			if !okA || !okB {
				continue
			}
			mark(a)
			mark(b)
		}
	}
	return matched
}
