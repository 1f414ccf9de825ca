package dedup

import "sort"

// ExactPairs implements C4: group sentence items by their normalized
// text and emit one pair per cross-document combination within each
// group. Items sharing a doc are never paired with each other.
//
// Grounded in original_source/corpus_dedup_runner.py's exact_dupe_pairs,
// which performs the identical groupby-then-cross-product.
func ExactPairs(items []SentenceItem) []Pair {
	groups := make(map[string][]SentenceItem)
	for _, it := range items {
		groups[it.Norm] = append(groups[it.Norm], it)
	}

	var pairs []Pair
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.DocID == b.DocID {
					continue
				}
				pairs = append(pairs, canonicalPair(a.GID, b.GID, ChannelExact, 0, 0))
			}
		}
	}

	sortPairs(pairs)
	return pairs
}

// canonicalPair orders the pair so GIDA < GIDB regardless of argument order.
func canonicalPair(gidA, gidB int, ch Channel, hamming int, cosine float64) Pair {
	if gidA > gidB {
		gidA, gidB = gidB, gidA
	}
	return Pair{GIDA: gidA, GIDB: gidB, Channel: ch, Hamming: hamming, Cosine: cosine}
}

// sortPairs imposes the deterministic output order used across every
// CSV writer: ascending (GIDA, GIDB).
func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].GIDA != pairs[j].GIDA {
			return pairs[i].GIDA < pairs[j].GIDA
		}
		return pairs[i].GIDB < pairs[j].GIDB
	})
}
