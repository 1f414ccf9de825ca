package dedup

import "context"

// Neighbor is one nearest-neighbor hit returned by an EmbeddingIndex query.
type Neighbor struct {
	GID    int
	Cosine float64
}

// EmbeddingIndex is the C6 contract: an inner-product index over unit-norm
// sentence vectors. Implementations may be in-process (chromem-go, the
// default) or backed by an external store (Postgres/pgvector, for large
// corpora). The engine depends only on this interface, so it compiles and
// runs identically whether or not embeddings are enabled.
type EmbeddingIndex interface {
	// Add indexes vectors[i] under gids[i]. Vectors must already be
	// unit-norm; the index itself does not normalize.
	Add(ctx context.Context, gids []int, vectors [][]float32) error
	// Query returns the top-k neighbors of vector, including the query's
	// own entry if it is present in the index (callers exclude self).
	Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error)
}

// EmbedPairs implements C7's embedding channel: for every sentence item,
// query its top-k neighbors, discard self and same-document hits, and
// keep hits with cosine >= thresholdModerate. Because the relation is
// asymmetric (i may retrieve j without j retrieving i), the result is the
// union over all i of its retained neighbors, deduplicated by canonical
// pair identity and keeping the maximum cosine observed.
//
// Grounded in spec.md §4.6 directly; no teacher code computes cosine
// top-k, so the fusion rule (union, dedup-by-max) is implemented fresh
// against the EmbeddingIndex abstraction the teacher's chromem-go usage
// already models (query-then-filter-then-rank, see rag/query.go).
func EmbedPairs(ctx context.Context, items []SentenceItem, vectors map[int][]float32, index EmbeddingIndex, topK int, thresholdStrict, thresholdModerate float64) (strict, moderate []Pair, err error) {
	docOf := make(map[int]int, len(items))
	for _, it := range items {
		docOf[it.GID] = it.DocID
	}

	best := make(map[pairKey]float64)
	for _, it := range items {
		vec, ok := vectors[it.GID]
		if !ok {
			continue
		}
		neighbors, qerr := index.Query(ctx, vec, topK)
		if qerr != nil {
			return nil, nil, qerr
		}
		for _, n := range neighbors {
			if n.GID == it.GID {
				continue
			}
			if docOf[n.GID] == it.DocID {
				continue
			}
			if n.Cosine < thresholdModerate {
				continue
			}
			gidA, gidB := it.GID, n.GID
			if gidA > gidB {
				gidA, gidB = gidB, gidA
			}
			key := pairKey{a: gidA, b: gidB}
			if cur, exists := best[key]; !exists || n.Cosine > cur {
				best[key] = n.Cosine
			}
		}
	}

	moderate = make([]Pair, 0, len(best))
	for key, cosine := range best {
		p := Pair{GIDA: key.a, GIDB: key.b, Channel: ChannelEmbed, Cosine: cosine}
		moderate = append(moderate, p)
		if cosine >= thresholdStrict {
			strict = append(strict, p)
		}
	}
	sortPairs(moderate)
	sortPairs(strict)
	return strict, moderate, nil
}
