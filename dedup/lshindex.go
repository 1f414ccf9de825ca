package dedup

import "sync"

// LSHCandidates implements C5: banded locality-sensitive hashing over the
// 64-bit SimHash signatures, producing the cross-document candidate pairs
// whose Hamming distance is within hammingModerate. Two sentences collide
// as candidates if they agree on any one of the 8 non-overlapping 8-bit
// bands of their signature; this turns an O(n^2) comparison into O(n) band
// bucketing plus small within-bucket comparisons.
//
// Grounded in original_source/corpus_dedup_runner.py's bands_64/LSH pass.
// Each band is processed concurrently (grounded in the teacher's
// worker-pool pattern in rag/rag.go's embedding batch processing), then
// results are merged in fixed band order so output is deterministic
// regardless of goroutine scheduling.
func LSHCandidates(items []SentenceItem, hammingModerate int) []Pair {
	type bucketMap map[BandKey][]int

	buckets := make(bucketMap)
	for idx, it := range items {
		for _, key := range Bands(it.Sig) {
			buckets[key] = append(buckets[key], idx)
		}
	}

	bandResults := make([][]candidateHit, lshBands)
	var wg sync.WaitGroup
	bandBuckets := make([]bucketMap, lshBands)
	for key, idxs := range buckets {
		if bandBuckets[key.Band] == nil {
			bandBuckets[key.Band] = make(bucketMap)
		}
		bandBuckets[key.Band][key] = idxs
	}

	for b := 0; b < lshBands; b++ {
		wg.Add(1)
		go func(band int) {
			defer wg.Done()
			bandResults[band] = scanBand(items, bandBuckets[band], hammingModerate)
		}(b)
	}
	wg.Wait()

	best := make(map[pairKey]int)
	for _, hits := range bandResults {
		for _, h := range hits {
			key := pairKey{a: h.gidA, b: h.gidB}
			if cur, ok := best[key]; !ok || h.hamming < cur {
				best[key] = h.hamming
			}
		}
	}

	pairs := make([]Pair, 0, len(best))
	for key, hamming := range best {
		pairs = append(pairs, Pair{GIDA: key.a, GIDB: key.b, Channel: ChannelSimHash, Hamming: hamming})
	}
	sortPairs(pairs)
	return pairs
}

type candidateHit struct {
	gidA, gidB int
	hamming    int
}

type pairKey struct{ a, b int }

func scanBand(items []SentenceItem, buckets map[BandKey][]int, hammingModerate int) []candidateHit {
	var hits []candidateHit
	for _, idxs := range buckets {
		if len(idxs) < 2 {
			continue
		}
		for i := 0; i < len(idxs); i++ {
			for j := i + 1; j < len(idxs); j++ {
				a, b := items[idxs[i]], items[idxs[j]]
				if a.DocID == b.DocID {
					continue
				}
				d := Hamming(a.Sig, b.Sig)
				if d > hammingModerate {
					continue
				}
				gidA, gidB := a.GID, b.GID
				if gidA > gidB {
					gidA, gidB = gidB, gidA
				}
				hits = append(hits, candidateHit{gidA: gidA, gidB: gidB, hamming: d})
			}
		}
	}
	return hits
}

// SplitByHamming partitions SimHash candidate pairs into strict and
// moderate strata. Every strict pair is also a moderate pair's subset is
// NOT assumed by callers: moderate is the full candidate set already
// bounded by hammingModerate, and strict is the tighter cut of it.
func SplitByHamming(pairs []Pair, hammingStrict int) (strict, moderate []Pair) {
	moderate = pairs
	for _, p := range pairs {
		if p.Hamming <= hammingStrict {
			strict = append(strict, p)
		}
	}
	return strict, moderate
}
