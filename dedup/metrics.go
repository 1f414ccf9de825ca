package dedup

import "math"

// DocumentMetrics implements C9: per-document total/matched/in-block
// sentence counts and their percentages, rounded to 2 decimal places
// (0.0 when a document has no kept sentences).
func DocumentMetrics(docs []Document, items []SentenceItem, matchedAny, inBlock map[int]map[int]struct{}) []DocMetrics {
	totals := make(map[int]int, len(docs))
	for _, it := range items {
		totals[it.DocID]++
	}

	metrics := make([]DocMetrics, 0, len(docs))
	for _, doc := range docs {
		total := totals[doc.DocID]
		matched := len(matchedAny[doc.DocID])
		inBlockN := len(inBlock[doc.DocID])
		metrics = append(metrics, DocMetrics{
			Doc:                 doc.Name,
			TotalSentences:      total,
			MatchedSentencesAny: matched,
			MatchedSentencesPct: pct(matched, total),
			InBlockSentences:    inBlockN,
			InBlockSentencesPct: pct(inBlockN, total),
		})
	}
	return metrics
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(100.0*float64(n)/float64(total)*100) / 100
}
