package dedup

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"corpusdedup/errors"
)

const rawTextTruncateLen = 240

// WriteResult implements C11: every CSV and the summary.json described in
// SPEC_FULL.md §6, written to outDir. No third-party CSV library appears
// anywhere in the retrieved corpus, so this is one of the few places that
// intentionally stays on encoding/csv rather than reaching for a pack
// dependency (see DESIGN.md).
func WriteResult(outDir string, r Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "create output directory %s: %v", outDir, err)
	}

	byGID := make(map[int]SentenceItem, len(r.Items))
	for _, it := range r.Items {
		byGID[it.GID] = it
	}
	docName := make(map[int]string, len(r.Docs))
	for _, d := range r.Docs {
		docName[d.DocID] = d.Name
	}

	writers := []func() error{
		func() error {
			return writeSentencePairsCSV(filepath.Join(outDir, "exact_sentence_pairs.csv"), r.ExactPairs, byGID, docName, false, false)
		},
		func() error {
			return writeSentencePairsCSV(filepath.Join(outDir, "simhash_sentence_pairs.csv"), r.SimHashModerate, byGID, docName, true, false)
		},
		func() error {
			return writeSentencePairsCSV(filepath.Join(outDir, "simhash_sentence_pairs_strict.csv"), r.SimHashStrict, byGID, docName, true, false)
		},
		func() error {
			return writeSentencePairsCSV(filepath.Join(outDir, "embed_sentence_pairs.csv"), r.EmbedModerate, byGID, docName, false, true)
		},
		func() error {
			return writeSentencePairsCSV(filepath.Join(outDir, "embed_sentence_pairs_strict.csv"), r.EmbedStrict, byGID, docName, false, true)
		},
		func() error { return writeBlocksCSV(filepath.Join(outDir, "block_matches.csv"), r.Blocks, docName) },
		func() error { return writeDocMetricsCSV(filepath.Join(outDir, "doc_metrics.csv"), r.DocMetrics) },
		func() error { return writeSummaryJSON(filepath.Join(outDir, "summary.json"), r.Summary) },
	}
	for _, w := range writers {
		if err := w(); err != nil {
			return err
		}
	}
	return nil
}

func writeSentencePairsCSV(path string, pairs []Pair, byGID map[int]SentenceItem, docName map[int]string, withHamming, withCosine bool) error {
	header := []string{"docA", "sentA_id", "textA", "docB", "sentB_id", "textB"}
	if withHamming {
		header = append(header, "hamming")
	}
	if withCosine {
		header = append(header, "cosine")
	}

	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, p := range pairs {
			a, okA := byGID[p.GIDA]
			b, okB := byGID[p.GIDB]
			if !okA || !okB {
				continue
			}
			row := []string{
				docName[a.DocID], strconv.Itoa(a.SentID), truncate(a.Raw),
				docName[b.DocID], strconv.Itoa(b.SentID), truncate(b.Raw),
			}
			if withHamming {
				row = append(row, strconv.Itoa(p.Hamming))
			}
			if withCosine {
				row = append(row, strconv.FormatFloat(p.Cosine, 'f', 6, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBlocksCSV(path string, blocks []Block, docName map[int]string) error {
	header := []string{"docA", "A_start", "A_end", "len_sent", "docB", "B_start", "B_end"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, b := range blocks {
			row := []string{
				docName[b.DocA], strconv.Itoa(b.AStart), strconv.Itoa(b.AEnd), strconv.Itoa(b.Len),
				docName[b.DocB], strconv.Itoa(b.BStart), strconv.Itoa(b.BEnd),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeDocMetricsCSV(path string, metrics []DocMetrics) error {
	header := []string{"doc", "total_sentences", "matched_sentences_any", "matched_sentences_pct", "in_block_sentences", "in_block_sentences_pct"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, m := range metrics {
			row := []string{
				m.Doc,
				strconv.Itoa(m.TotalSentences),
				strconv.Itoa(m.MatchedSentencesAny),
				strconv.FormatFloat(m.MatchedSentencesPct, 'f', 2, 64),
				strconv.Itoa(m.InBlockSentences),
				strconv.FormatFloat(m.InBlockSentencesPct, 'f', 2, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSummary writes only summary.json under outDir, without any of the
// per-pair CSVs. Used for the empty-corpus case (spec.md §6 exit codes:
// "writes only an empty summary if it writes anything").
func WriteSummary(outDir string, summary Summary) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "create output directory %s: %v", outDir, err)
	}
	return writeSummaryJSON(filepath.Join(outDir, "summary.json"), summary)
}

func writeSummaryJSON(path string, summary Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "create %s: %v", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "encode %s: %v", path, err)
	}
	return nil
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "write header %s: %v", path, err)
	}
	if err := body(w); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "write rows %s: %v", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(errors.ErrOutputWrite, "flush %s: %v", path, err)
	}
	return nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= rawTextTruncateLen {
		return s
	}
	return string(r[:rawTextTruncateLen])
}
