package engine

import (
	"os"
	"path/filepath"
	"testing"

	"corpusdedup/config"
	"corpusdedup/docset"
)

func testConfig() *config.Config {
	return &config.Config{
		MinSentenceWords: 3,
		SimNgram:         3,
	}
}

func TestIngestAssignsDenseContiguousSentIDsPerDocument(t *testing.T) {
	docs := []docset.Doc{
		{Name: "a.txt", Text: "Short one. This sentence has enough words to survive. Another sentence that is long enough to keep."},
		{Name: "b.txt", Text: "No. This one also has enough words in it to survive the filter."},
	}

	items := ingest(docs, testConfig())

	// "Short one." and "No." are below the 3-word floor and must leave no
	// SentID gap in their document's surviving sequence.
	var docA, docB []int
	for _, it := range items {
		switch it.DocID {
		case 0:
			docA = append(docA, it.SentID)
		case 1:
			docB = append(docB, it.SentID)
		}
	}
	if len(docA) != 2 || docA[0] != 0 || docA[1] != 1 {
		t.Errorf("expected dense SentIDs [0 1] for doc a, got %v", docA)
	}
	if len(docB) != 1 || docB[0] != 0 {
		t.Errorf("expected dense SentIDs [0] for doc b, got %v", docB)
	}
}

func TestIngestGIDIsContiguousAcrossTheWholeCorpus(t *testing.T) {
	docs := []docset.Doc{
		{Name: "a.txt", Text: "This sentence has enough words to survive the filter."},
		{Name: "b.txt", Text: "This other sentence also has enough words to survive."},
	}

	items := ingest(docs, testConfig())
	if len(items) != 2 {
		t.Fatalf("expected 2 surviving sentences, got %d", len(items))
	}
	for i, it := range items {
		if it.GID != i {
			t.Errorf("position %d: expected GID %d, got %d", i, i, it.GID)
		}
	}
}

func TestParamsMapReflectsEmbeddingEnablement(t *testing.T) {
	cfg := testConfig()
	cfg.EmbedModel = "test-model"

	disabled := paramsMap(cfg, false)
	if disabled["use_embeddings"] != false {
		t.Errorf("expected use_embeddings=false, got %v", disabled["use_embeddings"])
	}

	enabled := paramsMap(cfg, true)
	if enabled["use_embeddings"] != true {
		t.Errorf("expected use_embeddings=true, got %v", enabled["use_embeddings"])
	}
	if enabled["embed_model"] != "test-model" {
		t.Errorf("expected embed_model to be carried through, got %v", enabled["embed_model"])
	}
}

func TestWriteEmptyResultWritesOnlySummaryJSON(t *testing.T) {
	cfg := testConfig()
	cfg.OutputDir = t.TempDir()

	if err := writeEmptyResult(cfg); err != nil {
		t.Fatalf("writeEmptyResult: %v", err)
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "summary.json" {
		t.Fatalf("expected only summary.json in the output directory, got %v", entries)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "summary.json")); err != nil {
		t.Fatalf("summary.json missing: %v", err)
	}
}
