package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

// Load reads into viper's global singleton, so each test that touches it
// resets viper first to avoid bleeding state across test functions.
func resetViper() {
	viper.Reset()
}

func TestLoadAppliesDocumentedDefaults(t *testing.T) {
	resetViper()
	cfg := Load(nil)

	if cfg.OutputDir != "./dedup_out" {
		t.Errorf("OutputDir default: got %q", cfg.OutputDir)
	}
	if cfg.MinSentenceWords != 8 {
		t.Errorf("MinSentenceWords default: got %d", cfg.MinSentenceWords)
	}
	if cfg.SimNgram != 3 {
		t.Errorf("SimNgram default: got %d", cfg.SimNgram)
	}
	if cfg.SimHammingStrict != 6 || cfg.SimHammingModerate != 8 {
		t.Errorf("Hamming defaults: got strict=%d moderate=%d", cfg.SimHammingStrict, cfg.SimHammingModerate)
	}
	if cfg.UseEmbeddings {
		t.Error("UseEmbeddings should default to false")
	}
	if cfg.EmbedThresholdStrict != 0.90 || cfg.EmbedThresholdModerate != 0.88 {
		t.Errorf("embedding threshold defaults: got strict=%v moderate=%v", cfg.EmbedThresholdStrict, cfg.EmbedThresholdModerate)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK default: got %d", cfg.TopK)
	}
	if cfg.EmbedRequestTimeout != 30*time.Second {
		t.Errorf("EmbedRequestTimeout default: got %v", cfg.EmbedRequestTimeout)
	}
	if cfg.EmbedMaxRetries != 3 {
		t.Errorf("EmbedMaxRetries default: got %d", cfg.EmbedMaxRetries)
	}
	if cfg.PostgresDSN != "" {
		t.Errorf("PostgresDSN default: got %q", cfg.PostgresDSN)
	}
}

func TestLoadNormalizesDocExtensions(t *testing.T) {
	resetViper()
	viper.Set("DOC_EXTENSIONS", []string{"DOCX", ".PDF", " txt ", ""})
	cfg := Load(nil)

	want := []string{".docx", ".pdf", ".txt"}
	if len(cfg.DocExts) != len(want) {
		t.Fatalf("expected %d normalized extensions, got %v", len(want), cfg.DocExts)
	}
	for i, ext := range want {
		if cfg.DocExts[i] != ext {
			t.Errorf("position %d: got %q, want %q", i, cfg.DocExts[i], ext)
		}
	}
}

func TestLoadResolvesNonPositiveWorkerConcurrencyToZero(t *testing.T) {
	resetViper()
	viper.Set("WORKER_CONCURRENCY", -4)
	cfg := Load(nil)

	if cfg.WorkerConcurrency != 0 {
		t.Errorf("expected non-positive WORKER_CONCURRENCY to resolve to 0, got %d", cfg.WorkerConcurrency)
	}
}
