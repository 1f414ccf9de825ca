package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the deduplication engine's run parameters, per SPEC_FULL.md §6.
type Config struct {
	InputDir  string   `mapstructure:"INPUT_DIR"`
	OutputDir string   `mapstructure:"OUTPUT_DIR"`
	DocExts   []string `mapstructure:"DOC_EXTENSIONS"`

	MinSentenceWords int `mapstructure:"MIN_SENTENCE_WORDS"`
	SimNgram         int `mapstructure:"SIM_NGRAM"`
	SimHammingStrict int `mapstructure:"SIM_HAMMING_STRICT"`
	SimHammingModerate int `mapstructure:"SIM_HAMMING_MODERATE"`
	BlockMinRun      int `mapstructure:"BLOCK_MIN_RUN"`

	UseEmbeddings         bool    `mapstructure:"USE_EMBEDDINGS"`
	EmbedModel            string  `mapstructure:"EMBED_MODEL"`
	EmbedThresholdStrict  float64 `mapstructure:"EMBED_THRESHOLD_STRICT"`
	EmbedThresholdModerate float64 `mapstructure:"EMBED_THRESHOLD_MODERATE"`
	TopK                  int     `mapstructure:"TOPK"`

	EmbeddingHost      string        `mapstructure:"EMBEDDING_HOST"`
	EmbedRequestTimeout time.Duration `mapstructure:"EMBED_REQUEST_TIMEOUT"`
	EmbedMaxRetries     int           `mapstructure:"EMBED_MAX_RETRIES"`
	EmbedRetryDelay     time.Duration `mapstructure:"EMBED_RETRY_DELAY"`
	EmbedCacheSize      int           `mapstructure:"EMBED_CACHE_SIZE"`

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	WorkerConcurrency int `mapstructure:"WORKER_CONCURRENCY"`
}

// Load reads configuration from dedup.yaml / environment, falling back to the
// documented defaults from SPEC_FULL.md §6 for anything left unset.
func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("dedup")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("OUTPUT_DIR", "./dedup_out")
	viper.SetDefault("DOC_EXTENSIONS", []string{".docx", ".pdf", ".txt", ".md"})

	viper.SetDefault("MIN_SENTENCE_WORDS", 8)
	viper.SetDefault("SIM_NGRAM", 3)
	viper.SetDefault("SIM_HAMMING_STRICT", 6)
	viper.SetDefault("SIM_HAMMING_MODERATE", 8)
	viper.SetDefault("BLOCK_MIN_RUN", 2)

	viper.SetDefault("USE_EMBEDDINGS", false)
	viper.SetDefault("EMBED_MODEL", "sentence-transformers/all-MiniLM-L6-v2")
	viper.SetDefault("EMBED_THRESHOLD_STRICT", 0.90)
	viper.SetDefault("EMBED_THRESHOLD_MODERATE", 0.88)
	viper.SetDefault("TOPK", 8)

	viper.SetDefault("EMBEDDING_HOST", "http://localhost:8081")
	viper.SetDefault("EMBED_REQUEST_TIMEOUT", 30)
	viper.SetDefault("EMBED_MAX_RETRIES", 3)
	viper.SetDefault("EMBED_RETRY_DELAY", 1)
	viper.SetDefault("EMBED_CACHE_SIZE", 4096)

	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("WORKER_CONCURRENCY", 0)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Debug("No dedup.yaml found, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	config.EmbedRequestTimeout = config.EmbedRequestTimeout * time.Second
	config.EmbedRetryDelay = config.EmbedRetryDelay * time.Second

	cleanedExts := make([]string, 0, len(config.DocExts))
	for _, ext := range config.DocExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cleanedExts = append(cleanedExts, ext)
	}
	config.DocExts = cleanedExts

	if config.WorkerConcurrency <= 0 {
		config.WorkerConcurrency = 0 // not read by the engine; the LSH scan always runs one goroutine per band
	}

	return &config
}
