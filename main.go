package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"corpusdedup/config"
	"corpusdedup/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dedup",
		Short: "Corpus near-duplicate and reuse detection engine",
	}
	root.AddCommand(newRunCmd())
	return root
}

// newRunCmd builds the "dedup run" command, replacing the teacher's
// stdlib-flag-based mode switch (main.go's -web/-port flags) with a
// cobra command whose flags bind into the same viper-backed Config the
// teacher's config.Load already produces.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan a directory of documents and write reuse-detection artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.InitLogger()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer config.Cleanup()

			cfg := config.Load(logger)
			flags := cmd.Flags()
			cfg.InputDir, _ = flags.GetString("input")
			if cfg.InputDir == "" {
				return fmt.Errorf("--input is required")
			}
			if v, _ := flags.GetString("out"); v != "" {
				cfg.OutputDir = v
			}
			if v, _ := flags.GetBool("use-embeddings"); v {
				cfg.UseEmbeddings = true
			}
			if v, _ := flags.GetString("embed-host"); v != "" {
				cfg.EmbeddingHost = v
			}
			if v, _ := flags.GetInt("min-sentence-words"); v > 0 {
				cfg.MinSentenceWords = v
			}
			if v, _ := flags.GetInt("sim-ngram"); v > 0 {
				cfg.SimNgram = v
			}
			if v, _ := flags.GetInt("sim-hamming-strict"); v > 0 {
				cfg.SimHammingStrict = v
			}
			if v, _ := flags.GetInt("sim-hamming-moderate"); v > 0 {
				cfg.SimHammingModerate = v
			}
			if v, _ := flags.GetFloat64("embed-threshold-strict"); v > 0 {
				cfg.EmbedThresholdStrict = v
			}
			if v, _ := flags.GetFloat64("embed-threshold-moderate"); v > 0 {
				cfg.EmbedThresholdModerate = v
			}
			if v, _ := flags.GetInt("topk"); v > 0 {
				cfg.TopK = v
			}
			if v, _ := flags.GetInt("block-min-run"); v > 0 {
				cfg.BlockMinRun = v
			}
			if v, _ := flags.GetInt("embed-request-timeout"); v > 0 {
				cfg.EmbedRequestTimeout = time.Duration(v) * time.Second
			}
			if v, _ := flags.GetInt("embed-max-retries"); v > 0 {
				cfg.EmbedMaxRetries = v
			}
			if v, _ := flags.GetString("postgres-dsn"); v != "" {
				cfg.PostgresDSN = v
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger.Info("starting corpus scan",
				zap.String("input_dir", cfg.InputDir),
				zap.String("output_dir", cfg.OutputDir),
				zap.Bool("use_embeddings", cfg.UseEmbeddings))

			if err := engine.Run(ctx, cfg, logger); err != nil {
				logger.Error("run failed", zap.Error(err))
				return err
			}
			logger.Info("run complete", zap.String("output_dir", cfg.OutputDir))
			return nil
		},
	}

	cmd.Flags().String("input", "", "input directory to scan (required)")
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().Bool("use-embeddings", false, "enable embedding-based matching (C6)")
	cmd.Flags().String("embed-host", "", "embedding HTTP service host")
	cmd.Flags().Int("min-sentence-words", 0, "minimum word count to keep a sentence")
	cmd.Flags().Int("sim-ngram", 0, "word n-gram width for SimHash features")
	cmd.Flags().Int("sim-hamming-strict", 0, "maximum Hamming distance for the strict SimHash stratum")
	cmd.Flags().Int("sim-hamming-moderate", 0, "maximum Hamming distance for the moderate SimHash stratum")
	cmd.Flags().Float64("embed-threshold-strict", 0, "minimum cosine similarity for the strict embedding stratum")
	cmd.Flags().Float64("embed-threshold-moderate", 0, "minimum cosine similarity for the moderate embedding stratum")
	cmd.Flags().Int("topk", 0, "number of nearest neighbors to query per sentence embedding")
	cmd.Flags().Int("block-min-run", 0, "minimum consecutive run length to report as a block")
	cmd.Flags().Int("embed-request-timeout", 0, "embedding HTTP request timeout in seconds")
	cmd.Flags().Int("embed-max-retries", 0, "maximum retry attempts for a failed embedding request")
	cmd.Flags().String("postgres-dsn", "", "optional Postgres/pgvector DSN for the embedding index")

	return cmd
}
