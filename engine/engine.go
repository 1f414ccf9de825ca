// Package engine wires the pure algorithms in package dedup to concrete
// I/O: document discovery, the optional embedding service, and output
// writing. It is the only place that knows about docset, embedclient, and
// store — dedup itself stays free of those dependencies so its core
// algorithms compile and test without any of them.
package engine

import (
	"context"

	"go.uber.org/zap"

	"corpusdedup/config"
	"corpusdedup/dedup"
	"corpusdedup/docset"
	"corpusdedup/embedclient"
	"corpusdedup/errors"
	"corpusdedup/store"
)

// Run executes one full corpus pass: discovery, sentence extraction,
// exact/SimHash/embedding matching, block merging, and metrics, then
// writes every artifact under cfg.OutputDir.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	rawDocs, err := docset.Discover(cfg.InputDir, cfg.DocExts, logger)
	if err != nil {
		if errors.IsEmptyCorpus(err) {
			logger.Warn("no documents found, writing empty outputs", zap.String("input_dir", cfg.InputDir))
			return writeEmptyResult(cfg)
		}
		return err
	}

	docs := make([]dedup.Document, len(rawDocs))
	for i, d := range rawDocs {
		docs[i] = dedup.Document{DocID: i, Name: d.Name}
	}

	items := ingest(rawDocs, cfg)
	logger.Info("sentences extracted",
		zap.Int("documents", len(docs)),
		zap.Int("kept_sentences", len(items)))

	exactPairs := dedup.ExactPairs(items)

	lshCandidates := dedup.LSHCandidates(items, cfg.SimHammingModerate)
	simStrict, simModerate := dedup.SplitByHamming(lshCandidates, cfg.SimHammingStrict)

	embedStrict, embedModerate, embedEnabled := runEmbeddings(ctx, items, cfg, logger)

	edges := dedup.BuildEdges(items, exactPairs, simModerate, embedModerate)
	docNames := make(map[int]string, len(docs))
	for _, d := range docs {
		docNames[d.DocID] = d.Name
	}
	blocks := dedup.BuildBlocks(edges, docNames, cfg.BlockMinRun)

	matchedAny := dedup.MatchedAnySets(items, exactPairs, simModerate, embedModerate)
	inBlock := dedup.InBlockSentences(blocks)
	docMetrics := dedup.DocumentMetrics(docs, items, matchedAny, inBlock)

	summary := dedup.Summary{
		NDocuments:           len(docs),
		NSentencesKept:       len(items),
		ExactPairs:           len(exactPairs),
		SimHashPairsModerate: len(simModerate),
		SimHashPairsStrict:   len(simStrict),
		EmbedPairsModerate:   len(embedModerate),
		EmbedPairsStrict:     len(embedStrict),
		BlockMatches:         len(blocks),
		Params:               paramsMap(cfg, embedEnabled),
		Docs:                 docNamesInOrder(docs),
	}

	result := dedup.Result{
		Docs:            docs,
		Items:           items,
		ExactPairs:      exactPairs,
		SimHashModerate: simModerate,
		SimHashStrict:   simStrict,
		EmbedModerate:   embedModerate,
		EmbedStrict:     embedStrict,
		Blocks:          blocks,
		DocMetrics:      docMetrics,
		Summary:         summary,
	}
	return dedup.WriteResult(cfg.OutputDir, result)
}

// ingest implements C1/C2/C3 over the discovered documents: split, filter
// short sentences, normalize, and sign. SentID is dense and contiguous
// over surviving sentences within each document (filtered-out sentences
// leave no gap — SPEC_FULL.md §3 deliberately redefines this relative to
// the original reference script's pre-filter enumeration). GID is the
// running index over kept sentences across the whole corpus.
func ingest(rawDocs []docset.Doc, cfg *config.Config) []dedup.SentenceItem {
	var items []dedup.SentenceItem
	gid := 0
	for docID, d := range rawDocs {
		sid := 0
		for _, raw := range dedup.SplitSentences(d.Text) {
			norm := dedup.Normalize(raw)
			if dedup.WordTokenCount(norm) < cfg.MinSentenceWords {
				continue
			}
			sig := dedup.SimHash64(norm, cfg.SimNgram)
			items = append(items, dedup.SentenceItem{
				GID: gid, DocID: docID, SentID: sid, Raw: raw, Norm: norm, Sig: sig,
			})
			gid++
			sid++
		}
	}
	return items
}

// runEmbeddings implements C6's optional path, including the
// embedder-unavailable fallback of spec.md §7 kind 4: any construction or
// request error disables embeddings for the run and logs a warning rather
// than aborting.
func runEmbeddings(ctx context.Context, items []dedup.SentenceItem, cfg *config.Config, logger *zap.Logger) (strict, moderate []dedup.Pair, enabled bool) {
	if !cfg.UseEmbeddings {
		return nil, nil, false
	}

	index, vectors, err := buildEmbeddingIndex(ctx, items, cfg, logger)
	if err != nil {
		logger.Warn("embeddings unavailable, proceeding without them",
			zap.Error(errors.Wrap(err, "embedder unavailable")))
		return nil, nil, false
	}

	strict, moderate, err = dedup.EmbedPairs(ctx, items, vectors, index, cfg.TopK, cfg.EmbedThresholdStrict, cfg.EmbedThresholdModerate)
	if err != nil {
		logger.Warn("embedding query failed, proceeding without them", zap.Error(err))
		return nil, nil, false
	}
	return strict, moderate, true
}

// buildEmbeddingIndex wires C6's storage backend. When PostgresDSN is set,
// the same pgStore backs both the similarity-search index and the
// CachedEmbedder's persistent cache, so embeddings computed in one run are
// reused in the next; otherwise the index is the in-process chromem-go
// collection and caching stays local-only for the run.
func buildEmbeddingIndex(ctx context.Context, items []dedup.SentenceItem, cfg *config.Config, logger *zap.Logger) (dedup.EmbeddingIndex, map[int][]float32, error) {
	client := embedclient.New(cfg.EmbeddingHost, cfg.EmbedRequestTimeout, cfg.EmbedMaxRetries, cfg.EmbedRetryDelay, logger)

	var pgStore *store.PostgresStore
	var cached *embedclient.CachedEmbedder
	if cfg.PostgresDSN != "" {
		var err error
		pgStore, err = store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect postgres")
		}
		if err := pgStore.EnsureCacheSchema(ctx); err != nil {
			return nil, nil, errors.Wrap(err, "ensure postgres cache schema")
		}
		cached, err = embedclient.NewCachedEmbedderWithPersistent(client, cfg.EmbedModel, cfg.EmbedCacheSize, pgStore)
		if err != nil {
			return nil, nil, errors.Wrap(err, "construct embedding cache")
		}
	} else {
		var err error
		cached, err = embedclient.NewCachedEmbedder(client, cfg.EmbedModel, cfg.EmbedCacheSize)
		if err != nil {
			return nil, nil, errors.Wrap(err, "construct embedding cache")
		}
	}

	vectors := make(map[int][]float32, len(items))
	gids := make([]int, 0, len(items))
	vecs := make([][]float32, 0, len(items))
	for _, it := range items {
		vec, err := cached.Embed(ctx, it.Norm)
		if err != nil {
			return nil, nil, errors.Wrapf(errors.ErrEmbedderUnavailable, "embed sentence gid=%d: %v", it.GID, err)
		}
		vectors[it.GID] = vec
		gids = append(gids, it.GID)
		vecs = append(vecs, vec)
	}

	var index dedup.EmbeddingIndex
	if pgStore != nil {
		dims := 0
		if len(vecs) > 0 {
			dims = len(vecs[0])
		}
		if err := pgStore.EnsureVectorSchema(ctx, dims); err != nil {
			return nil, nil, errors.Wrap(err, "ensure postgres vector schema")
		}
		index = store.NewPostgresIndex(pgStore)
	} else {
		chromemIndex, err := store.NewChromemIndex()
		if err != nil {
			return nil, nil, errors.Wrap(err, "construct in-process index")
		}
		index = chromemIndex
	}

	if err := index.Add(ctx, gids, vecs); err != nil {
		return nil, nil, errors.Wrap(err, "index embedding vectors")
	}
	return index, vectors, nil
}

func docNamesInOrder(docs []dedup.Document) []string {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names
}

func paramsMap(cfg *config.Config, embedEnabled bool) map[string]any {
	return map[string]any{
		"min_sentence_words":      cfg.MinSentenceWords,
		"sim_ngram":               cfg.SimNgram,
		"sim_hamming_strict":      cfg.SimHammingStrict,
		"sim_hamming_moderate":    cfg.SimHammingModerate,
		"use_embeddings":          embedEnabled,
		"embed_model":             cfg.EmbedModel,
		"embed_threshold_strict":   cfg.EmbedThresholdStrict,
		"embed_threshold_moderate": cfg.EmbedThresholdModerate,
		"topk":                    cfg.TopK,
		"block_min_run":           cfg.BlockMinRun,
	}
}

func writeEmptyResult(cfg *config.Config) error {
	summary := dedup.Summary{
		Params: paramsMap(cfg, false),
		Docs:   []string{},
	}
	return dedup.WriteSummary(cfg.OutputDir, summary)
}
