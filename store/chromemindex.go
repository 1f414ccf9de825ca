// Package store provides EmbeddingIndex backends for corpusdedup's C6
// stage: an in-process default and an optional Postgres/pgvector backend
// for corpora too large to hold in memory.
package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"

	"corpusdedup/dedup"
)

// ChromemIndex is the default, in-process EmbeddingIndex backend (C6).
// Grounded in the teacher's rag/rag.go, which opens a chromem.DB and a
// single collection for its long-term-memory store. Here the collection
// holds one vector per kept sentence, addressed by gid; vectors arrive
// pre-computed from the embedding client, so the collection's own
// EmbeddingFunc is never invoked and is a hard-failing stub.
type ChromemIndex struct {
	collection *chromem.Collection
}

// NewChromemIndex creates an empty in-process index.
func NewChromemIndex() (*ChromemIndex, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection("sentence-vectors", nil, neverCalledEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create chromem collection: %w", err)
	}
	return &ChromemIndex{collection: collection}, nil
}

func neverCalledEmbeddingFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("chromem embedding func must not be called: vectors are always precomputed")
}

// Add indexes vectors[i] under gids[i].
func (c *ChromemIndex) Add(ctx context.Context, gids []int, vectors [][]float32) error {
	docs := make([]chromem.Document, len(gids))
	for i, gid := range gids {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(gid),
			Embedding: vectors[i],
		}
	}
	return c.collection.AddDocuments(ctx, docs, 4)
}

// Query returns the top-k neighbors of vector by cosine similarity.
func (c *ChromemIndex) Query(ctx context.Context, vector []float32, k int) ([]dedup.Neighbor, error) {
	if n := c.collection.Count(); n < k {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}
	results, err := c.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query chromem collection: %w", err)
	}
	neighbors := make([]dedup.Neighbor, 0, len(results))
	for _, r := range results {
		gid, err := strconv.Atoi(r.ID)
		if err != nil {
			continue
		}
		neighbors = append(neighbors, dedup.Neighbor{GID: gid, Cosine: float64(r.Similarity)})
	}
	return neighbors, nil
}
