package embedclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type fakePersistentCache struct {
	store    map[cacheKey][]float32
	getCalls int
	putCalls int
}

func newFakePersistentCache() *fakePersistentCache {
	return &fakePersistentCache{store: make(map[cacheKey][]float32)}
}

func (f *fakePersistentCache) CacheGet(ctx context.Context, contentHash, model string) ([]float32, bool, error) {
	f.getCalls++
	v, ok := f.store[cacheKey{contentHash: contentHash, model: model}]
	return v, ok, nil
}

func (f *fakePersistentCache) CachePut(ctx context.Context, contentHash, model string, vector []float32) error {
	f.putCalls++
	f.store[cacheKey{contentHash: contentHash, model: model}] = vector
	return nil
}

func TestCachedEmbedderServesFromPersistentCacheWithoutCallingTheClient(t *testing.T) {
	// A client pointed at an address nothing listens on: if Embed reached
	// it, the call would fail and the test would catch that as an error.
	client := New("http://127.0.0.1:1", time.Millisecond, 1, 0, nil)
	persistent := newFakePersistentCache()
	embedder, err := NewCachedEmbedderWithPersistent(client, "test-model", 8, persistent)
	if err != nil {
		t.Fatalf("NewCachedEmbedderWithPersistent: %v", err)
	}

	hash := contentHash("some sentence")
	persistent.store[cacheKey{contentHash: hash, model: "test-model"}] = []float32{9, 9, 9}

	vec, err := embedder.Embed(context.Background(), "some sentence")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 9 {
		t.Fatalf("expected the persisted vector to be returned, got %v", vec)
	}
	if persistent.getCalls != 1 {
		t.Errorf("expected exactly one persistent cache lookup, got %d", persistent.getCalls)
	}

	// A second call for the same sentence should hit the in-process LRU
	// and never touch the persistent cache again.
	if _, err := embedder.Embed(context.Background(), "some sentence"); err != nil {
		t.Fatalf("second Embed returned error: %v", err)
	}
	if persistent.getCalls != 1 {
		t.Errorf("expected the in-process cache to serve the second call, got %d persistent lookups", persistent.getCalls)
	}
}

func TestCachedEmbedderFetchesAndPersistsOnFullMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{{Embedding: [][]float32{{1, 2, 3}}}})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, 1, 0, nil)
	persistent := newFakePersistentCache()
	embedder, err := NewCachedEmbedderWithPersistent(client, "test-model", 8, persistent)
	if err != nil {
		t.Fatalf("NewCachedEmbedderWithPersistent: %v", err)
	}

	vec, err := embedder.Embed(context.Background(), "a brand new sentence")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if persistent.putCalls != 1 {
		t.Errorf("expected the freshly fetched vector to be persisted, got %d put calls", persistent.putCalls)
	}
}

func TestCachedEmbedderWithoutPersistentCacheStillMemoizesLocally(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		json.NewEncoder(w).Encode(embeddingResponse{{Embedding: [][]float32{{1, 2, 3}}}})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, 1, 0, nil)
	embedder, err := NewCachedEmbedder(client, "test-model", 8)
	if err != nil {
		t.Fatalf("NewCachedEmbedder: %v", err)
	}
	if embedder.persistent != nil {
		t.Error("expected no persistent cache when none is supplied")
	}

	for i := 0; i < 2; i++ {
		if _, err := embedder.Embed(context.Background(), "repeated sentence"); err != nil {
			t.Fatalf("Embed call %d returned error: %v", i+1, err)
		}
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("expected the in-process cache to serve the second call, got %d requests", got)
	}
}
