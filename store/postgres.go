package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"corpusdedup/dedup"
)

// PostgresStore is the optional large-corpus backend for C6: vectors are
// stored in a pgvector column and queried with cosine-distance ordering
// instead of being held in process memory. Grounded in the teacher's
// database/db.go (sql.Open("pgx", ...) over the stdlib driver, explicit
// EnsureSchema) and database/rag_documents.go's embedding-column pattern,
// swapping pq.Float32Array for pgvector.Vector so similarity search runs
// inside Postgres rather than in Go.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore opens a connection pool against dsn.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

// EnsureCacheSchema creates the pgvector extension and the embedding_cache
// table. It has no dependency on vector dimensionality, so it can run
// before any embedding has been computed — CachedEmbedder needs the table
// in place before its first lookup.
func (s *PostgresStore) EnsureCacheSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS embedding_cache (
			id UUID PRIMARY KEY,
			content_hash TEXT NOT NULL,
			model TEXT NOT NULL,
			embedding REAL[] NOT NULL,
			UNIQUE(content_hash, model)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure cache schema: %w", err)
		}
	}
	return nil
}

// EnsureVectorSchema creates the sentence_vectors similarity-search table,
// sized for dims-dimensional embeddings. Unlike the cache table, this
// depends on the embedding model's vector size, so callers run it once
// the first vector has been computed.
func (s *PostgresStore) EnsureVectorSchema(ctx context.Context, dims int) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sentence_vectors (
			id UUID PRIMARY KEY,
			gid BIGINT NOT NULL UNIQUE,
			embedding vector(%d) NOT NULL
		)`, dims),
		`CREATE INDEX IF NOT EXISTS idx_sentence_vectors_gid ON sentence_vectors(gid)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure vector schema: %w", err)
		}
	}
	return nil
}

// PostgresIndex is the EmbeddingIndex implementation backed by PostgresStore.
type PostgresIndex struct {
	store *PostgresStore
}

// NewPostgresIndex wraps an already-schema'd store as an EmbeddingIndex.
func NewPostgresIndex(s *PostgresStore) *PostgresIndex {
	return &PostgresIndex{store: s}
}

// Add upserts vectors[i] under gids[i].
func (p *PostgresIndex) Add(ctx context.Context, gids []int, vectors [][]float32) error {
	const query = `
		INSERT INTO sentence_vectors (id, gid, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (gid) DO UPDATE SET embedding = EXCLUDED.embedding
	`
	for i, gid := range gids {
		if _, err := p.store.DB.ExecContext(ctx, query, uuid.New(), gid, pgvector.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("upsert sentence vector gid=%d: %w", gid, err)
		}
	}
	return nil
}

// Query returns the top-k neighbors of vector ranked by cosine distance
// (pgvector's <=> operator; similarity is 1 - distance).
func (p *PostgresIndex) Query(ctx context.Context, vector []float32, k int) ([]dedup.Neighbor, error) {
	const query = `
		SELECT gid, 1 - (embedding <=> $1) AS cosine
		FROM sentence_vectors
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := p.store.DB.QueryContext(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("query sentence vectors: %w", err)
	}
	defer rows.Close()

	var neighbors []dedup.Neighbor
	for rows.Next() {
		var n dedup.Neighbor
		if err := rows.Scan(&n.GID, &n.Cosine); err != nil {
			return nil, fmt.Errorf("scan neighbor row: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, rows.Err()
}

// CacheGet looks up a previously computed embedding by content hash and
// model name, mirroring database/rag_documents.go's embedding-column
// read/write pattern (pq.Float32Array marshaling) but against the
// dedicated embedding_cache table rather than rag_documents.
func (s *PostgresStore) CacheGet(ctx context.Context, contentHash, model string) ([]float32, bool, error) {
	const query = `SELECT embedding FROM embedding_cache WHERE content_hash = $1 AND model = $2`
	var embedding pq.Float32Array
	err := s.DB.QueryRowContext(ctx, query, contentHash, model).Scan(&embedding)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup cached embedding: %w", err)
	}
	return []float32(embedding), true, nil
}

// CachePut stores vector under (contentHash, model), overwriting any prior
// entry for the same key.
func (s *PostgresStore) CachePut(ctx context.Context, contentHash, model string, vector []float32) error {
	const query = `
		INSERT INTO embedding_cache (id, content_hash, model, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_hash, model) DO UPDATE SET embedding = EXCLUDED.embedding
	`
	if _, err := s.DB.ExecContext(ctx, query, uuid.New(), contentHash, model, pq.Float32Array(vector)); err != nil {
		return fmt.Errorf("store cached embedding: %w", err)
	}
	return nil
}
