// Package embedclient is the HTTP client for the external embedding
// service C6 treats as an opaque embed(strings) -> unit-norm vectors
// collaborator (spec.md §1, §4.6). Grounded in the teacher's
// llmclient/client.go Embed method and its llama.cpp-compatible
// /v1/embeddings request/response shape, generalized to a standalone
// client package since this program has no chat or tokenize surface.
package embedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type embeddingRequest struct {
	Content string `json:"content"`
}

type embeddingResponse []struct {
	Embedding [][]float32 `json:"embedding"`
}

// Client calls a llama.cpp-compatible embeddings endpoint.
type Client struct {
	host       string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

// New builds a Client against host that makes at most maxRetries attempts
// per request (at least one). A transport error or a 503 (model still
// loading) response leads to another attempt; only the 503 case waits
// retryDelay first.
func New(host string, requestTimeout time.Duration, maxRetries int, retryDelay time.Duration, logger *zap.Logger) *Client {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Embed generates a single embedding vector for doc.
func (c *Client) Embed(ctx context.Context, doc string) ([]float32, error) {
	jsonBody, err := json.Marshal(embeddingRequest{Content: doc})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", c.host)
	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		r, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if r.StatusCode == http.StatusServiceUnavailable {
			io.Copy(io.Discard, r.Body)
			r.Body.Close()
			c.logger.Warn("embedding model loading, retrying")
			time.Sleep(c.retryDelay)
			continue
		}

		resp = r
		break
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from embedding server: %w", lastErr)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding server status %s: %s", resp.Status, string(bodyBytes))
	}

	var er embeddingResponse
	if err := json.Unmarshal(bodyBytes, &er); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(er) == 0 || len(er[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response was empty")
	}
	return er[0].Embedding[0], nil
}
