package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Reranker scores a list of passages against a query with a cross-encoder.
type Reranker interface {
	Rerank(ctx context.Context, query string, texts []string) ([]float64, error)
	Available() bool
}

// RerankerService calls an external cross-encoder over HTTP. The endpoint
// follows the text-embeddings-inference rerank contract: POST /rerank with
// {"query": ..., "texts": [...]} returning [{"index": i, "score": s}, ...].
type RerankerService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewRerankerService creates a reranker client. An empty base URL means no
// reranker is deployed; Available reports false and hybrid search keeps the
// fused ordering.
func NewRerankerService(baseURL string, logger *zap.Logger) *RerankerService {
	return &RerankerService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Available reports whether a reranker endpoint is configured.
func (s *RerankerService) Available() bool {
	return s.baseURL != ""
}

type rerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type rerankEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Rerank returns one score per input text, positionally aligned.
func (s *RerankerService) Rerank(ctx context.Context, query string, texts []string) ([]float64, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("reranker not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	jsonData, err := json.Marshal(rerankRequest{Query: query, Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reranker error: %d", resp.StatusCode)
	}

	var entries []rerankEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scores := make([]float64, len(texts))
	for _, e := range entries {
		if e.Index >= 0 && e.Index < len(scores) {
			scores[e.Index] = e.Score
		}
	}
	return scores, nil
}
