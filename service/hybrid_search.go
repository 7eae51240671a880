package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"nyayguru-backend/models"
)

// Result sources.
const (
	SourceVector = "vector"
	SourceBM25   = "bm25"
	SourceHybrid = "hybrid"
)

const rerankThreshold = 0.3

// ChunkSearcher runs a dense ANN query over the chunk index. An empty domain
// admits every chunk.
type ChunkSearcher interface {
	SearchByEmbedding(ctx context.Context, embedding []float64, domain string, limit int) ([]models.LegalChunk, error)
}

// SearchResult is one fused passage returned by hybrid search.
type SearchResult struct {
	Content     string               `json:"content"`
	Metadata    models.ChunkMetadata `json:"metadata"`
	Score       float64              `json:"score"`
	VectorScore float64              `json:"vector_score"`
	BM25Score   float64              `json:"bm25_score"`
	RerankScore float64              `json:"rerank_score,omitempty"`
	Source      string               `json:"source"`
}

// SearchOption configures a single hybrid search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	vectorWeight float64
	bm25Weight   float64
	useReranker  bool
}

// WithWeights overrides the fusion weights. Defaults are 0.5/0.5.
func WithWeights(vector, bm25 float64) SearchOption {
	return func(c *searchConfig) {
		c.vectorWeight = vector
		c.bm25Weight = bm25
	}
}

// WithReranker enables cross-encoder re-ranking of the fused candidates.
func WithReranker() SearchOption {
	return func(c *searchConfig) { c.useReranker = true }
}

// HybridSearchService fuses dense vector retrieval with sparse BM25 scoring
// and optionally re-ranks the merged list with a cross-encoder.
type HybridSearchService struct {
	embedder Embedder
	chunks   ChunkSearcher
	bm25     *BM25Index
	reranker Reranker
	logger   *zap.Logger

	rerankWarn sync.Once
}

// NewHybridSearchService wires the retrieval stack together. Any of embedder,
// chunks, or reranker may be nil; the engine degrades to whichever sides are
// available.
func NewHybridSearchService(embedder Embedder, chunks ChunkSearcher, bm25 *BM25Index, reranker Reranker, logger *zap.Logger) *HybridSearchService {
	return &HybridSearchService{
		embedder: embedder,
		chunks:   chunks,
		bm25:     bm25,
		reranker: reranker,
		logger:   logger,
	}
}

// Search returns the top k passages for the query, filtered by domain when
// non-empty. Ties in fused or rerank score keep insertion order, dense hits
// before sparse ones.
func (s *HybridSearchService) Search(ctx context.Context, query, domain string, k int, opts ...SearchOption) ([]SearchResult, error) {
	cfg := searchConfig{vectorWeight: 0.5, bm25Weight: 0.5}
	for _, opt := range opts {
		opt(&cfg)
	}

	candidates := k * 4

	dense := s.denseSearch(ctx, query, domain, candidates)
	sparse := s.sparseSearch(query, domain, candidates)

	results := fuse(dense, sparse, cfg.vectorWeight, cfg.bm25Weight)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if cfg.useReranker {
		if s.reranker != nil && s.reranker.Available() {
			if reranked, err := s.rerank(ctx, query, results, candidates); err != nil {
				s.logger.Warn("reranking failed, keeping fused order", zap.Error(err))
			} else {
				results = reranked
			}
		} else {
			s.rerankWarn.Do(func() {
				s.logger.Info("reranker not configured, using fused ordering")
			})
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

type scoredChunk struct {
	content  string
	metadata models.ChunkMetadata
	score    float64
}

func (s *HybridSearchService) denseSearch(ctx context.Context, query, domain string, limit int) []scoredChunk {
	if s.embedder == nil || s.chunks == nil {
		return nil
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, falling back to sparse retrieval", zap.Error(err))
		return nil
	}

	chunks, err := s.chunks.SearchByEmbedding(ctx, embedding, domain, limit)
	if err != nil {
		s.logger.Warn("vector search failed", zap.Error(err))
		return nil
	}

	out := make([]scoredChunk, 0, len(chunks))
	for _, c := range chunks {
		if !c.Metadata.Valid() {
			s.logger.Warn("dropping malformed index entry", zap.String("chunk_id", c.ID.String()))
			continue
		}
		out = append(out, scoredChunk{
			content:  c.Content,
			metadata: c.Metadata,
			score:    1.0 / (1.0 + c.Distance),
		})
	}
	return out
}

func (s *HybridSearchService) sparseSearch(query, domain string, limit int) []scoredChunk {
	if s.bm25 == nil {
		return nil
	}

	filter := func(m models.ChunkMetadata) bool {
		if !m.Valid() {
			return false
		}
		return domain == "" || m.Domain == domain
	}

	hits := s.bm25.Search(query, filter, limit)
	out := make([]scoredChunk, 0, len(hits))
	for _, h := range hits {
		out = append(out, scoredChunk{content: h.Chunk.Content, metadata: h.Chunk.Metadata, score: h.Score})
	}
	return out
}

// fuse merges the two lists by content key. Dense entries are inserted first
// so they precede sparse-only entries at equal fused scores.
func fuse(dense, sparse []scoredChunk, vectorWeight, bm25Weight float64) []SearchResult {
	denseNorm := normalizeScores(dense)
	sparseNorm := normalizeScores(sparse)

	index := make(map[string]int)
	results := make([]SearchResult, 0, len(dense)+len(sparse))

	for i, c := range dense {
		index[c.content] = len(results)
		results = append(results, SearchResult{
			Content:     c.content,
			Metadata:    c.metadata,
			VectorScore: denseNorm[i],
			Score:       vectorWeight * denseNorm[i],
			Source:      SourceVector,
		})
	}

	for i, c := range sparse {
		if j, ok := index[c.content]; ok {
			results[j].BM25Score = sparseNorm[i]
			results[j].Score += bm25Weight * sparseNorm[i]
			results[j].Source = SourceHybrid
			continue
		}
		results = append(results, SearchResult{
			Content:   c.content,
			Metadata:  c.metadata,
			BM25Score: sparseNorm[i],
			Score:     bm25Weight * sparseNorm[i],
			Source:    SourceBM25,
		})
	}

	return results
}

func normalizeScores(chunks []scoredChunk) []float64 {
	norm := make([]float64, len(chunks))
	if len(chunks) == 0 {
		return norm
	}
	min, max := chunks[0].score, chunks[0].score
	for _, c := range chunks[1:] {
		if c.score < min {
			min = c.score
		}
		if c.score > max {
			max = c.score
		}
	}
	for i, c := range chunks {
		if max == min {
			norm[i] = 1.0
			continue
		}
		norm[i] = (c.score - min) / (max - min)
	}
	return norm
}

func (s *HybridSearchService) rerank(ctx context.Context, query string, results []SearchResult, limit int) ([]SearchResult, error) {
	if len(results) == 0 {
		return results, nil
	}
	if len(results) > limit {
		results = results[:limit]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
	}

	scores, err := s.reranker.Rerank(ctx, query, texts)
	if err != nil {
		return nil, err
	}

	min, max := scores[0], scores[0]
	for _, sc := range scores[1:] {
		if sc < min {
			min = sc
		}
		if sc > max {
			max = sc
		}
	}

	kept := make([]SearchResult, 0, len(results))
	for i := range results {
		normalized := 1.0
		if max != min {
			normalized = (scores[i] - min) / (max - min)
		}
		if normalized < rerankThreshold {
			continue
		}
		results[i].RerankScore = normalized
		kept = append(kept, results[i])
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].RerankScore > kept[j].RerankScore })
	return kept, nil
}
