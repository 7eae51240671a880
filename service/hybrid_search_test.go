package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
)

type stubEmbedder struct {
	vec []float64
	err error
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	return s.vec, s.err
}

func (s *stubEmbedder) EmbedDocument(ctx context.Context, text string) ([]float64, error) {
	return s.vec, s.err
}

type stubChunkSearcher struct {
	chunks []models.LegalChunk
	err    error
}

func (s *stubChunkSearcher) SearchByEmbedding(ctx context.Context, embedding []float64, domain string, limit int) ([]models.LegalChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.LegalChunk
	for _, c := range s.chunks {
		if domain == "" || c.Metadata.Domain == domain {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubReranker struct {
	scores    []float64
	err       error
	available bool
}

func (s *stubReranker) Rerank(ctx context.Context, query string, texts []string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.scores[:len(texts)], nil
}

func (s *stubReranker) Available() bool { return s.available }

func denseChunk(domain, source, content string, distance float64) models.LegalChunk {
	c := chunkFixture(domain, source, content)
	c.Distance = distance
	return c
}

func TestHybridSearchFusesBothSides(t *testing.T) {
	dense := &stubChunkSearcher{chunks: []models.LegalChunk{
		denseChunk("criminal", "ipc_302", "Whoever commits murder shall be punished with death.", 0.1),
		denseChunk("criminal", "ipc_307", "Whoever attempts to commit murder shall be punished.", 0.4),
	}}
	bm25 := NewBM25Index([]models.LegalChunk{
		chunkFixture("criminal", "ipc_302", "Whoever commits murder shall be punished with death."),
		chunkFixture("criminal", "ipc_378", "Theft is the dishonest taking of movable property."),
	})

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, dense, bm25, nil, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder punishment", "criminal", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// The chunk found by both sides carries both scores and ranks first.
	assert.Equal(t, "Whoever commits murder shall be punished with death.", results[0].Content)
	assert.Equal(t, SourceHybrid, results[0].Source)
	assert.Greater(t, results[0].Score, results[len(results)-1].Score)
}

func TestHybridSearchCapsAtK(t *testing.T) {
	var chunks []models.LegalChunk
	contents := []string{
		"Murder is punished with death penalty under the code.",
		"Attempt to murder is punished with imprisonment.",
		"Culpable homicide not amounting to murder is separate.",
		"Abetment of murder is equally punishable.",
	}
	for i, content := range contents {
		chunks = append(chunks, denseChunk("criminal", "doc", content, 0.1*float64(i+1)))
	}

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, &stubChunkSearcher{chunks: chunks}, NewBM25Index(nil), nil, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "criminal", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestHybridSearchSparseOnlyWhenEmbeddingFails(t *testing.T) {
	bm25 := NewBM25Index([]models.LegalChunk{
		chunkFixture("criminal", "ipc_302", "Whoever commits murder shall be punished with death."),
	})

	svc := NewHybridSearchService(&stubEmbedder{err: errors.New("quota exceeded")}, &stubChunkSearcher{}, bm25, nil, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "", 3)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, SourceBM25, results[0].Source)
}

func TestHybridSearchDropsMalformedEntries(t *testing.T) {
	bad := models.LegalChunk{Content: "orphan passage"}
	dense := &stubChunkSearcher{chunks: []models.LegalChunk{
		bad,
		denseChunk("criminal", "ipc_302", "Whoever commits murder shall be punished.", 0.2),
	}}

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, dense, NewBM25Index(nil), nil, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "Whoever commits murder shall be punished.", results[0].Content)
}

func TestHybridSearchRerankerReorders(t *testing.T) {
	dense := &stubChunkSearcher{chunks: []models.LegalChunk{
		denseChunk("criminal", "a", "First passage about murder.", 0.1),
		denseChunk("criminal", "b", "Second passage about murder.", 0.2),
	}}
	reranker := &stubReranker{scores: []float64{0.1, 0.9}, available: true}

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, dense, NewBM25Index(nil), reranker, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "", 5, WithReranker())
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "Second passage about murder.", results[0].Content)
	assert.Equal(t, 1.0, results[0].RerankScore)
}

func TestHybridSearchRerankerFailureKeepsFusedOrder(t *testing.T) {
	dense := &stubChunkSearcher{chunks: []models.LegalChunk{
		denseChunk("criminal", "a", "First passage about murder.", 0.1),
		denseChunk("criminal", "b", "Second passage about murder.", 0.5),
	}}
	reranker := &stubReranker{err: errors.New("reranker down"), available: true}

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, dense, NewBM25Index(nil), reranker, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "", 5, WithReranker())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "First passage about murder.", results[0].Content)
}

func TestHybridSearchRerankerAbsentIsFusedOrder(t *testing.T) {
	dense := &stubChunkSearcher{chunks: []models.LegalChunk{
		denseChunk("criminal", "a", "First passage about murder.", 0.1),
	}}

	svc := NewHybridSearchService(&stubEmbedder{vec: make([]float64, 768)}, dense, NewBM25Index(nil), nil, zap.NewNop())
	results, err := svc.Search(context.Background(), "murder", "", 5, WithReranker())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Zero(t, results[0].RerankScore)
}
