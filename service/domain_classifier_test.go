package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
)

func TestClassifyCriminalQuery(t *testing.T) {
	c := NewDomainClassifier(nil, zap.NewNop())

	domain, confidence, scores := c.Classify(context.Background(), "What is the punishment for murder under IPC?")

	assert.Equal(t, models.DomainCriminal, domain)
	assert.Greater(t, confidence, 0.0)
	assert.Len(t, scores, len(models.AllDomains))
}

func TestClassifyTrafficQuery(t *testing.T) {
	c := NewDomainClassifier(nil, zap.NewNop())

	domain, _, _ := c.Classify(context.Background(), "How do I pay a traffic challan for jumping a red light?")

	assert.Equal(t, models.DomainTraffic, domain)
}

func TestClassifyPropertyQuery(t *testing.T) {
	c := NewDomainClassifier(nil, zap.NewNop())

	domain, _, _ := c.Classify(context.Background(), "How much stamp duty on a sale deed registration?")

	assert.Equal(t, models.DomainProperty, domain)
}

func TestClassifyScoresNormalized(t *testing.T) {
	c := NewDomainClassifier(nil, zap.NewNop())

	_, confidence, scores := c.Classify(context.Background(), "cyber crime hacking complaint")

	require.NotEmpty(t, scores)
	for domain, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0, "domain %s", domain)
		assert.LessOrEqual(t, score, 1.0, "domain %s", domain)
	}
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestClassifyDeterministicWithoutEmbedder(t *testing.T) {
	c := NewDomainClassifier(nil, zap.NewNop())

	d1, s1, _ := c.Classify(context.Background(), "divorce and child custody process")
	d2, s2, _ := c.Classify(context.Background(), "divorce and child custody process")

	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)
}

func TestClassifySemanticScoringWithEmbedder(t *testing.T) {
	// A constant embedder makes every semantic score identical, so the BM25
	// side still decides the winner.
	vec := make([]float64, 768)
	vec[0] = 1.0
	c := NewDomainClassifier(&stubEmbedder{vec: vec}, zap.NewNop())

	domain, confidence, _ := c.Classify(context.Background(), "What is the punishment for murder under IPC?")

	assert.Equal(t, models.DomainCriminal, domain)
	assert.Greater(t, confidence, 0.0)
}
