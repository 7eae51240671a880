package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

func newQueryAnalyzer() *QueryAnalyzer {
	return NewQueryAnalyzer(service.NewDomainClassifier(nil, zap.NewNop()), zap.NewNop())
}

func TestQueryAnalyzerExtractsSections(t *testing.T) {
	rc := NewRequestContext("What is the punishment under Section 302 IPC and धारा 103 BNS?", "", "s1", "")

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.Equal(t, []string{"302", "103"}, rc.Sections)
	assert.Equal(t, []string{"IPC", "BNS"}, rc.ApplicableActs)
	assert.True(t, rc.IsRelevant)
}

func TestQueryAnalyzerCommonStandaloneSections(t *testing.T) {
	rc := NewRequestContext("murder 302 case registered against 150 persons", "", "s1", "")

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	// 302 is a well-known section number; 150 is just a count.
	assert.Equal(t, []string{"302"}, rc.Sections)
}

func TestQueryAnalyzerDetectsDomainAndReformulates(t *testing.T) {
	rc := NewRequestContext("What is the punishment for murder under Section 302?", "", "s1", "")

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.Equal(t, models.DomainCriminal, rc.DetectedDomain)
	assert.Equal(t, "en", rc.DetectedLanguage)
	assert.Equal(t, "Latin", rc.DetectedScript)
	assert.Equal(t, "[criminal] What is the punishment for murder under Section 302? (Sections: 302)", rc.ReformulatedQuery)
}

func TestQueryAnalyzerDetectsHindiScript(t *testing.T) {
	rc := NewRequestContext("धारा 302 के तहत हत्या की सजा क्या है?", "", "s1", "")

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.Equal(t, "hi", rc.DetectedLanguage)
	assert.Equal(t, "Devanagari", rc.DetectedScript)
}

func TestQueryAnalyzerDomainGateAcceptsMatch(t *testing.T) {
	rc := NewRequestContext("What is the punishment for murder under IPC?", "", "s1", models.DomainCriminal)

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.True(t, rc.IsRelevant)
	assert.Empty(t, rc.RejectionReason)
	assert.Equal(t, models.DomainCriminal, rc.DetectedDomain)
}

func TestQueryAnalyzerDomainGateRejectsMismatch(t *testing.T) {
	rc := NewRequestContext("What is the punishment for murder under IPC?", "", "s1", models.DomainProperty)

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.False(t, rc.IsRelevant)
	assert.Contains(t, rc.RejectionReason, "**criminal**")
	assert.Contains(t, rc.RejectionReason, "**property**")
	assert.Contains(t, rc.RejectionReason, "कानून")
	assert.Equal(t, models.DomainProperty, rc.DetectedDomain)
}

func TestQueryAnalyzerWildcardDomainSkipsGate(t *testing.T) {
	rc := NewRequestContext("What is the punishment for murder under IPC?", "", "s1", models.DomainAll)

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.True(t, rc.IsRelevant)
	assert.Equal(t, models.DomainCriminal, rc.DetectedDomain)
}

func TestQueryAnalyzerActsFromDomain(t *testing.T) {
	rc := NewRequestContext("How do I contest a traffic challan?", "", "s1", "")

	require.NoError(t, newQueryAnalyzer().Process(context.Background(), rc))

	assert.Equal(t, models.DomainTraffic, rc.DetectedDomain)
	assert.Equal(t, jurisdictionActs[models.DomainTraffic], rc.ApplicableActs)
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("What is the punishment for murder under the Indian Penal Code?")

	assert.Equal(t, []string{"punishment", "murder", "indian", "penal", "code"}, keywords)
}

func TestExtractKeywordsCap(t *testing.T) {
	keywords := extractKeywords("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima")

	assert.Len(t, keywords, 10)
}
