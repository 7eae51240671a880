package agents

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

func fixtureCase(name string, landmark bool) models.CaseLaw {
	return models.CaseLaw{
		ID:         uuid.New(),
		CaseName:   name,
		Court:      models.CourtSupreme,
		CourtName:  "Supreme Court of India",
		Summary:    name + " summary.",
		IsLandmark: landmark,
		Domain:     models.DomainCriminal,
	}
}

func TestCaseRetrieverSectionCitesFirst(t *testing.T) {
	cited := fixtureCase("Bachan Singh v. State of Punjab", false)
	landmark := fixtureCase("Kesavananda Bharati v. State of Kerala", true)
	store := &stubCaseStore{
		bySection: map[string][]models.CaseLaw{"302": {cited}},
		landmark:  []models.CaseLaw{landmark},
	}

	rc := NewRequestContext("punishment for murder", "", "s1", "")
	rc.DetectedDomain = models.DomainCriminal
	rc.Statutes = []models.Statute{fixtureStatute("IPC", "302", "Punishment for murder")}

	a := NewCaseRetriever(store, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.Len(t, rc.CaseLaws, 2)
	assert.Equal(t, cited.ID, rc.CaseLaws[0].ID)
	assert.Equal(t, landmark.ID, rc.CaseLaws[1].ID)
}

func TestCaseRetrieverDomainSearchWhenNoSections(t *testing.T) {
	domainHit := fixtureCase("State of Maharashtra v. Salman Khan", false)
	landmark := fixtureCase("Maneka Gandhi v. Union of India", true)
	store := &stubCaseStore{
		searchHits: []models.CaseLaw{domainHit},
		landmark:   []models.CaseLaw{landmark},
	}

	rc := NewRequestContext("hit and run liability", "", "s1", "")
	rc.DetectedDomain = models.DomainCriminal

	a := NewCaseRetriever(store, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.Len(t, rc.CaseLaws, 2)
	assert.Equal(t, domainHit.ID, rc.CaseLaws[0].ID)

	// The pipeline does not constrain the court level.
	assert.Empty(t, store.searchCourt)
}

func TestCaseRetrieverDeduplicatesByID(t *testing.T) {
	shared := fixtureCase("Bachan Singh v. State of Punjab", true)
	store := &stubCaseStore{
		bySection: map[string][]models.CaseLaw{"302": {shared}},
		landmark:  []models.CaseLaw{shared},
	}

	rc := NewRequestContext("death penalty", "", "s1", "")
	rc.DetectedDomain = models.DomainCriminal
	rc.Statutes = []models.Statute{fixtureStatute("IPC", "302", "Punishment for murder")}

	a := NewCaseRetriever(store, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Len(t, rc.CaseLaws, 1)
}

func TestCaseRetrieverCapsAtFive(t *testing.T) {
	store := &stubCaseStore{
		bySection: map[string][]models.CaseLaw{
			"302": {fixtureCase("Case A", false), fixtureCase("Case B", false)},
			"307": {fixtureCase("Case C", false), fixtureCase("Case D", false)},
		},
		landmark: []models.CaseLaw{
			fixtureCase("Landmark A", true),
			fixtureCase("Landmark B", true),
			fixtureCase("Landmark C", true),
		},
	}

	rc := NewRequestContext("murder and attempt", "", "s1", "")
	rc.DetectedDomain = models.DomainCriminal
	rc.Statutes = []models.Statute{
		fixtureStatute("IPC", "302", "Murder"),
		fixtureStatute("IPC", "307", "Attempt to murder"),
	}

	a := NewCaseRetriever(store, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Len(t, rc.CaseLaws, 5)
}

func TestCaseRetrieverSemanticLookup(t *testing.T) {
	semantic := fixtureCase("Machhi Singh v. State of Punjab", false)
	store := &stubCaseStore{
		bySection: map[string][]models.CaseLaw{"302": {semantic}},
	}
	search := &stubPassageSearcher{results: []service.SearchResult{{
		Content: "Rarest of rare doctrine passage.",
		Metadata: models.ChunkMetadata{
			Domain:         models.DomainCriminal,
			Source:         "sc_judgments",
			Filename:       "sc_judgments.txt",
			SectionNumbers: []string{"302"},
		},
	}}}

	rc := NewRequestContext("when is the death penalty awarded", "", "s1", "")
	rc.DetectedDomain = models.DomainCriminal

	a := NewCaseRetriever(store, search, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.NotEmpty(t, rc.CaseLaws)
	found := false
	for _, c := range rc.CaseLaws {
		if c.ID == semantic.ID {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, 1, search.calls)
}
