package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

func TestStatuteRetrieverExactLookupWithMapping(t *testing.T) {
	ipc302 := fixtureStatute("IPC", "302", "Punishment for murder")
	bns103 := fixtureStatute("BNS", "103", "Punishment for murder")
	statutes := &stubStatuteStore{sections: map[string]*models.Statute{
		sectionKey("IPC", "302"): &ipc302,
		sectionKey("BNS", "103"): &bns103,
	}}
	mappings := &stubMappingStore{byIPC: map[string]*models.IPCBNSMapping{
		"302": {IPCSection: "302", BNSSection: "103", MappingType: models.MappingModified},
	}}

	rc := NewRequestContext("punishment for murder", "", "s1", "")
	rc.Sections = []string{"302"}
	rc.ApplicableActs = []string{"IPC"}

	a := NewStatuteRetriever(statutes, mappings, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.Len(t, rc.Statutes, 2)
	assert.Equal(t, "302", rc.Statutes[0].SectionNumber)
	assert.Equal(t, "IPC", rc.Statutes[0].ActCode)
	assert.Equal(t, "103", rc.Statutes[1].SectionNumber)
	assert.Equal(t, "BNS", rc.Statutes[1].ActCode)

	require.Len(t, rc.Mappings, 1)
	assert.Equal(t, "103", rc.Mappings[0].BNSSection)

	// Exact hits mean the keyword fallback never fires.
	assert.Zero(t, statutes.searchCalls)
}

func TestStatuteRetrieverShapesPassageHits(t *testing.T) {
	search := &stubPassageSearcher{results: []service.SearchResult{{
		Content: "Whoever commits murder shall be punished with death.",
		Metadata: models.ChunkMetadata{
			Domain:         models.DomainCriminal,
			Source:         "ipc_302",
			Filename:       "ipc_302.txt",
			ActName:        "Indian Penal Code",
			SectionNumbers: []string{"302", "34"},
		},
	}}}
	statutes := &stubStatuteStore{}
	mappings := &stubMappingStore{}

	rc := NewRequestContext("punishment for murder", "", "s1", "")
	a := NewStatuteRetriever(statutes, mappings, search, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.Len(t, rc.Statutes, 1)
	assert.Equal(t, "Indian Penal Code", rc.Statutes[0].ActName)
	assert.Equal(t, "ipc_302.txt", rc.Statutes[0].Title)
	assert.Equal(t, "302", rc.Statutes[0].SectionNumber)
	assert.Equal(t, models.DomainCriminal, rc.Statutes[0].Domain)
	assert.Zero(t, statutes.searchCalls)
}

func TestStatuteRetrieverKeywordFallback(t *testing.T) {
	statutes := &stubStatuteStore{searchHits: []models.Statute{
		fixtureStatute("MVA", "184", "Driving dangerously"),
	}}

	rc := NewRequestContext("dangerous driving penalty", "", "s1", "")
	rc.ApplicableActs = []string{"MVA"}
	a := NewStatuteRetriever(statutes, &stubMappingStore{}, &stubPassageSearcher{}, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	require.Len(t, rc.Statutes, 1)
	assert.Equal(t, "184", rc.Statutes[0].SectionNumber)
	assert.Equal(t, 1, statutes.searchCalls)

	// The fallback narrows the keyword search to the applicable acts.
	assert.Equal(t, []string{"MVA"}, statutes.searchActs)
}

func TestStatuteRetrieverSearchFailureRecordsError(t *testing.T) {
	search := &stubPassageSearcher{err: errors.New("index unavailable")}
	statutes := &stubStatuteStore{searchHits: []models.Statute{
		fixtureStatute("IPC", "302", "Punishment for murder"),
	}}

	rc := NewRequestContext("punishment for murder", "", "s1", "")
	a := NewStatuteRetriever(statutes, &stubMappingStore{}, search, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	// Hybrid search failed, keyword fallback still produced results.
	require.Len(t, rc.Statutes, 1)
	require.Len(t, rc.Errors, 1)
	assert.Contains(t, rc.Errors[0].Message, "index unavailable")
}

func TestStatuteRetrieverDedupesPassages(t *testing.T) {
	hit := service.SearchResult{
		Content: "Theft is the dishonest taking of movable property.",
		Metadata: models.ChunkMetadata{
			Domain:         models.DomainCriminal,
			Source:         "ipc_378",
			Filename:       "ipc_378.txt",
			SectionNumbers: []string{"378"},
		},
	}
	search := &stubPassageSearcher{results: []service.SearchResult{hit, hit}}

	rc := NewRequestContext("definition of theft", "", "s1", "")
	a := NewStatuteRetriever(&stubStatuteStore{}, &stubMappingStore{}, search, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Len(t, rc.Statutes, 1)
}

func TestStatuteRetrieverCapsAtFive(t *testing.T) {
	sections := []string{"302", "307", "376", "420", "498", "304"}
	store := &stubStatuteStore{sections: make(map[string]*models.Statute)}
	for _, section := range sections {
		s := fixtureStatute("IPC", section, "Section "+section)
		store.sections[sectionKey("IPC", section)] = &s
	}

	rc := NewRequestContext("multiple offences", "", "s1", "")
	rc.Sections = sections
	rc.ApplicableActs = []string{"IPC"}

	a := NewStatuteRetriever(store, &stubMappingStore{}, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	assert.Len(t, rc.Statutes, 5)
}

func TestStatuteRetrieverSkipsPresentBNSCounterpart(t *testing.T) {
	ipc302 := fixtureStatute("IPC", "302", "Punishment for murder")
	bns103 := fixtureStatute("BNS", "103", "Punishment for murder")
	statutes := &stubStatuteStore{sections: map[string]*models.Statute{
		sectionKey("IPC", "302"): &ipc302,
		sectionKey("BNS", "103"): &bns103,
	}}
	mappings := &stubMappingStore{byIPC: map[string]*models.IPCBNSMapping{
		"302": {IPCSection: "302", BNSSection: "103"},
	}}

	rc := NewRequestContext("ipc 302 vs bns 103", "", "s1", "")
	rc.Sections = []string{"302", "103"}
	rc.ApplicableActs = []string{"IPC", "BNS"}

	a := NewStatuteRetriever(statutes, mappings, nil, zap.NewNop())
	require.NoError(t, a.Process(context.Background(), rc))

	// 103 came from the exact lookup already; the mapping must not add it twice.
	count := 0
	for _, s := range rc.Statutes {
		if s.ActCode == "BNS" && s.SectionNumber == "103" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	require.Len(t, rc.Mappings, 1)
}
