package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

// Shared in-memory store fakes for the stage tests.

type stubStatuteStore struct {
	sections    map[string]*models.Statute
	searchHits  []models.Statute
	searchErr   error
	searchCalls int
	searchActs  []string
}

func sectionKey(actCode, sectionNumber string) string {
	return actCode + "/" + sectionNumber
}

func (s *stubStatuteStore) GetSection(ctx context.Context, sectionNumber, actCode string) (*models.Statute, error) {
	statute, ok := s.sections[sectionKey(actCode, sectionNumber)]
	if !ok {
		return nil, nil
	}
	return statute, nil
}

func (s *stubStatuteStore) SearchStatutes(ctx context.Context, text string, actCodes []string, domain string, limit int) ([]models.Statute, error) {
	s.searchCalls++
	s.searchActs = actCodes
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if len(s.searchHits) > limit {
		return s.searchHits[:limit], nil
	}
	return s.searchHits, nil
}

type stubMappingStore struct {
	byIPC map[string]*models.IPCBNSMapping
}

func (s *stubMappingStore) GetByIPCSection(ctx context.Context, ipcSection string) (*models.IPCBNSMapping, error) {
	return s.byIPC[ipcSection], nil
}

type stubPassageSearcher struct {
	results []service.SearchResult
	err     error
	calls   int
}

func (s *stubPassageSearcher) Search(ctx context.Context, query, domain string, k int, opts ...service.SearchOption) ([]service.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > k {
		return s.results[:k], nil
	}
	return s.results, nil
}

type stubCaseStore struct {
	bySection   map[string][]models.CaseLaw
	searchHits  []models.CaseLaw
	landmark    []models.CaseLaw
	searchCourt string
}

func capCases(cases []models.CaseLaw, limit int) []models.CaseLaw {
	if len(cases) > limit {
		return cases[:limit]
	}
	return cases
}

func (s *stubCaseStore) GetBySection(ctx context.Context, section string, limit int) ([]models.CaseLaw, error) {
	return capCases(s.bySection[section], limit), nil
}

func (s *stubCaseStore) Search(ctx context.Context, text, court, domain string, limit int) ([]models.CaseLaw, error) {
	s.searchCourt = court
	return capCases(s.searchHits, limit), nil
}

func (s *stubCaseStore) GetLandmark(ctx context.Context, domain string, limit int) ([]models.CaseLaw, error) {
	return capCases(s.landmark, limit), nil
}

type stubDocumentStore struct {
	docs map[string]*models.Document
	err  error
}

func (s *stubDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[id.String()], nil
}

type stubGenerator struct {
	chatResp string
	chatErr  error
	genResp  string
	genErr   error
	offline  bool

	chatCalls  int
	genPrompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	g.genPrompts = append(g.genPrompts, prompt)
	if g.genErr != nil {
		return "", g.genErr
	}
	return g.genResp, nil
}

func (g *stubGenerator) GenerateChat(ctx context.Context, system, user string, temperature float64) (string, error) {
	g.chatCalls++
	if g.chatErr != nil {
		return "", g.chatErr
	}
	return g.chatResp, nil
}

func (g *stubGenerator) Available() bool { return !g.offline }

func fixtureStatute(actCode, section, title string) models.Statute {
	return models.Statute{
		ActCode:       actCode,
		ActName:       actCode,
		SectionNumber: section,
		Title:         title,
		Content:       fmt.Sprintf("%s Section %s body text.", actCode, section),
		Domain:        models.DomainCriminal,
	}
}
