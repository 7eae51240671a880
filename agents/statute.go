package agents

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

// Per-request cap on parallel store lookups inside a stage.
const stageConcurrency = 8

const maxStatutes = 5

// StatuteStore is the structured store surface the retrieval stages need
// for statute sections.
type StatuteStore interface {
	GetSection(ctx context.Context, sectionNumber, actCode string) (*models.Statute, error)
	SearchStatutes(ctx context.Context, text string, actCodes []string, domain string, limit int) ([]models.Statute, error)
}

// MappingStore looks up IPC to BNS cross-references.
type MappingStore interface {
	GetByIPCSection(ctx context.Context, ipcSection string) (*models.IPCBNSMapping, error)
}

// PassageSearcher is the hybrid retrieval surface.
type PassageSearcher interface {
	Search(ctx context.Context, query, domain string, k int, opts ...service.SearchOption) ([]service.SearchResult, error)
}

// StatuteRetriever returns up to five statute records relevant to the
// query, favoring exact section hits, and resolves IPC to BNS mappings for
// the IPC items it found.
type StatuteRetriever struct {
	statutes StatuteStore
	mappings MappingStore
	search   PassageSearcher
	logger   *zap.Logger
}

// NewStatuteRetriever creates the statute retrieval stage. The passage
// searcher may be nil when no chunk index is deployed.
func NewStatuteRetriever(statutes StatuteStore, mappings MappingStore, search PassageSearcher, logger *zap.Logger) *StatuteRetriever {
	return &StatuteRetriever{statutes: statutes, mappings: mappings, search: search, logger: logger}
}

func (a *StatuteRetriever) Kind() string { return KindStatute }

func (a *StatuteRetriever) Info() Info {
	return Info{
		ID:               KindStatute,
		Name:             "Statute Retrieval",
		NameHindi:        "विधि खोज",
		Description:      "Retrieves relevant IPC, BNS, and other statute sections",
		DescriptionHindi: "संबंधित IPC, BNS और अन्य विधि अनुभाग प्राप्त करता है",
		Color:            "#a855f7",
	}
}

func (a *StatuteRetriever) Process(ctx context.Context, rc *RequestContext) error {
	var retrieved []models.Statute

	// 1. Exact lookups for every section entity in every applicable act.
	if len(rc.Sections) > 0 {
		acts := rc.ApplicableActs
		if len(acts) == 0 {
			acts = []string{"IPC", "BNS"}
		}
		retrieved = append(retrieved, a.lookupSections(ctx, rc.Sections, acts)...)
	}

	// 2. Hybrid search over the chunk index.
	if a.search != nil {
		query := rc.ReformulatedQuery
		if query == "" {
			query = rc.Query
		}
		results, err := a.search.Search(ctx, query, rc.ResolvedDomain(), maxStatutes, service.WithReranker())
		if err != nil {
			a.logger.Warn("hybrid statute search failed", zap.Error(err))
			rc.AddError(a.Info().Name, err.Error())
		} else {
			for _, r := range results {
				retrieved = append(retrieved, statuteFromPassage(r))
			}
		}
	}

	// 3. Keyword fallback when nothing matched.
	if len(retrieved) == 0 {
		query := rc.ReformulatedQuery
		if query == "" {
			query = rc.Query
		}
		found, err := a.statutes.SearchStatutes(ctx, query, rc.ApplicableActs, rc.ResolvedDomain(), maxStatutes)
		if err != nil {
			a.logger.Warn("keyword statute search failed", zap.Error(err))
			rc.AddError(a.Info().Name, err.Error())
		} else {
			retrieved = append(retrieved, found...)
			a.logger.Info("keyword search returned statutes", zap.Int("count", len(found)))
		}
	}

	retrieved = dedupeStatutes(retrieved)

	// 4. Cross-mappings for the IPC items, plus their BNS counterparts so
	// both sides of the transition show up together.
	mappings := a.crossMappings(ctx, retrieved)
	for _, m := range mappings {
		if containsSection(retrieved, m.BNSSection, "BNS") {
			continue
		}
		bns, err := a.statutes.GetSection(ctx, m.BNSSection, "BNS")
		if err != nil {
			a.logger.Warn("failed to fetch BNS counterpart", zap.String("section", m.BNSSection), zap.Error(err))
			continue
		}
		if bns != nil {
			retrieved = append(retrieved, *bns)
		}
	}

	if len(retrieved) > maxStatutes {
		retrieved = retrieved[:maxStatutes]
	}

	rc.Statutes = retrieved
	rc.Mappings = mappings

	a.logger.Info("retrieved statutes",
		zap.Int("statutes", len(retrieved)),
		zap.Int("mappings", len(mappings)))
	return nil
}

// lookupSections fans out one store lookup per section and act, capped at
// the stage concurrency limit, and keeps the deterministic section-major
// order of the results.
func (a *StatuteRetriever) lookupSections(ctx context.Context, sections, acts []string) []models.Statute {
	slots := make([]*models.Statute, len(sections)*len(acts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stageConcurrency)
	for i, section := range sections {
		for j, act := range acts {
			idx, section, act := i*len(acts)+j, section, act
			g.Go(func() error {
				statute, err := a.statutes.GetSection(gctx, section, act)
				if err != nil {
					a.logger.Warn("section lookup failed",
						zap.String("section", section),
						zap.String("act", act),
						zap.Error(err))
					return nil
				}
				slots[idx] = statute
				return nil
			})
		}
	}
	g.Wait()

	var hits []models.Statute
	for _, s := range slots {
		if s != nil {
			hits = append(hits, *s)
		}
	}
	return hits
}

func (a *StatuteRetriever) crossMappings(ctx context.Context, statutes []models.Statute) []models.IPCBNSMapping {
	var ipcSections []string
	for _, s := range statutes {
		if s.ActCode == "IPC" && s.SectionNumber != "" {
			ipcSections = append(ipcSections, s.SectionNumber)
		}
	}
	if len(ipcSections) == 0 {
		return nil
	}

	slots := make([]*models.IPCBNSMapping, len(ipcSections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stageConcurrency)
	for i, section := range ipcSections {
		i, section := i, section
		g.Go(func() error {
			mapping, err := a.mappings.GetByIPCSection(gctx, section)
			if err != nil {
				a.logger.Warn("mapping lookup failed", zap.String("section", section), zap.Error(err))
				return nil
			}
			slots[i] = mapping
			return nil
		})
	}
	g.Wait()

	var mappings []models.IPCBNSMapping
	seen := make(map[string]struct{})
	for _, m := range slots {
		if m == nil {
			continue
		}
		key := m.IPCSection + "→" + m.BNSSection
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		mappings = append(mappings, *m)
	}
	return mappings
}

// statuteFromPassage shapes a retrieved chunk as a statute record. Chunk
// hits carry no stable row id, so they dedupe on content.
func statuteFromPassage(r service.SearchResult) models.Statute {
	s := models.Statute{
		ActName: r.Metadata.ActName,
		Title:   r.Metadata.Filename,
		Content: r.Content,
		Domain:  r.Metadata.Domain,
	}
	if len(r.Metadata.SectionNumbers) > 0 {
		s.SectionNumber = r.Metadata.SectionNumbers[0]
	}
	return s
}

func dedupeStatutes(statutes []models.Statute) []models.Statute {
	seen := make(map[string]struct{})
	out := statutes[:0]
	for _, s := range statutes {
		key := s.ID.String()
		if s.ID == uuid.Nil {
			key = s.ActCode + "/" + s.SectionNumber + "/" + s.Content
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsSection(statutes []models.Statute, section, actCode string) bool {
	for _, s := range statutes {
		if s.SectionNumber == section && s.ActCode == actCode {
			return true
		}
	}
	return false
}
