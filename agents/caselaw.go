package agents

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nyayguru-backend/models"
)

const maxCaseLaws = 5

// CaseStore is the structured store surface for case law retrieval.
type CaseStore interface {
	GetBySection(ctx context.Context, section string, limit int) ([]models.CaseLaw, error)
	Search(ctx context.Context, text, court, domain string, limit int) ([]models.CaseLaw, error)
	GetLandmark(ctx context.Context, domain string, limit int) ([]models.CaseLaw, error)
}

// CaseRetriever returns up to five precedents: cases citing the retrieved
// sections first, then domain matches, then landmark cases.
type CaseRetriever struct {
	cases  CaseStore
	search PassageSearcher
	logger *zap.Logger
}

// NewCaseRetriever creates the case law stage. The passage searcher may be
// nil when no chunk index is deployed.
func NewCaseRetriever(cases CaseStore, search PassageSearcher, logger *zap.Logger) *CaseRetriever {
	return &CaseRetriever{cases: cases, search: search, logger: logger}
}

func (a *CaseRetriever) Kind() string { return KindCase }

func (a *CaseRetriever) Info() Info {
	return Info{
		ID:               KindCase,
		Name:             "Case Law Intelligence",
		NameHindi:        "न्यायिक मामले",
		Description:      "Finds relevant Supreme Court and High Court judgments",
		DescriptionHindi: "प्रासंगिक सर्वोच्च न्यायालय और उच्च न्यायालय के निर्णय खोजता है",
		Color:            "#22c55e",
	}
}

func (a *CaseRetriever) Process(ctx context.Context, rc *RequestContext) error {
	var caseLaws []models.CaseLaw

	// 1. Cases citing the sections of the top retrieved statutes.
	caseLaws = appendCases(caseLaws, a.casesBySections(ctx, rc))

	searchDomain := rc.ResolvedDomain()

	// 2. Domain keyword search only when section lookups found nothing.
	if len(caseLaws) == 0 && searchDomain != "" {
		domainCases, err := a.cases.Search(ctx, rc.Query, "", searchDomain, 3)
		if err != nil {
			a.logger.Warn("case keyword search failed", zap.Error(err))
			rc.AddError(a.Info().Name, err.Error())
		} else {
			caseLaws = appendCases(caseLaws, domainCases)
			a.logger.Info("found cases for domain",
				zap.Int("count", len(domainCases)),
				zap.String("domain", searchDomain))
		}
	}

	// 3. Landmark cases for the resolved domain.
	landmarkDomain := searchDomain
	if landmarkDomain == "" {
		landmarkDomain = models.DomainCriminal
	}
	landmark, err := a.cases.GetLandmark(ctx, landmarkDomain, 3)
	if err != nil {
		a.logger.Warn("landmark lookup failed", zap.Error(err))
		rc.AddError(a.Info().Name, err.Error())
	} else {
		caseLaws = appendCases(caseLaws, landmark)
	}

	// 4. Semantic matches mapped back to cases through the sections the
	// matching passages cite.
	if a.search != nil {
		caseLaws = appendCases(caseLaws, a.semanticCases(ctx, rc, searchDomain))
	}

	if len(caseLaws) > maxCaseLaws {
		caseLaws = caseLaws[:maxCaseLaws]
	}
	rc.CaseLaws = caseLaws

	a.logger.Info("retrieved case laws", zap.Int("count", len(caseLaws)))
	return nil
}

// casesBySections looks up cases citing the sections of the top three
// statutes, two per section, in parallel but order-preserving.
func (a *CaseRetriever) casesBySections(ctx context.Context, rc *RequestContext) []models.CaseLaw {
	statutes := rc.Statutes
	if len(statutes) > 3 {
		statutes = statutes[:3]
	}

	slots := make([][]models.CaseLaw, len(statutes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stageConcurrency)
	for i, statute := range statutes {
		if statute.SectionNumber == "" {
			continue
		}
		i, section := i, statute.SectionNumber
		g.Go(func() error {
			cases, err := a.cases.GetBySection(gctx, section, 2)
			if err != nil {
				a.logger.Warn("case section lookup failed", zap.String("section", section), zap.Error(err))
				return nil
			}
			slots[i] = cases
			return nil
		})
	}
	g.Wait()

	var out []models.CaseLaw
	for _, cases := range slots {
		out = append(out, cases...)
	}
	return out
}

func (a *CaseRetriever) semanticCases(ctx context.Context, rc *RequestContext, domain string) []models.CaseLaw {
	query := rc.ReformulatedQuery
	if query == "" {
		query = rc.Query
	}

	results, err := a.search.Search(ctx, query, domain, 3)
	if err != nil {
		a.logger.Warn("semantic case search failed", zap.Error(err))
		return nil
	}

	var out []models.CaseLaw
	for _, r := range results {
		for _, section := range r.Metadata.SectionNumbers {
			cases, err := a.cases.GetBySection(ctx, section, 1)
			if err != nil {
				continue
			}
			out = append(out, cases...)
		}
	}
	return out
}

// appendCases appends additions whose ids are not already present.
func appendCases(existing, additions []models.CaseLaw) []models.CaseLaw {
	seen := make(map[uuid.UUID]struct{}, len(existing))
	for _, c := range existing {
		seen[c.ID] = struct{}{}
	}
	for _, c := range additions {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		existing = append(existing, c)
	}
	return existing
}
