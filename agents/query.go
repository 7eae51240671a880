package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

var (
	sectionRe    = regexp.MustCompile(`(?i)(?:section|sec|धारा|§)\s*(\d+[a-zA-Z]?)`)
	standaloneRe = regexp.MustCompile(`\b(\d{2,3}[a-zA-Z]?)\b`)
	ipcRe        = regexp.MustCompile(`(?i)\b(?:ipc|indian penal code|आईपीसी)\b|भारतीय दंड संहिता`)
	bnsRe        = regexp.MustCompile(`(?i)\b(?:bns|bhartiya nyaya sanhita|बीएनएस)\b|भारतीय न्याय संहिता`)
	wordRe       = regexp.MustCompile(`\b\w+\b`)
)

// Standalone numbers treated as section references even without a
// "section" prefix.
var commonSections = map[string]struct{}{
	"302": {}, "307": {}, "376": {}, "420": {}, "498": {}, "304": {},
	"306": {}, "323": {}, "354": {}, "506": {}, "379": {}, "380": {},
}

var keywordStopWords = map[string]struct{}{
	"what": {}, "is": {}, "the": {}, "of": {}, "for": {}, "in": {},
	"and": {}, "or": {}, "a": {}, "an": {}, "to": {}, "how": {},
	"can": {}, "under": {}, "about": {}, "which": {},
	"क्या": {}, "है": {}, "के": {}, "का": {}, "की": {}, "में": {},
	"और": {}, "या": {}, "एक": {}, "कैसे": {},
}

// QueryAnalyzer normalizes the incoming query: language, section entities,
// domain, applicable acts, and the reformulated retrieval query. It also
// gates the request when the caller pinned a domain the query does not fit.
type QueryAnalyzer struct {
	classifier *service.DomainClassifier
	logger     *zap.Logger
}

// NewQueryAnalyzer creates the query understanding stage.
func NewQueryAnalyzer(classifier *service.DomainClassifier, logger *zap.Logger) *QueryAnalyzer {
	return &QueryAnalyzer{classifier: classifier, logger: logger}
}

func (a *QueryAnalyzer) Kind() string { return KindQuery }

func (a *QueryAnalyzer) Info() Info {
	return Info{
		ID:               KindQuery,
		Name:             "Query Understanding",
		NameHindi:        "प्रश्न समझ",
		Description:      "Analyzes queries for language, legal domain, and intent",
		DescriptionHindi: "भाषा, कानूनी क्षेत्र और आशय के लिए प्रश्नों का विश्लेषण करता है",
		Color:            "#00d4ff",
	}
}

// Process never fails the request: classification problems fall back to
// English and the criminal domain with an error record appended.
func (a *QueryAnalyzer) Process(ctx context.Context, rc *RequestContext) error {
	rc.DetectedLanguage = service.DetectLanguage(rc.Query)
	rc.DetectedScript = service.DetectScript(rc.Query)
	a.logger.Info("detected language",
		zap.String("language", rc.DetectedLanguage),
		zap.String("script", rc.DetectedScript))

	rc.Sections = extractSections(rc.Query)
	if len(rc.Sections) > 0 {
		a.logger.Info("extracted sections", zap.Strings("sections", rc.Sections))
	}

	predicted, confidence, scores := a.classifier.Classify(ctx, rc.Query)

	if rc.SpecifiedDomain != "" && rc.SpecifiedDomain != models.DomainAll {
		rc.DetectedDomain = rc.SpecifiedDomain
		a.applyDomainGate(rc, predicted, confidence, scores)
	} else {
		rc.DetectedDomain = predicted
		if rc.DetectedDomain == "" {
			rc.DetectedDomain = models.DomainCriminal
		}
	}

	rc.ApplicableActs = a.resolveApplicableActs(rc)
	rc.Keywords = extractKeywords(rc.Query)
	rc.ReformulatedQuery = reformulate(rc)

	return nil
}

// applyDomainGate rejects the query only when the pinned domain is neither
// the predicted one, close to the top score, nor strong in absolute terms.
func (a *QueryAnalyzer) applyDomainGate(rc *RequestContext, predicted string, confidence float64, scores map[string]float64) {
	selectedScore := scores[rc.SpecifiedDomain]

	isMatch := predicted == rc.SpecifiedDomain
	isClose := selectedScore > confidence*0.5 && selectedScore > 0.1
	isStrong := selectedScore > 0.2

	if isMatch || isClose || isStrong {
		return
	}

	rc.IsRelevant = false
	rc.RejectionReason = fmt.Sprintf(
		"⚠️ This query appears to be related to **%s** law, not **%s** law. Please switch to the correct domain.\n\n"+
			"⚠️ यह प्रश्न **%s** कानून से संबंधित लगता है, **%s** कानून से नहीं। कृपया सही क्षेत्र चुनें।",
		predicted, rc.SpecifiedDomain, predicted, rc.SpecifiedDomain)
	a.logger.Info("domain gate rejected query",
		zap.String("predicted", predicted),
		zap.String("specified", rc.SpecifiedDomain),
		zap.Float64("selected_score", selectedScore))
}

func (a *QueryAnalyzer) resolveApplicableActs(rc *RequestContext) []string {
	var acts []string
	if ipcRe.MatchString(rc.Query) {
		acts = append(acts, "IPC")
	}
	if bnsRe.MatchString(rc.Query) {
		acts = append(acts, "BNS")
	}
	if len(acts) > 0 {
		return acts
	}

	if domainActs, ok := jurisdictionActs[rc.DetectedDomain]; ok {
		return append(acts, domainActs...)
	}

	if len(rc.Sections) > 0 {
		return []string{"IPC", "BNS"}
	}
	return acts
}

func extractSections(text string) []string {
	seen := make(map[string]struct{})
	var sections []string

	for _, m := range sectionRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; !ok {
			seen[m[1]] = struct{}{}
			sections = append(sections, m[1])
		}
	}

	for _, m := range standaloneRe.FindAllStringSubmatch(text, -1) {
		if _, known := commonSections[m[1]]; !known {
			continue
		}
		if _, ok := seen[m[1]]; !ok {
			seen[m[1]] = struct{}{}
			sections = append(sections, m[1])
		}
	}

	return sections
}

func extractKeywords(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	var keywords []string
	for _, w := range words {
		if _, stop := keywordStopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

func reformulate(rc *RequestContext) string {
	var parts []string
	if rc.DetectedDomain != "" {
		parts = append(parts, "["+rc.DetectedDomain+"]")
	}
	parts = append(parts, rc.Query)
	if len(rc.Sections) > 0 {
		parts = append(parts, "(Sections: "+strings.Join(rc.Sections, ", ")+")")
	}
	return strings.Join(parts, " ")
}
