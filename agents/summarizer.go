package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

var (
	partiesRe = regexp.MustCompile(`(?i)([A-Za-z\s.]+)\s*(?:v\.|vs\.?|versus)\s*([A-Za-z\s.]+)`)

	complainantRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:complainant|informant|petitioner|plaintiff)[:\s]+([A-Za-z\s.]+?)(?:\.|,|filed|lodged)`),
		regexp.MustCompile(`(?i)(?:complaint|FIR)\s+(?:was\s+)?(?:filed|lodged)\s+by\s+([A-Za-z\s.]+)`),
		regexp.MustCompile(`(?i)([A-Za-z\s.]+)\s+(?:filed|lodged)\s+(?:a\s+)?(?:complaint|FIR)`),
	}

	accusedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:accused|defendant|respondent)[:\s]+([A-Za-z\s.]+?)(?:\.|,|was|is|has)`),
		regexp.MustCompile(`(?i)(?:against|accused)\s+(?:one\s+)?([A-Za-z\s.]+)`),
	}

	caseTypePatterns = []struct {
		re       *regexp.Regexp
		caseType string
	}{
		{regexp.MustCompile(`(?i)criminal\s+(?:appeal|case|matter|revision)`), "Criminal"},
		{regexp.MustCompile(`(?i)civil\s+(?:appeal|suit|case|revision)`), "Civil"},
		{regexp.MustCompile(`(?i)writ\s+petition`), "Constitutional/Writ"},
		{regexp.MustCompile(`(?i)(?:FIR|First Information Report)`), "Criminal (FIR-based)"},
		{regexp.MustCompile(`(?i)divorce|maintenance|custody|matrimonial`), "Family/Matrimonial"},
		{regexp.MustCompile(`(?i)property|land|title|possession`), "Property"},
		{regexp.MustCompile(`(?i)cheque\s+(?:bounce|dishonour)`), "Criminal (Cheque Bounce)"},
	}

	courtRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Supreme Court of India`),
		regexp.MustCompile(`(?i)High Court of [\w\s]+`),
		regexp.MustCompile(`(?i)[\w\s]+ High Court`),
		regexp.MustCompile(`(?i)(?:District|Sessions|Civil|Criminal)\s+(?:Court|Judge)`),
		regexp.MustCompile(`(?i)Judicial Magistrate`),
		regexp.MustCompile(`(?i)Metropolitan Magistrate`),
	}

	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:dated?|decided on|judgment dated?|order dated?)\s*[:\-]?\s*(\d{1,2}[\-/.]\d{1,2}[\-/.]\d{4})`),
		regexp.MustCompile(`(\d{1,2}[\-/.]\d{1,2}[\-/.]\d{4})`),
		regexp.MustCompile(`(?i)(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`),
	}

	citedSectionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Section|Sec\.|धारा|§)\s*(\d+[A-Za-z]?(?:/\d+)?)\s*(?:of|,|and)?\s*(?:the\s+)?(IPC|BNS|CrPC|BNSS|IT Act|Indian Penal Code|Bhartiya Nyaya Sanhita|Code of Criminal Procedure|Evidence Act|CPC|Motor Vehicles Act)?`),
		regexp.MustCompile(`(?i)(?:u/s|under section)\s*(\d+[A-Za-z]?(?:/\d+)?)\s*(?:of\s+)?(IPC|BNS|CrPC|BNSS)?`),
	}

	verdictRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:appeal|petition|application|case)\s+(?:is\s+)?(?:hereby\s+)?(?:allowed|dismissed|partly allowed|remanded|disposed)`),
		regexp.MustCompile(`(?i)(?:we|court)\s+(?:hereby\s+)?(?:order|direct|hold|decree)\s+that[^.]+`),
		regexp.MustCompile(`(?i)conviction\s+(?:under\s+[^.]+)?\s*(?:is\s+)?(?:upheld|set aside|modified|confirmed)`),
		regexp.MustCompile(`(?i)accused\s+(?:is|are)\s+(?:hereby\s+)?(?:acquitted|convicted|discharged)`),
		regexp.MustCompile(`(?i)sentenced?\s+(?:to|for)\s+[^.]+`),
		regexp.MustCompile(`(?i)(?:suit|claim)\s+(?:is\s+)?(?:hereby\s+)?(?:decreed|dismissed|allowed)`),
	}

	incidentRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:it is alleged|allegation is|prosecution case is|case of the prosecution is)\s+that\s+([^.]+\.)`),
		regexp.MustCompile(`(?i)(?:incident|occurrence)\s+(?:took place|happened|occurred)\s+(?:on|at)\s+([^.]+\.)`),
		regexp.MustCompile(`(?i)(?:FIR|complaint)\s+(?:was\s+)?(?:registered|filed|lodged)\s+(?:for|regarding|alleging)\s+([^.]+\.)`),
	}

	factRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:the\s+)?(?:accused|defendant)\s+(?:was|were)\s+(?:charged|booked)\s+(?:for|with|under)\s+([^.]+)`),
		regexp.MustCompile(`(?i)(?:evidence|investigation)\s+(?:shows|revealed|established)\s+that\s+([^.]+)`),
		regexp.MustCompile(`(?i)(?:the\s+)?(?:trial\s+)?court\s+(?:held|found|observed)\s+that\s+([^.]+)`),
	}

	sentenceSplitRe = regexp.MustCompile(`[.!?]\s+`)
	jsonObjectRe    = regexp.MustCompile(`\{[\s\S]*\}`)
)

var actAliases = map[string]string{
	"INDIAN PENAL CODE":          "IPC",
	"BHARTIYA NYAYA SANHITA":     "BNS",
	"CODE OF CRIMINAL PROCEDURE": "CrPC",
}

var keyPhrases = []string{
	"held that", "court observed", "it was held",
	"issue before", "question of law", "appellant contended",
	"respondent submitted", "therefore", "accordingly",
	"we are of the view", "in our opinion",
}

// DocumentStore loads stored documents and their summaries.
type DocumentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
}

// Summarizer extracts a structured record from attached legal documents:
// regex-first extraction, then generator-assisted filling, with a
// rule-based fallback when no generator is configured.
type Summarizer struct {
	generator service.Generator
	documents DocumentStore
	logger    *zap.Logger
}

// NewSummarizer creates the summarization stage. The document store may be
// nil when document attachment is not deployed.
func NewSummarizer(generator service.Generator, documents DocumentStore, logger *zap.Logger) *Summarizer {
	return &Summarizer{generator: generator, documents: documents, logger: logger}
}

func (a *Summarizer) Kind() string { return KindSummary }

func (a *Summarizer) Info() Info {
	return Info{
		ID:               KindSummary,
		Name:             "Summarization",
		NameHindi:        "सारांश",
		Description:      "Summarizes legal documents and extracts key information",
		DescriptionHindi: "कानूनी दस्तावेजों का सारांश और मुख्य जानकारी निकालता है",
		Color:            "#00bcd4",
	}
}

func (a *Summarizer) Process(ctx context.Context, rc *RequestContext) error {
	if rc.DocumentID != "" && rc.DocumentSummary == nil {
		a.loadAttachedDocument(ctx, rc)
	}
	if rc.DocumentText != "" && rc.DocumentSummary == nil {
		rc.DocumentSummary = a.SummarizeDocument(ctx, rc.DocumentText)
	}
	a.logger.Info("summarization completed")
	return nil
}

// loadAttachedDocument pulls the stored summary of the document referenced
// by the request, so chat answers can build on an earlier upload.
func (a *Summarizer) loadAttachedDocument(ctx context.Context, rc *RequestContext) {
	if a.documents == nil {
		return
	}

	id, err := uuid.Parse(rc.DocumentID)
	if err != nil {
		rc.AddError(a.Info().Name, "invalid document id: "+rc.DocumentID)
		return
	}

	doc, err := a.documents.GetByID(ctx, id)
	if err != nil {
		a.logger.Warn("failed to load attached document", zap.Error(err))
		rc.AddError(a.Info().Name, err.Error())
		return
	}
	if doc == nil || doc.Summary == nil {
		a.logger.Info("attached document has no stored summary", zap.String("document_id", rc.DocumentID))
		return
	}

	rc.DocumentSummary = doc.Summary
	a.logger.Info("attached document summary loaded", zap.String("document_id", rc.DocumentID))
}

// SummarizeDocument extracts the structured record from one document text.
func (a *Summarizer) SummarizeDocument(ctx context.Context, text string) *models.DocumentSummary {
	summary := &models.DocumentSummary{}

	if m := partiesRe.FindStringSubmatch(prefix(text, 2000)); m != nil {
		summary.Parties = strings.TrimSpace(m[1]) + " v. " + strings.TrimSpace(m[2])
	}

	head := prefix(text, 5000)
	for _, re := range complainantRes {
		if m := re.FindStringSubmatch(head); m != nil {
			summary.Complainant = strings.TrimSpace(m[1])
			break
		}
	}
	for _, re := range accusedRes {
		if m := re.FindStringSubmatch(head); m != nil {
			summary.Accused = strings.TrimSpace(m[1])
			break
		}
	}

	opening := prefix(text, 3000)
	for _, p := range caseTypePatterns {
		if p.re.MatchString(opening) {
			summary.CaseType = p.caseType
			break
		}
	}
	for _, re := range courtRes {
		if m := re.FindString(opening); m != "" {
			summary.CourtName = m
			break
		}
	}
	for _, re := range dateRes {
		if m := re.FindStringSubmatch(opening); m != nil {
			summary.Date = m[1]
			break
		}
	}

	summary.CitedSections = extractCitedSections(text)
	summary.Verdict = extractVerdict(text)

	if a.generator != nil && a.generator.Available() {
		if filled := a.generatorFill(ctx, text, summary); filled != nil {
			summary.CaseSummary = filled.CaseSummary
			summary.KeyArguments = filled.KeyArguments
			summary.LegalIssues = filled.LegalIssues
			if filled.Verdict != "" {
				summary.Verdict = filled.Verdict
			}
			if filled.Complainant != "" {
				summary.Complainant = filled.Complainant
			}
			if filled.Accused != "" {
				summary.Accused = filled.Accused
			}
			return summary
		}
	}

	summary.KeyArguments = extractKeySentences(text, 5)
	summary.CaseSummary = composeSummary(text, summary)
	return summary
}

type generatorSummary struct {
	CaseSummary  []string `json:"case_summary"`
	KeyArguments []string `json:"key_arguments"`
	LegalIssues  []string `json:"legal_issues"`
	Verdict      string   `json:"verdict"`
	Complainant  string   `json:"complainant"`
	Accused      string   `json:"accused"`
}

func (a *Summarizer) generatorFill(ctx context.Context, text string, extracted *models.DocumentSummary) *generatorSummary {
	docText := prefix(text, 15000)

	prompt := fmt.Sprintf(`You are a legal document analyzer. Analyze this legal judgment and extract FACTUAL information.

IMPORTANT: Focus on WHAT ACTUALLY HAPPENED in the case. Extract real facts, not generic statements.

Document Text:
%s

Extract the following information and respond in JSON format:

{
    "case_summary": ["4-6 bullet points explaining what happened in this case"],
    "key_arguments": ["Arguments made by each side"],
    "legal_issues": ["Questions of law before the court"],
    "verdict": "Who won? What was ordered? Any punishment/compensation/relief granted?",
    "complainant": "Name of the person who filed the case/complaint/FIR",
    "accused": "Name of the accused/defendant/respondent"
}

Be SPECIFIC and FACTUAL. Include names, dates, amounts, section numbers mentioned in the document.`, docText)

	response, err := a.generator.Generate(ctx, prompt, 0.2)
	if err != nil {
		a.logger.Warn("generator summarization failed", zap.Error(err))
		return nil
	}

	raw := jsonObjectRe.FindString(response)
	if raw == "" {
		raw = response
	}
	var parsed generatorSummary
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		a.logger.Warn("failed to parse generator summary", zap.Error(err))
		return nil
	}
	return &parsed
}

func extractCitedSections(text string) []models.CitedSection {
	seen := make(map[string]struct{})
	var sections []models.CitedSection
	for _, re := range citedSectionRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(sections) >= 15 {
				return sections
			}
			act := strings.ToUpper(strings.TrimSpace(m[2]))
			if act == "" {
				act = "IPC"
			}
			if alias, ok := actAliases[act]; ok {
				act = alias
			}
			key := act + "_" + m[1]
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			sections = append(sections, models.CitedSection{Act: act, Section: m[1]})
		}
	}
	return sections
}

func extractVerdict(text string) string {
	for _, re := range verdictRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		start := loc[0] - 50
		if start < 0 {
			start = 0
		}
		end := loc[1] + 100
		if end > len(text) {
			end = len(text)
		}
		verdict := strings.Join(strings.Fields(text[start:end]), " ")
		if runes := []rune(verdict); len(runes) > 300 {
			verdict = string(runes[:300])
		}
		return verdict
	}
	return ""
}

func extractKeySentences(text string, max int) []string {
	var sentences []string
	for _, sentence := range sentenceSplitRe.Split(text, -1) {
		lower := strings.ToLower(sentence)
		for _, phrase := range keyPhrases {
			if strings.Contains(lower, phrase) && len(sentence) > 50 && len(sentence) < 500 {
				sentences = append(sentences, strings.TrimSpace(sentence))
				break
			}
		}
		if len(sentences) >= max {
			break
		}
	}
	return sentences
}

// composeSummary builds the rule-based case summary from extracted fields
// and a few incident/fact patterns.
func composeSummary(text string, s *models.DocumentSummary) []string {
	var points []string

	if s.CaseType != "" {
		points = append(points, fmt.Sprintf("This is a %s case.", s.CaseType))
	}
	if s.Complainant != "" && s.Accused != "" {
		points = append(points, fmt.Sprintf("The complaint was filed by %s against %s.", s.Complainant, s.Accused))
	} else if s.Parties != "" {
		points = append(points, fmt.Sprintf("The case involves %s.", s.Parties))
	}

	var courtDate []string
	if s.CourtName != "" {
		courtDate = append(courtDate, "heard in the "+s.CourtName)
	}
	if s.Date != "" {
		courtDate = append(courtDate, "decided on "+s.Date)
	}
	if len(courtDate) > 0 {
		points = append(points, "The matter was "+strings.Join(courtDate, " and ")+".")
	}

	for _, re := range incidentRes {
		if m := re.FindStringSubmatch(prefix(text, 8000)); m != nil {
			incident := strings.TrimSpace(m[1])
			if len(incident) > 30 {
				points = append(points, incident)
				break
			}
		}
	}

	if len(s.CitedSections) > 0 {
		var refs []string
		for _, cs := range s.CitedSections {
			refs = append(refs, fmt.Sprintf("%s Section %s", cs.Act, cs.Section))
			if len(refs) == 5 {
				break
			}
		}
		points = append(points, "The case involves charges/provisions under "+strings.Join(refs, ", ")+".")
	}

	if s.Verdict != "" {
		verdict := s.Verdict
		if runes := []rune(verdict); len(runes) > 200 {
			verdict = string(runes[:200]) + "..."
		}
		points = append(points, "Court's decision: "+verdict)
	}

	if len(points) < 4 {
		for _, re := range factRes {
			if len(points) >= 6 {
				break
			}
			if m := re.FindStringSubmatch(prefix(text, 10000)); m != nil {
				fact := strings.TrimSpace(m[1])
				if len(fact) > 30 && len(fact) < 300 {
					points = append(points, fact+".")
				}
			}
		}
	}

	if len(points) == 0 {
		points = []string{"Document uploaded. Analysis extracted the available legal information."}
	}
	return points
}

// prefix returns the first n bytes of text without splitting the text on a
// rune boundary mid-sequence.
func prefix(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !isRuneStart(text[n]) {
		n--
	}
	return text[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
