package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"nyayguru-backend/models"
	"nyayguru-backend/service"
)

// OfficialSource is one entry of the official legal sources registry.
type OfficialSource struct {
	Name        string `json:"name"`
	NameHindi   string `json:"name_hi"`
	BaseURL     string `json:"base_url"`
	Description string `json:"description"`
}

// OfficialSources registers the authorities citations link to.
var OfficialSources = map[string]OfficialSource{
	"gazette": {
		Name:        "Official Gazette of India",
		NameHindi:   "भारत का राजपत्र",
		BaseURL:     "https://egazette.gov.in",
		Description: "Official Government Gazette publications",
	},
	"indiankanoon": {
		Name:        "Indian Kanoon",
		NameHindi:   "इंडियन कानून",
		BaseURL:     "https://indiankanoon.org",
		Description: "Free legal search engine for Indian laws",
	},
	"sci": {
		Name:        "Supreme Court of India",
		NameHindi:   "भारत का सर्वोच्च न्यायालय",
		BaseURL:     "https://main.sci.gov.in",
		Description: "Official Supreme Court website",
	},
	"legislative": {
		Name:        "Legislative Department",
		NameHindi:   "विधायी विभाग",
		BaseURL:     "https://legislative.gov.in",
		Description: "Official laws and bareacts",
	},
	"lawcommission": {
		Name:        "Law Commission of India",
		NameHindi:   "भारत का विधि आयोग",
		BaseURL:     "https://lawcommissionofindia.nic.in",
		Description: "Law reform recommendations",
	},
}

const bnsGazetteURL = "https://egazette.gov.in/WriteReadData/2023/248044.pdf"

// ipcDocIDs maps well-known IPC sections to their Indian Kanoon document
// ids. Sections outside the table fall back to search URLs.
var ipcDocIDs = map[string]string{
	"302":  "1560742",
	"307":  "455468",
	"376":  "1279834",
	"420":  "1436241",
	"498A": "538436",
	"304":  "409589",
	"306":  "92983",
	"323":  "1011035",
	"354":  "203036",
	"506":  "180217",
	"379":  "1101188",
	"380":  "1985627",
}

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// CitationBuilder transforms the retrieved statutes, cases, and mappings
// into citation records linked to official sources. Rebuilding over the
// same inputs yields identical citations.
type CitationBuilder struct {
	logger *zap.Logger
}

// NewCitationBuilder creates the citation stage.
func NewCitationBuilder(logger *zap.Logger) *CitationBuilder {
	return &CitationBuilder{logger: logger}
}

func (a *CitationBuilder) Kind() string { return KindCitation }

func (a *CitationBuilder) Info() Info {
	return Info{
		ID:               KindCitation,
		Name:             "Citation Agent",
		NameHindi:        "उद्धरण एजेंट",
		Description:      "Generates verifiable citations to official sources",
		DescriptionHindi: "आधिकारिक स्रोतों के लिए सत्यापित उद्धरण उत्पन्न करता है",
		Color:            "#ff4081",
	}
}

func (a *CitationBuilder) Process(ctx context.Context, rc *RequestContext) error {
	var citations []models.Citation

	for _, statute := range rc.Statutes {
		citations = append(citations, statuteCitation(statute, len(citations)+1))
	}
	for _, c := range rc.CaseLaws {
		citations = append(citations, caseCitation(c, len(citations)+1))
	}
	for _, m := range rc.Mappings {
		citations = append(citations, mappingCitation(m, len(citations)+1))
	}

	rc.Citations = dedupeCitations(citations)

	a.logger.Info("generated citations", zap.Int("count", len(rc.Citations)))
	return nil
}

func statuteCitation(statute models.Statute, id int) models.Citation {
	actName := statute.ActName
	if actName == "" {
		actName = statute.ActCode
	}
	sectionTitle := statute.Title
	if sectionTitle == "" {
		sectionTitle = "Section " + statute.SectionNumber
	}

	var url, source string
	switch statute.ActCode {
	case "BNS":
		url = bnsGazetteURL
		source = "gazette"
	case "IPC":
		if docID, ok := ipcDocIDs[statute.SectionNumber]; ok {
			url = fmt.Sprintf("https://indiankanoon.org/doc/%s/", docID)
		} else {
			url = fmt.Sprintf("https://indiankanoon.org/search/?formInput=IPC%%20section%%20%s", statute.SectionNumber)
		}
		source = "indiankanoon"
	default:
		url = fmt.Sprintf("https://indiankanoon.org/search/?formInput=%s%%20section%%20%s",
			strings.ReplaceAll(statute.ActCode, " ", "%20"), statute.SectionNumber)
		source = "indiankanoon"
	}

	return models.Citation{
		ID:         strconv.Itoa(id),
		Type:       models.CitationStatute,
		Title:      fmt.Sprintf("%s - Section %s: %s", actName, statute.SectionNumber, sectionTitle),
		TitleHindi: statute.TitleHindi,
		SourceKey:  source,
		SourceName: OfficialSources[source].Name,
		URL:        url,
		Excerpt:    service.Excerpt(statute.Content, 500),
		Year:       statute.YearEnacted,
		Verified:   true,
	}
}

func caseCitation(c models.CaseLaw, id int) models.Citation {
	sourceURL := c.SourceURL
	var source string
	if sourceURL == "" {
		if c.Court == models.CourtSupreme {
			sourceURL = "https://main.sci.gov.in/judgments"
			source = "sci"
		} else {
			safeName := nonAlnumRe.ReplaceAllString(c.CaseName, "")
			sourceURL = "https://indiankanoon.org/search/?formInput=" + strings.ReplaceAll(safeName, " ", "%20")
			source = "indiankanoon"
		}
	} else if strings.Contains(sourceURL, "indiankanoon") {
		source = "indiankanoon"
	} else {
		source = "sci"
	}

	title := c.CaseName
	if c.CitationString != "" {
		title = fmt.Sprintf("%s (%s)", c.CaseName, c.CitationString)
	}

	return models.Citation{
		ID:         strconv.Itoa(id),
		Type:       models.CitationCase,
		Title:      title,
		TitleHindi: c.CaseNameHindi,
		SourceKey:  source,
		SourceName: OfficialSources[source].Name,
		URL:        sourceURL,
		Excerpt:    service.Excerpt(c.Summary, 200),
		Year:       c.ReportingYear,
		Court:      c.CourtName,
		IsLandmark: c.IsLandmark,
		Verified:   true,
	}
}

func mappingCitation(m models.IPCBNSMapping, id int) models.Citation {
	return models.Citation{
		ID:         strconv.Itoa(id),
		Type:       models.CitationMapping,
		Title:      fmt.Sprintf("IPC Section %s → BNS Section %s Mapping", m.IPCSection, m.BNSSection),
		TitleHindi: fmt.Sprintf("IPC धारा %s → BNS धारा %s मैपिंग", m.IPCSection, m.BNSSection),
		SourceKey:  "gazette",
		SourceName: OfficialSources["gazette"].Name,
		URL:        bnsGazetteURL,
		Excerpt:    fmt.Sprintf("Cross-reference between old IPC Section %s and new BNS Section %s", m.IPCSection, m.BNSSection),
		Year:       2023,
		Verified:   true,
	}
}

// dedupeCitations drops later citations that share a URL with an earlier
// one, preserving first insertion.
func dedupeCitations(citations []models.Citation) []models.Citation {
	seen := make(map[string]struct{}, len(citations))
	out := citations[:0]
	for _, c := range citations {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}
