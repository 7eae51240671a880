package models

import "github.com/google/uuid"

// Court identifiers as stored in the case_laws table.
const (
	CourtSupreme = "supreme_court"
	CourtHigh    = "high_court"
)

// CaseLaw represents a reported judgment.
type CaseLaw struct {
	ID             uuid.UUID `json:"id"`
	CaseName       string    `json:"case_name"`
	CaseNameHindi  string    `json:"case_name_hi,omitempty"`
	Court          string    `json:"court"`
	CourtName      string    `json:"court_name"`
	CitationString string    `json:"citation_string,omitempty"`
	ReportingYear  int       `json:"reporting_year,omitempty"`
	Summary        string    `json:"summary"`
	KeyHoldings    []string  `json:"key_holdings,omitempty"`
	IsLandmark     bool      `json:"is_landmark"`
	Domain         string    `json:"domain"`
	SourceURL      string    `json:"source_url,omitempty"`
	CitedSections  []string  `json:"cited_sections,omitempty"`

	// RelevanceScore is assigned by the regulatory filter and is not persisted.
	RelevanceScore int `json:"relevance_score,omitempty"`
}
