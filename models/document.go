package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded legal document (judgment, FIR, notice).
type Document struct {
	ID          uuid.UUID        `json:"id"`
	SessionID   string           `json:"session_id,omitempty"`
	Filename    string           `json:"filename"`
	MimeType    string           `json:"mime_type"`
	Size        int64            `json:"size"`
	StoragePath string           `json:"storage_path"`
	Summary     *DocumentSummary `json:"summary,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CitedSection is a single act/section reference extracted from a document.
type CitedSection struct {
	Act     string `json:"act"`
	Section string `json:"section"`
}

// DocumentSummary is the structured record extracted from an uploaded
// document by the summarization stage.
type DocumentSummary struct {
	Parties        string         `json:"parties,omitempty"`
	Complainant    string         `json:"complainant,omitempty"`
	Accused        string         `json:"accused,omitempty"`
	CaseType       string         `json:"case_type,omitempty"`
	CourtName      string         `json:"court_name,omitempty"`
	Date           string         `json:"date,omitempty"`
	CitedSections  []CitedSection `json:"cited_sections,omitempty"`
	Verdict        string         `json:"verdict,omitempty"`
	CaseSummary    []string       `json:"case_summary,omitempty"`
	KeyArguments   []string       `json:"key_arguments,omitempty"`
	LegalIssues    []string       `json:"legal_issues,omitempty"`
	RatioDecidendi string         `json:"ratio_decidendi,omitempty"`
}
