package agents

import (
	"time"

	"nyayguru-backend/models"
)

// Stage states reported in the pipeline trace.
const (
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateError      = "error"
)

// Step is one pipeline trace record. A stage appears at most once; repeated
// transitions update the existing record in place.
type Step struct {
	Agent         string     `json:"agent"`
	State         string     `json:"state"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	ResultSummary string     `json:"result_summary,omitempty"`
}

// StageError records a failure inside one stage. Stages never fail the
// request; they append here and continue.
type StageError struct {
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// RequestContext is the shared state threaded through the pipeline. It is
// owned by a single request and never shared across requests, so no locking.
type RequestContext struct {
	Query           string
	OriginalQuery   string
	Language        string
	SessionID       string
	SpecifiedDomain string

	DetectedLanguage  string
	DetectedScript    string
	DetectedDomain    string
	ReformulatedQuery string
	Keywords          []string
	Sections          []string

	IsRelevant      bool
	RejectionReason string

	Statutes []models.Statute
	CaseLaws []models.CaseLaw
	Mappings []models.IPCBNSMapping
	Citations []models.Citation

	Jurisdiction    string
	ApplicableActs  []string
	RegulatoryNotes *models.RegulatoryNotes

	DocumentID      string
	DocumentText    string
	DocumentSummary *models.DocumentSummary

	Response      string
	ResponseHindi string

	Steps  []Step
	Errors []StageError
}

// NewRequestContext creates a context for one query.
func NewRequestContext(query, language, sessionID, specifiedDomain string) *RequestContext {
	return &RequestContext{
		Query:           query,
		OriginalQuery:   query,
		Language:        language,
		SessionID:       sessionID,
		SpecifiedDomain: specifiedDomain,
		IsRelevant:      true,
	}
}

// SetStep records a stage transition, updating the stage's existing trace
// record when present.
func (rc *RequestContext) SetStep(agent, state, summary string) {
	now := time.Now()
	for i := range rc.Steps {
		if rc.Steps[i].Agent == agent {
			rc.Steps[i].State = state
			rc.Steps[i].ResultSummary = summary
			if state != StateProcessing {
				rc.Steps[i].EndedAt = &now
			}
			return
		}
	}
	step := Step{Agent: agent, State: state, ResultSummary: summary}
	if state == StateProcessing {
		step.StartedAt = &now
	} else {
		step.EndedAt = &now
	}
	rc.Steps = append(rc.Steps, step)
}

// AddError appends a stage error record.
func (rc *RequestContext) AddError(stage, message string) {
	rc.Errors = append(rc.Errors, StageError{
		Stage:   stage,
		Message: message,
		At:      time.Now(),
	})
}

// HasSection reports whether the given section entity was extracted.
func (rc *RequestContext) HasSection(section string) bool {
	for _, s := range rc.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// ResolvedDomain returns the domain retrieval should filter by: the caller's
// non-wildcard choice wins over the detected one.
func (rc *RequestContext) ResolvedDomain() string {
	if rc.SpecifiedDomain != "" && rc.SpecifiedDomain != models.DomainAll {
		return rc.SpecifiedDomain
	}
	return rc.DetectedDomain
}
