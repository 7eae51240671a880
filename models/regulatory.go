package models

// RegulatoryNotes is the static per-domain bundle attached by the regulatory
// filter: which acts apply, who to approach, what to file, and by when.
type RegulatoryNotes struct {
	Domain             string   `json:"domain"`
	ApplicableActs     []string `json:"applicable_acts"`
	KeyAuthorities     []string `json:"key_authorities"`
	FilingRequirements []string `json:"filing_requirements"`
	TimeLimits         []string `json:"time_limits"`
}
