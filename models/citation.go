package models

// Citation record types.
const (
	CitationStatute = "statute"
	CitationCase    = "case_law"
	CitationMapping = "mapping"
)

// Citation points at an authoritative source for a retrieved item. URL and
// SourceName are always non-empty; the citation list for a request is
// deduplicated by URL preserving first occurrence.
type Citation struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	TitleHindi string `json:"title_hi,omitempty"`
	SourceKey  string `json:"source"`
	SourceName string `json:"source_name"`
	URL        string `json:"url"`
	Excerpt    string `json:"excerpt,omitempty"`
	Year       int    `json:"year,omitempty"`
	Court      string `json:"court,omitempty"`
	IsLandmark bool   `json:"is_landmark,omitempty"`
	Verified   bool   `json:"verified"`

	// Takeaway is back-filled from citation blocks in the generated answer.
	Takeaway string `json:"takeaway,omitempty"`
}
