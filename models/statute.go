package models

import "github.com/google/uuid"

// Statute represents a single section of an Indian act.
type Statute struct {
	ID                    uuid.UUID `json:"id"`
	ActCode               string    `json:"act_code"`
	ActName               string    `json:"act_name"`
	SectionNumber         string    `json:"section_number"`
	Title                 string    `json:"title"`
	TitleHindi            string    `json:"title_hi,omitempty"`
	Content               string    `json:"content"`
	ContentHindi          string    `json:"content_hi,omitempty"`
	Domain                string    `json:"domain"`
	YearEnacted           int       `json:"year_enacted,omitempty"`
	IsCognizable          bool      `json:"is_cognizable"`
	IsBailable            bool      `json:"is_bailable"`
	PunishmentDescription string    `json:"punishment_description,omitempty"`

	// RelevanceScore is assigned by the regulatory filter and is not persisted.
	RelevanceScore int `json:"relevance_score,omitempty"`
}
