package models

import "github.com/google/uuid"

// ChunkMetadata is the metadata carried by every entry in the chunk index.
// Domain, Source, and Filename are required; an entry missing them is
// considered malformed and dropped during retrieval.
type ChunkMetadata struct {
	Domain         string   `json:"domain"`
	Source         string   `json:"source"`
	SectionNumbers []string `json:"section_numbers,omitempty"`
	ActName        string   `json:"act_name,omitempty"`
	Filename       string   `json:"filename"`
}

// Valid reports whether the metadata carries the required keys.
func (m ChunkMetadata) Valid() bool {
	return m.Domain != "" && m.Source != "" && m.Filename != ""
}

// LegalChunk is one passage of the document corpus, indexed both densely
// (pgvector embedding) and sparsely (in-memory BM25).
type LegalChunk struct {
	ID       uuid.UUID     `json:"chunk_id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`

	// Distance is the cosine distance reported by a vector search and is
	// only populated on query results.
	Distance float64 `json:"-"`
}
