package repository

import (
	"context"
	"fmt"
	"strings"

	"nyayguru-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for indexed legal chunks
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// SearchByEmbedding performs an ANN search over the chunk index.
// embedding: query embedding vector (768 dimensions)
// domain: metadata domain filter, empty for all domains
// limit: maximum number of chunks to return
func (r *ChunkRepository) SearchByEmbedding(
	ctx context.Context,
	embedding []float64,
	domain string,
	limit int,
) ([]models.LegalChunk, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := formatVector(embedding)

	var domainFilter string
	var args []interface{}
	if domain == "" || domain == models.DomainAll {
		domainFilter = "TRUE"
		args = []interface{}{vectorStr, limit}
	} else {
		domainFilter = "metadata->>'domain' = $2"
		args = []interface{}{vectorStr, domain, limit}
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			content,
			metadata,
			embedding <=> $1::vector AS distance
		FROM legal_chunks
		WHERE
			%s
			AND embedding IS NOT NULL
		ORDER BY
			embedding <=> $1::vector
		LIMIT $%d`, domainFilter, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.LegalChunk
	for rows.Next() {
		var chunk models.LegalChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.Content,
			&chunk.Metadata,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal chunks: %w", err)
	}

	return chunks, nil
}

// ListAll returns every chunk in the index. Used to build the in-memory
// BM25 index at startup.
func (r *ChunkRepository) ListAll(ctx context.Context) ([]models.LegalChunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, content, metadata
		FROM legal_chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list legal chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.LegalChunk
	for rows.Next() {
		var chunk models.LegalChunk
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan legal chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal chunks: %w", err)
	}

	return chunks, nil
}

// ListMissingEmbeddings returns chunks that have not been embedded yet.
func (r *ChunkRepository) ListMissingEmbeddings(ctx context.Context, limit int) ([]models.LegalChunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, content, metadata
		FROM legal_chunks
		WHERE embedding IS NULL
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks missing embeddings: %w", err)
	}
	defer rows.Close()

	var chunks []models.LegalChunk
	for rows.Next() {
		var chunk models.LegalChunk
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("failed to scan legal chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal chunks: %w", err)
	}

	return chunks, nil
}

// UpdateEmbedding stores the embedding for one chunk.
func (r *ChunkRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error {
	if len(embedding) != 768 {
		return fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	_, err := r.db.Exec(ctx, `
		UPDATE legal_chunks
		SET embedding = $1::vector
		WHERE id = $2`, formatVector(embedding), id)
	if err != nil {
		return fmt.Errorf("failed to update embedding for chunk %s: %w", id, err)
	}
	return nil
}

// Insert stores a new chunk, with or without an embedding.
func (r *ChunkRepository) Insert(ctx context.Context, chunk models.LegalChunk, embedding []float64) error {
	if len(embedding) > 0 {
		_, err := r.db.Exec(ctx, `
			INSERT INTO legal_chunks (id, content, metadata, embedding)
			VALUES ($1, $2, $3, $4::vector)`,
			chunk.ID, chunk.Content, chunk.Metadata, formatVector(embedding))
		if err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
		return nil
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO legal_chunks (id, content, metadata)
		VALUES ($1, $2, $3)`,
		chunk.ID, chunk.Content, chunk.Metadata)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}
