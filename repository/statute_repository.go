package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nyayguru-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatuteRepository handles database operations for statute sections
type StatuteRepository struct {
	db *pgxpool.Pool
}

// NewStatuteRepository creates a new statute repository
func NewStatuteRepository(db *pgxpool.Pool) *StatuteRepository {
	return &StatuteRepository{db: db}
}

const statuteColumns = `
	id,
	act_code,
	act_name,
	section_number,
	title,
	title_hi,
	content,
	content_hi,
	domain,
	year_enacted,
	is_cognizable,
	is_bailable,
	punishment_description`

// GetSection fetches one section of one act. Returns (nil, nil) when the
// section does not exist.
func (r *StatuteRepository) GetSection(ctx context.Context, sectionNumber, actCode string) (*models.Statute, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM statutes
		WHERE section_number = $1 AND act_code = $2`, statuteColumns)

	row := r.db.QueryRow(ctx, query, sectionNumber, actCode)

	statute, err := scanStatute(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section %s of %s: %w", sectionNumber, actCode, err)
	}
	return statute, nil
}

// SearchStatutes runs a keyword search over titles and content, optionally
// constrained to a set of act codes and a domain. Empty actCodes admits
// every act.
func (r *StatuteRepository) SearchStatutes(ctx context.Context, text string, actCodes []string, domain string, limit int) ([]models.Statute, error) {
	pattern := "%" + text + "%"

	conditions := []string{"(title ILIKE $1 OR content ILIKE $1)"}
	args := []interface{}{pattern}
	if len(actCodes) > 0 {
		args = append(args, actCodes)
		conditions = append(conditions, fmt.Sprintf("act_code = ANY($%d)", len(args)))
	}
	if domain != "" && domain != models.DomainAll {
		args = append(args, domain)
		conditions = append(conditions, fmt.Sprintf("domain = $%d", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM statutes
		WHERE %s
		ORDER BY act_code, section_number
		LIMIT $%d`, statuteColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search statutes: %w", err)
	}
	defer rows.Close()

	var statutes []models.Statute
	for rows.Next() {
		statute, err := scanStatute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statute: %w", err)
		}
		statutes = append(statutes, *statute)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statutes: %w", err)
	}

	return statutes, nil
}

func scanStatute(row pgx.Row) (*models.Statute, error) {
	var s models.Statute
	err := row.Scan(
		&s.ID,
		&s.ActCode,
		&s.ActName,
		&s.SectionNumber,
		&s.Title,
		&s.TitleHindi,
		&s.Content,
		&s.ContentHindi,
		&s.Domain,
		&s.YearEnacted,
		&s.IsCognizable,
		&s.IsBailable,
		&s.PunishmentDescription,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
