package repository

import (
	"context"
	"fmt"
	"strings"

	"nyayguru-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseLawRepository handles database operations for case laws
type CaseLawRepository struct {
	db *pgxpool.Pool
}

// NewCaseLawRepository creates a new case law repository
func NewCaseLawRepository(db *pgxpool.Pool) *CaseLawRepository {
	return &CaseLawRepository{db: db}
}

const caseColumns = `
	id,
	case_name,
	case_name_hi,
	court,
	court_name,
	citation_string,
	reporting_year,
	summary,
	key_holdings,
	is_landmark,
	domain,
	source_url,
	cited_sections`

// GetBySection returns cases citing the given section, landmark cases first.
func (r *CaseLawRepository) GetBySection(ctx context.Context, section string, limit int) ([]models.CaseLaw, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM case_laws
		WHERE $1 = ANY(cited_sections)
		ORDER BY is_landmark DESC, reporting_year DESC
		LIMIT $2`, caseColumns)

	return r.queryCases(ctx, query, section, limit)
}

// Search runs a keyword search over case names and summaries, optionally
// constrained to a court level and a domain.
func (r *CaseLawRepository) Search(ctx context.Context, text, court, domain string, limit int) ([]models.CaseLaw, error) {
	pattern := "%" + text + "%"

	conditions := []string{"(case_name ILIKE $1 OR summary ILIKE $1)"}
	args := []interface{}{pattern}
	if court != "" {
		args = append(args, court)
		conditions = append(conditions, fmt.Sprintf("court = $%d", len(args)))
	}
	if domain != "" && domain != models.DomainAll {
		args = append(args, domain)
		conditions = append(conditions, fmt.Sprintf("domain = $%d", len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM case_laws
		WHERE %s
		ORDER BY is_landmark DESC, reporting_year DESC
		LIMIT $%d`, caseColumns, strings.Join(conditions, " AND "), len(args))
	return r.queryCases(ctx, query, args...)
}

// GetLandmark returns landmark cases, optionally constrained to a domain.
func (r *CaseLawRepository) GetLandmark(ctx context.Context, domain string, limit int) ([]models.CaseLaw, error) {
	if domain == "" || domain == models.DomainAll {
		query := fmt.Sprintf(`
			SELECT %s
			FROM case_laws
			WHERE is_landmark = true
			ORDER BY reporting_year DESC
			LIMIT $1`, caseColumns)
		return r.queryCases(ctx, query, limit)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM case_laws
		WHERE is_landmark = true AND domain = $1
		ORDER BY reporting_year DESC
		LIMIT $2`, caseColumns)
	return r.queryCases(ctx, query, domain, limit)
}

func (r *CaseLawRepository) queryCases(ctx context.Context, query string, args ...interface{}) ([]models.CaseLaw, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query case laws: %w", err)
	}
	defer rows.Close()

	var cases []models.CaseLaw
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case law: %w", err)
		}
		cases = append(cases, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case laws: %w", err)
	}

	return cases, nil
}

func scanCase(row pgx.Row) (*models.CaseLaw, error) {
	var c models.CaseLaw
	err := row.Scan(
		&c.ID,
		&c.CaseName,
		&c.CaseNameHindi,
		&c.Court,
		&c.CourtName,
		&c.CitationString,
		&c.ReportingYear,
		&c.Summary,
		&c.KeyHoldings,
		&c.IsLandmark,
		&c.Domain,
		&c.SourceURL,
		&c.CitedSections,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
