package repository

import (
	"context"
	"errors"
	"fmt"

	"nyayguru-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MappingRepository handles database operations for IPC to BNS mappings
type MappingRepository struct {
	db *pgxpool.Pool
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{db: db}
}

const mappingColumns = `
	id,
	ipc_section,
	ipc_title,
	bns_section,
	bns_title,
	mapping_type,
	changes,
	punishment_changed,
	old_punishment,
	new_punishment,
	punishment_increased`

// GetByIPCSection returns the mapping for an IPC section, or (nil, nil)
// when none exists.
func (r *MappingRepository) GetByIPCSection(ctx context.Context, ipcSection string) (*models.IPCBNSMapping, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM ipc_bns_mappings
		WHERE ipc_section = $1`, mappingColumns)

	mapping, err := scanMapping(r.db.QueryRow(ctx, query, ipcSection))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mapping for IPC %s: %w", ipcSection, err)
	}
	return mapping, nil
}

// GetByBNSSection returns the mapping for a BNS section, or (nil, nil)
// when none exists.
func (r *MappingRepository) GetByBNSSection(ctx context.Context, bnsSection string) (*models.IPCBNSMapping, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM ipc_bns_mappings
		WHERE bns_section = $1`, mappingColumns)

	mapping, err := scanMapping(r.db.QueryRow(ctx, query, bnsSection))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mapping for BNS %s: %w", bnsSection, err)
	}
	return mapping, nil
}

func scanMapping(row pgx.Row) (*models.IPCBNSMapping, error) {
	var m models.IPCBNSMapping
	err := row.Scan(
		&m.ID,
		&m.IPCSection,
		&m.IPCTitle,
		&m.BNSSection,
		&m.BNSTitle,
		&m.MappingType,
		&m.Changes,
		&m.PunishmentChanged,
		&m.OldPunishment,
		&m.NewPunishment,
		&m.PunishmentIncreased,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
