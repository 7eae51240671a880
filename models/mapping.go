package models

import "github.com/google/uuid"

// Mapping types describing how an IPC section carried over into the BNS.
const (
	MappingExact    = "exact"
	MappingModified = "modified"
	MappingMerged   = "merged"
	MappingNew      = "new"
	MappingRemoved  = "removed"
)

// IPCBNSMapping records the correspondence between an IPC section and its
// BNS successor, including punishment deltas.
type IPCBNSMapping struct {
	ID                  uuid.UUID `json:"id"`
	IPCSection          string    `json:"ipc_section"`
	IPCTitle            string    `json:"ipc_title,omitempty"`
	BNSSection          string    `json:"bns_section"`
	BNSTitle            string    `json:"bns_title,omitempty"`
	MappingType         string    `json:"mapping_type"`
	Changes             []string  `json:"changes,omitempty"`
	PunishmentChanged   bool      `json:"punishment_changed"`
	OldPunishment       string    `json:"old_punishment,omitempty"`
	NewPunishment       string    `json:"new_punishment,omitempty"`
	PunishmentIncreased bool      `json:"punishment_increased"`
}
