package entities

import "time"

// Audit actions recorded by the document store.
const (
	AuditSave   = "save"
	AuditDelete = "delete"
)

// AuditEntry represents one write to the document store.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	EntryID   string         `json:"entryId,omitempty"`
	BabyID    string         `json:"babyId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
