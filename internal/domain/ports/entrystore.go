package ports

import (
	"context"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// EntryStore is the document store holding raw entry documents.
// Documents are returned exactly as written; schema migration happens on read
// in the domain services, never inside the store.
type EntryStore interface {
	// SaveDocument inserts or replaces a document by its id.
	SaveDocument(ctx context.Context, doc entities.Document) error

	// GetDocument returns a document by id, or nil if not found.
	GetDocument(ctx context.Context, id string) (entities.Document, error)

	// ListDocuments returns every document owned by a child, in no particular order.
	ListDocuments(ctx context.Context, babyID string) ([]entities.Document, error)

	// DeleteDocument removes a document by id.
	DeleteDocument(ctx context.Context, id string) error

	// ExistsByIDs returns the subset of ids that are already stored.
	ExistsByIDs(ctx context.Context, ids []string) (map[string]bool, error)

	// Revision returns a value that changes whenever any document owned by the
	// child is written or deleted. Used to poll for live updates.
	Revision(ctx context.Context, babyID string) (int64, error)

	// Close releases the underlying connection.
	Close() error
}

// AuditLog exposes the write history kept alongside the documents.
type AuditLog interface {
	// FindAuditLog returns the writes of one entry, most recent first.
	FindAuditLog(ctx context.Context, entryID string) ([]entities.AuditEntry, error)
}
