// Package ports defines interfaces for external service communication.
package ports

import "context"

// SchemaManager handles storage schema lifecycle operations.
// This is separate from EntryStore because only the init command needs it,
// and it keeps EntryStore focused on document operations.
type SchemaManager interface {
	// EnsureSchema creates tables and indexes if they don't exist.
	EnsureSchema(ctx context.Context) error
}
