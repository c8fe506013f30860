// Package mocks provides mock implementations for testing.
package mocks

import "context"

// SchemaManager is a mock implementation of ports.SchemaManager.
type SchemaManager struct {
	EnsureErr error

	// Call tracking
	EnsureSchemaCallCount int
}

// EnsureSchema returns the configured error.
func (m *SchemaManager) EnsureSchema(ctx context.Context) error {
	m.EnsureSchemaCallCount++
	return m.EnsureErr
}
