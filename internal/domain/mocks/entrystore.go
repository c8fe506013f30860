package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// EntryStore is an in-memory implementation of ports.EntryStore.
type EntryStore struct {
	mu        sync.Mutex
	Documents map[string]entities.Document
	revisions map[string]int64
	Audit     []entities.AuditEntry
	Err       error
	Closed    bool
}

// NewEntryStore creates an empty mock EntryStore.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		Documents: make(map[string]entities.Document),
		revisions: make(map[string]int64),
	}
}

// Seed stores documents without touching Err, for test setup.
func (m *EntryStore) Seed(docs ...entities.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		m.Documents[doc.ID()] = doc.Clone()
		m.revisions[doc.String(entities.FieldBabyID)]++
	}
}

// SaveDocument inserts or replaces a document by its id.
func (m *EntryStore) SaveDocument(_ context.Context, doc entities.Document) error {
	if m.Err != nil {
		return m.Err
	}
	m.Seed(doc)
	m.record(entities.AuditSave, doc)
	return nil
}

// GetDocument returns a copy of a document by id, or nil if not found.
func (m *EntryStore) GetDocument(_ context.Context, id string) (entities.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.Documents[id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

// ListDocuments returns copies of a child's documents sorted by id.
func (m *EntryStore) ListDocuments(_ context.Context, babyID string) ([]entities.Document, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Document, 0, len(m.Documents))
	for _, doc := range m.Documents {
		if doc.String(entities.FieldBabyID) == babyID {
			result = append(result, doc.Clone())
		}
	}
	// Sort by id for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result, nil
}

// DeleteDocument removes a document by id.
func (m *EntryStore) DeleteDocument(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc, ok := m.Documents[id]; ok {
		m.revisions[doc.String(entities.FieldBabyID)]++
		delete(m.Documents, id)
		m.recordLocked(entities.AuditDelete, doc)
	}
	return nil
}

func (m *EntryStore) record(action string, doc entities.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordLocked(action, doc)
}

func (m *EntryStore) recordLocked(action string, doc entities.Document) {
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:      int64(len(m.Audit) + 1),
		Action:  action,
		EntryID: doc.ID(),
		BabyID:  doc.String(entities.FieldBabyID),
	})
}

// FindAuditLog returns the recorded writes of one entry, most recent first.
func (m *EntryStore) FindAuditLog(_ context.Context, entryID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].EntryID == entryID {
			result = append(result, m.Audit[i])
		}
	}
	return result, nil
}

// ExistsByIDs returns the subset of ids that are stored.
func (m *EntryStore) ExistsByIDs(_ context.Context, ids []string) (map[string]bool, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.Documents[id]; ok {
			result[id] = true
		}
	}
	return result, nil
}

// Revision returns the number of writes seen for a child.
func (m *EntryStore) Revision(_ context.Context, babyID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revisions[babyID], nil
}

// Close marks the store closed.
func (m *EntryStore) Close() error {
	m.Closed = true
	return nil
}
