package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/mocks"
	"github.com/ersonp/carelog/internal/domain/services"
)

func newTestEntryHandler(t *testing.T) (*EntryHandler, *mocks.EntryStore) {
	t.Helper()
	entries, store := newTestEntryService(t)
	return NewEntryHandler(entries, store), store
}

func TestEntryHandler_Log(t *testing.T) {
	handler, store := newTestEntryHandler(t)
	started := time.Date(2025, 10, 27, 9, 0, 0, 0, time.UTC)

	entry, err := handler.Log(context.Background(), services.LogInput{
		Child:     testChild,
		CreatedBy: "user-1",
		Type:      entities.EntryTypeSleep,
		StartedAt: started,
		Category:  entities.SleepNap,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.EntryTypeSleep, entry.Type())
	assert.True(t, entities.IsOpen(entry))
	assert.Contains(t, store.Documents, entry.Common().ID)
}

func TestEntryHandler_Stop(t *testing.T) {
	handler, _ := newTestEntryHandler(t)
	ctx := context.Background()
	started := time.Date(2025, 10, 27, 9, 0, 0, 0, time.UTC)
	_, err := handler.Log(ctx, services.LogInput{
		Child:     testChild,
		CreatedBy: "user-1",
		Type:      entities.EntryTypeSleep,
		StartedAt: started,
		Category:  entities.SleepNap,
	})
	require.NoError(t, err)

	entry, err := handler.Stop(ctx, testChild.ID, entities.EntryTypeSleep, started.Add(45*time.Minute))

	require.NoError(t, err)
	assert.False(t, entities.IsOpen(entry))
	assert.InDelta(t, 45.0, entities.DurationMinutes(entry), 1e-9)

	_, err = handler.Stop(ctx, testChild.ID, entities.EntryTypeSleep, time.Time{})
	assert.ErrorIs(t, err, services.ErrNoOpenSession)
}

func TestEntryHandler_List(t *testing.T) {
	handler, store := newTestEntryHandler(t)
	store.Seed(
		bottleDoc("b1", "2025-10-25T08:00:00Z", 3),
		bottleDoc("b2", "2025-10-26T08:00:00Z", 4),
		bottleDoc("b3", "2025-10-27T08:00:00Z", 5),
		entities.Document{
			"id":            "s1",
			"schemaVersion": entities.CurrentSchemaVersion,
			"type":          "sleep",
			"babyId":        testChild.ID,
			"familyId":      testChild.FamilyID,
			"createdBy":     "user-1",
			"category":      "nap",
			"startedAt":     "2025-10-27T10:00:00Z",
		},
		entities.Document{"id": "broken", "babyId": testChild.ID},
	)
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    ListOptions
		wantIDs []string
		total   int
	}{
		{
			name:    "all entries most recent first",
			opts:    ListOptions{},
			wantIDs: []string{"s1", "b3", "b2", "b1"},
			total:   4,
		},
		{
			name:    "filter by type",
			opts:    ListOptions{Type: entities.EntryTypeFeed},
			wantIDs: []string{"b3", "b2", "b1"},
			total:   3,
		},
		{
			name:    "since",
			opts:    ListOptions{Since: time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)},
			wantIDs: []string{"s1", "b3", "b2"},
			total:   3,
		},
		{
			name:    "limit keeps total",
			opts:    ListOptions{Limit: 2},
			wantIDs: []string{"s1", "b3"},
			total:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handler.List(ctx, testChild.ID, tt.opts)
			require.NoError(t, err)

			var ids []string
			for _, e := range result.Entries {
				ids = append(ids, e.Common().ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, result.Total)
			require.Len(t, result.Rejections, 1)
			assert.Equal(t, "broken", result.Rejections[0].ID)
		})
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	handler, store := newTestEntryHandler(t)
	store.Seed(bottleDoc("b1", "2025-10-25T08:00:00Z", 3), bottleDoc("b2", "2025-10-26T08:00:00Z", 4))

	deleted, err := handler.Delete(context.Background(), []string{"b1", "missing", "b2"})

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrEntryNotFound)
	assert.Equal(t, 1, deleted)
	assert.NotContains(t, store.Documents, "b1")
	assert.Contains(t, store.Documents, "b2")
}

func TestEntryHandler_History(t *testing.T) {
	handler, store := newTestEntryHandler(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, bottleDoc("b1", "2025-10-25T08:00:00Z", 3)))
	require.NoError(t, store.DeleteDocument(ctx, "b1"))

	history, err := handler.History(ctx, "b1")

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entities.AuditDelete, history[0].Action)
	assert.Equal(t, entities.AuditSave, history[1].Action)
}

func TestEntryHandler_History_Unavailable(t *testing.T) {
	entries, _ := newTestEntryService(t)
	handler := NewEntryHandler(entries, nil)

	_, err := handler.History(context.Background(), "b1")

	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}

func TestEntryHandler_StoreError(t *testing.T) {
	handler, store := newTestEntryHandler(t)
	store.Err = errors.New("database locked")

	_, err := handler.List(context.Background(), testChild.ID, ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")

	_, err = handler.History(context.Background(), "b1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading history")
}
