package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/mocks"
	"github.com/ersonp/carelog/internal/infrastructure/parsers"
)

func newTestImportService(t *testing.T) (*ImportService, *mocks.EntryStore) {
	t.Helper()
	entries, store := newTestEntryService(t)
	return NewImportService(store, entries), store
}

func importOpts() ImportOptions {
	return ImportOptions{Child: testChild, CreatedBy: "user-1", OnConflict: ConflictSkip}
}

// bareDoc is a document as exported without ownership fields.
func bareDoc(fields map[string]any) entities.Document {
	doc := entities.Document{}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func TestImportService_Import_ValidDocuments(t *testing.T) {
	service, store := newTestImportService(t)
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"kind": "nursing", "side": "left", "startedAt": "2025-10-26T09:00:00Z"})},
		{Line: 2, Data: bareDoc(map[string]any{"type": "pee", "startedAt": "2025-10-26T10:00:00Z"})},
	}

	result, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Rejections)
	require.Len(t, store.Documents, 2)

	for id, doc := range store.Documents {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, "baby-1", doc[entities.FieldBabyID])
		assert.Equal(t, "family-1", doc[entities.FieldFamilyID])
		assert.Equal(t, "user-1", doc[entities.FieldCreatedBy])
		// Stored in the original shape; migration stays on read.
		assert.False(t, doc.Has(entities.FieldSchemaVersion))
	}
}

func TestImportService_Import_Rejections(t *testing.T) {
	service, store := newTestImportService(t)
	raws := []parsers.RawDocument{
		{Line: 2, Data: bareDoc(map[string]any{"id": "ok", "category": "nap", "startedAt": "2025-10-26T09:00:00Z"})},
		{Line: 3, Data: bareDoc(map[string]any{"id": "no-kind", "startedAt": "2025-10-26T09:00:00Z"})},
		{Line: 4, Data: bareDoc(map[string]any{"id": "bad-date", "category": "nap", "startedAt": "soon"})},
		{Line: 5, Data: bareDoc(map[string]any{"id": "other", "babyId": "baby-2", "category": "nap", "startedAt": "2025-10-26T09:00:00Z"})},
	}

	result, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Rejections, 3)

	assert.Equal(t, 3, result.Rejections[0].Line)
	assert.Equal(t, entities.FieldType, result.Rejections[0].Field)
	assert.Equal(t, 4, result.Rejections[1].Line)
	assert.Equal(t, entities.FieldStartedAt, result.Rejections[1].Field)
	assert.Equal(t, 5, result.Rejections[2].Line)
	assert.Equal(t, entities.FieldBabyID, result.Rejections[2].Field)
	assert.Contains(t, result.Rejections[1].Error(), "line 4: document bad-date")

	assert.Contains(t, store.Documents, "ok")
}

func TestImportService_Import_UnreadableElements(t *testing.T) {
	service, store := newTestImportService(t)
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"id": "a", "category": "nap", "startedAt": "2025-10-26T09:00:00Z"})},
		{Line: 2, Reason: parsers.ReasonNotObject},
		{Line: 3, Data: entities.Document{"id": "k"}, Reason: parsers.ReasonNotObject},
		{Line: 4, Data: bareDoc(map[string]any{"id": "b", "category": "night", "startedAt": "2025-10-26T20:00:00Z"})},
	}

	result, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Rejections, 2)
	assert.Equal(t, entities.Rejection{Line: 2, Reason: "not an object"}, result.Rejections[0])
	assert.Equal(t, entities.Rejection{ID: "k", Line: 3, Reason: "not an object"}, result.Rejections[1])
	assert.Contains(t, store.Documents, "a")
	assert.Contains(t, store.Documents, "b")
}

func TestImportService_Import_LineDefaultsToPosition(t *testing.T) {
	service, _ := newTestImportService(t)
	raws := []parsers.RawDocument{
		{Data: bareDoc(map[string]any{"category": "nap", "startedAt": "2025-10-26T09:00:00Z"})},
		{Data: bareDoc(map[string]any{"startedAt": "2025-10-26T09:00:00Z"})},
	}

	result, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, 2, result.Rejections[0].Line)
}

func TestImportService_Import_DryRun(t *testing.T) {
	service, store := newTestImportService(t)
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"bathType": "sponge", "startedAt": "2025-10-26T19:00:00Z"})},
	}
	opts := importOpts()
	opts.DryRun = true

	result, err := service.Import(context.Background(), raws, opts)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, store.Documents)
}

func TestImportService_Import_SkipExisting(t *testing.T) {
	service, store := newTestImportService(t)
	store.Seed(sleepDoc("s1", "2025-10-25T09:00:00Z", ""))
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"id": "s1", "category": "night", "startedAt": "2025-10-26T21:00:00Z"})},
		{Line: 2, Data: bareDoc(map[string]any{"id": "s2", "category": "nap", "startedAt": "2025-10-26T13:00:00Z"})},
	}

	result, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "nap", store.Documents["s1"][entities.FieldCategory])
}

func TestImportService_Import_Overwrite(t *testing.T) {
	service, store := newTestImportService(t)
	store.Seed(sleepDoc("s1", "2025-10-25T09:00:00Z", ""))
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"id": "s1", "category": "night", "startedAt": "2025-10-26T21:00:00Z"})},
	}
	opts := importOpts()
	opts.OnConflict = ConflictOverwrite

	result, err := service.Import(context.Background(), raws, opts)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, "night", store.Documents["s1"][entities.FieldCategory])
}

func TestImportService_Import_EmptyInput(t *testing.T) {
	service, _ := newTestImportService(t)

	result, err := service.Import(context.Background(), nil, importOpts())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, result.Rejections)
}

func TestImportService_Import_SaveError(t *testing.T) {
	service, store := newTestImportService(t)
	store.Err = errors.New("database locked")
	raws := []parsers.RawDocument{
		{Line: 1, Data: bareDoc(map[string]any{"category": "nap", "startedAt": "2025-10-26T09:00:00Z"})},
	}

	_, err := service.Import(context.Background(), raws, importOpts())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestImportService_Import_DoesNotMutateInput(t *testing.T) {
	service, _ := newTestImportService(t)
	data := bareDoc(map[string]any{"category": "nap", "startedAt": "2025-10-26T09:00:00Z"})
	raws := []parsers.RawDocument{{Line: 1, Data: data}}

	_, err := service.Import(context.Background(), raws, importOpts())

	require.NoError(t, err)
	assert.False(t, data.Has(entities.FieldID))
	assert.False(t, data.Has(entities.FieldBabyID))
}

func TestConflictStrategy_IsValid(t *testing.T) {
	assert.True(t, ConflictSkip.IsValid())
	assert.True(t, ConflictOverwrite.IsValid())
	assert.False(t, ConflictStrategy("merge").IsValid())
}
