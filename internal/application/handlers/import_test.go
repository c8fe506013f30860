package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/mocks"
	"github.com/ersonp/carelog/internal/domain/services"
)

func newTestImportHandler(t *testing.T) (*ImportHandler, *mocks.EntryStore) {
	t.Helper()
	entries, store := newTestEntryService(t)
	return NewImportHandler(services.NewImportService(store, entries)), store
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportHandler_Handle_JSONFile(t *testing.T) {
	handler, store := newTestImportHandler(t)
	jsonFile := writeFile(t, "entries.json",
		`[{"id": "f1", "kind": "nursing", "side": "left", "startedAt": "2025-10-26T09:00:00Z", "endedAt": "2025-10-26T09:20:00Z"}]`)

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		Child:      testChild,
		CreatedBy:  "user-1",
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Rejections)
	assert.Contains(t, store.Documents, "f1")
}

func TestImportHandler_Handle_NonObjectElement(t *testing.T) {
	handler, store := newTestImportHandler(t)
	jsonFile := writeFile(t, "entries.json", `[
		{"id": "a", "category": "nap", "startedAt": "2025-10-26T13:00:00Z"},
		5,
		{"id": "b", "diaperType": "pee", "startedAt": "2025-10-26T14:00:00Z"}
	]`)

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, 2, result.Rejections[0].Line)
	assert.Equal(t, "not an object", result.Rejections[0].Reason)
	assert.Contains(t, store.Documents, "a")
	assert.Contains(t, store.Documents, "b")
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	handler, store := newTestImportHandler(t)
	csvFile := writeFile(t, "entries.csv",
		"id,type,kind,startedAt,amountOz\nb1,feed,bottle,2025-10-26T09:00:00Z,4.5\n")

	result, err := handler.Handle(context.Background(), csvFile, ImportOptions{
		Child:      testChild,
		CreatedBy:  "user-1",
		OnConflict: services.ConflictOverwrite,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4.5, store.Documents["b1"][entities.FieldAmountOz])
}

func TestImportHandler_Handle_AutoFormat(t *testing.T) {
	handler, _ := newTestImportHandler(t)
	jsonFile := writeFile(t, "data.json", `[{"category": "nap", "startedAt": "2025-10-26T13:00:00Z"}]`)

	// Test with Format="auto"
	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		Format:    "auto",
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_ExplicitFormat(t *testing.T) {
	handler, _ := newTestImportHandler(t)
	// .txt extension but JSON content
	txtFile := writeFile(t, "data.txt", `[{"bathType": "full", "startedAt": "2025-10-26T19:00:00Z"}]`)

	// Explicitly specify JSON format
	result, err := handler.Handle(context.Background(), txtFile, ImportOptions{
		Format:    "json",
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestImportHandler_Handle_UnsupportedFormat(t *testing.T) {
	handler, _ := newTestImportHandler(t)
	xmlFile := writeFile(t, "data.xml", "<data/>")

	_, err := handler.Handle(context.Background(), xmlFile, ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestImportHandler_Handle_FileNotFound(t *testing.T) {
	handler, _ := newTestImportHandler(t)

	_, err := handler.Handle(context.Background(), "/nonexistent/file.json", ImportOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening file")
}

func TestImportHandler_Handle_DryRun(t *testing.T) {
	handler, store := newTestImportHandler(t)
	jsonFile := writeFile(t, "entries.json", `[{"category": "night", "startedAt": "2025-10-26T21:00:00Z"}]`)

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		DryRun:    true,
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, store.Documents, "nothing should be saved in dry run")
}

func TestImportHandler_Handle_ReportsRejections(t *testing.T) {
	handler, store := newTestImportHandler(t)
	jsonFile := writeFile(t, "entries.json", `[
		{"id": "ok", "category": "nap", "startedAt": "2025-10-26T13:00:00Z"},
		{"id": "bad", "category": "siesta", "startedAt": "2025-10-26T14:00:00Z"}
	]`)

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, "bad", result.Rejections[0].ID)
	assert.Equal(t, entities.FieldCategory, result.Rejections[0].Field)
	assert.NotContains(t, store.Documents, "bad")
}

func TestImportHandler_Handle_DefaultsToSkip(t *testing.T) {
	handler, store := newTestImportHandler(t)
	store.Seed(bottleDoc("b1", "2025-10-26T09:00:00Z", 3))
	jsonFile := writeFile(t, "entries.json",
		`[{"id": "b1", "kind": "bottle", "startedAt": "2025-10-26T09:00:00Z", "amountOz": 5}]`)

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{
		Child:     testChild,
		CreatedBy: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3.0, store.Documents["b1"][entities.FieldAmountOz])
}

func TestImportHandler_Handle_EmptyFile(t *testing.T) {
	handler, _ := newTestImportHandler(t)
	jsonFile := writeFile(t, "empty.json", "[]")

	result, err := handler.Handle(context.Background(), jsonFile, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Rejections)
}
