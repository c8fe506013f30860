package handlers

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/mocks"
	"github.com/ersonp/carelog/internal/domain/services"
)

var testNow = time.Date(2025, 10, 27, 18, 0, 0, 0, time.UTC)

var testChild = entities.Child{ID: "baby-1", FamilyID: "family-1", Name: "ada", Timezone: "UTC"}

func fixedNow() time.Time {
	return testNow
}

// newTestEntryService wires an EntryService over an in-memory store.
func newTestEntryService(t *testing.T) (*services.EntryService, *mocks.EntryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := mocks.NewEntryStore()
	service := services.NewEntryService(
		store,
		services.NewDefaultMigrator(logger),
		services.NewValidator(fixedNow),
		logger,
	)
	return service, store
}

func bottleDoc(id, startedAt string, oz float64) entities.Document {
	return entities.Document{
		"id":            id,
		"schemaVersion": entities.CurrentSchemaVersion,
		"type":          "feed",
		"babyId":        testChild.ID,
		"familyId":      testChild.FamilyID,
		"createdBy":     "user-1",
		"kind":          "bottle",
		"startedAt":     startedAt,
		"endedAt":       startedAt,
		"amountOz":      oz,
	}
}
