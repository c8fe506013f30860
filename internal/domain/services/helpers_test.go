package services

import (
	"io"
	"log/slog"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
)

var testNow = time.Date(2025, 10, 27, 18, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return testNow
}

func ptr[T any](v T) *T {
	return &v
}

// v2Doc returns a valid current-version document of the given type with
// fields merged over the shared base.
func v2Doc(id string, entryType entities.EntryType, fields map[string]any) entities.Document {
	doc := entities.Document{
		entities.FieldID:            id,
		entities.FieldBabyID:        "baby-1",
		entities.FieldFamilyID:      "family-1",
		entities.FieldCreatedBy:     "user-1",
		entities.FieldCreatedAt:     "2025-10-26T08:00:00Z",
		entities.FieldUpdatedAt:     "2025-10-26T08:00:00Z",
		entities.FieldSchemaVersion: entities.CurrentSchemaVersion,
		entities.FieldType:          string(entryType),
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

// v1Doc returns a legacy document without a schema version or discriminant.
func v1Doc(id string, fields map[string]any) entities.Document {
	doc := entities.Document{
		entities.FieldID:        id,
		entities.FieldBabyID:    "baby-1",
		entities.FieldFamilyID:  "family-1",
		entities.FieldCreatedBy: "user-1",
		entities.FieldCreatedAt: "2025-10-26T08:00:00Z",
		entities.FieldUpdatedAt: "2025-10-26T08:00:00Z",
	}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func nursingDoc(id, side, start, end string) entities.Document {
	fields := map[string]any{
		entities.FieldKind:      "nursing",
		entities.FieldSide:      side,
		entities.FieldStartedAt: start,
	}
	if end != "" {
		fields[entities.FieldEndedAt] = end
	}
	return v2Doc(id, entities.EntryTypeFeed, fields)
}

func bottleDoc(id, at string, oz float64) entities.Document {
	return v2Doc(id, entities.EntryTypeFeed, map[string]any{
		entities.FieldKind:      "bottle",
		entities.FieldStartedAt: at,
		entities.FieldEndedAt:   at,
		entities.FieldAmountOz:  oz,
	})
}

func sleepDoc(id, start, end string) entities.Document {
	fields := map[string]any{
		entities.FieldCategory:  "nap",
		entities.FieldStartedAt: start,
	}
	if end != "" {
		fields[entities.FieldEndedAt] = end
	}
	return v2Doc(id, entities.EntryTypeSleep, fields)
}
