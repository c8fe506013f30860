package services

import (
	"context"
	"fmt"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/ports"
	"github.com/ersonp/carelog/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle existing entries during import.
type ConflictStrategy string

const (
	// ConflictSkip skips documents whose id already exists.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces existing documents with the imported data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// IsValid reports whether c is a known strategy.
func (c ConflictStrategy) IsValid() bool {
	return c == ConflictSkip || c == ConflictOverwrite
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Child      entities.Child   // Owner filled into documents that lack one
	CreatedBy  string           // Author filled into documents that lack one
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing entries
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported   int
	Skipped    int
	Rejections []entities.Rejection
}

// ImportService imports raw entry documents from external sources.
type ImportService struct {
	store   ports.EntryStore
	entries *EntryService
}

// NewImportService creates a new import service.
func NewImportService(store ports.EntryStore, entries *EntryService) *ImportService {
	return &ImportService{
		store:   store,
		entries: entries,
	}
}

// Import checks every document against the migrate and validate pipeline and
// stores the accepted ones in their original shape. Rejected documents are
// reported with their source line and do not stop the import.
func (s *ImportService) Import(ctx context.Context, raws []parsers.RawDocument, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	accepted := make([]entities.Document, 0, len(raws))
	for i := range raws {
		line := raws[i].Line
		if line == 0 {
			line = i + 1
		}

		if reason := raws[i].Reason; reason != "" {
			result.Rejections = append(result.Rejections, entities.Rejection{
				ID:     raws[i].Data.ID(),
				Reason: reason,
				Line:   line,
			})
			continue
		}

		doc, rejection := s.prepareDocument(raws[i].Data, opts)
		if rejection != nil {
			rejection.Line = line
			result.Rejections = append(result.Rejections, *rejection)
			continue
		}
		accepted = append(accepted, doc)
	}

	if len(accepted) == 0 {
		return result, nil
	}

	if opts.DryRun {
		result.Imported = len(accepted)
		return result, nil
	}

	imported, skipped, err := s.saveWithConflictHandling(ctx, accepted, opts.OnConflict)
	if err != nil {
		return nil, fmt.Errorf("saving entries: %w", err)
	}

	result.Imported = imported
	result.Skipped = skipped

	return result, nil
}

// prepareDocument fills ownership fields and runs the document through the
// pipeline. The returned document is the filled raw document, not the
// migrated one.
func (s *ImportService) prepareDocument(data entities.Document, opts ImportOptions) (entities.Document, *entities.Rejection) {
	doc := data.Clone()

	if doc.ID() == "" {
		doc[entities.FieldID] = newEntryID()
	}
	fillString(doc, entities.FieldBabyID, opts.Child.ID)
	fillString(doc, entities.FieldFamilyID, opts.Child.FamilyID)
	fillString(doc, entities.FieldCreatedBy, opts.CreatedBy)

	if opts.Child.ID != "" && doc.String(entities.FieldBabyID) != opts.Child.ID {
		return nil, &entities.Rejection{
			ID:     doc.ID(),
			Field:  entities.FieldBabyID,
			Reason: fmt.Sprintf("belongs to %q, not %q", doc.String(entities.FieldBabyID), opts.Child.ID),
		}
	}

	if _, err := s.entries.prepareOne(doc); err != nil {
		rejection := toRejection(doc, err)
		return nil, &rejection
	}
	return doc, nil
}

func fillString(doc entities.Document, field, value string) {
	if value == "" {
		return
	}
	if v, ok := doc[field]; !ok || v == nil || v == "" {
		doc[field] = value
	}
}

// saveWithConflictHandling saves documents with conflict handling.
func (s *ImportService) saveWithConflictHandling(ctx context.Context, docs []entities.Document, onConflict ConflictStrategy) (imported, skipped int, err error) {
	toSave := docs
	if onConflict == ConflictSkip {
		toSave, skipped, err = s.filterExisting(ctx, docs)
		if err != nil {
			return 0, 0, err
		}
	}

	for _, doc := range toSave {
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			return imported, skipped, fmt.Errorf("document %s: %w", doc.ID(), err)
		}
		imported++
	}
	return imported, skipped, nil
}

// filterExisting filters out documents that already exist in the store.
func (s *ImportService) filterExisting(ctx context.Context, docs []entities.Document) ([]entities.Document, int, error) {
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID()
	}

	existing, err := s.store.ExistsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("checking existing entries: %w", err)
	}

	toSave := make([]entities.Document, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		if existing[doc.ID()] {
			skipped++
			continue
		}
		toSave = append(toSave, doc)
	}

	return toSave, skipped, nil
}
