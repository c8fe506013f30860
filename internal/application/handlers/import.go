package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
	"github.com/ersonp/carelog/internal/infrastructure/parsers"
)

// ImportHandler handles importing entry documents from files.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", or "auto"
	DryRun     bool                      // Validate without saving
	OnConflict services.ConflictStrategy // How to handle existing entries
	Child      entities.Child            // Child that owns the imported entries
	CreatedBy  string                    // Caregiver recorded on entries without one
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported   int
	Skipped    int
	Rejections []entities.Rejection
}

// Handle imports entry documents from a file.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	// Parse documents
	rawDocs, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if len(rawDocs) == 0 {
		return &ImportResult{}, nil
	}

	onConflict := opts.OnConflict
	if onConflict == "" {
		onConflict = services.ConflictSkip
	}

	// Import documents
	serviceOpts := services.ImportOptions{
		Child:      opts.Child,
		CreatedBy:  opts.CreatedBy,
		DryRun:     opts.DryRun,
		OnConflict: onConflict,
	}

	serviceResult, err := h.service.Import(ctx, rawDocs, serviceOpts)
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported:   serviceResult.Imported,
		Skipped:    serviceResult.Skipped,
		Rejections: serviceResult.Rejections,
	}, nil
}
