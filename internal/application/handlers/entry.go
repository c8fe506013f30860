package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/ports"
	"github.com/ersonp/carelog/internal/domain/services"
)

// ErrHistoryUnavailable is returned when the store keeps no audit log.
var ErrHistoryUnavailable = errors.New("entry history not available for this store")

// EntryHandler handles logging, listing and removing entries.
type EntryHandler struct {
	entries *services.EntryService
	audit   ports.AuditLog
}

// NewEntryHandler creates a new entry handler. audit may be nil.
func NewEntryHandler(entries *services.EntryService, audit ports.AuditLog) *EntryHandler {
	return &EntryHandler{
		entries: entries,
		audit:   audit,
	}
}

// ListOptions filters the entries returned by List.
type ListOptions struct {
	Type  entities.EntryType // Empty matches every type
	Since time.Time          // Zero matches every start time
	Limit int                // 0 means no limit
}

// ListResult contains the listed entries and the documents that failed to load.
type ListResult struct {
	Entries    []entities.Entry
	Total      int // Matches before the limit was applied
	Rejections []entities.Rejection
}

// Log records a new entry.
func (h *EntryHandler) Log(ctx context.Context, in services.LogInput) (entities.Entry, error) {
	return h.entries.Log(ctx, in)
}

// Stop closes the child's most recent open session.
func (h *EntryHandler) Stop(ctx context.Context, babyID string, entryType entities.EntryType, at time.Time) (entities.Entry, error) {
	return h.entries.Stop(ctx, babyID, entryType, at)
}

// List returns the child's entries, most recent first.
func (h *EntryHandler) List(ctx context.Context, babyID string, opts ListOptions) (*ListResult, error) {
	loaded, err := h.entries.Load(ctx, babyID)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Rejections: loaded.Rejections}
	for _, entry := range loaded.Entries {
		if opts.Type != "" && entry.Type() != opts.Type {
			continue
		}
		if !opts.Since.IsZero() && entry.Start().Before(opts.Since) {
			continue
		}
		result.Total++
		if opts.Limit > 0 && len(result.Entries) >= opts.Limit {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// Delete removes the entries with the given ids. It stops at the first failure
// and returns how many were deleted.
func (h *EntryHandler) Delete(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := h.entries.Delete(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// History returns the recorded writes of one entry, most recent first.
func (h *EntryHandler) History(ctx context.Context, id string) ([]entities.AuditEntry, error) {
	if h.audit == nil {
		return nil, ErrHistoryUnavailable
	}
	history, err := h.audit.FindAuditLog(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return history, nil
}
