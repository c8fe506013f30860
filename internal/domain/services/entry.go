package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/ports"
)

var (
	// ErrNoOpenSession is returned by Stop when the child has no open session.
	ErrNoOpenSession = errors.New("no open session")
	// ErrEntryNotFound is returned when an entry id does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSessionOpen is returned by exclusive Log calls when a session of the
	// same type is already open.
	ErrSessionOpen = errors.New("session already open")
	// ErrPumpTotalMismatch is returned when a logged pump total disagrees with
	// its sides.
	ErrPumpTotalMismatch = errors.New("pump total does not equal left + right")
)

// timeNow is the clock used for produced timestamps. Tests replace it.
var timeNow = time.Now

// newEntryID generates ids for produced and imported entries.
func newEntryID() string {
	return uuid.New().String()
}

// LoadResult is the accepted entry set of one pipeline run together with the
// documents that were excluded from it.
type LoadResult struct {
	Entries    []entities.Entry
	Rejections []entities.Rejection
}

// Accepted returns the number of accepted entries.
func (r *LoadResult) Accepted() int {
	return len(r.Entries)
}

// EntryService runs raw documents through migration and validation and
// produces new entries.
type EntryService struct {
	store     ports.EntryStore
	migrator  *Migrator
	validator *Validator
	logger    *slog.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(store ports.EntryStore, migrator *Migrator, validator *Validator, logger *slog.Logger) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryService{
		store:     store,
		migrator:  migrator,
		validator: validator,
		logger:    logger,
	}
}

// Prepare migrates and validates every document. A document that fails is
// reported as a rejection and never affects the others.
func (s *EntryService) Prepare(docs []entities.Document) *LoadResult {
	result := &LoadResult{Entries: make([]entities.Entry, 0, len(docs))}

	for _, doc := range docs {
		entry, err := s.prepareOne(doc)
		if err != nil {
			rejection := toRejection(doc, err)
			s.logger.Warn("rejected entry document",
				"id", rejection.ID, "field", rejection.Field, "reason", rejection.Reason)
			result.Rejections = append(result.Rejections, rejection)
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

// prepareOne migrates and validates a single document. Migration gaps are
// surfaced by the validator as a schemaVersion rejection.
func (s *EntryService) prepareOne(doc entities.Document) (entities.Entry, error) {
	migrated, _ := s.migrator.Migrate(doc)
	return s.validator.Validate(migrated)
}

func toRejection(doc entities.Document, err error) entities.Rejection {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Rejection()
	}
	return entities.Rejection{ID: doc.ID(), Reason: err.Error()}
}

// Load returns a child's accepted entries, most recent first.
func (s *EntryService) Load(ctx context.Context, babyID string) (*LoadResult, error) {
	docs, err := s.store.ListDocuments(ctx, babyID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	result := s.Prepare(docs)
	SortByStartDesc(result.Entries)
	return result, nil
}

// SortByStartDesc orders entries by start time, most recent first, breaking
// ties by id.
func SortByStartDesc(entries []entities.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Start(), entries[j].Start()
		if !a.Equal(b) {
			return a.After(b)
		}
		return entries[i].Common().ID < entries[j].Common().ID
	})
}

// LogInput describes a new entry. Only the fields of the chosen type are used.
type LogInput struct {
	Child     entities.Child
	CreatedBy string
	Type      entities.EntryType
	StartedAt time.Time  // zero means now
	EndedAt   *time.Time // nil leaves timed entries open
	Note      string
	// Exclusive rejects the entry when a session of the same type is open.
	Exclusive bool

	// Feed
	Kind      entities.FeedKind
	Side      entities.Side
	SessionID string
	AmountOz  *float64

	// Sleep
	Category entities.SleepCategory
	Quality  entities.SleepQuality

	// Pump
	LeftAmountOz  *float64
	RightAmountOz *float64
	TotalAmountOz *float64

	// Diaper
	DiaperType  entities.DiaperType
	Rash        *bool
	Consistency entities.Consistency
	Color       entities.Color
	Volume      entities.Volume

	// Bath
	BathType entities.BathType
}

// Log builds a current-version document from in, validates it and stores it.
func (s *EntryService) Log(ctx context.Context, in LogInput) (entities.Entry, error) {
	doc, err := s.buildDocument(in)
	if err != nil {
		return nil, err
	}

	entry, err := s.validator.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid entry: %w", err)
	}

	if in.Exclusive && entities.IsOpen(entry) {
		open, err := s.OpenSessions(ctx, in.Child.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range open {
			if e.Type() == entry.Type() {
				return nil, fmt.Errorf("%w: %s %s started %s",
					ErrSessionOpen, e.Type(), e.Common().ID, e.Start().Format(time.RFC3339))
			}
		}
	}

	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving entry: %w", err)
	}
	s.logger.Debug("logged entry", "id", entry.Common().ID, "type", entry.Type())

	return entry, nil
}

func (s *EntryService) buildDocument(in LogInput) (entities.Document, error) {
	now := timeNow().UTC()
	started := in.StartedAt
	if started.IsZero() {
		started = now
	}

	doc := entities.Document{
		entities.FieldID:            newEntryID(),
		entities.FieldBabyID:        in.Child.ID,
		entities.FieldFamilyID:      in.Child.FamilyID,
		entities.FieldCreatedBy:     in.CreatedBy,
		entities.FieldCreatedAt:     formatTime(now),
		entities.FieldUpdatedAt:     formatTime(now),
		entities.FieldSchemaVersion: entities.CurrentSchemaVersion,
		entities.FieldType:          string(in.Type),
		entities.FieldStartedAt:     formatTime(started),
	}
	if in.Note != "" {
		doc[entities.FieldNote] = in.Note
	}
	if in.EndedAt != nil {
		doc[entities.FieldEndedAt] = formatTime(*in.EndedAt)
	}

	switch in.Type {
	case entities.EntryTypeFeed:
		doc[entities.FieldKind] = string(in.Kind)
		setString(doc, entities.FieldSide, string(in.Side))
		setAmount(doc, entities.FieldAmountOz, in.AmountOz)
		switch in.Kind {
		case entities.FeedKindNursing:
			sessionID := in.SessionID
			if sessionID == "" {
				sessionID = uuid.New().String()
			}
			doc[entities.FieldSessionID] = sessionID
		case entities.FeedKindBottle:
			doc[entities.FieldEndedAt] = formatTime(started)
		}

	case entities.EntryTypeSleep:
		doc[entities.FieldCategory] = string(in.Category)
		setString(doc, entities.FieldQuality, string(in.Quality))

	case entities.EntryTypePump:
		doc[entities.FieldKind] = string(entities.EntryTypePump)
		total, err := pumpTotal(in.LeftAmountOz, in.RightAmountOz, in.TotalAmountOz)
		if err != nil {
			return nil, err
		}
		setAmount(doc, entities.FieldLeftAmountOz, in.LeftAmountOz)
		setAmount(doc, entities.FieldRightAmountOz, in.RightAmountOz)
		setAmount(doc, entities.FieldTotalAmountOz, total)

	case entities.EntryTypeDiaper:
		doc[entities.FieldDiaperType] = string(in.DiaperType)
		doc[entities.FieldEndedAt] = formatTime(started)
		if in.Rash != nil {
			doc[entities.FieldRash] = *in.Rash
		}
		setString(doc, entities.FieldConsistency, string(in.Consistency))
		setString(doc, entities.FieldColor, string(in.Color))
		setString(doc, entities.FieldVolume, string(in.Volume))

	case entities.EntryTypeBath:
		doc[entities.FieldBathType] = string(in.BathType)
		doc[entities.FieldEndedAt] = formatTime(started)
	}

	return doc, nil
}

// pumpTotal returns the total to store for a new pump entry. A total given
// with both sides must match their sum.
func pumpTotal(left, right, total *float64) (*float64, error) {
	if left == nil && right == nil {
		return total, nil
	}
	sum := entities.Oz(left) + entities.Oz(right)
	if total == nil {
		return &sum, nil
	}
	if left != nil && right != nil && math.Abs(*total-sum) > 1e-9 {
		return nil, fmt.Errorf("%w: %.2f != %.2f", ErrPumpTotalMismatch, *total, sum)
	}
	return total, nil
}

func setString(doc entities.Document, field, value string) {
	if value != "" {
		doc[field] = value
	}
}

func setAmount(doc entities.Document, field string, value *float64) {
	if value != nil {
		doc[field] = *value
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// OpenSessions returns the child's open timed entries, most recent first.
func (s *EntryService) OpenSessions(ctx context.Context, babyID string) ([]entities.Entry, error) {
	result, err := s.Load(ctx, babyID)
	if err != nil {
		return nil, err
	}

	var open []entities.Entry
	for _, entry := range result.Entries {
		if entities.IsOpen(entry) {
			open = append(open, entry)
		}
	}
	return open, nil
}

// Stop closes the most recent open session of the child. An empty entryType
// matches any timed type; a zero at means now. The stored document keeps its
// original schema version.
func (s *EntryService) Stop(ctx context.Context, babyID string, entryType entities.EntryType, at time.Time) (entities.Entry, error) {
	open, err := s.OpenSessions(ctx, babyID)
	if err != nil {
		return nil, err
	}

	var target entities.Entry
	for _, entry := range open {
		if entryType == "" || entry.Type() == entryType {
			target = entry
			break
		}
	}
	if target == nil {
		if entryType != "" {
			return nil, fmt.Errorf("%w: no %s in progress", ErrNoOpenSession, entryType)
		}
		return nil, ErrNoOpenSession
	}

	id := target.Common().ID
	raw, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	now := timeNow().UTC()
	if at.IsZero() {
		at = now
	}
	updated := raw.Clone()
	updated[entities.FieldEndedAt] = formatTime(at)
	updated[entities.FieldUpdatedAt] = formatTime(now)

	entry, err := s.prepareOne(updated)
	if err != nil {
		return nil, fmt.Errorf("closing session: %w", err)
	}
	if err := s.store.SaveDocument(ctx, updated); err != nil {
		return nil, fmt.Errorf("saving entry: %w", err)
	}
	s.logger.Debug("closed session", "id", id, "type", entry.Type())

	return entry, nil
}

// Delete removes an entry by id.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("getting entry: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}
