package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// ValidationError is a field-level structural failure of a document.
type ValidationError struct {
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Rejection().Error()
}

// Rejection converts the error into a rejection record.
func (e *ValidationError) Rejection() entities.Rejection {
	return entities.Rejection{ID: e.ID, Field: e.Field, Reason: e.Reason}
}

// maxEpochMillis bounds epoch numbers to 100,000,000 days either side of the
// Unix epoch. Numbers beyond it are not dates.
const maxEpochMillis = 8.64e15

// Layouts accepted for string timestamps, tried in order. Layouts without a
// zone are read in the validator's location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	entities.DayKeyLayout,
}

// Validator checks current-version documents against the entry schema and
// converts accepted ones into typed entries.
type Validator struct {
	current int
	now     func() time.Time
	loc     *time.Location
}

// NewValidator creates a Validator for entities.CurrentSchemaVersion.
// now resolves pending timestamps; nil means time.Now. Timestamps without a
// zone are read as UTC until WithLocation sets another location.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		current: entities.CurrentSchemaVersion,
		now:     now,
		loc:     time.UTC,
	}
}

// WithLocation returns a copy of v that reads timestamps without a zone in
// loc, normally the child's timezone. nil keeps the current location.
func (v *Validator) WithLocation(loc *time.Location) *Validator {
	out := *v
	if loc != nil {
		out.loc = loc
	}
	return &out
}

// Validate returns the typed entry for doc, or a *ValidationError naming the
// first field that failed.
func (v *Validator) Validate(doc entities.Document) (entities.Entry, error) {
	r := &docReader{doc: doc, now: v.now(), loc: v.loc}

	r.id = r.requiredString(entities.FieldID)
	if r.err != nil {
		return nil, r.err
	}

	if version := SchemaVersion(doc); version != v.current {
		r.fail(entities.FieldSchemaVersion, "document is at v%d, expected v%d", version, v.current)
		return nil, r.err
	}

	rawType, ok := doc[entities.FieldType]
	if !ok {
		r.fail(entities.FieldType, "missing discriminant")
		return nil, r.err
	}
	typeName, _ := rawType.(string)
	entryType := entities.EntryType(typeName)
	if !entryType.IsValid() {
		r.fail(entities.FieldType, "unknown entry type %v", rawType)
		return nil, r.err
	}

	base := r.base()
	if r.err != nil {
		return nil, r.err
	}

	var entry entities.Entry
	switch entryType {
	case entities.EntryTypeFeed:
		entry = r.feed(base)
	case entities.EntryTypeSleep:
		entry = r.sleep(base)
	case entities.EntryTypePump:
		entry = r.pump(base)
	case entities.EntryTypeDiaper:
		entry = r.diaper(base)
	case entities.EntryTypeBath:
		entry = r.bath(base)
	}
	if r.err != nil {
		return nil, r.err
	}
	return entry, nil
}

// docReader reads typed fields from a document and records the first failure.
// After a failure every accessor returns a zero value.
type docReader struct {
	doc entities.Document
	now time.Time
	loc *time.Location
	id  string
	err *ValidationError
}

func (r *docReader) fail(field, format string, args ...any) {
	if r.err != nil {
		return
	}
	r.err = &ValidationError{ID: r.id, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (r *docReader) base() entities.Base {
	return entities.Base{
		ID:            r.id,
		BabyID:        r.requiredString(entities.FieldBabyID),
		FamilyID:      r.requiredString(entities.FieldFamilyID),
		CreatedBy:     r.requiredString(entities.FieldCreatedBy),
		CreatedAt:     r.serverTime(entities.FieldCreatedAt),
		UpdatedAt:     r.serverTime(entities.FieldUpdatedAt),
		Note:          r.optionalString(entities.FieldNote),
		SchemaVersion: SchemaVersion(r.doc),
	}
}

// feed reads a feed. Nursing feeds must name a side.
func (r *docReader) feed(base entities.Base) *entities.Feed {
	kind := entities.FeedKind(r.enum(entities.FieldKind, entities.FeedKinds, true))
	return &entities.Feed{
		Base:      base,
		Kind:      kind,
		StartedAt: r.requiredTime(entities.FieldStartedAt),
		EndedAt:   r.optionalTime(entities.FieldEndedAt),
		Side:      entities.Side(r.enum(entities.FieldSide, entities.Sides, kind == entities.FeedKindNursing)),
		SessionID: r.optionalUUID(entities.FieldSessionID),
		AmountOz:  r.optionalAmount(entities.FieldAmountOz),
	}
}

func (r *docReader) sleep(base entities.Base) *entities.Sleep {
	return &entities.Sleep{
		Base:      base,
		Category:  entities.SleepCategory(r.enum(entities.FieldCategory, entities.SleepCategories, true)),
		Quality:   entities.SleepQuality(r.enum(entities.FieldQuality, entities.SleepQualities, false)),
		StartedAt: r.requiredTime(entities.FieldStartedAt),
		EndedAt:   r.optionalTime(entities.FieldEndedAt),
	}
}

func (r *docReader) pump(base entities.Base) *entities.Pump {
	r.enum(entities.FieldKind, []string{string(entities.EntryTypePump)}, false)
	return &entities.Pump{
		Base:          base,
		StartedAt:     r.requiredTime(entities.FieldStartedAt),
		EndedAt:       r.optionalTime(entities.FieldEndedAt),
		LeftAmountOz:  r.optionalAmount(entities.FieldLeftAmountOz),
		RightAmountOz: r.optionalAmount(entities.FieldRightAmountOz),
		TotalAmountOz: r.optionalAmount(entities.FieldTotalAmountOz),
	}
}

func (r *docReader) diaper(base entities.Base) *entities.Diaper {
	started := r.requiredTime(entities.FieldStartedAt)
	return &entities.Diaper{
		Base:        base,
		StartedAt:   started,
		EndedAt:     r.instantEnd(started),
		DiaperType:  entities.DiaperType(r.enum(entities.FieldDiaperType, entities.DiaperTypes, true)),
		Rash:        r.optionalBool(entities.FieldRash),
		Consistency: entities.Consistency(r.enum(entities.FieldConsistency, entities.Consistencies, false)),
		Color:       entities.Color(r.enum(entities.FieldColor, entities.Colors, false)),
		Volume:      entities.Volume(r.enum(entities.FieldVolume, entities.Volumes, false)),
	}
}

func (r *docReader) bath(base entities.Base) *entities.Bath {
	started := r.requiredTime(entities.FieldStartedAt)
	return &entities.Bath{
		Base:      base,
		StartedAt: started,
		EndedAt:   r.instantEnd(started),
		BathType:  entities.BathType(r.enum(entities.FieldBathType, entities.BathTypes, true)),
	}
}

func (r *docReader) requiredString(field string) string {
	raw, ok := r.doc[field]
	if !ok || raw == nil {
		r.fail(field, "missing required field")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(field, "expected string, got %T", raw)
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.fail(field, "must not be empty")
		return ""
	}
	return s
}

func (r *docReader) optionalString(field string) string {
	raw, ok := r.doc[field]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(field, "expected string, got %T", raw)
		return ""
	}
	return s
}

func (r *docReader) enum(field string, allowed []string, required bool) string {
	var s string
	if required {
		s = r.requiredString(field)
	} else {
		s = r.optionalString(field)
	}
	if s == "" || r.err != nil {
		return ""
	}
	if !contains(allowed, s) {
		r.fail(field, "invalid value %q (valid: %s)", s, strings.Join(allowed, ", "))
		return ""
	}
	return s
}

func (r *docReader) optionalUUID(field string) string {
	s := r.optionalString(field)
	if s == "" || r.err != nil {
		return ""
	}
	if _, err := uuid.Parse(s); err != nil {
		r.fail(field, "invalid uuid %q", s)
		return ""
	}
	return s
}

// serverTime reads a store-managed timestamp. Absent, null and pending values
// resolve to now.
func (r *docReader) serverTime(field string) time.Time {
	raw, ok := r.doc[field]
	if !ok {
		return r.now
	}
	t, ok := coerceTime(raw, r.now, r.loc)
	if !ok {
		r.fail(field, "invalid date %v", raw)
		return time.Time{}
	}
	return t
}

// requiredTime reads a timestamp that must be present. Null and pending
// values resolve to now.
func (r *docReader) requiredTime(field string) time.Time {
	raw, ok := r.doc[field]
	if !ok {
		r.fail(field, "missing required field")
		return time.Time{}
	}
	t, ok := coerceTime(raw, r.now, r.loc)
	if !ok {
		r.fail(field, "invalid date %v", raw)
		return time.Time{}
	}
	return t
}

// optionalTime reads a timestamp that may be absent. Null is absent.
func (r *docReader) optionalTime(field string) *time.Time {
	raw, ok := r.doc[field]
	if !ok || raw == nil {
		return nil
	}
	t, ok := coerceTime(raw, r.now, r.loc)
	if !ok {
		r.fail(field, "invalid date %v", raw)
		return nil
	}
	return &t
}

// instantEnd reads endedAt for instantaneous entries, defaulting to start.
func (r *docReader) instantEnd(start time.Time) time.Time {
	if end := r.optionalTime(entities.FieldEndedAt); end != nil {
		return *end
	}
	return start
}

func (r *docReader) optionalAmount(field string) *float64 {
	raw, ok := r.doc[field]
	if !ok || raw == nil {
		return nil
	}
	f, ok := coerceNumber(raw)
	if !ok {
		r.fail(field, "expected number, got %T", raw)
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(field, "must be a finite number")
		return nil
	}
	if f < 0 {
		r.fail(field, "must not be negative")
		return nil
	}
	return &f
}

func (r *docReader) optionalBool(field string) *bool {
	raw, ok := r.doc[field]
	if !ok || raw == nil {
		return nil
	}
	b, ok := raw.(bool)
	if !ok {
		r.fail(field, "expected boolean, got %T", raw)
		return nil
	}
	return &b
}

// coerceTime accepts native times, ISO strings, epoch milliseconds, Firestore
// timestamp objects, null and the pending sentinel.
func coerceTime(raw any, now time.Time, loc *time.Location) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return now, true
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return now, true
		}
		return *v, !v.IsZero()
	case string:
		return parseTimeString(v, now, loc)
	case map[string]any:
		return parseTimestampObject(v)
	case entities.Document:
		return parseTimestampObject(v)
	}
	if ms, ok := coerceNumber(raw); ok {
		if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(math.Round(ms))), true
	}
	return time.Time{}, false
}

func parseTimeString(s string, now time.Time, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.EqualFold(s, entities.PendingTimestamp) {
		return now, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestampObject(m map[string]any) (time.Time, bool) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	sec, ok := coerceNumber(secRaw)
	if !ok || math.IsNaN(sec) || math.IsInf(sec, 0) || math.Abs(sec) > maxEpochMillis/1000 {
		return time.Time{}, false
	}
	var nsec float64
	if nsRaw, ok := m["nanoseconds"]; ok {
		nsec, _ = coerceNumber(nsRaw)
	} else if nsRaw, ok := m["_nanoseconds"]; ok {
		nsec, _ = coerceNumber(nsRaw)
	}
	return time.Unix(int64(sec), int64(nsec)), true
}

func coerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
