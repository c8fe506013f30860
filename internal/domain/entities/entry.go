// Package entities contains core domain data structures.
package entities

import "time"

// CurrentSchemaVersion is the schema version every stored entry is upgraded to on read.
const CurrentSchemaVersion = 2

// EntryType is the discriminant of the Entry tagged union.
type EntryType string

// Known entry types.
const (
	EntryTypeFeed   EntryType = "feed"
	EntryTypeSleep  EntryType = "sleep"
	EntryTypePump   EntryType = "pump"
	EntryTypeDiaper EntryType = "diaper"
	EntryTypeBath   EntryType = "bath"
)

// EntryTypes lists every entry type in display order.
var EntryTypes = []EntryType{
	EntryTypeFeed,
	EntryTypeSleep,
	EntryTypePump,
	EntryTypeDiaper,
	EntryTypeBath,
}

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeFeed, EntryTypeSleep, EntryTypePump, EntryTypeDiaper, EntryTypeBath:
		return true
	}
	return false
}

// IsTimed reports whether entries of this type can be open sessions.
func (t EntryType) IsTimed() bool {
	return t == EntryTypeFeed || t == EntryTypeSleep || t == EntryTypePump
}

// Base holds the fields shared by every entry variant.
type Base struct {
	ID            string    `json:"id"`
	BabyID        string    `json:"babyId"`
	FamilyID      string    `json:"familyId"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Note          string    `json:"note,omitempty"`
	SchemaVersion int       `json:"schemaVersion"`
}

// Common returns the shared entry fields.
func (b *Base) Common() *Base {
	return b
}

// Entry is one logged caregiving event. The set of implementations is closed:
// callers dispatch on the concrete variant through Accept, so a new variant
// cannot be added without extending EntryVisitor and every visitor with it.
type Entry interface {
	Common() *Base
	Type() EntryType
	// Start returns when the entry began.
	Start() time.Time
	// End returns when the entry finished, or nil for an open session.
	End() *time.Time
	Accept(v EntryVisitor)
}

// EntryVisitor handles each entry variant.
type EntryVisitor interface {
	VisitFeed(f *Feed)
	VisitSleep(s *Sleep)
	VisitPump(p *Pump)
	VisitDiaper(d *Diaper)
	VisitBath(b *Bath)
}

// IsOpen reports whether e is a timed entry without an end time.
func IsOpen(e Entry) bool {
	return e.Type().IsTimed() && e.End() == nil
}

// DurationMinutes returns the completed duration of e in minutes.
// Open entries and entries that end before they start contribute zero.
func DurationMinutes(e Entry) float64 {
	end := e.End()
	if end == nil {
		return 0
	}
	ms := end.Sub(e.Start()).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return float64(ms) / 60000
}
