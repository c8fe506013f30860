package entities

import "fmt"

// Document field names shared by migration, validation and storage.
const (
	FieldID            = "id"
	FieldBabyID        = "babyId"
	FieldFamilyID      = "familyId"
	FieldCreatedBy     = "createdBy"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
	FieldNote          = "note"
	FieldSchemaVersion = "schemaVersion"
	FieldType          = "type"
	FieldKind          = "kind"
	FieldStartedAt     = "startedAt"
	FieldEndedAt       = "endedAt"
	FieldSide          = "side"
	FieldSessionID     = "sessionId"
	FieldAmountOz      = "amountOz"
	FieldCategory      = "category"
	FieldQuality       = "quality"
	FieldLeftAmountOz  = "leftAmountOz"
	FieldRightAmountOz = "rightAmountOz"
	FieldTotalAmountOz = "totalAmountOz"
	FieldDiaperType    = "diaperType"
	FieldRash          = "rash"
	FieldConsistency   = "consistency"
	FieldColor         = "color"
	FieldVolume        = "volume"
	FieldBathType      = "bathType"
)

// PendingTimestamp marks a server timestamp that has not been resolved yet.
// It is read as "now".
const PendingTimestamp = "pending"

// Document is a loosely typed stored record at any schema version.
// Documents are treated as immutable snapshots: code that needs to change one
// works on a Clone.
type Document map[string]any

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the value of key if it is a non-empty string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// ID returns the document identifier, or "" when absent.
func (d Document) ID() string {
	switch v := d[FieldID].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Rejection describes a document excluded from the accepted entry set.
type Rejection struct {
	ID     string `json:"id"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
	Line   int    `json:"line,omitempty"`
}

func (r Rejection) Error() string {
	msg := r.Reason
	if r.Field != "" {
		msg = r.Field + ": " + msg
	}
	if r.ID != "" {
		msg = fmt.Sprintf("document %s: %s", r.ID, msg)
	}
	if r.Line > 0 {
		return fmt.Sprintf("line %d: %s", r.Line, msg)
	}
	return msg
}
