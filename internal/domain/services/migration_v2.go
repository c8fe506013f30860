package services

import (
	"github.com/google/uuid"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// sessionNamespace seeds deterministic session ids for backfilled nursing feeds.
var sessionNamespace = uuid.MustParse("6f1d2c1e-4b7a-4f0e-9a51-3c2b8d7e0a45")

// discriminantRule infers an entry type from the fields a v1 document carries.
type discriminantRule struct {
	entryType entities.EntryType
	matches   func(doc entities.Document) bool
}

// v1DiscriminantRules are evaluated in order; the first match wins.
var v1DiscriminantRules = []discriminantRule{
	{
		entryType: entities.EntryTypePump,
		matches: func(doc entities.Document) bool {
			return doc.String(entities.FieldKind) == "pump"
		},
	},
	{
		entryType: entities.EntryTypeFeed,
		matches: func(doc entities.Document) bool {
			return doc.Has(entities.FieldKind)
		},
	},
	{
		entryType: entities.EntryTypeSleep,
		matches: func(doc entities.Document) bool {
			return doc.Has(entities.FieldCategory)
		},
	},
	{
		entryType: entities.EntryTypeDiaper,
		matches: func(doc entities.Document) bool {
			return doc.Has(entities.FieldDiaperType) || isLegacyDiaperType(doc.String(entities.FieldType))
		},
	},
	{
		entryType: entities.EntryTypeBath,
		matches: func(doc entities.Document) bool {
			return doc.Has(entities.FieldBathType)
		},
	},
}

// InferV1EntryType returns the entry type a v1 document describes.
func InferV1EntryType(doc entities.Document) (entities.EntryType, bool) {
	for _, rule := range v1DiscriminantRules {
		if rule.matches(doc) {
			return rule.entryType, true
		}
	}
	return "", false
}

// isLegacyDiaperType reports whether a v1 "type" value is really a diaper type.
func isLegacyDiaperType(value string) bool {
	return contains(entities.DiaperTypes, value)
}

// BackfillSessionID returns the session id assigned to a nursing feed that was
// logged before session ids existed. It is derived from the entry id so that
// repeated reads of the same document agree.
func BackfillSessionID(entryID string) string {
	if entryID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(sessionNamespace, []byte(entryID)).String()
}

// UpgradeToV2 adds the "type" discriminant, moves the legacy diaper "type"
// value to "diaperType", and backfills "sessionId" on nursing feeds.
func UpgradeToV2(doc entities.Document) entities.Document {
	if SchemaVersion(doc) >= 2 {
		return doc
	}

	out := doc.Clone()

	if entryType, ok := InferV1EntryType(out); ok {
		if entryType == entities.EntryTypeDiaper {
			legacy := out.String(entities.FieldType)
			if isLegacyDiaperType(legacy) && out.String(entities.FieldDiaperType) == "" {
				out[entities.FieldDiaperType] = legacy
			}
		}
		out[entities.FieldType] = string(entryType)
	}

	if out.String(entities.FieldType) == string(entities.EntryTypeFeed) &&
		out.String(entities.FieldKind) == string(entities.FeedKindNursing) &&
		out.String(entities.FieldSessionID) == "" {
		out[entities.FieldSessionID] = BackfillSessionID(out.ID())
	}

	out[entities.FieldSchemaVersion] = 2
	return out
}
