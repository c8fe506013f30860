package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// ErrMigrationGap is returned when a document cannot be upgraded to the current
// schema version because an upgrade step is missing or did not advance it.
var ErrMigrationGap = errors.New("no migration path")

// UpgradeFunc upgrades a document from version N-1 to version N. It must not
// modify its input and must return its input unchanged when the document is
// already at version N or above.
type UpgradeFunc func(doc entities.Document) entities.Document

// Migrator upgrades raw documents one schema version at a time.
// The upgrade table is fixed at construction.
type Migrator struct {
	current int
	steps   map[int]UpgradeFunc
	logger  *slog.Logger
}

// DefaultMigrations returns the upgrade table for the current schema, keyed by
// the version each function upgrades to.
func DefaultMigrations() map[int]UpgradeFunc {
	return map[int]UpgradeFunc{
		2: UpgradeToV2,
	}
}

// NewMigrator creates a Migrator targeting version current.
func NewMigrator(current int, steps map[int]UpgradeFunc, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	table := make(map[int]UpgradeFunc, len(steps))
	for v, fn := range steps {
		table[v] = fn
	}
	return &Migrator{
		current: current,
		steps:   table,
		logger:  logger,
	}
}

// NewDefaultMigrator creates a Migrator with DefaultMigrations targeting
// entities.CurrentSchemaVersion.
func NewDefaultMigrator(logger *slog.Logger) *Migrator {
	return NewMigrator(entities.CurrentSchemaVersion, DefaultMigrations(), logger)
}

// Current returns the version documents are upgraded to.
func (m *Migrator) Current() int {
	return m.current
}

// Migrate returns a copy of doc upgraded to the current version. When a step is
// missing it returns the document at the highest version reached together with
// an error wrapping ErrMigrationGap; the document is still usable and is
// expected to be rejected by validation.
func (m *Migrator) Migrate(doc entities.Document) (entities.Document, error) {
	out := doc.Clone()
	version := SchemaVersion(out)

	for version < m.current {
		next := version + 1
		upgrade, ok := m.steps[next]
		if !ok {
			m.logger.Warn("migration step missing",
				"id", doc.ID(), "from", version, "to", next)
			return out, fmt.Errorf("%w: document %s stuck at v%d, no upgrade to v%d",
				ErrMigrationGap, doc.ID(), version, next)
		}

		out = upgrade(out)
		reached := SchemaVersion(out)
		if reached < next {
			m.logger.Warn("migration step did not advance version",
				"id", doc.ID(), "from", version, "to", next)
			return out, fmt.Errorf("%w: upgrade to v%d left document %s at v%d",
				ErrMigrationGap, next, doc.ID(), reached)
		}
		m.logger.Debug("migrated document", "id", doc.ID(), "from", version, "to", reached)
		version = reached
	}

	return out, nil
}

// SchemaVersion returns the declared schema version of doc. Documents without
// a usable positive integer version are version 1.
func SchemaVersion(doc entities.Document) int {
	version := 0
	switch v := doc[entities.FieldSchemaVersion].(type) {
	case int:
		version = v
	case int32:
		version = int(v)
	case int64:
		version = int(v)
	case float64:
		if v == math.Trunc(v) && v >= 1 && v <= math.MaxInt32 {
			version = int(v)
		}
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			version = n
		}
	}
	if version < 1 {
		return 1
	}
	return version
}
