// Package sqlite provides a SQLite implementation of the EntryStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.EntryStore and ports.AuditLog using SQLite.
// Documents are stored as JSON text exactly as written.
type Repository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used to report unreadable rows.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig, opts ...Option) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	r := &Repository{
		db:     db,
		path:   cfg.Path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Raw entry documents at whatever schema version they were written
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		baby_id TEXT NOT NULL,
		family_id TEXT,
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_baby ON entries(baby_id);

	-- Audit log (one row per write; also drives revisions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entry_id TEXT,
		baby_id TEXT,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_entry ON audit_log(entry_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_baby ON audit_log(baby_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveDocument inserts or replaces a document by its id.
func (r *Repository) SaveDocument(ctx context.Context, doc entities.Document) error {
	id := doc.ID()
	if id == "" {
		return errors.New("saving document: missing id")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document %s: %w", id, err)
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		previousBaby, found, err := babyOf(ctx, tx, id)
		if err != nil {
			return err
		}

		babyID := doc.String(entities.FieldBabyID)
		query := `
			INSERT INTO entries (id, baby_id, family_id, data, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				baby_id = excluded.baby_id,
				family_id = excluded.family_id,
				data = excluded.data,
				updated_at = excluded.updated_at
		`
		if _, err := tx.ExecContext(ctx, query,
			id,
			babyID,
			nullString(doc.String(entities.FieldFamilyID)),
			string(data),
			timeNow().UTC(),
		); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}

		if err := logAction(ctx, tx, entities.AuditSave, id, babyID, nil); err != nil {
			return err
		}
		// Moving a document to another child changes both children's data
		if found && previousBaby != babyID {
			return logAction(ctx, tx, entities.AuditSave, id, previousBaby, map[string]any{"movedTo": babyID})
		}
		return nil
	})
}

// GetDocument returns a document by id, or nil if not found.
func (r *Repository) GetDocument(ctx context.Context, id string) (entities.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM entries WHERE id = ?`, id)

	var data string
	err := row.Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return decodeDocument(id, data)
}

// ListDocuments returns every document owned by a child, ordered by id.
// Rows whose data is not a JSON object are logged and skipped.
func (r *Repository) ListDocuments(ctx context.Context, babyID string) ([]entities.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM entries WHERE baby_id = ? ORDER BY id`, babyID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var result []entities.Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc, err := decodeDocument(id, data)
		if err != nil {
			r.logger.Warn("skipping undecodable document", "id", id, "error", err)
			continue
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

// DeleteDocument removes a document by id. Deleting a missing id is a no-op.
func (r *Repository) DeleteDocument(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		babyID, found, err := babyOf(ctx, tx, id)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
			return fmt.Errorf("deleting document: %w", err)
		}
		return logAction(ctx, tx, entities.AuditDelete, id, babyID, nil)
	})
}

// ExistsByIDs returns the subset of ids that are already stored.
func (r *Repository) ExistsByIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	// Build placeholders for IN clause
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT id FROM entries WHERE id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		result[id] = true
	}
	return result, rows.Err()
}

// Revision returns the id of the child's latest audit row, or 0 before any write.
func (r *Repository) Revision(ctx context.Context, babyID string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) FROM audit_log WHERE baby_id = ?`, babyID).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("reading revision: %w", err)
	}
	return rev, nil
}

// FindAuditLog finds audit log entries for a specific entry.
func (r *Repository) FindAuditLog(ctx context.Context, entryID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, entry_id, baby_id, details, created_at
		FROM audit_log
		WHERE entry_id = ?
		ORDER BY id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var id, baby, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&id,
			&baby,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.EntryID = id.String
		entry.BabyID = baby.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// withTx runs fn in a transaction, committing when it returns nil.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// babyOf returns the stored owner of id and whether id is stored.
func babyOf(ctx context.Context, tx *sql.Tx, id string) (string, bool, error) {
	var babyID string
	err := tx.QueryRowContext(ctx, `SELECT baby_id FROM entries WHERE id = ?`, id).Scan(&babyID)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up document: %w", err)
	}
	return babyID, true, nil
}

// logAction logs a write to the audit log.
func logAction(ctx context.Context, tx *sql.Tx, action, entryID, babyID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO audit_log (action, entry_id, baby_id, details, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query, action, nullString(entryID), nullString(babyID), detailsJSON, timeNow().UTC())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func decodeDocument(id, data string) (entities.Document, error) {
	var doc entities.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decoding document %s: not a JSON object", id)
	}
	return doc, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
