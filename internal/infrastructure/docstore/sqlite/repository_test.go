package sqlite

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func sleepDocument(id, babyID string) entities.Document {
	return entities.Document{
		"id":            id,
		"babyId":        babyID,
		"familyId":      "family-1",
		"createdBy":     "user-1",
		"schemaVersion": 2,
		"type":          "sleep",
		"category":      "nap",
		"startedAt":     "2025-10-26T12:00:00Z",
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	for _, table := range []string{"entries", "audit_log"} {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Documents(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("save and get keeps the raw shape", func(t *testing.T) {
		legacy := entities.Document{
			"id":        "legacy-1",
			"babyId":    "baby-1",
			"kind":      "nursing",
			"side":      "left",
			"startedAt": map[string]any{"_seconds": 1761469200.0, "_nanoseconds": 0.0},
		}
		require.NoError(t, repo.SaveDocument(ctx, legacy))

		got, err := repo.GetDocument(ctx, "legacy-1")
		require.NoError(t, err)
		assert.Equal(t, "nursing", got["kind"])
		assert.False(t, got.Has("schemaVersion"))
		assert.Equal(t, map[string]any{"_seconds": 1761469200.0, "_nanoseconds": 0.0}, got["startedAt"])
	})

	t.Run("numbers come back as float64", func(t *testing.T) {
		require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))

		got, err := repo.GetDocument(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, 2.0, got["schemaVersion"])
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		got, err := repo.GetDocument(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save replaces by id", func(t *testing.T) {
		doc := sleepDocument("s-2", "baby-1")
		require.NoError(t, repo.SaveDocument(ctx, doc))
		doc["endedAt"] = "2025-10-26T13:00:00Z"
		require.NoError(t, repo.SaveDocument(ctx, doc))

		got, err := repo.GetDocument(ctx, "s-2")
		require.NoError(t, err)
		assert.Equal(t, "2025-10-26T13:00:00Z", got["endedAt"])
	})

	t.Run("save without id fails", func(t *testing.T) {
		err := repo.SaveDocument(ctx, entities.Document{"babyId": "baby-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing id")
	})
}

func TestRepository_ListDocuments(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("b", "baby-1")))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("a", "baby-1")))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("c", "baby-2")))

	docs, err := repo.ListDocuments(ctx, "baby-1")
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID())
	assert.Equal(t, "b", docs[1].ID())

	empty, err := repo.ListDocuments(ctx, "baby-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_ListDocuments_SkipsUndecodableRows(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"}, WithLogger(logger))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))

	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("good", "baby-1")))
	bad := map[string]string{
		"bad-json":  "{not json",
		"bad-null":  "null",
		"bad-array": "[1]",
	}
	for id, data := range bad {
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO entries (id, baby_id, data, updated_at) VALUES (?, ?, ?, ?)`,
			id, "baby-1", data, time.Now())
		require.NoError(t, err)
	}

	docs, err := repo.ListDocuments(ctx, "baby-1")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].ID())
	assert.Equal(t, len(bad), bytes.Count(logs.Bytes(), []byte("skipping undecodable document")))
	for id := range bad {
		assert.Contains(t, logs.String(), "id="+id)
	}

	_, err = repo.GetDocument(ctx, "bad-null")
	assert.ErrorContains(t, err, "not a JSON object")
}

func TestRepository_DeleteDocument(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))

	require.NoError(t, repo.DeleteDocument(ctx, "s-1"))

	got, err := repo.GetDocument(ctx, "s-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op
	require.NoError(t, repo.DeleteDocument(ctx, "s-1"))
}

func TestRepository_ExistsByIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-2", "baby-2")))

	existing, err := repo.ExistsByIDs(ctx, []string{"s-1", "s-2", "s-3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"s-1": true, "s-2": true}, existing)

	none, err := repo.ExistsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_Revision(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	rev0, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)
	assert.Zero(t, rev0)

	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	rev1, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)
	assert.Greater(t, rev1, rev0)

	// Writes for another child leave the revision alone
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-2", "baby-2")))
	same, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)
	assert.Equal(t, rev1, same)

	require.NoError(t, repo.DeleteDocument(ctx, "s-1"))
	rev2, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)
	assert.Greater(t, rev2, rev1)
}

func TestRepository_Revision_MovedDocument(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	before, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)

	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-2")))

	after, err := repo.Revision(ctx, "baby-1")
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestRepository_AuditLog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	require.NoError(t, repo.DeleteDocument(ctx, "s-1"))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-2", "baby-1")))

	entries, err := repo.FindAuditLog(ctx, "s-1")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, entities.AuditDelete, entries[0].Action)
	assert.Equal(t, entities.AuditSave, entries[1].Action)
	assert.Equal(t, "baby-1", entries[0].BabyID)
	assert.Equal(t, "s-1", entries[2].EntryID)
	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID }))
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestRepository_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carelog.db")
	ctx := context.Background()

	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.SaveDocument(ctx, sleepDocument("s-1", "baby-1")))
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	got, err := reopened.GetDocument(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "nap", got["category"])
}
