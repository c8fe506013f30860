package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
	"github.com/ersonp/carelog/internal/infrastructure/config"
	"github.com/ersonp/carelog/internal/infrastructure/docstore/sqlite"
)

var testNow = time.Date(2025, 10, 27, 18, 0, 0, 0, time.UTC)

var testChild = entities.Child{ID: "baby-1", FamilyID: "family-1", Name: "ada", Timezone: "UTC"}

// stack is the full handler stack over a file database.
type stack struct {
	repo    *sqlite.Repository
	entries *handlers.EntryHandler
	stats   *handlers.StatsHandler
	imports *handlers.ImportHandler
}

func newStack(t *testing.T) *stack {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "carelog.db")})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))

	now := func() time.Time { return testNow }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	entryService := services.NewEntryService(repo, services.NewDefaultMigrator(logger), services.NewValidator(now), logger)

	return &stack{
		repo:    repo,
		entries: handlers.NewEntryHandler(entryService, repo),
		stats:   handlers.NewStatsHandler(repo, entryService, services.NewStatsService(now)),
		imports: handlers.NewImportHandler(services.NewImportService(repo, entryService)),
	}
}

// writeFile writes content to name in a temp directory and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func statsOptions() handlers.StatsOptions {
	return handlers.StatsOptions{Window: entities.Window7, Location: time.UTC}
}
