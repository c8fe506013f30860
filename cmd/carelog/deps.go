package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
	"github.com/ersonp/carelog/internal/infrastructure/config"
	"github.com/ersonp/carelog/internal/infrastructure/docstore/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	Child         entities.Child
	Location      *time.Location
	EntryHandler  *handlers.EntryHandler
	StatsHandler  *handlers.StatsHandler
	ImportHandler *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	repo   *sqlite.Repository
	logger *slog.Logger
}

// newLogger returns a text logger on stderr. Without --verbose only warnings
// and errors are written.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need direct repository or service access.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	children, err := config.LoadChildren(cwd)
	if err != nil {
		return fmt.Errorf("loading children: %w", err)
	}

	child, err := children.Get(globalChild)
	if err != nil {
		return err
	}

	fallback, err := cfg.Location()
	if err != nil {
		return err
	}
	loc, err := child.Location(fallback)
	if err != nil {
		return err
	}

	logger := newLogger(globalVerbose, os.Stderr)

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)}, sqlite.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	// Ensure schema exists
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	migrator := services.NewDefaultMigrator(logger)
	validator := services.NewValidator(time.Now).WithLocation(loc)
	entryService := services.NewEntryService(repo, migrator, validator, logger)
	statsService := services.NewStatsService(time.Now)
	importService := services.NewImportService(repo, entryService)

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Child:         child,
			Location:      loc,
			EntryHandler:  handlers.NewEntryHandler(entryService, repo),
			StatsHandler:  handlers.NewStatsHandler(repo, entryService, statsService),
			ImportHandler: handlers.NewImportHandler(importService),
		},
		repo:   repo,
		logger: logger,
	}

	logger.Debug("loaded dependencies",
		"child", child.Name,
		"database", repo.Path(),
		"timezone", loc.String(),
	)

	return fn(deps)
}

// createdBy returns the configured caregiver id.
func (d *Deps) createdBy() (string, error) {
	if d.Config.User.ID == "" {
		return "", fmt.Errorf("user id is required (set user.id in %s or CARELOG_USER)", config.DefaultConfigFile)
	}
	return d.Config.User.ID, nil
}
