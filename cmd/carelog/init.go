package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/infrastructure/config"
	"github.com/ersonp/carelog/internal/infrastructure/docstore/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new carelog workspace",
		Long:  "Creates a .carelog directory with default configuration and sets up the SQLite entry store.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("carelog already initialized in %s", cwd)
	}

	// The database lives inside the config directory
	if err := os.MkdirAll(config.ConfigDir(cwd), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: config.Default().SQLitePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	result, err := handlers.NewInitHandler(repo).Handle(ctx, cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Created entry store: %s\n", result.DatabasePath)
	fmt.Println("carelog initialized successfully!")
	fmt.Println("Next: 'carelog children add NAME --timezone Area/City'")

	return nil
}
