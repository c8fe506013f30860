package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/services"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from JSON or CSV",
		Long: "Imports entry documents from a structured file. Documents of any schema version are accepted; " +
			"each one is checked and stored as written. Invalid documents are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling (skip, overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	// Validate on-conflict flag
	onConflict := services.ConflictStrategy(flags.onConflict)
	if !onConflict.IsValid() {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		createdBy, err := d.createdBy()
		if err != nil {
			return err
		}

		opts := handlers.ImportOptions{
			Format:     flags.format,
			DryRun:     flags.dryRun,
			OnConflict: onConflict,
			Child:      d.Child,
			CreatedBy:  createdBy,
		}

		fmt.Printf("Importing %s...\n", filePath)

		result, err := d.ImportHandler.Handle(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		// Display rejections
		if len(result.Rejections) > 0 {
			fmt.Printf("\nRejected documents (%d):\n", len(result.Rejections))
			for _, r := range result.Rejections {
				fmt.Printf("  %s\n", r.Error())
			}
		}

		// Display summary
		fmt.Println()
		if flags.dryRun {
			fmt.Printf("Dry run: %d entries would be imported", result.Imported)
		} else {
			fmt.Printf("Imported: %d entries", result.Imported)
		}

		if result.Skipped > 0 {
			fmt.Printf(", %d skipped (already exist)", result.Skipped)
		}

		if len(result.Rejections) > 0 {
			fmt.Printf(", %d rejected", len(result.Rejections))
		}

		fmt.Println()

		return nil
	})
}
