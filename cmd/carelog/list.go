package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/entities"
)

func newListCmd() *cobra.Command {
	var (
		limit     int
		entryType string
		since     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Long:  "Lists the child's entries, most recent first, with optional filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, limit, entryType, since)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of entries to display (0 for all)")
	cmd.Flags().StringVarP(&entryType, "type", "t", "", "Filter by entry type (feed, sleep, pump, diaper, bath)")
	cmd.Flags().StringVarP(&since, "since", "s", "", "Only entries started after this time (24h, 2006-01-02 15:04)")

	return cmd
}

func runList(cmd *cobra.Command, limit int, entryType, since string) error {
	if entryType != "" && !entities.EntryType(entryType).IsValid() {
		return fmt.Errorf("invalid type %q, valid types: %v", entryType, entities.EntryTypes)
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		sinceTime, err := parseWhen(since, time.Now(), d.Location)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}

		result, err := d.EntryHandler.List(ctx, d.Child.ID, handlers.ListOptions{
			Type:  entities.EntryType(entryType),
			Since: sinceTime,
			Limit: limit,
		})
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}

		displayRejections(result.Rejections)

		if len(result.Entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		fmt.Printf("Showing %d of %d entries:\n\n", len(result.Entries), result.Total)
		for _, entry := range result.Entries {
			displayEntry(entry, d.Location)
		}
		return nil
	})
}
