package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/domain/entities"
)

func newStopCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:       "stop [feed|sleep|pump]",
		Short:     "End the session in progress",
		Long:      "Ends the most recent open session, optionally only of the given type.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(entities.EntryTypeFeed), string(entities.EntryTypeSleep), string(entities.EntryTypePump)},
		RunE: func(cmd *cobra.Command, args []string) error {
			var entryType entities.EntryType
			if len(args) > 0 {
				entryType = entities.EntryType(args[0])
				if !entryType.IsTimed() {
					return fmt.Errorf("invalid type %q (valid: feed, sleep, pump)", args[0])
				}
			}
			return runStop(cmd, entryType, at)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "When it ended (20m, 14:05, 2006-01-02 15:04; default now)")

	return cmd
}

func runStop(cmd *cobra.Command, entryType entities.EntryType, at string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		ended, err := parseWhen(at, time.Now(), d.Location)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}

		entry, err := d.EntryHandler.Stop(ctx, d.Child.ID, entryType, ended)
		if err != nil {
			return err
		}

		fmt.Printf("Stopped %s\n", describeEntry(entry, d.Location))
		return nil
	})
}
