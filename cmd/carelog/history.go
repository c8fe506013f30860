package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <entry-id>",
		Short: "Show the write history of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultHistoryLimit, "Maximum number of rows to display")

	return cmd
}

func runHistory(cmd *cobra.Command, id string, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		history, err := d.EntryHandler.History(ctx, id)
		if err != nil {
			return err
		}

		if len(history) == 0 {
			fmt.Printf("No history for %s\n", id)
			return nil
		}
		if limit > 0 && len(history) > limit {
			history = history[:limit]
		}

		fmt.Printf("%-20s %-8s %s\n", "WHEN", "ACTION", "DETAILS")
		for _, h := range history {
			var details []string
			for k, v := range h.Details {
				details = append(details, fmt.Sprintf("%s=%v", k, v))
			}
			sort.Strings(details)
			fmt.Printf("%-20s %-8s %s\n",
				h.CreatedAt.In(d.Location).Format("2006-01-02 15:04:05"),
				h.Action,
				strings.Join(details, " "),
			)
		}
		return nil
	})
}
