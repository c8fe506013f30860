package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type deleteFlags struct {
	all   bool
	force bool
}

func newDeleteCmd() *cobra.Command {
	var flags deleteFlags

	cmd := &cobra.Command{
		Use:   "delete [entry-id...]",
		Short: "Delete entries",
		Long:  "Deletes entries by id, or every entry of the child with --all.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Delete all entries of the child")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string, flags deleteFlags) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		switch {
		case flags.all:
			return deleteAll(ctx, d, flags.force)
		case len(args) > 0:
			return deleteByIDs(ctx, d, args, flags.force)
		default:
			return fmt.Errorf("specify an entry id or --all")
		}
	})
}

func deleteAll(ctx context.Context, d *internalDeps, force bool) error {
	docs, err := d.repo.ListDocuments(ctx, d.Child.ID)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	if len(docs) == 0 {
		fmt.Printf("No entries found for %s\n", d.Child.Name)
		return nil
	}
	if len(docs) > MaxDeleteBatchSize {
		d.logger.Warn("delete batch truncated", "total", len(docs), "limit", MaxDeleteBatchSize)
		docs = docs[:MaxDeleteBatchSize]
	}

	if !force && !confirmAction(fmt.Sprintf("Delete %d entries of %s?", len(docs), d.Child.Name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID()
	}
	return deleteIDs(ctx, d, ids)
}

func deleteByIDs(ctx context.Context, d *internalDeps, ids []string, force bool) error {
	if !force && len(ids) > 1 && !confirmAction(fmt.Sprintf("Delete %d entries?", len(ids))) {
		fmt.Println("Cancelled.")
		return nil
	}
	return deleteIDs(ctx, d, ids)
}

func deleteIDs(ctx context.Context, d *internalDeps, ids []string) error {
	deleted, err := d.EntryHandler.Delete(ctx, ids)
	if deleted > 0 {
		fmt.Printf("Deleted %d entries\n", deleted)
	}
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

func confirmAction(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
