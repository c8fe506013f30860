// Package main provides the entry point for the carelog CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalChild   string
	globalVerbose bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "carelog",
		Short:         "Log feeds, sleep, pumping, diapers and baths, and see daily stats",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalChild, "child", "c", "", "Child to operate on (optional with a single child)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newInitCmd(),
		newChildrenCmd(),
		newLogCmd(),
		newStopCmd(),
		newListCmd(),
		newDeleteCmd(),
		newHistoryCmd(),
		newImportCmd(),
		newExportCmd(),
		newStatsCmd(),
		newWatchCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
