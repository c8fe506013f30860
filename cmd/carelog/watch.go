package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/dashboard"
)

type watchFlags struct {
	window   string
	interval time.Duration
	plain    bool
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard recomputed as entries change",
		Long: "Polls the entry store and recomputes stats whenever the child's entries change. " +
			"Opens an interactive dashboard on a terminal; prints plain reports otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.window, "window", "w", "", "Days to cover: 7, 30 or 90 (default: stats.window)")
	cmd.Flags().DurationVarP(&flags.interval, "interval", "i", 0, "Poll interval (default: watch.interval)")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "Print reports instead of the interactive dashboard")

	return cmd
}

func runWatch(cmd *cobra.Command, flags watchFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		window, err := resolveWindow(flags.window, d)
		if err != nil {
			return err
		}

		interval := flags.interval
		if interval == 0 {
			interval, err = d.Config.WatchInterval()
			if err != nil {
				return err
			}
		}

		opts := handlers.StatsOptions{Window: window, Location: d.Location}

		if flags.plain || !isTerminal() {
			return watchPlain(ctx, d, opts, interval)
		}
		return watchDashboard(ctx, d, opts, interval)
	})
}

// watchPlain prints a text report on every change until interrupted.
func watchPlain(ctx context.Context, d *Deps, opts handlers.StatsOptions, interval time.Duration) error {
	return d.StatsHandler.Watch(ctx, d.Child.ID, opts, interval, func(res *handlers.StatsResult) {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", res.Err)
			return
		}
		fmt.Printf("\n--- %s (update %d) ---\n", time.Now().In(d.Location).Format("15:04:05"), res.Seq)
		if err := formatStatsText(os.Stdout, d.Child.Name, res); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	})
}

// watchDashboard runs the bubbletea dashboard fed by the watch loop.
func watchDashboard(ctx context.Context, d *Deps, opts handlers.StatsOptions, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		dashboard.New(d.Child.Name, opts.Window),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := d.StatsHandler.Watch(ctx, d.Child.ID, opts, interval, func(res *handlers.StatsResult) {
			program.Send(toDashboardMsg(res))
		})
		if err != nil {
			program.Send(dashboard.WatchErrorMsg{Err: err})
		}
	}()

	_, err := program.Run()
	cancel()
	<-done

	// Interrupts cancel the context, which kills the program
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func toDashboardMsg(res *handlers.StatsResult) dashboard.StatsMsg {
	return dashboard.StatsMsg{
		Seq:      res.Seq,
		Accepted: res.Accepted,
		Rejected: len(res.Rejections),
		Report:   res.Report,
		Chart:    res.Chart,
		Err:      res.Err,
	}
}

// isTerminal reports whether stdout is a character device.
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
