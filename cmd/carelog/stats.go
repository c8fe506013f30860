package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
	"github.com/ersonp/carelog/internal/ui"
)

type statsFlags struct {
	window string
	format string
	output string
}

func newStatsCmd() *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show feeding, sleep, pumping and diaper stats",
		Long:  "Aggregates the child's entries into per-day stats over the last 7, 30 or 90 days.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.window, "window", "w", "", "Days to cover: 7, 30 or 90 (default: stats.window)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format (text, json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// resolveWindow returns the --window value, or the configured default.
func resolveWindow(flag string, d *Deps) (entities.Window, error) {
	if flag != "" {
		return entities.ParseWindowString(flag)
	}
	return d.Config.StatsWindow()
}

func runStats(cmd *cobra.Command, flags statsFlags) error {
	if !contains(statsFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, statsFormats)
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		window, err := resolveWindow(flags.window, d)
		if err != nil {
			return err
		}

		result, err := d.StatsHandler.Handle(ctx, d.Child.ID, handlers.StatsOptions{
			Window:   window,
			Location: d.Location,
		})
		if err != nil {
			return err
		}

		return writeOutput(flags.output, result.Accepted, func(w io.Writer) error {
			return formatStats(w, flags.format, d.Child.Name, result)
		})
	})
}

func formatStats(w io.Writer, format, child string, result *handlers.StatsResult) error {
	switch format {
	case "text":
		return formatStatsText(w, child, result)
	case "json":
		return formatStatsJSON(w, result)
	case "csv":
		return formatStatsCSV(w, result.Report)
	case "markdown":
		return formatStatsMarkdown(w, child, result.Report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// statsJSON is the machine-readable stats document.
type statsJSON struct {
	Report     *entities.StatsReport `json:"report"`
	Chart      *entities.ChartSeries `json:"chart"`
	Accepted   int                   `json:"accepted"`
	Rejections []rejectionJSON       `json:"rejections"`
}

type rejectionJSON struct {
	ID     string `json:"id,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func formatStatsJSON(w io.Writer, result *handlers.StatsResult) error {
	out := statsJSON{
		Report:     result.Report,
		Chart:      result.Chart,
		Accepted:   result.Accepted,
		Rejections: make([]rejectionJSON, 0, len(result.Rejections)),
	}
	for _, r := range result.Rejections {
		out.Rejections = append(out.Rejections, rejectionJSON{ID: r.ID, Field: r.Field, Reason: r.Reason})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

var dailyCSVHeader = []string{
	"date", "feeds", "bottle_oz", "nursing_minutes", "left_minutes", "right_minutes",
	"sleep_minutes", "longest_sleep_minutes", "pumped_oz", "pee", "poop", "both", "baths",
}

func formatStatsCSV(w io.Writer, report *entities.StatsReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(dailyCSVHeader); err != nil {
		return err
	}

	for _, day := range report.Daily {
		row := []string{
			day.Date,
			strconv.Itoa(day.Feeds),
			formatFloat(day.BottleOz),
			formatFloat(day.NursingMinutes),
			formatFloat(day.LeftSideMinutes),
			formatFloat(day.RightSideMinutes),
			formatFloat(day.SleepMinutes),
			formatFloat(day.LongestSleepMinutes),
			formatFloat(day.PumpedOz),
			strconv.Itoa(day.Diapers.Pee),
			strconv.Itoa(day.Diapers.Poop),
			strconv.Itoa(day.Diapers.Both),
			strconv.Itoa(day.Baths),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatStatsMarkdown(w io.Writer, child string, report *entities.StatsReport) error {
	if _, err := fmt.Fprintf(w, "# Stats for %s\n\nLast %d days (%s)\n\n", child, report.Window.Days(), report.Timezone); err != nil {
		return err
	}

	summary := []struct{ label, value string }{
		{"Feeds", fmt.Sprintf("%d (%.1f per day)", report.Feeding.TotalFeeds, report.Feeding.AvgFeedsPerDay)},
		{"Bottle", fmt.Sprintf("%.1f oz", report.Feeding.TotalBottleOz)},
		{"Nursing", fmt.Sprintf("%s (left %s, right %s)",
			services.FormatMinutes(report.Feeding.TotalNursingMinutes),
			services.FormatMinutes(report.Feeding.NursingBreakdown.LeftMinutes),
			services.FormatMinutes(report.Feeding.NursingBreakdown.RightMinutes))},
		{"Sleep", fmt.Sprintf("%s (%s per day, longest %s)",
			services.FormatMinutes(report.Sleep.TotalSleepMinutes),
			services.FormatMinutes(report.Sleep.AvgSleepPerDayMinutes),
			services.FormatMinutes(report.Sleep.LongestSleepMinutes))},
		{"Pumped", fmt.Sprintf("%.1f oz (%.1f oz per day)", report.Pump.TotalPumpedOz, report.Pump.AvgPumpedPerDayOz)},
		{"Diapers", fmt.Sprintf("%d (%.1f per day)", report.Diaper.TotalChanges, report.Diaper.AvgChangesPerDay)},
	}
	for _, s := range summary {
		if _, err := fmt.Fprintf(w, "- **%s:** %s\n", s.label, s.value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, "\n| Day | Feeds | Bottle | Nursing | Sleep | Pumped | Pee | Poop | Both |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|-----|-------|--------|---------|-------|--------|-----|------|------|\n"); err != nil {
		return err
	}

	for _, day := range report.Daily {
		if _, err := fmt.Fprintf(w, "| %s | %d | %.1f oz | %s | %s | %.1f oz | %d | %d | %d |\n",
			services.DayLabel(day.Date),
			day.Feeds,
			day.BottleOz,
			services.FormatMinutes(day.NursingMinutes),
			services.FormatMinutes(day.SleepMinutes),
			day.PumpedOz,
			day.Diapers.Pee,
			day.Diapers.Poop,
			day.Diapers.Both,
		); err != nil {
			return err
		}
	}

	return nil
}

func formatStatsText(w io.Writer, child string, result *handlers.StatsResult) error {
	report := result.Report
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("Stats for "+child) + " " +
		ui.StatusStyle.Render(fmt.Sprintf("last %d days · %s", report.Window.Days(), report.Timezone)) + "\n\n")

	row := func(label, value string) {
		b.WriteString(ui.LabelStyle.Render(fmt.Sprintf("  %-16s", label)) + ui.ValueStyle.Render(value) + "\n")
	}

	b.WriteString(ui.PanelTitleStyle.Render("Feeding") + "\n")
	row("feeds", fmt.Sprintf("%d (%.1f/day)", report.Feeding.TotalFeeds, report.Feeding.AvgFeedsPerDay))
	row("bottle", fmt.Sprintf("%.1f oz", report.Feeding.TotalBottleOz))
	row("nursing", services.FormatMinutes(report.Feeding.TotalNursingMinutes))
	row("  left / right", services.FormatMinutes(report.Feeding.NursingBreakdown.LeftMinutes)+" / "+
		services.FormatMinutes(report.Feeding.NursingBreakdown.RightMinutes))

	b.WriteString(ui.PanelTitleStyle.Render("Sleep") + "\n")
	row("total", services.FormatMinutes(report.Sleep.TotalSleepMinutes))
	row("per day", services.FormatMinutes(report.Sleep.AvgSleepPerDayMinutes))
	row("longest", services.FormatMinutes(report.Sleep.LongestSleepMinutes))

	b.WriteString(ui.PanelTitleStyle.Render("Pumping") + "\n")
	row("total", fmt.Sprintf("%.1f oz", report.Pump.TotalPumpedOz))
	row("per day", fmt.Sprintf("%.1f oz", report.Pump.AvgPumpedPerDayOz))

	b.WriteString(ui.PanelTitleStyle.Render("Diapers") + "\n")
	row("changes", fmt.Sprintf("%d (%.1f/day)", report.Diaper.TotalChanges, report.Diaper.AvgChangesPerDay))

	b.WriteString("\n" + renderDailyTable(report) + "\n")

	if len(result.Rejections) > 0 {
		b.WriteString("\n" + ui.WarningStyle.Render(fmt.Sprintf("%d invalid entries skipped", len(result.Rejections))) + "\n")
		for _, r := range result.Rejections {
			b.WriteString(ui.DimStyle.Render("  "+r.Error()) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderDailyTable lays out one row per day with lipgloss column widths.
func renderDailyTable(report *entities.StatsReport) string {
	widths := []int{8, 6, 9, 9, 9, 9, 12}
	header := []string{"Day", "Feeds", "Bottle", "Nursing", "Sleep", "Pumped", "Diapers"}

	cell := func(i int, s string, style lipgloss.Style) string {
		return style.Width(widths[i]).Render(s)
	}

	var lines []string
	var head []string
	for i, h := range header {
		head = append(head, cell(i, h, ui.HeaderStyle))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, head...))

	for _, day := range report.Daily {
		cols := []string{
			services.DayLabel(day.Date),
			strconv.Itoa(day.Feeds),
			fmt.Sprintf("%.1f oz", day.BottleOz),
			services.FormatMinutes(day.NursingMinutes),
			services.FormatMinutes(day.SleepMinutes),
			fmt.Sprintf("%.1f oz", day.PumpedOz),
			fmt.Sprintf("%d/%d/%d", day.Diapers.Pee, day.Diapers.Poop, day.Diapers.Both),
		}
		var rendered []string
		for i, c := range cols {
			rendered = append(rendered, cell(i, c, lipgloss.NewStyle()))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	return strings.Join(lines, "\n")
}
