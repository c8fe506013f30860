// Package dashboard renders a live stats dashboard with bubbletea.
package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
	"github.com/ersonp/carelog/internal/ui"
)

// Metric is one chartable daily series.
type Metric struct {
	Key    string
	Title  string
	Values func(c *entities.ChartSeries) []float64
	Format func(v float64) string
}

func formatOz(v float64) string {
	return fmt.Sprintf("%.1f oz", v)
}

func formatCount(v float64) string {
	return fmt.Sprintf("%d", int(math.Round(v)))
}

// Metrics lists the chartable series in display order.
var Metrics = []Metric{
	{Key: "bottle", Title: "Bottle", Values: func(c *entities.ChartSeries) []float64 { return c.BottleOz }, Format: formatOz},
	{Key: "nursing", Title: "Nursing", Values: func(c *entities.ChartSeries) []float64 { return c.NursingMinutes }, Format: services.FormatMinutes},
	{Key: "sleep", Title: "Sleep", Values: func(c *entities.ChartSeries) []float64 { return c.SleepMinutes }, Format: services.FormatMinutes},
	{Key: "pump", Title: "Pumped", Values: func(c *entities.ChartSeries) []float64 { return c.PumpedOz }, Format: formatOz},
	{Key: "diapers", Title: "Diapers", Values: diaperTotals, Format: formatCount},
}

func diaperTotals(c *entities.ChartSeries) []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = float64(c.Pee[i] + c.Poop[i] + c.Both[i])
	}
	return out
}

// fixedLines is the number of rows the header, summary and footer occupy.
const fixedLines = 13

// Model is the root bubbletea model for the stats dashboard.
type Model struct {
	child  string
	window entities.Window

	// Latest visible result
	seq       uint64
	accepted  int
	rejected  int
	report    *entities.StatsReport
	chart     *entities.ChartSeries
	updatedAt time.Time

	// UI state
	metric int
	width  int
	height int

	// Errors
	errorMessage string

	now func() time.Time
}

// New creates a dashboard for one child.
func New(child string, window entities.Window) Model {
	return Model{
		child:  child,
		window: window,
		now:    time.Now,
	}
}

// Init has nothing to start; results arrive through Program.Send.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StatsMsg:
		// Results can be sent out of order; only newer ones replace the view
		if msg.Seq != 0 && msg.Seq <= m.seq {
			return m, nil
		}
		m.seq = msg.Seq
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			return m, nil
		}
		m.accepted = msg.Accepted
		m.rejected = msg.Rejected
		m.report = msg.Report
		m.chart = msg.Chart
		m.updatedAt = m.now()
		m.errorMessage = ""
		return m, nil

	case WatchErrorMsg:
		m.errorMessage = msg.Err.Error()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC, KeyEsc:
		return m, tea.Quit
	case KeyTab, KeyRight, KeyL:
		m.metric = (m.metric + 1) % len(Metrics)
	case KeyShiftTab, KeyLeft, KeyH:
		m.metric = (m.metric + len(Metrics) - 1) % len(Metrics)
	}
	return m, nil
}

// SelectedMetric returns the metric currently charted.
func (m Model) SelectedMetric() Metric {
	return Metrics[m.metric]
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.report == nil {
		sections = append(sections, ui.StatusStyle.Render("Waiting for entries..."))
	} else {
		sections = append(sections, m.renderSummary())
		sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
		sections = append(sections, m.renderChart())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorStyle.Render("Error: ")+m.errorMessage)
	}

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("carelog") + " " + ui.HeaderStyle.Render(m.child)
	info := ui.StatusStyle.Render(fmt.Sprintf("last %d days", m.window.Days()))
	if m.report != nil && m.report.Timezone != "" {
		info += ui.StatusStyle.Render(" · " + m.report.Timezone)
	}

	status := ui.LiveBadgeStyle.Render("● LIVE")
	if !m.updatedAt.IsZero() {
		status += ui.StatusStyle.Render(" updated " + m.updatedAt.Format("15:04:05"))
	}
	if m.rejected > 0 {
		status += "  " + ui.WarningStyle.Render(fmt.Sprintf("%d skipped", m.rejected))
	}

	left := title + "  " + info
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		return left + "\n" + status
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m Model) renderSummary() string {
	r := m.report
	lines := []string{
		ui.PanelTitleStyle.Render("Feeding") + "  " +
			stat("feeds", formatCount(float64(r.Feeding.TotalFeeds))) +
			stat("per day", fmt.Sprintf("%.1f", r.Feeding.AvgFeedsPerDay)) +
			stat("bottle", formatOz(r.Feeding.TotalBottleOz)) +
			stat("nursing", services.FormatMinutes(r.Feeding.TotalNursingMinutes)),
		strings.Repeat(" ", 9) +
			stat("left", services.FormatMinutes(r.Feeding.NursingBreakdown.LeftMinutes)) +
			stat("right", services.FormatMinutes(r.Feeding.NursingBreakdown.RightMinutes)),
		ui.PanelTitleStyle.Render("Sleep  ") + "  " +
			stat("total", services.FormatMinutes(r.Sleep.TotalSleepMinutes)) +
			stat("per day", services.FormatMinutes(r.Sleep.AvgSleepPerDayMinutes)) +
			stat("longest", services.FormatMinutes(r.Sleep.LongestSleepMinutes)),
		ui.PanelTitleStyle.Render("Pump   ") + "  " +
			stat("total", formatOz(r.Pump.TotalPumpedOz)) +
			stat("per day", formatOz(r.Pump.AvgPumpedPerDayOz)),
		ui.PanelTitleStyle.Render("Diapers") + "  " +
			stat("total", formatCount(float64(r.Diaper.TotalChanges))) +
			stat("per day", fmt.Sprintf("%.1f", r.Diaper.AvgChangesPerDay)),
	}
	return strings.Join(lines, "\n")
}

func stat(label, value string) string {
	return ui.LabelStyle.Render(label+" ") + ui.ValueStyle.Render(value) + "   "
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, metric := range Metrics {
		if i == m.metric {
			tabs = append(tabs, ui.SelectedStyle.Render("["+metric.Title+"]"))
		} else {
			tabs = append(tabs, ui.DimStyle.Render(" "+metric.Title+" "))
		}
	}
	return strings.Join(tabs, " ")
}

// visibleDays returns how many of the most recent days fit on screen.
func (m Model) visibleDays(total int) int {
	if m.height == 0 {
		return total
	}
	rows := m.height - fixedLines
	if rows < 1 {
		rows = 1
	}
	return min(rows, total)
}

func (m Model) renderChart() string {
	lines := []string{m.renderTabs()}
	if m.chart == nil || m.chart.Len() == 0 {
		return strings.Join(lines, "\n")
	}

	metric := m.SelectedMetric()
	values := metric.Values(m.chart)
	start := m.chart.Len() - m.visibleDays(m.chart.Len())

	peak := 0.0
	for _, v := range values[start:] {
		peak = math.Max(peak, v)
	}

	const labelWidth, valueWidth = 7, 10
	barWidth := m.width - labelWidth - valueWidth - 2
	if barWidth < 1 {
		barWidth = 1
	}

	style := ui.BarStyle(metric.Key)
	for i := start; i < m.chart.Len(); i++ {
		n := 0
		if peak > 0 {
			n = int(math.Round(values[i] / peak * float64(barWidth)))
		}
		label := padRight(m.chart.Labels[i], labelWidth)
		value := padRight(metric.Format(values[i]), valueWidth)
		lines = append(lines, ui.LabelStyle.Render(label)+" "+value+" "+style.Render(strings.Repeat("█", n)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	parts := []string{
		ui.FooterKeyStyle.Render("Tab") + ui.FooterDescStyle.Render(" Metric"),
		ui.FooterKeyStyle.Render("←→") + ui.FooterDescStyle.Render(" Cycle"),
		ui.FooterKeyStyle.Render("q") + ui.FooterDescStyle.Render(" Quit"),
	}
	return strings.Join(parts, "  ")
}

// padRight pads s with spaces to width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
