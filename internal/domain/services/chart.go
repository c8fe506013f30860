package services

import (
	"fmt"
	"math"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// DayLabelLayout is the short human-readable label of a day key.
const DayLabelLayout = "Jan 2"

// BuildChartSeries projects a report into parallel arrays ordered oldest to
// newest, aligned with report.Days.
func BuildChartSeries(report *entities.StatsReport) *entities.ChartSeries {
	n := len(report.Daily)
	series := &entities.ChartSeries{
		Dates:          make([]string, n),
		Labels:         make([]string, n),
		BottleOz:       make([]float64, n),
		NursingMinutes: make([]float64, n),
		SleepMinutes:   make([]float64, n),
		PumpedOz:       make([]float64, n),
		Pee:            make([]int, n),
		Poop:           make([]int, n),
		Both:           make([]int, n),
	}
	for i, day := range report.Daily {
		series.Dates[i] = day.Date
		series.Labels[i] = DayLabel(day.Date)
		series.BottleOz[i] = day.BottleOz
		series.NursingMinutes[i] = day.NursingMinutes
		series.SleepMinutes[i] = day.SleepMinutes
		series.PumpedOz[i] = day.PumpedOz
		series.Pee[i] = day.Diapers.Pee
		series.Poop[i] = day.Diapers.Poop
		series.Both[i] = day.Diapers.Both
	}
	return series
}

// DayLabel turns "2025-10-26" into "Oct 26". Keys that do not parse are
// returned unchanged.
func DayLabel(key string) string {
	t, err := time.Parse(entities.DayKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format(DayLabelLayout)
}

// FormatMinutes renders a minute count as "1h 30m", rounding to the nearest
// minute.
func FormatMinutes(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0 {
		minutes = 0
	}
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
