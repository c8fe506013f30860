package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/domain/entities"
)

func TestBuildChartSeries(t *testing.T) {
	svc := NewStatsService(fixedNow)
	entries := []entities.Entry{
		nursing("n1", entities.SideLeft, at("2025-10-26", "10:00"), 15),
		bottle("b1", at("2025-10-27", "12:00"), ptr(4.0)),
		diaper("d1", entities.DiaperPoop, at("2025-10-21", "08:00")),
	}
	report, err := svc.Aggregate(entries, entities.Window7, time.UTC)
	require.NoError(t, err)

	series := BuildChartSeries(report)

	require.Equal(t, 7, series.Len())
	assert.Equal(t, report.Days, series.Dates)
	assert.Equal(t, "Oct 21", series.Labels[0])
	assert.Equal(t, "Oct 27", series.Labels[6])
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 15, 0}, series.NursingMinutes)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 4}, series.BottleOz)
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0}, series.Poop)
	assert.Len(t, series.SleepMinutes, 7)
	assert.Len(t, series.PumpedOz, 7)
	assert.Len(t, series.Pee, 7)
	assert.Len(t, series.Both, 7)
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "Jan 2", DayLabel("2025-01-02"))
	assert.Equal(t, "not-a-day", DayLabel("not-a-day"))
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{90, "1h 30m"},
		{89.6, "1h 30m"},
		{600, "10h 0m"},
		{-5, "0h 0m"},
		{math.NaN(), "0h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMinutes(tt.minutes))
		})
	}
}
