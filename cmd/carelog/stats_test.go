package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/carelog/internal/application/handlers"
	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
)

func sampleStatsResult(t *testing.T) *handlers.StatsResult {
	t.Helper()
	stats := services.NewStatsService(func() time.Time {
		return time.Date(2025, 10, 27, 18, 0, 0, 0, time.UTC)
	})

	feedStart := time.Date(2025, 10, 27, 8, 0, 0, 0, time.UTC)
	feedEnd := feedStart.Add(20 * time.Minute)
	sleepStart := time.Date(2025, 10, 26, 13, 0, 0, 0, time.UTC)
	sleepEnd := sleepStart.Add(90 * time.Minute)
	oz := 4.0

	entries := []entities.Entry{
		&entities.Feed{Base: entities.Base{ID: "n1"}, Kind: entities.FeedKindNursing, Side: entities.SideLeft, StartedAt: feedStart, EndedAt: &feedEnd},
		&entities.Feed{Base: entities.Base{ID: "b1"}, Kind: entities.FeedKindBottle, StartedAt: feedStart, EndedAt: &feedStart, AmountOz: &oz},
		&entities.Sleep{Base: entities.Base{ID: "s1"}, Category: entities.SleepNap, StartedAt: sleepStart, EndedAt: &sleepEnd},
		&entities.Diaper{Base: entities.Base{ID: "d1"}, DiaperType: entities.DiaperBoth, StartedAt: feedStart, EndedAt: feedStart},
	}

	report, err := stats.Aggregate(entries, entities.Window7, time.UTC)
	require.NoError(t, err)

	return &handlers.StatsResult{
		Accepted: len(entries),
		Report:   report,
		Chart:    services.BuildChartSeries(report),
		Rejections: []entities.Rejection{
			{ID: "junk", Field: "type", Reason: "is required"},
		},
	}
}

func TestFormatStatsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := formatStatsJSON(&buf, sampleStatsResult(t))
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	report := parsed["report"].(map[string]any)
	feeding := report["feeding"].(map[string]any)
	assert.Equal(t, 4.0, feeding["totalBottleOz"])
	assert.Equal(t, 20.0, feeding["totalNursingMinutes"])
	assert.Len(t, report["days"], 7)

	chart := parsed["chart"].(map[string]any)
	assert.Len(t, chart["labels"], 7)

	rejections := parsed["rejections"].([]any)
	require.Len(t, rejections, 1)
	assert.Equal(t, "junk", rejections[0].(map[string]any)["id"])
}

func TestFormatStatsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := formatStatsCSV(&buf, sampleStatsResult(t).Report)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 8)
	assert.Equal(t, dailyCSVHeader, records[0])

	last := records[7]
	assert.Equal(t, "2025-10-27", last[0])
	assert.Equal(t, "2", last[1])
	assert.Equal(t, "4.00", last[2])
	assert.Equal(t, "20.00", last[3])
	assert.Equal(t, "1", last[11])

	sleepDay := records[6]
	assert.Equal(t, "2025-10-26", sleepDay[0])
	assert.Equal(t, "90.00", sleepDay[6])
}

func TestFormatStatsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := formatStatsMarkdown(&buf, "ada", sampleStatsResult(t).Report)
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, "# Stats for ada")
	assert.Contains(t, result, "Last 7 days (UTC)")
	assert.Contains(t, result, "- **Sleep:** 1h 30m")
	assert.Contains(t, result, "| Oct 27 | 2 | 4.0 oz | 0h 20m |")
	assert.Equal(t, 8, strings.Count(result, "\n| "), "header plus one row per day")
}

func TestFormatStatsText(t *testing.T) {
	var buf bytes.Buffer
	err := formatStatsText(&buf, "ada", sampleStatsResult(t))
	require.NoError(t, err)

	result := buf.String()
	assert.Contains(t, result, "Stats for ada")
	assert.Contains(t, result, "4.0 oz")
	assert.Contains(t, result, "1h 30m")
	assert.Contains(t, result, "Oct 21")
	assert.Contains(t, result, "1 invalid entries skipped")
}

func TestFormatStats_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := formatStats(&buf, "xml", "ada", sampleStatsResult(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
