package entities

import (
	"errors"
	"fmt"
	"strconv"
)

// DayKeyLayout formats calendar-day keys (ISO date in the child's timezone).
const DayKeyLayout = "2006-01-02"

// ErrInvalidWindow is returned for reporting windows other than 7, 30 or 90 days.
var ErrInvalidWindow = errors.New("invalid window: must be 7, 30 or 90 days")

// Window is the number of calendar days a stats report covers.
type Window int

// Supported windows.
const (
	Window7  Window = 7
	Window30 Window = 30
	Window90 Window = 90
)

// Days returns the window length in days.
func (w Window) Days() int {
	return int(w)
}

// IsValid reports whether w is a supported window.
func (w Window) IsValid() bool {
	return w == Window7 || w == Window30 || w == Window90
}

// ParseWindow converts a day count into a Window.
func ParseWindow(days int) (Window, error) {
	w := Window(days)
	if !w.IsValid() {
		return 0, fmt.Errorf("%w (got %d)", ErrInvalidWindow, days)
	}
	return w, nil
}

// ParseWindowString parses "7", "30", "90", optionally suffixed with "d".
func ParseWindowString(s string) (Window, error) {
	if n := len(s); n > 0 && (s[n-1] == 'd' || s[n-1] == 'D') {
		s = s[:n-1]
	}
	days, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w (got %q)", ErrInvalidWindow, s)
	}
	return ParseWindow(days)
}

// DiaperCounts counts diaper changes by type.
type DiaperCounts struct {
	Pee  int `json:"pee"`
	Poop int `json:"poop"`
	Both int `json:"both"`
}

// Total returns the number of changes.
func (c DiaperCounts) Total() int {
	return c.Pee + c.Poop + c.Both
}

// DailyStat aggregates one calendar day. It is rebuilt on every aggregation
// and never persisted.
type DailyStat struct {
	Date                string       `json:"date"`
	Feeds               int          `json:"feeds"`
	NursingMinutes      float64      `json:"nursingMinutes"`
	LeftSideMinutes     float64      `json:"leftSideMinutes"`
	RightSideMinutes    float64      `json:"rightSideMinutes"`
	BottleOz            float64      `json:"bottleOz"`
	SleepMinutes        float64      `json:"sleepMinutes"`
	LongestSleepMinutes float64      `json:"longestSleepMinutes"`
	PumpedOz            float64      `json:"pumpedOz"`
	Diapers             DiaperCounts `json:"diapers"`
	Baths               int          `json:"baths"`
}

// NursingBreakdown splits nursing minutes by side.
type NursingBreakdown struct {
	LeftMinutes  float64 `json:"leftMinutes"`
	RightMinutes float64 `json:"rightMinutes"`
}

// DailyFeedStat is one day of the feeding series.
type DailyFeedStat struct {
	Date           string  `json:"date"`
	BottleOz       float64 `json:"bottleOz"`
	NursingMinutes float64 `json:"nursingMinutes"`
}

// FeedingStats summarizes feeds over a window.
type FeedingStats struct {
	TotalFeeds          int              `json:"totalFeeds"`
	AvgFeedsPerDay      float64          `json:"avgFeedsPerDay"`
	TotalBottleOz       float64          `json:"totalBottleOz"`
	TotalNursingMinutes float64          `json:"totalNursingMinutes"`
	NursingBreakdown    NursingBreakdown `json:"nursingBreakdown"`
	Daily               []DailyFeedStat  `json:"daily"`
}

// DailySleepStat is one day of the sleep series.
type DailySleepStat struct {
	Date         string  `json:"date"`
	SleepMinutes float64 `json:"sleepMinutes"`
}

// SleepStats summarizes sleep over a window.
type SleepStats struct {
	TotalSleepMinutes     float64          `json:"totalSleepMinutes"`
	AvgSleepPerDayMinutes float64          `json:"avgSleepPerDayMinutes"`
	LongestSleepMinutes   float64          `json:"longestSleepMinutes"`
	Daily                 []DailySleepStat `json:"daily"`
}

// DailyPumpStat is one day of the pumping series.
type DailyPumpStat struct {
	Date     string  `json:"date"`
	PumpedOz float64 `json:"pumpedOz"`
}

// PumpStats summarizes pumping over a window.
type PumpStats struct {
	TotalPumpedOz     float64         `json:"totalPumpedOz"`
	AvgPumpedPerDayOz float64         `json:"avgPumpedPerDayOz"`
	Daily             []DailyPumpStat `json:"daily"`
}

// DailyDiaperStat is one day of the diaper series.
type DailyDiaperStat struct {
	Date string `json:"date"`
	DiaperCounts
}

// DiaperStats summarizes diaper changes over a window.
type DiaperStats struct {
	TotalChanges     int               `json:"totalChanges"`
	AvgChangesPerDay float64           `json:"avgChangesPerDay"`
	Daily            []DailyDiaperStat `json:"daily"`
}

// StatsReport is the output of one aggregation run. Every per-day slice has
// exactly Window.Days() elements ordered oldest first.
type StatsReport struct {
	Window   Window       `json:"window"`
	Timezone string       `json:"timezone"`
	Days     []string     `json:"days"`
	Daily    []DailyStat  `json:"dailyStats"`
	Feeding  FeedingStats `json:"feeding"`
	Sleep    SleepStats   `json:"sleep"`
	Pump     PumpStats    `json:"pump"`
	Diaper   DiaperStats  `json:"diaper"`
}
