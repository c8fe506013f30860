package services

import (
	"fmt"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// StatsService aggregates validated entries into per-day and summary statistics.
type StatsService struct {
	now func() time.Time
}

// NewStatsService creates a StatsService. now anchors the reporting window;
// nil means time.Now.
func NewStatsService(now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{now: now}
}

// DayKeys returns the calendar-day keys of the window ending today in loc,
// oldest first.
func (s *StatsService) DayKeys(window entities.Window, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	today := s.now().In(loc)
	y, m, d := today.Date()

	keys := make([]string, 0, window.Days())
	for i := window.Days() - 1; i >= 0; i-- {
		// Noon avoids landing on a skipped or repeated hour around DST changes.
		day := time.Date(y, m, d-i, 12, 0, 0, 0, loc)
		keys = append(keys, day.Format(entities.DayKeyLayout))
	}
	return keys
}

// Aggregate buckets entries by their local start day and summarizes each kind
// over the window. Every day of the window is present in the output, with
// zero values when nothing was logged. Entries starting outside the window
// are ignored.
func (s *StatsService) Aggregate(entries []entities.Entry, window entities.Window, loc *time.Location) (*entities.StatsReport, error) {
	if !window.IsValid() {
		return nil, fmt.Errorf("%w (got %d)", entities.ErrInvalidWindow, int(window))
	}
	if loc == nil {
		loc = time.Local
	}

	keys := s.DayKeys(window, loc)
	days := make([]entities.DailyStat, len(keys))
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		days[i].Date = key
		index[key] = i
	}

	acc := &dayAccumulator{}
	for _, entry := range entries {
		i, ok := index[dayKey(entry, loc)]
		if !ok {
			continue
		}
		acc.day = &days[i]
		entry.Accept(acc)
	}

	report := &entities.StatsReport{
		Window:   window,
		Timezone: loc.String(),
		Days:     keys,
		Daily:    days,
		Feeding:  summarizeFeeding(days),
		Sleep:    summarizeSleep(days, acc.longestSleep),
		Pump:     summarizePump(days),
		Diaper:   summarizeDiapers(days),
	}
	return report, nil
}

// DailyStats returns per-day aggregates for only the days that have entries,
// keyed by local calendar day. LongestSleepMinutes is the longest stretch of
// that day.
func (s *StatsService) DailyStats(entries []entities.Entry, loc *time.Location) map[string]entities.DailyStat {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[string]*entities.DailyStat)
	acc := &dayAccumulator{}
	for _, entry := range entries {
		key := dayKey(entry, loc)
		day, ok := byDay[key]
		if !ok {
			day = &entities.DailyStat{Date: key}
			byDay[key] = day
		}
		acc.day = day
		entry.Accept(acc)
	}

	result := make(map[string]entities.DailyStat, len(byDay))
	for key, day := range byDay {
		result[key] = *day
	}
	return result
}

func dayKey(entry entities.Entry, loc *time.Location) string {
	return entry.Start().In(loc).Format(entities.DayKeyLayout)
}

// dayAccumulator adds each entry to the current day bucket and tracks the
// longest completed sleep across every bucket it has seen.
type dayAccumulator struct {
	day          *entities.DailyStat
	longestSleep float64
}

func (a *dayAccumulator) VisitFeed(f *entities.Feed) {
	a.day.Feeds++
	switch f.Kind {
	case entities.FeedKindNursing:
		minutes := entities.DurationMinutes(f)
		a.day.NursingMinutes += minutes
		switch f.Side {
		case entities.SideLeft:
			a.day.LeftSideMinutes += minutes
		case entities.SideRight:
			a.day.RightSideMinutes += minutes
		}
	case entities.FeedKindBottle:
		a.day.BottleOz += entities.Oz(f.AmountOz)
	}
}

func (a *dayAccumulator) VisitSleep(sl *entities.Sleep) {
	minutes := entities.DurationMinutes(sl)
	a.day.SleepMinutes += minutes
	if minutes > a.day.LongestSleepMinutes {
		a.day.LongestSleepMinutes = minutes
	}
	if minutes > a.longestSleep {
		a.longestSleep = minutes
	}
}

func (a *dayAccumulator) VisitPump(p *entities.Pump) {
	a.day.PumpedOz += p.PumpedOz()
}

func (a *dayAccumulator) VisitDiaper(d *entities.Diaper) {
	switch d.DiaperType {
	case entities.DiaperPee:
		a.day.Diapers.Pee++
	case entities.DiaperPoop:
		a.day.Diapers.Poop++
	case entities.DiaperBoth:
		a.day.Diapers.Both++
	}
}

func (a *dayAccumulator) VisitBath(*entities.Bath) {
	a.day.Baths++
}

func summarizeFeeding(days []entities.DailyStat) entities.FeedingStats {
	stats := entities.FeedingStats{Daily: make([]entities.DailyFeedStat, len(days))}
	for i, day := range days {
		stats.TotalFeeds += day.Feeds
		stats.TotalBottleOz += day.BottleOz
		stats.TotalNursingMinutes += day.NursingMinutes
		stats.NursingBreakdown.LeftMinutes += day.LeftSideMinutes
		stats.NursingBreakdown.RightMinutes += day.RightSideMinutes
		stats.Daily[i] = entities.DailyFeedStat{
			Date:           day.Date,
			BottleOz:       day.BottleOz,
			NursingMinutes: day.NursingMinutes,
		}
	}
	stats.AvgFeedsPerDay = average(float64(stats.TotalFeeds), len(days))
	return stats
}

func summarizeSleep(days []entities.DailyStat, longest float64) entities.SleepStats {
	stats := entities.SleepStats{
		LongestSleepMinutes: longest,
		Daily:               make([]entities.DailySleepStat, len(days)),
	}
	for i, day := range days {
		stats.TotalSleepMinutes += day.SleepMinutes
		stats.Daily[i] = entities.DailySleepStat{Date: day.Date, SleepMinutes: day.SleepMinutes}
	}
	stats.AvgSleepPerDayMinutes = average(stats.TotalSleepMinutes, len(days))
	return stats
}

func summarizePump(days []entities.DailyStat) entities.PumpStats {
	stats := entities.PumpStats{Daily: make([]entities.DailyPumpStat, len(days))}
	for i, day := range days {
		stats.TotalPumpedOz += day.PumpedOz
		stats.Daily[i] = entities.DailyPumpStat{Date: day.Date, PumpedOz: day.PumpedOz}
	}
	stats.AvgPumpedPerDayOz = average(stats.TotalPumpedOz, len(days))
	return stats
}

func summarizeDiapers(days []entities.DailyStat) entities.DiaperStats {
	stats := entities.DiaperStats{Daily: make([]entities.DailyDiaperStat, len(days))}
	for i, day := range days {
		stats.TotalChanges += day.Diapers.Total()
		stats.Daily[i] = entities.DailyDiaperStat{Date: day.Date, DiaperCounts: day.Diapers}
	}
	stats.AvgChangesPerDay = average(float64(stats.TotalChanges), len(days))
	return stats
}

// average divides by the window length, not the number of days with data.
func average(total float64, days int) float64 {
	if days == 0 {
		return 0
	}
	return total / float64(days)
}
