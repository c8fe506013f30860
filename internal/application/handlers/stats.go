package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/ports"
	"github.com/ersonp/carelog/internal/domain/services"
)

// StatsHandler builds stats reports and chart series for a child.
type StatsHandler struct {
	store   ports.EntryStore
	entries *services.EntryService
	stats   *services.StatsService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store ports.EntryStore, entries *services.EntryService, stats *services.StatsService) *StatsHandler {
	return &StatsHandler{
		store:   store,
		entries: entries,
		stats:   stats,
	}
}

// StatsOptions selects the reporting window and calendar.
type StatsOptions struct {
	Window   entities.Window
	Location *time.Location
}

// StatsResult contains one report with its chart series.
type StatsResult struct {
	Seq        uint64
	Accepted   int
	Report     *entities.StatsReport
	Chart      *entities.ChartSeries
	Rejections []entities.Rejection
	Err        error
}

// Handle loads the child's entries and aggregates them.
func (h *StatsHandler) Handle(ctx context.Context, babyID string, opts StatsOptions) (*StatsResult, error) {
	loaded, err := h.entries.Load(ctx, babyID)
	if err != nil {
		return nil, err
	}

	report, err := h.stats.Aggregate(loaded.Entries, opts.Window, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}

	return &StatsResult{
		Accepted:   loaded.Accepted(),
		Report:     report,
		Chart:      services.BuildChartSeries(report),
		Rejections: loaded.Rejections,
	}, nil
}

// Watch polls the store every interval and recomputes the report whenever
// the child's revision changes. onUpdate receives results in increasing Seq
// order; a slow computation is superseded by a newer one rather than queued.
// Watch returns nil when ctx is canceled.
func (h *StatsHandler) Watch(ctx context.Context, babyID string, opts StatsOptions, interval time.Duration, onUpdate func(*StatsResult)) error {
	if !opts.Window.IsValid() {
		return entities.ErrInvalidWindow
	}
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}

	live := services.NewLiveStats(h.entries, h.stats, opts.Window, opts.Location, func(res *services.LiveResult) {
		onUpdate(toStatsResult(res))
	})
	defer live.Wait()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastRevision := int64(-1)
	for {
		revision, err := h.store.Revision(ctx, babyID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading revision: %w", err)
		}

		if revision != lastRevision {
			docs, err := h.store.ListDocuments(ctx, babyID)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("listing entries: %w", err)
			}
			live.Publish(docs)
			lastRevision = revision
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func toStatsResult(res *services.LiveResult) *StatsResult {
	result := &StatsResult{
		Seq:        res.Seq,
		Accepted:   len(res.Entries),
		Report:     res.Report,
		Rejections: res.Rejections,
		Err:        res.Err,
	}
	if res.Report != nil {
		result.Chart = services.BuildChartSeries(res.Report)
	}
	return result
}
