package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// LiveResult is the pipeline output for one published snapshot.
type LiveResult struct {
	Seq        uint64
	Entries    []entities.Entry
	Rejections []entities.Rejection
	Report     *entities.StatsReport
	Err        error
}

// LiveStats reruns the whole migrate, validate and aggregate pipeline for every
// snapshot it is given. Snapshots may be published faster than they are
// processed; only a result newer than the one already held becomes visible.
type LiveStats struct {
	entries *EntryService
	stats   *StatsService
	window  entities.Window
	loc     *time.Location

	seq      atomic.Uint64
	wg       sync.WaitGroup
	mu       sync.Mutex
	latest   *LiveResult
	onUpdate func(*LiveResult)
}

// NewLiveStats creates a LiveStats. onUpdate, when set, is called with each
// result that becomes visible, in increasing Seq order.
func NewLiveStats(entries *EntryService, stats *StatsService, window entities.Window, loc *time.Location, onUpdate func(*LiveResult)) *LiveStats {
	return &LiveStats{
		entries:  entries,
		stats:    stats,
		window:   window,
		loc:      loc,
		onUpdate: onUpdate,
	}
}

// Publish schedules a recomputation over docs and returns its sequence number.
func (l *LiveStats) Publish(docs []entities.Document) uint64 {
	seq := l.seq.Add(1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.store(l.Compute(seq, docs))
	}()
	return seq
}

// Compute runs the pipeline synchronously without touching the visible result.
func (l *LiveStats) Compute(seq uint64, docs []entities.Document) *LiveResult {
	prepared := l.entries.Prepare(docs)
	report, err := l.stats.Aggregate(prepared.Entries, l.window, l.loc)
	return &LiveResult{
		Seq:        seq,
		Entries:    prepared.Entries,
		Rejections: prepared.Rejections,
		Report:     report,
		Err:        err,
	}
}

// store makes res visible unless a newer result already is.
func (l *LiveStats) store(res *LiveResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.latest != nil && l.latest.Seq >= res.Seq {
		return false
	}
	l.latest = res
	if l.onUpdate != nil {
		l.onUpdate(res)
	}
	return true
}

// Latest returns the most recent visible result, or nil before the first one.
func (l *LiveStats) Latest() *LiveResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// Wait blocks until every published snapshot has been processed.
func (l *LiveStats) Wait() {
	l.wg.Wait()
}
