package dashboard

import "github.com/ersonp/carelog/internal/domain/entities"

// StatsMsg carries a recomputed report from the watch loop.
type StatsMsg struct {
	Seq      uint64
	Accepted int
	Rejected int
	Report   *entities.StatsReport
	Chart    *entities.ChartSeries
	Err      error
}

// WatchErrorMsg is sent when the watch loop stops with an error.
type WatchErrorMsg struct {
	Err error
}
