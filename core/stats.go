package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/searchktools/mini-server/core/observability"
	"github.com/searchktools/mini-server/core/pools"
)

// Stats aggregates pool and traffic statistics
type Stats struct {
	Routes  int                    `json:"routes"`
	Workers pools.WorkerPoolStats  `json:"workers"`
	Buffers pools.BytePoolStats    `json:"buffers"`
	Traffic observability.Snapshot `json:"traffic"`
}

// Stats returns a snapshot of the engine statistics
func (e *Engine) Stats() Stats {
	return Stats{
		Routes:  e.router.Len(),
		Workers: e.pool.Stats(),
		Buffers: e.bytePool.Stats(),
		Traffic: e.monitor.Snapshot(),
	}
}

// StatsJSON returns the statistics as indented JSON
func (e *Engine) StatsJSON() (string, error) {
	data, err := json.MarshalIndent(e.Stats(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}
	return string(data), nil
}

// StatsText returns the statistics as human-readable text
func (e *Engine) StatsText() string {
	stats := e.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Server Statistics\n=================\n\n")
	fmt.Fprintf(&b, "Workers:\n  Size:      %d\n  Busy:      %d\n  Queued:    %d (max %d)\n  Completed: %d\n  Panicked:  %d\n\n",
		stats.Workers.NumWorkers, stats.Workers.BusyWorkers, stats.Workers.Queued,
		stats.Workers.MaxQueued, stats.Workers.TasksCompleted, stats.Workers.TasksPanicked)
	fmt.Fprintf(&b, "Read buffers:\n  Gets:   %d\n  Puts:   %d\n  Misses: %d\n\n",
		stats.Buffers.Gets, stats.Buffers.Puts, stats.Buffers.Misses)
	fmt.Fprintf(&b, "Traffic (%d routes registered, up %s):\n", stats.Routes, stats.Traffic.Uptime.Round(time.Second))
	for _, r := range stats.Traffic.Routes {
		fmt.Fprintf(&b, "  %-24s count=%d avg=%v outcomes=%v\n", r.Route, r.Count, r.AvgDuration, r.Outcomes)
	}

	return b.String()
}
