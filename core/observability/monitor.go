package observability

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Outcome classifies how a connection ended
type Outcome uint8

const (
	OutcomeOK           Outcome = iota // handler returned nil
	OutcomeHandlerError                // handler returned an error or panicked
	OutcomeNotFound                    // no route and no default handler
	OutcomeMalformed                   // request rejected by the parser
	OutcomeIOError                     // connection failed before a response
	numOutcomes
)

var outcomeNames = [numOutcomes]string{"ok", "handler_error", "not_found", "malformed", "io_error"}

func (o Outcome) String() string {
	if o < numOutcomes {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Route keys for connections that never reached a handler
const (
	RouteUnmatched = "unmatched"
	RouteMalformed = "malformed"
	RouteIO        = "io"
)

// Upper bounds of the latency buckets; the last bucket is unbounded
var bucketBounds = [...]time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
	5 * time.Second,
	10 * time.Second,
}

const numBuckets = len(bucketBounds) + 1

// PerformanceMonitor aggregates per-route connection outcomes and latencies.
// All methods are safe for concurrent use.
type PerformanceMonitor struct {
	enabled atomic.Bool
	routes  sync.Map // route -> *RouteMetrics
	started time.Time

	global struct {
		totalRequests atomic.Uint64
		totalDuration atomic.Uint64
	}
}

// RouteMetrics stores per-route metrics
type RouteMetrics struct {
	Route          string
	Count          atomic.Uint64
	TotalDuration  atomic.Uint64
	MinDuration    atomic.Uint64
	MaxDuration    atomic.Uint64
	outcomes       [numOutcomes]atomic.Uint64
	latencyBuckets [numBuckets]atomic.Uint64
}

// Bottleneck represents a performance issue
type Bottleneck struct {
	Type     string
	Location string
	Severity int
	Impact   float64
	Details  string
}

// NewPerformanceMonitor creates an enabled monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{started: time.Now()}
	pm.enabled.Store(true)
	return pm
}

// SetEnabled turns recording on or off
func (pm *PerformanceMonitor) SetEnabled(enabled bool) {
	pm.enabled.Store(enabled)
}

// RecordRequest records one finished connection
func (pm *PerformanceMonitor) RecordRequest(route string, duration time.Duration, outcome Outcome) {
	if pm == nil || !pm.enabled.Load() || outcome >= numOutcomes {
		return
	}

	val, ok := pm.routes.Load(route)
	if !ok {
		val, _ = pm.routes.LoadOrStore(route, &RouteMetrics{Route: route})
	}
	metrics := val.(*RouteMetrics)

	durationNs := uint64(duration.Nanoseconds())
	metrics.Count.Add(1)
	metrics.outcomes[outcome].Add(1)
	metrics.TotalDuration.Add(durationNs)
	updateMinMax(metrics, durationNs)
	metrics.latencyBuckets[bucketFor(duration)].Add(1)

	pm.global.totalRequests.Add(1)
	pm.global.totalDuration.Add(durationNs)
}

// Outcomes returns the per-outcome counts for route
func (pm *PerformanceMonitor) Outcomes(route string) map[Outcome]uint64 {
	result := make(map[Outcome]uint64)
	val, ok := pm.routes.Load(route)
	if !ok {
		return result
	}
	m := val.(*RouteMetrics)
	for i := range m.outcomes {
		if n := m.outcomes[i].Load(); n > 0 {
			result[Outcome(i)] = n
		}
	}
	return result
}

// TotalRequests returns the number of recorded connections
func (pm *PerformanceMonitor) TotalRequests() uint64 {
	return pm.global.totalRequests.Load()
}

func updateMinMax(m *RouteMetrics, d uint64) {
	for {
		min := m.MinDuration.Load()
		if min != 0 && d >= min {
			break
		}
		if m.MinDuration.CompareAndSwap(min, d) {
			break
		}
	}
	for {
		max := m.MaxDuration.Load()
		if d <= max {
			break
		}
		if m.MaxDuration.CompareAndSwap(max, d) {
			break
		}
	}
}

func bucketFor(d time.Duration) int {
	for i, bound := range bucketBounds {
		if d < bound {
			return i
		}
	}
	return numBuckets - 1
}

// Bottlenecks reports routes with high average latency or error rate
func (pm *PerformanceMonitor) Bottlenecks() []Bottleneck {
	bottlenecks := make([]Bottleneck, 0)

	pm.routes.Range(func(key, value any) bool {
		m := value.(*RouteMetrics)
		count := m.Count.Load()
		if count == 0 {
			return true
		}

		avgDuration := time.Duration(m.TotalDuration.Load() / count)
		if avgDuration > 100*time.Millisecond {
			bottlenecks = append(bottlenecks, Bottleneck{
				Type:     "latency",
				Location: m.Route,
				Severity: 8,
				Impact:   100.0,
				Details:  fmt.Sprintf("High latency (%v avg)", avgDuration),
			})
		}

		failed := count - m.outcomes[OutcomeOK].Load()
		if failed > 0 && float64(failed)/float64(count) > 0.05 {
			bottlenecks = append(bottlenecks, Bottleneck{
				Type:     "errors",
				Location: m.Route,
				Severity: 10,
				Impact:   float64(failed) / float64(count) * 100,
				Details:  fmt.Sprintf("%.1f%% error rate", float64(failed)/float64(count)*100),
			})
		}

		return true
	})

	sort.Slice(bottlenecks, func(i, j int) bool {
		if bottlenecks[i].Location != bottlenecks[j].Location {
			return bottlenecks[i].Location < bottlenecks[j].Location
		}
		return bottlenecks[i].Type < bottlenecks[j].Type
	})
	return bottlenecks
}

// StartTrace marks the start of a connection; pass the result to EndTrace
func (pm *PerformanceMonitor) StartTrace() time.Time {
	return time.Now()
}

// EndTrace records the connection started at start under route
func (pm *PerformanceMonitor) EndTrace(route string, start time.Time, outcome Outcome) {
	pm.RecordRequest(route, time.Since(start), outcome)
}
