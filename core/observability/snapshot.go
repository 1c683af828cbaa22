package observability

import (
	"sort"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshot is a point-in-time copy of the monitor's counters
type Snapshot struct {
	Uptime        time.Duration   `json:"uptime"`
	TotalRequests uint64          `json:"total_requests"`
	Routes        []RouteSnapshot `json:"routes"`
}

// RouteSnapshot is the copy of one route's counters
type RouteSnapshot struct {
	Route       string            `json:"route"`
	Count       uint64            `json:"count"`
	AvgDuration time.Duration     `json:"avg_duration"`
	MinDuration time.Duration     `json:"min_duration"`
	MaxDuration time.Duration     `json:"max_duration"`
	Outcomes    map[string]uint64 `json:"outcomes"`
	Buckets     []uint64          `json:"latency_buckets"`
}

// Snapshot copies the current counters, routes sorted by name
func (pm *PerformanceMonitor) Snapshot() Snapshot {
	snap := Snapshot{
		Uptime:        time.Since(pm.started),
		TotalRequests: pm.global.totalRequests.Load(),
		Routes:        make([]RouteSnapshot, 0),
	}

	pm.routes.Range(func(key, value any) bool {
		m := value.(*RouteMetrics)
		rs := RouteSnapshot{
			Route:       m.Route,
			Count:       m.Count.Load(),
			MinDuration: time.Duration(m.MinDuration.Load()),
			MaxDuration: time.Duration(m.MaxDuration.Load()),
			Outcomes:    make(map[string]uint64),
			Buckets:     make([]uint64, numBuckets),
		}
		if rs.Count > 0 {
			rs.AvgDuration = time.Duration(m.TotalDuration.Load() / rs.Count)
		}
		for i := range m.outcomes {
			if n := m.outcomes[i].Load(); n > 0 {
				rs.Outcomes[Outcome(i).String()] = n
			}
		}
		for i := range m.latencyBuckets {
			rs.Buckets[i] = m.latencyBuckets[i].Load()
		}
		snap.Routes = append(snap.Routes, rs)
		return true
	})

	sort.Slice(snap.Routes, func(i, j int) bool {
		return snap.Routes[i].Route < snap.Routes[j].Route
	})
	return snap
}

// Proto converts the snapshot into a protobuf Struct
func (s Snapshot) Proto() (*structpb.Struct, error) {
	routes := make([]any, 0, len(s.Routes))
	for _, r := range s.Routes {
		outcomes := make(map[string]any, len(r.Outcomes))
		for name, n := range r.Outcomes {
			outcomes[name] = n
		}
		buckets := make([]any, len(r.Buckets))
		for i, n := range r.Buckets {
			buckets[i] = n
		}
		routes = append(routes, map[string]any{
			"route":           r.Route,
			"count":           r.Count,
			"avg_duration":    r.AvgDuration.String(),
			"min_duration":    r.MinDuration.String(),
			"max_duration":    r.MaxDuration.String(),
			"outcomes":        outcomes,
			"latency_buckets": buckets,
		})
	}

	return structpb.NewStruct(map[string]any{
		"uptime":         s.Uptime.String(),
		"total_requests": s.TotalRequests,
		"routes":         routes,
	})
}

// MarshalProto encodes the snapshot in protobuf binary form
func (s Snapshot) MarshalProto() ([]byte, error) {
	msg, err := s.Proto()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// MarshalProtoJSON encodes the snapshot with the protobuf JSON mapping
func (s Snapshot) MarshalProtoJSON() ([]byte, error) {
	msg, err := s.Proto()
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(msg)
}
