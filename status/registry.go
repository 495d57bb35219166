// Package status collects lock-free runtime counters for the control loop.
//
// Stages fetch metric pointers once at construction and update them with atomic
// operations every tick; presenters read them from any goroutine.
package status

import "sync/atomic"

// Metric keys written by the control loop
const (
	KeyTicks         = "tick.count"
	KeyTickDuration  = "tick.duration_ms"
	KeyAgents        = "tick.agents"
	KeyDestinations  = "command.destinations"
	KeyClears        = "command.clears"
	KeyTeleports     = "command.teleports"
	KeyNoMesh        = "command.no_mesh"
	KeyPathsComputed = "nav.paths"
	KeyUnreachable   = "nav.unreachable"
	KeyFollowRepaths = "nav.follow_repaths"
	KeyArrivals      = "drive.arrivals"
	KeyDistance      = "drive.distance"
	KeyStreamClients = "stream.clients"
	KeyStreamDropped = "stream.dropped"
	KeyCuesPlayed    = "audio.cues"
)

// Registry is the central metrics facade
type Registry struct {
	Ints   *Metrics[atomic.Int64]
	Floats *Metrics[Float]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   newMetrics[atomic.Int64](),
		Floats: newMetrics[Float](),
	}
}

// Snapshot copies every metric into a plain map keyed by metric name
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.Len())
	r.Ints.export(out, func(v *atomic.Int64) float64 { return float64(v.Load()) })
	r.Floats.export(out, (*Float).Load)
	return out
}

// Len returns the number of metrics registered so far
func (r *Registry) Len() int {
	return r.Ints.len() + r.Floats.len()
}
