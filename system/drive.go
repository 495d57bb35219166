package system

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/status"
)

// Driver is the path-follow stage for agents with simple driving
type Driver struct {
	emitter

	statArrivals *atomic.Int64
	statDistance *status.Float
}

// NewDriver creates a path-follow stage
func NewDriver(stats *status.Registry, sink EventSink) *Driver {
	return &Driver{
		emitter:      emitter{sink: sink},
		statArrivals: stats.Ints.Get(status.KeyArrivals),
		statDistance: stats.Floats.Get(status.KeyDistance),
	}
}

// Update advances every simple-driving agent by Speed*elapsed along its path
// Non-positive elapsed is a no-op
func (d *Driver) Update(elapsed time.Duration, roster *agent.Roster) {
	if elapsed <= 0 {
		return
	}
	secs := elapsed.Seconds()
	for _, a := range roster.All() {
		d.Follow(a, secs)
	}
}

// Follow advances one agent by secs seconds of travel and reports arrival
func (d *Driver) Follow(a *agent.Agent, secs float64) bool {
	if !a.SimpleDriver || !a.HasPath() || secs <= 0 {
		return false
	}

	covered, arrived := a.Advance(a.Speed * secs)
	if covered > 0 {
		d.statDistance.Add(covered)
	}
	if arrived {
		d.statArrivals.Add(1)
		d.emit(Event{Type: EventArrived, Agent: a.ID(), Point: a.Position})
	}
	return arrived
}
