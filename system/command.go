package system

import (
	"sync/atomic"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
)

// Commander is the command stage: it turns the per-tick signal into targets,
// path clears, or teleports for every player-controlled agent
type Commander struct {
	viewport input.Viewport
	registry *navigation.Registry
	emitter

	// Precision applied to destinations set by the primary button
	Query navigation.QueryPrecision
	Mode  navigation.PathPrecision

	statDestinations *atomic.Int64
	statClears       *atomic.Int64
	statTeleports    *atomic.Int64
	statNoMesh       *atomic.Int64
}

// NewCommander creates a command stage bound to a viewport and mesh registry
func NewCommander(viewport input.Viewport, registry *navigation.Registry, stats *status.Registry, sink EventSink) *Commander {
	return &Commander{
		viewport: viewport,
		registry: registry,
		emitter:  emitter{sink: sink},
		Query:    navigation.QueryAccuracy,
		Mode:     navigation.PathAccuracy,

		statDestinations: stats.Ints.Get(status.KeyDestinations),
		statClears:       stats.Ints.Get(status.KeyClears),
		statTeleports:    stats.Ints.Get(status.KeyTeleports),
		statNoMesh:       stats.Ints.Get(status.KeyNoMesh),
	}
}

// Viewport returns the bounds used for pointer conversion
func (c *Commander) Viewport() input.Viewport {
	return c.viewport
}

// Update applies sig to every player-controlled agent
func (c *Commander) Update(sig input.Signal, roster *agent.Roster) {
	if sig.Idle() {
		return
	}
	for _, a := range roster.All() {
		if a.PlayerControlled {
			c.Apply(sig, a)
		}
	}
}

// Apply interprets sig for one agent
// Buttons are mutually exclusive in priority order primary, secondary, tertiary
// A held button without a pointer position is a no-op for the tick
func (c *Commander) Apply(sig input.Signal, a *agent.Agent) {
	switch {
	case sig.Primary:
		if sig.Pointer == nil {
			return
		}
		// First registered mesh; scenes currently carry a single walkable surface
		mesh, ok := c.registry.First()
		if !ok {
			c.statNoMesh.Add(1)
			c.emit(Event{Type: EventNoMesh, Agent: a.ID()})
			return
		}
		p := c.viewport.ToWorld(*sig.Pointer)
		target := agent.PointTarget(p)
		changed := a.Target() != target || a.Mesh() != mesh.ID() ||
			a.QueryPrecision() != c.Query || a.PathPrecision() != c.Mode
		a.SetDestination(target, c.Query, c.Mode, mesh.ID())
		if changed {
			c.statDestinations.Add(1)
			c.emit(Event{Type: EventDestinationSet, Agent: a.ID(), Point: p})
		}

	case sig.Secondary:
		had := a.HasPath() || !a.Target().IsNone()
		a.ClearPath()
		if had {
			c.statClears.Add(1)
			c.emit(Event{Type: EventPathCleared, Agent: a.ID(), Point: a.Position})
		}

	case sig.Tertiary:
		if sig.Pointer == nil {
			return
		}
		p := c.viewport.ToWorld(*sig.Pointer)
		if a.Position == p {
			return
		}
		a.Teleport(p)
		c.statTeleports.Add(1)
		c.emit(Event{Type: EventTeleported, Agent: a.ID(), Point: p})
	}
}
