package system

import (
	"sync/atomic"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/vmath"
)

const (
	// DefaultDirtyDistance is how far a followed agent must move before a follow path is recomputed
	DefaultDirtyDistance = 10.0
	// DefaultMinTicksBetweenCompute throttles follow recomputes
	DefaultMinTicksBetweenCompute = 6
)

// followState remembers where a follow target resolved at the last compute
type followState struct {
	goal vmath.Vec3
	tick uint64
}

// Maintainer is the maintenance stage: it replaces stale paths through a Querier
// and rearms agent-follow paths once the followed agent has drifted
type Maintainer struct {
	querier navigation.Querier
	emitter

	// Follow recompute throttling
	DirtyDistance          float64
	MinTicksBetweenCompute uint64

	follow map[agent.ID]followState

	statPaths       *atomic.Int64
	statUnreachable *atomic.Int64
	statRepaths     *atomic.Int64
}

// NewMaintainer creates a maintenance stage over querier
func NewMaintainer(querier navigation.Querier, stats *status.Registry, sink EventSink) *Maintainer {
	return &Maintainer{
		querier:                querier,
		emitter:                emitter{sink: sink},
		DirtyDistance:          DefaultDirtyDistance,
		MinTicksBetweenCompute: DefaultMinTicksBetweenCompute,
		follow:                 make(map[agent.ID]followState),

		statPaths:       stats.Ints.Get(status.KeyPathsComputed),
		statUnreachable: stats.Ints.Get(status.KeyUnreachable),
		statRepaths:     stats.Ints.Get(status.KeyFollowRepaths),
	}
}

// Update recomputes every stale path in roster order
func (m *Maintainer) Update(tick uint64, roster *agent.Roster) {
	for _, a := range roster.All() {
		m.maintain(tick, a, roster)
	}
}

func (m *Maintainer) maintain(tick uint64, a *agent.Agent, roster *agent.Roster) {
	target := a.Target()
	if target.IsNone() {
		delete(m.follow, a.ID())
		return
	}

	goal, ok := m.resolve(target, roster)

	if target.Kind == agent.TargetAgent && ok && !a.Stale() {
		if st, seen := m.follow[a.ID()]; seen &&
			vmath.V3Dist(st.goal, goal) >= m.DirtyDistance &&
			tick-st.tick >= m.MinTicksBetweenCompute {
			a.Rearm()
			m.statRepaths.Add(1)
		}
	}

	if !a.Stale() {
		return
	}

	var path []vmath.Vec3
	if ok {
		path, ok = m.querier.ComputePath(a.Position, goal, a.Mesh(), a.QueryPrecision(), a.PathPrecision())
	}

	if target.Kind == agent.TargetAgent {
		m.follow[a.ID()] = followState{goal: goal, tick: tick}
	} else {
		delete(m.follow, a.ID())
	}

	if !ok || len(path) == 0 {
		a.SetPath(nil)
		m.statUnreachable.Add(1)
		m.emit(Event{Type: EventUnreachable, Agent: a.ID(), Point: goal})
		return
	}

	a.SetPath(path)
	m.statPaths.Add(1)
	m.emit(Event{Type: EventPathComputed, Agent: a.ID(), Point: path[len(path)-1], Waypoints: len(path)})
}

// resolve turns a target into a world point; unknown followed agents do not resolve
func (m *Maintainer) resolve(target agent.Target, roster *agent.Roster) (vmath.Vec3, bool) {
	switch target.Kind {
	case agent.TargetPoint:
		return target.Point, true
	case agent.TargetAgent:
		leader, ok := roster.Get(target.Agent)
		if !ok {
			return vmath.Vec3{}, false
		}
		return leader.Position, true
	default:
		return vmath.Vec3{}, false
	}
}
