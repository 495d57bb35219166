// Package agent holds the navigation agent record and the owned agent collection.
//
// An Agent carries authoritative position, a navigation target, and the path last
// produced for that target. Stages in package system mutate agents in strict
// sequence within a tick; the types here perform no locking.
package agent

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/vmath"
)

// ID identifies an agent for the lifetime of the simulation
type ID = uuid.UUID

// TargetKind discriminates Target variants
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetPoint
	TargetAgent
)

func (k TargetKind) String() string {
	switch k {
	case TargetPoint:
		return "point"
	case TargetAgent:
		return "agent"
	default:
		return "none"
	}
}

// Target is a navigation destination: nothing, a fixed point, or another agent's position
type Target struct {
	Kind  TargetKind
	Point vmath.Vec3 // Valid for TargetPoint
	Agent ID         // Valid for TargetAgent
}

// NoTarget returns the empty target
func NoTarget() Target {
	return Target{}
}

// PointTarget targets a fixed world position
func PointTarget(p vmath.Vec3) Target {
	return Target{Kind: TargetPoint, Point: p}
}

// AgentTarget follows another agent
func AgentTarget(id ID) Target {
	return Target{Kind: TargetAgent, Agent: id}
}

// IsNone reports whether no destination is set
func (t Target) IsNone() bool {
	return t.Kind == TargetNone
}

// Agent is a controllable navigating entity
type Agent struct {
	id ID

	// Position is the authoritative current location
	Position vmath.Vec3
	// Speed is the maximum distance covered per second
	Speed float64

	// PlayerControlled opts the agent into the command stage
	PlayerControlled bool
	// SimpleDriver opts the agent into straight-segment constant-speed path following
	SimpleDriver bool

	target Target
	query  navigation.QueryPrecision
	mode   navigation.PathPrecision
	mesh   navigation.MeshID

	// path is nil when no path is known; otherwise remaining waypoints, next first
	path    []vmath.Vec3
	stale   bool
	arrived bool
}

// New creates an agent at position with no target and no path
func New(position vmath.Vec3, speed float64) *Agent {
	return &Agent{
		id:       uuid.New(),
		Position: position,
		Speed:    speed,
	}
}

// ID returns the agent identifier
func (a *Agent) ID() ID {
	return a.id
}

// Target returns current destination
func (a *Agent) Target() Target {
	return a.target
}

// QueryPrecision returns the precision for the pending mesh query
func (a *Agent) QueryPrecision() navigation.QueryPrecision {
	return a.query
}

// PathPrecision returns the precision for the pending path smoothing
func (a *Agent) PathPrecision() navigation.PathPrecision {
	return a.mode
}

// Mesh returns the mesh the agent is bound to
func (a *Agent) Mesh() navigation.MeshID {
	return a.mesh
}

// Path returns a copy of the remaining waypoints, nil when no path is known
func (a *Agent) Path() []vmath.Vec3 {
	if a.path == nil {
		return nil
	}
	return append([]vmath.Vec3(nil), a.path...)
}

// HasPath reports whether waypoints remain
func (a *Agent) HasPath() bool {
	return len(a.path) > 0
}

// Stale reports whether the target changed since the path was produced
func (a *Agent) Stale() bool {
	return a.stale
}

// Arrived reports whether the last path was fully consumed
func (a *Agent) Arrived() bool {
	return a.arrived
}

// SetDestination retargets the agent and marks the current path stale
// Clears the arrived state; the maintenance stage produces the replacement path
// A none target drops the path immediately since nothing would replace it
func (a *Agent) SetDestination(target Target, query navigation.QueryPrecision, mode navigation.PathPrecision, mesh navigation.MeshID) {
	a.target = target
	a.query = query
	a.mode = mode
	a.mesh = mesh
	a.stale = !target.IsNone()
	a.arrived = false
	if target.IsNone() {
		a.path = nil
	}
}

// ClearPath drops path, target and arrival, stopping movement immediately
func (a *Agent) ClearPath() {
	a.path = nil
	a.target = NoTarget()
	a.stale = false
	a.arrived = false
}

// SetPath installs a freshly computed path and clears the stale flag
// An empty or nil path means no path is known
func (a *Agent) SetPath(path []vmath.Vec3) {
	a.stale = false
	if len(path) == 0 {
		a.path = nil
		return
	}
	a.path = append([]vmath.Vec3(nil), path...)
	a.arrived = false
}

// Rearm marks the path stale without touching the target
// Used when a followed agent moves away from the resolved destination
func (a *Agent) Rearm() {
	if a.target.IsNone() {
		return
	}
	a.stale = true
}

// Teleport moves the agent directly, leaving target and path untouched
func (a *Agent) Teleport(p vmath.Vec3) {
	a.Position = p
}

// Advance moves the agent along its path by at most dist
// Waypoints reached exactly or passed are consumed; returns distance covered
// and whether this call consumed the final waypoint
func (a *Agent) Advance(dist float64) (covered float64, arrived bool) {
	for dist > 0 && len(a.path) > 0 {
		next := a.path[0]
		remaining := vmath.V3Dist(a.Position, next)

		if dist < remaining {
			a.Position, _ = vmath.V3MoveTowards(a.Position, next, dist)
			covered += dist
			return covered, false
		}

		a.Position = next
		dist -= remaining
		covered += remaining
		a.path = a.path[1:]
	}

	if a.path != nil && len(a.path) == 0 {
		a.path = nil
		a.arrived = true
		return covered, true
	}
	return covered, false
}
