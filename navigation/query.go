package navigation

import (
	"github.com/lixenwraith/navagent/vmath"
)

// QueryPrecision selects how start and target points are resolved onto the mesh
type QueryPrecision uint8

const (
	// QueryAccuracy projects points to the exact closest point on the mesh surface
	QueryAccuracy QueryPrecision = iota
	// QueryClosest snaps points to the centroid of the nearest triangle
	QueryClosest
)

func (q QueryPrecision) String() string {
	switch q {
	case QueryAccuracy:
		return "accuracy"
	case QueryClosest:
		return "closest"
	default:
		return "unknown"
	}
}

// PathPrecision selects how the triangle corridor becomes waypoints
type PathPrecision uint8

const (
	// PathAccuracy pulls the path taut through shared-edge portals
	PathAccuracy PathPrecision = iota
	// PathMidPoints routes through the midpoint of every crossed edge
	PathMidPoints
)

func (p PathPrecision) String() string {
	switch p {
	case PathAccuracy:
		return "accuracy"
	case PathMidPoints:
		return "midpoints"
	default:
		return "unknown"
	}
}

// Querier computes paths over registered meshes
// A nil path with ok=false means unreachable or query failure; callers treat it as steady state
type Querier interface {
	ComputePath(start, target vmath.Vec3, mesh MeshID, query QueryPrecision, mode PathPrecision) (path []vmath.Vec3, ok bool)
}

// ParseQueryPrecision maps a configuration name onto a QueryPrecision
func ParseQueryPrecision(s string) (QueryPrecision, bool) {
	switch s {
	case "accuracy", "":
		return QueryAccuracy, true
	case "closest":
		return QueryClosest, true
	default:
		return QueryAccuracy, false
	}
}

// ParsePathPrecision maps a configuration name onto a PathPrecision
func ParsePathPrecision(s string) (PathPrecision, bool) {
	switch s {
	case "accuracy", "":
		return PathAccuracy, true
	case "midpoints":
		return PathMidPoints, true
	default:
		return PathAccuracy, false
	}
}
