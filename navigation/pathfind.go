package navigation

import (
	"math"

	"github.com/lixenwraith/navagent/vmath"
)

// pointEpsilon merges waypoints closer than this
const pointEpsilon = 1e-6

// Engine answers path queries against a registry
type Engine struct {
	registry *Registry
}

// NewEngine creates a query engine reading meshes from reg
func NewEngine(reg *Registry) *Engine {
	return &Engine{registry: reg}
}

// ComputePath implements Querier
func (e *Engine) ComputePath(start, target vmath.Vec3, mesh MeshID, query QueryPrecision, mode PathPrecision) ([]vmath.Vec3, bool) {
	m, ok := e.registry.Lookup(mesh)
	if !ok {
		return nil, false
	}
	return m.FindPath(start, target, query, mode)
}

// FindPath computes waypoints from start to the mesh-resolved target
// The first waypoint is start itself; the last is the resolved target
func (m *Mesh) FindPath(start, target vmath.Vec3, query QueryPrecision, mode PathPrecision) ([]vmath.Vec3, bool) {
	from, fromTri := m.resolve(start, query)
	to, toTri := m.resolve(target, query)
	if fromTri < 0 || toTri < 0 {
		return nil, false
	}

	corridor := m.corridor(fromTri, toTri, to)
	if corridor == nil {
		return nil, false
	}

	portals := m.portals(corridor, from, to)

	var points []vmath.Vec3
	switch mode {
	case PathMidPoints:
		points = midpointPath(portals)
	default:
		points = funnelPath(portals)
	}

	path := make([]vmath.Vec3, 0, len(points)+1)
	path = append(path, start)
	for _, p := range points {
		if vmath.V3Near(path[len(path)-1], p, pointEpsilon) {
			continue
		}
		path = append(path, p)
	}
	// Start already on the resolved target: single-point path keeps the last==target invariant
	if len(path) == 1 && !vmath.V3Near(start, to, pointEpsilon) {
		path = append(path, to)
	}
	return path, true
}

// resolve maps an arbitrary point onto the mesh according to query precision
func (m *Mesh) resolve(p vmath.Vec3, query QueryPrecision) (vmath.Vec3, int) {
	switch query {
	case QueryClosest:
		return m.ClosestCentroid(p)
	default:
		q, tri, _ := m.ClosestPoint(p)
		return q, tri
	}
}

// corridor runs A* over triangle adjacency
// Returns triangle indices from -> to inclusive, nil when disconnected
func (m *Mesh) corridor(from, to int, goal vmath.Vec3) []int {
	if from == to {
		return []int{from}
	}

	n := len(m.triangles)
	g := make([]float64, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	for i := range g {
		g[i] = math.Inf(1)
		parent[i] = -1
	}

	open := make(minHeap, 0, 16)
	g[from] = 0
	open.push(heapEntry{idx: from, cost: vmath.V3Dist(m.centroids[from], goal)})

	for len(open) > 0 {
		cur := open.pop().idx
		if closed[cur] {
			continue
		}
		if cur == to {
			break
		}
		closed[cur] = true

		for _, l := range m.links[cur] {
			nb := l.Triangle
			if closed[nb] {
				continue
			}
			tentative := g[cur] + vmath.V3Dist(m.centroids[cur], m.centroids[nb])
			if tentative < g[nb] {
				g[nb] = tentative
				parent[nb] = cur
				open.push(heapEntry{idx: nb, cost: tentative + vmath.V3Dist(m.centroids[nb], goal)})
			}
		}
	}

	if parent[to] < 0 {
		return nil
	}

	var rev []int
	for t := to; t >= 0; t = parent[t] {
		rev = append(rev, t)
		if t == from {
			break
		}
	}
	out := make([]int, len(rev))
	for i, t := range rev {
		out[len(rev)-1-i] = t
	}
	return out
}
