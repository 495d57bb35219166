package navigation

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/vmath"
)

// Mesh construction errors
var (
	ErrEmptyMesh          = errors.New("navigation: mesh has no triangles")
	ErrTriangleIndex      = errors.New("navigation: triangle references missing vertex")
	ErrDegenerateTriangle = errors.New("navigation: triangle has zero area")
)

// degenerateArea is the minimum doubled triangle area accepted by NewMesh
const degenerateArea = 1e-9

// MeshID identifies a registered navigation mesh
type MeshID = uuid.UUID

// Triangle indexes three mesh vertices
type Triangle struct {
	A, B, C uint32
}

// Tri builds a Triangle from vertex indices
func Tri(a, b, c uint32) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Link connects a triangle to a neighbor across a shared edge
// U and V are the shared edge's vertex indices
type Link struct {
	Triangle int
	U, V     uint32
}

// Mesh is an immutable triangulated walkable surface
type Mesh struct {
	id        MeshID
	vertices  []vmath.Vec3
	triangles []Triangle
	centroids []vmath.Vec3
	links     [][]Link
}

// NewMesh validates vertices/triangles and precomputes centroids and adjacency
// Input slices are copied; the mesh never aliases caller memory
func NewMesh(vertices []vmath.Vec3, triangles []Triangle) (*Mesh, error) {
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	m := &Mesh{
		id:        uuid.New(),
		vertices:  append([]vmath.Vec3(nil), vertices...),
		triangles: append([]Triangle(nil), triangles...),
		centroids: make([]vmath.Vec3, len(triangles)),
		links:     make([][]Link, len(triangles)),
	}

	n := uint32(len(vertices))
	for i, t := range m.triangles {
		if t.A >= n || t.B >= n || t.C >= n {
			return nil, errors.Wrapf(ErrTriangleIndex, "triangle %d (%d, %d, %d) with %d vertices", i, t.A, t.B, t.C, n)
		}
		a, b, c := m.vertices[t.A], m.vertices[t.B], m.vertices[t.C]
		area2 := vmath.V3Mag(vmath.V3Cross(vmath.V3Sub(b, a), vmath.V3Sub(c, a)))
		if area2 < degenerateArea {
			return nil, errors.Wrapf(ErrDegenerateTriangle, "triangle %d (%d, %d, %d)", i, t.A, t.B, t.C)
		}
		m.centroids[i] = vmath.V3Scale(vmath.V3Add(vmath.V3Add(a, b), c), 1.0/3.0)
	}

	m.buildLinks()
	return m, nil
}

type edgeKey struct{ lo, hi uint32 }

func makeEdgeKey(u, v uint32) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// buildLinks connects every pair of triangles sharing an edge
func (m *Mesh) buildLinks() {
	edges := make(map[edgeKey][]int, len(m.triangles)*3)
	for i, t := range m.triangles {
		for _, e := range [3][2]uint32{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}} {
			k := makeEdgeKey(e[0], e[1])
			edges[k] = append(edges[k], i)
		}
	}

	for k, tris := range edges {
		for _, i := range tris {
			for _, j := range tris {
				if i == j {
					continue
				}
				m.links[i] = append(m.links[i], Link{Triangle: j, U: k.lo, V: k.hi})
			}
		}
	}

	// Map iteration order is random; keep search tie-breaking deterministic
	for i := range m.links {
		sort.Slice(m.links[i], func(a, b int) bool {
			return m.links[i][a].Triangle < m.links[i][b].Triangle
		})
	}
}

// ID returns the mesh identifier assigned at construction
func (m *Mesh) ID() MeshID {
	return m.id
}

// Vertices returns a copy of the vertex list
func (m *Mesh) Vertices() []vmath.Vec3 {
	return append([]vmath.Vec3(nil), m.vertices...)
}

// Triangles returns a copy of the triangle list
func (m *Mesh) Triangles() []Triangle {
	return append([]Triangle(nil), m.triangles...)
}

// TriangleCount returns number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Corners returns the three vertex positions of triangle i
func (m *Mesh) Corners(i int) (vmath.Vec3, vmath.Vec3, vmath.Vec3) {
	t := m.triangles[i]
	return m.vertices[t.A], m.vertices[t.B], m.vertices[t.C]
}

// Centroid returns the centroid of triangle i
func (m *Mesh) Centroid(i int) vmath.Vec3 {
	return m.centroids[i]
}

// Links returns neighbors of triangle i
func (m *Mesh) Links(i int) []Link {
	return m.links[i]
}

// ClosestPoint projects p onto the mesh surface
// Returns the projected point, its triangle, and distance from p
func (m *Mesh) ClosestPoint(p vmath.Vec3) (vmath.Vec3, int, float64) {
	best := -1
	bestDistSq := math.Inf(1)
	var bestPoint vmath.Vec3

	for i := range m.triangles {
		a, b, c := m.Corners(i)
		q := closestPointOnTriangle(p, a, b, c)
		d := vmath.V3MagSq(vmath.V3Sub(q, p))
		if d < bestDistSq {
			best, bestDistSq, bestPoint = i, d, q
			if d == 0 {
				break
			}
		}
	}
	return bestPoint, best, math.Sqrt(bestDistSq)
}

// ClosestCentroid returns the triangle whose centroid is nearest to p
func (m *Mesh) ClosestCentroid(p vmath.Vec3) (vmath.Vec3, int) {
	best := 0
	bestDistSq := math.Inf(1)
	for i, c := range m.centroids {
		d := vmath.V3MagSq(vmath.V3Sub(c, p))
		if d < bestDistSq {
			best, bestDistSq = i, d
		}
	}
	return m.centroids[best], best
}

// closestPointOnTriangle returns the point of triangle abc nearest to p
// Voronoi region classification, Ericson "Real-Time Collision Detection" 5.1.5
func closestPointOnTriangle(p, a, b, c vmath.Vec3) vmath.Vec3 {
	ab := vmath.V3Sub(b, a)
	ac := vmath.V3Sub(c, a)
	ap := vmath.V3Sub(p, a)

	d1 := vmath.V3Dot(ab, ap)
	d2 := vmath.V3Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := vmath.V3Sub(p, b)
	d3 := vmath.V3Dot(ab, bp)
	d4 := vmath.V3Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return vmath.V3Add(a, vmath.V3Scale(ab, v))
	}

	cp := vmath.V3Sub(p, c)
	d5 := vmath.V3Dot(ab, cp)
	d6 := vmath.V3Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return vmath.V3Add(a, vmath.V3Scale(ac, w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return vmath.V3Add(b, vmath.V3Scale(vmath.V3Sub(c, b), w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return vmath.V3Add(a, vmath.V3Add(vmath.V3Scale(ab, v), vmath.V3Scale(ac, w)))
}
