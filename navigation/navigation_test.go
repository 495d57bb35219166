package navigation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/navagent/vmath"
)

// lMesh is an L-shaped corridor bending around the inner corner (2,2)
func lMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh(
		[]vmath.Vec3{
			vmath.V2(0, 0),  // 0
			vmath.V2(10, 0), // 1
			vmath.V2(10, 2), // 2
			vmath.V2(2, 2),  // 3
			vmath.V2(2, 10), // 4
			vmath.V2(0, 10), // 5
		},
		[]Triangle{
			Tri(0, 1, 2),
			Tri(0, 2, 3),
			Tri(0, 3, 4),
			Tri(0, 4, 5),
		},
	)
	require.NoError(t, err)
	return m
}

// sampleMesh is the demo scene layout: a ring of walkable space around a hole
func sampleMesh(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh(
		[]vmath.Vec3{
			vmath.V2(50, 50), vmath.V2(500, 50), vmath.V2(500, 100), vmath.V2(100, 100),
			vmath.V2(100, 300), vmath.V2(700, 300), vmath.V2(700, 50), vmath.V2(750, 50),
			vmath.V2(750, 550), vmath.V2(50, 550),
		},
		[]Triangle{
			Tri(1, 2, 3), Tri(0, 1, 3), Tri(0, 3, 4), Tri(0, 4, 9),
			Tri(4, 8, 9), Tri(4, 5, 8), Tri(5, 7, 8), Tri(5, 6, 7),
		},
	)
	require.NoError(t, err)
	return m
}

func assertPath(t *testing.T, want, got []vmath.Vec3) {
	t.Helper()
	require.Len(t, got, len(want), "path %v", got)
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "waypoint %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "waypoint %d y", i)
		assert.InDelta(t, want[i].Z, got[i].Z, 1e-9, "waypoint %d z", i)
	}
}

func TestNewMeshValidation(t *testing.T) {
	verts := []vmath.Vec3{vmath.V2(0, 0), vmath.V2(1, 0), vmath.V2(0, 1), vmath.V2(2, 0)}

	_, err := NewMesh(verts, nil)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = NewMesh(verts, []Triangle{Tri(0, 1, 9)})
	assert.Equal(t, ErrTriangleIndex, errors.Cause(err))

	_, err = NewMesh(verts, []Triangle{Tri(0, 1, 3)})
	assert.Equal(t, ErrDegenerateTriangle, errors.Cause(err))

	m, err := NewMesh(verts, []Triangle{Tri(0, 1, 2)})
	require.NoError(t, err)
	assert.Equal(t, 1, m.TriangleCount())
	assert.NotEqual(t, MeshID{}, m.ID())
}

func TestMeshDoesNotAliasInput(t *testing.T) {
	verts := []vmath.Vec3{vmath.V2(0, 0), vmath.V2(1, 0), vmath.V2(0, 1)}
	m, err := NewMesh(verts, []Triangle{Tri(0, 1, 2)})
	require.NoError(t, err)

	verts[0] = vmath.V2(100, 100)
	a, _, _ := m.Corners(0)
	assert.Equal(t, vmath.V2(0, 0), a)
}

func TestMeshLinks(t *testing.T) {
	m := lMesh(t)

	require.Len(t, m.Links(0), 1)
	assert.Equal(t, 1, m.Links(0)[0].Triangle)
	assert.Len(t, m.Links(1), 2)
	assert.Len(t, m.Links(2), 2)
	assert.Len(t, m.Links(3), 1)
}

func TestClosestPoint(t *testing.T) {
	m := lMesh(t)

	// Inside: projection is the point itself
	q, tri, d := m.ClosestPoint(vmath.V2(9, 1))
	assert.Equal(t, 0, tri)
	assert.InDelta(t, 0, d, 1e-9)
	assert.InDelta(t, 9, q.X, 1e-9)
	assert.InDelta(t, 1, q.Y, 1e-9)

	// In the hole of the L: nearest surface point lies on an inner edge
	q, _, d = m.ClosestPoint(vmath.V2(6, 3))
	assert.InDelta(t, 6, q.X, 1e-9)
	assert.InDelta(t, 2, q.Y, 1e-9)
	assert.InDelta(t, 1, d, 1e-9)
}

func TestFindPathSameTriangle(t *testing.T) {
	m := lMesh(t)

	path, ok := m.FindPath(vmath.V2(9, 0.5), vmath.V2(5, 0.5), QueryAccuracy, PathAccuracy)
	require.True(t, ok)
	assertPath(t, []vmath.Vec3{vmath.V2(9, 0.5), vmath.V2(5, 0.5)}, path)
}

func TestFindPathFunnelBendsAtCorner(t *testing.T) {
	m := lMesh(t)

	path, ok := m.FindPath(vmath.V2(9, 1), vmath.V2(1, 9), QueryAccuracy, PathAccuracy)
	require.True(t, ok)
	assertPath(t, []vmath.Vec3{vmath.V2(9, 1), vmath.V2(2, 2), vmath.V2(1, 9)}, path)
}

func TestFindPathMidPoints(t *testing.T) {
	m := lMesh(t)

	path, ok := m.FindPath(vmath.V2(9, 1), vmath.V2(1, 9), QueryAccuracy, PathMidPoints)
	require.True(t, ok)
	assertPath(t, []vmath.Vec3{
		vmath.V2(9, 1),
		vmath.V2(5, 1),
		vmath.V2(1, 1),
		vmath.V2(1, 5),
		vmath.V2(1, 9),
	}, path)
}

func TestFindPathOffMeshStartAndTarget(t *testing.T) {
	m := lMesh(t)

	// Start in the hole: projected start inserted after the actual position
	start := vmath.V2(6, 3)
	path, ok := m.FindPath(start, vmath.V2(8, -5), QueryAccuracy, PathAccuracy)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(path), 2)
	assert.Equal(t, start, path[0])
	assert.InDelta(t, 6, path[1].X, 1e-9)
	assert.InDelta(t, 2, path[1].Y, 1e-9)

	// Target below the mesh resolves onto the bottom edge
	last := path[len(path)-1]
	assert.InDelta(t, 8, last.X, 1e-9)
	assert.InDelta(t, 0, last.Y, 1e-9)
}

func TestFindPathClosestQuerySnapsToCentroid(t *testing.T) {
	m := lMesh(t)

	path, ok := m.FindPath(vmath.V2(9, 1), vmath.V2(1, 9), QueryClosest, PathAccuracy)
	require.True(t, ok)
	assert.Equal(t, vmath.V2(9, 1), path[0])
	assert.Equal(t, m.Centroid(3), path[len(path)-1])
}

func TestFindPathDisconnected(t *testing.T) {
	m, err := NewMesh(
		[]vmath.Vec3{
			vmath.V2(0, 0), vmath.V2(1, 0), vmath.V2(0, 1),
			vmath.V2(10, 10), vmath.V2(11, 10), vmath.V2(10, 11),
		},
		[]Triangle{Tri(0, 1, 2), Tri(3, 4, 5)},
	)
	require.NoError(t, err)

	path, ok := m.FindPath(vmath.V2(0.2, 0.2), vmath.V2(10.2, 10.2), QueryAccuracy, PathAccuracy)
	assert.False(t, ok)
	assert.Nil(t, path)
}

func TestFindPathSampleSceneAvoidsHole(t *testing.T) {
	m := sampleMesh(t)

	// From the lower open area to the upper-left strip; the straight line crosses the hole
	start := vmath.V2(400, 450)
	target := vmath.V2(300, 75)
	path, ok := m.FindPath(start, target, QueryAccuracy, PathAccuracy)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(path), 3)
	assert.Equal(t, start, path[0])
	assert.InDelta(t, 300, path[len(path)-1].X, 1e-9)
	assert.InDelta(t, 75, path[len(path)-1].Y, 1e-9)

	// Every waypoint stays on the surface
	for i, p := range path {
		_, _, d := m.ClosestPoint(p)
		assert.InDelta(t, 0, d, 1e-6, "waypoint %d off mesh", i)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.First()
	assert.False(t, ok)

	a := lMesh(t)
	b := sampleMesh(t)

	idA, err := reg.Register(a)
	require.NoError(t, err)
	_, err = reg.Register(b)
	require.NoError(t, err)

	_, err = reg.Register(a)
	assert.ErrorIs(t, err, ErrDuplicateMesh)
	_, err = reg.Register(nil)
	assert.ErrorIs(t, err, ErrNilMesh)

	first, ok := reg.First()
	require.True(t, ok)
	assert.Equal(t, idA, first.ID())
	assert.Equal(t, []*Mesh{a, b}, reg.Meshes())

	got, ok := reg.Lookup(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	reg.Seal()
	assert.True(t, reg.Sealed())
	_, err = reg.Register(sampleMesh(t))
	assert.ErrorIs(t, err, ErrRegistrySealed)
	assert.Equal(t, 2, reg.Len())
}

func TestEngineUnknownMesh(t *testing.T) {
	reg := NewRegistry()
	eng := NewEngine(reg)

	path, ok := eng.ComputePath(vmath.V2(0, 0), vmath.V2(1, 1), MeshID{}, QueryAccuracy, PathAccuracy)
	assert.False(t, ok)
	assert.Nil(t, path)
}

func TestEngineDelegatesToMesh(t *testing.T) {
	reg := NewRegistry()
	m := lMesh(t)
	id, err := reg.Register(m)
	require.NoError(t, err)

	var q Querier = NewEngine(reg)
	path, ok := q.ComputePath(vmath.V2(9, 1), vmath.V2(1, 9), id, QueryAccuracy, PathAccuracy)
	require.True(t, ok)
	assertPath(t, []vmath.Vec3{vmath.V2(9, 1), vmath.V2(2, 2), vmath.V2(1, 9)}, path)
}

func TestHeapOrdering(t *testing.T) {
	var h minHeap
	for i, c := range []float64{5, 1, 4, 2, 3} {
		h.push(heapEntry{idx: i, cost: c})
	}
	var got []float64
	for len(h) > 0 {
		got = append(got, h.pop().cost)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}
