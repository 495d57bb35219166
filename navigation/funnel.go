package navigation

import (
	"github.com/lixenwraith/navagent/vmath"
)

// portal is a shared edge crossed by the corridor, oriented along travel direction
type portal struct {
	left, right vmath.Vec3
}

// portals builds the crossing list bracketed by degenerate start/end portals
func (m *Mesh) portals(corridor []int, from, to vmath.Vec3) []portal {
	out := make([]portal, 0, len(corridor)+1)
	out = append(out, portal{from, from})

	for i := 0; i+1 < len(corridor); i++ {
		cur, next := corridor[i], corridor[i+1]
		for _, l := range m.links[cur] {
			if l.Triangle != next {
				continue
			}
			u, v := m.vertices[l.U], m.vertices[l.V]
			c := m.centroids[cur]
			// Viewed from inside cur, v left of c->u means v is the left endpoint
			if vmath.Cross2(c, u, v) > 0 {
				out = append(out, portal{left: v, right: u})
			} else {
				out = append(out, portal{left: u, right: v})
			}
			break
		}
	}

	out = append(out, portal{to, to})
	return out
}

// midpointPath routes through the center of every portal
func midpointPath(portals []portal) []vmath.Vec3 {
	out := make([]vmath.Vec3, 0, len(portals))
	for _, p := range portals {
		out = append(out, vmath.V3Midpoint(p.left, p.right))
	}
	return out
}

// funnelPath string-pulls the corridor into the shortest polyline (simple stupid funnel)
func funnelPath(portals []portal) []vmath.Vec3 {
	apex := portals[0].left
	left, right := portals[0].left, portals[0].right
	apexIdx, leftIdx, rightIdx := 0, 0, 0

	out := []vmath.Vec3{apex}

	for i := 1; i < len(portals); i++ {
		l, r := portals[i].left, portals[i].right

		// Tighten right side
		if vmath.Cross2(apex, right, r) >= 0 {
			if vmath.V3Near(apex, right, pointEpsilon) || vmath.Cross2(apex, left, r) < 0 {
				right, rightIdx = r, i
			} else {
				// Right crossed left: left corner becomes the new apex
				apex, apexIdx = left, leftIdx
				out = append(out, apex)
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}

		// Tighten left side
		if vmath.Cross2(apex, left, l) <= 0 {
			if vmath.V3Near(apex, left, pointEpsilon) || vmath.Cross2(apex, right, l) > 0 {
				left, leftIdx = l, i
			} else {
				apex, apexIdx = right, rightIdx
				out = append(out, apex)
				left, right = apex, apex
				leftIdx, rightIdx = apexIdx, apexIdx
				i = apexIdx
				continue
			}
		}
	}

	end := portals[len(portals)-1].left
	if !vmath.V3Near(out[len(out)-1], end, pointEpsilon) {
		out = append(out, end)
	}
	return out
}
