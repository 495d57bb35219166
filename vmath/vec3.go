package vmath

import (
	"math"
)

// Epsilon is the distance under which two points are treated as coincident
const Epsilon = 1e-9

// Vec3 is a float64 3D vector in world units
// Navigation meshes lie in the XY plane; Z is carried through interpolation
type Vec3 struct {
	X, Y, Z float64
}

// V3 builds a Vec3 from components
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// V2 builds a Vec3 on the z=0 plane
func V2(x, y float64) Vec3 {
	return Vec3{X: x, Y: y}
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

// V3Dist returns the euclidean distance between a and b
func V3Dist(a, b Vec3) float64 {
	return V3Mag(V3Sub(b, a))
}

func V3Normalize(v Vec3) Vec3 {
	mag := V3Mag(v)
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3Lerp interpolates from a to b, t in [0,1] is not enforced
func V3Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3MoveTowards moves from toward to by at most maxDist
// Returns the new point and the distance actually covered
// Lands exactly on to when maxDist reaches it
func V3MoveTowards(from, to Vec3, maxDist float64) (Vec3, float64) {
	dist := V3Dist(from, to)
	if dist <= maxDist || dist == 0 {
		return to, dist
	}
	return V3Lerp(from, to, maxDist/dist), maxDist
}

// V3Near reports whether a and b are within eps of each other
func V3Near(a, b Vec3, eps float64) bool {
	return V3MagSq(V3Sub(b, a)) <= eps*eps
}

// V3Midpoint returns the point halfway between a and b
func V3Midpoint(a, b Vec3) Vec3 {
	return V3Lerp(a, b, 0.5)
}

// Cross2 is the z component of (a-o)x(b-o) in the XY plane
// Positive when b lies to the left of the ray o->a
func Cross2(o, a, b Vec3) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
