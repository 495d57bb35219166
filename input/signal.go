// Package input turns host device state into the per-tick command signal.
package input

import (
	"github.com/lixenwraith/navagent/vmath"
)

// Pointer is a position in viewport pixel coordinates, origin top-left, y down
type Pointer struct {
	X, Y float64
}

// Signal is the per-tick command snapshot consumed by the command stage
// Buttons are "currently held" states; Pointer is nil when the position is unknown
type Signal struct {
	Primary   bool
	Secondary bool
	Tertiary  bool
	Pointer   *Pointer
}

// Idle reports whether no button is held
func (s Signal) Idle() bool {
	return !s.Primary && !s.Secondary && !s.Tertiary
}

// Viewport describes the world-space extent visible to the pointer
// World origin is bottom-left, y up
type Viewport struct {
	Width  float64
	Height float64
}

// ToWorld clamps a pointer into the viewport and flips y into world space
// Resulting point lies on the z=0 plane
func (v Viewport) ToWorld(p Pointer) vmath.Vec3 {
	x := vmath.Clamp(p.X, 0, v.Width)
	y := v.Height - vmath.Clamp(p.Y, 0, v.Height)
	return vmath.V2(x, y)
}

// ToPointer is the inverse of ToWorld for points inside the viewport
func (v Viewport) ToPointer(w vmath.Vec3) Pointer {
	return Pointer{X: w.X, Y: v.Height - w.Y}
}
