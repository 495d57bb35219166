// Package render draws simulation frames onto a tcell screen.
package render

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/system"
	"github.com/lixenwraith/navagent/vmath"
)

// Agent marker is a 6-segment circle in world units
const (
	agentRadius   = 20.0
	agentSegments = 6
)

// Glyphs
const (
	runeMesh     = '.'
	runePath     = '·'
	runeWaypoint = '+'
	runeTarget   = 'x'
	runeAgent    = 'o'
	runePlayer   = '@'
	runeRing     = '*'
)

type edge struct {
	a, b vmath.Vec3
}

// Presenter renders frames: mesh wireframe, green paths, red agent rings, status bar
// The bottom screen row is the status bar; the rows above map onto the viewport
type Presenter struct {
	mu       sync.Mutex
	screen   tcell.Screen
	viewport input.Viewport
	buffer   *Buffer
	stats    *status.Registry

	showMesh atomic.Bool

	edgesFor *navigation.Registry
	edges    []edge
}

// NewPresenter creates a presenter drawing onto screen; stats may be nil
func NewPresenter(screen tcell.Screen, viewport input.Viewport, stats *status.Registry) *Presenter {
	p := &Presenter{
		screen:   screen,
		viewport: viewport,
		buffer:   NewBuffer(0, 0),
		stats:    stats,
	}
	p.showMesh.Store(true)
	return p
}

// ToggleMesh flips wireframe visibility and returns the new state
func (p *Presenter) ToggleMesh() bool {
	for {
		old := p.showMesh.Load()
		if p.showMesh.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Present implements system.Presenter
func (p *Presenter) Present(f *system.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.draw(f)
	p.buffer.Flush(p.screen)
	p.screen.Show()
}

// PlayRows returns the screen rows available to the viewport for a screen height
func PlayRows(height int) int {
	if height <= 1 {
		return height
	}
	return height - 1
}

func (p *Presenter) draw(f *system.Frame) {
	cols, rows := p.screen.Size()
	p.buffer.Resize(cols, rows)
	p.buffer.Fill(Cell{Rune: ' ', Style: tcell.StyleDefault.Background(RgbCanvas), Layer: LayerCanvas})
	if cols == 0 || rows == 0 {
		return
	}

	if p.showMesh.Load() {
		p.drawMesh(f.Registry, cols, rows)
	}
	for i := range f.Agents {
		p.drawPath(&f.Agents[i], cols, rows)
	}
	for i := range f.Agents {
		p.drawAgent(&f.Agents[i], cols, rows)
	}
	p.drawStatus(f, cols, rows)
}

// toCell maps a world point onto the play area
func (p *Presenter) toCell(w vmath.Vec3, cols, rows int) (int, int) {
	play := PlayRows(rows)
	ptr := p.viewport.ToPointer(w)
	x := int(math.Floor(ptr.X * float64(cols) / p.viewport.Width))
	y := int(math.Floor(ptr.Y * float64(play) / p.viewport.Height))
	if x >= cols {
		x = cols - 1
	}
	if y >= play {
		y = play - 1
	}
	return x, y
}

func (p *Presenter) line(a, b vmath.Vec3, cols, rows int, r rune, style tcell.Style, layer Layer) {
	x1, y1 := p.toCell(a, cols, rows)
	x2, y2 := p.toCell(b, cols, rows)
	play := PlayRows(rows)
	t := vmath.NewLineTraverser(x1, y1, x2, y2)
	for t.Next() {
		x, y := t.Pos()
		if y < play {
			p.buffer.Set(x, y, r, style, layer)
		}
	}
}

func (p *Presenter) meshEdges(reg *navigation.Registry) []edge {
	if reg == p.edgesFor {
		return p.edges
	}
	p.edgesFor = reg
	p.edges = p.edges[:0]
	if reg == nil {
		return nil
	}

	type key struct{ u, v uint32 }
	for _, m := range reg.Meshes() {
		seen := make(map[key]bool)
		verts := m.Vertices()
		for _, t := range m.Triangles() {
			for _, e := range [3][2]uint32{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}} {
				k := key{e[0], e[1]}
				if k.u > k.v {
					k.u, k.v = k.v, k.u
				}
				if seen[k] {
					continue
				}
				seen[k] = true
				p.edges = append(p.edges, edge{verts[k.u], verts[k.v]})
			}
		}
	}
	return p.edges
}

func (p *Presenter) drawMesh(reg *navigation.Registry, cols, rows int) {
	style := tcell.StyleDefault.Foreground(RgbMesh).Background(RgbCanvas)
	for _, e := range p.meshEdges(reg) {
		p.line(e.a, e.b, cols, rows, runeMesh, style, LayerMesh)
	}
}

func (p *Presenter) drawPath(a *system.AgentView, cols, rows int) {
	if len(a.Path) > 0 {
		seg := tcell.StyleDefault.Foreground(RgbPath).Background(RgbCanvas)
		from := a.Position
		for _, wp := range a.Path {
			p.line(from, wp, cols, rows, runePath, seg, LayerPath)
			from = wp
		}
		wpStyle := tcell.StyleDefault.Foreground(RgbWaypoint).Background(RgbCanvas).Bold(true)
		for _, wp := range a.Path {
			x, y := p.toCell(wp, cols, rows)
			p.buffer.Set(x, y, runeWaypoint, wpStyle, LayerPath)
		}
	}

	if a.Target.Kind == agent.TargetPoint {
		x, y := p.toCell(a.Target.Point, cols, rows)
		p.buffer.Set(x, y, runeTarget, tcell.StyleDefault.Foreground(RgbTarget).Background(RgbCanvas).Bold(true), LayerTarget)
	}
}

func (p *Presenter) drawAgent(a *system.AgentView, cols, rows int) {
	color := RgbAgent
	if a.Arrived {
		color = RgbArrived
	}
	style := tcell.StyleDefault.Foreground(color).Background(RgbCanvas)

	var ring [agentSegments]vmath.Vec3
	for i := range ring {
		angle := 2 * math.Pi * float64(i) / agentSegments
		ring[i] = vmath.V3Add(a.Position, vmath.V2(agentRadius*math.Cos(angle), agentRadius*math.Sin(angle)))
	}
	for i := range ring {
		p.line(ring[i], ring[(i+1)%agentSegments], cols, rows, runeRing, style, LayerAgent)
	}

	center := runeAgent
	if a.Player {
		center = runePlayer
	}
	x, y := p.toCell(a.Position, cols, rows)
	p.buffer.Set(x, y, center, style.Bold(true), LayerAgent)
}

func (p *Presenter) drawStatus(f *system.Frame, cols, rows int) {
	y := rows - 1
	bg := RgbStatusBg
	if f.Paused {
		bg = RgbPausedBg
	}
	style := tcell.StyleDefault.Foreground(RgbStatusBar).Background(bg)
	for x := 0; x < cols; x++ {
		p.buffer.Set(x, y, ' ', style, LayerStatus)
	}

	text := fmt.Sprintf(" tick %d | agents %d | query %s | path %s", f.Tick, len(f.Agents), f.Query, f.Mode)
	if p.stats != nil {
		text += fmt.Sprintf(" | paths %d | unreachable %d | arrivals %d",
			p.stats.Ints.Get(status.KeyPathsComputed).Load(),
			p.stats.Ints.Get(status.KeyUnreachable).Load(),
			p.stats.Ints.Get(status.KeyArrivals).Load(),
		)
	}
	if f.Paused {
		text += " | PAUSED"
	}
	if !p.showMesh.Load() {
		text += " | mesh hidden"
	}
	p.buffer.Text(0, y, text, style, LayerStatus)
}
