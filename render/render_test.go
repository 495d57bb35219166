package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/system"
	"github.com/lixenwraith/navagent/vmath"
)

var viewport = input.Viewport{Width: 800, Height: 600}

func sampleRegistry(t *testing.T) *navigation.Registry {
	t.Helper()
	mesh, err := navigation.NewMesh(
		[]vmath.Vec3{
			vmath.V2(50, 50), vmath.V2(500, 50), vmath.V2(500, 100), vmath.V2(100, 100), vmath.V2(100, 300),
			vmath.V2(700, 300), vmath.V2(700, 50), vmath.V2(750, 50), vmath.V2(750, 550), vmath.V2(50, 550),
		},
		[]navigation.Triangle{
			navigation.Tri(1, 2, 3), navigation.Tri(0, 1, 3), navigation.Tri(0, 3, 4), navigation.Tri(0, 4, 9),
			navigation.Tri(4, 8, 9), navigation.Tri(4, 5, 8), navigation.Tri(5, 7, 8), navigation.Tri(5, 6, 7),
		},
	)
	require.NoError(t, err)
	reg := navigation.NewRegistry()
	_, err = reg.Register(mesh)
	require.NoError(t, err)
	return reg
}

// 40x21 screen: 20 play rows, 20x30 world units per cell
func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 21)
	return screen
}

func frame(t *testing.T) *system.Frame {
	return &system.Frame{
		Tick:     3,
		Registry: sampleRegistry(t),
		Agents: []system.AgentView{{
			ID:       agent.New(vmath.Vec3{}, 0).ID(),
			Position: vmath.V2(400, 450),
			Path:     []vmath.Vec3{vmath.V2(600, 450)},
			Target:   agent.PointTarget(vmath.V2(600, 450)),
			Player:   true,
		}},
	}
}

func TestBufferLayering(t *testing.T) {
	b := NewBuffer(4, 2)
	b.Set(1, 1, 'a', tcell.StyleDefault, LayerAgent)
	b.Set(1, 1, 'm', tcell.StyleDefault, LayerMesh)
	assert.Equal(t, 'a', b.Get(1, 1).Rune)

	b.Set(1, 1, 's', tcell.StyleDefault, LayerStatus)
	assert.Equal(t, 's', b.Get(1, 1).Rune)

	b.Set(9, 9, 'z', tcell.StyleDefault, LayerStatus)
	assert.Equal(t, Cell{}, b.Get(9, 9))

	b.Fill(Cell{Rune: '-'})
	assert.Equal(t, '-', b.Get(3, 1).Rune)
	assert.Equal(t, LayerCanvas, b.Get(1, 1).Layer)

	end := b.Text(2, 0, "hello", tcell.StyleDefault, LayerStatus)
	assert.Equal(t, 4, end)
	assert.Equal(t, 'e', b.Get(3, 0).Rune)
}

func TestPresenterDrawsScene(t *testing.T) {
	screen := newScreen(t)
	stats := status.NewRegistry()
	stats.Ints.Get(status.KeyPathsComputed).Store(7)
	p := NewPresenter(screen, viewport, stats)

	p.Present(frame(t))

	mainc, _, style, _ := screen.GetContent(20, 5)
	assert.Equal(t, runePlayer, mainc)
	fg, _, _ := style.Decompose()
	assert.Equal(t, RgbAgent, fg)

	// Path runs right along row 5 towards the target mark
	assert.Equal(t, runePath, p.buffer.Get(25, 5).Rune)
	assert.Equal(t, runeTarget, p.buffer.Get(30, 5).Rune)

	// Ring cells surround the center
	assert.Equal(t, runeRing, p.buffer.Get(21, 5).Rune)

	// Bottom corridor edge (50,50)-(500,50) lands on row 18
	assert.Equal(t, runeMesh, p.buffer.Get(10, 18).Rune)
	fg, _, _ = p.buffer.Get(10, 18).Style.Decompose()
	assert.Equal(t, RgbMesh, fg)

	bar := ""
	for x := 0; x < 40; x++ {
		bar += string(p.buffer.Get(x, 20).Rune)
	}
	assert.Contains(t, bar, "tick 3")
}

func TestPresenterToggleMesh(t *testing.T) {
	screen := newScreen(t)
	p := NewPresenter(screen, viewport, nil)

	assert.False(t, p.ToggleMesh())
	p.Present(frame(t))
	assert.NotEqual(t, runeMesh, p.buffer.Get(10, 18).Rune)

	assert.True(t, p.ToggleMesh())
	p.Present(frame(t))
	assert.Equal(t, runeMesh, p.buffer.Get(10, 18).Rune)
}

func TestPresenterPausedStatusBar(t *testing.T) {
	screen := newScreen(t)
	p := NewPresenter(screen, viewport, nil)
	f := frame(t)
	f.Paused = true

	p.Present(f)
	_, bg, _ := p.buffer.Get(39, 20).Style.Decompose()
	assert.Equal(t, RgbPausedBg, bg)
}

func TestToCellClampsEdges(t *testing.T) {
	p := NewPresenter(nil, viewport, nil)
	x, y := p.toCell(vmath.V2(800, 0), 40, 21)
	assert.Equal(t, 39, x)
	assert.Equal(t, 19, y)

	x, y = p.toCell(vmath.V2(0, 600), 40, 21)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestPlayRows(t *testing.T) {
	assert.Equal(t, 20, PlayRows(21))
	assert.Equal(t, 1, PlayRows(1))
	assert.Equal(t, 0, PlayRows(0))
}
