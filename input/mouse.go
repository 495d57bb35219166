package input

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// MouseTracker folds tcell mouse events into a Signal
// Terminal cells are scaled to viewport pixels using the current screen size
// Written from the event goroutine, read from the tick goroutine
type MouseTracker struct {
	mu       sync.Mutex
	viewport Viewport
	cols     int
	rows     int
	buttons  tcell.ButtonMask
	pointer  *Pointer
}

// NewMouseTracker creates a tracker for a screen of cols x rows cells
func NewMouseTracker(viewport Viewport, cols, rows int) *MouseTracker {
	return &MouseTracker{
		viewport: viewport,
		cols:     cols,
		rows:     rows,
	}
}

// Resize updates the cell grid dimensions
func (m *MouseTracker) Resize(cols, rows int) {
	m.mu.Lock()
	m.cols, m.rows = cols, rows
	m.mu.Unlock()
}

// HandleEvent consumes an event; returns false for non-mouse events
func (m *MouseTracker) HandleEvent(ev tcell.Event) bool {
	me, ok := ev.(*tcell.EventMouse)
	if !ok {
		return false
	}

	x, y := me.Position()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.buttons = me.Buttons() & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	if m.cols > 0 && m.rows > 0 {
		// Cell center in pixel space
		m.pointer = &Pointer{
			X: (float64(x) + 0.5) * m.viewport.Width / float64(m.cols),
			Y: (float64(y) + 0.5) * m.viewport.Height / float64(m.rows),
		}
	}
	return true
}

// Snapshot returns the command signal for the current tick
func (m *MouseTracker) Snapshot() Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Signal{
		Primary:   m.buttons&tcell.ButtonPrimary != 0,
		Secondary: m.buttons&tcell.ButtonSecondary != 0,
		Tertiary:  m.buttons&tcell.ButtonMiddle != 0,
	}
	if m.pointer != nil {
		p := *m.pointer
		s.Pointer = &p
	}
	return s
}
