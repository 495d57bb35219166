package render

import "github.com/gdamore/tcell/v2"

// Layer orders what may overwrite a cell; higher wins, equal overwrites
type Layer uint8

const (
	LayerCanvas Layer = iota
	LayerMesh
	LayerPath
	LayerTarget
	LayerAgent
	LayerStatus
)

// Cell is one composited terminal cell
type Cell struct {
	Rune  rune
	Style tcell.Style
	Layer Layer
}

// Buffer composites layered drawing before a single flush to the screen
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a cleared buffer
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
}

// Size returns buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Fill resets every cell using exponential copy
func (b *Buffer) Fill(c Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a cell unless a higher layer already owns it
func (b *Buffer) Set(x, y int, r rune, style tcell.Style, layer Layer) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	if c.Layer > layer {
		return
	}
	*c = Cell{Rune: r, Style: style, Layer: layer}
}

// Get returns the cell at x, y; out of bounds yields the zero Cell
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Text writes s starting at x, y, clipped to the buffer
func (b *Buffer) Text(x, y int, s string, style tcell.Style, layer Layer) int {
	for _, r := range s {
		if x >= b.width {
			break
		}
		b.Set(x, y, r, style, layer)
		x++
	}
	return x
}

// Flush copies every cell to screen; the caller calls Show
func (b *Buffer) Flush(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, c.Style)
		}
	}
}
