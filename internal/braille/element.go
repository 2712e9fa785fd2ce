package braille

import "github.com/san-kum/simcanvas/internal/surface"

// DPR is the terminal's device pixel ratio: one logical unit is two dots.
const DPR = 2

// Element is a terminal region of cols x rows cells. Its logical size is
// cols wide and rows*2 tall, so the backing buffer is exactly the dot grid.
type Element struct {
	surface.Listeners

	cols, rows int
	backend    *Backend
	ctx        *surface.Context2D
}

func NewElement(cols, rows int) *Element {
	b := NewBackend(0, 0)
	return &Element{cols: cols, rows: rows, backend: b, ctx: surface.NewContext(b)}
}

func (e *Element) ClientSize() (float64, float64) {
	return float64(e.cols), float64(e.rows * 2)
}

func (e *Element) DevicePixelRatio() float64 { return DPR }

func (e *Element) Context() (surface.Context, bool) { return e.ctx, true }

func (e *Element) SetBackingSize(w, h int) { e.backend.Resize(w, h) }

// SetCells changes the region size and notifies resize listeners.
func (e *Element) SetCells(cols, rows int) {
	if cols == e.cols && rows == e.rows {
		return
	}
	e.cols, e.rows = cols, rows
	e.Notify()
}

func (e *Element) Cells() (cols, rows int) { return e.cols, e.rows }

func (e *Element) Canvas() *Canvas { return e.backend.Canvas() }

// Render returns the colored terminal text of the last frame.
func (e *Element) Render() string { return e.backend.Canvas().Render() }

func (e *Element) String() string { return e.backend.Canvas().String() }
