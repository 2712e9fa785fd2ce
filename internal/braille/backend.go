package braille

import (
	"image/color"
	"math"
	"sort"

	"github.com/san-kum/simcanvas/internal/surface"
)

// paperLuma is the luminance below which a fill counts as background: the
// covered dots are cleared and the cells take the color as their paper.
const paperLuma = 0.2

// Backend is a surface.Backend whose device pixels are braille dots.
type Backend struct {
	canvas *Canvas
	w, h   int
}

func NewBackend(cols, rows int) *Backend {
	b := &Backend{}
	b.Resize(cols*2, rows*4)
	return b
}

func (b *Backend) Canvas() *Canvas { return b.canvas }

// Resize sets the dot resolution, rounding up to whole cells.
func (b *Backend) Resize(w, h int) {
	b.w, b.h = max(w, 0), max(h, 0)
	b.canvas = NewCanvas((b.w+1)/2, (b.h+3)/4)
}

func (b *Backend) Size() (int, int) { return b.w, b.h }

func (b *Backend) ClearAll() { b.canvas.Clear() }

func (b *Backend) FillAll(c color.RGBA) {
	b.canvas.Clear()
	if c.A == 0 {
		return
	}
	if isPaper(c) {
		for row := range b.canvas.Paper {
			for col := range b.canvas.Paper[row] {
				b.canvas.Paper[row][col] = c
			}
		}
		return
	}
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			b.canvas.Set(x, y, c)
		}
	}
}

func isPaper(c color.RGBA) bool {
	if c.A == 0 {
		return true
	}
	// premultiplied, so scale back by alpha
	a := float64(c.A)
	luma := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / a
	return luma < paperLuma
}

// FillPolygon scan-converts pts with the even-odd rule, sampling each dot at
// its centre.
func (b *Backend) FillPolygon(pts []surface.Point, c color.RGBA) {
	if len(pts) < 3 || b.w == 0 || b.h == 0 {
		return
	}
	paper := isPaper(c)
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	y0 := max(int(math.Floor(minY)), 0)
	y1 := min(int(math.Ceil(maxY)), b.h-1)

	var xs []float64
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for i := range pts {
			p, q := pts[i], pts[(i+1)%len(pts)]
			if (p.Y <= sy) == (q.Y <= sy) {
				continue
			}
			xs = append(xs, p.X+(sy-p.Y)/(q.Y-p.Y)*(q.X-p.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xa := max(int(math.Ceil(xs[i]-0.5)), 0)
			xb := min(int(math.Floor(xs[i+1]-0.5)), b.w-1)
			for x := xa; x <= xb; x++ {
				if paper {
					b.canvas.Unset(x, y)
					b.canvas.Paper[y/4][x/2] = c
				} else {
					b.canvas.Set(x, y, c)
				}
			}
		}
	}
}

// StrokePolyline draws one-dot Bresenham segments; wider strokes add a
// parallel segment on each side.
func (b *Backend) StrokePolyline(pts []surface.Point, closed bool, width float64, c color.RGBA) {
	if len(pts) < 2 || isPaper(c) {
		return
	}
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		p, q := pts[i], pts[(i+1)%n]
		x0, y0 := int(math.Floor(p.X)), int(math.Floor(p.Y))
		x1, y1 := int(math.Floor(q.X)), int(math.Floor(q.Y))
		b.canvas.DrawLine(x0, y0, x1, y1, c)
		if width >= 3 {
			ox, oy := 0, 1
			if absInt(y1-y0) > absInt(x1-x0) {
				ox, oy = 1, 0
			}
			b.canvas.DrawLine(x0+ox, y0+oy, x1+ox, y1+oy, c)
			b.canvas.DrawLine(x0-ox, y0-oy, x1-ox, y1-oy, c)
		}
	}
}

// Text places s in the cell containing the baseline point. Size is ignored;
// a terminal has one glyph size.
func (b *Backend) Text(s string, at surface.Point, _ float64, c color.RGBA) {
	col := int(math.Floor(at.X / 2))
	row := int(math.Floor((at.Y - 1) / 4))
	b.canvas.PutText(col, row, s, c)
}
