// Package raster renders a drawing surface into an in-memory RGBA image.
// It backs the headless snapshot, record and trace commands and the tests.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/simcanvas/internal/surface"
)

// glyphHeight is the line height of basicfont.Face7x13.
const glyphHeight = 13

// Backend is a surface.Backend over an *image.RGBA.
type Backend struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

func NewBackend(w, h int) *Backend {
	b := &Backend{}
	b.Resize(w, h)
	return b
}

func (b *Backend) Image() *image.RGBA { return b.img }

func (b *Backend) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	b.img = image.NewRGBA(image.Rect(0, 0, w, h))
	b.ras = vector.NewRasterizer(w, h)
}

func (b *Backend) Size() (int, int) {
	r := b.img.Bounds()
	return r.Dx(), r.Dy()
}

func (b *Backend) ClearAll() {
	clear(b.img.Pix)
}

func (b *Backend) FillAll(c color.RGBA) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (b *Backend) empty() bool {
	w, h := b.Size()
	return w == 0 || h == 0
}

func (b *Backend) FillPolygon(pts []surface.Point, c color.RGBA) {
	if len(pts) < 3 || b.empty() {
		return
	}
	b.begin()
	b.polygon(pts)
	b.paint(c)
}

// StrokePolyline fills one quad per segment plus a square cap at each
// vertex so joints have no gaps.
func (b *Backend) StrokePolyline(pts []surface.Point, closed bool, width float64, c color.RGBA) {
	if len(pts) < 2 || b.empty() {
		return
	}
	hw := math.Max(width, 1) / 2
	b.begin()
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		p, q := pts[i], pts[(i+1)%n]
		dx, dy := q.X-p.X, q.Y-p.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		b.polygon([]surface.Point{
			{X: p.X + nx, Y: p.Y + ny},
			{X: q.X + nx, Y: q.Y + ny},
			{X: q.X - nx, Y: q.Y - ny},
			{X: p.X - nx, Y: p.Y - ny},
		})
	}
	if hw > 1 {
		for _, p := range pts {
			b.polygon([]surface.Point{
				{X: p.X - hw, Y: p.Y - hw},
				{X: p.X + hw, Y: p.Y - hw},
				{X: p.X + hw, Y: p.Y + hw},
				{X: p.X - hw, Y: p.Y + hw},
			})
		}
	}
	b.paint(c)
}

// Text draws s with its baseline at at. Sizes other than the native 13px
// are scaled from the fixed bitmap face.
func (b *Backend) Text(s string, at surface.Point, size float64, c color.RGBA) {
	if s == "" || b.empty() {
		return
	}
	face := basicfont.Face7x13
	src := image.NewUniform(c)
	scale := size / glyphHeight
	if size <= 0 || math.Abs(scale-1) < 0.35 {
		d := font.Drawer{Dst: b.img, Src: src, Face: face, Dot: fixed.P(int(math.Round(at.X)), int(math.Round(at.Y)))}
		d.DrawString(s)
		return
	}

	w := font.MeasureString(face, s).Ceil()
	glyphs := image.NewRGBA(image.Rect(0, 0, w, glyphHeight))
	d := font.Drawer{Dst: glyphs, Src: src, Face: face, Dot: fixed.P(0, face.Ascent)}
	d.DrawString(s)

	top := at.Y - float64(face.Ascent)*scale
	dst := image.Rect(
		int(math.Round(at.X)), int(math.Round(top)),
		int(math.Round(at.X+float64(w)*scale)), int(math.Round(top+glyphHeight*scale)),
	)
	xdraw.ApproxBiLinear.Scale(b.img, dst, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

func (b *Backend) begin() {
	w, h := b.Size()
	b.ras.Reset(w, h)
}

func (b *Backend) polygon(pts []surface.Point) {
	b.ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		b.ras.LineTo(float32(p.X), float32(p.Y))
	}
	b.ras.ClosePath()
}

func (b *Backend) paint(c color.RGBA) {
	b.ras.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{})
}
