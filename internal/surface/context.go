package surface

import (
	"image/color"
	"math"
)

// Context is the 2D drawing API handed to draw callbacks. Coordinates are in
// logical pixels once the surface has applied its device-pixel-ratio scale.
type Context interface {
	ResetTransform()
	Scale(sx, sy float64)
	Translate(tx, ty float64)
	Transform() Matrix

	// Clear makes the whole backing buffer transparent.
	Clear()
	// Fill paints the whole backing buffer with c.
	Fill(c color.Color)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	SetFontSize(px float64)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, start, end float64)
	ClosePath()
	Stroke()
	FillPath()

	FillText(s string, x, y float64)
}

// Backend renders primitives in device pixels.
type Backend interface {
	Resize(w, h int)
	Size() (w, h int)
	ClearAll()
	FillAll(c color.RGBA)
	StrokePolyline(pts []Point, closed bool, width float64, c color.RGBA)
	FillPolygon(pts []Point, c color.RGBA)
	Text(s string, at Point, size float64, c color.RGBA)
}

type subpath struct {
	pts    []Point
	closed bool
}

// Context2D implements Context on top of a Backend.
type Context2D struct {
	backend   Backend
	m         Matrix
	fill      color.RGBA
	stroke    color.RGBA
	lineWidth float64
	fontSize  float64
	paths     []subpath
}

func NewContext(b Backend) *Context2D {
	return &Context2D{
		backend:   b,
		m:         Identity(),
		fill:      color.RGBA{A: 255},
		stroke:    color.RGBA{A: 255},
		lineWidth: 1,
		fontSize:  10,
	}
}

func (c *Context2D) Backend() Backend { return c.backend }

func (c *Context2D) ResetTransform()          { c.m = Identity() }
func (c *Context2D) Scale(sx, sy float64)     { c.m = c.m.Mul(ScaleMatrix(sx, sy)) }
func (c *Context2D) Translate(tx, ty float64) { c.m = c.m.Mul(TranslateMatrix(tx, ty)) }
func (c *Context2D) Transform() Matrix        { return c.m }

func (c *Context2D) Clear()               { c.backend.ClearAll() }
func (c *Context2D) Fill(col color.Color) { c.backend.FillAll(toRGBA(col)) }

func (c *Context2D) SetFillColor(col color.Color)   { c.fill = toRGBA(col) }
func (c *Context2D) SetStrokeColor(col color.Color) { c.stroke = toRGBA(col) }

func (c *Context2D) SetLineWidth(w float64) {
	if w > 0 {
		c.lineWidth = w
	}
}

func (c *Context2D) SetFontSize(px float64) {
	if px > 0 {
		c.fontSize = px
	}
}

func (c *Context2D) rect(x, y, w, h float64) []Point {
	return []Point{
		c.m.Apply(x, y),
		c.m.Apply(x+w, y),
		c.m.Apply(x+w, y+h),
		c.m.Apply(x, y+h),
	}
}

func (c *Context2D) FillRect(x, y, w, h float64) {
	c.backend.FillPolygon(c.rect(x, y, w, h), c.fill)
}

func (c *Context2D) StrokeRect(x, y, w, h float64) {
	c.backend.StrokePolyline(c.rect(x, y, w, h), true, c.deviceLineWidth(), c.stroke)
}

func (c *Context2D) BeginPath() { c.paths = c.paths[:0] }

func (c *Context2D) MoveTo(x, y float64) {
	c.paths = append(c.paths, subpath{pts: []Point{c.m.Apply(x, y)}})
}

func (c *Context2D) LineTo(x, y float64) {
	if len(c.paths) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := &c.paths[len(c.paths)-1]
	last.pts = append(last.pts, c.m.Apply(x, y))
}

// Arc appends a circular arc from start to end (radians, clockwise in screen
// space). As on an HTML canvas, it connects to the current subpath if one is open.
func (c *Context2D) Arc(cx, cy, r, start, end float64) {
	if r < 0 {
		return
	}
	sweep := end - start
	rd := r * c.m.LinearScale()
	n := int(math.Ceil(math.Abs(sweep) * rd / 3))
	if n < 8 {
		n = 8
	}
	if n > 256 {
		n = 256
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 && len(c.paths) == 0 {
			c.MoveTo(x, y)
			continue
		}
		c.LineTo(x, y)
	}
}

func (c *Context2D) ClosePath() {
	if len(c.paths) == 0 {
		return
	}
	c.paths[len(c.paths)-1].closed = true
}

func (c *Context2D) Stroke() {
	w := c.deviceLineWidth()
	for _, p := range c.paths {
		if len(p.pts) < 2 {
			continue
		}
		c.backend.StrokePolyline(p.pts, p.closed, w, c.stroke)
	}
}

func (c *Context2D) FillPath() {
	for _, p := range c.paths {
		if len(p.pts) < 3 {
			continue
		}
		c.backend.FillPolygon(p.pts, c.fill)
	}
}

func (c *Context2D) FillText(s string, x, y float64) {
	c.backend.Text(s, c.m.Apply(x, y), c.fontSize*c.m.LinearScale(), c.fill)
}

func (c *Context2D) deviceLineWidth() float64 {
	return c.lineWidth * c.m.LinearScale()
}

func toRGBA(col color.Color) color.RGBA {
	if col == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(col).(color.RGBA)
}
