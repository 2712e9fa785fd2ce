package pages

import (
	"image/color"
	"math"

	"github.com/san-kum/simcanvas/internal/surface"
)

var (
	colBackground = color.RGBA{0x10, 0x12, 0x1c, 0xff}
	colAxis       = color.RGBA{0x66, 0x6a, 0x88, 0xff}
	colText       = color.RGBA{0xe0, 0xe6, 0xf0, 0xff}
	colPrimary    = color.RGBA{0x00, 0xd7, 0xff, 0xff}
	colSecondary  = color.RGBA{0xff, 0x5f, 0xd7, 0xff}
	colAccent     = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	colGood       = color.RGBA{0x5f, 0xff, 0x87, 0xff}
	colWarm       = color.RGBA{0xff, 0x87, 0x00, 0xff}
)

// Rect is an axis-aligned region in world units.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Viewport maps world coordinates (y up) into a logical screen rectangle
// (y down), preserving aspect ratio.
type Viewport struct {
	world  Rect
	scale  float64
	ox, oy float64
}

// Fit centres world inside a w x h screen with pad logical pixels of margin.
func Fit(w, h, pad float64, world Rect) Viewport {
	ww, wh := world.Width(), world.Height()
	if ww <= 0 {
		ww = 1
	}
	if wh <= 0 {
		wh = 1
	}
	aw, ah := math.Max(w-2*pad, 1), math.Max(h-2*pad, 1)
	scale := math.Min(aw/ww, ah/wh)
	ox := pad + (aw-ww*scale)/2
	oy := pad + (ah-wh*scale)/2
	return Viewport{world: world, scale: scale, ox: ox, oy: oy}
}

func (v Viewport) Scale() float64 { return v.scale }

func (v Viewport) ToScreen(x, y float64) (float64, float64) {
	sx := v.ox + (x-v.world.MinX)*v.scale
	sy := v.oy + (v.world.MaxY-y)*v.scale
	return sx, sy
}

func (v Viewport) ToWorld(sx, sy float64) (float64, float64) {
	return v.world.MinX + (sx-v.ox)/v.scale, v.world.MaxY - (sy-v.oy)/v.scale
}

func background(ctx surface.Context, w, h float64) {
	ctx.SetFillColor(colBackground)
	ctx.FillRect(0, 0, w, h)
}

func label(ctx surface.Context, x, y float64, s string) {
	ctx.SetFillColor(colText)
	ctx.FillText(s, x, y)
}

func line(ctx surface.Context, c color.Color, width, x0, y0, x1, y1 float64) {
	ctx.SetStrokeColor(c)
	ctx.SetLineWidth(width)
	ctx.BeginPath()
	ctx.MoveTo(x0, y0)
	ctx.LineTo(x1, y1)
	ctx.Stroke()
}

func disc(ctx surface.Context, c color.Color, x, y, r float64) {
	ctx.SetFillColor(c)
	ctx.BeginPath()
	ctx.Arc(x, y, r, 0, 2*math.Pi)
	ctx.ClosePath()
	ctx.FillPath()
}

// polyline strokes pts given in world coordinates.
func polyline(ctx surface.Context, vp Viewport, c color.Color, width float64, xs, ys []float64) {
	if len(xs) < 2 {
		return
	}
	ctx.SetStrokeColor(c)
	ctx.SetLineWidth(width)
	ctx.BeginPath()
	for i := range xs {
		sx, sy := vp.ToScreen(xs[i], ys[i])
		if i == 0 {
			ctx.MoveTo(sx, sy)
		} else {
			ctx.LineTo(sx, sy)
		}
	}
	ctx.Stroke()
}

// axes draws the world x and y axes when they are inside the viewport.
func axes(ctx surface.Context, vp Viewport) {
	w := vp.world
	if w.MinY <= 0 && w.MaxY >= 0 {
		x0, y0 := vp.ToScreen(w.MinX, 0)
		x1, _ := vp.ToScreen(w.MaxX, 0)
		line(ctx, colAxis, 1, x0, y0, x1, y0)
	}
	if w.MinX <= 0 && w.MaxX >= 0 {
		x0, y0 := vp.ToScreen(0, w.MinY)
		_, y1 := vp.ToScreen(0, w.MaxY)
		line(ctx, colAxis, 1, x0, y0, x0, y1)
	}
}

// series plots values over [0, len) against [lo, hi] inside r.
func series(ctx surface.Context, r Rect, c color.Color, values []float64, lo, hi float64) {
	if len(values) < 2 || hi <= lo {
		return
	}
	ctx.SetStrokeColor(c)
	ctx.SetLineWidth(1.5)
	ctx.BeginPath()
	step := r.Width() / float64(len(values)-1)
	for i, v := range values {
		x := r.MinX + float64(i)*step
		y := r.MaxY - (v-lo)/(hi-lo)*r.Height()
		if i == 0 {
			ctx.MoveTo(x, y)
		} else {
			ctx.LineTo(x, y)
		}
	}
	ctx.Stroke()
}

func bounds(sets ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, vals := range sets {
		for _, v := range vals {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}
