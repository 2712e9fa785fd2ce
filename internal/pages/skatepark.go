package pages

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type SkateParams struct {
	Mass     float64
	Friction float64
	Gravity  float64
	Curve    float64
	StartX   float64
}

type SkateState struct {
	// Y is [x, v, thermal].
	Y  dynamo.State
	T  float64
	E0 float64
}

const skateMaxStep = 1.0 / 240

func SkatePark() Page {
	return &Definition[SkateState, SkateParams]{
		Meta: Info{
			Name:     "skatepark",
			Title:    "Skate Park Energy",
			Category: "physics",
			Summary:  "A skater in a half-pipe trading kinetic, potential and thermal energy.",
		},
		Defaults: SkateParams{Mass: 60, Friction: 0.05, Gravity: 9.8, Curve: 0.5, StartX: -4},
		Sliders: []Field[SkateParams]{
			slider("mass", "Mass (kg)", 20, 120, 1, func(p *SkateParams) *float64 { return &p.Mass }).restarts(),
			slider("friction", "Friction", 0, 0.5, 0.01, func(p *SkateParams) *float64 { return &p.Friction }),
			slider("gravity", "Gravity (m/s²)", 1, 25, 0.1, func(p *SkateParams) *float64 { return &p.Gravity }).restarts(),
			slider("curve", "Track curvature", 0.1, 1, 0.05, func(p *SkateParams) *float64 { return &p.Curve }).restarts(),
			slider("start", "Start position (m)", -6, -1, 0.1, func(p *SkateParams) *float64 { return &p.StartX }).restarts(),
		},
		Init:     initSkate,
		Update:   updateSkate,
		Draw:     drawSkate,
		Readouts: skateReadouts,
	}
}

func skater(p SkateParams) *models.Skater {
	return &models.Skater{Mass: p.Mass, Gravity: p.Gravity, Friction: p.Friction, K: p.Curve}
}

func initSkate(p SkateParams) SkateState {
	s := SkateState{Y: dynamo.State{p.StartX, 0, 0}}
	s.E0 = skater(p).Total(s.Y)
	return s
}

func updateSkate(s *SkateState, p SkateParams, dt float64) {
	sk := skater(p)
	n, h := substeps(dt, skateMaxStep)
	for i := 0; i < n; i++ {
		s.Y = sk.Step(rk4, s.T, s.Y, h)
		s.T += h
	}
}

func drawSkate(ctx surface.Context, f session.Frame, s *SkateState, p SkateParams) {
	background(ctx, f.Width, f.Height)

	sk := skater(p)
	span := 6.5
	top := sk.Height(span)
	vp := Fit(f.Width*0.72, f.Height, 16, Rect{MinX: -span, MinY: -0.5, MaxX: span, MaxY: top})

	const segments = 64
	xs := make([]float64, segments+1)
	ys := make([]float64, segments+1)
	for i := range xs {
		x := -span + 2*span*float64(i)/segments
		xs[i], ys[i] = x, sk.Height(x)
	}
	polyline(ctx, vp, colAxis, 3, xs, ys)

	x := s.Y[0]
	theta := sk.Slope(x)
	// sit the skater on the track surface
	nx, ny := -math.Sin(theta)*0.25, math.Cos(theta)*0.25
	sx, sy := vp.ToScreen(x+nx, sk.Height(x)+ny)
	disc(ctx, colPrimary, sx, sy, math.Max(5, 0.25*vp.Scale()))

	ke, pe, th := sk.Kinetic(s.Y), sk.Potential(s.Y), s.Y[2]
	bars := Rect{MinX: f.Width*0.72 + 8, MinY: 48, MaxX: f.Width - 12, MaxY: f.Height - 12}
	bw := (bars.Width() - 18) / 4
	for i, b := range []struct {
		v float64
		c color.Color
	}{{ke, colGood}, {pe, colPrimary}, {th, colWarm}, {ke + pe + th, colText}} {
		h := bars.Height() * b.v / math.Max(s.E0, 1)
		ctx.SetFillColor(b.c)
		ctx.FillRect(bars.MinX+float64(i)*(bw+6), bars.MaxY-h, bw, h)
	}

	label(ctx, 12, 18, fmt.Sprintf("KE %.0f J  PE %.0f J  heat %.0f J", ke, pe, th))
	if sk.Stuck(s.Y) {
		label(ctx, 12, 34, "at rest")
	}
}

func skateReadouts(s *SkateState, p SkateParams) []Readout {
	sk := skater(p)
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "x", Label: "Position", Value: s.Y[0], Unit: "m"},
		{Name: "speed", Label: "Speed", Value: math.Abs(s.Y[1]), Unit: "m/s"},
		{Name: "kinetic", Label: "Kinetic", Value: sk.Kinetic(s.Y), Unit: "J"},
		{Name: "potential", Label: "Potential", Value: sk.Potential(s.Y), Unit: "J"},
		{Name: "thermal", Label: "Thermal", Value: s.Y[2], Unit: "J"},
		{Name: "total", Label: "Total", Value: sk.Total(s.Y), Unit: "J"},
	}
}
