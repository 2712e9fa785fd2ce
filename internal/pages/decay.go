package pages

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/metrics"
	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type DecayParams struct {
	ParentHalfLife   float64
	DaughterHalfLife float64
	N0               float64
	TimeScale        float64
}

type DecayState struct {
	Y        dynamo.State
	T        float64
	Parent   *metrics.History
	Daughter *metrics.History
	Stable   *metrics.History
}

const decayMaxStep = 0.05

func Decay() Page {
	return &Definition[DecayState, DecayParams]{
		Meta: Info{
			Name:     "decay",
			Title:    "Radioactive Decay Chain",
			Category: "physics",
			Summary:  "Parent nuclei decay into an unstable daughter, which decays into a stable isotope.",
		},
		Defaults: DecayParams{ParentHalfLife: 3, DaughterHalfLife: 6, N0: 1000, TimeScale: 1},
		Sliders: []Field[DecayParams]{
			slider("parent", "Parent half-life (s)", 0.5, 20, 0.5, func(p *DecayParams) *float64 { return &p.ParentHalfLife }).restarts(),
			slider("daughter", "Daughter half-life (s)", 0.5, 20, 0.5, func(p *DecayParams) *float64 { return &p.DaughterHalfLife }).restarts(),
			slider("n0", "Initial nuclei", 10, 10000, 10, func(p *DecayParams) *float64 { return &p.N0 }).restarts(),
			slider("timescale", "Time scale", 0.1, 10, 0.1, func(p *DecayParams) *float64 { return &p.TimeScale }),
		},
		Init:     initDecay,
		Update:   updateDecay,
		Draw:     drawDecay,
		Readouts: decayReadouts,
	}
}

func decayChain(p DecayParams) *models.DecayChain {
	return &models.DecayChain{ParentHalfLife: p.ParentHalfLife, DaughterHalfLife: p.DaughterHalfLife}
}

func initDecay(p DecayParams) DecayState {
	s := DecayState{
		Y:        dynamo.State{p.N0, 0, 0},
		Parent:   metrics.NewHistory(600),
		Daughter: metrics.NewHistory(600),
		Stable:   metrics.NewHistory(600),
	}
	s.push()
	return s
}

func (s *DecayState) push() {
	s.Parent.Push(s.Y[0])
	s.Daughter.Push(s.Y[1])
	s.Stable.Push(s.Y[2])
}

func updateDecay(s *DecayState, p DecayParams, dt float64) {
	chain := decayChain(p)
	n, h := substeps(dt*p.TimeScale, decayMaxStep)
	for i := 0; i < n; i++ {
		s.Y = rk4.Step(chain.Derivative, s.T, s.Y, h)
		s.T += h
	}
	if n > 0 {
		s.push()
	}
}

func drawDecay(ctx surface.Context, f session.Frame, s *DecayState, p DecayParams) {
	background(ctx, f.Width, f.Height)

	plot := Rect{MinX: 12, MinY: 48, MaxX: f.Width * 0.7, MaxY: f.Height - 12}
	series(ctx, plot, colPrimary, s.Parent.Values(), 0, p.N0)
	series(ctx, plot, colSecondary, s.Daughter.Values(), 0, p.N0)
	series(ctx, plot, colGood, s.Stable.Values(), 0, p.N0)

	barW := (f.Width*0.3 - 36) / 3
	for i, col := range []color.Color{colPrimary, colSecondary, colGood} {
		h := (plot.MaxY - plot.MinY) * s.Y[i] / p.N0
		x := f.Width*0.7 + 12 + float64(i)*(barW+6)
		ctx.SetFillColor(col)
		ctx.FillRect(x, plot.MaxY-h, barW, h)
	}

	label(ctx, 12, 18, fmt.Sprintf("t = %.1f s", s.T))
	label(ctx, 12, 34, fmt.Sprintf("parent %.0f  daughter %.0f  stable %.0f", s.Y[0], s.Y[1], s.Y[2]))
}

func decayReadouts(s *DecayState, p DecayParams) []Readout {
	exact := decayChain(p).Bateman(p.N0, s.T)
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "parent", Label: "Parent", Value: s.Y[0]},
		{Name: "daughter", Label: "Daughter", Value: s.Y[1]},
		{Name: "stable", Label: "Stable", Value: s.Y[2]},
		{Name: "bateman-parent", Label: "Analytic parent", Value: exact[0]},
		{Name: "bateman-daughter", Label: "Analytic daughter", Value: exact[1]},
		{Name: "error", Label: "Max deviation", Value: math.Max(math.Abs(s.Y[0]-exact[0]), math.Abs(s.Y[1]-exact[1]))},
	}
}
