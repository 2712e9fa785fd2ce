package pages

import (
	"fmt"
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/metrics"
	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type FoodWebParams struct {
	Alpha     float64
	Beta      float64
	Delta     float64
	Gamma     float64
	Prey0     float64
	Predator0 float64
	TimeScale float64
}

type FoodWebState struct {
	Y         dynamo.State
	T         float64
	Prey      *metrics.History
	Predators *metrics.History
}

const foodWebStep = 0.01

func FoodWeb() Page {
	return &Definition[FoodWebState, FoodWebParams]{
		Meta: Info{
			Name:     "foodweb",
			Title:    "Predator and Prey",
			Category: "biology",
			Summary:  "Lotka-Volterra populations cycling around their equilibrium.",
		},
		Defaults: FoodWebParams{Alpha: 1.1, Beta: 0.4, Delta: 0.1, Gamma: 0.4, Prey0: 10, Predator0: 10, TimeScale: 1},
		Sliders: []Field[FoodWebParams]{
			slider("alpha", "Prey growth", 0.1, 2, 0.05, func(p *FoodWebParams) *float64 { return &p.Alpha }),
			slider("beta", "Predation rate", 0.05, 1, 0.01, func(p *FoodWebParams) *float64 { return &p.Beta }),
			slider("delta", "Predator efficiency", 0.01, 0.5, 0.01, func(p *FoodWebParams) *float64 { return &p.Delta }),
			slider("gamma", "Predator death", 0.1, 2, 0.05, func(p *FoodWebParams) *float64 { return &p.Gamma }),
			slider("prey0", "Initial prey", 1, 50, 1, func(p *FoodWebParams) *float64 { return &p.Prey0 }).restarts(),
			slider("predator0", "Initial predators", 1, 50, 1, func(p *FoodWebParams) *float64 { return &p.Predator0 }).restarts(),
			slider("timescale", "Time scale", 0.1, 10, 0.1, func(p *FoodWebParams) *float64 { return &p.TimeScale }),
		},
		Init:     initFoodWeb,
		Update:   updateFoodWeb,
		Draw:     drawFoodWeb,
		Readouts: foodWebReadouts,
	}
}

func lotkaVolterra(p FoodWebParams) *models.LotkaVolterra {
	return &models.LotkaVolterra{Alpha: p.Alpha, Beta: p.Beta, Delta: p.Delta, Gamma: p.Gamma}
}

func initFoodWeb(p FoodWebParams) FoodWebState {
	s := FoodWebState{
		Y:         dynamo.State{p.Prey0, p.Predator0},
		Prey:      metrics.NewHistory(800),
		Predators: metrics.NewHistory(800),
	}
	s.Prey.Push(p.Prey0)
	s.Predators.Push(p.Predator0)
	return s
}

func updateFoodWeb(s *FoodWebState, p FoodWebParams, dt float64) {
	lv := lotkaVolterra(p)
	n, h := substeps(dt*p.TimeScale, foodWebStep)
	for i := 0; i < n; i++ {
		s.Y = rk4.Step(lv.Derivative, s.T, s.Y, h)
		s.Y[0] = math.Max(s.Y[0], 0)
		s.Y[1] = math.Max(s.Y[1], 0)
		s.T += h
	}
	if n > 0 {
		s.Prey.Push(s.Y[0])
		s.Predators.Push(s.Y[1])
	}
}

func drawFoodWeb(ctx surface.Context, f session.Frame, s *FoodWebState, p FoodWebParams) {
	background(ctx, f.Width, f.Height)

	prey, pred := s.Prey.Values(), s.Predators.Values()
	_, hi := bounds(prey, pred)

	plot := Rect{MinX: 12, MinY: 48, MaxX: f.Width*0.62 - 6, MaxY: f.Height - 12}
	series(ctx, plot, colGood, prey, 0, hi)
	series(ctx, plot, colWarm, pred, 0, hi)

	phase := Rect{MinX: f.Width*0.62 + 6, MinY: 48, MaxX: f.Width - 12, MaxY: f.Height - 12}
	vp := Fit(phase.Width(), phase.Height(), 4, Rect{MaxX: hi, MaxY: hi})
	ctx.Translate(phase.MinX, phase.MinY)
	axes(ctx, vp)
	polyline(ctx, vp, colPrimary, 1, prey, pred)
	eq := lotkaVolterra(p).Equilibrium()
	ex, ey := vp.ToScreen(eq[0], eq[1])
	disc(ctx, colAccent, ex, ey, 3)
	ctx.Translate(-phase.MinX, -phase.MinY)

	label(ctx, 12, 18, fmt.Sprintf("prey %.1f  predators %.1f", s.Y[0], s.Y[1]))
	label(ctx, 12, 34, fmt.Sprintf("t = %.1f", s.T))
}

func foodWebReadouts(s *FoodWebState, p FoodWebParams) []Readout {
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T},
		{Name: "prey", Label: "Prey", Value: s.Y[0]},
		{Name: "predators", Label: "Predators", Value: s.Y[1]},
		{Name: "invariant", Label: "Conserved quantity", Value: lotkaVolterra(p).Invariant(s.Y)},
	}
}
