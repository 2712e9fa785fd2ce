package pages

import (
	"fmt"
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/integrators"
	"github.com/san-kum/simcanvas/internal/metrics"
	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type OrbitParams struct {
	G         float64
	M         float64
	Radius    float64
	SpeedMul  float64
	TimeScale float64
}

type OrbitState struct {
	Pos, Vel dynamo.Vec2
	T        float64
	acc      float64
	Drift    *metrics.EnergyDrift
	TrailX   *metrics.History
	TrailY   *metrics.History
}

// orbitStep is the fixed integration step in simulation seconds.
const orbitStep = 0.5

func Orbit() Page {
	return &Definition[OrbitState, OrbitParams]{
		Meta: Info{
			Name:     "orbit",
			Title:    "Planetary Orbit",
			Category: "physics",
			Summary:  "A planet around a fixed star, integrated with semi-implicit Euler so energy stays bounded.",
		},
		Defaults: OrbitParams{G: 1, M: 1000, Radius: 150, SpeedMul: 1, TimeScale: 60},
		Sliders: []Field[OrbitParams]{
			slider("g", "Gravitational constant", 0.1, 10, 0.1, func(p *OrbitParams) *float64 { return &p.G }).restarts(),
			slider("mass", "Star mass", 100, 5000, 50, func(p *OrbitParams) *float64 { return &p.M }).restarts(),
			slider("radius", "Initial radius", 20, 300, 5, func(p *OrbitParams) *float64 { return &p.Radius }).restarts(),
			slider("speed", "Speed factor", 0.2, 1.5, 0.05, func(p *OrbitParams) *float64 { return &p.SpeedMul }).restarts(),
			slider("timescale", "Time scale", 1, 240, 1, func(p *OrbitParams) *float64 { return &p.TimeScale }),
		},
		Init:     initOrbit,
		Update:   updateOrbit,
		Draw:     drawOrbit,
		Readouts: orbitReadouts,
	}
}

func orbitBody(p OrbitParams) *models.CentralBody {
	return &models.CentralBody{G: p.G, M: p.M, MinDist: 5}
}

func initOrbit(p OrbitParams) OrbitState {
	body := orbitBody(p)
	s := OrbitState{
		Pos:    dynamo.Vec2{X: p.Radius},
		Vel:    dynamo.Vec2{Y: body.CircularSpeed(p.Radius) * p.SpeedMul},
		Drift:  metrics.NewEnergyDrift(),
		TrailX: metrics.NewHistory(720),
		TrailY: metrics.NewHistory(720),
	}
	s.Drift.Observe(body.Energy(s.Pos, s.Vel))
	return s
}

func updateOrbit(s *OrbitState, p OrbitParams, dt float64) {
	body := orbitBody(p)
	s.acc += dt * p.TimeScale
	for s.acc >= orbitStep {
		s.Pos, s.Vel = integrators.StepSymplectic(s.Pos, s.Vel, body.Acceleration, orbitStep)
		s.T += orbitStep
		s.acc -= orbitStep
		s.Drift.Observe(body.Energy(s.Pos, s.Vel))
	}
	if dt > 0 {
		s.TrailX.Push(s.Pos.X)
		s.TrailY.Push(s.Pos.Y)
	}
}

func drawOrbit(ctx surface.Context, f session.Frame, s *OrbitState, p OrbitParams) {
	background(ctx, f.Width, f.Height)

	extent := p.Radius * 2
	vp := Fit(f.Width, f.Height, 16, Rect{MinX: -extent, MinY: -extent, MaxX: extent, MaxY: extent})

	cx, cy := vp.ToScreen(0, 0)
	disc(ctx, colAccent, cx, cy, math.Max(4, 5*vp.Scale()))

	polyline(ctx, vp, colAxis, 1.5, s.TrailX.Values(), s.TrailY.Values())
	px, py := vp.ToScreen(s.Pos.X, s.Pos.Y)
	disc(ctx, colPrimary, px, py, 4)

	label(ctx, 12, 18, fmt.Sprintf("r = %.1f", s.Pos.Len()))
	label(ctx, 12, 34, fmt.Sprintf("energy drift %.3f%%", 100*s.Drift.MaxDrift()))
}

func orbitReadouts(s *OrbitState, p OrbitParams) []Readout {
	body := orbitBody(p)
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "radius", Label: "Radius", Value: s.Pos.Len()},
		{Name: "speed", Label: "Speed", Value: s.Vel.Len()},
		{Name: "x", Label: "x", Value: s.Pos.X},
		{Name: "y", Label: "y", Value: s.Pos.Y},
		{Name: "energy", Label: "Energy", Value: s.Drift.Current()},
		{Name: "drift", Label: "Max energy drift", Value: 100 * s.Drift.MaxDrift(), Unit: "%"},
		{Name: "period", Label: "Circular period", Value: body.Period(p.Radius), Unit: "s"},
	}
}
