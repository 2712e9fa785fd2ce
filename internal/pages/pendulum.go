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

type PendulumParams struct {
	Length  float64
	Gravity float64
	Damping float64
	Theta0  float64
}

type PendulumState struct {
	Y      dynamo.State
	T      float64
	Drift  *metrics.EnergyDrift
	Angles *metrics.History
}

const pendulumMaxStep = 1.0 / 240

var rk4 = integrators.NewRK4()

func Pendulum() Page {
	return &Definition[PendulumState, PendulumParams]{
		Meta: Info{
			Name:     "pendulum",
			Title:    "Damped Pendulum",
			Category: "physics",
			Summary:  "A simple pendulum with damping, integrated with RK4.",
		},
		Defaults: PendulumParams{Length: 1, Gravity: 9.81, Damping: 0.1, Theta0: 45},
		Sliders: []Field[PendulumParams]{
			slider("length", "Length (m)", 0.2, 3, 0.1, func(p *PendulumParams) *float64 { return &p.Length }),
			slider("gravity", "Gravity (m/s²)", 1, 25, 0.1, func(p *PendulumParams) *float64 { return &p.Gravity }),
			slider("damping", "Damping", 0, 2, 0.05, func(p *PendulumParams) *float64 { return &p.Damping }),
			slider("theta0", "Release angle (deg)", -179, 179, 1, func(p *PendulumParams) *float64 { return &p.Theta0 }).restarts(),
		},
		Init:     initPendulum,
		Update:   updatePendulum,
		Draw:     drawPendulum,
		Readouts: pendulumReadouts,
	}
}

func pendulumModel(p PendulumParams) *models.Pendulum {
	return &models.Pendulum{Mass: models.DefaultMass, Length: p.Length, Damping: p.Damping, Gravity: p.Gravity}
}

func initPendulum(p PendulumParams) PendulumState {
	s := PendulumState{
		Y:      dynamo.State{p.Theta0 * math.Pi / 180, 0},
		Drift:  metrics.NewEnergyDrift(),
		Angles: metrics.NewHistory(600),
	}
	s.Drift.Observe(pendulumModel(p).Energy(s.Y))
	return s
}

func updatePendulum(s *PendulumState, p PendulumParams, dt float64) {
	m := pendulumModel(p)
	n, h := substeps(dt, pendulumMaxStep)
	for i := 0; i < n; i++ {
		s.Y = rk4.Step(m.Derivative, s.T, s.Y, h)
		s.T += h
	}
	if n > 0 {
		s.Drift.Observe(m.Energy(s.Y))
		s.Angles.Push(s.Y[0])
	}
}

func drawPendulum(ctx surface.Context, f session.Frame, s *PendulumState, p PendulumParams) {
	background(ctx, f.Width, f.Height)

	reach := p.Length * 1.15
	vp := Fit(f.Width, f.Height*0.7, 16, Rect{MinX: -reach, MinY: -reach, MaxX: reach, MaxY: reach * 0.3})
	m := pendulumModel(p)
	bob := m.Bob(s.Y[0])
	px, py := vp.ToScreen(0, 0)
	bx, by := vp.ToScreen(bob.X, -bob.Y)
	line(ctx, colAxis, 2, px, py, bx, by)
	disc(ctx, colAxis, px, py, 3)
	disc(ctx, colPrimary, bx, by, math.Max(6, 0.08*vp.Scale()))

	plot := Rect{MinX: 12, MinY: f.Height * 0.74, MaxX: f.Width - 12, MaxY: f.Height - 12}
	lim := math.Abs(p.Theta0*math.Pi/180) + 0.1
	series(ctx, plot, colSecondary, s.Angles.Values(), -lim, lim)

	label(ctx, 12, 18, fmt.Sprintf("θ = %.1f°", s.Y[0]*180/math.Pi))
	label(ctx, 12, 34, fmt.Sprintf("E = %.3f J", s.Drift.Current()))
}

func pendulumReadouts(s *PendulumState, p PendulumParams) []Readout {
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "theta", Label: "Angle", Value: s.Y[0] * 180 / math.Pi, Unit: "deg"},
		{Name: "omega", Label: "Angular velocity", Value: s.Y[1], Unit: "rad/s"},
		{Name: "energy", Label: "Energy", Value: s.Drift.Current(), Unit: "J"},
		{Name: "period", Label: "Small-angle period", Value: pendulumModel(p).SmallAnglePeriod(), Unit: "s"},
	}
}
