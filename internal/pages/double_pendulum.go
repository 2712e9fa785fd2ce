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

type DoublePendulumParams struct {
	Theta1  float64
	Theta2  float64
	Mass2   float64
	Gravity float64
}

type DoublePendulumState struct {
	Y      dynamo.State
	T      float64
	Drift  *metrics.EnergyDrift
	TrailX *metrics.History
	TrailY *metrics.History
}

const doublePendulumMaxStep = 1.0 / 600

func DoublePendulum() Page {
	return &Definition[DoublePendulumState, DoublePendulumParams]{
		Meta: Info{
			Name:     "double-pendulum",
			Title:    "Double Pendulum",
			Category: "physics",
			Summary:  "Two coupled pendulums; tiny changes in the release angles give wildly different paths.",
		},
		Defaults: DoublePendulumParams{Theta1: 120, Theta2: -20, Mass2: 1, Gravity: models.DefaultGravity},
		Sliders: []Field[DoublePendulumParams]{
			slider("theta1", "Upper angle (deg)", -180, 180, 1, func(p *DoublePendulumParams) *float64 { return &p.Theta1 }).restarts(),
			slider("theta2", "Lower angle (deg)", -180, 180, 1, func(p *DoublePendulumParams) *float64 { return &p.Theta2 }).restarts(),
			slider("mass2", "Lower mass (kg)", 0.1, 5, 0.1, func(p *DoublePendulumParams) *float64 { return &p.Mass2 }).restarts(),
			slider("gravity", "Gravity (m/s²)", 1, 25, 0.1, func(p *DoublePendulumParams) *float64 { return &p.Gravity }).restarts(),
		},
		Init:     initDoublePendulum,
		Update:   updateDoublePendulum,
		Draw:     drawDoublePendulum,
		Readouts: doublePendulumReadouts,
	}
}

func doublePendulumModel(p DoublePendulumParams) *models.DoublePendulum {
	m := models.NewDoublePendulum()
	m.M2 = p.Mass2
	m.Gravity = p.Gravity
	return m
}

func initDoublePendulum(p DoublePendulumParams) DoublePendulumState {
	s := DoublePendulumState{
		Y:      dynamo.State{p.Theta1 * math.Pi / 180, p.Theta2 * math.Pi / 180, 0, 0},
		Drift:  metrics.NewEnergyDrift(),
		TrailX: metrics.NewHistory(400),
		TrailY: metrics.NewHistory(400),
	}
	s.Drift.Observe(doublePendulumModel(p).Energy(s.Y))
	return s
}

func updateDoublePendulum(s *DoublePendulumState, p DoublePendulumParams, dt float64) {
	m := doublePendulumModel(p)
	n, h := substeps(dt, doublePendulumMaxStep)
	for i := 0; i < n; i++ {
		s.Y = rk4.Step(m.Derivative, s.T, s.Y, h)
		s.T += h
	}
	if n > 0 {
		s.Drift.Observe(m.Energy(s.Y))
		_, b2 := m.Bobs(s.Y)
		s.TrailX.Push(b2.X)
		s.TrailY.Push(-b2.Y)
	}
}

func drawDoublePendulum(ctx surface.Context, f session.Frame, s *DoublePendulumState, p DoublePendulumParams) {
	background(ctx, f.Width, f.Height)

	m := doublePendulumModel(p)
	reach := (m.L1 + m.L2) * 1.1
	vp := Fit(f.Width, f.Height, 16, Rect{MinX: -reach, MinY: -reach, MaxX: reach, MaxY: reach})

	polyline(ctx, vp, colSecondary, 1, s.TrailX.Values(), s.TrailY.Values())

	b1, b2 := m.Bobs(s.Y)
	px, py := vp.ToScreen(0, 0)
	x1, y1 := vp.ToScreen(b1.X, -b1.Y)
	x2, y2 := vp.ToScreen(b2.X, -b2.Y)
	line(ctx, colAxis, 2, px, py, x1, y1)
	line(ctx, colAxis, 2, x1, y1, x2, y2)
	disc(ctx, colPrimary, x1, y1, 6)
	disc(ctx, colAccent, x2, y2, 4+2*math.Sqrt(p.Mass2))

	label(ctx, 12, 18, fmt.Sprintf("t = %.1f s", s.T))
}

func doublePendulumReadouts(s *DoublePendulumState, p DoublePendulumParams) []Readout {
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "theta1", Label: "Upper angle", Value: s.Y[0] * 180 / math.Pi, Unit: "deg"},
		{Name: "theta2", Label: "Lower angle", Value: s.Y[1] * 180 / math.Pi, Unit: "deg"},
		{Name: "energy", Label: "Energy", Value: s.Drift.Current(), Unit: "J"},
		{Name: "drift", Label: "Max energy drift", Value: 100 * s.Drift.MaxDrift(), Unit: "%"},
	}
}
