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

type ProjectileParams struct {
	Speed   float64
	Angle   float64
	Gravity float64
	Height  float64
	Rate    float64
}

type ProjectileState struct {
	Pos, Vel dynamo.Vec2
	T        float64
	Landed   bool
	LandX    float64
	Apex     float64
	TrailX   *metrics.History
	TrailY   *metrics.History
}

const projectileMaxStep = 1.0 / 240

func Projectile() Page {
	return &Definition[ProjectileState, ProjectileParams]{
		Meta: Info{
			Name:     "projectile",
			Title:    "Projectile Motion",
			Category: "physics",
			Summary:  "Launch a ball and compare the simulated landing point with the analytic range.",
		},
		Defaults: ProjectileParams{Speed: 50, Angle: 45, Gravity: 9.8, Height: 0, Rate: 1},
		Sliders: []Field[ProjectileParams]{
			slider("speed", "Launch speed (m/s)", 1, 100, 1, func(p *ProjectileParams) *float64 { return &p.Speed }).restarts(),
			slider("angle", "Angle (deg)", 0, 90, 1, func(p *ProjectileParams) *float64 { return &p.Angle }).restarts(),
			slider("gravity", "Gravity (m/s²)", 1, 25, 0.1, func(p *ProjectileParams) *float64 { return &p.Gravity }).restarts(),
			slider("height", "Launch height (m)", 0, 100, 1, func(p *ProjectileParams) *float64 { return &p.Height }).restarts(),
			slider("rate", "Playback rate", 0.1, 5, 0.1, func(p *ProjectileParams) *float64 { return &p.Rate }),
		},
		Init:     initProjectile,
		Update:   updateProjectile,
		Draw:     drawProjectile,
		Readouts: projectileReadouts,
	}
}

func initProjectile(p ProjectileParams) ProjectileState {
	s := ProjectileState{
		Pos:    dynamo.Vec2{Y: p.Height},
		Vel:    models.Launch(p.Speed, p.Angle),
		Apex:   p.Height,
		TrailX: metrics.NewHistory(2048),
		TrailY: metrics.NewHistory(2048),
	}
	s.TrailX.Push(s.Pos.X)
	s.TrailY.Push(s.Pos.Y)
	return s
}

func updateProjectile(s *ProjectileState, p ProjectileParams, dt float64) {
	if s.Landed {
		return
	}
	body := &models.Projectile{Gravity: p.Gravity}
	n, h := substeps(dt*p.Rate, projectileMaxStep)
	for i := 0; i < n; i++ {
		prev := s.Pos
		s.Pos, s.Vel = integrators.StepSymplectic(s.Pos, s.Vel, body.Acceleration, h)
		s.T += h
		s.Apex = math.Max(s.Apex, s.Pos.Y)
		if s.Pos.Y < 0 && prev.Y >= 0 {
			frac := prev.Y / (prev.Y - s.Pos.Y)
			s.LandX = prev.X + frac*(s.Pos.X-prev.X)
			s.T -= (1 - frac) * h
			s.Pos = dynamo.Vec2{X: s.LandX}
			s.Landed = true
			break
		}
	}
	s.TrailX.Push(s.Pos.X)
	s.TrailY.Push(s.Pos.Y)
}

func drawProjectile(ctx surface.Context, f session.Frame, s *ProjectileState, p ProjectileParams) {
	background(ctx, f.Width, f.Height)

	body := &models.Projectile{Gravity: p.Gravity}
	rng := body.Range(p.Speed, p.Angle, p.Height)
	top := body.MaxHeight(p.Speed, p.Angle, p.Height)
	world := Rect{MinX: -0.05 * rng, MinY: -0.05 * top, MaxX: math.Max(rng*1.05, 1), MaxY: math.Max(top*1.15, 1)}
	vp := Fit(f.Width, f.Height, 24, world)

	axes(ctx, vp)
	tx, ty := vp.ToScreen(rng, 0)
	line(ctx, colAccent, 1, tx, ty-8, tx, ty+8)

	polyline(ctx, vp, colPrimary, 2, s.TrailX.Values(), s.TrailY.Values())
	bx, by := vp.ToScreen(s.Pos.X, s.Pos.Y)
	disc(ctx, colSecondary, bx, by, 5)

	label(ctx, 12, 18, fmt.Sprintf("t = %.2f s", s.T))
	label(ctx, 12, 34, fmt.Sprintf("range %.1f m", rng))
	if s.Landed {
		label(ctx, 12, 50, fmt.Sprintf("landed %.1f m", s.LandX))
	}
}

func projectileReadouts(s *ProjectileState, p ProjectileParams) []Readout {
	body := &models.Projectile{Gravity: p.Gravity}
	land := math.NaN()
	if s.Landed {
		land = s.LandX
	}
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "x", Label: "Distance", Value: s.Pos.X, Unit: "m"},
		{Name: "y", Label: "Height", Value: s.Pos.Y, Unit: "m"},
		{Name: "speed", Label: "Speed", Value: s.Vel.Len(), Unit: "m/s"},
		{Name: "apex", Label: "Apex", Value: s.Apex, Unit: "m"},
		{Name: "range", Label: "Analytic range", Value: body.Range(p.Speed, p.Angle, p.Height), Unit: "m"},
		{Name: "landing", Label: "Landing point", Value: land, Unit: "m"},
	}
}
