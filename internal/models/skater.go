package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// Skater rides the parabolic track y = K*x^2 with Coulomb friction.
// State is [x, v, thermal]: horizontal position, signed speed along the
// track, and heat generated so far.
type Skater struct {
	Mass     float64
	Gravity  float64
	Friction float64
	K        float64
}

func NewSkater() *Skater {
	return &Skater{Mass: 60, Gravity: 9.8, Friction: 0.05, K: 0.5}
}

func (s *Skater) Height(x float64) float64 { return s.K * x * x }

// Slope returns the track angle at x.
func (s *Skater) Slope(x float64) float64 { return math.Atan(2 * s.K * x) }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Derivative integrates the tangential equation of motion. Thermal energy
// grows as mu*m*g*cos(theta)*|v|; the normal force ignores the centripetal
// term.
func (s *Skater) Derivative(t float64, y dynamo.State) dynamo.State {
	x, v := y[0], y[1]
	theta := s.Slope(x)
	sn, cs := math.Sin(theta), math.Cos(theta)

	dir := sign(v)
	if dir == 0 {
		dir = -sign(sn)
	}
	g := s.Gravity
	return dynamo.State{
		v * cs,
		-g*sn - s.Friction*g*cs*dir,
		s.Friction * s.Mass * g * cs * math.Abs(v),
	}
}

// Stuck reports whether static friction holds the skater at rest.
func (s *Skater) Stuck(y dynamo.State) bool {
	return y[1] == 0 && math.Abs(2*s.K*y[0]) <= s.Friction
}

// Step advances y by dt. A skater whose speed would cross zero, or fall
// below what friction removes in one step, on a slope friction can hold
// comes to rest.
func (s *Skater) Step(integ dynamo.Integrator, t float64, y dynamo.State, dt float64) dynamo.State {
	if s.Stuck(y) {
		return y.Clone()
	}
	next := integ.Step(s.Derivative, t, y, dt)
	if math.Abs(2*s.K*next[0]) <= s.Friction {
		crossed := sign(next[1]) != sign(y[1])
		if crossed || math.Abs(next[1]) <= s.Friction*s.Gravity*dt {
			next[1] = 0
		}
	}
	return next
}

func (s *Skater) Kinetic(y dynamo.State) float64 {
	return 0.5 * s.Mass * y[1] * y[1]
}

func (s *Skater) Potential(y dynamo.State) float64 {
	return s.Mass * s.Gravity * s.Height(y[0])
}

// Total is kinetic + potential + thermal.
func (s *Skater) Total(y dynamo.State) float64 {
	return s.Kinetic(y) + s.Potential(y) + y[2]
}
