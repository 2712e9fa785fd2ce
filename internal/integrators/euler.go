package integrators

import "github.com/san-kum/simcanvas/internal/dynamo"

// Euler is the explicit (forward) Euler method over a full state vector.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Derivative, t float64, y dynamo.State, dt float64) dynamo.State {
	dy := f(t, y)
	result := make(dynamo.State, len(y))
	for i := range y {
		result[i] = y[i] + dt*dy[i]
	}
	return result
}

// SemiImplicit is symplectic Euler over a state laid out as
// [positions..., velocities...]. f must return [velocities..., accelerations...].
type SemiImplicit struct{}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{}
}

func (s *SemiImplicit) Step(f dynamo.Derivative, t float64, y dynamo.State, dt float64) dynamo.State {
	n := len(y)
	half := n / 2
	dy := f(t, y)

	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		result[half+i] = y[half+i] + dy[half+i]*dt
	}
	for i := 0; i < half; i++ {
		result[i] = y[i] + result[half+i]*dt
	}
	return result
}
