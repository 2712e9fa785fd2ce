package integrators

import "github.com/san-kum/simcanvas/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. Every call allocates its
// own stage vectors, so one RK4 value can be shared across goroutines.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f dynamo.Derivative, t float64, y dynamo.State, dt float64) dynamo.State {
	n := len(y)
	half := dt * 0.5

	k1 := f(t, y)

	y2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + half*k1[i]
	}
	k2 := f(t+half, y2)

	y3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + half*k2[i]
	}
	k3 := f(t+half, y3)

	y4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + dt*k3[i]
	}
	k4 := f(t+dt, y4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
