package integrators

import "github.com/san-kum/simcanvas/internal/dynamo"

// Verlet is velocity Verlet over [positions..., velocities...].
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(f dynamo.Derivative, t float64, y dynamo.State, dt float64) dynamo.State {
	n := len(y)
	half := n / 2

	result := make(dynamo.State, n)
	dy := f(t, y)
	dt2 := dt * dt

	for i := 0; i < half; i++ {
		result[i] = y[i] + y[half+i]*dt + 0.5*dy[half+i]*dt2
	}

	mid := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		mid[i] = result[i]
		mid[half+i] = y[half+i]
	}

	dyNew := f(t+dt, mid)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i] = y[half+i] + (dy[half+i]+dyNew[half+i])*halfDt
	}

	return result
}
