// Package dynamo provides the value types shared by the integrators, models
// and pages:
//
//   - [State]: flat state vector, positions then velocities
//   - [Vec2]: planar position or velocity
//   - [Derivative] and [Acceleration]: the right-hand sides integrators consume
//   - [Integrator]: pure single-step solver
//
// It also holds the sentinel errors returned across packages.
//
// # Example
//
//	rk4 := integrators.NewRK4()
//	y := dynamo.State{theta, omega}
//	y = rk4.Step(pendulum.Derivative, t, y, dt)
//
// State values are never mutated in place by integrators, so a State may be
// shared between goroutines once built.
package dynamo
