package integrators

import "github.com/san-kum/simcanvas/internal/dynamo"

// StepSymplectic advances (pos, vel) by one semi-implicit Euler step: velocity is
// updated first and the new velocity moves the position. Energy error stays
// bounded for conservative forces.
func StepSymplectic(pos, vel dynamo.Vec2, acc dynamo.Acceleration, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	a := acc(pos)
	vel = vel.Add(a.Scale(dt))
	pos = pos.Add(vel.Scale(dt))
	return pos, vel
}

// StepExplicit is naive Euler: the position moves with the old velocity.
func StepExplicit(pos, vel dynamo.Vec2, acc dynamo.Acceleration, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	a := acc(pos)
	newPos := pos.Add(vel.Scale(dt))
	vel = vel.Add(a.Scale(dt))
	return newPos, vel
}
