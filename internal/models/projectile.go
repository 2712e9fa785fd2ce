package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// Projectile is a point mass under uniform gravity, y pointing up.
type Projectile struct {
	Gravity float64
}

func (p *Projectile) Acceleration(dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Vec2{Y: -p.Gravity}
}

// Launch returns the initial velocity for speed v0 at angle degrees.
func Launch(v0, angleDeg float64) dynamo.Vec2 {
	a := angleDeg * math.Pi / 180
	return dynamo.Vec2{X: v0 * math.Cos(a), Y: v0 * math.Sin(a)}
}

// Range is the horizontal distance travelled before landing at y=0 from
// launch height h.
func (p *Projectile) Range(v0, angleDeg, h float64) float64 {
	v := Launch(v0, angleDeg)
	return v.X / p.Gravity * (v.Y + math.Sqrt(v.Y*v.Y+2*p.Gravity*h))
}

// FlightTime is the time to land at y=0 from launch height h.
func (p *Projectile) FlightTime(v0, angleDeg, h float64) float64 {
	v := Launch(v0, angleDeg)
	return (v.Y + math.Sqrt(v.Y*v.Y+2*p.Gravity*h)) / p.Gravity
}

// MaxHeight is the apex height above y=0.
func (p *Projectile) MaxHeight(v0, angleDeg, h float64) float64 {
	v := Launch(v0, angleDeg)
	return h + v.Y*v.Y/(2*p.Gravity)
}
