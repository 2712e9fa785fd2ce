package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// CentralBody is a fixed point mass at the origin.
type CentralBody struct {
	G       float64
	M       float64
	MinDist float64
}

func NewCentralBody() *CentralBody {
	return &CentralBody{G: 1, M: 1000, MinDist: 5}
}

// Acceleration is -GM r/|r|^3, with |r| clamped to MinDist.
func (c *CentralBody) Acceleration(pos dynamo.Vec2) dynamo.Vec2 {
	r := math.Max(pos.Len(), c.MinDist)
	if r == 0 {
		return dynamo.Vec2{}
	}
	f := -c.G * c.M / (r * r * r)
	return pos.Scale(f)
}

// Energy is the specific orbital energy v^2/2 - GM/r.
func (c *CentralBody) Energy(pos, vel dynamo.Vec2) float64 {
	r := math.Max(pos.Len(), c.MinDist)
	return 0.5*vel.Dot(vel) - c.G*c.M/r
}

func (c *CentralBody) CircularSpeed(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(c.G * c.M / r)
}

// Period is the circular orbit period 2*pi*r/v.
func (c *CentralBody) Period(r float64) float64 {
	v := c.CircularSpeed(r)
	if v == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * r / v
}
