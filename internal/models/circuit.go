package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// RCCircuit is a resistor and capacitor in series driven by a square wave
// that is high for the first half of each period. State is [Vc].
type RCCircuit struct {
	Resistance  float64
	Capacitance float64
	Voltage     float64
	Period      float64
}

func (c *RCCircuit) TimeConstant() float64 {
	return c.Resistance * c.Capacitance
}

func (c *RCCircuit) Source(t float64) float64 {
	if c.Period <= 0 {
		return c.Voltage
	}
	if math.Mod(t, c.Period) < c.Period/2 {
		return c.Voltage
	}
	return 0
}

func (c *RCCircuit) Derivative(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{(c.Source(t) - x[0]) / c.TimeConstant()}
}

// Current through the resistor for capacitor voltage vc at time t.
func (c *RCCircuit) Current(t, vc float64) float64 {
	return (c.Source(t) - vc) / c.Resistance
}
