package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// DecayChain is parent -> daughter -> stable with state
// [parent, daughter, stable].
type DecayChain struct {
	ParentHalfLife   float64
	DaughterHalfLife float64
}

func decayConstant(halfLife float64) float64 {
	return math.Ln2 / halfLife
}

func (d *DecayChain) Derivative(t float64, x dynamo.State) dynamo.State {
	l1 := decayConstant(d.ParentHalfLife)
	l2 := decayConstant(d.DaughterHalfLife)
	return dynamo.State{
		-l1 * x[0],
		l1*x[0] - l2*x[1],
		l2 * x[1],
	}
}

// Bateman returns the analytic populations at time t for n0 parent nuclei
// and no initial daughters.
func (d *DecayChain) Bateman(n0, t float64) dynamo.State {
	l1 := decayConstant(d.ParentHalfLife)
	l2 := decayConstant(d.DaughterHalfLife)
	parent := n0 * math.Exp(-l1*t)

	var daughter float64
	if math.Abs(l1-l2) < 1e-12 {
		daughter = n0 * l1 * t * math.Exp(-l1*t)
	} else {
		daughter = n0 * l1 / (l2 - l1) * (math.Exp(-l1*t) - math.Exp(-l2*t))
	}
	return dynamo.State{parent, daughter, n0 - parent - daughter}
}
