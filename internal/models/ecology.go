package models

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// LotkaVolterra is the predator-prey system with state [prey, predator].
type LotkaVolterra struct {
	Alpha float64 // prey growth
	Beta  float64 // predation
	Delta float64 // predator growth per prey eaten
	Gamma float64 // predator death
}

func NewLotkaVolterra() *LotkaVolterra {
	return &LotkaVolterra{Alpha: 1.1, Beta: 0.4, Delta: 0.1, Gamma: 0.4}
}

func (lv *LotkaVolterra) Derivative(t float64, x dynamo.State) dynamo.State {
	prey, pred := x[0], x[1]
	return dynamo.State{
		lv.Alpha*prey - lv.Beta*prey*pred,
		lv.Delta*prey*pred - lv.Gamma*pred,
	}
}

// Invariant is conserved along exact trajectories with positive populations.
func (lv *LotkaVolterra) Invariant(x dynamo.State) float64 {
	prey, pred := x[0], x[1]
	if prey <= 0 || pred <= 0 {
		return math.NaN()
	}
	return lv.Delta*prey - lv.Gamma*math.Log(prey) + lv.Beta*pred - lv.Alpha*math.Log(pred)
}

// Equilibrium is the non-trivial fixed point.
func (lv *LotkaVolterra) Equilibrium() dynamo.State {
	return dynamo.State{lv.Gamma / lv.Delta, lv.Alpha / lv.Beta}
}
