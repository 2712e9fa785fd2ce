package models

import (
	"math"
	"testing"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/integrators"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := NewDoublePendulum()

	// hanging straight down
	dx := dp.Derivative(0, dynamo.State{0, 0, 0, 0})

	for i, v := range dx {
		if math.Abs(v) > 1e-10 {
			t.Errorf("component %d: expected 0, got %f", i, v)
		}
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	dp := NewDoublePendulum()

	dx1 := dp.Derivative(0, dynamo.State{0.1, 0.1, 0, 0})
	dx2 := dp.Derivative(0, dynamo.State{-0.1, -0.1, 0, 0})

	if math.Abs(dx1[2]+dx2[2]) > 1e-6 {
		t.Errorf("expected symmetric alpha1: %f vs %f", dx1[2], dx2[2])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-6 {
		t.Errorf("expected symmetric alpha2: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumEnergyRK4(t *testing.T) {
	dp := NewDoublePendulum()
	rk4 := integrators.NewRK4()
	x := dynamo.State{math.Pi / 2, 0, 0, 0}
	e0 := dp.Energy(x)
	dt := 1.0 / 600
	for i := 0; i < 3000; i++ {
		x = rk4.Step(dp.Derivative, float64(i)*dt, x, dt)
	}
	if drift := math.Abs(dp.Energy(x)-e0) / math.Abs(e0); drift > 1e-3 {
		t.Errorf("relative energy drift %e", drift)
	}
}

func TestDoublePendulumBobs(t *testing.T) {
	dp := NewDoublePendulum()
	b1, b2 := dp.Bobs(dynamo.State{0, 0, 0, 0})
	if b1.Y != 1 || b2.Y != 2 || b1.X != 0 || b2.X != 0 {
		t.Errorf("bobs = %+v %+v", b1, b2)
	}
}
