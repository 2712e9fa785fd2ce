package integrators

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/simcanvas/internal/dynamo"
)

func decay(t float64, y dynamo.State) dynamo.State {
	return dynamo.State{-y[0]}
}

func oscillator(t float64, y dynamo.State) dynamo.State {
	return dynamo.State{y[1], -y[0]}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator, float64(i)*dt, x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ExponentialDecay(t *testing.T) {
	integ := NewRK4()
	y := dynamo.State{1.0}
	dt := 0.1

	for i := 0; i < 10; i++ {
		tm := float64(i) * dt
		y = integ.Step(decay, tm, y, dt)

		expected := math.Exp(-(tm + dt))
		if err := math.Abs(y[0] - expected); err > 1e-6 {
			t.Errorf("step %d: got %.9f, expected %.9f (err %.2e)", i+1, y[0], expected, err)
		}
	}

	if math.Abs(y[0]-0.367879) > 1e-5 {
		t.Errorf("y(1) = %.6f, expected ~0.367879", y[0])
	}
}

func TestRK4Purity(t *testing.T) {
	integ := NewRK4()
	y := dynamo.State{0.3, -1.2}
	orig := y.Clone()

	a := integ.Step(oscillator, 0.5, y, 0.25)
	b := integ.Step(oscillator, 0.5, y, 0.25)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated calls differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(orig, y); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
	if &a[0] == &y[0] {
		t.Error("result aliases the input")
	}
}

func TestRK4StagesDoNotAlias(t *testing.T) {
	integ := NewRK4()
	var seen []dynamo.State
	f := func(t float64, y dynamo.State) dynamo.State {
		seen = append(seen, y)
		return dynamo.State{-y[0]}
	}

	integ.Step(f, 0, dynamo.State{1}, 0.1)

	if len(seen) != 4 {
		t.Fatalf("expected 4 derivative evaluations, got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if &seen[i][0] == &seen[i-1][0] {
			t.Errorf("stage %d reuses the buffer of stage %d", i+1, i)
		}
	}
}
