package metrics

import "math"

// EnergyDrift tracks total energy against its first observed value.
type EnergyDrift struct {
	initial  float64
	current  float64
	min, max float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Observe(energy float64) {
	if e.samples == 0 {
		e.initial = energy
		e.min, e.max = energy, energy
	}
	e.current = energy
	e.samples++
	e.min = math.Min(e.min, energy)
	e.max = math.Max(e.max, energy)

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Initial() float64 { return e.initial }
func (e *EnergyDrift) Current() float64 { return e.current }
func (e *EnergyDrift) Samples() int     { return e.samples }

// Envelope is the lowest and highest energy seen so far.
func (e *EnergyDrift) Envelope() (lo, hi float64) { return e.min, e.max }

// Drift is the current relative deviation from the initial energy.
func (e *EnergyDrift) Drift() float64 {
	if e.initial == 0 {
		return 0
	}
	return math.Abs(e.current-e.initial) / math.Abs(e.initial)
}

// MaxDrift is the largest relative deviation observed.
func (e *EnergyDrift) MaxDrift() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{}
}
