package pages

import (
	"fmt"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/metrics"
	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type CircuitParams struct {
	Resistance  float64 // kΩ
	Capacitance float64 // µF
	Voltage     float64
	Period      float64
}

type CircuitState struct {
	Y         dynamo.State
	T         float64
	Capacitor *metrics.History
	Source    *metrics.History
}

const circuitMaxStep = 1.0 / 240

func Circuit() Page {
	return &Definition[CircuitState, CircuitParams]{
		Meta: Info{
			Name:     "circuit",
			Title:    "RC Circuit",
			Category: "physics",
			Summary:  "A capacitor charging and discharging through a resistor under a square-wave source.",
		},
		Defaults: CircuitParams{Resistance: 10, Capacitance: 100, Voltage: 9, Period: 6},
		Sliders: []Field[CircuitParams]{
			slider("resistance", "Resistance (kΩ)", 1, 100, 1, func(p *CircuitParams) *float64 { return &p.Resistance }),
			slider("capacitance", "Capacitance (µF)", 10, 1000, 10, func(p *CircuitParams) *float64 { return &p.Capacitance }),
			slider("voltage", "Source voltage (V)", 1, 24, 0.5, func(p *CircuitParams) *float64 { return &p.Voltage }),
			slider("period", "Square-wave period (s)", 0.5, 20, 0.5, func(p *CircuitParams) *float64 { return &p.Period }),
		},
		Init:     initCircuit,
		Update:   updateCircuit,
		Draw:     drawCircuit,
		Readouts: circuitReadouts,
	}
}

func rcCircuit(p CircuitParams) *models.RCCircuit {
	return &models.RCCircuit{
		Resistance:  p.Resistance * 1e3,
		Capacitance: p.Capacitance * 1e-6,
		Voltage:     p.Voltage,
		Period:      p.Period,
	}
}

func initCircuit(p CircuitParams) CircuitState {
	return CircuitState{
		Y:         dynamo.State{0},
		Capacitor: metrics.NewHistory(600),
		Source:    metrics.NewHistory(600),
	}
}

func updateCircuit(s *CircuitState, p CircuitParams, dt float64) {
	c := rcCircuit(p)
	n, h := substeps(dt, circuitMaxStep)
	for i := 0; i < n; i++ {
		s.Y = rk4.Step(c.Derivative, s.T, s.Y, h)
		s.T += h
	}
	if n > 0 {
		s.Capacitor.Push(s.Y[0])
		s.Source.Push(c.Source(s.T))
	}
}

func drawCircuit(ctx surface.Context, f session.Frame, s *CircuitState, p CircuitParams) {
	background(ctx, f.Width, f.Height)

	plot := Rect{MinX: 12, MinY: 48, MaxX: f.Width - 12, MaxY: f.Height - 12}
	series(ctx, plot, colAxis, s.Source.Values(), -0.05*p.Voltage, p.Voltage*1.05)
	series(ctx, plot, colPrimary, s.Capacitor.Values(), -0.05*p.Voltage, p.Voltage*1.05)

	c := rcCircuit(p)
	label(ctx, 12, 18, fmt.Sprintf("Vc = %.2f V", s.Y[0]))
	label(ctx, 12, 34, fmt.Sprintf("τ = RC = %.3g s", c.TimeConstant()))
}

func circuitReadouts(s *CircuitState, p CircuitParams) []Readout {
	c := rcCircuit(p)
	return []Readout{
		{Name: "time", Label: "Time", Value: s.T, Unit: "s"},
		{Name: "vc", Label: "Capacitor voltage", Value: s.Y[0], Unit: "V"},
		{Name: "source", Label: "Source voltage", Value: c.Source(s.T), Unit: "V"},
		{Name: "current", Label: "Current", Value: c.Current(s.T, s.Y[0]) * 1e3, Unit: "mA"},
		{Name: "tau", Label: "Time constant", Value: c.TimeConstant(), Unit: "s"},
	}
}
