package pages

import (
	"fmt"

	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type ADASParams struct {
	DemandShift float64
	SupplyShift float64
	Potential   float64
}

// ADASState is empty: the diagram is a pure function of the parameters.
type ADASState struct{}

func ADAS() Page {
	return &Definition[ADASState, ADASParams]{
		Meta: Info{
			Name:     "adas",
			Title:    "Aggregate Demand and Supply",
			Category: "economics",
			Summary:  "Shift AD and SRAS and watch the short-run equilibrium move against potential output.",
		},
		Defaults: ADASParams{Potential: 100},
		Sliders: []Field[ADASParams]{
			slider("demand", "AD shift", -50, 50, 1, func(p *ADASParams) *float64 { return &p.DemandShift }),
			slider("supply", "SRAS shift", -50, 50, 1, func(p *ADASParams) *float64 { return &p.SupplyShift }),
			slider("potential", "Potential output", 50, 150, 1, func(p *ADASParams) *float64 { return &p.Potential }),
		},
		Init:     func(ADASParams) ADASState { return ADASState{} },
		Draw:     drawADAS,
		Readouts: adasReadouts,
		Static:   true,
	}
}

func adasModel(p ADASParams) *models.ADAS {
	m := models.NewADAS()
	m.DemandShift, m.SupplyShift, m.Potential = p.DemandShift, p.SupplyShift, p.Potential
	return m
}

func drawADAS(ctx surface.Context, f session.Frame, _ *ADASState, p ADASParams) {
	background(ctx, f.Width, f.Height)

	m := adasModel(p)
	vp := Fit(f.Width, f.Height, 28, Rect{MaxX: 200, MaxY: 250})
	axes(ctx, vp)

	polyline(ctx, vp, colPrimary, 2, []float64{0, 200}, []float64{m.Demand(0), m.Demand(200)})
	polyline(ctx, vp, colSecondary, 2, []float64{0, 200}, []float64{m.Supply(0), m.Supply(200)})
	polyline(ctx, vp, colAxis, 2, []float64{p.Potential, p.Potential}, []float64{0, 250})

	y, price := m.Equilibrium()
	ex, ey := vp.ToScreen(y, price)
	disc(ctx, colAccent, ex, ey, 5)

	lx, ly := vp.ToScreen(190, m.Demand(190))
	label(ctx, lx, ly-6, "AD")
	lx, ly = vp.ToScreen(190, m.Supply(190))
	label(ctx, lx-24, ly, "SRAS")
	lx, ly = vp.ToScreen(p.Potential, 245)
	label(ctx, lx+4, ly, "LRAS")
	label(ctx, 12, 18, fmt.Sprintf("Y* = %.1f  P* = %.1f  gap %+.1f", y, price, m.Gap()))
}

func adasReadouts(_ *ADASState, p ADASParams) []Readout {
	m := adasModel(p)
	y, price := m.Equilibrium()
	return []Readout{
		{Name: "output", Label: "Equilibrium output", Value: y},
		{Name: "price", Label: "Price level", Value: price},
		{Name: "gap", Label: "Output gap", Value: m.Gap()},
	}
}
