package models

// ADAS is the linear aggregate demand / aggregate supply model:
//
//	AD:   P = DemandIntercept + DemandShift - Y
//	SRAS: P = SupplyShift + Y
//	LRAS: Y = Potential
type ADAS struct {
	DemandIntercept float64
	DemandShift     float64
	SupplyShift     float64
	Potential       float64
}

func NewADAS() *ADAS {
	return &ADAS{DemandIntercept: 200, Potential: 100}
}

func (m *ADAS) Demand(y float64) float64 { return m.DemandIntercept + m.DemandShift - y }

func (m *ADAS) Supply(y float64) float64 { return m.SupplyShift + y }

// Equilibrium is where AD meets SRAS.
func (m *ADAS) Equilibrium() (output, price float64) {
	output = (m.DemandIntercept + m.DemandShift - m.SupplyShift) / 2
	return output, m.Supply(output)
}

// Gap is equilibrium output minus potential output.
func (m *ADAS) Gap() float64 {
	y, _ := m.Equilibrium()
	return y - m.Potential
}
