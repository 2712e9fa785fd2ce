package surface

import "math"

// Matrix is a 2D affine transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

type Point struct {
	X, Y float64
}

func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

func TranslateMatrix(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Mul returns m∘n: n is applied first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

func (m Matrix) Apply(x, y float64) Point {
	return Point{
		X: m.A*x + m.C*y + m.E,
		Y: m.B*x + m.D*y + m.F,
	}
}

func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 || math.IsNaN(det) {
		return Matrix{}, false
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, true
}

// LinearScale is the factor by which the transform scales lengths, used for
// line widths and font sizes.
func (m Matrix) LinearScale() float64 {
	return math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
}
