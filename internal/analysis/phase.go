package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// PhasePortrait holds a 2D phase-space trajectory.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []dynamo.Vec2
}

// NewPhasePortrait pairs xs and ys sample by sample.
func NewPhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) (*PhasePortrait, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("phase portrait %s/%s: %d vs %d samples: %w",
			xLabel, yLabel, len(xs), len(ys), dynamo.ErrDimensionMismatch)
	}
	p := &PhasePortrait{XLabel: xLabel, YLabel: yLabel, Points: make([]dynamo.Vec2, 0, len(xs))}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		p.Points = append(p.Points, dynamo.Vec2{X: xs[i], Y: ys[i]})
	}
	return p, nil
}

// PoincareSection records (xs[i], ys[i]) wherever cross goes upward through
// threshold between samples i-1 and i.
func PoincareSection(cross []float64, threshold float64, xs, ys []float64) []dynamo.Vec2 {
	n := min(len(cross), len(xs), len(ys))
	var out []dynamo.Vec2
	for i := 1; i < n; i++ {
		if cross[i-1] < threshold && cross[i] >= threshold {
			out = append(out, dynamo.Vec2{X: xs[i], Y: ys[i]})
		}
	}
	return out
}

// ASCII renders the portrait on a width x height character grid with axes
// through the origin when it is visible.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := range grid {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	if p.XLabel != "" || p.YLabel != "" {
		fmt.Fprintf(&sb, "x: %s  y: %s\n", p.XLabel, p.YLabel)
	}
	return sb.String()
}
