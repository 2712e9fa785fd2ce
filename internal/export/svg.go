// Package export renders terminal frames and trajectories as SVG.
package export

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/san-kum/simcanvas/internal/braille"
	"github.com/san-kum/simcanvas/internal/dynamo"
)

const (
	svgBackground = "#0a0a0a"
	svgDefaultDot = "#00ff00"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per dot and one
// text element per overlay run. scale is the size of a dot in SVG units.
func CanvasToSVG(canvas *braille.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)

	pixelMap := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			if paper := canvas.Paper[row][col]; paper.A != 0 {
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, baseX, baseY, scale*2, scale*4, hexColor(paper))
			}
			if canvas.Text[row][col] != 0 {
				continue
			}
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			fill := svgDefaultDot
			if c := canvas.Colors[row][col]; c.A != 0 {
				fill = hexColor(c)
			}
			sb.WriteString(`<g fill="` + fill + `">`)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, cx, cy, dotRadius)
					}
				}
			}
			sb.WriteString("</g>\n")
		}
		writeTextRuns(&sb, canvas, row, scale)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeTextRuns(sb *strings.Builder, canvas *braille.Canvas, row int, scale float64) {
	text := canvas.Text[row]
	for col := 0; col < len(text); {
		if text[col] == 0 {
			col++
			continue
		}
		start := col
		var run strings.Builder
		for col < len(text) && text[col] != 0 {
			run.WriteRune(text[col])
			col++
		}
		fill := svgDefaultDot
		if c := canvas.Colors[row][start]; c.A != 0 {
			fill = hexColor(c)
		}
		fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.1f" fill="%s">%s</text>
`, float64(start)*scale*2, float64(row+1)*scale*4-scale, scale*3.5, fill, html.EscapeString(run.String()))
	}
}

// TrajectoryToSVG draws points as one path scaled to fill width x height
// with a 10% margin. It returns "" for fewer than two points.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
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
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, svgBackground, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
