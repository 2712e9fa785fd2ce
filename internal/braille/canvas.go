// Package braille draws a surface onto a terminal grid using Unicode
// braille patterns, two dots wide and four dots tall per cell.
package braille

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells with one foreground color per cell and
// an optional text overlay.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.RGBA
	Paper         [][]color.RGBA
	Text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Grid = make([][]rune, h)
	c.Colors = make([][]color.RGBA, h)
	c.Paper = make([][]color.RGBA, h)
	c.Text = make([][]rune, h)
	for i := 0; i < h; i++ {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.RGBA, w)
		c.Paper[i] = make([]color.RGBA, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y) in dot coordinates. The canvas is
// Width*2 by Height*4 dots.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.Grid[cy][cx] |= pixelMap[y%4][x%2]
	c.Colors[cy][cx] = col
}

// Unset clears the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.Width || cy >= c.Height {
		return
	}
	c.Grid[cy][cx] &^= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

// Clear resets every dot, color and text cell.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = color.RGBA{}
			c.Paper[i][j] = color.RGBA{}
			c.Text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col color.RGBA) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PutText writes s into the overlay starting at cell (col, row).
func (c *Canvas) PutText(col, row int, s string, fg color.RGBA) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= c.Width {
			return
		}
		if col >= 0 {
			c.Text[row][col] = r
			c.Colors[row][col] = fg
		}
		col++
	}
}

func (c *Canvas) cell(row, col int) rune {
	if t := c.Text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

// String renders the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.cell(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with lipgloss colors, batching runs of cells
// that share a style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		var fg, bg color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(fg, bg).Render(run.String()))
			run.Reset()
		}
		for col := range c.Grid[row] {
			cf, cb := c.Colors[row][col], c.Paper[row][col]
			if col > 0 && (cf != fg || cb != bg) {
				flush()
			}
			fg, bg = cf, cb
			run.WriteRune(c.cell(row, col))
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func styleFor(fg, bg color.RGBA) lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg.A != 0 {
		s = s.Foreground(hex(fg))
	}
	if bg.A != 0 {
		s = s.Background(hex(bg))
	}
	return s
}

func hex(c color.RGBA) lipgloss.Color {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0xf]
	}
	return lipgloss.Color(string(b))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
