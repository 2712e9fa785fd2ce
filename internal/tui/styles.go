package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from a Theme.
type Styles struct {
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Selected    lipgloss.Style
	Subtle      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	KeyHint     lipgloss.Style
	Running     lipgloss.Style
	Paused      lipgloss.Style
	Error       lipgloss.Style
	Graph       lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Subtle: lipgloss.NewStyle().
			Foreground(t.Muted),
		MetricLabel: lipgloss.NewStyle().
			Foreground(t.Muted).
			Width(12),
		MetricValue: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		Running: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),
		Paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),
		Error: lipgloss.NewStyle().
			Foreground(t.Error),
		Graph: lipgloss.NewStyle().
			Foreground(t.Accent),
	}
}

// GradientText colors each rune of text along a gradient from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, b := rgb(start), rgb(end)

	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := color.RGBA{
			R: lerp8(a.R, b.R, t),
			G: lerp8(a.G, b.G, t),
			B: lerp8(a.B, b.B, t),
		}
		col := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(col).Render(string(r)))
	}
	return out.String()
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}

// Slider renders a parameter position as a fixed-width bar.
func Slider(v, lo, hi float64, width int) string {
	ratio := 0.0
	if hi > lo {
		ratio = (v - lo) / (hi - lo)
	}
	ratio = clamp(ratio, 0, 1)
	filled := int(ratio*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Separator draws a centered diamond rule.
func (s Styles) Separator(width int) string {
	if width < 8 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
