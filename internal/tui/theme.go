package tui

import (
	"image/color"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the terminal host.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   "#ff00ff",
		Secondary: "#00ffff",
		Accent:    "#ffff00",
		Text:      "#ffffff",
		Muted:     "#666688",
		Border:    "#444466",
		Success:   "#00ff88",
		Warning:   "#ffaa00",
		Error:     "#ff4444",
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   "#00ff00", // phosphor
		Secondary: "#00cc00",
		Accent:    "#88ff88",
		Text:      "#00ff00",
		Muted:     "#005500",
		Border:    "#003300",
		Success:   "#88ff88",
		Warning:   "#ffff00",
		Error:     "#ff0000",
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   "#ffffff",
		Secondary: "#cccccc",
		Accent:    "#0088ff",
		Text:      "#ffffff",
		Muted:     "#888888",
		Border:    "#444444",
		Success:   "#00ff00",
		Warning:   "#ffaa00",
		Error:     "#ff0000",
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   "#0077be",
		Secondary: "#00a8cc",
		Accent:    "#ffd700",
		Text:      "#e0f0ff",
		Muted:     "#4488aa",
		Border:    "#224466",
		Success:   "#00ff88",
		Warning:   "#ffcc00",
		Error:     "#ff4444",
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   "#ff6b6b",
		Secondary: "#feca57",
		Accent:    "#ff9ff3",
		Text:      "#fff5f5",
		Muted:     "#8b6b8c",
		Border:    "#5b3b5c",
		Success:   "#5fd068",
		Warning:   "#ffc048",
		Error:     "#ff4757",
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// ThemeNames returns the available theme names.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles to the theme after name.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func rgb(c lipgloss.Color) color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
