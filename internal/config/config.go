package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/pages"
)

const (
	DefaultPage   = "orbit"
	DefaultHost   = "tui"
	DefaultFPS    = 30.0
	DefaultDtCap  = 0.05
	DefaultWidth  = 640.0
	DefaultHeight = 400.0
	DefaultDPR    = 1.0
	DefaultFrames = 120
	DefaultTheme  = "cyberpunk"
)

type Config struct {
	Page    string             `yaml:"page"`
	Host    string             `yaml:"host"`
	FPS     float64            `yaml:"fps"`
	DtCap   float64            `yaml:"dt_cap"`
	Animate bool               `yaml:"animate"`
	Clear   string             `yaml:"clear"`
	Width   float64            `yaml:"width"`
	Height  float64            `yaml:"height"`
	DPR     float64            `yaml:"dpr"`
	Frames  int                `yaml:"frames"`
	Theme   string             `yaml:"theme"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Page:    DefaultPage,
		Host:    DefaultHost,
		FPS:     DefaultFPS,
		DtCap:   DefaultDtCap,
		Animate: true,
		Clear:   "transparent",
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		DPR:     DefaultDPR,
		Frames:  DefaultFrames,
		Theme:   DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Host != "tui" && c.Host != "gui":
		return fmt.Errorf("host %q: want tui or gui", c.Host)
	case !(c.FPS > 0):
		return fmt.Errorf("fps must be positive, got %g", c.FPS)
	case c.DtCap < 0:
		return fmt.Errorf("dt_cap must not be negative, got %g", c.DtCap)
	case !(c.Width > 0) || !(c.Height > 0):
		return fmt.Errorf("size %gx%g must be positive", c.Width, c.Height)
	case !(c.DPR > 0):
		return fmt.Errorf("dpr must be positive, got %g", c.DPR)
	case c.Frames < 1:
		return fmt.Errorf("frames must be at least 1, got %d", c.Frames)
	}
	if _, _, err := ParseClear(c.Clear); err != nil {
		return err
	}
	return nil
}

// ApplyPreset overlays a named preset onto Params. Explicit params win.
func (c *Config) ApplyPreset(name string) error {
	preset := GetPreset(c.Page, name)
	if preset == nil {
		return fmt.Errorf("no preset %q for page %q (have %v)", name, c.Page, ListPresets(c.Page))
	}
	merged := make(map[string]float64, len(preset)+len(c.Params))
	for k, v := range preset {
		merged[k] = v
	}
	for k, v := range c.Params {
		merged[k] = v
	}
	c.Params = merged
	return nil
}

// SetParam parses an assignment of the form name=value.
func (c *Config) SetParam(assign string) error {
	name, raw, ok := strings.Cut(assign, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("parameter %q: want name=value", assign)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	if c.Params == nil {
		c.Params = make(map[string]float64)
	}
	c.Params[name] = v
	return nil
}

// MountConfig translates the loop settings for pages.Mount.
func (c *Config) MountConfig(log *slog.Logger) (pages.MountConfig, error) {
	mode, col, err := ParseClear(c.Clear)
	if err != nil {
		return pages.MountConfig{}, err
	}
	return pages.MountConfig{
		Params:        c.Params,
		DtCap:         time.Duration(c.DtCap * float64(time.Second)),
		OverrideClear: true,
		Clear:         mode,
		ClearColor:    col,
		Static:        !c.Animate,
		Logger:        log,
	}, nil
}

// FrameInterval is the refresh period for FPS.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.FPS)
}

// ParseClear reads "transparent", "none", or a #rrggbb / #rrggbbaa color.
func ParseClear(s string) (frame.ClearMode, color.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "transparent":
		return frame.ClearTransparent, nil, nil
	case "none":
		return frame.ClearNone, nil, nil
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, nil, fmt.Errorf("clear %q: want transparent, none, or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("clear %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return frame.ClearFill, color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
