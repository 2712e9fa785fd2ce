// Package experiment runs pages headlessly. A virtual host drives the frame
// loop at a fixed interval and the readouts are recorded after every frame.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/pages"
	"github.com/san-kum/simcanvas/internal/raster"
)

var ErrUnknownReadout = errors.New("experiment: unknown readout")

type Config struct {
	Page     string
	Params   map[string]float64
	Frames   int
	Interval time.Duration
	Width    float64
	Height   float64
	DPR      float64
	// Mount carries the loop settings. Its Params are replaced by Params.
	Mount pages.MountConfig
}

// FromConfig builds a run from the loaded configuration.
func FromConfig(c *config.Config, mc pages.MountConfig) Config {
	return Config{
		Page:     c.Page,
		Params:   c.Params,
		Frames:   c.Frames,
		Interval: c.FrameInterval(),
		Width:    c.Width,
		Height:   c.Height,
		DPR:      c.DPR,
		Mount:    mc,
	}
}

func (c Config) validate() error {
	switch {
	case c.Frames < 1:
		return fmt.Errorf("frames must be at least 1, got %d", c.Frames)
	case c.Interval <= 0:
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	case !(c.Width > 0) || !(c.Height > 0):
		return fmt.Errorf("size %gx%g must be positive", c.Width, c.Height)
	case !(c.DPR > 0):
		return fmt.Errorf("dpr must be positive, got %g", c.DPR)
	}
	return nil
}

// Frame is what an Observer sees after each refresh.
type Frame struct {
	Index    int
	Time     float64
	Readouts []pages.Readout
	Image    *image.RGBA
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Column struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Unit  string `json:"unit,omitempty"`
}

// Result holds one recorded run.
type Result struct {
	Page    string
	Params  map[string]float64
	Columns []Column
	Times   []float64
	Series  map[string][]float64
	Frames  int64
}

// Column returns the recorded series of a readout.
func (r *Result) Column(name string) ([]float64, error) {
	s, ok := r.Series[name]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", r.Page, name, ErrUnknownReadout)
	}
	return s, nil
}

// Final returns the last recorded value of a readout.
func (r *Result) Final(name string) (float64, error) {
	s, err := r.Column(name)
	if err != nil {
		return 0, err
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("%s: %q has no samples", r.Page, name)
	}
	return s[len(s)-1], nil
}

// Runner mounts pages from a registry.
type Runner struct {
	reg       *pages.Registry
	observers []Observer
}

func New(reg *pages.Registry) *Runner {
	return &Runner{reg: reg}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run mounts cfg.Page on an off-screen raster, advances cfg.Frames refreshes
// and returns the readout series. A cancelled context stops the run early and
// returns what was recorded so far.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := r.reg.Lookup(cfg.Page)
	if err != nil {
		return nil, err
	}

	host := frame.NewManualHost()
	elem := raster.NewElement(cfg.Width, cfg.Height, cfg.DPR)
	mc := cfg.Mount
	mc.Params = cfg.Params
	m, err := p.Mount(host, elem, elem, mc)
	if err != nil {
		return nil, err
	}
	defer m.Unmount()

	res := &Result{
		Page:   cfg.Page,
		Params: m.Params(),
		Times:  make([]float64, 0, cfg.Frames),
		Series: make(map[string][]float64),
	}
	for _, ro := range m.Readouts() {
		res.Columns = append(res.Columns, Column{Name: ro.Name, Label: ro.Label, Unit: ro.Unit})
		res.Series[ro.Name] = make([]float64, 0, cfg.Frames)
	}

	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			res.Frames = m.Frames()
			return res, err
		}
		host.Advance(cfg.Interval)

		readouts := m.Readouts()
		res.Times = append(res.Times, host.Now().Seconds())
		for _, ro := range readouts {
			res.Series[ro.Name] = append(res.Series[ro.Name], ro.Value)
		}
		for _, o := range r.observers {
			o.OnFrame(Frame{Index: i, Time: host.Now().Seconds(), Readouts: readouts, Image: elem.Image()})
		}
	}
	res.Frames = m.Frames()
	return res, nil
}
