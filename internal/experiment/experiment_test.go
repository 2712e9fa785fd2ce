package experiment

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/pages"
)

func pendulumRun(frames int) Config {
	return Config{
		Page:     "pendulum",
		Params:   map[string]float64{"damping": 0},
		Frames:   frames,
		Interval: time.Second / 30,
		Width:    200,
		Height:   120,
		DPR:      2,
	}
}

func TestRunRecordsEveryFrame(t *testing.T) {
	r := New(pages.Default())
	var seen int
	r.AddObserver(ObserverFunc(func(f Frame) {
		if f.Index != seen {
			t.Errorf("frame %d delivered as %d", seen, f.Index)
		}
		if b := f.Image.Bounds(); b.Dx() != 400 || b.Dy() != 240 {
			t.Errorf("image bounds %v", b)
		}
		seen++
	}))

	res, err := r.Run(context.Background(), pendulumRun(90))
	if err != nil {
		t.Fatal(err)
	}
	if seen != 90 || len(res.Times) != 90 {
		t.Fatalf("observed %d frames, recorded %d", seen, len(res.Times))
	}
	if res.Frames != 90 {
		t.Errorf("page drew %d frames", res.Frames)
	}

	simTime, err := res.Final("time")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(simTime-3) > 1e-6 {
		t.Errorf("simulated %v s, want 3", simTime)
	}
	if res.Params["damping"] != 0 {
		t.Errorf("params = %v", res.Params)
	}
	if len(res.Columns) == 0 || res.Columns[0].Name != "time" {
		t.Errorf("columns = %v", res.Columns)
	}
}

func TestUnknownReadout(t *testing.T) {
	res, err := New(pages.Default()).Run(context.Background(), pendulumRun(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.Column("nope"); !errors.Is(err, ErrUnknownReadout) {
		t.Errorf("err = %v", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"no frames", func(c *Config) { c.Frames = 0 }, nil},
		{"no interval", func(c *Config) { c.Interval = 0 }, nil},
		{"empty size", func(c *Config) { c.Width = 0 }, nil},
		{"unknown page", func(c *Config) { c.Page = "nope" }, dynamo.ErrUnknownPage},
		{"bad param", func(c *Config) { c.Params = map[string]float64{"length": -1} }, dynamo.ErrParameterBounds},
	}
	r := New(pages.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pendulumRun(10)
			tt.mutate(&cfg)
			_, err := r.Run(context.Background(), cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(pages.Default())
	r.AddObserver(ObserverFunc(func(f Frame) {
		if f.Index == 9 {
			cancel()
		}
	}))
	res, err := r.Run(ctx, pendulumRun(100))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Times) != 10 {
		t.Errorf("recorded %d frames before cancel", len(res.Times))
	}
}

func TestRunAllKeepsOrder(t *testing.T) {
	angles := []float64{10, 20, 30, 40, 50, 60}
	cfgs := make([]Config, len(angles))
	for i, a := range angles {
		cfgs[i] = pendulumRun(5)
		cfgs[i].Params = map[string]float64{"theta0": a}
	}
	results, err := New(pages.Default()).RunAll(context.Background(), cfgs, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.Params["theta0"] != angles[i] {
			t.Errorf("result %d has theta0 %v", i, res.Params["theta0"])
		}
	}
}

func TestRunAllReportsFailure(t *testing.T) {
	cfgs := []Config{pendulumRun(50), pendulumRun(50), pendulumRun(50)}
	cfgs[1].Page = "nope"
	_, err := New(pages.Default()).RunAll(context.Background(), cfgs, 0)
	if !errors.Is(err, dynamo.ErrUnknownPage) {
		t.Errorf("err = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	c := config.DefaultConfig()
	c.Page = "decay"
	c.Frames = 12
	mc, err := c.MountConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := FromConfig(c, mc)
	if cfg.Page != "decay" || cfg.Frames != 12 || cfg.Interval != time.Second/30 {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := New(pages.Default()).Run(context.Background(), cfg); err != nil {
		t.Error(err)
	}
}
