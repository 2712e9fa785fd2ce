// Package automation scripts batches of headless runs: YAML scenarios,
// parameter sweeps, random sampling and grid search.
package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/simcanvas/internal/experiment"
	"github.com/san-kum/simcanvas/internal/pages"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario.
type ScenarioStep struct {
	Page   string             `yaml:"page"`
	Frames int                `yaml:"frames"`
	FPS    float64            `yaml:"fps"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// Runner executes batches against one registry.
type Runner struct {
	exp     *experiment.Runner
	reg     *pages.Registry
	log     *slog.Logger
	base    experiment.Config
	Workers int
}

// NewRunner uses base for every setting a batch does not override.
func NewRunner(reg *pages.Registry, base experiment.Config, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{exp: experiment.New(reg), reg: reg, log: log, base: base}
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// RunScenario executes the steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "page", step.Page)

		cfg := r.base
		cfg.Page = step.Page
		cfg.Params = step.Params
		if step.Frames > 0 {
			cfg.Frames = step.Frames
		}
		if step.FPS > 0 {
			cfg.Interval = time.Duration(float64(time.Second) / step.FPS)
		}

		res, err := r.exp.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep runs a page across evenly spaced values of one parameter.
type ParameterSweep struct {
	Page      string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// Readout is summarised per run.
	Readout string
	Params  map[string]float64
}

// SweepResult summarises one sweep point.
type SweepResult struct {
	ParamValue float64
	Final      float64
	Min        float64
	Max        float64
}

// RunSweep executes a parameter sweep on the runner's workers.
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if _, err := r.field(sweep.Page, sweep.ParamName); err != nil {
		return nil, err
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	cfgs := make([]experiment.Config, sweep.NumSteps)
	values := make([]float64, sweep.NumSteps)
	for i := range cfgs {
		values[i] = sweep.ParamMin + float64(i)*paramStep
		cfgs[i] = r.runConfig(sweep.Page, sweep.Params, map[string]float64{sweep.ParamName: values[i]})
	}

	runs, err := r.exp.RunAll(ctx, cfgs, r.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, res := range runs {
		series, err := res.Column(sweep.Readout)
		if err != nil {
			return nil, err
		}
		lo, hi, last := envelope(series)
		results[i] = SweepResult{ParamValue: values[i], Final: last, Min: lo, Max: hi}
		r.log.Debug("sweep point", "param", sweep.ParamName, "value", values[i], sweep.Readout, last)
	}
	return results, nil
}

// MonteCarloConfig samples parameters uniformly within their slider ranges.
type MonteCarloConfig struct {
	Page      string
	Vary      []string
	NumTrials int
	Readout   string
	Seed      int64
	Params    map[string]float64
}

// MonteCarloResult is one sampled trial.
type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Final   float64
	// Bounded is false when the readout left the finite range.
	Bounded bool
}

// RunMonteCarlo executes trials with randomly drawn parameters.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	fields := make([]pages.FieldInfo, len(cfg.Vary))
	for i, name := range cfg.Vary {
		f, err := r.field(cfg.Page, name)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]experiment.Config, cfg.NumTrials)
	drawn := make([]map[string]float64, cfg.NumTrials)
	for trial := range cfgs {
		p := make(map[string]float64, len(fields))
		for _, f := range fields {
			p[f.Name] = f.Min + rng.Float64()*(f.Max-f.Min)
		}
		drawn[trial] = p
		cfgs[trial] = r.runConfig(cfg.Page, cfg.Params, p)
	}

	runs, err := r.exp.RunAll(ctx, cfgs, r.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		final, err := res.Final(cfg.Readout)
		if err != nil {
			return nil, err
		}
		results[i] = MonteCarloResult{
			TrialID: i,
			Params:  drawn[i],
			Final:   final,
			Bounded: !math.IsNaN(final) && !math.IsInf(final, 0) && math.Abs(final) < 1e6,
		}
	}
	return results, nil
}

// MonteCarloStats summarises the bounded trials.
func MonteCarloStats(results []MonteCarloResult) (bounded int, mean, stddev float64) {
	var sum, sumSq float64
	for _, r := range results {
		if !r.Bounded {
			continue
		}
		bounded++
		sum += r.Final
		sumSq += r.Final * r.Final
	}
	if bounded == 0 {
		return 0, math.NaN(), math.NaN()
	}
	n := float64(bounded)
	mean = sum / n
	stddev = math.Sqrt(math.Max(sumSq/n-mean*mean, 0))
	return bounded, mean, stddev
}

func (r *Runner) runConfig(page string, base, override map[string]float64) experiment.Config {
	cfg := r.base
	cfg.Page = page
	cfg.Params = make(map[string]float64, len(base)+len(override))
	for k, v := range base {
		cfg.Params[k] = v
	}
	for k, v := range override {
		cfg.Params[k] = v
	}
	return cfg
}

func (r *Runner) field(page, name string) (pages.FieldInfo, error) {
	p, err := r.reg.Lookup(page)
	if err != nil {
		return pages.FieldInfo{}, err
	}
	for _, f := range p.Fields() {
		if f.Name == name {
			return f, nil
		}
	}
	return pages.FieldInfo{}, fmt.Errorf("page %s has no parameter %q", page, name)
}

func envelope(s []float64) (lo, hi, last float64) {
	if len(s) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, s[len(s)-1]
}
