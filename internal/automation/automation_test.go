package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/simcanvas/internal/experiment"
	"github.com/san-kum/simcanvas/internal/pages"
)

func newRunner() *Runner {
	base := experiment.Config{
		Frames:   5,
		Interval: time.Second / 30,
		Width:    160,
		Height:   100,
		DPR:      1,
	}
	r := NewRunner(pages.Default(), base, nil)
	r.Workers = 2
	return r
}

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `name: tour
steps:
  - page: pendulum
    frames: 12
    params:
      theta0: 30
  - page: decay
    fps: 60
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	results, err := newRunner().RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if len(results[0].Times) != 12 || results[0].Params["theta0"] != 30 {
		t.Errorf("step 1: %d frames, params %v", len(results[0].Times), results[0].Params)
	}
	if got := results[1].Times[0]; math.Abs(got-1.0/60) > 1e-6 {
		t.Errorf("step 2 first frame at %v", got)
	}
}

func TestScenarioErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: none\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(empty); err == nil {
		t.Error("empty scenario should fail")
	}

	sc := &Scenario{Steps: []ScenarioStep{{Page: "pendulum"}, {Page: "nope"}}}
	results, err := newRunner().RunScenario(context.Background(), sc)
	if err == nil {
		t.Fatal("unknown page should fail")
	}
	if len(results) != 1 {
		t.Errorf("kept %d results before the failure", len(results))
	}
}

func TestSweepFindsMaxRange(t *testing.T) {
	results, err := newRunner().RunSweep(context.Background(), &ParameterSweep{
		Page:      "projectile",
		ParamName: "angle",
		ParamMin:  15,
		ParamMax:  75,
		NumSteps:  5,
		Readout:   "range",
	})
	if err != nil {
		t.Fatal(err)
	}
	best := 0
	for i, r := range results {
		if r.Final > results[best].Final {
			best = i
		}
	}
	if results[best].ParamValue != 45 {
		t.Errorf("longest range at %v degrees", results[best].ParamValue)
	}
	if math.Abs(results[0].Final-results[4].Final) > 1e-9 {
		t.Errorf("complementary angles differ: %v vs %v", results[0].Final, results[4].Final)
	}
}

func TestSweepRejectsUnknownParam(t *testing.T) {
	_, err := newRunner().RunSweep(context.Background(), &ParameterSweep{
		Page: "projectile", ParamName: "mass", ParamMin: 1, ParamMax: 2, NumSteps: 3, Readout: "range",
	})
	if err == nil {
		t.Error("expected an error")
	}
}

func TestMonteCarlo(t *testing.T) {
	cfg := &MonteCarloConfig{
		Page:      "pendulum",
		Vary:      []string{"length"},
		NumTrials: 8,
		Readout:   "period",
		Seed:      7,
	}
	r := newRunner()
	first, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	again, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Params["length"] != again[i].Params["length"] {
			t.Fatal("same seed drew different parameters")
		}
		l := first[i].Params["length"]
		want := 2 * math.Pi * math.Sqrt(l/9.81)
		if math.Abs(first[i].Final-want) > 1e-9 {
			t.Errorf("trial %d: period %v, want %v", i, first[i].Final, want)
		}
	}

	bounded, mean, stddev := MonteCarloStats(first)
	if bounded != 8 {
		t.Errorf("bounded = %d", bounded)
	}
	if mean <= 0 || stddev < 0 {
		t.Errorf("mean %v stddev %v", mean, stddev)
	}
}

func TestMonteCarloStatsEmpty(t *testing.T) {
	n, mean, _ := MonteCarloStats([]MonteCarloResult{{Final: math.Inf(1)}})
	if n != 0 || !math.IsNaN(mean) {
		t.Errorf("got %d, %v", n, mean)
	}
}

func TestGridSearch(t *testing.T) {
	params, best, err := newRunner().Search(context.Background(), &GridSearch{
		Page:     "projectile",
		Readout:  "range",
		Grid:     map[string][]float64{"angle": {30, 45, 60}, "speed": {20, 40}},
		Maximize: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if params["angle"] != 45 || params["speed"] != 40 {
		t.Errorf("best params %v", params)
	}
	if want := 40 * 40 / 9.8; math.Abs(best-want) > 1e-6 {
		t.Errorf("best = %v, want %v", best, want)
	}
}

func TestExpand(t *testing.T) {
	var out []map[string]float64
	expand([]string{"a", "b"}, map[string][]float64{"a": {1, 2}, "b": {3, 4, 5}}, map[string]float64{}, &out)
	if len(out) != 6 {
		t.Fatalf("got %d combinations", len(out))
	}
	if out[0]["a"] != 1 || out[0]["b"] != 3 || out[5]["a"] != 2 || out[5]["b"] != 5 {
		t.Errorf("combinations = %v", out)
	}
}
