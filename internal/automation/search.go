package automation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/simcanvas/internal/experiment"
)

// GridSearch evaluates every combination of parameter values and picks the
// one whose final readout is smallest.
type GridSearch struct {
	Page    string
	Readout string
	Grid    map[string][]float64
	Params  map[string]float64
	// Maximize flips the objective.
	Maximize bool
}

// Search returns the best parameter set and its objective value.
func (r *Runner) Search(ctx context.Context, g *GridSearch) (map[string]float64, float64, error) {
	names := make([]string, 0, len(g.Grid))
	for name, values := range g.Grid {
		if _, err := r.field(g.Page, name); err != nil {
			return nil, 0, err
		}
		if len(values) == 0 {
			return nil, 0, fmt.Errorf("grid for %q is empty", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var combos []map[string]float64
	expand(names, g.Grid, map[string]float64{}, &combos)

	cfgs := make([]experiment.Config, len(combos))
	for i, c := range combos {
		cfgs[i] = r.runConfig(g.Page, g.Params, c)
	}
	runs, err := r.exp.RunAll(ctx, cfgs, r.Workers)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for i, res := range runs {
		val, err := res.Final(g.Readout)
		if err != nil {
			return nil, 0, err
		}
		if math.IsNaN(val) {
			continue
		}
		score := val
		if g.Maximize {
			score = -val
		}
		if score < best {
			best = score
			bestParams = combos[i]
		}
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no finite %s in %d runs", g.Readout, len(runs))
	}
	if g.Maximize {
		best = -best
	}
	return bestParams, best, nil
}

func expand(names []string, grid map[string][]float64, current map[string]float64, out *[]map[string]float64) {
	if len(names) == 0 {
		c := make(map[string]float64, len(current))
		for k, v := range current {
			c[k] = v
		}
		*out = append(*out, c)
		return
	}
	for _, v := range grid[names[0]] {
		current[names[0]] = v
		expand(names[1:], grid, current, out)
	}
	delete(current, names[0])
}
