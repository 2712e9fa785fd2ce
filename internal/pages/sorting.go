package pages

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/simcanvas/internal/models"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type SortingParams struct {
	Count     float64
	Interval  float64
	Seed      float64
	Stiffness float64
}

type SortingState struct {
	Sorter *models.BubbleSort
	// Slot and Vel hold each value's animated bar position, indexed by
	// value-1.
	Slot   []float64
	Vel    []float64
	A, B   int
	acc    float64
	active bool
}

func Sorting() Page {
	return &Definition[SortingState, SortingParams]{
		Meta: Info{
			Name:     "sorting",
			Title:    "Bubble Sort",
			Category: "computer science",
			Summary:  "Adjacent comparisons bubble the largest values to the end, one step per tick.",
		},
		Defaults: SortingParams{Count: 24, Interval: 0.15, Seed: 42, Stiffness: 8},
		Sliders: []Field[SortingParams]{
			slider("count", "Bars", 4, 64, 1, func(p *SortingParams) *float64 { return &p.Count }).restarts(),
			slider("interval", "Step interval (s)", 0.02, 1, 0.01, func(p *SortingParams) *float64 { return &p.Interval }),
			slider("seed", "Shuffle seed", 0, 1000, 1, func(p *SortingParams) *float64 { return &p.Seed }).restarts(),
			slider("stiffness", "Bar spring", 1, 20, 0.5, func(p *SortingParams) *float64 { return &p.Stiffness }),
		},
		Init:     initSorting,
		Update:   updateSorting,
		Draw:     drawSorting,
		Readouts: sortingReadouts,
	}
}

func initSorting(p SortingParams) SortingState {
	n := int(math.Round(p.Count))
	s := SortingState{
		Sorter: models.NewBubbleSort(n, int64(p.Seed)),
		Slot:   make([]float64, n),
		Vel:    make([]float64, n),
	}
	for i, v := range s.Sorter.Values {
		s.Slot[int(v)-1] = float64(i)
	}
	return s
}

func updateSorting(s *SortingState, p SortingParams, dt float64) {
	s.acc += dt
	for s.acc >= p.Interval && !s.Sorter.Done() {
		s.acc -= p.Interval
		s.A, s.B, _, s.active = s.Sorter.Step()
	}
	if s.Sorter.Done() {
		s.active = false
		s.acc = 0
	}

	spring := harmonica.NewSpring(dt, p.Stiffness, 1)
	for i, v := range s.Sorter.Values {
		k := int(v) - 1
		s.Slot[k], s.Vel[k] = spring.Update(s.Slot[k], s.Vel[k], float64(i))
	}
}

func drawSorting(ctx surface.Context, f session.Frame, s *SortingState, p SortingParams) {
	background(ctx, f.Width, f.Height)

	n := len(s.Slot)
	if n == 0 {
		return
	}
	area := Rect{MinX: 12, MinY: 40, MaxX: f.Width - 12, MaxY: f.Height - 12}
	slotW := area.Width() / float64(n)
	for k, slot := range s.Slot {
		h := area.Height() * float64(k+1) / float64(n)
		idx := int(math.Round(slot))
		switch {
		case s.Sorter.Done():
			ctx.SetFillColor(colGood)
		case s.active && (idx == s.A || idx == s.B):
			ctx.SetFillColor(colAccent)
		default:
			ctx.SetFillColor(colPrimary)
		}
		ctx.FillRect(area.MinX+slot*slotW+1, area.MaxY-h, math.Max(slotW-2, 1), h)
	}

	label(ctx, 12, 18, fmt.Sprintf("comparisons %d  swaps %d", s.Sorter.Comparisons(), s.Sorter.Swaps()))
}

func sortingReadouts(s *SortingState, _ SortingParams) []Readout {
	done := 0.0
	if s.Sorter.Done() {
		done = 1
	}
	return []Readout{
		{Name: "comparisons", Label: "Comparisons", Value: float64(s.Sorter.Comparisons())},
		{Name: "swaps", Label: "Swaps", Value: float64(s.Sorter.Swaps())},
		{Name: "sorted", Label: "Sorted", Value: done},
	}
}
