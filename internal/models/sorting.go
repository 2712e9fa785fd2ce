package models

import "math/rand"

// BubbleSort steps a bubble sort one comparison at a time.
type BubbleSort struct {
	Values []float64
	i, j   int
	swaps  int
	comps  int
	done   bool
}

// NewBubbleSort shuffles 1..n with a fixed seed.
func NewBubbleSort(n int, seed int64) *BubbleSort {
	r := rand.New(rand.NewSource(seed))
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	r.Shuffle(n, func(a, b int) { vals[a], vals[b] = vals[b], vals[a] })
	return &BubbleSort{Values: vals, done: n < 2}
}

// Step performs one comparison and reports the compared pair and whether
// they were swapped. It returns ok=false once sorted.
func (b *BubbleSort) Step() (a, c int, swapped, ok bool) {
	if b.done {
		return 0, 0, false, false
	}
	n := len(b.Values)
	a, c = b.j, b.j+1
	b.comps++
	if b.Values[a] > b.Values[c] {
		b.Values[a], b.Values[c] = b.Values[c], b.Values[a]
		b.swaps++
		swapped = true
	}
	b.j++
	if b.j >= n-1-b.i {
		b.j = 0
		b.i++
		if b.i >= n-1 {
			b.done = true
		}
	}
	return a, c, swapped, true
}

// Cursor is the index of the next comparison.
func (b *BubbleSort) Cursor() int { return b.j }

func (b *BubbleSort) Done() bool       { return b.done }
func (b *BubbleSort) Swaps() int       { return b.swaps }
func (b *BubbleSort) Comparisons() int { return b.comps }
