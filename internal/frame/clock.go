package frame

import "time"

// DefaultDtCap bounds a single frame's dt so a backgrounded window or a stall
// does not hand the simulation one huge step.
const DefaultDtCap = 50 * time.Millisecond

// Clock turns host timestamps into clamped frame deltas.
type Clock struct {
	last    time.Duration
	cap     float64
	started bool
}

func NewClock(cap time.Duration) *Clock {
	if cap <= 0 {
		cap = DefaultDtCap
	}
	return &Clock{cap: cap.Seconds()}
}

func (c *Clock) Start(now time.Duration) {
	c.last = now
	c.started = true
}

// Tick returns the seconds since the previous tick, clamped to [0, cap].
func (c *Clock) Tick(now time.Duration) float64 {
	if !c.started {
		c.Start(now)
		return 0
	}
	dt := (now - c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	if dt > c.cap {
		return c.cap
	}
	return dt
}

func (c *Clock) Cap() float64 { return c.cap }
