package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/simcanvas/internal/frame"
)

// FrameMsg is one terminal refresh.
type FrameMsg time.Time

// Host is a frame.Host fed by bubbletea ticks. Its clock only moves when the
// program pumps it, so a paused view accumulates no time.
type Host struct {
	*frame.ManualHost
	last time.Time
}

func NewHost() *Host {
	return &Host{ManualHost: frame.NewManualHost()}
}

// Pump advances the clock to a tick's wall time and fires the callbacks
// queued before it. It returns how many ran.
func (h *Host) Pump(at time.Time) int {
	if h.last.IsZero() {
		h.last = at
		return h.Advance(0)
	}
	d := at.Sub(h.last)
	h.last = at
	if d < 0 {
		d = 0
	}
	return h.Advance(d)
}

// Resync forgets the last tick so the next Pump does not see the gap.
func (h *Host) Resync() { h.last = time.Time{} }

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}
