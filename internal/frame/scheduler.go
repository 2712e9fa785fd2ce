package frame

import (
	"log/slog"
	"time"

	"github.com/san-kum/simcanvas/internal/surface"
)

type Handle uint64

// Host is the environment's per-frame scheduling primitive.
type Host interface {
	// Now is a monotonic timestamp.
	Now() time.Duration
	// RequestFrame runs cb once at the next display refresh.
	RequestFrame(cb func(now time.Duration)) Handle
	CancelFrame(h Handle)
}

// Target supplies the drawing context and its logical size each frame.
type Target interface {
	Context() (surface.Context, bool)
	LogicalSize() (w, h float64)
}

type DrawFunc func(ctx surface.Context, width, height, dt float64)

// Scheduler drives a DrawFunc once per display refresh with a clamped dt.
// All calls happen on the host's frame thread.
type Scheduler struct {
	host    Host
	target  Target
	draw    DrawFunc
	opts    Options
	clock   *Clock
	log     *slog.Logger
	handle  Handle
	gen     uint64
	pending bool
	running bool
	frames  int64
}

func New(host Host, target Target, draw DrawFunc, opts Options) *Scheduler {
	return &Scheduler{
		host:   host,
		target: target,
		draw:   draw,
		opts:   opts,
		clock:  NewClock(opts.DtCap),
		log:    opts.logger(),
	}
}

// Start begins the loop, or renders once in static mode. It reports false and
// does nothing when the target has no drawing context yet.
func (s *Scheduler) Start() bool {
	if s.running {
		return true
	}
	if s.host == nil || s.target == nil || s.draw == nil {
		s.log.Debug("scheduler not started: incomplete wiring")
		return false
	}
	if _, ok := s.target.Context(); !ok {
		s.log.Debug("scheduler not started: surface unavailable")
		return false
	}

	if !s.opts.Animate {
		s.render(0)
		return true
	}

	s.running = true
	s.clock.Start(s.host.Now())
	s.request()
	return true
}

// Stop cancels the pending frame. Safe to call repeatedly; a frame the host
// already queued will not reach the draw callback.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.gen++
	if s.pending {
		s.pending = false
		s.host.CancelFrame(s.handle)
	}
}

func (s *Scheduler) Running() bool { return s.running }

// Frames counts draw invocations.
func (s *Scheduler) Frames() int64 { return s.frames }

// request queues one frame bound to the current generation. Only the callback
// of the latest request may draw.
func (s *Scheduler) request() {
	s.gen++
	gen := s.gen
	s.pending = true
	s.handle = s.host.RequestFrame(func(now time.Duration) { s.frame(gen, now) })
}

func (s *Scheduler) frame(gen uint64, now time.Duration) {
	if !s.running || !s.pending || gen != s.gen {
		return
	}
	s.pending = false
	dt := s.clock.Tick(now)
	s.render(dt)
	// draw may have restarted the loop, which already queued a frame.
	if s.running && !s.pending {
		s.request()
	}
}

func (s *Scheduler) render(dt float64) {
	ctx, ok := s.target.Context()
	if !ok {
		s.log.Debug("frame skipped: surface unavailable")
		return
	}

	switch s.opts.Clear {
	case ClearTransparent:
		ctx.Clear()
	case ClearFill:
		if s.opts.ClearColor != nil {
			ctx.Fill(s.opts.ClearColor)
		} else {
			ctx.Clear()
		}
	}

	w, h := s.target.LogicalSize()
	s.invoke(ctx, w, h, dt)
}

func (s *Scheduler) invoke(ctx surface.Context, w, h, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("draw callback panicked", "frame", s.frames, "panic", r)
		}
	}()
	s.frames++
	s.draw(ctx, w, h, dt)
}
