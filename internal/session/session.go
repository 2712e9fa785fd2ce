// Package session ties one page instance's drawing surface, resize listener,
// frame loop and simulation state together for the lifetime of a mount.
package session

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/surface"
)

// Frame is everything a draw callback learns about the current refresh.
type Frame struct {
	Width, Height float64
	Dt            float64
	Index         int64
	Elapsed       float64
}

// DrawFunc receives all of its inputs as arguments; nothing is captured from
// the registration site.
type DrawFunc[S, P any] func(ctx surface.Context, f Frame, state *S, params P)

type Options struct {
	Logger *slog.Logger
}

// Session owns one simulation instance. Nothing it holds is shared with other
// sessions, and Unmount releases the loop and the resize listener together.
type Session[S, P any] struct {
	host   frame.Host
	surf   *surface.Surface
	events surface.ResizeEvents
	log    *slog.Logger

	state  S
	params P
	draw   DrawFunc[S, P]
	deps   []any
	opts   frame.Options

	registered bool
	mounted    bool
	sched      *frame.Scheduler
	reactor    *surface.Reactor
	index      int64
	elapsed    float64
}

func New[S, P any](host frame.Host, elem surface.Element, events surface.ResizeEvents, state S, opts Options) *Session[S, P] {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session[S, P]{
		host:   host,
		surf:   surface.New(elem),
		events: events,
		log:    log,
		state:  state,
	}
}

// Register installs the draw callback and returns the surface handle. The loop
// restarts when deps or loop options change; otherwise only params and draw are
// swapped in for the next frame. Static sessions redraw on every Register.
func (s *Session[S, P]) Register(draw DrawFunc[S, P], deps []any, params P, opts frame.Options) *surface.Surface {
	restart := !s.registered || !depsEqual(s.deps, deps) || !optionsEqual(s.opts, opts) || !opts.Animate

	s.draw = draw
	s.params = params
	s.deps = append([]any(nil), deps...)
	if opts.Logger == nil {
		opts.Logger = s.log
	}
	s.opts = opts
	s.registered = true

	if restart && s.mounted {
		s.log.Debug("restarting frame loop", "animate", opts.Animate)
		s.stopLoop()
		s.startLoop()
	}
	return s.surf
}

// Mount sizes the surface, subscribes to resize events and starts the loop.
// It reports whether the loop (or static draw) ran; an unavailable surface is
// not an error, the loop starts on the first usable resize instead.
func (s *Session[S, P]) Mount() bool {
	if s.mounted {
		return s.sched != nil
	}
	// attach before flagging mounted so the initial resize only sizes the surface
	s.reactor = surface.Attach(s.surf, s.events, s.onResize)
	s.mounted = true
	if !s.registered {
		return false
	}
	return s.startLoop()
}

// Unmount stops the loop and removes the resize listener. Idempotent.
func (s *Session[S, P]) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.stopLoop()
	s.reactor.Detach()
	s.reactor = nil
}

func (s *Session[S, P]) Mounted() bool { return s.mounted }

func (s *Session[S, P]) Running() bool {
	return s.sched != nil && s.sched.Running()
}

// Update mutates the state between frames.
func (s *Session[S, P]) Update(fn func(state *S)) {
	fn(&s.state)
}

func (s *Session[S, P]) State() *S { return &s.state }

func (s *Session[S, P]) Params() P { return s.params }

func (s *Session[S, P]) Surface() *surface.Surface { return s.surf }

func (s *Session[S, P]) Frames() int64 { return s.index }

func (s *Session[S, P]) onResize(size surface.Size) {
	s.log.Debug("surface resized", "width", size.Width, "height", size.Height, "dpr", size.DPR)
	if !s.mounted || !s.registered {
		return
	}
	if s.sched == nil {
		s.startLoop()
		return
	}
	if !s.opts.Animate {
		s.sched.Start()
	}
}

func (s *Session[S, P]) startLoop() bool {
	sched := frame.New(s.host, s.surf, s.tick, s.opts)
	if !sched.Start() {
		s.log.Debug("frame loop deferred: surface unavailable")
		return false
	}
	s.sched = sched
	return true
}

func (s *Session[S, P]) stopLoop() {
	if s.sched == nil {
		return
	}
	s.sched.Stop()
	s.sched = nil
}

func (s *Session[S, P]) tick(ctx surface.Context, w, h, dt float64) {
	s.elapsed += dt
	f := Frame{Width: w, Height: h, Dt: dt, Index: s.index, Elapsed: s.elapsed}
	s.index++
	s.draw(ctx, f, &s.state, s.params)
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	return cmp.Equal(a, b, cmpopts.EquateNaNs(), exportAll)
}

func optionsEqual(a, b frame.Options) bool {
	return a.Animate == b.Animate &&
		a.Clear == b.Clear &&
		a.DtCap == b.DtCap &&
		a.ClearColor == b.ClearColor
}
