// Package pages defines the interactive simulations. Each page pairs a
// parameter record and a simulation state with the draw callback that
// advances and renders them one frame at a time.
package pages

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

// Readout is one labelled value shown next to a simulation.
type Readout struct {
	Name  string
	Label string
	Value float64
	Unit  string
}

func (r Readout) String() string {
	if r.Unit == "" {
		return fmt.Sprintf("%s: %.4g", r.Label, r.Value)
	}
	return fmt.Sprintf("%s: %.4g %s", r.Label, r.Value, r.Unit)
}

// Field is one slider in a page's parameter table.
type Field[P any] struct {
	Name     string
	Label    string
	Min, Max float64
	Step     float64
	Get      func(P) float64
	Set      func(*P, float64)
	// Restart marks fields that define initial conditions; changing one
	// reinitialises the state and restarts the loop.
	Restart bool
}

// FieldInfo is the type-erased view of a Field.
type FieldInfo struct {
	Name     string
	Label    string
	Min, Max float64
	Step     float64
	Default  float64
	Restart  bool
}

// Info names and files a page.
type Info struct {
	Name     string
	Title    string
	Category string
	Summary  string
}

// Definition describes a page. Update, when set, runs before Draw with the
// same dt.
type Definition[S, P any] struct {
	Meta     Info
	Defaults P
	Sliders  []Field[P]
	Init     func(P) S
	Update   func(s *S, p P, dt float64)
	Draw     func(ctx surface.Context, f session.Frame, s *S, p P)
	Readouts func(s *S, p P) []Readout
	Static   bool
}

// MountConfig adjusts a mount. Zero values keep the page defaults.
type MountConfig struct {
	Params        map[string]float64
	DtCap         time.Duration
	OverrideClear bool
	Clear         frame.ClearMode
	ClearColor    color.Color
	Static        bool
	Logger        *slog.Logger
}

// Page is a registered simulation.
type Page interface {
	Info() Info
	Fields() []FieldInfo
	Mount(host frame.Host, elem surface.Element, events surface.ResizeEvents, cfg MountConfig) (Mounted, error)
}

// Mounted is a live page instance.
type Mounted interface {
	Page() Page
	Params() map[string]float64
	SetParam(name string, value float64) error
	Reset()
	Readouts() []Readout
	Surface() *surface.Surface
	Frames() int64
	Running() bool
	Unmount()
}

func (d *Definition[S, P]) Info() Info { return d.Meta }

func (d *Definition[S, P]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(d.Sliders))
	for i, f := range d.Sliders {
		out[i] = FieldInfo{
			Name: f.Name, Label: f.Label,
			Min: f.Min, Max: f.Max, Step: f.Step,
			Default: f.Get(d.Defaults),
			Restart: f.Restart,
		}
	}
	return out
}

func (d *Definition[S, P]) field(name string) (*Field[P], error) {
	for i := range d.Sliders {
		if d.Sliders[i].Name == name {
			return &d.Sliders[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %q: %w", d.Meta.Name, name, dynamo.ErrUnknownParam)
}

func (f *Field[P]) check(v float64) error {
	if math.IsNaN(v) || v < f.Min || v > f.Max {
		return &dynamo.ParamError{Name: f.Name, Value: v, Min: f.Min, Max: f.Max}
	}
	return nil
}

func (d *Definition[S, P]) Mount(host frame.Host, elem surface.Element, events surface.ResizeEvents, cfg MountConfig) (Mounted, error) {
	params := d.Defaults
	names := make([]string, 0, len(cfg.Params))
	for name := range cfg.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := d.field(name)
		if err != nil {
			return nil, err
		}
		v := cfg.Params[name]
		if err := f.check(v); err != nil {
			return nil, fmt.Errorf("%s: %w", d.Meta.Name, err)
		}
		f.Set(&params, v)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("page", d.Meta.Name)

	opts := frame.DefaultOptions()
	if d.Static || cfg.Static {
		opts.Animate = false
	}
	if cfg.DtCap > 0 {
		opts.DtCap = cfg.DtCap
	}
	if cfg.OverrideClear {
		opts.Clear = cfg.Clear
		opts.ClearColor = cfg.ClearColor
	}
	opts.Logger = log

	inst := &instance[S, P]{
		def:    d,
		params: params,
		opts:   opts,
		log:    log,
	}
	inst.sess = session.New[S, P](host, elem, events, d.Init(params), session.Options{Logger: log})
	inst.register()
	if !inst.sess.Mount() {
		log.Debug("mount deferred until the surface is usable")
	}
	return inst, nil
}

type instance[S, P any] struct {
	def    *Definition[S, P]
	sess   *session.Session[S, P]
	params P
	opts   frame.Options
	log    *slog.Logger
}

func (i *instance[S, P]) deps() []any {
	var deps []any
	for _, f := range i.def.Sliders {
		if f.Restart {
			deps = append(deps, f.Get(i.params))
		}
	}
	return deps
}

func (i *instance[S, P]) register() {
	i.sess.Register(i.draw, i.deps(), i.params, i.opts)
}

func (i *instance[S, P]) draw(ctx surface.Context, f session.Frame, s *S, p P) {
	if i.def.Update != nil {
		i.def.Update(s, p, f.Dt)
	}
	i.def.Draw(ctx, f, s, p)
}

func (i *instance[S, P]) Page() Page { return i.def }

func (i *instance[S, P]) Params() map[string]float64 {
	out := make(map[string]float64, len(i.def.Sliders))
	for _, f := range i.def.Sliders {
		out[f.Name] = f.Get(i.params)
	}
	return out
}

// SetParam validates and applies one parameter, then re-registers the draw
// callback with the new record.
func (i *instance[S, P]) SetParam(name string, value float64) error {
	f, err := i.def.field(name)
	if err != nil {
		return err
	}
	if err := f.check(value); err != nil {
		return err
	}
	if f.Get(i.params) == value {
		return nil
	}
	f.Set(&i.params, value)
	if f.Restart {
		i.reinit()
	}
	i.register()
	return nil
}

// Reset reinitialises the state from the current parameters.
func (i *instance[S, P]) Reset() {
	i.reinit()
	if !i.opts.Animate {
		i.register()
	}
}

func (i *instance[S, P]) reinit() {
	fresh := i.def.Init(i.params)
	i.sess.Update(func(s *S) { *s = fresh })
}

func (i *instance[S, P]) Readouts() []Readout {
	if i.def.Readouts == nil {
		return nil
	}
	return i.def.Readouts(i.sess.State(), i.params)
}

func (i *instance[S, P]) Surface() *surface.Surface { return i.sess.Surface() }
func (i *instance[S, P]) Frames() int64             { return i.sess.Frames() }
func (i *instance[S, P]) Running() bool             { return i.sess.Running() }
func (i *instance[S, P]) Unmount()                  { i.sess.Unmount() }

// Nudge moves field f of m by dir slider steps, clamped to the field's range.
func Nudge(m Mounted, f FieldInfo, dir float64) error {
	step := f.Step
	if step <= 0 {
		step = (f.Max - f.Min) / 100
	}
	v := m.Params()[f.Name] + dir*step
	return m.SetParam(f.Name, math.Max(f.Min, math.Min(f.Max, v)))
}

// Swap unmounts old before mounting p, so the element never has two owners.
// When p fails to mount, old's page is mounted again with its last params
// (simulation state restarts) and returned together with the error.
func Swap(old Mounted, p Page, host frame.Host, elem surface.Element, events surface.ResizeEvents, cfg MountConfig) (Mounted, error) {
	var (
		prev       Page
		prevParams map[string]float64
	)
	if old != nil {
		prev, prevParams = old.Page(), old.Params()
		old.Unmount()
	}

	m, err := p.Mount(host, elem, events, cfg)
	if err == nil || prev == nil {
		return m, err
	}

	back := cfg
	back.Params = prevParams
	restored, rerr := prev.Mount(host, elem, events, back)
	if rerr != nil {
		return nil, errors.Join(err, rerr)
	}
	return restored, err
}

// slider builds a Field from an accessor to the parameter's storage.
func slider[P any](name, label string, lo, hi, step float64, at func(*P) *float64) Field[P] {
	return Field[P]{
		Name: name, Label: label,
		Min: lo, Max: hi, Step: step,
		Get: func(p P) float64 { return *at(&p) },
		Set: func(p *P, v float64) { *at(p) = v },
	}
}

func (f Field[P]) restarts() Field[P] {
	f.Restart = true
	return f
}

// substeps splits dt into n equal steps no longer than maxStep.
func substeps(dt, maxStep float64) (n int, h float64) {
	if dt <= 0 {
		return 0, 0
	}
	n = int(math.Ceil(dt / maxStep))
	return n, dt / float64(n)
}
