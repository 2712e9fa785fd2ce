package pages

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/simcanvas/internal/dynamo"
	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/raster"
)

const refresh = 16 * time.Millisecond

type rig struct {
	host *frame.ManualHost
	elem *raster.Element
	m    Mounted
}

func mount(t *testing.T, name string, params map[string]float64) *rig {
	t.Helper()
	p, err := Default().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	host := frame.NewManualHost()
	elem := raster.NewElement(320, 200, 1)
	m, err := p.Mount(host, elem, elem, MountConfig{Params: params})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Unmount)
	return &rig{host: host, elem: elem, m: m}
}

func (r *rig) run(n int) { r.host.Run(n, refresh) }

func (r *rig) readout(t *testing.T, name string) float64 {
	t.Helper()
	for _, ro := range r.m.Readouts() {
		if ro.Name == name {
			return ro.Value
		}
	}
	t.Fatalf("no readout %q", name)
	return 0
}

func inked(r *rig) bool {
	pix := r.elem.Image().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			return true
		}
	}
	return false
}

func TestRegistry(t *testing.T) {
	reg := Default()
	names := reg.Names()
	want := []string{"adas", "circuit", "decay", "double-pendulum", "foodweb", "orbit", "pendulum", "projectile", "skatepark", "sorting"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if _, err := reg.Lookup("nope"); !errors.Is(err, dynamo.ErrUnknownPage) {
		t.Errorf("Lookup(nope) err = %v", err)
	}

	groups := reg.ByCategory()
	if len(groups["physics"]) != 7 || len(groups["biology"]) != 1 || len(groups["economics"]) != 1 {
		t.Errorf("unexpected grouping: %v", reg.Categories())
	}

	if got := reg.Next("sorting", 1); got != "adas" {
		t.Errorf("Next(sorting) = %q, want wraparound to adas", got)
	}
	if got := reg.Next("adas", -1); got != "sorting" {
		t.Errorf("Next(adas, -1) = %q", got)
	}
	if got := reg.Next("missing", 1); got != "adas" {
		t.Errorf("Next(missing) = %q", got)
	}
}

func TestEveryPageRuns(t *testing.T) {
	for _, name := range Default().Names() {
		t.Run(name, func(t *testing.T) {
			r := mount(t, name, nil)
			r.run(30)

			if !inked(r) {
				t.Error("nothing was drawn")
			}
			for _, ro := range r.m.Readouts() {
				if math.IsInf(ro.Value, 0) {
					t.Errorf("readout %s is infinite", ro.Name)
				}
				if ro.Name != "landing" && math.IsNaN(ro.Value) {
					t.Errorf("readout %s is NaN", ro.Name)
				}
			}

			info := r.m.Page().Info()
			if info.Title == "" || info.Category == "" || info.Summary == "" {
				t.Errorf("incomplete info %+v", info)
			}
			for _, f := range r.m.Page().Fields() {
				if f.Default < f.Min || f.Default > f.Max {
					t.Errorf("field %s default %g outside [%g, %g]", f.Name, f.Default, f.Min, f.Max)
				}
			}

			r.m.Unmount()
			if r.host.Pending() != 0 {
				t.Errorf("%d frames still queued after unmount", r.host.Pending())
			}
			frames := r.m.Frames()
			r.run(5)
			if r.m.Frames() != frames {
				t.Error("frames advanced after unmount")
			}
		})
	}
}

func TestSetParamValidation(t *testing.T) {
	r := mount(t, "projectile", nil)

	var pe *dynamo.ParamError
	if err := r.m.SetParam("angle", 120); !errors.As(err, &pe) || pe.Name != "angle" {
		t.Errorf("out of range: err = %v", err)
	}
	if err := r.m.SetParam("angle", math.NaN()); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("NaN: err = %v", err)
	}
	if err := r.m.SetParam("wind", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("unknown: err = %v", err)
	}
	if got := r.m.Params()["angle"]; got != 45 {
		t.Errorf("rejected values must not apply, angle = %v", got)
	}
}

func TestMountRejectsBadConfig(t *testing.T) {
	p, _ := Default().Lookup("orbit")
	host := frame.NewManualHost()
	elem := raster.NewElement(100, 100, 1)

	if _, err := p.Mount(host, elem, elem, MountConfig{Params: map[string]float64{"radius": 1}}); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v", err)
	}
	if _, err := p.Mount(host, elem, elem, MountConfig{Params: map[string]float64{"spin": 1}}); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("err = %v", err)
	}
	if host.Pending() != 0 {
		t.Error("a rejected mount must not schedule frames")
	}
}

func TestRestartFieldReinitialises(t *testing.T) {
	r := mount(t, "projectile", nil)
	r.run(60)
	if r.readout(t, "time") <= 0 {
		t.Fatal("simulation did not advance")
	}

	if err := r.m.SetParam("rate", 2); err != nil {
		t.Fatal(err)
	}
	if r.readout(t, "time") == 0 {
		t.Error("changing the playback rate must not restart")
	}

	if err := r.m.SetParam("angle", 30); err != nil {
		t.Fatal(err)
	}
	if got := r.readout(t, "time"); got != 0 {
		t.Errorf("time after restart = %v, want 0", got)
	}
	r.run(10)
	if r.readout(t, "time") <= 0 {
		t.Error("loop did not resume after restart")
	}
}

func TestReset(t *testing.T) {
	r := mount(t, "pendulum", nil)
	r.run(30)
	r.m.Reset()
	if got := r.readout(t, "theta"); math.Abs(got-45) > 1e-9 {
		t.Errorf("theta after reset = %v", got)
	}
	if !r.m.Running() {
		t.Error("reset must not stop the loop")
	}
}

func TestStaticPage(t *testing.T) {
	r := mount(t, "adas", nil)

	if r.m.Frames() != 1 {
		t.Fatalf("static mount drew %d frames, want 1", r.m.Frames())
	}
	if r.host.Pending() != 0 || r.m.Running() {
		t.Error("static pages must not schedule frames")
	}

	if err := r.m.SetParam("demand", 20); err != nil {
		t.Fatal(err)
	}
	if r.m.Frames() != 2 {
		t.Errorf("param change should redraw, frames = %d", r.m.Frames())
	}
	if got := r.readout(t, "output"); got != 110 {
		t.Errorf("output = %v, want 110", got)
	}

	r.elem.SetSize(400, 300)
	if r.m.Frames() != 3 {
		t.Errorf("resize should redraw, frames = %d", r.m.Frames())
	}
	if w, h := r.m.Surface().LogicalSize(); w != 400 || h != 300 {
		t.Errorf("surface = %vx%v", w, h)
	}
}

func TestProjectileLandsAtAnalyticRange(t *testing.T) {
	r := mount(t, "projectile", map[string]float64{"rate": 5})
	for i := 0; i < 2000 && math.IsNaN(r.readout(t, "landing")); i++ {
		r.run(1)
	}
	land := r.readout(t, "landing")
	want := r.readout(t, "range")
	if math.Abs(land-want) > 0.5 {
		t.Errorf("landed at %.3f, analytic %.3f", land, want)
	}
	if y := r.readout(t, "y"); y != 0 {
		t.Errorf("landed height = %v", y)
	}

	landedAt := r.readout(t, "time")
	r.run(20)
	if r.readout(t, "time") != landedAt {
		t.Error("simulation kept running after landing")
	}
}

func TestProjectileFromHeight(t *testing.T) {
	r := mount(t, "projectile", map[string]float64{"rate": 5, "height": 40, "angle": 20})
	r.run(1500)
	if land, want := r.readout(t, "landing"), r.readout(t, "range"); math.Abs(land-want) > 0.5 {
		t.Errorf("landed at %.3f, analytic %.3f", land, want)
	}
}

func TestOrbitEnergyBounded(t *testing.T) {
	r := mount(t, "orbit", nil)
	r.run(600)
	if drift := r.readout(t, "drift"); drift > 1 {
		t.Errorf("energy drift %.4f%%", drift)
	}
	if rad := r.readout(t, "radius"); math.Abs(rad-150)/150 > 0.05 {
		t.Errorf("radius wandered to %.2f", rad)
	}
}

func TestSkateParkConservesTotal(t *testing.T) {
	r := mount(t, "skatepark", map[string]float64{"friction": 0.1})
	total := r.readout(t, "total")
	r.run(900)
	if got := r.readout(t, "total"); math.Abs(got-total)/total > 1e-3 {
		t.Errorf("total energy %f, started at %f", got, total)
	}
	if r.readout(t, "thermal") <= 0 {
		t.Error("no heat generated with friction")
	}
}

func TestDecayTracksBateman(t *testing.T) {
	r := mount(t, "decay", nil)
	r.run(300)
	if e := r.readout(t, "error"); e > 1e-3 {
		t.Errorf("deviation from Bateman = %e", e)
	}
	sum := r.readout(t, "parent") + r.readout(t, "daughter") + r.readout(t, "stable")
	if math.Abs(sum-1000) > 1e-6 {
		t.Errorf("nuclei = %f", sum)
	}
}

func TestFoodWebInvariant(t *testing.T) {
	r := mount(t, "foodweb", map[string]float64{"timescale": 5})
	v0 := r.readout(t, "invariant")
	r.run(600)
	if v := r.readout(t, "invariant"); math.Abs(v-v0)/math.Abs(v0) > 1e-5 {
		t.Errorf("invariant drifted from %f to %f", v0, v)
	}
}

func TestSortingFinishesAndBarsSettle(t *testing.T) {
	r := mount(t, "sorting", map[string]float64{"interval": 0.02})
	r.run(600)
	if r.readout(t, "sorted") != 1 {
		t.Fatal("not sorted after 600 frames")
	}
	if got := r.readout(t, "comparisons"); got != 24*23/2 {
		t.Errorf("comparisons = %v", got)
	}

	s := r.m.(*instance[SortingState, SortingParams]).sess.State()
	for k, slot := range s.Slot {
		if math.Abs(slot-float64(k)) > 0.05 {
			t.Errorf("bar %d rests at %.3f, want %d", k+1, slot, k)
		}
	}
}

func TestDegenerateElementDefersLoop(t *testing.T) {
	p, _ := Default().Lookup("pendulum")
	host := frame.NewManualHost()
	elem := raster.NewElement(0, 0, 1)
	m, err := p.Mount(host, elem, elem, MountConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Unmount()

	host.Run(3, refresh)
	if m.Frames() != 0 || m.Running() {
		t.Fatal("loop ran without a usable surface")
	}

	elem.SetSize(200, 100)
	host.Run(3, refresh)
	if m.Frames() != 3 {
		t.Errorf("frames after layout = %d, want 3", m.Frames())
	}
}

func TestViewportRoundTrip(t *testing.T) {
	vp := Fit(200, 100, 10, Rect{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})
	sx, sy := vp.ToScreen(1, 1)
	if sx <= 100 || sy >= 50 {
		t.Errorf("(1,1) mapped to (%v,%v); y must point up", sx, sy)
	}
	x, y := vp.ToWorld(sx, sy)
	if math.Abs(x-1) > 1e-12 || math.Abs(y-1) > 1e-12 {
		t.Errorf("round trip gave (%v,%v)", x, y)
	}
	if vp.Scale() != 40 {
		t.Errorf("scale = %v, want 40", vp.Scale())
	}
}

// trackedEvents counts live resize subscriptions on an element.
type trackedEvents struct {
	*raster.Element
	active, peak int
}

func (e *trackedEvents) OnResize(fn func()) func() {
	e.active++
	e.peak = max(e.peak, e.active)
	cancel := e.Element.OnResize(fn)
	return func() {
		e.active--
		cancel()
	}
}

func TestSwapReleasesElementFirst(t *testing.T) {
	host := frame.NewManualHost()
	elem := raster.NewElement(320, 200, 1)
	events := &trackedEvents{Element: elem}
	reg := Default()

	projectile, _ := reg.Lookup("projectile")
	orbit, _ := reg.Lookup("orbit")

	old, err := Swap(nil, projectile, host, elem, events, MountConfig{})
	if err != nil {
		t.Fatal(err)
	}
	host.Run(3, refresh)

	m, err := Swap(old, orbit, host, elem, events, MountConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Unmount()

	if events.peak != 1 {
		t.Errorf("peak resize subscriptions = %d, want 1", events.peak)
	}
	if old.Running() {
		t.Error("replaced page is still running")
	}
	if got := m.Page().Info().Name; got != "orbit" {
		t.Errorf("mounted %q, want orbit", got)
	}
	if host.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", host.Pending())
	}
}

func TestSwapRestoresOnFailure(t *testing.T) {
	host := frame.NewManualHost()
	elem := raster.NewElement(320, 200, 1)
	events := &trackedEvents{Element: elem}
	reg := Default()

	projectile, _ := reg.Lookup("projectile")
	orbit, _ := reg.Lookup("orbit")

	old, err := Swap(nil, projectile, host, elem, events, MountConfig{Params: map[string]float64{"angle": 30}})
	if err != nil {
		t.Fatal(err)
	}

	m, err := Swap(old, orbit, host, elem, events, MountConfig{Params: map[string]float64{"radius": 1}})
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Fatalf("err = %v, want ErrParameterBounds", err)
	}
	if m == nil {
		t.Fatal("previous page was not restored")
	}
	defer m.Unmount()

	if got := m.Page().Info().Name; got != "projectile" {
		t.Errorf("restored %q, want projectile", got)
	}
	if got := m.Params()["angle"]; got != 30 {
		t.Errorf("restored angle = %v, want 30", got)
	}
	if !m.Running() {
		t.Error("restored page is not running")
	}
	if events.active != 1 || events.peak != 1 {
		t.Errorf("subscriptions active=%d peak=%d, want 1 and 1", events.active, events.peak)
	}
	if host.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", host.Pending())
	}
}
