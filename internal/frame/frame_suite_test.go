package frame_test

import (
	"image/color"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/surface"
)

func TestFrame(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Frame Suite")
}

type countingBackend struct {
	w, h   int
	clears int
	fills  []color.RGBA
}

func (b *countingBackend) Resize(w, h int)                                           { b.w, b.h = w, h }
func (b *countingBackend) Size() (int, int)                                          { return b.w, b.h }
func (b *countingBackend) ClearAll()                                                 { b.clears++ }
func (b *countingBackend) FillAll(c color.RGBA)                                      { b.fills = append(b.fills, c) }
func (b *countingBackend) StrokePolyline([]surface.Point, bool, float64, color.RGBA) {}
func (b *countingBackend) FillPolygon([]surface.Point, color.RGBA)                   {}
func (b *countingBackend) Text(string, surface.Point, float64, color.RGBA)           {}

type testElement struct {
	w, h     float64
	backend  *countingBackend
	ctx      *surface.Context2D
	detached bool
}

func newTestElement(w, h float64) *testElement {
	b := &countingBackend{}
	return &testElement{w: w, h: h, backend: b, ctx: surface.NewContext(b)}
}

func (e *testElement) ClientSize() (float64, float64) { return e.w, e.h }
func (e *testElement) DevicePixelRatio() float64      { return 1 }
func (e *testElement) SetBackingSize(w, h int)        { e.backend.Resize(w, h) }
func (e *testElement) Context() (surface.Context, bool) {
	if e.detached {
		return nil, false
	}
	return e.ctx, true
}

// leakyHost ignores cancellation, as a host might when a frame is already
// in flight.
type leakyHost struct {
	*frame.ManualHost
	cancels int
}

func (h *leakyHost) CancelFrame(frame.Handle) { h.cancels++ }

type countingHost struct {
	*frame.ManualHost
	cancels int
}

func (h *countingHost) CancelFrame(id frame.Handle) {
	h.cancels++
	h.ManualHost.CancelFrame(id)
}

const refresh = 16 * time.Millisecond
