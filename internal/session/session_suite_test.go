package session_test

import (
	"image/color"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/surface"
)

func TestSession(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session Suite")
}

const refresh = 16 * time.Millisecond

type nopBackend struct{ w, h int }

func (b *nopBackend) Resize(w, h int)                                           { b.w, b.h = w, h }
func (b *nopBackend) Size() (int, int)                                          { return b.w, b.h }
func (b *nopBackend) ClearAll()                                                 {}
func (b *nopBackend) FillAll(color.RGBA)                                        {}
func (b *nopBackend) StrokePolyline([]surface.Point, bool, float64, color.RGBA) {}
func (b *nopBackend) FillPolygon([]surface.Point, color.RGBA)                   {}
func (b *nopBackend) Text(string, surface.Point, float64, color.RGBA)           {}

type element struct {
	surface.Listeners
	w, h    float64
	dpr     float64
	backend *nopBackend
	ctx     *surface.Context2D
}

func newElement(w, h float64) *element {
	b := &nopBackend{}
	return &element{w: w, h: h, dpr: 2, backend: b, ctx: surface.NewContext(b)}
}

func (e *element) ClientSize() (float64, float64)   { return e.w, e.h }
func (e *element) DevicePixelRatio() float64        { return e.dpr }
func (e *element) SetBackingSize(w, h int)          { e.backend.Resize(w, h) }
func (e *element) Context() (surface.Context, bool) { return e.ctx, true }

func (e *element) resize(w, h float64) {
	e.w, e.h = w, h
	e.Notify()
}

type countingHost struct {
	*frame.ManualHost
	cancels int
}

func (h *countingHost) CancelFrame(id frame.Handle) {
	h.cancels++
	h.ManualHost.CancelFrame(id)
}
