package raster

import (
	"image"

	"github.com/san-kum/simcanvas/internal/surface"
)

// Element is an offscreen canvas element with a fixed logical size. Resize
// listeners fire when SetSize changes it.
type Element struct {
	surface.Listeners

	w, h    float64
	dpr     float64
	backend *Backend
	ctx     *surface.Context2D
}

func NewElement(w, h, dpr float64) *Element {
	b := NewBackend(0, 0)
	return &Element{w: w, h: h, dpr: dpr, backend: b, ctx: surface.NewContext(b)}
}

func (e *Element) ClientSize() (float64, float64) { return e.w, e.h }

func (e *Element) DevicePixelRatio() float64 { return e.dpr }

func (e *Element) Context() (surface.Context, bool) { return e.ctx, true }

func (e *Element) SetBackingSize(w, h int) { e.backend.Resize(w, h) }

// SetSize changes the layout size and notifies resize listeners.
func (e *Element) SetSize(w, h float64) {
	e.w, e.h = w, h
	e.Notify()
}

// SetDPR changes the device pixel ratio and notifies resize listeners.
func (e *Element) SetDPR(dpr float64) {
	e.dpr = dpr
	e.Notify()
}

// Image is the backing image at device resolution.
func (e *Element) Image() *image.RGBA { return e.backend.Image() }

func (e *Element) Backend() *Backend { return e.backend }
