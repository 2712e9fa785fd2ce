package surface

import (
	"math"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// Element is a host's canvas element.
type Element interface {
	// ClientSize is the displayed size in logical (CSS-like) pixels.
	ClientSize() (w, h float64)
	// DevicePixelRatio reports physical pixels per logical pixel; <= 0 means unknown.
	DevicePixelRatio() float64
	Context() (Context, bool)
	SetBackingSize(w, h int)
}

type Size struct {
	Width, Height float64
	DPR           float64
	BackingWidth  int
	BackingHeight int
}

// Empty reports whether no non-degenerate size has been observed yet.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Surface keeps an element's backing buffer in step with its logical size.
// Invariant: after a successful Resize the backing buffer is logical*DPR and the
// context transform is exactly scale(DPR).
type Surface struct {
	elem Element
	size Size
}

func New(elem Element) *Surface {
	return &Surface{elem: elem}
}

func (s *Surface) Element() Element { return s.elem }

// Resize re-reads the element and reallocates the backing buffer. A zero-area
// element leaves the previous size in place and returns ErrDegenerateLayout.
func (s *Surface) Resize() (Size, error) {
	if s == nil || s.elem == nil {
		return Size{}, dynamo.ErrNoSurface
	}
	ctx, ok := s.elem.Context()
	if !ok || ctx == nil {
		return s.size, dynamo.ErrNoSurface
	}

	w, h := s.elem.ClientSize()
	if !(w > 0 && h > 0) {
		return s.size, dynamo.ErrDegenerateLayout
	}

	dpr := s.elem.DevicePixelRatio()
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}

	next := Size{
		Width:         w,
		Height:        h,
		DPR:           dpr,
		BackingWidth:  int(math.Round(w * dpr)),
		BackingHeight: int(math.Round(h * dpr)),
	}
	s.elem.SetBackingSize(next.BackingWidth, next.BackingHeight)
	ctx.ResetTransform()
	ctx.Scale(dpr, dpr)

	s.size = next
	return next, nil
}

func (s *Surface) Size() Size { return s.size }

// Context returns the element's drawing context, or false while the element
// is detached or has never been laid out.
func (s *Surface) Context() (Context, bool) {
	if s == nil || s.elem == nil || s.size.Empty() {
		return nil, false
	}
	return s.elem.Context()
}

func (s *Surface) LogicalSize() (w, h float64) {
	return s.size.Width, s.size.Height
}

// ToLogical maps a device-pixel position to logical coordinates for hit-testing.
func (s *Surface) ToLogical(px, py float64) (x, y float64) {
	dpr := s.size.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return px / dpr, py / dpr
}
