package surface

import (
	"image/color"
	"math"
	"testing"
)

func TestMatrixInvert(t *testing.T) {
	m := ScaleMatrix(2, 3).Mul(TranslateMatrix(5, -1))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	p := m.Apply(7, 11)
	back := inv.Apply(p.X, p.Y)
	if math.Abs(back.X-7) > 1e-9 || math.Abs(back.Y-11) > 1e-9 {
		t.Errorf("round trip = %+v", back)
	}

	if _, ok := ScaleMatrix(0, 1).Invert(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestContextAppliesTransform(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)
	ctx.Scale(2, 2)
	ctx.Translate(10, 0)

	ctx.FillRect(0, 0, 5, 5)

	want := []Point{{20, 0}, {30, 0}, {30, 10}, {20, 10}}
	if len(b.polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(b.polygons))
	}
	for i, p := range b.polygons[0] {
		if p != want[i] {
			t.Errorf("corner %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestContextLineWidthScales(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)
	ctx.Scale(3, 3)
	ctx.SetLineWidth(2)

	ctx.BeginPath()
	ctx.MoveTo(0, 0)
	ctx.LineTo(1, 1)
	ctx.Stroke()

	if len(b.widths) != 1 || b.widths[0] != 6 {
		t.Errorf("device line width = %v, want 6", b.widths)
	}
}

func TestContextArcClosesCircle(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)

	ctx.BeginPath()
	ctx.Arc(50, 50, 10, 0, 2*math.Pi)
	ctx.FillPath()

	if len(b.polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(b.polygons))
	}
	pts := b.polygons[0]
	first, last := pts[0], pts[len(pts)-1]
	if math.Hypot(first.X-last.X, first.Y-last.Y) > 1e-9 {
		t.Errorf("full arc should end where it starts: %+v vs %+v", first, last)
	}
	for _, p := range pts {
		if r := math.Hypot(p.X-50, p.Y-50); math.Abs(r-10) > 1e-9 {
			t.Errorf("point %+v off the circle (r=%v)", p, r)
		}
	}
}

func TestContextBeginPathResets(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)

	ctx.BeginPath()
	ctx.MoveTo(0, 0)
	ctx.LineTo(10, 0)
	ctx.Stroke()

	ctx.BeginPath()
	ctx.MoveTo(0, 5)
	ctx.LineTo(10, 5)
	ctx.Stroke()

	if len(b.strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(b.strokes))
	}
	if b.strokes[1][0].Y != 5 {
		t.Errorf("second stroke replayed the first path: %+v", b.strokes[1])
	}
}

func TestContextClearAndFill(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)

	ctx.Clear()
	ctx.Fill(color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if b.clears != 1 {
		t.Errorf("clears = %d, want 1", b.clears)
	}
	if len(b.fills) != 1 || b.fills[0].G != 20 {
		t.Errorf("fills = %+v", b.fills)
	}
}

func TestContextTextPosition(t *testing.T) {
	b := &recordingBackend{}
	ctx := NewContext(b)
	ctx.Scale(2, 2)
	ctx.FillText("t=1.00s", 4, 8)

	if len(b.texts) != 1 || b.textAt[0] != (Point{8, 16}) {
		t.Errorf("text at %+v", b.textAt)
	}
}
