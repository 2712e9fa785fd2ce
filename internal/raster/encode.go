package raster

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"
)

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Recorder accumulates frames for an animated GIF.
type Recorder struct {
	anim  gif.GIF
	delay int
}

// NewRecorder records frames shown at fps frames per second.
func NewRecorder(fps float64) *Recorder {
	delay := 4
	if fps > 0 {
		delay = max(int(math.Round(100/fps)), 1)
	}
	return &Recorder{delay: delay}
}

// Add quantises img to the Plan 9 palette and appends it.
func (r *Recorder) Add(img image.Image) {
	b := img.Bounds()
	frame := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(frame, b, img, b.Min)
	r.anim.Image = append(r.anim.Image, frame)
	r.anim.Delay = append(r.anim.Delay, r.delay)
}

func (r *Recorder) Frames() int { return len(r.anim.Image) }

func (r *Recorder) Encode(w io.Writer) error {
	if len(r.anim.Image) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}
	if err := gif.EncodeAll(w, &r.anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
