package frame

import (
	"image/color"
	"io"
	"log/slog"
	"time"
)

type ClearMode int

const (
	// ClearTransparent fully clears the surface before each draw.
	ClearTransparent ClearMode = iota
	// ClearFill paints ClearColor before each draw.
	ClearFill
	// ClearNone leaves the previous frame in place.
	ClearNone
)

func (m ClearMode) String() string {
	switch m {
	case ClearTransparent:
		return "transparent"
	case ClearFill:
		return "fill"
	case ClearNone:
		return "none"
	default:
		return "unknown"
	}
}

type Options struct {
	// Animate loops once per display refresh; false draws a single frame with dt=0.
	Animate    bool
	Clear      ClearMode
	ClearColor color.Color
	DtCap      time.Duration
	Logger     *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Animate: true,
		Clear:   ClearTransparent,
		DtCap:   DefaultDtCap,
	}
}

// Static is DefaultOptions with animation off.
func Static() Options {
	o := DefaultOptions()
	o.Animate = false
	return o
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return discard
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
