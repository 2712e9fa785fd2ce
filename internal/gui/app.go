// Package gui hosts pages in a raylib window. Pages draw into a raster
// element whose pixels are uploaded to a texture every frame.
package gui

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/pages"
	"github.com/san-kum/simcanvas/internal/raster"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColError   = rl.NewColor(230, 80, 80, 255)
)

const hudWidth = 280

type App struct {
	reg  *pages.Registry
	cfg  *config.Config
	log  *slog.Logger
	host *frame.ManualHost
	elem *raster.Element

	page   pages.Mounted
	fields []pages.FieldInfo
	field  int

	tex     rl.Texture2D
	texW    int
	texH    int
	paused  bool
	last    float64
	err     error
	message string
}

// NewApp mounts cfg.Page into a canvas sized to the window's drawing area.
// The window must already be open.
func NewApp(cfg *config.Config, reg *pages.Registry, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		reg:  reg,
		cfg:  cfg,
		log:  log,
		host: frame.NewManualHost(),
		elem: raster.NewElement(canvasSize()),
		last: rl.GetTime(),
	}
	a.elem.SetDPR(dpr())
	if err := a.mount(cfg.Page, cfg.Params); err != nil {
		return nil, err
	}
	return a, nil
}

func canvasSize() (w, h, dpr float64) {
	w = float64(rl.GetScreenWidth() - hudWidth)
	h = float64(rl.GetScreenHeight())
	return math.Max(w, 0), math.Max(h, 0), 1
}

// dpr reads the monitor scale; it is 1 unless the window is high-DPI.
func dpr() float64 {
	s := rl.GetWindowScaleDPI()
	if s.X <= 0 {
		return 1
	}
	return float64(s.X)
}

func (a *App) mount(name string, params map[string]float64) error {
	p, err := a.reg.Lookup(name)
	if err != nil {
		return err
	}
	mc, err := a.cfg.MountConfig(a.log)
	if err != nil {
		return err
	}
	mc.Params = params
	m, err := pages.Swap(a.page, p, a.host, a.elem, a.elem, mc)
	a.page = m
	if err != nil {
		return err
	}
	a.fields, a.field = p.Fields(), 0
	rl.SetWindowTitle("simcanvas - " + p.Info().Title)
	return nil
}

// Run opens a window and runs cfg.Page until the window closes.
func Run(cfg *config.Config, log *slog.Logger) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(int32(cfg.Width)+hudWidth, int32(cfg.Height), "simcanvas")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(math.Round(cfg.FPS)))
	rl.SetExitKey(0)

	a, err := NewApp(cfg, pages.Default(), log)
	if err != nil {
		return err
	}
	defer a.Close()
	for !rl.WindowShouldClose() {
		if quit := a.Update(); quit {
			break
		}
		a.Draw()
	}
	return nil
}

func (a *App) Close() {
	if a.page != nil {
		a.page.Unmount()
	}
	if a.texW > 0 {
		rl.UnloadTexture(a.tex)
	}
}

// Update handles input, follows window resizes and fires the frame
// callbacks that are due. It reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsWindowResized() {
		w, h, _ := canvasSize()
		a.elem.SetSize(w, h)
		a.elem.SetDPR(dpr())
	}

	now := rl.GetTime()
	if !a.paused {
		a.host.Advance(time.Duration((now - a.last) * float64(time.Second)))
	}
	a.last = now

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyR):
		a.page.Reset()
	case rl.IsKeyPressed(rl.KeyTab):
		if len(a.fields) > 0 {
			a.field = (a.field + 1) % len(a.fields)
		}
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyRight):
		a.nudge(1)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyLeft):
		a.nudge(-1)
	case rl.IsKeyPressed(rl.KeyN):
		a.err = a.mount(a.reg.Next(a.page.Page().Info().Name, 1), nil)
	case rl.IsKeyPressed(rl.KeyP):
		a.err = a.mount(a.reg.Next(a.page.Page().Info().Name, -1), nil)
	case rl.IsKeyPressed(rl.KeyS):
		a.screenshot()
	}
	return false
}

func (a *App) nudge(dir float64) {
	if len(a.fields) == 0 {
		return
	}
	steps := dir
	if rl.IsKeyDown(rl.KeyLeftShift) {
		steps *= 10
	}
	a.err = pages.Nudge(a.page, a.fields[a.field], steps)
}

func (a *App) screenshot() {
	name := fmt.Sprintf("%s-%d.png", a.page.Page().Info().Name, a.page.Frames())
	path := filepath.Join(os.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		a.err = err
		return
	}
	defer f.Close()
	if err := raster.WritePNG(f, a.elem.Image()); err != nil {
		a.err = err
		return
	}
	a.message = "saved " + path
	a.log.Info("screenshot saved", "path", path)
}

// upload copies the backing image into the texture, reallocating it when the
// backing size changed.
func (a *App) upload() bool {
	img := a.elem.Image()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return false
	}
	if w != a.texW || h != a.texH {
		if a.texW > 0 {
			rl.UnloadTexture(a.tex)
		}
		rimg := rl.NewImageFromImage(img)
		a.tex = rl.LoadTextureFromImage(rimg)
		rl.UnloadImage(rimg)
		rl.SetTextureFilter(a.tex, rl.FilterBilinear)
		a.texW, a.texH = w, h
		return true
	}
	pixels := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), w*h)
	rl.UpdateTexture(a.tex, pixels)
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.upload() {
		lw, lh := a.elem.ClientSize()
		src := rl.NewRectangle(0, 0, float32(a.texW), float32(a.texH))
		dst := rl.NewRectangle(0, 0, float32(lw), float32(lh))
		rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	}
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawHUD() {
	x := int32(rl.GetScreenWidth() - hudWidth + 16)
	y := int32(16)
	rl.DrawRectangle(x-16, 0, hudWidth, int32(rl.GetScreenHeight()), rl.NewColor(16, 16, 16, 255))

	info := a.page.Page().Info()
	rl.DrawText(info.Title, x, y, 20, ColSelect)
	y += 24
	status := "RUNNING"
	if a.paused {
		status = "PAUSED"
	} else if !a.page.Running() {
		status = "WAITING"
	}
	rl.DrawText(fmt.Sprintf("%s  %s  frame %d", info.Category, status, a.page.Frames()), x, y, 10, ColTextDim)
	y += 24

	for _, r := range a.page.Readouts() {
		rl.DrawText(r.String(), x, y, 10, ColText)
		y += 14
	}
	y += 12

	params := a.page.Params()
	for i, f := range a.fields {
		col := ColText
		prefix := "  "
		if i == a.field {
			col, prefix = ColSelect, "> "
		}
		rl.DrawText(fmt.Sprintf("%s%s: %.3g", prefix, f.Label, params[f.Name]), x, y, 10, col)
		y += 14
	}
	y += 12

	if a.err != nil {
		rl.DrawText(a.err.Error(), x, y, 10, ColError)
		y += 14
	} else if a.message != "" {
		rl.DrawText(a.message, x, y, 10, ColAccent)
		y += 14
	}

	hints := []string{"SPACE pause   R reset", "TAB param   arrows tune", "N/P page   S screenshot", "Q quit"}
	hy := int32(rl.GetScreenHeight()) - int32(len(hints))*14 - 12
	for _, h := range hints {
		rl.DrawText(h, x, hy, 10, ColTextDim)
		hy += 14
	}
}
