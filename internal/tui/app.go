// Package tui hosts pages in a terminal. The braille element is the drawing
// surface and bubbletea ticks are the refresh signal.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/simcanvas/internal/braille"
	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/metrics"
	"github.com/san-kum/simcanvas/internal/pages"
)

const (
	sidebarWidth    = 36
	graphRows       = 5
	chromeRows      = 1 + 2 + graphRows + 2 + 1 // header, canvas border, graph, caption, help
	historyCapacity = 240
)

// Model is the bubbletea model for one running page.
type Model struct {
	reg  *pages.Registry
	cfg  *config.Config
	log  *slog.Logger
	host *Host
	elem *braille.Element

	page   pages.Mounted
	fields []pages.FieldInfo
	field  int
	graph  int
	hist   map[string]*metrics.History
	frames int64

	interval time.Duration
	paused   bool
	help     bool
	err      error

	theme  Theme
	styles Styles
	width  int
	height int
}

// New mounts cfg.Page. The element starts empty, so the loop waits for the
// first window size.
func New(cfg *config.Config, reg *pages.Registry, log *slog.Logger) (*Model, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	theme := GetTheme(cfg.Theme)
	m := &Model{
		reg:      reg,
		cfg:      cfg,
		log:      log,
		host:     NewHost(),
		elem:     braille.NewElement(0, 0),
		interval: cfg.FrameInterval(),
		theme:    theme,
		styles:   NewStyles(theme),
	}
	if err := m.mount(cfg.Page, cfg.Params); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) mount(name string, params map[string]float64) error {
	p, err := m.reg.Lookup(name)
	if err != nil {
		return err
	}
	mc, err := m.cfg.MountConfig(m.log)
	if err != nil {
		return err
	}
	mc.Params = params
	mounted, err := pages.Swap(m.page, p, m.host, m.elem, m.elem, mc)
	m.page = mounted
	if err != nil {
		return err
	}
	m.fields = p.Fields()
	m.field, m.graph, m.frames = 0, 0, 0
	m.hist = make(map[string]*metrics.History)
	m.log.Info("page mounted", "page", name)
	return nil
}

// Page returns the mounted page.
func (m *Model) Page() pages.Mounted { return m.page }

// Close unmounts the page.
func (m *Model) Close() {
	if m.page != nil {
		m.page.Unmount()
	}
}

func (m *Model) Init() tea.Cmd { return tick(m.interval) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case FrameMsg:
		if !m.paused {
			m.host.Pump(time.Time(msg))
			m.record()
		}
		return m, tick(m.interval)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return tea.Quit
	case " ":
		m.paused = !m.paused
		if !m.paused {
			m.host.Resync()
		}
	case "r":
		m.page.Reset()
		m.hist = make(map[string]*metrics.History)
	case "tab":
		if len(m.fields) > 0 {
			m.field = (m.field + 1) % len(m.fields)
		}
	case "shift+tab":
		if len(m.fields) > 0 {
			m.field = (m.field + len(m.fields) - 1) % len(m.fields)
		}
	case "up", "k", "right", "l":
		m.adjust(1)
	case "down", "j", "left", "h":
		m.adjust(-1)
	case "n":
		m.err = m.mount(m.reg.Next(m.page.Page().Info().Name, 1), nil)
	case "p":
		m.err = m.mount(m.reg.Next(m.page.Page().Info().Name, -1), nil)
	case "v":
		if n := len(m.page.Readouts()); n > 0 {
			m.graph = (m.graph + 1) % n
		}
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = NewStyles(m.theme)
	case "?":
		m.help = !m.help
	}
	return nil
}

// adjust moves the selected slider by one step.
func (m *Model) adjust(dir float64) {
	if len(m.fields) == 0 {
		return
	}
	if err := pages.Nudge(m.page, m.fields[m.field], dir); err != nil {
		m.err = err
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := w - sidebarWidth - 2
	rows := h - chromeRows
	if cols < 0 || rows < 0 {
		cols, rows = 0, 0
	}
	m.elem.SetCells(cols, rows)
}

func (m *Model) record() {
	frames := m.page.Frames()
	if frames == m.frames {
		return
	}
	m.frames = frames
	for _, r := range m.page.Readouts() {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		h, ok := m.hist[r.Name]
		if !ok {
			h = metrics.NewHistory(historyCapacity)
			m.hist[r.Name] = h
		}
		h.Push(r.Value)
	}
}

func (m *Model) View() string {
	s := m.styles
	info := m.page.Page().Info()

	status := s.Running.Render("● RUNNING")
	if m.paused {
		status = s.Paused.Render("❚❚ PAUSED")
	} else if !m.page.Running() {
		status = s.Subtle.Render("○ WAITING")
	}
	header := GradientText(strings.ToUpper(info.Title), m.theme.Primary, m.theme.Secondary) +
		"  " + s.Subtle.Render(info.Category) + "  " + status

	cols, rows := m.elem.Cells()
	var canvas string
	if cols == 0 || rows == 0 {
		canvas = s.Subtle.Render("terminal too small")
	} else {
		canvas = s.Panel.Render(m.elem.Render())
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.sidebar())
	parts := []string{header, main, m.chart(max(cols-8, 16))}
	if m.err != nil {
		parts = append(parts, s.Error.Render(m.err.Error()))
	}
	parts = append(parts, s.KeyHint.Render("space pause · r reset · tab/↑↓ tune · n/p page · v graph · t theme · ? help · q quit"))
	if m.help {
		parts = append([]string{helpText}, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) sidebar() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("READOUTS") + "\n")
	for i, r := range m.page.Readouts() {
		label := r.Label
		if i == m.graph {
			label = "▸" + label
		}
		val := fmt.Sprintf("%.4g", r.Value)
		if math.IsNaN(r.Value) {
			val = "-"
		}
		if r.Unit != "" {
			val += " " + r.Unit
		}
		b.WriteString(s.MetricLabel.Render(label) + s.MetricValue.Render(val) + "\n")
	}

	b.WriteString("\n" + s.Separator(sidebarWidth-4) + "\n")
	b.WriteString(s.Title.Render("PARAMETERS") + "\n")
	params := m.page.Params()
	for i, f := range m.fields {
		v := params[f.Name]
		line := fmt.Sprintf("%-10.10s %s %.3g", f.Label, Slider(v, f.Min, f.Max, 8), v)
		if i == m.field {
			b.WriteString(s.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + s.Subtle.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + s.Subtle.Render(fmt.Sprintf("frame %d  theme %s", m.page.Frames(), m.theme.Name)))
	return s.Panel.Width(sidebarWidth-2).Padding(0, 1).Render(b.String())
}

// chart plots the history of the selected readout.
func (m *Model) chart(width int) string {
	readouts := m.page.Readouts()
	if len(readouts) == 0 {
		return ""
	}
	r := readouts[m.graph%len(readouts)]
	h, ok := m.hist[r.Name]
	if !ok || h.Len() < 2 {
		return m.styles.Subtle.Render(strings.Repeat("\n", graphRows) + r.Label)
	}
	caption := r.Label
	if r.Unit != "" {
		caption += " (" + r.Unit + ")"
	}
	plot := asciigraph.Plot(h.Values(),
		asciigraph.Height(graphRows),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
	return m.styles.Graph.Render(plot)
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset state              ║
║  Tab      - Next parameter           ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  N / P    - Next / previous page     ║
║  V        - Cycle graphed readout    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run mounts cfg.Page and runs the terminal program until quit.
func Run(cfg *config.Config, log *slog.Logger) error {
	m, err := New(cfg, pages.Default(), log)
	if err != nil {
		return err
	}
	defer m.Close()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
