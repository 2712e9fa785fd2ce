package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/gui"
	"github.com/san-kum/simcanvas/internal/pages"
	"github.com/san-kum/simcanvas/internal/tui"
)

var (
	configFile string
	preset     string
	assigns    []string
	dtCap      float64
	clearMode  string
	fps        float64
	width      float64
	height     float64
	dpr        float64
	frames     int
	theme      string
	static     bool
	verbose    bool
	dataDir    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands. The root runs the configured host when
// no subcommand is given.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simcanvas [page]",
		Short:         "interactive physics and science simulations",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if cfg.Host == "gui" {
				return gui.Run(cfg, newLogger(os.Stderr))
			}
			return runTUI(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "named parameter preset")
	pf.StringArrayVar(&assigns, "set", nil, "parameter assignment name=value (repeatable)")
	pf.Float64Var(&dtCap, "dt-cap", config.DefaultDtCap, "largest frame dt in seconds")
	pf.StringVar(&clearMode, "clear", "transparent", "clear mode: transparent, none, or #rrggbb[aa]")
	pf.Float64Var(&fps, "fps", config.DefaultFPS, "refresh rate")
	pf.Float64Var(&width, "width", config.DefaultWidth, "canvas width in logical pixels")
	pf.Float64Var(&height, "height", config.DefaultHeight, "canvas height in logical pixels")
	pf.Float64Var(&dpr, "dpr", config.DefaultDPR, "device pixel ratio")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to run headless")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "terminal theme: "+strings.Join(tui.ThemeNames(), ", "))
	pf.BoolVar(&static, "static", false, "draw once per change instead of animating")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&dataDir, "data", ".simcanvas", "directory for saved runs")

	pagesCmd := &cobra.Command{
		Use:   "pages",
		Short: "list pages by category",
		Args:  cobra.NoArgs,
		RunE:  listPages,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [page]",
		Short: "list parameter presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [page]",
		Short: "run a page in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [page]",
		Short: "run a page in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return gui.Run(cfg, newLogger(os.Stderr))
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [page]",
		Short: "render the last of --frames to an image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringP("output", "o", "", "output file (.png, .svg or .txt)")

	recordCmd := &cobra.Command{
		Use:   "record [page]",
		Short: "record --frames to an animated gif",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRecord,
	}
	recordCmd.Flags().StringP("output", "o", "", "output gif")

	traceCmd := &cobra.Command{
		Use:   "trace [page]",
		Short: "run headless and plot readouts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	traceCmd.Flags().StringSlice("readout", nil, "readouts to plot (default: all but time)")
	traceCmd.Flags().Bool("spectrum", false, "plot the power spectrum of the first readout")
	traceCmd.Flags().String("phase", "", "phase portrait of two readouts, x,y")
	traceCmd.Flags().String("svg", "", "write the phase portrait as svg")
	traceCmd.Flags().Bool("save", false, "store the run in --data")
	traceCmd.Flags().Bool("json", false, "print the run as json")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSlice("readout", nil, "readouts to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("readout", "", "readout to analyse (default: first after time)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [page]",
		Short: "run a page across a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().String("param", "", "parameter to vary")
	sweepCmd.Flags().Float64("from", 0, "first value")
	sweepCmd.Flags().Float64("to", 1, "last value")
	sweepCmd.Flags().Int("steps", 10, "number of values")
	sweepCmd.Flags().String("readout", "", "readout to summarise")
	sweepCmd.Flags().Int("workers", 0, "parallel runs (default: CPUs)")
	_ = sweepCmd.MarkFlagRequired("param")
	_ = sweepCmd.MarkFlagRequired("readout")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [page]",
		Short: "run a page with randomly drawn parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringSlice("vary", nil, "parameters to draw within their slider range")
	monteCarloCmd.Flags().Int("trials", 20, "number of trials")
	monteCarloCmd.Flags().String("readout", "", "readout to summarise")
	monteCarloCmd.Flags().Int64("seed", 1, "random seed (0: time based)")
	monteCarloCmd.Flags().Int("workers", 0, "parallel runs (default: CPUs)")
	_ = monteCarloCmd.MarkFlagRequired("vary")
	_ = monteCarloCmd.MarkFlagRequired("readout")

	searchCmd := &cobra.Command{
		Use:   "search [page]",
		Short: "grid search for the best final readout",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArray("grid", nil, "name=v1,v2,... (repeatable)")
	searchCmd.Flags().String("readout", "", "objective readout")
	searchCmd.Flags().Bool("maximize", false, "maximise instead of minimise")
	searchCmd.Flags().Int("workers", 0, "parallel runs (default: CPUs)")
	_ = searchCmd.MarkFlagRequired("grid")
	_ = searchCmd.MarkFlagRequired("readout")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().Bool("save", false, "store each step's run in --data")

	rootCmd.AddCommand(pagesCmd, presetsCmd, tuiCmd, guiCmd, snapshotCmd, recordCmd, traceCmd,
		runsCmd, plotCmd, analyzeCmd, exportCmd, sweepCmd, monteCarloCmd, searchCmd, scenarioCmd)
	return rootCmd
}

// loadConfig layers the config file, flags that were set explicitly, --set
// assignments and the preset. An explicit assignment beats the preset.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Page = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("dt-cap") {
		cfg.DtCap = dtCap
	}
	if flags.Changed("clear") {
		cfg.Clear = clearMode
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("dpr") {
		cfg.DPR = dpr
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("static") {
		cfg.Animate = !static
	}
	switch cmd.Name() {
	case "tui":
		cfg.Host = "tui"
	case "gui":
		cfg.Host = "gui"
	}

	for _, a := range assigns {
		if err := cfg.SetParam(a); err != nil {
			return nil, err
		}
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runTUI keeps the terminal clean: logs go to a file in --data when
// --verbose is set and nowhere otherwise.
func runTUI(cfg *config.Config) error {
	var log *slog.Logger
	if verbose {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = newLogger(f)
	}
	return tui.Run(cfg, log)
}

func listPages(cmd *cobra.Command, args []string) error {
	reg := pages.Default()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, cat := range reg.Categories() {
		fmt.Fprintf(w, "%s\n", strings.ToUpper(cat))
		for _, p := range reg.ByCategory()[cat] {
			info := p.Info()
			fmt.Fprintf(w, "  %s\t%s\t%s\n", info.Name, info.Title, info.Summary)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	reg := pages.Default()
	names := reg.Names()
	if len(args) == 1 {
		if _, err := reg.Lookup(args[0]); err != nil {
			return err
		}
		names = args
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, page := range names {
		for _, name := range config.ListPresets(page) {
			p := config.GetPreset(page, name)
			keys := make([]string, 0, len(p))
			for k, v := range p {
				keys = append(keys, fmt.Sprintf("%s=%g", k, v))
			}
			sort.Strings(keys)
			fmt.Fprintf(w, "%s\t%s\t%s\n", page, name, strings.Join(keys, " "))
		}
	}
	return w.Flush()
}
