package main

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/simcanvas/internal/analysis"
	"github.com/san-kum/simcanvas/internal/automation"
	"github.com/san-kum/simcanvas/internal/braille"
	"github.com/san-kum/simcanvas/internal/config"
	"github.com/san-kum/simcanvas/internal/experiment"
	"github.com/san-kum/simcanvas/internal/export"
	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/pages"
	"github.com/san-kum/simcanvas/internal/raster"
	"github.com/san-kum/simcanvas/internal/storage"
)

// headlessConfig resolves the configuration for an off-screen run.
func headlessConfig(cmd *cobra.Command, args []string) (*config.Config, experiment.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, experiment.Config{}, nil, err
	}
	log := newLogger(os.Stderr)
	mc, err := cfg.MountConfig(log)
	if err != nil {
		return nil, experiment.Config{}, nil, err
	}
	return cfg, experiment.FromConfig(cfg, mc), log, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, run, log, err := headlessConfig(cmd, args)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = cfg.Page + ".png"
	}

	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".png":
		var last *image.RGBA
		runner := experiment.New(pages.Default())
		runner.AddObserver(experiment.ObserverFunc(func(f experiment.Frame) { last = f.Image }))
		if _, err := runner.Run(cmd.Context(), run); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := raster.WritePNG(f, last); err != nil {
			return err
		}
	case ".svg", ".txt":
		canvas, err := terminalFrame(cfg, run)
		if err != nil {
			return err
		}
		body := canvas.String()
		if ext == ".svg" {
			body = export.CanvasToSVG(canvas, 4)
		}
		if err := os.WriteFile(out, []byte(body), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported snapshot format %q", ext)
	}
	log.Info("snapshot written", "path", out, "frames", run.Frames)
	fmt.Println(out)
	return nil
}

// terminalFrame runs the page on a braille grid of roughly the configured
// size, eight logical pixels per cell column and sixteen per row.
func terminalFrame(cfg *config.Config, run experiment.Config) (*braille.Canvas, error) {
	p, err := pages.Default().Lookup(cfg.Page)
	if err != nil {
		return nil, err
	}
	cols := max(int(cfg.Width/8), 1)
	rows := max(int(cfg.Height/16), 1)
	elem := braille.NewElement(cols, rows)
	host := frame.NewManualHost()
	mc := run.Mount
	mc.Params = run.Params
	m, err := p.Mount(host, elem, elem, mc)
	if err != nil {
		return nil, err
	}
	defer m.Unmount()
	host.Run(run.Frames, run.Interval)
	return elem.Canvas(), nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, run, log, err := headlessConfig(cmd, args)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = cfg.Page + ".gif"
	}

	rec := raster.NewRecorder(cfg.FPS)
	runner := experiment.New(pages.Default())
	runner.AddObserver(experiment.ObserverFunc(func(f experiment.Frame) { rec.Add(f.Image) }))
	if _, err := runner.Run(cmd.Context(), run); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := rec.Encode(f); err != nil {
		return err
	}
	log.Info("recording written", "path", out, "frames", rec.Frames())
	fmt.Println(out)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	_, run, log, err := headlessConfig(cmd, args)
	if err != nil {
		return err
	}
	res, err := experiment.New(pages.Default()).Run(cmd.Context(), run)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if asJSON, _ := flags.GetBool("json"); asJSON {
		return storage.ExportJSON(os.Stdout, res)
	}

	names, _ := flags.GetStringSlice("readout")
	if err := plotReadouts(res, names); err != nil {
		return err
	}

	if spectrum, _ := flags.GetBool("spectrum"); spectrum {
		name := firstReadout(res, names)
		if err := printSpectrum(res, name); err != nil {
			return err
		}
	}

	if phase, _ := flags.GetString("phase"); phase != "" {
		svgPath, _ := flags.GetString("svg")
		if err := printPhase(res, phase, svgPath); err != nil {
			return err
		}
	}

	if save, _ := flags.GetBool("save"); save {
		id, err := storage.New(dataDir).Save(res)
		if err != nil {
			return err
		}
		log.Info("run saved", "id", id)
		fmt.Printf("saved run: %s\n", id)
	}
	return nil
}

// firstReadout is names[0], or the first column that is not time.
func firstReadout(res *experiment.Result, names []string) string {
	if len(names) > 0 {
		return names[0]
	}
	for _, c := range res.Columns {
		if c.Name != "time" {
			return c.Name
		}
	}
	return "time"
}

func caption(res *experiment.Result, name string) string {
	for _, c := range res.Columns {
		if c.Name == name {
			if c.Unit != "" {
				return fmt.Sprintf("%s (%s)", c.Label, c.Unit)
			}
			return c.Label
		}
	}
	return name
}

func plotReadouts(res *experiment.Result, names []string) error {
	if len(names) == 0 {
		for _, c := range res.Columns {
			if c.Name != "time" {
				names = append(names, c.Name)
			}
		}
	}

	fmt.Printf("page: %s\n", res.Page)
	fmt.Printf("frames: %d\n\n", len(res.Times))
	for _, name := range names {
		series, err := res.Column(name)
		if err != nil {
			return err
		}
		data := finite(series)
		if len(data) < 2 {
			fmt.Printf("%s: no data\n\n", caption(res, name))
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption(res, name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func printSpectrum(res *experiment.Result, name string) error {
	series, err := res.Column(name)
	if err != nil {
		return err
	}
	data := finite(series)
	if len(data) < 4 || len(res.Times) < 2 {
		return fmt.Errorf("%s: too few samples for a spectrum", name)
	}
	dt := res.Times[1] - res.Times[0]

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+caption(res, name)+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func printPhase(res *experiment.Result, pair, svgPath string) error {
	xName, yName, ok := strings.Cut(pair, ",")
	if !ok {
		return fmt.Errorf("phase %q: want x,y", pair)
	}
	xName, yName = strings.TrimSpace(xName), strings.TrimSpace(yName)
	xs, err := res.Column(xName)
	if err != nil {
		return err
	}
	ys, err := res.Column(yName)
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(caption(res, xName), xs, caption(res, yName), ys)
	if err != nil {
		return err
	}
	fmt.Println(portrait.ASCII(72, 20))

	if svgPath != "" {
		svg := export.TrajectoryToSVG(portrait.Points, 640, 480, "#00ffff")
		if svg == "" {
			return fmt.Errorf("phase portrait has fewer than two points")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("phase portrait written: %s\n", svgPath)
	}
	return nil
}

func finite(s []float64) []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPAGE\tFRAMES\tDURATION\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%s\n", r.ID, r.Page, r.Frames, r.Duration, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	names, _ := cmd.Flags().GetStringSlice("readout")
	return plotReadouts(res, names)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("readout")
	if name == "" {
		name = firstReadout(res, nil)
	}
	fmt.Printf("frequency analysis: %s\n", args[0])
	fmt.Printf("page: %s\n\n", res.Page)
	return printSpectrum(res, name)
}

func exportRun(cmd *cobra.Command, args []string) error {
	res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, res)
}

func batchRunner(cmd *cobra.Command, args []string) (*automation.Runner, error) {
	_, run, log, err := headlessConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	r := automation.NewRunner(pages.Default(), run, log)
	r.Workers, _ = cmd.Flags().GetInt("workers")
	return r, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	r, err := batchRunner(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	sweep := &automation.ParameterSweep{Page: args[0], Params: paramsFrom(cmd, args)}
	sweep.ParamName, _ = flags.GetString("param")
	sweep.ParamMin, _ = flags.GetFloat64("from")
	sweep.ParamMax, _ = flags.GetFloat64("to")
	sweep.NumSteps, _ = flags.GetInt("steps")
	sweep.Readout, _ = flags.GetString("readout")

	results, err := r.RunSweep(cmd.Context(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tMIN\tMAX\n", strings.ToUpper(sweep.ParamName))
	finals := make([]float64, len(results))
	for i, res := range results {
		fmt.Fprintf(w, "%.4g\t%.6g\t%.6g\t%.6g\n", res.ParamValue, res.Final, res.Min, res.Max)
		finals[i] = res.Final
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if data := finite(finals); len(data) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("final %s vs %s", sweep.Readout, sweep.ParamName)),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	r, err := batchRunner(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	mc := &automation.MonteCarloConfig{Page: args[0], Params: paramsFrom(cmd, args)}
	mc.Vary, _ = flags.GetStringSlice("vary")
	mc.NumTrials, _ = flags.GetInt("trials")
	mc.Readout, _ = flags.GetString("readout")
	mc.Seed, _ = flags.GetInt64("seed")

	results, err := r.RunMonteCarlo(cmd.Context(), mc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\t%s\t%s\n", strings.ToUpper(strings.Join(mc.Vary, "\t")), strings.ToUpper(mc.Readout))
	for _, res := range results {
		vals := make([]string, len(mc.Vary))
		for i, name := range mc.Vary {
			vals[i] = strconv.FormatFloat(res.Params[name], 'g', 4, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%.6g\n", res.TrialID, strings.Join(vals, "\t"), res.Final)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	bounded, mean, stddev := automation.MonteCarloStats(results)
	fmt.Printf("\nbounded: %d/%d  mean: %.6g  stddev: %.6g\n", bounded, len(results), mean, stddev)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	r, err := batchRunner(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	gridArgs, _ := flags.GetStringArray("grid")
	grid, err := parseGrid(gridArgs)
	if err != nil {
		return err
	}
	g := &automation.GridSearch{Page: args[0], Grid: grid, Params: paramsFrom(cmd, args)}
	g.Readout, _ = flags.GetString("readout")
	g.Maximize, _ = flags.GetBool("maximize")

	best, value, err := r.Search(cmd.Context(), g)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(best))
	for k, v := range best {
		keys = append(keys, fmt.Sprintf("%s=%g", k, v))
	}
	sort.Strings(keys)
	fmt.Printf("best: %s\n%s: %.6g\n", strings.Join(keys, " "), g.Readout, value)
	return nil
}

// parseGrid reads name=v1,v2,... specs.
func parseGrid(args []string) (map[string][]float64, error) {
	grid := make(map[string][]float64, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("grid %q: want name=v1,v2,...", arg)
		}
		for _, raw := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("grid %s: %w", name, err)
			}
			grid[strings.TrimSpace(name)] = append(grid[strings.TrimSpace(name)], v)
		}
	}
	return grid, nil
}

// paramsFrom returns the params from the config, --set and --preset.
func paramsFrom(cmd *cobra.Command, args []string) map[string]float64 {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil
	}
	return cfg.Params
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	r, err := batchRunner(cmd, nil)
	if err != nil {
		return err
	}

	results, err := r.RunScenario(cmd.Context(), sc)
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")
	st := storage.New(dataDir)
	for i, res := range results {
		fmt.Printf("step %d: %s, %d frames\n", i+1, res.Page, len(res.Times))
		for _, c := range res.Columns {
			if v, err := res.Final(c.Name); err == nil {
				fmt.Printf("  %-20s %.6g %s\n", c.Label, v, c.Unit)
			}
		}
		if save {
			id, err := st.Save(res)
			if err != nil {
				return err
			}
			fmt.Printf("  saved run: %s\n", id)
		}
	}
	return nil
}
