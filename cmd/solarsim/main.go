package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/solarsim/internal/analysis"
	"github.com/san-kum/solarsim/internal/automation"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/control"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/gui"
	"github.com/san-kum/solarsim/internal/logging"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/orbit"
	"github.com/san-kum/solarsim/internal/scene"
	"github.com/san-kum/solarsim/internal/server"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/storage"
	"github.com/san-kum/solarsim/internal/texture"
	"github.com/san-kum/solarsim/internal/tui"
	"github.com/san-kum/solarsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	envFiles   []string
	preset     string
	textureDir string
	logLevel   string
	logJSON    bool
	// Simulation overrides
	startTime float64
	timeSpeed float64
	fps       float64
	noOrbits  bool
	// Sampling ranges
	from        float64
	to          float64
	step        float64
	plotStep    float64
	analyzeStep float64
	days        float64
	samples     int
	// Output
	outPath string
	format  string
	saveRun bool
	runID   string
	// Terminal view
	menu      bool
	plain     bool
	frames    int
	gifPath   string
	themeName string
	// Snapshot
	viewMode string
	extent   float64
	width    int
	height   int
	braille  bool
	force    bool
	// Flight
	watch   bool
	shotDir string
)

// main launches the GUI when no subcommand is given and exits with status 1
// if the command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "solarsim",
		Short:        "solar system viewer with a free-fly camera",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".solarsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringSliceVar(&envFiles, "env", []string{".env"}, "env files to load")
	pf.StringVar(&preset, "preset", "", "camera viewpoint preset")
	pf.StringVar(&textureDir, "textures", "images", "texture directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.Float64Var(&startTime, "start", config.DefaultStartTime, "simulation start time in days")
	pf.Float64Var(&timeSpeed, "speed", config.DefaultTimeSpeed, "days advanced per frame")
	pf.Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.BoolVar(&noOrbits, "no-orbits", false, "hide orbit rings")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D window (default)",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "fly through the system in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().BoolVar(&menu, "menu", false, "choose a viewpoint first")
	tuiCmd.Flags().BoolVar(&plain, "plain", false, "print a top-down map per frame without taking over the terminal")
	tuiCmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (plain mode, 0 = forever)")
	tuiCmd.Flags().StringVar(&gifPath, "gif", "solarsim.gif", "recording output path")
	tuiCmd.Flags().StringVar(&themeName, "theme", "deep-space", "theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	ephemerisCmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "tabulate every body's position over a time range",
		RunE:  runEphemeris,
	}
	ephemerisCmd.Flags().Float64Var(&from, "from", 0, "first day")
	ephemerisCmd.Flags().Float64Var(&to, "to", 365, "last day")
	ephemerisCmd.Flags().Float64Var(&step, "step", 1, "days between rows")
	ephemerisCmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")
	ephemerisCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	ephemerisCmd.Flags().BoolVar(&saveRun, "save", false, "store the table in the data directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved ephemeris tables",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [body] [other]",
		Short: "plot the distance between two bodies over time",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotDistance,
	}
	plotCmd.Flags().Float64Var(&from, "from", 0, "first day")
	plotCmd.Flags().Float64Var(&days, "days", 780, "days to plot")
	plotCmd.Flags().Float64Var(&plotStep, "step", 2, "days between samples")
	plotCmd.Flags().StringVar(&runID, "run", "", "plot from a saved ephemeris instead")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [body]",
		Short: "recover a body's orbital period from its motion",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeBody,
	}
	analyzeCmd.Flags().Float64Var(&from, "from", 0, "first day")
	analyzeCmd.Flags().Float64Var(&analyzeStep, "step", 0, "days between samples (default period/64)")
	analyzeCmd.Flags().IntVar(&samples, "samples", 1024, "number of samples")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "render the system to a png, webp or svg file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&viewMode, "view", "topdown", "view (topdown, camera)")
	snapshotCmd.Flags().Float64Var(&extent, "extent", 2.5, "half width of the top-down view in scene units")
	snapshotCmd.Flags().IntVar(&width, "width", 1024, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 768, "image height")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "svg of the terminal braille rendering")

	flyCmd := &cobra.Command{
		Use:   "fly [scenario.yaml]",
		Short: "play a scripted camera flight",
		Args:  cobra.ExactArgs(1),
		RunE:  runFlight,
	}
	flyCmd.Flags().BoolVar(&watch, "watch", false, "pace the flight and print a live map")
	flyCmd.Flags().StringVarP(&shotDir, "out", "o", ".", "directory for step snapshots")
	flyCmd.Flags().Float64Var(&extent, "extent", 2.5, "half width of the live map in scene units")
	flyCmd.Flags().IntVar(&width, "width", 1024, "snapshot width")
	flyCmd.Flags().IntVar(&height, "height", 768, "snapshot height")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve positions over HTTP and stream frames over websocket",
		RunE:  runServe,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list camera viewpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTARGET\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				vp := config.GetPreset(name)
				target := vp.Target
				if target == "" {
					target = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, target, vp.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list bodies with their positions at the start time",
		RunE:  listBodies,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, ephemerisCmd, runsCmd, plotCmd, analyzeCmd, snapshotCmd, flyCmd, serveCmd, presetsCmd, configCmd, bodiesCmd)

	return rootCmd
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	reg := texture.NewRegistry(cfg.Render.TextureDir)
	s, err := newSimulation(cfg, reg)
	if err != nil {
		return err
	}
	logger.Info("opening window", "bodies", s.System.Len(), "textures", reg.Len())

	gui.Run(s, reg, gui.Options{
		Width:    int32(cfg.Render.Width),
		Height:   int32(cfg.Render.Height),
		FPS:      int32(math.Round(cfg.Simulation.FPS)),
		Lens:     lens(cfg),
		Scales:   scales(cfg),
		Segments: cfg.Render.OrbitSegments,
		Skybox:   cfg.Render.Skybox,
	})
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if plain {
		initLogging(cfg)
		return runPlain(cfg)
	}

	// The terminal belongs to the UI, so logs go to a file.
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.InitWriter(logFile, cfg.Logging)

	viz.SetTheme(themeName)
	opts := viz.DefaultOptions()
	opts.Lens = lens(cfg)
	opts.Scales = scales(cfg)
	opts.Segments = cfg.Render.OrbitSegments
	opts.GIFPath = gifPath
	if cmd.Flags().Changed("fps") {
		opts.FPS = cfg.Simulation.FPS
	}

	if menu {
		choices := make([]viz.Choice, 0, len(config.Viewpoints))
		for _, name := range config.ListPresets() {
			choices = append(choices, viz.Choice{Name: name, Description: config.GetPreset(name).Description})
		}
		launch := func(name string) (*sim.Simulation, error) {
			c := *cfg
			if err := c.ApplyPreset(name); err != nil {
				return nil, err
			}
			return newSimulation(&c, nil)
		}
		return viz.RunInteractive(choices, launch, opts)
	}

	s, err := newSimulation(cfg, nil)
	if err != nil {
		return err
	}
	return viz.Run(s, opts)
}

// runPlain prints a top-down map every frame until interrupted or the
// frame limit is reached.
func runPlain(cfg *config.Config) error {
	s, err := newSimulation(cfg, nil)
	if err != nil {
		return err
	}
	r := tui.NewLiveRenderer(os.Stdout, s.System, scales(cfg), 2.5, 0)
	s.AddObserver(r)
	r.Start()
	defer r.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sim.Run(ctx, s, new(control.Latch), cfg.Simulation.FPS, func(f sim.Frame) bool {
		return frames <= 0 || f.Number < uint64(frames)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func textureLoader(cfg *config.Config) orbit.TextureLoader {
	if cfg.Render.TextureDir == "" {
		return nil
	}
	return texture.NewRegistry(cfg.Render.TextureDir)
}

func runEphemeris(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	sys, err := orbit.NewSolarSystem(nil)
	if err != nil {
		return err
	}
	e, err := storage.Tabulate(sys, from, to, step)
	if err != nil {
		return err
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(e)
		if err != nil {
			return err
		}
		logger.Info("ephemeris saved", "run", id, "rows", len(e.Rows))
		fmt.Fprintf(os.Stderr, "saved: %s\n", id)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		return storage.WriteCSV(out, e)
	case "json":
		return storage.WriteJSON(out, e)
	default:
		return fmt.Errorf("unknown format: %s (available: csv, json)", format)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tFROM\tTO\tSTEP\tROWS\tBODIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%g\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Start,
			run.End,
			run.Step,
			run.Rows,
			len(run.Bodies),
		)
	}

	return w.Flush()
}

func plotDistance(cmd *cobra.Command, args []string) error {
	body, other := args[0], "sun"
	if len(args) > 1 {
		other = args[1]
	}

	var dist []float64
	var err error
	if runID != "" {
		dist, err = savedDistances(runID, body, other)
	} else {
		dist, err = sampledDistances(body, other)
	}
	if err != nil {
		return err
	}
	if len(dist) < 2 {
		return fmt.Errorf("no data to plot")
	}

	minD, maxD := dist[0], dist[0]
	for _, d := range dist {
		minD, maxD = math.Min(minD, d), math.Max(maxD, d)
	}

	graph := asciigraph.Plot(scaleAll(dist, 1e-6),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s - %s distance (million km)", body, other)),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Printf("samples:    %d\n", len(dist))
	fmt.Printf("closest:    %.4g km  light time %s\n", minD, analysis.LightTime(minD).Round(time.Millisecond))
	fmt.Printf("farthest:   %.4g km  light time %s\n", maxD, analysis.LightTime(maxD).Round(time.Millisecond))
	return nil
}

func sampledDistances(body, other string) ([]float64, error) {
	sys, err := orbit.NewSolarSystem(nil)
	if err != nil {
		return nil, err
	}
	a, err := sys.Lookup(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", body, err)
	}
	b, err := sys.Lookup(other)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", other, err)
	}
	if plotStep <= 0 {
		return nil, fmt.Errorf("step must be positive")
	}
	n, err := storage.RowCount(from, from+days, plotStep)
	if err != nil {
		return nil, err
	}
	return analysis.Distances(sys, a, b, from, plotStep, n)
}

func savedDistances(id, body, other string) ([]float64, error) {
	e, err := storage.New(dataDir).LoadEphemeris(id)
	if err != nil {
		return nil, err
	}
	var coords [2][3][]float64
	for i, name := range []string{body, other} {
		for j, c := range []func(storage.Position) float64{
			func(p storage.Position) float64 { return p.X },
			func(p storage.Position) float64 { return p.Y },
			func(p storage.Position) float64 { return p.Z },
		} {
			if coords[i][j], err = e.Series(name, c); err != nil {
				return nil, err
			}
		}
	}
	out := make([]float64, len(coords[0][0]))
	for k := range out {
		dx := coords[0][0][k] - coords[1][0][k]
		dy := coords[0][1][k] - coords[1][1][k]
		dz := coords[0][2][k] - coords[1][2][k]
		out[k] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return out, nil
}

func scaleAll(data []float64, k float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v * k
	}
	return out
}

func analyzeBody(cmd *cobra.Command, args []string) error {
	sys, err := orbit.NewSolarSystem(nil)
	if err != nil {
		return err
	}
	id, err := sys.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	b, err := sys.Body(id)
	if err != nil {
		return err
	}
	if b.Distance == 0 || b.OrbitalPeriod == 0 {
		return fmt.Errorf("%s does not orbit anything", b.Name)
	}

	if samples < 16 {
		return fmt.Errorf("need at least 16 samples, got %d", samples)
	}
	dt := analyzeStep
	if dt <= 0 {
		dt = b.OrbitalPeriod / 64
	}

	fmt.Printf("frequency analysis: %s\n", b.Name)
	fmt.Printf("samples: %d every %.4g days\n\n", samples, dt)

	ps, err := analysis.Sample(sys, id, from, dt, samples, true)
	if err != nil {
		return err
	}
	xs := make([]float64, len(ps))
	for i, p := range ps {
		xs[i] = p.X
	}
	spectrum := analysis.PowerSpectrum(xs)
	plotData := spectrum[1 : len(spectrum)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (x offset from parent)"),
	)
	fmt.Println(graph)
	fmt.Println()

	period, err := analysis.EstimatePeriod(sys, id, from, dt, samples)
	if err != nil {
		return err
	}
	fmt.Printf("estimated period: %.3f days\n", period)
	fmt.Printf("table period:     %.3f days\n", b.OrbitalPeriod)

	crossings, err := analysis.Crossings(sys, id, from, dt, samples)
	if err != nil {
		return err
	}
	if len(crossings) > 1 {
		fmt.Printf("periapsis passes: %d, mean spacing %.3f days\n",
			len(crossings), (crossings[len(crossings)-1]-crossings[0])/float64(len(crossings)-1))
	}

	points, err := analysis.Trace(sys, id, from, dt, min(samples, 256))
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(analysis.TraceToASCII(points, 60, 24))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	path := "snapshot.png"
	if len(args) > 0 {
		path = args[0]
	}

	reg := texture.NewRegistry(cfg.Render.TextureDir)
	s, err := newSimulation(cfg, reg)
	if err != nil {
		return err
	}

	var view export.View
	switch viewMode {
	case "topdown":
		view = func(w, h int) scene.Projector { return scene.NewTopDown(extent, w, h) }
	case "camera":
		view = cameraView(s, cfg)
	default:
		return fmt.Errorf("unknown view: %s (available: topdown, camera)", viewMode)
	}

	if err := writeSnapshot(path, s, cfg, reg, view); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", path, "view", viewMode, "time", s.Time)
	fmt.Printf("saved: %s\n", path)
	return nil
}

func cameraView(s *sim.Simulation, cfg *config.Config) export.View {
	v := s.Camera.View()
	l := lens(cfg)
	return func(w, h int) scene.Projector { return scene.NewProjector(v, l, w, h) }
}

// writeSnapshot renders the current state of s. The format follows the file
// extension; svg output is vector unless --braille is set.
func writeSnapshot(path string, s *sim.Simulation, cfg *config.Config, reg *texture.Registry, view export.View) error {
	opts := export.DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.ShowOrbits = s.ShowOrbits
	opts.OrbitSegments = cfg.Render.OrbitSegments
	palette := export.TexturePalette(reg)

	if !strings.EqualFold(filepath.Ext(path), ".svg") {
		img := export.Render(s.System, view, scales(cfg), opts, palette)
		return export.SaveImage(path, img)
	}

	var svg string
	if braille {
		canvas := viz.NewCanvas(width/8, height/16)
		w, h := canvas.Dots()
		col := &scene.Collector{Projector: view(w, h), Scales: scales(cfg), MinRadius: 0.5}
		scene.Capture(s.System, col, opts.ShowOrbits, opts.OrbitSegments)
		viz.RenderScene(canvas, col)
		svg = export.CanvasToSVG(canvas, 4, palette(orbit.NoTexture, "sun"))
	} else {
		col := &scene.Collector{Projector: view(width, height), Scales: scales(cfg), MinRadius: opts.MinRadius}
		scene.Capture(s.System, col, opts.ShowOrbits, opts.OrbitSegments)
		svg = export.SceneToSVG(col, width, height, opts, palette)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// runFlight plays a scripted flight, headless by default or paced with a
// live map when --watch is set, and prints the flight summary.
func runFlight(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Preset != "" && !cmd.Flags().Changed("preset") {
		if err := cmd.Flags().Set("preset", sc.Preset); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := initLogging(cfg)

	reg := texture.NewRegistry(cfg.Render.TextureDir)
	s, err := newSimulation(cfg, reg)
	if err != nil {
		return err
	}
	summary := metrics.Default(cfg.Render.DistanceScale)
	s.AddObserver(summary)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("flight started", "scenario", sc.Name, "steps", len(sc.Steps), "frames", sc.Frames())

	if watch {
		player, err := automation.NewPlayer(sc)
		if err != nil {
			return err
		}
		r := tui.NewLiveRenderer(os.Stdout, s.System, scales(cfg), extent, 0)
		s.AddObserver(r)
		r.Start()
		err = sim.Run(ctx, s, player, cfg.Simulation.FPS, func(sim.Frame) bool { return !player.Done() })
		r.Stop()
		if err != nil {
			return err
		}
	} else {
		_, err = automation.Run(ctx, s, sc, func(i int, st automation.Step, f sim.Frame) error {
			fmt.Printf("step %d/%d  %-20s day=%.2f  camera=(%.3f, %.3f, %.3f)\n",
				i+1, len(sc.Steps), st.Intent, f.Time, f.Camera.X, f.Camera.Y, f.Camera.Z)
			if st.Snapshot == "" {
				return nil
			}
			path := filepath.Join(shotDir, st.Snapshot)
			if err := writeSnapshot(path, s, cfg, reg, cameraView(s, cfg)); err != nil {
				return err
			}
			fmt.Printf("saved: %s\n", path)
			return nil
		})
		if err != nil {
			return err
		}
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	values := summary.Values()
	for _, name := range summary.Names() {
		fmt.Fprintf(w, "%s\t%.4g\n", name, values[name])
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cfg)

	sys, err := orbit.NewSolarSystem(nil)
	if err != nil {
		return err
	}
	factory := func() (*sim.Simulation, error) { return newSimulation(cfg, nil) }
	srv := server.New(cfg.Server, sys, cfg.Simulation.StartTime, factory)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "solarsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listBodies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogging(cfg)

	sys, err := orbit.NewSolarSystem(textureLoader(cfg))
	if err != nil {
		return err
	}
	sys.CalculatePositions(cfg.Simulation.StartTime)
	bodies := sys.Bodies()

	fmt.Printf("day %.3f\n\n", cfg.Simulation.StartTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARENT\tDISTANCE km\tPERIOD d\tROTATION d\tRADIUS km\tX km\tZ km\tLIGHT")
	for i, b := range bodies {
		parent := "-"
		if b.HasParent() {
			parent = bodies[b.Parent].Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%g\t%g\t%.0f\t%.4g\t%.4g\t%s\n",
			i, b.Name, parent, b.Distance, b.OrbitalPeriod, b.RotationPeriod, b.Radius,
			b.Position.X, b.Position.Z,
			analysis.LightTime(b.Position.Length()).Round(time.Second),
		)
	}
	return w.Flush()
}
