package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/effect"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/particles"
	"github.com/san-kum/backdrop/internal/prefs"
	"github.com/san-kum/backdrop/internal/rain"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/surface"
	"github.com/san-kum/backdrop/internal/tui"
	"github.com/san-kum/backdrop/internal/viz"
)

var (
	dataDir    string
	configFile string
	frameRate  int
	seed       int64
	preset     string
	// landing page
	engines       []string
	exportPath    string
	recordSession bool
	// offscreen rendering
	outPath        string
	benchFrames    int
	recordFrames   int
	snapshotFrames int
	surfW, surfH   int
	cols, rows     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "ambient canvas animations for the terminal",
		RunE:  runLanding,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default .backdrop)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().IntVar(&frameRate, "fps", 0, "frame rate (default 60)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	rootCmd.Flags().StringSliceVar(&engines, "engines", nil, "engines to mount (default all)")
	rootCmd.Flags().StringVar(&exportPath, "export", "", "write session analytics to this json file on quit")
	rootCmd.Flags().BoolVar(&recordSession, "record-session", false, "save session metadata and frame times on quit")

	liveCmd := &cobra.Command{
		Use:   "live [engine]",
		Short: "run one engine full-screen with live stats",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	plainCmd := &cobra.Command{
		Use:   "plain [engine]",
		Short: "paint one engine with plain ANSI escapes",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlain,
	}
	plainCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench [engine]",
		Short: "benchmark an engine across surface sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  benchEngine,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 120, "frames per size")
	benchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	recordCmd := &cobra.Command{
		Use:   "record [engine]",
		Short: "record an engine to an animated gif",
		Args:  cobra.ExactArgs(1),
		RunE:  recordGIF,
	}
	recordCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <engine>.gif)")
	recordCmd.Flags().IntVar(&recordFrames, "frames", 90, "frames to record")
	recordCmd.Flags().IntVar(&surfW, "width", 480, "surface width in pixels")
	recordCmd.Flags().IntVar(&surfH, "height", 270, "surface height in pixels")
	recordCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [engine]",
		Short: "export a terminal frame of an engine as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <engine>.svg)")
	snapshotCmd.Flags().IntVar(&snapshotFrames, "frames", 60, "frames to run before the snapshot")
	snapshotCmd.Flags().IntVar(&cols, "cols", 100, "surface width in cells")
	snapshotCmd.Flags().IntVar(&rows, "rows", 30, "surface height in cells")
	snapshotCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	themeCmd := &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "show or change the stored theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: append(viz.ThemeNames(), "toggle"),
		RunE:      runTheme,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [engine]",
		Short: "list available presets for an engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for engine: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "list recorded landing page sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot a session's frame times",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	rootCmd.AddCommand(liveCmd, plainCmd, benchCmd, recordCmd, snapshotCmd, themeCmd, presetsCmd, initCmd, sessionsCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves file and environment settings, then applies flags
// and the engine preset.
func loadConfig(engine string) (*config.Config, error) {
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if frameRate > 0 {
		cfg.FPS = frameRate
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if preset != "" {
		if !config.ApplyPreset(cfg, engine, preset) {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", preset, engine, config.ListPresets(engine))
		}
	}
	return cfg, nil
}

func newRand(cfg *config.Config) *rand.Rand {
	s := cfg.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(s))
}

func runLanding(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	logger, closer, err := cfg.OpenLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := prefs.Open(cfg.Prefs.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := viz.AppOptions{
		Config:     cfg,
		Prefs:      store,
		Engines:    engines,
		ExportPath: exportPath,
		Logger:     logger,
		Rand:       newRand(cfg),
	}
	if recordSession {
		opts.Sessions = sessionStore(cfg)
	}
	app, err := viz.NewApp(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

func sessionStore(cfg *config.Config) *storage.Store {
	return storage.New(filepath.Join(cfg.DataDir, "sessions"))
}

func listSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	sessions, err := sessionStore(cfg).List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tENGINES\tTHEME\tEVENTS\tERRORS\tFPS\tFRAME")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.0f\t%.2fms\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(s.Engines, ","),
			s.Theme,
			s.Events,
			s.Errors,
			s.Metrics["fps"],
			s.Metrics["frame_ms"],
		)
	}

	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	st := sessionStore(cfg)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, err := st.LoadFrameTimes(args[0])
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("session %s: not enough frames to plot", meta.ID)
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("engines: %s\n\n", strings.Join(meta.Engines, ", "))
	fmt.Println(asciigraph.Plot(times,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frame ms"),
	))
	fmt.Println()
	fmt.Printf("mean: %.3fms  worst: %.3fms\n", meta.Metrics["frame_ms"], meta.Metrics["worst_ms"])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	logger, closer, err := cfg.OpenLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := prefs.Open(cfg.Prefs.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	m, err := viz.NewLive(args[0], cfg, store, newRand(cfg), logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runPlain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0])
	if err != nil {
		return err
	}
	logger, closer, err := cfg.OpenLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	size := func() (int, int, error) { return term.GetSize(os.Stdout.Fd()) }
	r, err := tui.NewLiveRenderer(args[0], cfg, os.Stdout, size, newRand(cfg), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Run(ctx)
}

// offscreen mounts engine on a detached pane driven by a private clock.
type offscreen struct {
	clock  *surface.FrameClock
	pane   *surface.Pane
	window *surface.Window
	effect *effect.Effect
}

func mountOffscreen(name string, cfg *config.Config, w, h int, factory raster.Factory, timing metrics.Metric, logger *log.Logger) (*offscreen, error) {
	entry, err := effect.NewRegistry().Get(name)
	if err != nil {
		return nil, err
	}
	o := &offscreen{
		clock:  surface.NewFrameClock(),
		pane:   surface.NewPane(name, w, h),
		window: surface.NewWindow(),
	}
	o.effect = effect.Mount(entry.New(cfg, newRand(cfg)), o.pane, surface.Options{
		Opacity: entry.Opacity(cfg),
		ZIndex:  entry.ZIndex,
	}, effect.Deps{
		Scheduler: o.clock,
		Viewport:  o.window,
		Factory:   factory,
		Logger:    logger,
		Timing:    timing,
	})
	return o, nil
}

// run advances n frames, calling after (when set) once each frame is
// drawn.
func (o *offscreen) run(n int, after func()) {
	now := time.Now()
	for i := 0; i < n && o.effect.Running(); i++ {
		now = now.Add(time.Second / 60)
		o.clock.Advance(now)
		if after != nil {
			after()
		}
	}
}

func population(e effect.Engine) int {
	switch engine := e.(type) {
	case *particles.Field:
		return len(engine.Particles())
	case *rain.Rain:
		return len(engine.Columns())
	}
	return 0
}

func benchEngine(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig(name)
	if err != nil {
		return err
	}

	sizes := [][2]int{{640, 360}, {1280, 720}, {1920, 1080}, {2560, 1440}}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tACTORS\tFRAMES\tMEAN\tWORST\tFRAMES/SEC")

	var last *metrics.FrameTime
	for _, size := range sizes {
		timing := metrics.NewFrameTime(benchFrames)
		o, err := mountOffscreen(name, cfg, size[0], size[1], raster.CellFactory, timing, nil)
		if err != nil {
			return err
		}
		o.run(benchFrames, nil)
		actors := population(o.effect.Engine())
		o.effect.Destroy()

		perSec := 0.0
		if timing.Value() > 0 {
			perSec = 1000 / timing.Value()
		}
		fmt.Fprintf(w, "%dx%d\t%d\t%d\t%.3fms\t%.3fms\t%.0f\n",
			size[0], size[1], actors, timing.Samples(), timing.Value(), timing.Worst(), perSec)
		last = timing
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if last != nil && last.Samples() > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(last.History(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("frame ms at %dx%d", sizes[len(sizes)-1][0], sizes[len(sizes)-1][1])),
		))
	}
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig(name)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = name + ".gif"
	}

	o, err := mountOffscreen(name, cfg, surfW, surfH, raster.ImageFactory, nil, nil)
	if err != nil {
		return err
	}
	defer o.effect.Destroy()

	img, ok := o.effect.Surface().Context.(*raster.Image)
	if !ok {
		return fmt.Errorf("%s: surface is not an image", name)
	}
	rec := export.NewGIFRecorder(cfg.FPS)
	o.run(recordFrames, func() { rec.Capture(img.RGBA()) })

	if err := rec.Save(outPath); err != nil {
		return err
	}
	fmt.Printf("recorded %d frames of %s to %s\n", rec.Frames(), name, outPath)
	return nil
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig(name)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = name + ".svg"
	}

	o, err := mountOffscreen(name, cfg, cols*raster.CellWidth, rows*raster.CellHeight, raster.CellFactory, nil, nil)
	if err != nil {
		return err
	}
	defer o.effect.Destroy()
	o.run(snapshotFrames, nil)

	s := o.effect.Surface()
	cells, ok := s.Context.(*raster.Cells)
	if !ok {
		return fmt.Errorf("%s: surface is not a cell grid", name)
	}
	svg := export.CellsToSVG(cells, viz.ThemeDark.Canvas(), s.Opacity)
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	logger, closer, err := cfg.OpenLog()
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := prefs.Open(cfg.Prefs.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	toggler := prefs.NewToggler(store, nil, logger)
	if len(args) == 1 {
		switch args[0] {
		case "toggle":
			toggler.Toggle()
		default:
			theme, err := prefs.ParseTheme(args[0])
			if err != nil {
				return err
			}
			toggler.Set(theme)
		}
	}
	fmt.Println(toggler.Current())
	return nil
}
