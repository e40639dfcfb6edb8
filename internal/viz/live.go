package viz

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/backdrop/internal/analytics"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/effect"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/particles"
	"github.com/san-kum/backdrop/internal/prefs"
	"github.com/san-kum/backdrop/internal/rain"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

const statsWidth = 40

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

// Live shows a single engine full-screen next to a stats panel.
type Live struct {
	name     string
	cfg      *config.Config
	clock    *surface.FrameClock
	window   *surface.Window
	pane     *surface.Pane
	effect   *effect.Effect
	toggler  *prefs.Toggler
	reporter *analytics.Reporter
	timing   *metrics.FrameTime
	fps      *metrics.FPS

	width, height int
	running       bool
	showHelp      bool
}

// NewLive mounts the named engine on a pane that answers to every
// configured container id.
func NewLive(name string, cfg *config.Config, store prefs.Store, rng *rand.Rand, logger *log.Logger) (Live, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := Live{
		name:     name,
		cfg:      cfg,
		clock:    surface.NewFrameClock(),
		window:   surface.NewWindow(),
		pane:     surface.NewPane(name, 0, 0),
		toggler:  prefs.NewToggler(store, ApplyTheme, logger),
		reporter: analytics.NewReporter(logger),
		timing:   metrics.NewFrameTime(120),
		fps:      &metrics.FPS{},
		width:    width,
		height:   height,
		running:  true,
	}
	m.layoutPane()

	layout := surface.NewLayout()
	layout.Add(cfg.Particles.Container, m.pane)
	layout.Add(cfg.Rain.Container, m.pane)

	e, err := effect.Launch(effect.NewRegistry(), name, layout, cfg, rng, effect.Deps{
		Scheduler: m.clock,
		Viewport:  m.window,
		Factory:   raster.CellFactory,
		Reporter:  m.reporter,
		Logger:    logger,
		Timing:    m.timing,
	})
	if err != nil {
		return Live{}, err
	}
	m.effect = e
	return m, nil
}

func (m *Live) layoutPane() {
	cols := m.width - statsWidth - 6
	rows := m.height - 2
	if cols < 10 {
		cols = 10
	}
	if rows < 4 {
		rows = 4
	}
	m.pane.SetCells(cols, rows)
}

func (m Live) Init() tea.Cmd {
	return m.tick()
}

func (m Live) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the frame clock.
func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutPane()
		m.window.Dispatch()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.effect.Destroy()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			// same path a resize takes: every particle or column is rebuilt
			m.window.Dispatch()
			m.timing.Reset()
		case "t":
			m.toggler.Toggle()
		case "up", "k":
			m.adjustOpacity(0.05)
		case "down", "j":
			m.adjustOpacity(-0.05)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			now := time.Time(msg)
			m.fps.Tick(now)
			m.clock.Advance(now)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Live) adjustOpacity(d float64) {
	s := m.effect.Surface()
	if s == nil {
		return
	}
	s.Opacity += d
	if s.Opacity > 1 {
		s.Opacity = 1
	}
	if s.Opacity < 0.05 {
		s.Opacity = 0.05
	}
}

// population describes how many actors the engine is animating.
func (m Live) population() string {
	switch e := m.effect.Engine().(type) {
	case *particles.Field:
		return fmt.Sprintf("%d particles", len(e.Particles()))
	case *rain.Rain:
		return fmt.Sprintf("%d columns", len(e.Columns()))
	}
	return "-"
}

// View renders the engine and its stats.
func (m Live) View() string {
	canvasView := canvasStyle.Render(strings.Join(m.pane.Render(CurrentTheme.Canvas()), "\n"))

	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case !m.effect.Enabled():
		s.WriteString(statusPaused().Render("NO CONTAINER") + "\n\n")
	case !m.effect.Running():
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Error).Render("STOPPED") + "\n\n")
	case m.running:
		s.WriteString(statusRunning().Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused().Render("PAUSED") + "\n\n")
	}

	if hist := m.timing.History(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Frame ms"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	w, h := m.pane.Bounds()
	s.WriteString(metricLabel().Render("Surface") + metricValue().Render(fmt.Sprintf("%dx%d", w, h)) + "\n")
	s.WriteString(metricLabel().Render("Actors") + metricValue().Render(m.population()) + "\n")
	s.WriteString(metricLabel().Render("FPS") + metricValue().Render(fmt.Sprintf("%.0f", m.fps.Value())) + "\n")
	s.WriteString(metricLabel().Render("Frame") + metricValue().Render(fmt.Sprintf("%.2fms", m.timing.Value())) + "\n")
	s.WriteString(metricLabel().Render("Worst") + metricValue().Render(fmt.Sprintf("%.2fms", m.timing.Worst())) + "\n")
	if surf := m.effect.Surface(); surf != nil {
		s.WriteString(metricLabel().Render("Opacity") + ProgressBar(surf.Opacity, 10) + fmt.Sprintf(" %.2f", surf.Opacity) + "\n")
	}
	s.WriteString(metricLabel().Render("Theme") + metricValue().Render(string(m.toggler.Current())) + "\n")
	if n := len(m.reporter.Reports()); n > 0 {
		s.WriteString(metricLabel().Render("Errors") + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(fmt.Sprint(n)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reseed Q:Quit\nT:Theme  ↑↓:Opacity ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume animation   ║
║  R        - Reseed the engine        ║
║  T        - Toggle dark/light theme  ║
║  Up/K     - Raise layer opacity      ║
║  Down/J   - Lower layer opacity      ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Effect returns the mounted effect.
func (m Live) Effect() *effect.Effect { return m.effect }
