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
	"github.com/google/uuid"

	"github.com/san-kum/backdrop/internal/analytics"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/effect"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/prefs"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/widgets"
)

const (
	statsRows  = 4
	footerRows = 1
	headerRows = 1

	projectsShipped = 250
)

var testimonials = []string{
	`"The site finally feels alive." · Priya, Northwind`,
	`"Shipped in two weeks, zero regressions." · Marco, Tideline`,
	`"Our bounce rate dropped by a third." · Ana, Fieldwork`,
}

type TickMsg time.Time

type carouselMsg time.Time

type counterMsg time.Time

// AppOptions configure the landing page.
type AppOptions struct {
	Config *config.Config
	// Prefs persists the theme. Nil keeps the theme in memory only.
	Prefs prefs.Store
	// Engines to mount; empty mounts every registered engine.
	Engines []string
	// ExportPath, when set, receives the session's analytics on quit.
	ExportPath string
	// Sessions, when set, records the session's metadata and frame times
	// on quit.
	Sessions *storage.Store
	Logger   *log.Logger
	Rand     *rand.Rand
}

// App is the landing page: a particle hero, a stats strip with the
// carousel and counter, and a rain-backed call to action.
type App struct {
	cfg      *config.Config
	stage    *Stage
	effects  []*effect.Effect
	toggler  *prefs.Toggler
	tracker  *analytics.Tracker
	reporter *analytics.Reporter
	carousel *widgets.Carousel
	counter  *widgets.Counter
	depth    *widgets.ScrollDepth
	timing   *metrics.FrameTime
	fps      *metrics.FPS
	sessions *storage.Store
	logger   *log.Logger

	session       string
	exportPath    string
	width, height int
	offset        int
	paused        bool
}

func NewApp(opts AppOptions) (App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := App{
		cfg:        cfg,
		stage:      NewStage(cfg),
		toggler:    prefs.NewToggler(opts.Prefs, ApplyTheme, logger),
		tracker:    analytics.NewTracker(logger),
		reporter:   analytics.NewReporter(logger),
		carousel:   widgets.NewCarousel(testimonials),
		counter:    widgets.NewCounter(projectsShipped),
		depth:      &widgets.ScrollDepth{},
		timing:     metrics.NewFrameTime(0),
		fps:        &metrics.FPS{},
		sessions:   opts.Sessions,
		logger:     logger,
		session:    uuid.NewString(),
		exportPath: opts.ExportPath,
		width:      width,
		height:     height,
	}

	effects, err := m.stage.Launch(opts.Engines, cfg, rng, m.reporter, m.timing, logger)
	if err != nil {
		return App{}, err
	}
	m.effects = effects

	m.tracker.Track(analytics.PageView, map[string]any{
		"session": m.session,
		"theme":   string(m.toggler.Current()),
	})
	return m, nil
}

func (m App) Init() tea.Cmd {
	return tea.Batch(m.tick(), carouselTick())
}

// tick schedules the next frame. Narrow terminals count as a mobile
// layout and refresh at half rate.
func (m App) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	interval := time.Second / time.Duration(fps)
	if metrics.ReduceAnimations(m.width) {
		interval *= 2
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func carouselTick() tea.Cmd {
	return tea.Tick(widgets.CarouselInterval, func(t time.Time) tea.Msg { return carouselMsg(t) })
}

func counterTick() tea.Cmd {
	return tea.Tick(widgets.CounterInterval, func(t time.Time) tea.Msg { return counterMsg(t) })
}

// Update handles input, resizes and timers.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.stage.SetSize(m.width, m.height)
		m.stage.Window.Dispatch()
		m.scroll(0)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.shutdown()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "t":
			theme := m.toggler.Toggle()
			m.tracker.Track(analytics.ThemeToggle, map[string]any{"theme": string(theme)})
		case "down", "j":
			m.scroll(1)
		case "up", "k":
			m.scroll(-1)
		case "pgdown":
			m.scroll(m.height / 2)
		case "pgup":
			m.scroll(-m.height / 2)
		case "enter":
			m.tracker.Track(analytics.CTAClick, map[string]any{"location": "final-cta"})
		}
	case TickMsg:
		if !m.paused {
			now := time.Time(msg)
			m.fps.Tick(now)
			m.stage.Clock.Advance(now)
		}
		cmds := []tea.Cmd{m.tick()}
		if m.statsVisible() && m.counter.Start() {
			cmds = append(cmds, counterTick())
		}
		return m, tea.Batch(cmds...)
	case carouselMsg:
		m.carousel.Next()
		return m, carouselTick()
	case counterMsg:
		if m.counter.Step() {
			return m, nil
		}
		return m, counterTick()
	}
	return m, nil
}

func (m App) heroRows() int {
	_, rows := m.stage.Hero.Cells()
	return rows
}

// docRows counts the scrolled document. The footer is pinned below it.
func (m App) docRows() int {
	_, cta := m.stage.CTA.Cells()
	return headerRows + m.heroRows() + statsRows + cta
}

// viewRows is the part of the terminal the document scrolls through.
func (m App) viewRows() int {
	if m.height <= footerRows {
		return 0
	}
	return m.height - footerRows
}

func (m App) statsVisible() bool {
	row := headerRows + m.heroRows()
	return row+statsRows > m.offset && row < m.offset+m.viewRows()
}

// scroll moves the viewport by d rows and records new scroll-depth
// milestones.
func (m *App) scroll(d int) {
	maxOffset := m.docRows() - m.viewRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.offset += d
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
	if d == 0 {
		return
	}
	pct := widgets.Percent(m.offset, m.docRows(), m.viewRows())
	if depth, milestone := m.depth.Observe(pct); milestone {
		m.tracker.Track(analytics.ScrollDepth, map[string]any{"depth": depth})
	}
}

func (m *App) shutdown() {
	for _, e := range m.effects {
		e.Destroy()
	}
	if m.exportPath != "" {
		if err := analytics.ExportFile(m.exportPath, m.session, m.tracker, m.reporter); err != nil {
			m.logger.Printf("export analytics: %v", err)
		}
	}
	if m.sessions != nil {
		if err := m.sessions.Save(m.metadata(), m.timing.History()); err != nil {
			m.logger.Printf("save session: %v", err)
		}
	}
}

func (m App) metadata() storage.SessionMetadata {
	names := make([]string, 0, len(m.effects))
	for _, e := range m.effects {
		if e.Enabled() {
			names = append(names, e.Engine().Name())
		}
	}
	return storage.SessionMetadata{
		ID:        m.session,
		Timestamp: time.Now(),
		Seed:      m.cfg.Seed,
		FPS:       m.cfg.FPS,
		Engines:   names,
		Theme:     string(m.toggler.Current()),
		Events:    len(m.tracker.Events()),
		Errors:    len(m.reporter.Reports()),
		Metrics: map[string]float64{
			"fps":      m.fps.Value(),
			"frame_ms": m.timing.Value(),
			"worst_ms": m.timing.Worst(),
		},
	}
}

// View renders the visible slice of the page above the pinned footer.
func (m App) View() string {
	lines := m.document()
	end := m.offset + m.viewRows()
	if end > len(lines) {
		end = len(lines)
	}
	start := m.offset
	if start > end {
		start = end
	}
	visible := append(lines[start:end:end], m.footer())
	return strings.Join(visible, "\n")
}

func (m App) document() []string {
	bg := CurrentTheme.Canvas()
	lines := make([]string, 0, m.docRows())

	lines = append(lines, m.header())
	tagline := GradientText("Interfaces that move.", CurrentTheme.Primary, CurrentTheme.Secondary)
	lines = append(lines, overlay(m.stage.Hero.Render(bg), tagline, m.width)...)
	lines = append(lines, m.stats()...)
	lines = append(lines, overlay(m.stage.CTA.Render(bg), ctaStyle().Render("enter · start a project"), m.width)...)
	return lines
}

func (m App) header() string {
	title := GradientText("BACKDROP", CurrentTheme.Primary, CurrentTheme.Secondary)
	theme := subtle().Render(fmt.Sprintf("◐ %s", m.toggler.Current()))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(theme)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + theme
}

func (m App) stats() []string {
	counter := metricValue().Render(fmt.Sprintf("%d+", m.counter.Value())) + subtle().Render(" projects shipped")
	quote := titleStyle().Render(m.carousel.Current())
	barWidth := m.width - 14
	if barWidth < 0 {
		barWidth = 0
	}
	return []string{
		Separator(m.width),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, counter),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, quote+"  "+Dots(m.carousel.Index(), m.carousel.Len())),
		metricLabel().Render("scrolled") + ProgressBar(m.depth.Progress(), barWidth),
	}
}

func (m App) footer() string {
	status := statusRunning().Render("RUNNING")
	if m.paused {
		status = statusPaused().Render("PAUSED")
	}
	if metrics.ReduceAnimations(m.width) {
		status += subtle().Render(" (reduced)")
	}
	perf := fmt.Sprintf(" %3.0f fps %5.2fms ", m.fps.Value(), m.timing.Value())
	return status + metricValue().Render(perf) + SparklineChart(m.timing.History(), 16) +
		keyHint().Render("  j/k scroll · t theme · enter cta · space pause · q quit")
}

// Effects returns the mounted effects.
func (m App) Effects() []*effect.Effect { return m.effects }

func (m App) Tracker() *analytics.Tracker { return m.tracker }
