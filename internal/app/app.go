// Package app implements the bsptile demo TUI: a bubbletea program
// that drives the layout engine with a simulated window source, so the
// tiling behavior can be exercised without a real compositor.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/bsptile/internal/arena"
	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/config"
	"github.com/Gaurav-Gosain/bsptile/internal/wm"
)

// TickerMsg drives the periodic reconcile pass.
type TickerMsg time.Time

// ConfigReloadedMsg delivers a config re-read after the file changed on
// disk.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// App is the bubbletea model. All window lifecycle flows through the
// source list and the reconciler; key handlers never edit trees
// directly except for layout-only operations (focus, ratio, zen, swap).
type App struct {
	system   *wm.System
	source   *windowSource
	cfg      *config.UserConfig
	registry *config.KeybindRegistry
	logger   *log.Logger

	// frame is reset at the start of every render and backs the
	// per-frame cell descriptor scratch.
	frame *arena.Arena

	width, height int
	screenCount   int

	swapArmed bool
	swapFrom  wm.Selection
	showHelp  bool
	quitting  bool
}

// New creates the demo app with screenCount side-by-side screens.
func New(cfg *config.UserConfig, screenCount int, logger *log.Logger) *App {
	if screenCount < 1 {
		screenCount = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	system := wm.New(cfg.LayoutOptions(), cfg.SplitMode())
	system.SetLogger(logger)
	return &App{
		system:      system,
		source:      newWindowSource(),
		cfg:         cfg,
		registry:    config.NewKeybindRegistry(cfg),
		logger:      logger,
		frame:       arena.New(arena.DefaultBlockSize),
		screenCount: screenCount,
	}
}

// System exposes the layout system, mainly for tests.
func (a *App) System() *wm.System { return a.system }

// Init starts the reconcile ticker.
func (a *App) Init() tea.Cmd {
	return a.tickCmd()
}

func (a *App) tickCmd() tea.Cmd {
	interval := time.Duration(a.cfg.Reconcile.IntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// reconcile converges the layout trees on the source list and compacts
// fragmented trees past the configured threshold. The source is flat,
// so the whole enumeration is handed over as one list; the system
// routes additions to the selection's screen.
func (a *App) reconcile() {
	removed, added := a.system.Reconcile(
		[][]cluster.WindowID{a.source.IDs()},
		nil,
		-1,
	)
	if len(removed) > 0 || len(added) > 0 {
		a.logger.Debug("source reconciled",
			"windows", a.source.Len(),
			"removed", len(removed),
			"added", len(added),
		)
	}
	a.system.CompactIfNeeded(a.cfg.Reconcile.CompactThreshold)
}
