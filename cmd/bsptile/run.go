package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/bsptile/internal/app"
	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/config"
	"github.com/Gaurav-Gosain/bsptile/internal/theme"
	"github.com/Gaurav-Gosain/bsptile/internal/wm"
)

// newLogger builds the application logger. Debug mode writes to a log
// file under the XDG state directory; otherwise logging is silenced so
// it never corrupts the alternate screen.
func newLogger() (*log.Logger, func(), error) {
	if !debugMode {
		logger := log.New(os.Stderr)
		logger.SetLevel(log.FatalLevel)
		return logger, func() {}, nil
	}

	path, err := xdg.StateFile(filepath.Join("bsptile", "debug.log"))
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}

	logger := log.New(f)
	logger.SetLevel(log.DebugLevel)
	logger.SetReportTimestamp(true)
	fmt.Printf("Debug log: %s\n", path)
	return logger, func() { _ = f.Close() }, nil
}

func runLocal() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		userConfig = config.DefaultConfig()
	}

	if err := theme.Initialize(themeName); err != nil {
		return fmt.Errorf("theme error: %w", err)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	if debugMode {
		configPath, _ := config.GetConfigPath()
		logger.Info("starting", "config", configPath, "screens", screenCount)
	}

	model := app.New(userConfig, screenCount, logger)
	p := tea.NewProgram(model, tea.WithoutSignalHandler())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live-reload the config file while the demo runs.
	go func() {
		err := config.Watch(ctx, func(cfg *config.UserConfig) {
			p.Send(app.ConfigReloadedMsg{Config: cfg})
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("config watcher stopped", "err", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// printLayout tiles n windows and prints the resulting rectangles, one
// row per cell. Zero width or height falls back to the terminal size.
func printLayout(n, width, height, gap int) error {
	if width <= 0 || height <= 0 {
		tw, th, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			tw, th = 80, 24
		}
		if width <= 0 {
			width = tw
		}
		if height <= 0 {
			height = th
		}
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		userConfig = config.DefaultConfig()
	}
	opts := userConfig.LayoutOptions()
	if gap >= 0 {
		opts.Gap = gap
	}

	system := wm.New(opts, userConfig.SplitMode())
	bounds := cluster.Rect{Width: width, Height: height}
	system.AddScreen(bounds, bounds, nil)

	for i := 1; i <= n; i++ {
		if !system.SplitSelected(cluster.WindowID(i)) {
			return fmt.Errorf("could not place window %d", i)
		}
	}

	sc, _ := system.Screen(0)
	rows := [][]string{}
	for leaf := range sc.Leaves() {
		win, _ := sc.Window(leaf)
		r, _ := sc.Rect(leaf)
		rows = append(rows, []string{
			fmt.Sprintf("%d", win),
			fmt.Sprintf("%d,%d", r.X, r.Y),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Window", "Position", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Printf("Layout for %d windows at %dx%d (%s mode)\n", n, width, height, userConfig.SplitMode())
	fmt.Println(t.Render())
	return nil
}
