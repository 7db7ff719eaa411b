package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/config"
	"github.com/Gaurav-Gosain/bsptile/internal/wm"
)

// statusBarHeight is the number of rows reserved below the tiling area.
const statusBarHeight = 1

// Update handles all incoming messages and advances the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		a.reconcile()
		return a, a.tickCmd()

	case ConfigReloadedMsg:
		a.cfg = msg.Config
		a.registry = config.NewKeybindRegistry(a.cfg)
		a.system.SetOptions(a.cfg.LayoutOptions())
		a.logger.Info("configuration reloaded")
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKey(msg)

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button == tea.MouseLeft {
			a.handleClick(mouse.X, mouse.Y)
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutScreens()
		return a, nil
	}

	return a, nil
}

// handleKey dispatches a key press through the keybind registry.
func (a *App) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	action := a.registry.GetAction(msg.String())

	if a.showHelp && action != "toggle_help" && action != "quit" {
		a.showHelp = false
		return a, nil
	}

	switch action {
	case "quit":
		a.quitting = true
		return a, tea.Quit

	case "toggle_help":
		a.showHelp = !a.showHelp

	case "new_window":
		a.source.Open()
		a.reconcile()

	case "close_window":
		if win, ok := a.system.SelectedWindow(); ok {
			a.source.Close(win)
			a.reconcile()
		}

	case "focus_left":
		a.moveFocus(wm.Left)
	case "focus_down":
		a.moveFocus(wm.Down)
	case "focus_up":
		a.moveFocus(wm.Up)
	case "focus_right":
		a.moveFocus(wm.Right)

	case "toggle_split_dir":
		a.system.ToggleSelectedSplitDir()

	case "shrink":
		a.system.AdjustSelectedRatio(-a.ratioStep())
	case "grow":
		a.system.AdjustSelectedRatio(a.ratioStep())

	case "toggle_zen":
		a.system.ToggleZen()

	case "cycle_split_mode":
		a.system.CycleSplitMode()

	case "toggle_fullscreen":
		if sel, ok := a.system.Selection(); ok {
			if sc, found := a.system.Screen(sel.Screen); found {
				sc.SetFullscreen(!sc.Fullscreen())
			}
		}

	case "toggle_swap":
		a.toggleSwap()

	case "compact":
		a.system.CompactIfNeeded(a.cfg.Reconcile.CompactThreshold)

	case "next_screen":
		a.focusNextScreen()
	}

	return a, nil
}

func (a *App) ratioStep() float64 {
	if a.cfg.Layout.RatioStep > 0 {
		return a.cfg.Layout.RatioStep
	}
	return 0.05
}

// moveFocus navigates directionally and disarms a pending swap by
// completing it against the newly focused cell when one is armed.
func (a *App) moveFocus(d wm.Direction) {
	if !a.system.MoveSelection(d) {
		return
	}
	if a.swapArmed {
		to, _ := a.system.Selection()
		if a.system.SwapCells(a.swapFrom.Screen, a.swapFrom.Cell, to.Screen, to.Cell) {
			// Focus stays with the moved content.
			a.system.Select(a.swapFrom.Screen, a.swapFrom.Cell)
		}
		a.swapArmed = false
	}
}

// toggleSwap arms the selected cell for a swap; pressing it again
// disarms without swapping.
func (a *App) toggleSwap() {
	if a.swapArmed {
		a.swapArmed = false
		return
	}
	sel, ok := a.system.Selection()
	if !ok {
		return
	}
	a.swapFrom = sel
	a.swapArmed = true
}

// handleClick selects the clicked cell, completing an armed swap.
func (a *App) handleClick(x, y int) {
	screen, cell, ok := a.system.LeafAt(x, y)
	if !ok {
		return
	}
	if a.swapArmed {
		if a.system.SwapCells(a.swapFrom.Screen, a.swapFrom.Cell, screen, cell) {
			a.system.Select(a.swapFrom.Screen, a.swapFrom.Cell)
		}
		a.swapArmed = false
		return
	}
	a.system.Select(screen, cell)
}

// focusNextScreen moves the selection to the first leaf of the next
// screen that has one.
func (a *App) focusNextScreen() {
	n := a.system.ScreenCount()
	if n < 2 {
		return
	}
	start := 0
	if sel, ok := a.system.Selection(); ok {
		start = sel.Screen
	}
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		sc, _ := a.system.Screen(idx)
		for leaf := range sc.Leaves() {
			a.system.Select(idx, leaf)
			return
		}
	}
}

// layoutScreens carves the terminal into screenCount side-by-side
// screens above the status bar, creating them on the first resize and
// repositioning them afterwards.
func (a *App) layoutScreens() {
	if a.width <= 0 || a.height <= statusBarHeight {
		return
	}
	tileHeight := a.height - statusBarHeight

	for i := 0; i < a.screenCount; i++ {
		x0 := i * a.width / a.screenCount
		x1 := (i + 1) * a.width / a.screenCount
		bounds := cluster.Rect{X: x0, Y: 0, Width: x1 - x0, Height: tileHeight}

		if sc, ok := a.system.Screen(i); ok {
			sc.GlobalX = bounds.X
			sc.GlobalY = bounds.Y
			sc.Monitor = bounds
			sc.Resize(bounds.Width, bounds.Height)
			continue
		}
		a.system.AddScreen(bounds, bounds, nil)
	}
}
