package app

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/bsptile/internal/arena"
	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/config"
	"github.com/Gaurav-Gosain/bsptile/internal/theme"
)

// Z-order bands for canvas layers.
const (
	zCells      = 0
	zZen        = 10
	zFullscreen = 20
	zStatusBar  = 30
	zHelp       = 40
)

// cellBox is the per-frame descriptor for one rendered cell. It is
// pointer-free so the slice can live in the arena.
type cellBox struct {
	rect     cluster.Rect
	win      cluster.WindowID
	z        int
	selected bool
	armed    bool
	zen      bool
}

// View renders the tiled layout as a layer canvas.
func (a *App) View() tea.View {
	var view tea.View
	if a.quitting {
		return view
	}
	view.SetContent(lipgloss.Sprint(a.canvas().Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

func (a *App) canvas() *lipgloss.Canvas {
	if a.width <= 0 || a.height <= statusBarHeight {
		return lipgloss.NewCanvas(0, 0)
	}
	canvas := lipgloss.NewCanvas(a.width, a.height)

	// The geometry walk fills arena-backed descriptors; one Reset at
	// the top of the frame reclaims the whole scratch.
	a.frame.Reset()
	est := 0
	for i := 0; i < a.system.ScreenCount(); i++ {
		sc, _ := a.system.Screen(i)
		est += sc.LiveLen()
	}
	boxes := arena.MakeSlice[cellBox](a.frame, est)[:0]

	sel, hasSel := a.system.Selection()
	var fullscreens []int

	for i := 0; i < a.system.ScreenCount(); i++ {
		sc, _ := a.system.Screen(i)

		if sc.Fullscreen() {
			fullscreens = append(fullscreens, i)
			continue
		}

		zenLeaf, hasZen := sc.Zen()
		for leaf := range sc.Leaves() {
			if hasZen && leaf == zenLeaf {
				continue
			}
			r, _ := sc.GlobalRect(leaf)
			if r.Empty() {
				continue
			}
			win, _ := sc.Window(leaf)
			boxes = append(boxes, cellBox{
				rect:     r,
				win:      win,
				z:        zCells,
				selected: hasSel && sel.Screen == i && sel.Cell == leaf,
				armed:    a.swapArmed && a.swapFrom.Screen == i && a.swapFrom.Cell == leaf,
			})
		}

		if hasZen {
			zr, ok := sc.ZenRect(a.cfg.Layout.ZenFraction)
			if ok {
				win, _ := sc.Window(zenLeaf)
				boxes = append(boxes, cellBox{
					rect:     zr.Translate(sc.GlobalX, sc.GlobalY),
					win:      win,
					z:        zZen,
					selected: hasSel && sel.Screen == i && sel.Cell == zenLeaf,
					zen:      true,
				})
			}
		}
	}

	layers := make([]*lipgloss.Layer, 0, len(boxes)+len(fullscreens)+2)
	for _, idx := range fullscreens {
		layers = append(layers, a.fullscreenLayer(idx))
	}
	for _, b := range boxes {
		layers = append(layers,
			a.cellLayer(b.rect, b.win, b.selected, b.armed, b.zen).Z(b.z))
	}
	layers = append(layers, a.statusBarLayer())
	if a.showHelp {
		layers = append(layers, a.helpLayer())
	}

	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas
}

// cellLayer renders one cell as a bordered box at its global rectangle.
func (a *App) cellLayer(r cluster.Rect, win cluster.WindowID, selected, armed, zen bool) *lipgloss.Layer {
	borderColor := theme.BorderUnselected()
	switch {
	case armed:
		borderColor = theme.BorderSwapArmed()
	case zen:
		borderColor = theme.BorderZen()
	case selected:
		borderColor = theme.BorderSelected()
	}

	title := fmt.Sprintf("#%d", win)
	if w := a.source.Get(win); w != nil {
		title = w.Title
	}

	if r.Width < 4 || r.Height < 3 {
		// Too small for a border; fill the slot so the layout shape
		// stays visible.
		fill := lipgloss.NewStyle().
			Width(r.Width).
			Height(r.Height).
			Foreground(borderColor).
			Render(truncate(title, r.Width))
		return lipgloss.NewLayer(fill).X(r.X).Y(r.Y)
	}

	inner := lipgloss.NewStyle().
		Foreground(theme.CellTitle()).
		Render(truncate(title, r.Width-2))
	box := lipgloss.NewStyle().
		Width(r.Width - 2).
		Height(r.Height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(inner)
	return lipgloss.NewLayer(box).X(r.X).Y(r.Y)
}

// fullscreenLayer covers a screen whose tiling display is suppressed.
func (a *App) fullscreenLayer(idx int) *lipgloss.Layer {
	sc, _ := a.system.Screen(idx)
	msg := lipgloss.NewStyle().
		Width(sc.Width()).
		Height(sc.Height()).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.BorderUnselected()).
		Render("fullscreen application")
	return lipgloss.NewLayer(msg).X(sc.GlobalX).Y(sc.GlobalY).Z(zFullscreen)
}

// statusBarLayer renders the bottom status row: split mode, screen and
// window counts, the selected window, and a help hint.
func (a *App) statusBarLayer() *lipgloss.Layer {
	accent := lipgloss.NewStyle().Foreground(theme.StatusAccent()).Bold(true)
	text := lipgloss.NewStyle().Foreground(theme.StatusText())

	parts := []string{
		accent.Render("bsptile"),
		text.Render(fmt.Sprintf("mode:%s", a.system.SplitMode())),
		text.Render(fmt.Sprintf("screens:%d", a.system.ScreenCount())),
		text.Render(fmt.Sprintf("windows:%d", a.source.Len())),
	}
	if win, ok := a.system.SelectedWindow(); ok {
		if w := a.source.Get(win); w != nil {
			parts = append(parts, accent.Render(w.Title))
		}
	}
	if a.swapArmed {
		parts = append(parts, accent.Render("swap: pick a target"))
	}
	parts = append(parts, text.Render("? help"))

	bar := strings.Join(parts, text.Render("  |  "))
	bar = lipgloss.NewStyle().MaxWidth(a.width).Render(bar)
	return lipgloss.NewLayer(bar).
		X(0).
		Y(a.height - statusBarHeight).
		Z(zStatusBar)
}

// helpLayer renders a centered keybinding overlay built from the
// registry, so customized keys show up correctly.
func (a *App) helpLayer() *lipgloss.Layer {
	actions := make([]string, 0, len(config.ActionDescriptions))
	for action := range config.ActionDescriptions {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	var sb strings.Builder
	for _, action := range actions {
		keys := a.registry.GetKeysForDisplay(action)
		if keys == "" {
			continue
		}
		fmt.Fprintf(&sb, "%-14s %s\n", keys, config.ActionDescriptions[action])
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderSelected()).
		Padding(1, 2).
		Render(strings.TrimRight(sb.String(), "\n"))

	x := max((a.width-lipgloss.Width(box))/2, 0)
	y := max((a.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewLayer(box).X(x).Y(y).Z(zHelp)
}

// truncate cuts s to at most width display columns, so wide runes
// never overflow a narrow cell.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	var sb strings.Builder
	cols := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if cols+w > width {
			break
		}
		sb.WriteRune(r)
		cols += w
	}
	return sb.String()
}
