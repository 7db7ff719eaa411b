package app

import (
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/config"
	"github.com/Gaurav-Gosain/bsptile/internal/wm"
)

func newTestApp(t *testing.T, screens int) *App {
	t.Helper()
	a := New(config.DefaultConfig(), screens, nil)
	a.width = 160
	a.height = 51
	a.layoutScreens()
	return a
}

// =============================================================================
// Screen layout
// =============================================================================

func TestLayoutScreensCreatesScreens(t *testing.T) {
	a := newTestApp(t, 2)

	if got := a.system.ScreenCount(); got != 2 {
		t.Fatalf("ScreenCount = %d, want 2", got)
	}
	sc0, _ := a.system.Screen(0)
	sc1, _ := a.system.Screen(1)
	if sc0.Width() != 80 || sc1.Width() != 80 {
		t.Errorf("screen widths = %d, %d, want 80, 80", sc0.Width(), sc1.Width())
	}
	if sc1.GlobalX != 80 {
		t.Errorf("screen 1 GlobalX = %d, want 80", sc1.GlobalX)
	}
	// One row reserved for the status bar.
	if sc0.Height() != 50 {
		t.Errorf("screen height = %d, want 50", sc0.Height())
	}
}

func TestLayoutScreensRepositionsOnResize(t *testing.T) {
	a := newTestApp(t, 2)

	a.width = 200
	a.height = 61
	a.layoutScreens()

	if got := a.system.ScreenCount(); got != 2 {
		t.Fatalf("ScreenCount = %d after resize, want 2", got)
	}
	sc1, _ := a.system.Screen(1)
	if sc1.GlobalX != 100 || sc1.Width() != 100 || sc1.Height() != 60 {
		t.Errorf("screen 1 = offset %d, %dx%d, want offset 100, 100x60",
			sc1.GlobalX, sc1.Width(), sc1.Height())
	}
}

// =============================================================================
// Window lifecycle through the source
// =============================================================================

func TestOpenWindowsAreTiled(t *testing.T) {
	a := newTestApp(t, 1)

	first := a.source.Open()
	a.reconcile()
	second := a.source.Open()
	a.reconcile()

	if _, _, ok := a.system.FindWindow(first.ID); !ok {
		t.Errorf("window %d not tiled", first.ID)
	}
	if _, _, ok := a.system.FindWindow(second.ID); !ok {
		t.Errorf("window %d not tiled", second.ID)
	}
	// Selection keeps following the first window's content.
	if win, _ := a.system.SelectedWindow(); win != first.ID {
		t.Errorf("SelectedWindow = %d, want %d", win, first.ID)
	}
}

func TestCloseWindowThroughSource(t *testing.T) {
	a := newTestApp(t, 1)
	first := a.source.Open()
	second := a.source.Open()
	a.reconcile()

	a.source.Close(first.ID)
	a.reconcile()

	if _, _, ok := a.system.FindWindow(first.ID); ok {
		t.Errorf("window %d still tiled after close", first.ID)
	}
	if win, _ := a.system.SelectedWindow(); win != second.ID {
		t.Errorf("SelectedWindow = %d, want %d", win, second.ID)
	}
}

// =============================================================================
// Swap interactions
// =============================================================================

func TestSwapViaDirectionalFocus(t *testing.T) {
	a := newTestApp(t, 1)
	first := a.source.Open()
	second := a.source.Open()
	a.reconcile()

	sel, _ := a.system.Selection()
	a.toggleSwap()
	a.moveFocus(wm.Right)

	// The swap completed and focus stayed with the armed slot, which
	// now holds the other window.
	if a.swapArmed {
		t.Error("swap still armed after completing")
	}
	got, _ := a.system.Selection()
	if got != sel {
		t.Errorf("selection = %+v, want %+v", got, sel)
	}
	if win, _ := a.system.SelectedWindow(); win != second.ID {
		t.Errorf("SelectedWindow = %d, want %d", win, second.ID)
	}
	if screen, _, ok := a.system.FindWindow(first.ID); !ok || screen != 0 {
		t.Errorf("window %d lost during swap", first.ID)
	}
}

func TestSwapViaClick(t *testing.T) {
	a := newTestApp(t, 1)
	a.source.Open()
	second := a.source.Open()
	a.reconcile()

	sel, _ := a.system.Selection()
	sc, _ := a.system.Screen(0)
	otherSel, _ := sc.FindWindow(second.ID)
	r, _ := sc.GlobalRect(otherSel)

	a.toggleSwap()
	a.handleClick(r.X+1, r.Y+1)

	if a.swapArmed {
		t.Error("swap still armed after click")
	}
	if win, _ := sc.Window(sel.Cell); win != second.ID {
		t.Errorf("armed slot window = %d, want %d", win, second.ID)
	}
}

func TestToggleSwapDisarms(t *testing.T) {
	a := newTestApp(t, 1)
	a.source.Open()
	a.reconcile()

	a.toggleSwap()
	if !a.swapArmed {
		t.Fatal("swap not armed")
	}
	a.toggleSwap()
	if a.swapArmed {
		t.Error("swap still armed after second toggle")
	}
}

// =============================================================================
// Screen focus cycling and click selection
// =============================================================================

func TestFocusNextScreenWraps(t *testing.T) {
	a := newTestApp(t, 2)
	first := a.source.Open()
	a.reconcile()

	// Place a second window on screen 1 so both screens are occupied.
	sc1, _ := a.system.Screen(1)
	w := a.source.Open()
	a.system.Reconcile([][]cluster.WindowID{{first.ID}, {w.ID}}, nil, 1)
	if sc1.Empty() {
		t.Fatal("screen 1 still empty")
	}

	a.focusNextScreen()
	sel, _ := a.system.Selection()
	if sel.Screen != 1 {
		t.Fatalf("selection screen = %d, want 1", sel.Screen)
	}
	a.focusNextScreen()
	sel, _ = a.system.Selection()
	if sel.Screen != 0 {
		t.Errorf("selection screen = %d after wrap, want 0", sel.Screen)
	}
}

func TestClickSelectsCell(t *testing.T) {
	a := newTestApp(t, 1)
	a.source.Open()
	second := a.source.Open()
	a.reconcile()

	sc, _ := a.system.Screen(0)
	leaf, _ := sc.FindWindow(second.ID)
	r, _ := sc.GlobalRect(leaf)

	a.handleClick(r.X+1, r.Y+1)
	if win, _ := a.system.SelectedWindow(); win != second.ID {
		t.Errorf("SelectedWindow = %d, want %d", win, second.ID)
	}
}

// =============================================================================
// Rendering helpers
// =============================================================================

func TestTruncateCountsDisplayColumns(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate(hello, 10) = %q, want unchanged", got)
	}
	if got := truncate("hello", 3); got != "hel" {
		t.Errorf("truncate(hello, 3) = %q, want hel", got)
	}
	if got := truncate("x", 0); got != "" {
		t.Errorf("truncate(x, 0) = %q, want empty", got)
	}

	// Wide runes occupy two columns each; the cut must respect display
	// width, not rune count.
	wide := "漢字漢字"
	got := truncate(wide, 5)
	if got != "漢字" {
		t.Errorf("truncate(%q, 5) = %q, want 漢字", wide, got)
	}
	if w := lipgloss.Width(got); w > 5 {
		t.Errorf("truncated width = %d, want <= 5", w)
	}
}

// =============================================================================
// Config reload
// =============================================================================

func TestConfigReloadAppliesOptions(t *testing.T) {
	a := newTestApp(t, 1)
	a.source.Open()
	a.reconcile()

	cfg := config.DefaultConfig()
	cfg.Layout.Gap = 4
	a.Update(ConfigReloadedMsg{Config: cfg})

	sc, _ := a.system.Screen(0)
	if got := sc.Options().Gap; got != 4 {
		t.Errorf("gap = %d after reload, want 4", got)
	}
}
