// Package wm coordinates multiple positioned BSP clusters under one
// global selection. It owns the split-orientation policy, routes
// operations at the selected leaf, navigates directionally across
// screens in a shared global coordinate frame, and reconciles the
// trees against an authoritative list of live window identities.
//
// Everything here is single-threaded by contract: the hosting
// application serializes calls, typically from one UI or polling loop.
package wm

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/tree"
)

// Selection addresses one live leaf: a screen position in the system's
// ordered screen list and a cell index inside that screen's tree.
type Selection struct {
	Screen int
	Cell   int
}

// Screen is one positioned cluster: a BSP tree bound to a physical
// display, placed in the shared virtual coordinate space by a global
// offset. Monitor holds the source display bounds used for hit tests.
type Screen struct {
	*cluster.Cluster
	GlobalX, GlobalY int
	Monitor          cluster.Rect
}

// GlobalRect translates a node's local rectangle into the shared
// global frame.
func (s *Screen) GlobalRect(node int) (cluster.Rect, bool) {
	r, ok := s.Rect(node)
	if !ok {
		return cluster.Rect{}, false
	}
	return r.Translate(s.GlobalX, s.GlobalY), true
}

// System is an ordered list of screens with one global selection and
// the active split-mode policy.
type System struct {
	screens []*Screen
	sel     Selection
	hasSel  bool
	policy  cluster.SplitPolicy
	opts    cluster.Options
	logger  *log.Logger
}

// New creates a system with no screens. opts applies to every screen
// added later; mode seeds the split policy.
func New(opts cluster.Options, mode cluster.SplitMode) *System {
	return &System{
		policy: cluster.SplitPolicy{Mode: mode},
		opts:   opts,
		logger: log.New(io.Discard),
	}
}

// SetLogger routes the system's debug logging. Passing nil silences it.
func (s *System) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.logger = l
}

// SetOptions replaces the geometry options on the system and all of
// its screens, recomputing their cached rectangles.
func (s *System) SetOptions(opts cluster.Options) {
	s.opts = opts
	for _, sc := range s.screens {
		sc.SetOptions(opts)
	}
}

// ScreenCount reports the number of screens.
func (s *System) ScreenCount() int { return len(s.screens) }

// Screen returns the screen at position i.
func (s *System) Screen(i int) (*Screen, bool) {
	if i < 0 || i >= len(s.screens) {
		return nil, false
	}
	return s.screens[i], true
}

// SplitMode returns the active split-orientation mode.
func (s *System) SplitMode() cluster.SplitMode { return s.policy.Mode }

// CycleSplitMode advances the split mode through zigzag, vertical,
// horizontal and back. Only subsequently created splits are affected.
func (s *System) CycleSplitMode() { s.policy.Cycle() }

// AddScreen appends a screen whose cluster covers bounds (placed at
// bounds.X/bounds.Y in the global frame) with monitor as its source
// display rectangle, then runs one reconciliation pass over initial so
// the tree matches the already-existing windows. Returns the new
// screen's position.
func (s *System) AddScreen(bounds, monitor cluster.Rect, initial []cluster.WindowID) int {
	sc := &Screen{
		Cluster: cluster.New(bounds.Width, bounds.Height, s.opts),
		GlobalX: bounds.X,
		GlobalY: bounds.Y,
		Monitor: monitor,
	}
	s.screens = append(s.screens, sc)
	idx := len(s.screens) - 1
	for _, win := range initial {
		s.addWindow(idx, win)
	}
	return idx
}

// Selection returns the current selection, if any.
func (s *System) Selection() (Selection, bool) {
	return s.sel, s.hasSel
}

// Select points the selection at the given live leaf. Anything else is
// rejected, keeping the selection invariant intact.
func (s *System) Select(screen, cell int) bool {
	sc, ok := s.Screen(screen)
	if !ok || !sc.IsLeaf(cell) {
		return false
	}
	s.sel = Selection{Screen: screen, Cell: cell}
	s.hasSel = true
	return true
}

// ClearSelection drops the selection.
func (s *System) ClearSelection() { s.hasSel = false }

// SelectedWindow resolves the selection to its window identity.
func (s *System) SelectedWindow() (cluster.WindowID, bool) {
	if !s.hasSel {
		return cluster.NoWindow, false
	}
	return s.screens[s.sel.Screen].Window(s.sel.Cell)
}

// activeScreen is the screen operations default to: the selection's
// screen, or the first one before any selection exists.
func (s *System) activeScreen() (int, bool) {
	if s.hasSel {
		return s.sel.Screen, true
	}
	if len(s.screens) > 0 {
		return 0, true
	}
	return 0, false
}

// SplitSelected splits the selected leaf, binding win to the new
// second child. On an empty active screen the root leaf is created
// lazily and adopts win. The selection keeps following its content:
// after a split it moves to the first child, which inherited the
// occupant.
func (s *System) SplitSelected(win cluster.WindowID) bool {
	idx, ok := s.activeScreen()
	if !ok {
		return false
	}
	return s.addWindow(idx, win)
}

// addWindow splits screen idx to make room for win. The target leaf is
// the selection when it sits on that screen, the lazily created root
// when the screen is empty, and the screen's first leaf otherwise.
func (s *System) addWindow(idx int, win cluster.WindowID) bool {
	sc := s.screens[idx]

	if sc.Empty() {
		if _, ok := sc.Split(tree.None, win, &s.policy); !ok {
			return false
		}
		if !s.hasSel {
			s.Select(idx, 0)
		}
		return true
	}

	target := tree.None
	selIsTarget := false
	if s.hasSel && s.sel.Screen == idx {
		target = s.sel.Cell
		selIsTarget = true
	} else {
		for leaf := range sc.Leaves() {
			target = leaf
			break
		}
	}

	if _, ok := sc.Split(target, win, &s.policy); !ok {
		return false
	}
	if selIsTarget {
		// The occupant moved into the first child; keep it selected.
		if f, ok := sc.FirstChild(target); ok {
			s.sel.Cell = f
		}
	}
	return true
}

// DeleteSelected deletes the selected leaf, promoting its sibling. The
// selection advances down the promoted slot's first-available-child
// chain, or clears when the screen emptied.
func (s *System) DeleteSelected() bool {
	if !s.hasSel {
		return false
	}
	sc := s.screens[s.sel.Screen]
	next, ok := sc.Delete(s.sel.Cell)
	if !ok {
		return false
	}
	if next == tree.None {
		s.hasSel = false
		return true
	}
	s.sel.Cell = next
	return true
}

// ToggleSelectedSplitDir flips the orientation of the selection's
// parent split.
func (s *System) ToggleSelectedSplitDir() bool {
	if !s.hasSel {
		return false
	}
	return s.screens[s.sel.Screen].ToggleSplitDir(s.sel.Cell)
}

// SetSelectedRatio sets the ratio of the selection's parent split.
func (s *System) SetSelectedRatio(ratio float64) bool {
	if !s.hasSel {
		return false
	}
	return s.screens[s.sel.Screen].SetRatio(s.sel.Cell, ratio)
}

// AdjustSelectedRatio nudges the ratio of the selection's parent split
// by delta, clamped to the configured band.
func (s *System) AdjustSelectedRatio(delta float64) bool {
	if !s.hasSel {
		return false
	}
	return s.screens[s.sel.Screen].AdjustRatio(s.sel.Cell, delta)
}

// ToggleZen flags the selection as its screen's zen cell, or clears
// the flag when the selection already is the zen cell. Tree topology
// is untouched either way.
func (s *System) ToggleZen() bool {
	if !s.hasSel {
		return false
	}
	sc := s.screens[s.sel.Screen]
	if zen, ok := sc.Zen(); ok && zen == s.sel.Cell {
		sc.ClearZen()
		return true
	}
	return sc.SetZen(s.sel.Cell)
}

// SwapCells exchanges the payloads (orientation, ratio, identity) of
// two live leaves, possibly on different screens, without touching
// either tree's topology. Cached geometry stays with the slots.
func (s *System) SwapCells(screenA, cellA, screenB, cellB int) bool {
	sa, okA := s.Screen(screenA)
	sb, okB := s.Screen(screenB)
	if !okA || !okB || !sa.IsLeaf(cellA) || !sb.IsLeaf(cellB) {
		return false
	}
	if screenA == screenB && cellA == cellB {
		return false
	}
	a, b := sa.Cell(cellA), sb.Cell(cellB)
	a.Dir, b.Dir = b.Dir, a.Dir
	a.Ratio, b.Ratio = b.Ratio, a.Ratio
	a.Window, b.Window = b.Window, a.Window
	return true
}

// MoveCell moves the source leaf's identity onto the target leaf,
// discarding the target's previous occupant, then deletes the orphaned
// source leaf through the normal promotion path. A selection on the
// source leaf follows its content to the target.
func (s *System) MoveCell(srcScreen, srcCell, dstScreen, dstCell int) bool {
	src, okS := s.Screen(srcScreen)
	dst, okD := s.Screen(dstScreen)
	if !okS || !okD || !src.IsLeaf(srcCell) || !dst.IsLeaf(dstCell) {
		return false
	}
	if srcScreen == dstScreen && srcCell == dstCell {
		return false
	}

	moved := src.Cell(srcCell).Window
	dst.Cell(dstCell).Window = moved

	selWasSource := s.hasSel && s.sel.Screen == srcScreen && s.sel.Cell == srcCell
	next, ok := src.Delete(srcCell)
	if !ok {
		return false
	}

	switch {
	case selWasSource:
		// Deleting a source that was the target's sibling promotes the
		// target's payload into the parent slot, so resolve the moved
		// identity instead of trusting the target index.
		if leaf, found := dst.FindWindow(moved); found {
			s.sel = Selection{Screen: dstScreen, Cell: leaf}
		}
	case s.hasSel && s.sel.Screen == srcScreen && !src.IsLeaf(s.sel.Cell):
		// The promotion tombstoned the selected slot; fall back to the
		// post-delete selection, or clear when the screen emptied.
		if next == tree.None {
			s.hasSel = false
		} else {
			s.sel.Cell = next
		}
	}
	return true
}

// ScreenAt returns the screen whose monitor bounds contain the global
// point (gx, gy).
func (s *System) ScreenAt(gx, gy int) (int, bool) {
	for i, sc := range s.screens {
		if sc.Monitor.Contains(gx, gy) {
			return i, true
		}
	}
	return 0, false
}

// LeafAt resolves the live leaf whose global rectangle contains the
// point (gx, gy), for hover and click hit tests.
func (s *System) LeafAt(gx, gy int) (screen, cell int, ok bool) {
	for i, sc := range s.screens {
		for leaf := range sc.Leaves() {
			r, _ := sc.GlobalRect(leaf)
			if r.Contains(gx, gy) {
				return i, leaf, true
			}
		}
	}
	return 0, 0, false
}

// CompactIfNeeded compacts every screen whose tombstone count exceeds
// threshold times its live-node count, remapping the selection through
// the remap tables. This is the system's only compaction trigger and
// it never runs implicitly. Reports whether any screen was compacted.
func (s *System) CompactIfNeeded(threshold float64) bool {
	if threshold <= 0 {
		threshold = 0.5
	}
	ran := false
	for i, sc := range s.screens {
		if sc.DeadLen() == 0 || float64(sc.DeadLen()) <= threshold*float64(sc.LiveLen()) {
			continue
		}
		remap := sc.Compact()
		ran = true
		if s.hasSel && s.sel.Screen == i {
			if s.sel.Cell < len(remap) && remap[s.sel.Cell] != tree.Removed {
				s.sel.Cell = remap[s.sel.Cell]
			} else {
				s.hasSel = false
			}
		}
		s.logger.Debug("compacted screen", "screen", i, "nodes", sc.Len())
	}
	return ran
}
