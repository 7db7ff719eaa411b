package wm

import (
	"github.com/Gaurav-Gosain/bsptile/internal/cluster"
	"github.com/Gaurav-Gosain/bsptile/internal/tree"
)

// Reconcile diffs the trees against the host's authoritative window
// enumeration and applies the minimal edits to converge. live holds
// one identity list per screen, in screen order; fullscreen carries the
// per-screen fullscreen-covered flags from the same enumeration.
//
// Identities bound to a leaf but missing from their screen's list are
// deleted through the normal sibling-promotion path. Identities listed
// but absent from every tree are added by splitting: at the selection
// when redirect is negative, otherwise into the redirect screen. An
// empty target screen adopts the new identity as its lazily created
// root. Reconcile returns the identities it removed and added, both
// possibly empty, in the order they were processed.
func (s *System) Reconcile(live [][]cluster.WindowID, fullscreen []bool, redirect int) (removed, added []cluster.WindowID) {
	wanted := make(map[cluster.WindowID]bool)
	for _, ids := range live {
		for _, id := range ids {
			wanted[id] = true
		}
	}

	for i, sc := range s.screens {
		if i < len(fullscreen) {
			sc.SetFullscreen(fullscreen[i])
		}

		inList := make(map[cluster.WindowID]bool)
		if i < len(live) {
			for _, id := range live[i] {
				inList[id] = true
			}
		}

		// Snapshot first: deletions tombstone slots and would confuse
		// a live iteration.
		for _, win := range sc.Windows() {
			if inList[win] || wanted[win] {
				continue
			}
			leaf, ok := sc.FindWindow(win)
			if !ok {
				continue
			}
			selWas := s.hasSel && s.sel.Screen == i && s.sel.Cell == leaf
			next, ok := sc.Delete(leaf)
			if !ok {
				continue
			}
			removed = append(removed, win)
			if s.hasSel && s.sel.Screen == i && (selWas || !sc.IsLeaf(s.sel.Cell)) {
				if next == tree.None {
					s.hasSel = false
				} else {
					s.sel.Cell = next
				}
			}
		}
	}

	target, hasTarget := s.activeScreen()
	if redirect >= 0 && redirect < len(s.screens) {
		target, hasTarget = redirect, true
	}

	for i := range s.screens {
		if i >= len(live) {
			break
		}
		for _, id := range live[i] {
			if id == cluster.NoWindow || s.findWindow(id) {
				continue
			}
			if hasTarget && s.addWindow(target, id) {
				added = append(added, id)
			}
		}
	}

	if len(removed) > 0 || len(added) > 0 {
		s.logger.Debug("reconciled", "removed", len(removed), "added", len(added))
	}
	return removed, added
}

// findWindow reports whether any screen's tree binds id.
func (s *System) findWindow(id cluster.WindowID) bool {
	for _, sc := range s.screens {
		if _, ok := sc.FindWindow(id); ok {
			return true
		}
	}
	return false
}

// FindWindow returns the screen and leaf binding id.
func (s *System) FindWindow(id cluster.WindowID) (screen, cell int, ok bool) {
	for i, sc := range s.screens {
		if leaf, found := sc.FindWindow(id); found {
			return i, leaf, true
		}
	}
	return 0, 0, false
}
