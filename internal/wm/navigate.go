package wm

import "github.com/Gaurav-Gosain/bsptile/internal/cluster"

// Direction is one of the four directional navigation targets.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	}
	return "down"
}

// inDirection reports whether cand lies strictly in direction d of src.
// A candidate counts only when its near edge is at or beyond the
// source's far edge on the movement axis; overlap disqualifies it.
func inDirection(src, cand cluster.Rect, d Direction) bool {
	switch d {
	case Left:
		return cand.Right() <= src.X
	case Right:
		return cand.X >= src.Right()
	case Up:
		return cand.Bottom() <= src.Y
	}
	return cand.Y >= src.Bottom()
}

// score ranks a qualifying candidate: the edge distance along the
// movement axis plus a quarter-weighted center offset on the orthogonal
// axis, so near-but-misaligned cells lose to slightly-farther aligned
// ones.
func score(src, cand cluster.Rect, d Direction) float64 {
	var primary, ortho int
	switch d {
	case Left:
		primary = src.X - cand.Right()
		ortho = cand.CenterY() - src.CenterY()
	case Right:
		primary = cand.X - src.Right()
		ortho = cand.CenterY() - src.CenterY()
	case Up:
		primary = src.Y - cand.Bottom()
		ortho = cand.CenterX() - src.CenterX()
	default:
		primary = cand.Y - src.Bottom()
		ortho = cand.CenterX() - src.CenterX()
	}
	if ortho < 0 {
		ortho = -ortho
	}
	return float64(primary) + 0.25*float64(ortho)
}

// MoveSelection moves the selection to the best live leaf in direction
// d, considering every screen in the shared global frame so navigation
// crosses screen boundaries naturally. With no qualifying candidate the
// selection is unchanged and MoveSelection reports false. Ties keep the
// first candidate encountered in screen-then-index order.
func (s *System) MoveSelection(d Direction) bool {
	if !s.hasSel {
		return false
	}
	srcScreen := s.screens[s.sel.Screen]
	src, ok := srcScreen.GlobalRect(s.sel.Cell)
	if !ok {
		return false
	}

	best := Selection{}
	bestScore := 0.0
	found := false
	for i, sc := range s.screens {
		for leaf := range sc.Leaves() {
			if i == s.sel.Screen && leaf == s.sel.Cell {
				continue
			}
			r, _ := sc.GlobalRect(leaf)
			if !inDirection(src, r, d) {
				continue
			}
			cs := score(src, r, d)
			if !found || cs < bestScore {
				best = Selection{Screen: i, Cell: leaf}
				bestScore = cs
				found = true
			}
		}
	}
	if !found {
		return false
	}
	s.sel = best
	return true
}
