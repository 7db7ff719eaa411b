package cluster

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle in cell coordinates. Depending on
// context it is local to a cluster or translated into the shared
// global frame.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the first x coordinate past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first y coordinate past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// SplitDir is the orientation of one subdivision. Vertical stands for
// a vertical dividing line (children sit side by side); Horizontal
// stacks them.
type SplitDir uint8

const (
	// Vertical divides a rectangle into left and right halves.
	Vertical SplitDir = iota
	// Horizontal divides a rectangle into top and bottom halves.
	Horizontal
)

// Toggled returns the opposite orientation.
func (d SplitDir) Toggled() SplitDir {
	if d == Vertical {
		return Horizontal
	}
	return Vertical
}

// String returns the orientation name.
func (d SplitDir) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// SplitMode is the global policy governing the orientation assigned to
// new splits. It never re-lays-out existing nodes.
type SplitMode uint8

const (
	// ModeZigzag alternates the orientation once per completed split.
	ModeZigzag SplitMode = iota
	// ModeVertical gives every new split a vertical orientation.
	ModeVertical
	// ModeHorizontal gives every new split a horizontal orientation.
	ModeHorizontal
)

// String returns the mode name as it appears in configuration files.
func (m SplitMode) String() string {
	switch m {
	case ModeVertical:
		return "vertical"
	case ModeHorizontal:
		return "horizontal"
	default:
		return "zigzag"
	}
}

// ParseSplitMode parses a configuration value into a SplitMode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch s {
	case "zigzag", "":
		return ModeZigzag, nil
	case "vertical":
		return ModeVertical, nil
	case "horizontal":
		return ModeHorizontal, nil
	}
	return ModeZigzag, fmt.Errorf("unknown split mode %q", s)
}

// SplitPolicy is the single source of truth for new-split orientation.
// One policy is shared by all clusters of a system; under ModeZigzag it
// carries the alternation state that flips once per completed split.
type SplitPolicy struct {
	Mode SplitMode
	next SplitDir
}

// Orientation returns the orientation the next split will use.
func (p *SplitPolicy) Orientation() SplitDir {
	switch p.Mode {
	case ModeVertical:
		return Vertical
	case ModeHorizontal:
		return Horizontal
	default:
		return p.next
	}
}

// Advance records that a split completed. Under ModeZigzag the
// alternation state flips; fixed modes are unaffected.
func (p *SplitPolicy) Advance() {
	if p.Mode == ModeZigzag {
		p.next = p.next.Toggled()
	}
}

// Cycle advances the mode through zigzag, vertical, horizontal and
// back, affecting only subsequently created splits.
func (p *SplitPolicy) Cycle() {
	switch p.Mode {
	case ModeZigzag:
		p.Mode = ModeVertical
	case ModeVertical:
		p.Mode = ModeHorizontal
	default:
		p.Mode = ModeZigzag
	}
}

// divide splits r along dir at ratio, leaving gap cells between the two
// halves. The first half receives the ratio share of the remaining
// space, rounded to the nearest cell.
func divide(r Rect, dir SplitDir, ratio float64, gap int) (first, second Rect) {
	if dir == Vertical {
		usable := r.Width - gap
		if usable < 0 {
			usable = 0
		}
		w := int(math.Round(float64(usable) * ratio))
		first = Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height}
		second = Rect{X: r.X + w + gap, Y: r.Y, Width: usable - w, Height: r.Height}
		return first, second
	}
	usable := r.Height - gap
	if usable < 0 {
		usable = 0
	}
	h := int(math.Round(float64(usable) * ratio))
	first = Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h}
	second = Rect{X: r.X, Y: r.Y + h + gap, Width: r.Width, Height: usable - h}
	return first, second
}
