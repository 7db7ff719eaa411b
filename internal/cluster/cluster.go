// Package cluster implements one BSP tree of window cells bound to a
// rectangular screen region. Leaves carry externally managed window
// identities; split nodes carry an orientation and a ratio. Geometry
// is cached on every node and recomputed eagerly after each mutation,
// so reads between mutations are cheap and idempotent.
package cluster

import (
	"iter"

	"github.com/Gaurav-Gosain/bsptile/internal/tree"
)

// WindowID identifies one piece of externally managed content bound to
// a leaf. Identities come from the host's window enumeration; zero is
// reserved as NoWindow.
type WindowID uint64

// NoWindow marks the absence of a window identity (split nodes).
const NoWindow WindowID = 0

// Cell is the payload of one tree node. For split nodes Dir and Ratio
// describe the subdivision; for leaves Window holds the bound identity.
// Rect is the node's cached geometry in local cluster coordinates.
type Cell struct {
	Dir    SplitDir
	Ratio  float64
	Rect   Rect
	Window WindowID
}

// Options tune cluster geometry.
type Options struct {
	// Gap is the spacing in cells left between the two halves of a
	// split.
	Gap int
	// DefaultRatio is the ratio assigned to new splits.
	DefaultRatio float64
	// MinRatio and MaxRatio clamp every ratio mutation to a safety
	// band so neither child degenerates to zero area.
	MinRatio, MaxRatio float64
}

// DefaultOptions returns gapless halving with the standard clamp band.
func DefaultOptions() Options {
	return Options{
		Gap:          0,
		DefaultRatio: 0.5,
		MinRatio:     0.1,
		MaxRatio:     0.9,
	}
}

func (o Options) clampRatio(r float64) float64 {
	if r < o.MinRatio {
		return o.MinRatio
	}
	if r > o.MaxRatio {
		return o.MaxRatio
	}
	return r
}

// Cluster is one BSP tree bound to a local window rectangle. A cluster
// starts empty; the first split lazily creates a root leaf spanning
// the full rectangle.
type Cluster struct {
	nodes         *tree.Tree[Cell]
	width, height int
	zen           int // leaf flagged for zen display, tree.None when unset
	fullscreen    bool
	opts          Options
}

// New creates an empty cluster covering a width x height rectangle.
func New(width, height int, opts Options) *Cluster {
	return &Cluster{
		nodes:  tree.New[Cell](8),
		width:  width,
		height: height,
		zen:    tree.None,
		opts:   opts,
	}
}

// Empty reports whether the cluster holds no live nodes.
func (c *Cluster) Empty() bool { return c.nodes.LiveLen() == 0 }

// Len reports the physical node count, tombstones included. Geometry
// output slices are indexed up to this length.
func (c *Cluster) Len() int { return c.nodes.Len() }

// LiveLen reports the number of live nodes.
func (c *Cluster) LiveLen() int { return c.nodes.LiveLen() }

// DeadLen reports the number of tombstoned nodes awaiting compaction.
func (c *Cluster) DeadLen() int { return c.nodes.DeadLen() }

// Width returns the width of the cluster's window rectangle.
func (c *Cluster) Width() int { return c.width }

// Height returns the height of the cluster's window rectangle.
func (c *Cluster) Height() int { return c.height }

// Options returns the geometry options the cluster was built with.
func (c *Cluster) Options() Options { return c.opts }

// SetOptions replaces the geometry options and recomputes all cached
// rectangles so gap changes take effect immediately.
func (c *Cluster) SetOptions(opts Options) {
	c.opts = opts
	if !c.Empty() {
		c.RecomputeRects(0)
	}
}

// IsLeaf reports whether i is a live leaf.
func (c *Cluster) IsLeaf(i int) bool { return c.nodes.IsLeaf(i) }

// Cell returns a pointer to node i's payload, or nil if i is not live.
func (c *Cluster) Cell(i int) *Cell { return c.nodes.At(i) }

// Window returns the identity bound to leaf i.
func (c *Cluster) Window(i int) (WindowID, bool) {
	if !c.nodes.IsLeaf(i) {
		return NoWindow, false
	}
	return c.nodes.At(i).Window, true
}

// FindWindow returns the leaf index bound to win.
func (c *Cluster) FindWindow(win WindowID) (int, bool) {
	if win == NoWindow {
		return tree.None, false
	}
	for i := range c.nodes.Leaves() {
		if c.nodes.At(i).Window == win {
			return i, true
		}
	}
	return tree.None, false
}

// FirstChild returns the first child of split node i.
func (c *Cluster) FirstChild(i int) (int, bool) { return c.nodes.FirstChild(i) }

// SecondChild returns the second child of split node i.
func (c *Cluster) SecondChild(i int) (int, bool) { return c.nodes.SecondChild(i) }

// Parent returns the parent of node i.
func (c *Cluster) Parent(i int) (int, bool) { return c.nodes.Parent(i) }

// Leaves iterates over live leaf indices in ascending order.
func (c *Cluster) Leaves() iter.Seq[int] {
	return c.nodes.Leaves()
}

// Windows returns the identities of all live leaves in index order.
func (c *Cluster) Windows() []WindowID {
	out := make([]WindowID, 0, c.nodes.LiveLen())
	for i := range c.nodes.Leaves() {
		out = append(out, c.nodes.At(i).Window)
	}
	return out
}

// Fullscreen reports whether an external app covers the cluster,
// suppressing tiling display.
func (c *Cluster) Fullscreen() bool { return c.fullscreen }

// SetFullscreen records the cluster's fullscreen-covered state.
func (c *Cluster) SetFullscreen(v bool) { c.fullscreen = v }

// Zen returns the index of the zen-flagged leaf, if any.
func (c *Cluster) Zen() (int, bool) {
	if c.zen == tree.None || !c.nodes.IsLeaf(c.zen) {
		return tree.None, false
	}
	return c.zen, true
}

// SetZen flags leaf i for zen display. Tree topology is unchanged.
func (c *Cluster) SetZen(i int) bool {
	if !c.nodes.IsLeaf(i) {
		return false
	}
	c.zen = i
	return true
}

// ClearZen removes the zen flag.
func (c *Cluster) ClearZen() { c.zen = tree.None }

// ZenRect returns the enlarged display rectangle for the zen leaf: a
// centered region covering fraction of the cluster in each dimension.
func (c *Cluster) ZenRect(fraction float64) (Rect, bool) {
	if _, ok := c.Zen(); !ok {
		return Rect{}, false
	}
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}
	w := int(float64(c.width) * fraction)
	h := int(float64(c.height) * fraction)
	return Rect{
		X:      (c.width - w) / 2,
		Y:      (c.height - h) / 2,
		Width:  w,
		Height: h,
	}, true
}

// Split turns the selected leaf into a split node with two children.
// The first child inherits the identity already occupying the leaf;
// the second child receives win, the identity being added, which is
// also the return value. On an empty cluster with no selection
// (selected == tree.None) the root leaf is lazily created spanning the
// full window rectangle and adopts win directly. A missing selection
// on a non-empty cluster, or a selection that is not a live leaf, is a
// no-op. A completed split advances the policy's alternation state.
func (c *Cluster) Split(selected int, win WindowID, policy *SplitPolicy) (WindowID, bool) {
	if win == NoWindow {
		return NoWindow, false
	}
	if c.Empty() {
		if selected != tree.None {
			return NoWindow, false
		}
		c.nodes.Reset()
		c.nodes.Add(Cell{
			Ratio:  c.opts.DefaultRatio,
			Rect:   Rect{Width: c.width, Height: c.height},
			Window: win,
		}, tree.None)
		return win, true
	}
	if selected == tree.None || !c.nodes.IsLeaf(selected) {
		return NoWindow, false
	}

	dir := policy.Orientation()
	cell := c.nodes.At(selected)
	occupant := cell.Window

	cell.Dir = dir
	cell.Ratio = c.opts.DefaultRatio
	cell.Window = NoWindow

	first := c.nodes.Add(Cell{Ratio: c.opts.DefaultRatio, Window: occupant}, selected)
	second := c.nodes.Add(Cell{Ratio: c.opts.DefaultRatio, Window: win}, selected)
	c.nodes.SetChildren(selected, first, second)
	c.RecomputeRects(selected)

	// The zen flag follows the occupant into the first child.
	if c.zen == selected {
		c.zen = first
	}

	policy.Advance()
	return win, true
}

// Delete removes the selected leaf. The surviving sibling's payload,
// children included, is promoted into the parent's slot, adopting the
// parent's rectangle and parent pointer; both original child slots are
// tombstoned. The returned index is the new selection: the first leaf
// reached from the promoted slot along the first-available-child
// chain, or tree.None when the cluster became empty. Not-a-live-leaf
// selections are no-ops.
func (c *Cluster) Delete(selected int) (int, bool) {
	if !c.nodes.IsLeaf(selected) {
		return tree.None, false
	}

	parent, hasParent := c.nodes.Parent(selected)
	if !hasParent {
		// Sole remaining leaf: the cluster empties entirely.
		c.nodes.Reset()
		c.zen = tree.None
		return tree.None, true
	}

	sibling, ok := c.nodes.Sibling(selected)
	if !ok {
		return tree.None, false
	}

	sibFirst, _ := c.nodes.FirstChild(sibling)
	sibSecond, _ := c.nodes.SecondChild(sibling)

	parentCell := c.nodes.At(parent)
	parentRect := parentCell.Rect
	*parentCell = *c.nodes.At(sibling)
	parentCell.Rect = parentRect

	// Adopt the sibling's children (tree.None for a leaf sibling) and
	// repoint their parent indices at the promoted slot.
	c.nodes.SetChildren(parent, sibFirst, sibSecond)

	c.nodes.MarkDead(selected)
	c.nodes.MarkDead(sibling)

	c.RecomputeRects(parent)

	switch c.zen {
	case selected:
		c.zen = tree.None
	case sibling:
		c.zen = parent
	}

	sel := parent
	for !c.nodes.IsLeaf(sel) {
		if f, ok := c.nodes.FirstChild(sel); ok {
			sel = f
		} else if s, ok := c.nodes.SecondChild(sel); ok {
			sel = s
		} else {
			break
		}
	}
	return sel, true
}

// RecomputeRects recomputes the cached rectangles of every node below
// from, whose own rectangle must already be correct. It must run after
// any mutation that changes tree shape, ratios, or a root rectangle.
// An explicit work stack keeps deep trees off the call stack.
func (c *Cluster) RecomputeRects(from int) {
	if c.nodes.IsDead(from) {
		return
	}
	stack := []int{from}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		first, okF := c.nodes.FirstChild(i)
		second, okS := c.nodes.SecondChild(i)
		if !okF || !okS {
			continue
		}
		cell := c.nodes.At(i)
		a, b := divide(cell.Rect, cell.Dir, cell.Ratio, c.opts.Gap)
		c.nodes.At(first).Rect = a
		c.nodes.At(second).Rect = b
		stack = append(stack, first, second)
	}
}

// Resize rebinds the cluster to a new window rectangle and recomputes
// all geometry. The tree structure is preserved.
func (c *Cluster) Resize(width, height int) {
	c.width = width
	c.height = height
	if c.Empty() {
		return
	}
	c.nodes.At(0).Rect = Rect{Width: width, Height: height}
	c.RecomputeRects(0)
}

// Rect returns the cached rectangle of node i.
func (c *Cluster) Rect(i int) (Rect, bool) {
	cell := c.nodes.At(i)
	if cell == nil {
		return Rect{}, false
	}
	return cell.Rect, true
}

// Rects returns one rectangle per physical node index, in local
// coordinates. Entries for split and dead nodes are zero rectangles
// and must be skipped by consumers.
func (c *Cluster) Rects() []Rect {
	out := make([]Rect, c.nodes.Len())
	for i := range c.nodes.Leaves() {
		out[i] = c.nodes.At(i).Rect
	}
	return out
}

// ToggleSplitDir flips the orientation of the selected leaf's parent
// split and recomputes the affected subtree. A selection without a
// parent (the sole root leaf) is a no-op.
func (c *Cluster) ToggleSplitDir(selected int) bool {
	parent, ok := c.parentSplit(selected)
	if !ok {
		return false
	}
	cell := c.nodes.At(parent)
	cell.Dir = cell.Dir.Toggled()
	c.RecomputeRects(parent)
	return true
}

// SetRatio sets the split ratio of the selected leaf's parent split,
// clamped to the configured band, and recomputes the affected subtree.
func (c *Cluster) SetRatio(selected int, ratio float64) bool {
	parent, ok := c.parentSplit(selected)
	if !ok {
		return false
	}
	cell := c.nodes.At(parent)
	cell.Ratio = c.opts.clampRatio(ratio)
	c.RecomputeRects(parent)
	return true
}

// AdjustRatio adds delta to the split ratio of the selected leaf's
// parent split, clamped to the configured band.
func (c *Cluster) AdjustRatio(selected int, delta float64) bool {
	parent, ok := c.parentSplit(selected)
	if !ok {
		return false
	}
	return c.SetRatio(selected, c.nodes.At(parent).Ratio+delta)
}

func (c *Cluster) parentSplit(selected int) (int, bool) {
	if !c.nodes.IsLeaf(selected) {
		return tree.None, false
	}
	return c.nodes.Parent(selected)
}

// Compact physically removes tombstoned nodes and returns the old
// index to new index remap (tree.Removed for dropped entries). The zen
// index is carried through the remap; callers holding other cached
// indices, the selection above all, must remap them the same way.
func (c *Cluster) Compact() []int {
	remap := c.nodes.Compact()
	if c.zen != tree.None {
		if c.zen < len(remap) && remap[c.zen] != tree.Removed {
			c.zen = remap[c.zen]
		} else {
			c.zen = tree.None
		}
	}
	return remap
}
