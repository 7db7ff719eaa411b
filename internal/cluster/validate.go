package cluster

import (
	"fmt"

	"github.com/Gaurav-Gosain/bsptile/internal/tree"
)

// Violation describes one invariant breach found by Validate.
type Violation struct {
	Node int
	Desc string
}

func (v Violation) String() string {
	return fmt.Sprintf("node %d: %s", v.Node, v.Desc)
}

// Validate runs a non-mutating consistency scan over the cluster and
// returns every invariant violation it finds. An empty result means
// the cluster is consistent. Validate is a diagnostic tool: mutating
// operations maintain these invariants themselves and never call it.
//
// Checked invariants: every live node is exactly a leaf (identity, no
// children) or a split (two children, no identity); child parent
// pointers match; the root has no parent; identities are unique among
// live leaves; split ratios stay inside the clamp band. Dead nodes are
// excluded throughout.
func (c *Cluster) Validate() []Violation {
	var out []Violation
	report := func(node int, format string, args ...any) {
		out = append(out, Violation{Node: node, Desc: fmt.Sprintf(format, args...)})
	}

	if c.nodes.Len() > 0 && c.nodes.LiveLen() > 0 {
		if c.nodes.IsDead(0) {
			report(0, "root slot is dead while live nodes remain")
		} else if _, hasParent := c.nodes.Parent(0); hasParent {
			report(0, "root has a parent")
		}
	}

	seen := make(map[WindowID]int)
	for i := range c.nodes.Indices() {
		cell := c.nodes.At(i)
		first, okF := c.nodes.FirstChild(i)
		second, okS := c.nodes.SecondChild(i)

		switch {
		case okF != okS:
			report(i, "split node has exactly one child")
		case okF && okS:
			if cell.Window != NoWindow {
				report(i, "split node carries window identity %d", cell.Window)
			}
			for _, child := range []int{first, second} {
				if c.nodes.IsDead(child) {
					report(i, "child %d is dead", child)
					continue
				}
				if p, ok := c.nodes.Parent(child); !ok || p != i {
					report(child, "parent pointer %d does not match parent %d", p, i)
				}
			}
			if cell.Ratio < c.opts.MinRatio || cell.Ratio > c.opts.MaxRatio {
				report(i, "split ratio %.3f outside [%.2f, %.2f]", cell.Ratio, c.opts.MinRatio, c.opts.MaxRatio)
			}
		default:
			if cell.Window == NoWindow {
				report(i, "leaf has no window identity")
				continue
			}
			if prev, dup := seen[cell.Window]; dup {
				report(i, "window identity %d already bound to leaf %d", cell.Window, prev)
			} else {
				seen[cell.Window] = i
			}
		}
	}

	if c.zen != tree.None && !c.nodes.IsLeaf(c.zen) {
		report(c.zen, "zen index does not reference a live leaf")
	}

	return out
}
