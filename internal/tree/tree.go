// Package tree implements an index-addressed binary tree over a single
// growable node store. Parent/child relations are integer indices, not
// pointers, so cached references survive unrelated mutations and the
// whole structure maps onto flat storage. Deleted nodes are tombstoned
// in place; Compact physically drops them and returns a remap table so
// holders of cached indices can fix them up.
package tree

import "iter"

// None marks the absence of a node index. Accessors return it together
// with ok=false when a relation does not exist.
const None = -1

// Removed marks an index that no longer exists in a Compact remap table.
const Removed = -1

type node[T any] struct {
	data   T
	parent int
	first  int
	second int
	dead   bool
}

// Tree is a binary tree of T payloads addressed by integer index.
// Index 0 is the root whenever the tree is non-empty. The zero value
// is an empty, usable tree.
type Tree[T any] struct {
	nodes []node[T]
	dead  int
}

// New creates an empty tree with room for capacity nodes.
func New[T any](capacity int) *Tree[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Tree[T]{nodes: make([]node[T], 0, capacity)}
}

// Len reports the physical node count, tombstones included.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// LiveLen reports the number of live nodes.
func (t *Tree[T]) LiveLen() int {
	return len(t.nodes) - t.dead
}

// DeadLen reports the number of tombstoned nodes awaiting compaction.
func (t *Tree[T]) DeadLen() int {
	return t.dead
}

// InRange reports whether i addresses a physical slot, live or dead.
func (t *Tree[T]) InRange(i int) bool {
	return i >= 0 && i < len(t.nodes)
}

func (t *Tree[T]) live(i int) bool {
	return t.InRange(i) && !t.nodes[i].dead
}

// IsDead reports whether i is tombstoned. Out-of-range indices count
// as dead so callers can treat any unusable index uniformly.
func (t *Tree[T]) IsDead(i int) bool {
	return !t.live(i)
}

// IsLeaf reports whether i is a live node with no children.
func (t *Tree[T]) IsLeaf(i int) bool {
	return t.live(i) && t.nodes[i].first == None && t.nodes[i].second == None
}

// At returns a pointer to the payload of node i, or nil if i is not a
// live node. The pointer is invalidated by Add (reallocation) and by
// Compact.
func (t *Tree[T]) At(i int) *T {
	if !t.live(i) {
		return nil
	}
	return &t.nodes[i].data
}

// Add appends a node holding data and returns its index. The node
// records parent (None for a root-level node) but the parent's child
// slots are left alone; wire them with SetChildren.
func (t *Tree[T]) Add(data T, parent int) int {
	if !t.live(parent) {
		parent = None
	}
	t.nodes = append(t.nodes, node[T]{
		data:   data,
		parent: parent,
		first:  None,
		second: None,
	})
	return len(t.nodes) - 1
}

// Parent returns the parent index of i.
func (t *Tree[T]) Parent(i int) (int, bool) {
	if !t.live(i) || t.nodes[i].parent == None {
		return None, false
	}
	return t.nodes[i].parent, true
}

// FirstChild returns the first-child index of i.
func (t *Tree[T]) FirstChild(i int) (int, bool) {
	if !t.live(i) || t.nodes[i].first == None {
		return None, false
	}
	return t.nodes[i].first, true
}

// SecondChild returns the second-child index of i.
func (t *Tree[T]) SecondChild(i int) (int, bool) {
	if !t.live(i) || t.nodes[i].second == None {
		return None, false
	}
	return t.nodes[i].second, true
}

// Sibling returns the other child of i's parent.
func (t *Tree[T]) Sibling(i int) (int, bool) {
	p, ok := t.Parent(i)
	if !ok {
		return None, false
	}
	if t.nodes[p].first == i && t.nodes[p].second != None {
		return t.nodes[p].second, true
	}
	if t.nodes[p].second == i && t.nodes[p].first != None {
		return t.nodes[p].first, true
	}
	return None, false
}

// SetChildren wires parent's child slots to first and second and points
// both children's parent indices back at parent. Either child may be
// None to clear a slot. Reports whether the rewiring happened.
func (t *Tree[T]) SetChildren(parent, first, second int) bool {
	if !t.live(parent) {
		return false
	}
	if first != None && !t.live(first) {
		return false
	}
	if second != None && !t.live(second) {
		return false
	}
	t.nodes[parent].first = first
	t.nodes[parent].second = second
	if first != None {
		t.nodes[first].parent = parent
	}
	if second != None {
		t.nodes[second].parent = parent
	}
	return true
}

// SwapChildren exchanges parent's two child slots. Reports whether a
// swap happened; a node with fewer than two children is left alone.
func (t *Tree[T]) SwapChildren(parent int) bool {
	if !t.live(parent) {
		return false
	}
	n := &t.nodes[parent]
	if n.first == None || n.second == None {
		return false
	}
	n.first, n.second = n.second, n.first
	return true
}

// Reparent points child's parent index at parent, which may be None to
// detach it. The old and new parents' child slots are not touched.
func (t *Tree[T]) Reparent(child, parent int) bool {
	if !t.live(child) {
		return false
	}
	if parent != None && !t.live(parent) {
		return false
	}
	t.nodes[child].parent = parent
	return true
}

// MarkDead tombstones node i. The slot remains physically present and
// excluded from traversal until Compact runs.
func (t *Tree[T]) MarkDead(i int) bool {
	if !t.live(i) {
		return false
	}
	t.nodes[i].dead = true
	t.dead++
	return true
}

// Reset empties the tree, retaining the underlying storage.
func (t *Tree[T]) Reset() {
	t.nodes = t.nodes[:0]
	t.dead = 0
}

// Compact physically removes tombstoned nodes, renumbering survivors
// while preserving their relative order, and returns a remap table
// from old index to new index (Removed for dropped nodes). Parent and
// child links of survivors are rewritten through the remap. Callers
// holding cached indices must remap or discard them.
func (t *Tree[T]) Compact() []int {
	remap := make([]int, len(t.nodes))
	next := 0
	for i := range t.nodes {
		if t.nodes[i].dead {
			remap[i] = Removed
			continue
		}
		remap[i] = next
		next++
	}

	mapIdx := func(i int) int {
		if i == None || remap[i] == Removed {
			return None
		}
		return remap[i]
	}

	for i := range t.nodes {
		if t.nodes[i].dead {
			continue
		}
		n := t.nodes[i]
		n.parent = mapIdx(n.parent)
		n.first = mapIdx(n.first)
		n.second = mapIdx(n.second)
		t.nodes[remap[i]] = n
	}
	t.nodes = t.nodes[:next]
	t.dead = 0
	return remap
}

// Indices iterates over the live node indices in ascending order.
func (t *Tree[T]) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range t.nodes {
			if t.nodes[i].dead {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Leaves iterates over the live leaf indices in ascending order.
func (t *Tree[T]) Leaves() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range t.nodes {
			if t.nodes[i].dead || t.nodes[i].first != None || t.nodes[i].second != None {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
