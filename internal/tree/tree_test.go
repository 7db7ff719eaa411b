package tree

import "testing"

// buildSplit creates a root with two leaf children and returns the
// three indices.
func buildSplit(t *testing.T, tr *Tree[string]) (root, first, second int) {
	t.Helper()
	root = tr.Add("root", None)
	first = tr.Add("first", root)
	second = tr.Add("second", root)
	if !tr.SetChildren(root, first, second) {
		t.Fatal("SetChildren failed on fresh nodes")
	}
	return root, first, second
}

func TestAddAndWiring(t *testing.T) {
	tr := New[string](4)
	root, first, second := buildSplit(t, tr)

	if root != 0 {
		t.Errorf("Expected root at index 0, got %d", root)
	}
	if tr.Len() != 3 || tr.LiveLen() != 3 {
		t.Errorf("Expected 3 live nodes, got len=%d live=%d", tr.Len(), tr.LiveLen())
	}

	if p, ok := tr.Parent(first); !ok || p != root {
		t.Errorf("Parent(first) = %d,%v, want %d,true", p, ok, root)
	}
	if c, ok := tr.FirstChild(root); !ok || c != first {
		t.Errorf("FirstChild(root) = %d,%v, want %d,true", c, ok, first)
	}
	if c, ok := tr.SecondChild(root); !ok || c != second {
		t.Errorf("SecondChild(root) = %d,%v, want %d,true", c, ok, second)
	}
	if _, ok := tr.Parent(root); ok {
		t.Error("Root should have no parent")
	}

	if tr.IsLeaf(root) {
		t.Error("Root with children should not be a leaf")
	}
	if !tr.IsLeaf(first) || !tr.IsLeaf(second) {
		t.Error("Children without their own children should be leaves")
	}
}

func TestAccessorsNeverTrap(t *testing.T) {
	tr := New[string](0)

	// All accessors must tolerate arbitrary indices on an empty tree.
	for _, i := range []int{-5, None, 0, 7} {
		if tr.At(i) != nil {
			t.Errorf("At(%d) on empty tree should be nil", i)
		}
		if !tr.IsDead(i) {
			t.Errorf("IsDead(%d) on empty tree should be true", i)
		}
		if tr.IsLeaf(i) {
			t.Errorf("IsLeaf(%d) on empty tree should be false", i)
		}
		if _, ok := tr.Parent(i); ok {
			t.Errorf("Parent(%d) on empty tree should not be ok", i)
		}
		if _, ok := tr.Sibling(i); ok {
			t.Errorf("Sibling(%d) on empty tree should not be ok", i)
		}
		if tr.MarkDead(i) {
			t.Errorf("MarkDead(%d) on empty tree should be a no-op", i)
		}
		if tr.SwapChildren(i) {
			t.Errorf("SwapChildren(%d) on empty tree should be a no-op", i)
		}
	}
}

func TestSibling(t *testing.T) {
	tr := New[string](4)
	_, first, second := buildSplit(t, tr)

	if s, ok := tr.Sibling(first); !ok || s != second {
		t.Errorf("Sibling(first) = %d,%v, want %d,true", s, ok, second)
	}
	if s, ok := tr.Sibling(second); !ok || s != first {
		t.Errorf("Sibling(second) = %d,%v, want %d,true", s, ok, first)
	}
}

func TestSwapChildren(t *testing.T) {
	tr := New[string](4)
	root, first, second := buildSplit(t, tr)

	if !tr.SwapChildren(root) {
		t.Fatal("SwapChildren failed on a full split")
	}
	if c, _ := tr.FirstChild(root); c != second {
		t.Errorf("After swap FirstChild = %d, want %d", c, second)
	}
	if c, _ := tr.SecondChild(root); c != first {
		t.Errorf("After swap SecondChild = %d, want %d", c, first)
	}

	leaf := tr.Add("lone", None)
	if tr.SwapChildren(leaf) {
		t.Error("SwapChildren on a leaf should be a no-op")
	}
}

func TestReparent(t *testing.T) {
	tr := New[string](4)
	root, first, _ := buildSplit(t, tr)

	if !tr.Reparent(first, None) {
		t.Fatal("Reparent to None failed")
	}
	if _, ok := tr.Parent(first); ok {
		t.Error("Detached node should have no parent")
	}
	if !tr.Reparent(first, root) {
		t.Fatal("Reparent back to root failed")
	}
	if p, _ := tr.Parent(first); p != root {
		t.Errorf("Parent after reparent = %d, want %d", p, root)
	}
}

func TestMarkDeadExcludesFromTraversal(t *testing.T) {
	tr := New[string](4)
	_, first, second := buildSplit(t, tr)

	if !tr.MarkDead(first) {
		t.Fatal("MarkDead failed on a live node")
	}
	if tr.MarkDead(first) {
		t.Error("MarkDead twice should be a no-op the second time")
	}
	if tr.LiveLen() != 2 || tr.DeadLen() != 1 {
		t.Errorf("Expected 2 live / 1 dead, got %d / %d", tr.LiveLen(), tr.DeadLen())
	}
	if tr.At(first) != nil {
		t.Error("At on a dead node should be nil")
	}

	var seen []int
	for i := range tr.Indices() {
		seen = append(seen, i)
	}
	if len(seen) != 2 {
		t.Fatalf("Indices yielded %d nodes, want 2", len(seen))
	}
	for _, i := range seen {
		if i == first {
			t.Error("Indices yielded a dead node")
		}
	}

	for i := range tr.Leaves() {
		if i != second {
			t.Errorf("Leaves yielded %d, want only %d", i, second)
		}
	}
}

// =============================================================================
// Compaction
// =============================================================================

func TestCompactIdentityOnCleanTree(t *testing.T) {
	tr := New[string](4)
	buildSplit(t, tr)

	remap := tr.Compact()
	if len(remap) != 3 {
		t.Fatalf("Expected remap of length 3, got %d", len(remap))
	}
	for old, now := range remap {
		if old != now {
			t.Errorf("Clean compact moved node %d to %d", old, now)
		}
	}
	if tr.Len() != 3 {
		t.Errorf("Clean compact changed length to %d", tr.Len())
	}
}

func TestCompactRemapsLinks(t *testing.T) {
	tr := New[string](8)
	root, first, second := buildSplit(t, tr)

	// Split "first" further, then delete its subtree by promoting
	// nothing: simply tombstone first's children and first itself to
	// create holes before the surviving "second".
	fa := tr.Add("fa", first)
	fb := tr.Add("fb", first)
	tr.SetChildren(first, fa, fb)
	tr.MarkDead(fa)
	tr.MarkDead(fb)
	tr.MarkDead(first)
	tr.SetChildren(root, second, None)

	remap := tr.Compact()

	if remap[first] != Removed || remap[fa] != Removed || remap[fb] != Removed {
		t.Error("Tombstoned nodes should map to Removed")
	}
	newRoot, newSecond := remap[root], remap[second]
	if newRoot != 0 {
		t.Errorf("Root should stay at 0, got %d", newRoot)
	}
	if tr.Len() != 2 || tr.DeadLen() != 0 {
		t.Errorf("Expected 2 live nodes after compact, got len=%d dead=%d", tr.Len(), tr.DeadLen())
	}
	if c, ok := tr.FirstChild(newRoot); !ok || c != newSecond {
		t.Errorf("FirstChild(root) after compact = %d,%v, want %d,true", c, ok, newSecond)
	}
	if p, ok := tr.Parent(newSecond); !ok || p != newRoot {
		t.Errorf("Parent(second) after compact = %d,%v, want %d,true", p, ok, newRoot)
	}
	if d := tr.At(newSecond); d == nil || *d != "second" {
		t.Errorf("Payload lost in compact: %v", d)
	}
}

func TestCompactIdempotent(t *testing.T) {
	tr := New[string](4)
	_, first, _ := buildSplit(t, tr)
	tr.MarkDead(first)

	tr.Compact()
	lenAfterFirst := tr.Len()

	remap := tr.Compact()
	if tr.Len() != lenAfterFirst {
		t.Errorf("Second compact changed length from %d to %d", lenAfterFirst, tr.Len())
	}
	for old, now := range remap {
		if old != now {
			t.Errorf("Second compact moved node %d to %d", old, now)
		}
	}
}

func TestReset(t *testing.T) {
	tr := New[string](4)
	buildSplit(t, tr)

	tr.Reset()
	if tr.Len() != 0 || tr.LiveLen() != 0 || tr.DeadLen() != 0 {
		t.Errorf("Reset left len=%d live=%d dead=%d", tr.Len(), tr.LiveLen(), tr.DeadLen())
	}
	if tr.At(0) != nil {
		t.Error("At(0) after Reset should be nil")
	}
}
