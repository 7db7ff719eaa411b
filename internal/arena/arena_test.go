package arena

import (
	"testing"
	"unsafe"
)

// TestAllocAlignment verifies that allocations honor their requested alignment.
func TestAllocAlignment(t *testing.T) {
	a := New(1024)

	for _, align := range []int{1, 2, 4, 8, 16} {
		// Skew the offset so alignment actually has work to do.
		_ = a.Alloc(1, 1)

		p := a.Alloc(8, align)
		if uintptr(p)%uintptr(align) != 0 {
			t.Errorf("Alloc(8, %d) returned pointer %#x, not %d-aligned", align, uintptr(p), align)
		}
	}
}

// TestAllocRegionsAreDisjoint verifies consecutive allocations from one
// block never overlap, including when alignment padding is inserted.
func TestAllocRegionsAreDisjoint(t *testing.T) {
	a := New(1024)

	prevEnd := uintptr(0)
	for i := 0; i < 8; i++ {
		p := a.Alloc(24, 16)
		addr := uintptr(p)
		if addr%16 != 0 {
			t.Fatalf("Allocation %d at %#x is not 16-aligned", i, addr)
		}
		if addr < prevEnd {
			t.Fatalf("Allocation %d at %#x overlaps previous region ending at %#x", i, addr, prevEnd)
		}
		prevEnd = addr + 24
	}
	if a.Blocks() != 1 {
		t.Errorf("Expected all regions in one block, got %d blocks", a.Blocks())
	}
}

// TestAllocGrowth verifies the arena grows by whole blocks and that
// oversized requests get a block of at least the requested size.
func TestAllocGrowth(t *testing.T) {
	a := New(64)

	if a.Blocks() != 1 {
		t.Fatalf("Expected 1 initial block, got %d", a.Blocks())
	}

	// Fill past the first block.
	_ = a.Alloc(48, 1)
	_ = a.Alloc(48, 1)
	if a.Blocks() != 2 {
		t.Errorf("Expected 2 blocks after overflow, got %d", a.Blocks())
	}

	// A request larger than the block size must still succeed.
	p := a.Alloc(1024, 8)
	if p == nil {
		t.Fatal("Oversized Alloc returned nil")
	}
	if a.Blocks() != 3 {
		t.Errorf("Expected 3 blocks after oversized alloc, got %d", a.Blocks())
	}
}

// TestReset verifies Reset keeps the first block, frees the rest, and
// rewinds the bump offset so the first block is reused.
func TestReset(t *testing.T) {
	a := New(64)

	first := a.Alloc(8, 8)
	_ = a.Alloc(128, 8) // force growth

	a.Reset()
	if a.Blocks() != 1 {
		t.Errorf("Expected 1 block after Reset, got %d", a.Blocks())
	}

	again := a.Alloc(8, 8)
	if uintptr(again) != uintptr(first) {
		t.Errorf("Expected Reset to reuse the first block: got %#x, want %#x", uintptr(again), uintptr(first))
	}
}

// TestMakeSlice verifies typed slice allocation returns cleared,
// correctly sized storage.
func TestMakeSlice(t *testing.T) {
	a := New(0)

	s := MakeSlice[int64](a, 16)
	if len(s) != 16 {
		t.Fatalf("Expected length 16, got %d", len(s))
	}
	if uintptr(unsafe.Pointer(unsafe.SliceData(s)))%unsafe.Alignof(int64(0)) != 0 {
		t.Error("Slice storage is not aligned for int64")
	}
	for i, v := range s {
		if v != 0 {
			t.Errorf("Element %d not cleared: %d", i, v)
		}
	}

	// Slices must be reusable after a reset cycle.
	for i := range s {
		s[i] = int64(i)
	}
	a.Reset()
	s2 := MakeSlice[int64](a, 16)
	for i, v := range s2 {
		if v != 0 {
			t.Errorf("Element %d not cleared after Reset: %d", i, v)
		}
	}

	if got := MakeSlice[int64](a, 0); got != nil {
		t.Errorf("MakeSlice with n=0 should return nil, got %v", got)
	}
}

// TestMake verifies single-value allocation is zeroed.
func TestMake(t *testing.T) {
	a := New(0)

	type payload struct {
		A int
		B float64
	}

	p := Make[payload](a)
	if p.A != 0 || p.B != 0 {
		t.Errorf("Make returned non-zero value: %+v", *p)
	}
}
