// Package arena implements a monotonic bump allocator over growable
// fixed-size blocks. Allocations are O(1) pointer bumps, individual
// frees are no-ops, and memory is reclaimed only by Reset. It backs
// per-frame buffers that are rebuilt from scratch on every pass, where
// the allocate-everything-then-reset pattern avoids churning the GC.
package arena

import "unsafe"

// DefaultBlockSize is the size of each block when none is specified.
const DefaultBlockSize = 64 * 1024

// Arena is a monotonic allocator. The zero value is not usable; create
// one with New. An Arena must not be shared between goroutines without
// external synchronization.
type Arena struct {
	blocks    [][]byte
	current   int // block currently being bumped
	offset    int // bump offset into the current block
	blockSize int
}

// New creates an arena with the given block size. Sizes <= 0 fall back
// to DefaultBlockSize.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Arena{
		blocks:    [][]byte{make([]byte, blockSize)},
		blockSize: blockSize,
	}
}

// Alloc returns a pointer to size bytes aligned to align, which must be
// a power of two. The region comes from the current block when it fits;
// otherwise the arena grows by one block sized to at least the request.
// The returned memory is not guaranteed to be zeroed after a Reset.
func (a *Arena) Alloc(size, align int) unsafe.Pointer {
	if size <= 0 {
		size = 1
	}
	if align <= 0 {
		align = 1
	}

	block := a.blocks[a.current]
	off := a.offset + alignPad(block, a.offset, align)
	if off+size > len(block) {
		a.grow(size + align)
		block = a.blocks[a.current]
		off = alignPad(block, 0, align)
	}

	a.offset = off + size
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(block)), off)
}

// alignPad returns the padding that makes offset off into block aligned
// to align, a power of two. The address is used for arithmetic only;
// the caller derives the result pointer from the block itself.
func alignPad(block []byte, off, align int) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(block))) + uintptr(off)
	return int(-addr & uintptr(align-1))
}

// grow appends a fresh block large enough for a pending allocation of
// need bytes and makes it current.
func (a *Arena) grow(need int) {
	size := a.blockSize
	if need > size {
		size = need
	}
	a.blocks = append(a.blocks, make([]byte, size))
	a.current = len(a.blocks) - 1
	a.offset = 0
}

// Reset rewinds the arena: the first block is kept for reuse, all
// overflow blocks are released, and the bump offset returns to zero.
// Pointers handed out before the call become dangling and must not be
// used.
func (a *Arena) Reset() {
	a.blocks = a.blocks[:1]
	a.current = 0
	a.offset = 0
}

// Blocks reports how many blocks the arena currently holds.
func (a *Arena) Blocks() int {
	return len(a.blocks)
}

// Make allocates a zeroed value of type T from the arena. T must not
// contain pointers: arena memory is untyped, so the garbage collector
// will not see pointers stored in it and may free what they reference.
func Make[T any](a *Arena) *T {
	var zero T
	p := (*T)(a.Alloc(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))))
	*p = zero
	return p
}

// MakeSlice allocates a slice of n values of type T from the arena.
// The elements are cleared before the slice is returned. The same
// pointer-free constraint as Make applies to T.
func MakeSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	p := (*T)(a.Alloc(n*int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))))
	s := unsafe.Slice(p, n)
	clear(s)
	return s
}
