// Copyright 2026 The Turbopb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package arena provides a bump allocator for the pointer-free memory the
// decoder needs: message records, repeated-field backing arrays, and
// arena-copied strings.
//
// # Design
//
// Arenas only ever return pointers to data with pointer-free shape (no Go
// pointers stored in arena memory, other than indirectly through the arena
// itself). This lets an arena keep all of its memory alive through a single
// GC root: each block the arena allocates is shaped like
//
//	struct {
//	  data [n]byte
//	  arena *Arena
//	}
//
// so that holding a pointer into data anywhere reachable by a GC root marks
// the trailing *Arena field live, which in turn keeps every other block of
// the same arena alive by way of [Arena.blocks].
package arena

import (
	"unsafe"

	"github.com/turbopb/turbopb/internal/xunsafe"
)

// Align is the alignment of every allocation handed out by an Arena.
const Align = int(unsafe.Sizeof(uintptr(0)))

// Arena is a bump allocator for pointer-free memory.
//
// The zero Arena is empty and ready to use.
type Arena struct {
	_ xunsafe.NoCopy

	// Next and End bound the current block's unused memory. They are
	// exported and read directly by the decoder's tests; message and
	// repeated-array allocation in internal/tdp go through Alloc and
	// Realloc.
	Next, End xunsafe.Addr[byte]
	cap       int // Capacity of the current block. Always a power of 2.

	blocks []*byte // One slot per size class (indexed by log2 of size).
	keep   []unsafe.Pointer
}

// New allocates a zeroed value of type T on the arena.
func New[T any](a *Arena) *T {
	var z T
	size := int(unsafe.Sizeof(z))
	return (*T)(unsafe.Pointer(a.Alloc(size)))
}

// KeepAlive ties the lifetime of v to the arena: v will not be collected
// until every pointer into the arena's memory is unreachable.
func (a *Arena) KeepAlive(v any) {
	a.keep = append(a.keep, unsafe.Pointer(&v))
}

// Alloc returns size bytes of zeroed, pointer-aligned memory.
func (a *Arena) Alloc(size int) *byte {
	size += Align - 1
	size &^= (Align - 1)

	if a.Next.Add(size) > a.End {
		a.Grow(size)
	}

	p := a.Next.AssertValid()
	a.Next = a.Next.Add(size)
	return p
}

// Realloc grows (or shrinks) an allocation of oldSize bytes at p.
//
// When p is the most recent allocation on this arena and the current block
// has room, it is resized in place. Otherwise a shrink returns p unchanged,
// and a grow allocates newSize fresh bytes and copies the old contents
// into them.
func (a *Arena) Realloc(p *byte, oldSize, newSize int) *byte {
	oldSize += Align - 1
	oldSize &^= (Align - 1)

	start := a.Next.Add(-oldSize)
	if xunsafe.AddrOf(p) == start {
		end := start.Add(newSize)
		if newSize <= oldSize || end <= a.End {
			a.Next = end
			return p
		}
	}

	if newSize <= oldSize {
		return p
	}

	q := a.Alloc(newSize)
	if oldSize > 0 {
		xunsafe.Copy(q, p, oldSize)
	}
	return q
}

// Grow allocates a fresh block of at least size bytes and makes it the
// current bump region.
func (a *Arena) Grow(size int) {
	p, n := a.allocChunk(max(size, a.cap*2))
	a.Next = xunsafe.AddrOf(p)
	a.End = a.Next.Add(n)
	a.cap = n
}

// Reset discards all memory allocated by the arena, making it available for
// reuse.
//
// Any pointer previously returned by this arena becomes invalid to
// dereference once Reset is called.
func (a *Arena) Reset() {
	a.Next, a.End, a.cap = 0, 0, 0
	a.keep = nil
	for log, block := range a.blocks {
		if block != nil {
			xunsafe.Clear(block, 1<<log)
		}
	}
}

// Has reports how many bytes remain in the current bump region. Used by the
// string copy cascade in internal/tdp to decide whether a fixed-width block
// fits in the current block. Sub-message allocation does not consult it.
func (a *Arena) Has() int {
	return int(a.End - a.Next)
}
