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

package tdp

import (
	"github.com/turbopb/turbopb/internal/arena"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// RepeatedArray is the header of a repeated field's backing store: a
// contiguous element buffer the field accessor grows by doubling.
//
// The original design packs the element-size log2 into spare low bits of
// Data itself (a tagged pointer), on the theory that the header is
// otherwise exactly two words. Go's GC requires every in-bounds pointer
// value to be untagged, so ElemLog2 is carried as an explicit field here
// instead; the header is three words rather than two, which costs nothing
// since it is arena-allocated, not inline in the message.
type RepeatedArray struct {
	Len, Cap uint32
	ElemLog2 uint8
	Data     xunsafe.Addr[byte]
}

// NewRepeatedArray allocates a fresh header with initial capacity n
// (rounded up to a power of two) for elements of size 1<<elemLog2.
func NewRepeatedArray(a *arena.Arena, elemLog2 uint8, n int) *RepeatedArray {
	h := arena.New[RepeatedArray](a)
	h.ElemLog2 = elemLog2
	h.grow(a, n)
	return h
}

func (h *RepeatedArray) elemSize() int { return 1 << h.ElemLog2 }

// grow ensures the backing buffer has room for at least n elements,
// doubling (or allocating the first block) as needed.
func (h *RepeatedArray) grow(a *arena.Arena, n int) {
	if uint32(n) <= h.Cap {
		return
	}
	newCap := max(8, h.Cap*2)
	for newCap < uint32(n) {
		newCap *= 2
	}
	size := h.elemSize()
	p := a.Realloc(h.Data.AssertValid(), int(h.Cap)*size, int(newCap)*size)
	h.Data = xunsafe.AddrOf(p)
	h.Cap = newCap
}

// Reserve grows the array, if needed, so that one more element can be
// written at index h.Len, returning the address to write it at.
func (h *RepeatedArray) Reserve(a *arena.Arena) xunsafe.Addr[byte] {
	return h.ReserveAt(a, int(h.Len))
}

// ReserveAt grows the array, if needed, so that idx is a valid element
// index, returning the address to write it at. Used by a fused repeated
// run, which writes ahead of h.Len and only calls Commit once the run
// ends (invariant iii: Len reflects only committed elements).
func (h *RepeatedArray) ReserveAt(a *arena.Arena, idx int) xunsafe.Addr[byte] {
	if uint32(idx) >= h.Cap {
		h.grow(a, idx+1)
	}
	return h.Data.Add(idx * h.elemSize())
}

// Commit records that n elements starting at the current Len have been
// written, advancing Len by n.
func (h *RepeatedArray) Commit(n int) { h.Len += uint32(n) }

// SpaceUntilFull returns how many more elements can be written before the
// backing buffer needs to grow again.
func (h *RepeatedArray) SpaceUntilFull() int { return int(h.Cap - h.Len) }
