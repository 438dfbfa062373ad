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

// ParseFunc is a specialised field parser. It is handed the decoder state
// and the slot's field_data already XORed against the bytes on the wire;
// it returns true if it recognised and consumed the field. It returns false
// either with d.err set, on a decode failure, or with d.err nil when the
// tag did not match what it expects — in which case the caller falls
// through to the generic fallback.
type ParseFunc func(d *Decoder, data FieldData) bool

// Slot is one entry of a 32-wide dispatch table.
type Slot struct {
	Parse ParseFunc
	Data  FieldData
}

// Layout is a compiled per-message dispatch table, consumed by the
// decoder's core loop and produced by internal/tdp/compiler.
type Layout struct {
	// Size is the message record's size in bytes, including its leading
	// presence word.
	Size uint32

	// Fast is the 32-slot dispatch table, indexed by SlotIndex of the
	// tag's first byte. An unused slot holds a field_data with all tag
	// bits set, which can never equal a real wire tag's low bits after
	// XOR, so it always falls through to the generic fallback.
	Fast [32]Slot

	// Submsgs holds child layouts, indexed by a slot's SubmsgIndex.
	Submsgs []*Layout

	// Fallback maps a full (field_number<<3|wire_type) tag to the
	// out-of-band field description used by the generic decoder. The
	// layout compiler registers every field here, including those that
	// also hold a fast-table slot.
	Fallback map[uint64]*FallbackField

	// DiscardUnknown is not read by the decoder: what happens to a field
	// absent from Fallback is decided by Options.DiscardUnknown (see
	// genericFallback).
	DiscardUnknown bool
}

// emptySlot is installed in every fasttable slot a layout doesn't use. Its
// field_data has every tag bit set, which can never be zeroed by XOR
// against a real two-byte tag (the high bit of a single wire byte is
// never set in both positions by a legal tag), so dispatch always treats
// it as a mismatch and falls through to the generic fallback.
var emptySlot = Slot{
	Parse: func(d *Decoder, data FieldData) bool { return false },
	Data:  FieldData(0xFFFF),
}

// NewLayout returns a Layout with every fasttable slot set to the empty
// sentinel, ready for a compiler to fill in.
func NewLayout(size uint32) *Layout {
	l := &Layout{Size: size, Fallback: make(map[uint64]*FallbackField)}
	for i := range l.Fast {
		l.Fast[i] = emptySlot
	}
	return l
}
