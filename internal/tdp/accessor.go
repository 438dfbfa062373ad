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

import "github.com/turbopb/turbopb/internal/xunsafe"

// singularDst computes the destination for a singular field, marking its
// presence bit in the local hasbits accumulator (flushed later).
func (d *Decoder) singularDst(data FieldData) xunsafe.Addr[byte] {
	d.hasbits |= 1 << data.Hasbit()
	return d.msg.Add(int(data.FieldOffset()))
}

// oneofDst computes the destination for a oneof field, writing the field
// number into the oneof's case word before returning the value address.
func (d *Decoder) oneofDst(data FieldData) xunsafe.Addr[byte] {
	caseWord := xunsafe.ByteAdd[uint32](d.msg.AssertValid(), int(data.OneofOffset()))
	*caseWord = data.OneofNumber()
	return d.msg.Add(int(data.FieldOffset()))
}

// repeatedDst flushes hasbits, locates (allocating on first use) the
// field's repeated array, and returns the address of its next free
// element slot along with the header itself, which the caller's run loop
// needs to commit the final length.
func (d *Decoder) repeatedDst(data FieldData, elemLog2 uint8) (xunsafe.Addr[byte], *RepeatedArray) {
	return d.repeatedDstAt(data.FieldOffset(), elemLog2)
}

// repeatedDstAt is repeatedDst parameterised directly on the field's
// offset, for callers (the generic fallback) that don't have a packed
// FieldData to read it from.
func (d *Decoder) repeatedDstAt(offset uint16, elemLog2 uint8) (xunsafe.Addr[byte], *RepeatedArray) {
	d.flushHasbits()
	hdr := d.repeatedArrayAt(offset, elemLog2)
	return hdr.Reserve(d.arena), hdr
}

// repeatedArrayAt resolves (allocating on first use) the repeated array
// header at offset, without reserving an element slot or flushing
// hasbits — callers that need either do so themselves.
func (d *Decoder) repeatedArrayAt(offset uint16, elemLog2 uint8) *RepeatedArray {
	hdrSlot := xunsafe.ByteAdd[*RepeatedArray](d.msg.AssertValid(), int(offset))
	hdr := *hdrSlot
	if hdr == nil {
		hdr = NewRepeatedArray(d.arena, elemLog2, 8)
		*hdrSlot = hdr
	}
	return hdr
}
