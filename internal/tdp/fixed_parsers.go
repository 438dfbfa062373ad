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

// FixedParser builds the specialised parser for one {cardinality, width,
// tag-length} combination: identical shape to the
// varint matrix, but with a verbatim load/store instead of a varint
// decode. width must be 4 or 8.
func FixedParser(width int, card Cardinality, tagBytes int) ParseFunc {
	switch card {
	case Singular, Oneof:
		return func(d *Decoder, data FieldData) bool {
			return d.parseFixedScalar(data, tagBytes, width, card)
		}
	default:
		return func(d *Decoder, data FieldData) bool {
			return d.parseFixedRepeated(data, tagBytes, width, card == RepeatedPacked)
		}
	}
}

func (d *Decoder) parseFixedScalar(data FieldData, tagBytes, width int, card Cardinality) bool {
	if data&FieldData(tagMask(tagBytes)) != 0 {
		return false
	}

	var dst xunsafe.Addr[byte]
	if card == Singular {
		dst = d.singularDst(data)
	} else {
		dst = d.oneofDst(data)
	}

	d.ptr = d.ptr.Add(tagBytes)
	return storeFixedAt(d, dst, width)
}

func storeFixedAt(d *Decoder, dst xunsafe.Addr[byte], width int) bool {
	if width == 4 {
		v, ok := d.fixed32()
		if !ok {
			return false
		}
		*xunsafe.ByteAdd[uint32](dst.AssertValid(), 0) = v
		return true
	}
	v, ok := d.fixed64()
	if !ok {
		return false
	}
	*xunsafe.ByteAdd[uint64](dst.AssertValid(), 0) = v
	return true
}

func (d *Decoder) parseFixedRepeated(data FieldData, tagBytes, width int, declaredPacked bool) bool {
	mask := FieldData(tagMask(tagBytes))
	packed := declaredPacked

	switch {
	case data&mask == 0:
	case (data^0x0002)&mask == 0:
		packed = !packed
	default:
		return false
	}

	matchTag := peekTag(d.ptr)
	d.ptr = d.ptr.Add(tagBytes)
	if packed {
		return d.parsePackedFixedRun(data, width)
	}
	return d.parseUnpackedFixedRun(data, tagBytes, width, matchTag)
}

func (d *Decoder) parseUnpackedFixedRun(data FieldData, tagBytes, width int, matchTag uint16) bool {
	elemLog2 := uint8(2)
	if width == 8 {
		elemLog2 = 3
	}
	hdr := d.repeatedArrayFor(data, elemLog2)
	count := 0

	for {
		dst := hdr.ReserveAt(d.arena, int(hdr.Len)+count)
		if !storeFixedAt(d, dst, width) {
			return false
		}
		count++

		sig, _ := d.nextInRun(matchTag, tagBytes)
		if sig != SignalSameField {
			hdr.Commit(count)
			return true
		}
		d.ptr = d.ptr.Add(tagBytes)
	}
}

// parsePackedFixedRun validates the packed region's size is a whole
// multiple of width and bulk-copies it in one shot, rather than looping
// element by element the way the varint packed parser must (fixed-width
// elements need no per-element decode step).
func (d *Decoder) parsePackedFixedRun(data FieldData, width int) bool {
	n, ok := d.parseLengthPrefix()
	if !ok {
		return false
	}
	if n%width != 0 {
		return d.fail(ErrorInvalidLimit)
	}
	saved, ok := d.pushLengthLimit(n)
	if !ok {
		return false
	}

	count := n / width
	elemLog2 := uint8(2)
	if width == 8 {
		elemLog2 = 3
	}
	hdr := d.repeatedArrayFor(data, elemLog2)
	// Reserve the whole run's worth of capacity before taking the
	// destination address: growing mid-copy would invalidate it.
	var dst xunsafe.Addr[byte]
	if count > 0 {
		dst = hdr.ReserveAt(d.arena, int(hdr.Len)+count-1)
		dst = hdr.Data.Add(int(hdr.Len) * (1 << elemLog2))
	}
	xunsafe.Copy(dst.AssertValid(), d.ptr.AssertValid(), n)
	d.ptr = d.ptr.Add(n)
	hdr.Commit(count)

	d.popLimit(saved)
	return true
}
