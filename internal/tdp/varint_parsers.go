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

// VarintParser builds the specialised parser for one {cardinality, kind,
// tag-length} combination. kind must be one of the
// varint kinds (Bool, Int32/64, Uint32/64, Sint32/64); the layout
// compiler is responsible for only ever calling this with such a kind.
//
// The ~90-entry matrix the design calls for is generated here as a small
// family of closures over (kind, cardinality, tagBytes) rather than as
// named top-level functions per combination: Go's dispatch table holds
// func values already, so a closure costs nothing a named function
// wouldn't, and the layout compiler is the thing actually responsible for
// "generating" one parser per field at compile time.
func VarintParser(kind Kind, card Cardinality, tagBytes int) ParseFunc {
	switch card {
	case Singular, Oneof:
		return func(d *Decoder, data FieldData) bool {
			return d.parseVarintScalar(data, tagBytes, kind, card)
		}
	default:
		return func(d *Decoder, data FieldData) bool {
			return d.parseVarintRepeated(data, tagBytes, kind, card == RepeatedPacked)
		}
	}
}

// parseVarintScalar handles the Singular/Oneof cardinalities.
func (d *Decoder) parseVarintScalar(data FieldData, tagBytes int, kind Kind, card Cardinality) bool {
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
	raw, ok := d.parseVarint()
	if !ok {
		return false
	}
	storeVarintKind(dst, kind, raw)
	return true
}

// parseVarintRepeated handles both the unpacked and packed varint
// cardinalities, including the flip-and-retry check: a field declared
// packed may legally appear unpacked on the wire and vice versa (older
// encoders predate the packed convention), distinguished only by the
// wire-type bit the tag's low 3 bits carry.
func (d *Decoder) parseVarintRepeated(data FieldData, tagBytes int, kind Kind, declaredPacked bool) bool {
	mask := FieldData(tagMask(tagBytes))
	packed := declaredPacked

	switch {
	case data&mask == 0:
		// Matches the declared wire form.
	case (data^0x0002)&mask == 0:
		// The only difference is the wiretype bit between LEN and
		// VARINT: the encoder used the other convention.
		packed = !packed
	default:
		return false
	}

	matchTag := peekTag(d.ptr)
	d.ptr = d.ptr.Add(tagBytes)
	if packed {
		return d.parsePackedVarintRun(data, kind)
	}
	return d.parseUnpackedVarintRun(data, tagBytes, kind, matchTag)
}

// parseUnpackedVarintRun implements the fused loop for an
// unpacked-repeated varint field: each element carries its own tag.
func (d *Decoder) parseUnpackedVarintRun(data FieldData, tagBytes int, kind Kind, matchTag uint16) bool {
	hdr := d.repeatedArrayFor(data, kind.elemLog2())
	count := 0

	for {
		raw, ok := d.parseVarint()
		if !ok {
			return false
		}
		storeVarintKind(hdr.ReserveAt(d.arena, int(hdr.Len)+count), kind, raw)
		count++

		sig, _ := d.nextInRun(matchTag, tagBytes)
		if sig != SignalSameField {
			hdr.Commit(count)
			return true
		}
		d.ptr = d.ptr.Add(tagBytes)
	}
}

// parsePackedVarintRun implements the packed variant: a single
// length-delimited region of back-to-back varints, with no per-element
// tag.
func (d *Decoder) parsePackedVarintRun(data FieldData, kind Kind) bool {
	n, ok := d.parseLengthPrefix()
	if !ok {
		return false
	}
	saved, ok := d.pushLengthLimit(n)
	if !ok {
		return false
	}

	hdr := d.repeatedArrayFor(data, kind.elemLog2())
	count := 0
	for !d.atLimit() {
		raw, ok := d.parseVarint()
		if !ok {
			d.popLimit(saved)
			return false
		}
		storeVarintKind(hdr.ReserveAt(d.arena, int(hdr.Len)+count), kind, raw)
		count++
	}
	hdr.Commit(count)
	// atLimit is satisfied by ptr >= limitPtr; a varint whose last byte
	// straddled the declared length would overshoot rather than land on
	// it exactly, so that alone isn't proof the region was well-formed.
	if d.ptr != d.limitPtr {
		d.popLimit(saved)
		return d.fail(ErrorInvalidLimit)
	}
	d.popLimit(saved)
	return true
}

// repeatedArrayFor flushes hasbits and resolves the field's repeated
// array header, allocating it on first use, without reserving an element
// slot (the varint/fixed run loops reserve ahead of Len themselves via
// ReserveAt).
func (d *Decoder) repeatedArrayFor(data FieldData, elemLog2 uint8) *RepeatedArray {
	d.flushHasbits()
	return d.repeatedArrayAt(data.FieldOffset(), elemLog2)
}
