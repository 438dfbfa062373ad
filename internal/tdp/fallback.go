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
	"github.com/turbopb/turbopb/internal/xunsafe"
	"github.com/turbopb/turbopb/internal/zigzag"
)

// FallbackField describes one field for the generic fallback decoder, which
// uses it instead of a specialised ParseFunc. The layout compiler registers
// one for every field, so a field whose tag is too long for a fasttable
// slot, or that lost its slot to another field, is still decoded.
type FallbackField struct {
	Wire        WireType
	Kind        Kind
	Cardinality Cardinality
	Offset      uint16
	Hasbit      uint8
	OneofOffset uint16
	Submsg      *Layout
}

// genericFallback handles a field the fast table declined: it reads the
// full tag (the fast table only ever inspected its first two bytes),
// looks the field up by that tag, and either stores it generically or,
// for a tag absent from the layout, skips its value when
// Options.DiscardUnknown is set and fails with ErrorUnknownField when it
// is not.
func (d *Decoder) genericFallback() bool {
	rawTag, ok := d.parseVarint()
	if !ok {
		return false
	}

	number, wire := DecodeTag(rawTag)
	if number == 0 {
		return d.fail(ErrorFieldNumber)
	}

	f, known := d.table.Fallback[rawTag]
	if !known {
		if !d.opts.DiscardUnknown {
			return d.fail(ErrorUnknownField)
		}
		return d.skipValue(wire)
	}
	if f.Wire != wire {
		return d.skipValue(wire)
	}
	return d.storeFallback(f, uint32(number))
}

// skipValue discards a value of the given wire type without storing it,
// for fields the layout doesn't recognise.
func (d *Decoder) skipValue(wire WireType) bool {
	switch wire {
	case WireVarint:
		_, ok := d.parseVarint()
		return ok
	case WireFixed32:
		_, ok := d.fixed32()
		return ok
	case WireFixed64:
		_, ok := d.fixed64()
		return ok
	case WireBytes:
		n, ok := d.parseLengthPrefix()
		if !ok {
			return false
		}
		if boundsCheckStrict(d.ptr, d.limitPtr, n) {
			return d.fail(ErrorInvalidLimit)
		}
		d.ptr = d.ptr.Add(n)
		return true
	case WireGroup:
		return d.skipGroup()
	default:
		return d.fail(ErrorFieldNumber)
	}
}

// skipGroup discards a deprecated group field, including any groups
// nested inside it, until it finds the matching end-group marker.
func (d *Decoder) skipGroup() bool {
	for {
		if d.atLimit() {
			return d.fail(ErrorUnterminatedGroup)
		}
		rawTag, ok := d.parseVarint()
		if !ok {
			return false
		}
		_, wire := DecodeTag(rawTag)
		if wire == WireEndGroup {
			return true
		}
		if !d.skipValue(wire) {
			return false
		}
	}
}

// storeFallback stores a field the layout describes but the fast table
// has no specialised parser for, using the generic accessor helpers.
// Unlike the fast-path string family, fallback strings are always copied
// into the arena: alias mode is a fast-path-only optimisation.
func (d *Decoder) storeFallback(f *FallbackField, number uint32) bool {
	var dst xunsafe.Addr[byte]
	var hdr *RepeatedArray

	switch f.Cardinality {
	case Singular:
		d.hasbits |= 1 << f.Hasbit
		dst = d.msg.Add(int(f.Offset))
	case Oneof:
		*xunsafe.ByteAdd[uint32](d.msg.AssertValid(), int(f.OneofOffset)) = number
		dst = d.msg.Add(int(f.Offset))
	case RepeatedUnpacked:
		dst, hdr = d.repeatedDstAt(f.Offset, f.Kind.elemLog2())
	case RepeatedPacked:
		return d.storeFallbackPacked(f)
	}

	if !d.storeScalar(dst, f.Kind, f.Submsg) {
		return false
	}
	if hdr != nil {
		hdr.Commit(1)
	}
	return true
}

// storeFallbackPacked decodes a packed-repeated field's length-delimited
// run of scalars, the same way parsePackedVarintRun/parsePackedFixedRun do
// for fields that kept their fasttable slot: a field only loses that slot
// because of its number or the collision map, never because of whether it
// was declared packed, so this path must read the length prefix and loop
// its elements exactly like the fast path does instead of treating the
// prefix as a lone scalar.
func (d *Decoder) storeFallbackPacked(f *FallbackField) bool {
	n, ok := d.parseLengthPrefix()
	if !ok {
		return false
	}

	if width := f.Kind.FixedWidth(); width != 0 {
		if n%width != 0 {
			return d.fail(ErrorInvalidLimit)
		}
		saved, ok := d.pushLengthLimit(n)
		if !ok {
			return false
		}

		d.flushHasbits()
		hdr := d.repeatedArrayAt(f.Offset, f.Kind.elemLog2())
		count := n / width
		var dst xunsafe.Addr[byte]
		if count > 0 {
			hdr.ReserveAt(d.arena, int(hdr.Len)+count-1)
			dst = hdr.Data.Add(int(hdr.Len) * (1 << f.Kind.elemLog2()))
		}
		xunsafe.Copy(dst.AssertValid(), d.ptr.AssertValid(), n)
		d.ptr = d.ptr.Add(n)
		hdr.Commit(count)
		d.popLimit(saved)
		return true
	}

	saved, ok := d.pushLengthLimit(n)
	if !ok {
		return false
	}

	d.flushHasbits()
	hdr := d.repeatedArrayAt(f.Offset, f.Kind.elemLog2())
	count := 0
	for !d.atLimit() {
		raw, ok := d.parseVarint()
		if !ok {
			d.popLimit(saved)
			return false
		}
		storeVarintKind(hdr.ReserveAt(d.arena, int(hdr.Len)+count), f.Kind, raw)
		count++
	}
	hdr.Commit(count)
	if d.ptr != d.limitPtr {
		d.popLimit(saved)
		return d.fail(ErrorInvalidLimit)
	}
	d.popLimit(saved)
	return true
}

// storeScalar decodes one value of kind and writes it to dst.
func (d *Decoder) storeScalar(dst xunsafe.Addr[byte], kind Kind, submsg *Layout) bool {
	switch {
	case kind.IsVarint():
		raw, ok := d.parseVarint()
		if !ok {
			return false
		}
		storeVarintKind(dst, kind, raw)
		return true

	case kind.FixedWidth() == 4:
		raw, ok := d.fixed32()
		if !ok {
			return false
		}
		*xunsafe.ByteAdd[uint32](dst.AssertValid(), 0) = raw
		return true

	case kind.FixedWidth() == 8:
		raw, ok := d.fixed64()
		if !ok {
			return false
		}
		*xunsafe.ByteAdd[uint64](dst.AssertValid(), 0) = raw
		return true

	case kind == KindString || kind == KindBytes:
		view, ok := d.copyString()
		if !ok {
			return false
		}
		*xunsafe.ByteAdd[StringView](dst.AssertValid(), 0) = view
		return true

	case kind == KindMessage:
		return d.parseSubmessage(dst, submsg, CeilingUnbounded, false)
	}
	return d.fail(ErrorFieldNumber)
}

// storeVarintKind munges a raw varint per kind's munge rule
// and stores it at dst.
func storeVarintKind(dst xunsafe.Addr[byte], kind Kind, raw uint64) {
	switch kind {
	case KindBool:
		*dst.AssertValid() = boolByte(raw != 0)
	case KindInt32, KindUint32:
		*xunsafe.ByteAdd[uint32](dst.AssertValid(), 0) = uint32(raw)
	case KindInt64, KindUint64:
		*xunsafe.ByteAdd[uint64](dst.AssertValid(), 0) = raw
	case KindSint32:
		*xunsafe.ByteAdd[int32](dst.AssertValid(), 0) = zigzag.Decode[int32](raw)
	case KindSint64:
		*xunsafe.ByteAdd[int64](dst.AssertValid(), 0) = zigzag.Decode[int64](raw)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
