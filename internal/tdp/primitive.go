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

// maxVarintLen is the longest a 64-bit varint can legally be on the wire.
const maxVarintLen = 10

// maxLenPrefixLen is the longest a length prefix is allowed to be: lengths
// are capped at 2GiB (31 bits), not the 4GiB a bare 32-bit varint would
// allow, so a 5-byte prefix's top nibble must not exceed 7.
const maxLenPrefixLen = 5

// parseVarint reads a 64-bit varint starting at d.ptr, advancing it past
// the bytes consumed. It fails with ErrorMalformedVarint if the varint
// runs past 10 bytes or its final byte has bits set beyond bit 0.
//
// The original design biases each continuation byte's contribution by -1
// so that a run of trailing 0x01 terminator bytes costs no extra
// arithmetic; that trick only pays off with hand-scheduled instruction
// sequences this package doesn't attempt, so this reads the conventional
// way — same decoded result, just not branch-free.
func (d *Decoder) parseVarint() (uint64, bool) {
	if boundsCheckLax(d.ptr, d.end, maxVarintLen) {
		return 0, d.fail(ErrorTruncated)
	}

	p := d.ptr
	var result uint64
	for i := 0; i < maxVarintLen; i++ {
		b := *p.AssertValid()
		if i == maxVarintLen-1 && b > 1 {
			return 0, d.fail(ErrorMalformedVarint)
		}
		result |= uint64(b&0x7f) << uint(7*i)
		p = p.Add(1)
		if b < 0x80 {
			d.ptr = p
			return result, true
		}
	}
	return 0, d.fail(ErrorMalformedVarint)
}

// parseLengthPrefix reads a length prefix: a varint capped to 31 bits (2
// GiB), since lengths wider than that are refused outright rather than
// accepted and later rejected for exceeding a limit.
func (d *Decoder) parseLengthPrefix() (int, bool) {
	if boundsCheckLax(d.ptr, d.end, maxLenPrefixLen) {
		return 0, d.fail(ErrorTruncated)
	}

	p := d.ptr
	var result uint32
	for i := 0; i < maxLenPrefixLen; i++ {
		b := *p.AssertValid()
		if i == maxLenPrefixLen-1 && b > 7 {
			return 0, d.fail(ErrorTooBig)
		}
		result |= uint32(b&0x7f) << uint(7*i)
		p = p.Add(1)
		if b < 0x80 {
			d.ptr = p
			return int(result), true
		}
	}
	return 0, d.fail(ErrorMalformedVarint)
}

// fixed32 reads a little-endian 4-byte value and advances d.ptr.
func (d *Decoder) fixed32() (uint32, bool) {
	if boundsCheckLax(d.ptr, d.end, 4) {
		return 0, d.fail(ErrorTruncated)
	}
	v := xunsafe.ByteLoad[uint32](d.ptr.AssertValid(), 0)
	d.ptr = d.ptr.Add(4)
	return v, true
}

// fixed64 reads a little-endian 8-byte value and advances d.ptr.
func (d *Decoder) fixed64() (uint64, bool) {
	if boundsCheckLax(d.ptr, d.end, 8) {
		return 0, d.fail(ErrorTruncated)
	}
	v := xunsafe.ByteLoad[uint64](d.ptr.AssertValid(), 0)
	d.ptr = d.ptr.Add(8)
	return v, true
}

// peekTag loads the two bytes at p as a little-endian u16 without
// advancing the cursor, for the dispatch core's tag comparison.
func peekTag(p xunsafe.Addr[byte]) uint16 {
	return xunsafe.ByteLoad[uint16](p.AssertValid(), 0)
}
