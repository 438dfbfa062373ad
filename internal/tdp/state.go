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

// boundsPad is the lax bounds check's overread tolerance. The input buffer
// presented to Decode is always conditioned (see conditionBuffer) so
// that at least this many bytes past the logical end are safe to read,
// letting the varint and tag readers load unconditionally instead of
// branching on how many bytes are actually left.
const boundsPad = 16

// BoundsPad is boundsPad, exported so Decode's input-conditioning step
// knows how much safe-to-read padding to leave past the logical input end.
const BoundsPad = boundsPad

// Decoder carries the mutable state threaded through every field parser
// call, collapsed into a single heap-allocated struct (rather than split
// across two halves pinned to argument registers) because Go gives no
// portable way to pin registers across calls.
type Decoder struct {
	ptr xunsafe.Addr[byte] // current read cursor
	end xunsafe.Addr[byte] // one past the last loaded byte

	// limit is the active nesting limit's offset from end (always <= 0
	// inside a bounded region); limitPtr is its absolute address. The
	// invariant limitPtr == end + min(0, limit) holds at every
	// observable point.
	limit    int64
	limitPtr xunsafe.Addr[byte]

	src   xunsafe.Addr[byte] // start of the conditioned input buffer
	alias bool                // whether strings may alias src

	arena *arena.Arena
	depth int32

	// endGroup is saved, zeroed and checked around every sub-message
	// (parseSubmessageInto fails with ErrorUnterminatedGroup if it is
	// non-zero afterwards). No parser in this package stores a tag in it:
	// groups are skipped whole by skipGroup, so it stays 0.
	endGroup uint64

	msg   xunsafe.Addr[byte] // current message record
	table *Layout            // current message's dispatch table

	hasbits uint32 // locally accumulated presence bits, not yet flushed

	opts Options
	err  *ParseError

	release func()
}

// fail records the first error encountered and returns false, the uniform
// "stop" signal every parser and helper in this package propagates.
func (d *Decoder) fail(code ErrorCode) bool {
	if d.err == nil {
		d.err = &ParseError{Code: code, Offset: d.ptr.Sub(d.src)}
	}
	return false
}

// flushHasbits folds the locally accumulated presence bits into the
// message's leading presence word and clears the local accumulator. Called
// before any repeated-field allocation, recursive sub-message entry, scope
// exit, and before falling through to the generic fallback.
func (d *Decoder) flushHasbits() {
	if d.hasbits == 0 {
		return
	}
	word := xunsafe.ByteAdd[uint32](d.msg.AssertValid(), 0)
	*word |= d.hasbits
	d.hasbits = 0
}

// atLimit reports whether the decode cursor has reached the active scope's
// limit, per the invariant overrun == limit.
func (d *Decoder) atLimit() bool {
	return int64(d.ptr) >= int64(d.limitPtr)
}

// boundsCheckLax reports whether reading n bytes at p would read past the
// end of the buffer, tolerating the conditioned buffer's padding region.
func boundsCheckLax(p, uend xunsafe.Addr[byte], n int) bool {
	res := p.Add(n)
	return res < p || int64(res) > int64(uend)+boundsPad
}

// boundsCheckStrict is boundsCheckLax with zero tolerance, used when
// validating against an active limit rather than the physical buffer end.
func boundsCheckStrict(p, uend xunsafe.Addr[byte], n int) bool {
	res := p.Add(n)
	return res < p || int64(res) > int64(uend)
}
