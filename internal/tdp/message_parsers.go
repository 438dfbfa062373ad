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
	"github.com/turbopb/turbopb/internal/debug"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// Ceiling is a compile-time upper bound on a sub-message's size, used to
// pick between a fast carve-from-the-bump-cursor path and the general
// allocator. The named constants mirror the generated-parser naming
// scheme's ceiling suffixes; in this implementation both paths
// bottom out in the same zeroing allocation (see allocSubmessage's doc
// comment), so the distinction is kept for the layout compiler's
// bookkeeping rather than to select different code at runtime.
type Ceiling int

const (
	Ceiling64        Ceiling = 64
	Ceiling128       Ceiling = 128
	Ceiling192       Ceiling = 192
	Ceiling256       Ceiling = 256
	CeilingUnbounded Ceiling = 0
)

// allocSubmessage allocates a zeroed record for layout. The ceiling
// parameter exists to let a layout compiler constant-fold a
// "does this fit in the arena's current block" test per call site; this
// implementation's single bump allocator (internal/arena) already does
// that check internally; a hand-unrolled fast path here would just
// duplicate it without skipping any work Go doesn't already inline.
func allocSubmessage(d *Decoder, layout *Layout, _ Ceiling) xunsafe.Addr[byte] {
	return AllocMessage(d.arena, layout)
}

// parseSubmessage resolves (allocating if needed) the
// sub-message instance, pushes a length-delimited scope, and recurses the
// dispatch core into it.
func (d *Decoder) parseSubmessage(dst xunsafe.Addr[byte], layout *Layout, ceiling Ceiling, alwaysAlloc bool) bool {
	if d.depth == 0 {
		return d.fail(ErrorRecursionLimit)
	}

	slot := xunsafe.ByteAdd[xunsafe.Addr[byte]](dst.AssertValid(), 0)
	sub := *slot
	if sub.IsNil() || alwaysAlloc {
		sub = allocSubmessage(d, layout, ceiling)
		*slot = sub
	}
	return d.parseSubmessageInto(sub, layout)
}

// parseSubmessageInto reads a length prefix at the current cursor and
// recursively decodes layout's fields into the already-allocated record
// at sub. The parent's pending hasbits are flushed first, since the
// recursive run accumulates the sub-message's own bits in d.hasbits.
func (d *Decoder) parseSubmessageInto(sub xunsafe.Addr[byte], layout *Layout) bool {
	n, ok := d.readStringLen()
	if !ok {
		return false
	}

	saved, ok := d.pushLengthLimit(n)
	if !ok {
		return false
	}

	d.flushHasbits()
	savedMsg, savedTable, savedEndGroup := d.msg, d.table, d.endGroup
	d.msg, d.table, d.endGroup = sub, layout, 0
	d.depth--

	if debug.Enabled {
		debug.Log(nil, "enter-submessage", "depth=%d limit=%d", d.depth, n)
	}

	err := d.run()
	debug.Assert(d.depth >= 0, "decoder depth went negative")

	d.depth++
	d.msg, d.table = savedMsg, savedTable
	d.popLimit(saved)

	if err != nil {
		return false
	}
	if d.endGroup != 0 {
		return d.fail(ErrorUnterminatedGroup)
	}
	d.endGroup = savedEndGroup
	return true
}
