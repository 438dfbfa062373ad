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

// AllocMessage allocates and zeroes a new message record sized for layout,
// including its leading presence word.
func AllocMessage(a *arena.Arena, layout *Layout) xunsafe.Addr[byte] {
	p := a.Alloc(int(layout.Size))
	xunsafe.Clear(p, int(layout.Size))
	return xunsafe.AddrOf(p)
}

// presenceWord returns the message's leading 32-bit presence bitmap.
func presenceWord(msg xunsafe.Addr[byte]) *uint32 {
	return xunsafe.ByteAdd[uint32](msg.AssertValid(), 0)
}

// HasField reports whether bit is set in msg's presence word.
func HasField(msg xunsafe.Addr[byte], bit uint8) bool {
	return *presenceWord(msg)&(1<<bit) != 0
}

// setPresenceBitNow sets a presence bit directly in the message's word,
// bypassing the local hasbits accumulator. Sub-message parsers use this
// instead of singularDst because they immediately recurse, and the
// recursive call reuses d.hasbits for the sub-message's own fields.
func (d *Decoder) setPresenceBitNow(bit uint8) {
	*presenceWord(d.msg) |= 1 << bit
}
