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

package turbopb

import (
	"unsafe"

	"github.com/turbopb/turbopb/internal/arena"
	"github.com/turbopb/turbopb/internal/tdp"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// Decode parses data against layout and returns the root [Message].
//
// If opts enables aliasing (see [WithAllowAlias]), string and bytes
// fields in the result may point directly into a copy of data retained by
// the returned Message; the original data slice is never retained or
// mutated, so the caller is free to reuse or discard it immediately.
func Decode(data []byte, layout *Layout, opts ...DecodeOption) (*Message, error) {
	o := newOptions(opts)

	padded := conditionBuffer(data)
	src := xunsafe.AddrOf(unsafe.SliceData(padded))

	a := new(arena.Arena)
	a.KeepAlive(padded)

	root := tdp.AllocMessage(a, layout)

	d := tdp.NewDecoder(a, src, len(data), o)
	if err := d.Decode(root, layout); err != nil {
		return nil, err
	}

	return &Message{arena: a, addr: root, layout: layout, src: padded}, nil
}

// conditionBuffer returns a copy of data with [tdp.BoundsPad] bytes of
// safe-to-read zero padding past its logical end, so the decode core's
// primitive readers can load a fixed-size window unconditionally instead
// of bounds-checking every byte they touch.
//
// The design this is grounded on instead checks whether data's backing
// array already happens to have that much headroom before the next
// memory-page boundary, only copying when it doesn't — a platform-specific
// trick this implementation skips in favour of copying unconditionally:
// one predictable allocation and memmove per decode, instead of reasoning
// about a target's page size.
func conditionBuffer(data []byte) []byte {
	padded := make([]byte, len(data)+tdp.BoundsPad)
	copy(padded, data)
	return padded[:len(data)]
}
