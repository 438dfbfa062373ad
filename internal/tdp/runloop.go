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

// runSignal is what the repeated-run loop helper tells its caller after
// each element, letting a specialised parser fuse a run of N identical
// fields into one dispatch.
type runSignal uint8

const (
	// SignalAtLimit means the active scope ended; the caller should
	// commit the array's length and return to the dispatch core.
	SignalAtLimit runSignal = iota
	// SignalSameField means the next tag on the wire matches the one
	// being fused; the caller should write another element without
	// re-dispatching.
	SignalSameField
	// SignalOtherField means a different field follows; the caller
	// should commit and let the dispatch core re-enter on the fresh tag.
	SignalOtherField
)

func tagMask(tagBytes int) uint16 {
	if tagBytes == 1 {
		return 0xFF
	}
	return 0xFFFF
}

// nextInRun decides whether a repeated-field parser's fused loop should
// continue. savedTag holds the tag bytes (masked to tagBytes) the run is
// fusing on.
func (d *Decoder) nextInRun(savedTag uint16, tagBytes int) (runSignal, uint16) {
	if d.atLimit() {
		return SignalAtLimit, 0
	}

	// The fused loop's whole point is to keep re-reading from the same
	// cursor without re-dispatching; hint that the next element's bytes
	// are worth pulling into cache now, before the tag comparison below.
	xunsafe.Ping(d.ptr.AssertValid())

	mask := tagMask(tagBytes)
	raw := peekTag(d.ptr)
	if raw&mask == savedTag&mask {
		return SignalSameField, raw
	}
	return SignalOtherField, raw
}
