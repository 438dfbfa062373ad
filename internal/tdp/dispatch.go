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

import "github.com/turbopb/turbopb/internal/debug"

// run is the dispatch core: it repeatedly reads a tag, looks up the
// current message's dispatch table, and calls the specialised parser that
// claims it, until the active scope's limit is reached or an error is
// recorded.
//
// This implementation always decodes from a single, fully-buffered input
// (the common Unmarshal(data []byte) case), so unlike the design this is
// grounded on, the bounds fallback never refills a buffer out from under
// the cursor — it only decides which error best describes an overrun.
// Streaming decode (extending ptr..end mid-parse) is not implemented; see
// DESIGN.md.
func (d *Decoder) run() *ParseError {
	for {
		if d.atLimit() {
			overrun := int64(d.ptr) - int64(d.end)
			if overrun == d.limit {
				d.flushHasbits()
				return nil
			}
			return d.boundsFallback(overrun)
		}

		tag := peekTag(d.ptr)
		slot := &d.table.Fast[SlotIndex(byte(tag))]
		data := slot.Data ^ FieldData(tag)

		if debug.Enabled {
			debug.Log(nil, "dispatch", "tag=%#x slot=%d offset=%d", tag, SlotIndex(byte(tag)), int64(d.ptr)-int64(d.src))
		}

		if !slot.Parse(d, data) {
			if d.err != nil {
				return d.err
			}
			d.flushHasbits()
			if !d.genericFallback() {
				return d.err
			}
		}
	}
}

// boundsFallback reports the sentinel for an overrun that the top-of-loop
// check caught: a positive overrun means the cursor walked past the
// physical end of the buffer, while a negative-but-nonzero one means a
// field inside the current scope read past that scope's own limit without
// reading past the buffer itself.
func (d *Decoder) boundsFallback(overrun int64) *ParseError {
	if overrun > 0 {
		d.fail(ErrorBoundsExceeded)
	} else {
		d.fail(ErrorInvalidLimit)
	}
	return d.err
}
