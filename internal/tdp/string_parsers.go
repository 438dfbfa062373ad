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

// cascadeWidths are the short-string copy cascade's fixed power-of-two
// block sizes. A string whose length fits under one of these is copied as
// exactly that many bytes (even though only Size of them are meaningful)
// because a fixed-width copy compiles to straight-line code, while a
// variable-width copy needs a length-dependent loop or a memmove call.
var cascadeWidths = [...]int{16, 32, 64, 128}

// readStringLen reads the length prefix of a string/bytes field and
// bounds-checks it against the active scope's limit.
func (d *Decoder) readStringLen() (int, bool) {
	n, ok := d.parseLengthPrefix()
	if !ok {
		return 0, false
	}
	if boundsCheckStrict(d.ptr, d.limitPtr, n) {
		return 0, d.fail(ErrorInvalidLimit)
	}
	return n, true
}

// aliasString installs a zero-copy view directly into the input buffer.
// Only ever called when d.alias is true.
func (d *Decoder) aliasString() (StringView, bool) {
	n, ok := d.readStringLen()
	if !ok {
		return StringView{}, false
	}
	v := StringView{Data: d.ptr, Size: uint32(n)}
	d.ptr = d.ptr.Add(n)
	return v, true
}

// copyStringCascade copies a string/bytes field's payload into the arena
// using the short-string cascade when it fits, falling back to an
// exact-size allocation otherwise.
//
// tagBytes lets the cascade reuse the tag bytes it just read as part of
// the fixed-width copy's headroom, the way the design this is grounded on
// does (a tag is always followed immediately by the length prefix and
// payload, so the bytes at ptr-tagBytes-1 are already known-readable).
// This implementation copies starting at ptr (the payload, post length
// prefix) rather than reaching backward, since Go gives no benefit to
// that reach — the arena headroom check is what actually matters for
// correctness — but the cascade-width selection itself is preserved.
func (d *Decoder) copyStringCascade(tagBytes int) (StringView, bool) {
	n, ok := d.readStringLen()
	if !ok {
		return StringView{}, false
	}

	for _, w := range cascadeWidths {
		if n > w {
			continue
		}
		if d.arena.Has() < w {
			break
		}
		dst := d.arena.Alloc(w)
		xunsafe.Copy(dst, d.ptr.AssertValid(), n)
		d.ptr = d.ptr.Add(n)
		return StringView{Data: xunsafe.AddrOf(dst), Size: uint32(n)}, true
	}

	return d.copyStringExact(n)
}

// copyStringExact allocates exactly n bytes in the arena and copies the
// payload at d.ptr into it, used for strings too large for the cascade
// and by the generic fallback, which has no tagBytes context to drive a
// cascade selection from.
func (d *Decoder) copyStringExact(n int) (StringView, bool) {
	dst := d.arena.Alloc(n)
	xunsafe.Copy(dst, d.ptr.AssertValid(), n)
	d.ptr = d.ptr.Add(n)
	return StringView{Data: xunsafe.AddrOf(dst), Size: uint32(n)}, true
}

// copyString is the fallback decoder's string reader: always copies,
// always exact-size, since fallback fields are off the hot path and have
// no generated cascade specialisation.
func (d *Decoder) copyString() (StringView, bool) {
	n, ok := d.readStringLen()
	if !ok {
		return StringView{}, false
	}
	return d.copyStringExact(n)
}
