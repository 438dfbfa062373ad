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

// Package zigzag implements the munging step for zigzag-encoded varint
// fields (proto's sint32/sint64): unsigned-looking varints that decode to
// small-magnitude signed values.
package zigzag

import "unsafe"

// Signed is any fixed-width signed integer type zigzag decoding can target.
type Signed interface {
	~int32 | ~int64
}

// Decode undoes zigzag encoding: (n >> 1) ^ -(n & 1).
//
// raw is the varint as read off the wire, already truncated to the width of
// T; sign-extension must not have been applied, since that would corrupt
// the low bit this function inspects.
func Decode[T Signed](raw uint64) T {
	width := unsafe.Sizeof(T(0)) * 8
	if width < 64 {
		raw &= (1 << width) - 1
	}
	return T(raw>>1) ^ -(T(raw) & 1)
}
