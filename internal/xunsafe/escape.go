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

package xunsafe

import "unsafe"

var (
	alwaysFalse bool
	sink        unsafe.Pointer //nolint:unused
)

// Escape forces p to be considered heap-escaping by the compiler's escape
// analysis, even though this branch is never taken.
func Escape[P ~*E, E any](p P) P {
	if alwaysFalse {
		sink = unsafe.Pointer(p)
	}
	return p
}

// NoEscape hides a pointer from escape analysis, so that holding onto it
// briefly (e.g. to prefetch a cache line) does not force a heap allocation.
func NoEscape[P ~*E, E any](p P) P {
	return P(AddrOf(p).AssertValid()) //nolint:staticcheck
}

// Ping touches the first byte at p, hinting to the processor that the
// memory around p should be pulled into cache before it's needed in
// earnest.
func Ping[P ~*E, E any](p P) {
	_ = ByteLoad[byte](NoEscape(p), 0)
}
