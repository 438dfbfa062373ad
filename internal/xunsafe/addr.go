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

// Package xunsafe provides a more convenient interface for performing
// unsafe pointer arithmetic than Go's built-in unsafe package.
//
// The decode state in internal/tdp is built on top of the [Addr] type here
// instead of raw pointers so that it can be compared, subtracted, and
// offset the way the wire format's length fields are: as plain integers,
// with dereferencing deferred to the point of use.
package xunsafe

import "unsafe"

// Int is any integer type usable as an offset.
type Int interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Addr is a typed raw address: a pointer that does not keep its referent
// alive by itself, and that can be offset and compared like an integer.
//
// Addr values must be rooted at some GC-visible pointer (typically a slice
// or a field on a struct kept alive elsewhere) for the duration they are
// used; the decode state is careful to keep such a root around in its
// owning [arena.Arena] or input slice.
type Addr[T any] uintptr

// AddrOf returns the address of p.
func AddrOf[P ~*E, E any](p P) Addr[E] {
	return Addr[E](uintptr(unsafe.Pointer(p)))
}

// AssertValid reinterprets this address as a pointer.
//
//go:nosplit
func (a Addr[T]) AssertValid() *T {
	return (*T)(unsafe.Pointer(uintptr(a)))
}

// IsNil returns whether this address is the zero address.
func (a Addr[T]) IsNil() bool { return a == 0 }

// Add offsets this address by n elements of T.
func (a Addr[T]) Add(n int) Addr[T] {
	var z T
	return a + Addr[T](uintptr(n)*unsafe.Sizeof(z))
}

// Sub returns the number of elements of T between b and a (a - b).
func (a Addr[T]) Sub(b Addr[T]) int {
	var z T
	return int(a-b) / int(unsafe.Sizeof(z))
}
