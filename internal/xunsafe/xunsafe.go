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

// NoCopy causes `go vet` to flag a type as having been copied, by giving it
// a [sync.Locker]-shaped method set without actually importing sync.
type NoCopy [0]noCopyMutex

type noCopyMutex struct{}

func (*noCopyMutex) Lock()   {}
func (*noCopyMutex) Unlock() {}

// Cast reinterprets a pointer to one type as a pointer to another.
func Cast[To, From any](p *From) *To {
	return (*To)(unsafe.Pointer(p))
}

// Add adds n, scaled by sizeof(E), to p.
func Add[P ~*E, E any, I Int](p P, n I) P {
	var z E
	return P(unsafe.Add(unsafe.Pointer(p), uintptr(n)*unsafe.Sizeof(z)))
}

// Sub computes p1 - p2, scaled by sizeof(E).
func Sub[P ~*E, E any](p1, p2 P) int {
	var z E
	return int(uintptr(unsafe.Pointer(p1))-uintptr(unsafe.Pointer(p2))) / int(unsafe.Sizeof(z))
}

// Load reads the nth element of type E starting at p.
func Load[P ~*E, E any, I Int](p P, n I) E {
	return *Add(p, n)
}

// Store writes v to the nth element of type E starting at p.
func Store[P ~*E, E any, I Int](p P, n I, v E) {
	*Add(p, n) = v
}

// Copy copies n elements from src to dst.
func Copy[P ~*E, E any, I Int](dst, src P, n I) {
	copy(unsafe.Slice(dst, n), unsafe.Slice(src, n))
}

// Clear zeros n elements starting at p.
func Clear[P ~*E, E any, I Int](p P, n I) {
	clear(unsafe.Slice(p, n))
}

// Slice builds a []E of length n starting at p.
func Slice[P ~*E, E any, I Int](p P, n I) []E {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*E)(p), n)
}

// Bytes returns a byte slice over an arbitrary value, for poisoning or bulk
// copy purposes.
func Bytes[T any](v *T) []byte {
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(z))
}

// ByteAdd adds n raw bytes (no scaling) to p, reinterpreting the result as
// a *T.
//
// This is used on the dispatch hot path, which unconditionally loads two
// tag bytes at a time regardless of how many are actually part of the
// current field; the input conditioning in tdp (its BoundsPad padding)
// guarantees such a read never walks off the backing allocation.
//
//go:nocheckptr
func ByteAdd[T any, P ~*E, E any, I Int](p P, n I) *T {
	return (*T)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + uintptr(n)))
}

// ByteSub computes the unscaled byte distance between two pointers.
func ByteSub[P1 ~*E1, P2 ~*E2, E1, E2 any](p1 P1, p2 P2) int {
	return int(uintptr(unsafe.Pointer(p1)) - uintptr(unsafe.Pointer(p2)))
}

// ByteLoad reads a T at unscaled byte offset n from p.
func ByteLoad[T any, P ~*E, E any, I Int](p P, n I) T {
	return *ByteAdd[T](p, n)
}

// ByteStore writes a T at unscaled byte offset n from p.
func ByteStore[T any, P ~*E, E any, I Int](p P, n I, v T) {
	*ByteAdd[T](p, n) = v
}
