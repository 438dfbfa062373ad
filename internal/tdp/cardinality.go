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

import "unsafe"

// Cardinality selects which family of field accessor logic a parser uses.
type Cardinality uint8

const (
	Singular Cardinality = iota
	Oneof
	RepeatedUnpacked
	RepeatedPacked
)

// Kind identifies a field's value representation, for the generic fallback
// decoder (the fast-path matrix instead bakes this into which parser
// function occupies a slot).
type Kind uint8

const (
	KindBool Kind = iota
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindFixed32
	KindFixed64
	KindSfixed32
	KindSfixed64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindMessage
)

// IsVarint reports whether values of this kind are varint-encoded on the
// wire.
func (k Kind) IsVarint() bool {
	switch k {
	case KindBool, KindInt32, KindInt64, KindUint32, KindUint64, KindSint32, KindSint64:
		return true
	}
	return false
}

// IsZigzag reports whether values of this kind are zigzag-munged.
func (k Kind) IsZigzag() bool {
	return k == KindSint32 || k == KindSint64
}

// FixedWidth returns the on-wire width in bytes for fixed-width kinds, or 0
// for kinds with no fixed width.
func (k Kind) FixedWidth() int {
	switch k {
	case KindFixed32, KindSfixed32, KindFloat:
		return 4
	case KindFixed64, KindSfixed64, KindDouble:
		return 8
	}
	return 0
}

// ValBytes returns the in-memory storage width of a decoded value of this
// kind (as distinct from its wire width, which may differ for varints).
func (k Kind) ValBytes() int {
	switch k {
	case KindBool:
		return 1
	case KindInt32, KindUint32, KindSint32, KindFixed32, KindSfixed32, KindFloat:
		return 4
	case KindInt64, KindUint64, KindSint64, KindFixed64, KindSfixed64, KindDouble:
		return 8
	case KindString, KindBytes:
		var z StringView
		return int(unsafe.Sizeof(z))
	case KindMessage:
		return int(unsafe.Sizeof(uintptr(0)))
	}
	return 0
}

// elemLog2 returns the element-size log2 a repeated array of this kind's
// values should be created with.
func (k Kind) elemLog2() uint8 {
	size := k.ValBytes()
	var log2 uint8
	for 1<<log2 < size {
		log2++
	}
	return log2
}
