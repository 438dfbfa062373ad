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

import "google.golang.org/protobuf/encoding/protowire"

// WireType mirrors protowire.Type but keeps this package's public surface
// free of a direct dependency on protoreflect's type system.
type WireType = protowire.Type

const (
	WireVarint WireType = protowire.VarintType
	WireFixed32 WireType = protowire.Fixed32Type
	WireFixed64 WireType = protowire.Fixed64Type
	WireBytes  WireType = protowire.BytesType
	WireGroup  WireType = protowire.StartGroupType
	WireEndGroup WireType = protowire.EndGroupType
)

// EncodeTag returns the full varint-encoded (field_number<<3 | wire_type)
// tag for the given field. The layout compiler calls it for every field and
// gives a fasttable slot only to tags of 1 or 2 bytes; longer tags are
// reachable through the fallback map alone.
func EncodeTag(number protowire.Number, wire WireType) []byte {
	return protowire.AppendTag(nil, number, wire)
}

// SlotIndex computes the 32-slot fasttable index from a tag's first byte:
// five bits starting right after the wire-type bits. For a single tag
// byte this yields the low 4 bits of the field number (since the
// continuation bit, bit 7, is clear); for the first byte of a two-byte
// tag, the continuation bit is set, which routes every multi-byte tag
// into slots 16..31 regardless of its field number. Single-byte and
// multi-byte tags therefore never share a slot; the layout compiler gives
// each slot to at most one field.
func SlotIndex(tagByte0 byte) uint8 {
	return (tagByte0 >> 3) & 0x1F
}

// DecodeTag decodes a wire tag into its field number and wire type. Used by
// the layout compiler and the generic fallback, never on the fast path.
func DecodeTag(raw uint64) (protowire.Number, WireType) {
	return protowire.DecodeTag(raw)
}
