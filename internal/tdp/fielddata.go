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

// FieldData is the per-slot payload carried alongside a dispatch-table
// entry's parser function. Its bit layout is a fixed contract shared by the
// layout compiler (which packs it) and the specialised parsers (which
// unpack it); nothing here is negotiable at runtime.
//
//	bits 0..15   expected tag bytes (little-endian), for XOR mismatch checks
//	bits 16..23  sub-message layout index, into table.Submsgs
//	bits 24..31  presence-bit index (singular) or field number (oneof)
//	bits 32..47  oneof-case offset inside the message
//	bits 48..63  field offset inside the message
type FieldData uint64

// Pack assembles a FieldData from its components. tagBytes holds the raw
// wire bytes of the tag (1 or 2 of them, little-endian); the remaining
// fields are zero where not applicable to a given cardinality.
func PackFieldData(tagBytes uint16, submsgIdx, hasbitOrNumber uint8, oneofOffset, fieldOffset uint16) FieldData {
	return FieldData(tagBytes) |
		FieldData(submsgIdx)<<16 |
		FieldData(hasbitOrNumber)<<24 |
		FieldData(oneofOffset)<<32 |
		FieldData(fieldOffset)<<48
}

// TagBytes returns the expected tag bytes (low 16 bits).
func (d FieldData) TagBytes() uint16 { return uint16(d) }

// SubmsgIndex returns the sub-message layout index.
func (d FieldData) SubmsgIndex() uint8 { return uint8(d >> 16) }

// Hasbit returns the presence-bit index, for singular fields.
func (d FieldData) Hasbit() uint8 { return uint8(d >> 24) }

// OneofNumber returns the field number to install in the oneof case word,
// for oneof fields. Aliases Hasbit: the two cardinalities never read the
// same byte for different purposes.
func (d FieldData) OneofNumber() uint32 { return uint32(uint8(d >> 24)) }

// OneofOffset returns the byte offset of the oneof case word inside the
// message.
func (d FieldData) OneofOffset() uint16 { return uint16(d >> 32) }

// FieldOffset returns the byte offset of the field's value inside the
// message.
func (d FieldData) FieldOffset() uint16 { return uint16(d >> 48) }

// WithTagBytes returns a copy of d with its low 16 bits replaced, used when
// a parser reloads data with the next record's tag bytes mid fused-run.
func (d FieldData) WithTagBytes(tagBytes uint16) FieldData {
	return d&^0xFFFF | FieldData(tagBytes)
}
