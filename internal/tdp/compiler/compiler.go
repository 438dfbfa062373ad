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

// Package compiler builds per-message dispatch tables (internal/tdp.Layout)
// from a declarative field list. It is the "layout-descriptor compiler"
// the decode core treats as an external collaborator: the core never
// constructs a Layout itself, only consumes one.
package compiler

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/turbopb/turbopb/internal/tdp"
)

// FieldSpec describes one message field for the compiler. Number, Kind,
// and Cardinality determine the field's wire behaviour; Offset, Hasbit,
// and OneofOffset describe where it lives in the message record, in the
// same units internal/tdp.FieldData expects.
type FieldSpec struct {
	Number      uint32
	Kind        tdp.Kind
	Cardinality tdp.Cardinality

	Offset      uint16
	Hasbit      uint8 // Singular only
	OneofOffset uint16 // Oneof only

	// Submsg is the child layout for KindMessage fields. It may be a
	// layout still being built (e.g. a self-referential or mutually
	// recursive message type) as long as it is filled in by the time any
	// decode actually reaches it — see NewLayout and CompileInto.
	Submsg  *tdp.Layout
	Ceiling tdp.Ceiling
}

// MessageSpec describes one message's full field list and record size.
type MessageSpec struct {
	Size   uint32
	Fields []FieldSpec
}

// Compile builds a Layout from spec. Every field is registered in the
// fallback map; fields whose tag fits in 1 or 2 bytes also compete for a
// fasttable slot, with the first field to claim a slot index winning it
// (collisions among multi-byte tags are inherent to a 32-slot table, not
// a bug — see [tdp.SlotIndex]).
func Compile(spec MessageSpec) *tdp.Layout {
	layout := NewLayout(spec.Size)
	CompileInto(layout, spec.Fields)
	return layout
}

// NewLayout returns an empty Layout of the given record size, for
// self-referential or mutually recursive message specs: allocate the
// shell first, so a field can name it as its own Submsg, then fill it in
// with CompileInto once every spec that needs to point at it exists.
func NewLayout(size uint32) *tdp.Layout {
	return tdp.NewLayout(size)
}

// CompileInto installs fields into a Layout previously returned by
// NewLayout.
func CompileInto(layout *tdp.Layout, fields []FieldSpec) {
	for _, f := range fields {
		install(layout, f)
	}
}

func install(layout *tdp.Layout, f FieldSpec) {
	wire := wireTypeFor(f)
	rawTag := uint64(f.Number)<<3 | uint64(wire)

	layout.Fallback[rawTag] = &tdp.FallbackField{
		Wire:        wire,
		Kind:        f.Kind,
		Cardinality: f.Cardinality,
		Offset:      f.Offset,
		Hasbit:      f.Hasbit,
		OneofOffset: f.OneofOffset,
		Submsg:      f.Submsg,
	}

	tag := tdp.EncodeTag(protowire.Number(f.Number), wire)
	if len(tag) == 0 || len(tag) > 2 {
		return // tag too long to ever occupy a fasttable slot
	}
	tagBytes := len(tag)

	idx := tdp.SlotIndex(tag[0])
	if layout.Fast[idx].Data != tdp.FieldData(0xFFFF) {
		return // slot already claimed by another field; this one is fallback-only
	}

	var tagWord uint16
	for i, b := range tag {
		tagWord |= uint16(b) << (8 * i)
	}

	data := tdp.PackFieldData(tagWord, submsgIndex(layout, f.Submsg), hasbitOrNumber(f), f.OneofOffset, f.Offset)
	layout.Fast[idx] = tdp.Slot{Parse: parserFor(f, tagBytes), Data: data}
}

func hasbitOrNumber(f FieldSpec) uint8 {
	if f.Cardinality == tdp.Oneof {
		return uint8(f.Number)
	}
	return f.Hasbit
}

// submsgIndex registers layout as a child of parent (if not already
// present) and returns its index, for KindMessage fields.
func submsgIndex(parent *tdp.Layout, child *tdp.Layout) uint8 {
	if child == nil {
		return 0
	}
	for i, s := range parent.Submsgs {
		if s == child {
			return uint8(i)
		}
	}
	parent.Submsgs = append(parent.Submsgs, child)
	return uint8(len(parent.Submsgs) - 1)
}

func wireTypeFor(f FieldSpec) tdp.WireType {
	switch {
	case f.Kind.IsVarint():
		if f.Cardinality == tdp.RepeatedPacked {
			return tdp.WireBytes
		}
		return tdp.WireVarint
	case f.Kind.FixedWidth() == 4:
		if f.Cardinality == tdp.RepeatedPacked {
			return tdp.WireBytes
		}
		return tdp.WireFixed32
	case f.Kind.FixedWidth() == 8:
		if f.Cardinality == tdp.RepeatedPacked {
			return tdp.WireBytes
		}
		return tdp.WireFixed64
	default: // string, bytes, message
		return tdp.WireBytes
	}
}

func parserFor(f FieldSpec, tagBytes int) tdp.ParseFunc {
	switch {
	case f.Kind.IsVarint():
		return tdp.VarintParser(f.Kind, f.Cardinality, tagBytes)
	case f.Kind.FixedWidth() == 4:
		return tdp.FixedParser(4, f.Cardinality, tagBytes)
	case f.Kind.FixedWidth() == 8:
		return tdp.FixedParser(8, f.Cardinality, tagBytes)
	case f.Kind == tdp.KindString || f.Kind == tdp.KindBytes:
		return tdp.StringParser(f.Cardinality, tagBytes)
	case f.Kind == tdp.KindMessage:
		return tdp.MessageParser(f.Cardinality, tagBytes, f.Submsg, f.Ceiling)
	}
	panic("compiler: unhandled field kind")
}
