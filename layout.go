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

package turbopb

import (
	"github.com/turbopb/turbopb/internal/tdp"
	"github.com/turbopb/turbopb/internal/tdp/compiler"
)

// Layout is a compiled dispatch table for one message shape: a 32-slot
// fasttable plus a fallback map, ready to drive [Decode]. Build one with
// [NewLayout] and reuse it across every decode of that shape — compiling
// a layout is not cheap enough to do per call.
type Layout = tdp.Layout

// Kind identifies a field's value representation.
type Kind = tdp.Kind

const (
	KindBool     = tdp.KindBool
	KindInt32    = tdp.KindInt32
	KindInt64    = tdp.KindInt64
	KindUint32   = tdp.KindUint32
	KindUint64   = tdp.KindUint64
	KindSint32   = tdp.KindSint32
	KindSint64   = tdp.KindSint64
	KindFixed32  = tdp.KindFixed32
	KindFixed64  = tdp.KindFixed64
	KindSfixed32 = tdp.KindSfixed32
	KindSfixed64 = tdp.KindSfixed64
	KindFloat    = tdp.KindFloat
	KindDouble   = tdp.KindDouble
	KindString   = tdp.KindString
	KindBytes    = tdp.KindBytes
	KindMessage  = tdp.KindMessage
)

// Cardinality selects a field's repetition and storage convention.
type Cardinality = tdp.Cardinality

const (
	Singular         = tdp.Singular
	Oneof            = tdp.Oneof
	RepeatedUnpacked = tdp.RepeatedUnpacked
	RepeatedPacked   = tdp.RepeatedPacked
)

// Ceiling names a size bound recorded with a sub-message field. The decoder
// does not act on it: every sub-message record is allocated through the
// same arena path whatever its Ceiling.
type Ceiling = tdp.Ceiling

const (
	Ceiling64        = tdp.Ceiling64
	Ceiling128       = tdp.Ceiling128
	Ceiling192       = tdp.Ceiling192
	Ceiling256       = tdp.Ceiling256
	CeilingUnbounded = tdp.CeilingUnbounded
)

// FieldSpec describes one field of a message being compiled into a
// Layout. See [NewLayout].
type FieldSpec = compiler.FieldSpec

// MessageSpec describes one message's record size and field list.
type MessageSpec = compiler.MessageSpec

// NewLayout compiles spec into a ready-to-use Layout.
//
// For a message type that refers to itself (directly or through a cycle
// of other message types), allocate the shell first with
// [compiler.NewLayout], point the relevant FieldSpec.Submsg fields at it,
// and finish it with [compiler.CompileInto] instead of calling NewLayout
// directly.
func NewLayout(spec MessageSpec) *Layout {
	return compiler.Compile(spec)
}
