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

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/turbopb/turbopb/internal/tdp"
	"github.com/turbopb/turbopb/internal/tdp/compiler"
)

// Field numbers 1-15 each get a one-byte tag and therefore a distinct
// fasttable slot; no two can collide.
func TestCompileNoCollisionBelow16(t *testing.T) {
	var fields []compiler.FieldSpec
	for n := uint32(1); n <= 15; n++ {
		fields = append(fields, compiler.FieldSpec{
			Number: n, Kind: tdp.KindInt32, Cardinality: tdp.Singular, Offset: uint16(8 + n*8), Hasbit: uint8(n - 1),
		})
	}
	layout := compiler.Compile(compiler.MessageSpec{Size: 8 + 16*8, Fields: fields})

	for n := uint32(1); n <= 15; n++ {
		tag := tdp.EncodeTag(protowire.Number(n), tdp.WireVarint)
		idx := tdp.SlotIndex(tag[0])
		require.NotEqualValues(t, 0xFFFF, layout.Fast[idx].Data, "field %d should occupy a fasttable slot", n)
	}
	require.Len(t, layout.Fallback, 15)
}

// Field numbers 17 and 33 both encode to a two-byte tag whose low 5 bits
// select the same fasttable slot: the first one compiled wins the slot,
// the second is reachable only through the fallback map.
func TestCompileCollisionAbove16(t *testing.T) {
	layout := compiler.Compile(compiler.MessageSpec{
		Size: 32,
		Fields: []compiler.FieldSpec{
			{Number: 17, Kind: tdp.KindInt32, Cardinality: tdp.Singular, Offset: 8, Hasbit: 0},
			{Number: 33, Kind: tdp.KindInt32, Cardinality: tdp.Singular, Offset: 16, Hasbit: 1},
		},
	})

	tag17 := tdp.EncodeTag(protowire.Number(17), tdp.WireVarint)
	tag33 := tdp.EncodeTag(protowire.Number(33), tdp.WireVarint)
	require.Equal(t, tdp.SlotIndex(tag17[0]), tdp.SlotIndex(tag33[0]))

	idx := tdp.SlotIndex(tag17[0])
	require.NotEqualValues(t, 0xFFFF, layout.Fast[idx].Data)
	require.Len(t, layout.Fallback, 2, "both fields remain reachable through the fallback map")
}

// A self-referential message type can be built by allocating the layout
// shell first and filling it in afterward.
func TestNewLayoutSelfReference(t *testing.T) {
	self := compiler.NewLayout(16)
	compiler.CompileInto(self, []compiler.FieldSpec{
		{Number: 1, Kind: tdp.KindMessage, Cardinality: tdp.Singular, Offset: 8, Hasbit: 0, Submsg: self, Ceiling: tdp.CeilingUnbounded},
	})

	require.Len(t, self.Submsgs, 1)
	require.Same(t, self, self.Submsgs[0])
}
