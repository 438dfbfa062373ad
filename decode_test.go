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

package turbopb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	turbopb "github.com/turbopb/turbopb"
)

// personLayout compiles a small two-field message: a singular int32 "age"
// at offset 8 (presence bit 0) and a string "name" at offset 16.
func personLayout() *turbopb.Layout {
	return turbopb.NewLayout(turbopb.MessageSpec{
		Size: 32,
		Fields: []turbopb.FieldSpec{
			{Number: 1, Kind: turbopb.KindInt32, Cardinality: turbopb.Singular, Offset: 8, Hasbit: 0},
			{Number: 2, Kind: turbopb.KindString, Cardinality: turbopb.Singular, Offset: 16, Hasbit: 1},
		},
	})
}

func TestDecodeEndToEnd(t *testing.T) {
	layout := personLayout()

	// field 1 (varint, tag 0x08) = 30; field 2 (bytes, tag 0x12) = "Ada"
	data := []byte{0x08, 0x1E, 0x12, 0x03, 'A', 'd', 'a'}

	msg, err := turbopb.Decode(data, layout)
	require.NoError(t, err)
	require.True(t, msg.HasField(0))
	require.True(t, msg.HasField(1))
	require.EqualValues(t, 30, msg.GetInt32(8))
	require.Equal(t, "Ada", msg.GetString(16))
}

func TestDecodeAliasingOption(t *testing.T) {
	layout := personLayout()
	data := []byte{0x12, 0x03, 'A', 'd', 'a'}

	msg, err := turbopb.Decode(data, layout, turbopb.WithAllowAlias(true))
	require.NoError(t, err)
	require.Equal(t, "Ada", msg.GetString(16))
}

func TestDecodeRecursionLimitOption(t *testing.T) {
	layer3 := turbopb.NewLayout(turbopb.MessageSpec{Size: 8})
	layer2 := turbopb.NewLayout(turbopb.MessageSpec{
		Size: 16,
		Fields: []turbopb.FieldSpec{
			{Number: 1, Kind: turbopb.KindMessage, Cardinality: turbopb.Singular, Offset: 8, Hasbit: 0, Submsg: layer3, Ceiling: turbopb.CeilingUnbounded},
		},
	})
	layer1 := turbopb.NewLayout(turbopb.MessageSpec{
		Size: 16,
		Fields: []turbopb.FieldSpec{
			{Number: 1, Kind: turbopb.KindMessage, Cardinality: turbopb.Singular, Offset: 8, Hasbit: 0, Submsg: layer2, Ceiling: turbopb.CeilingUnbounded},
		},
	})

	// field 1 (layer2, len 2) containing field 1 (layer3, len 0): two
	// levels of nesting, against a budget of one.
	data := []byte{0x0A, 0x02, 0x0A, 0x00}

	_, err := turbopb.Decode(data, layer1, turbopb.WithMaxDepth(1))
	require.Error(t, err)
	var parseErr *turbopb.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, turbopb.ErrorRecursionLimit, parseErr.Code)
}

// A field number absent from the layout fails the decode by default,
// since this decoder has nowhere to put it for later re-encoding.
func TestDecodeUnknownFieldDefault(t *testing.T) {
	layout := personLayout()

	// field 1 (int32) = 30, followed by field 5 (varint, tag 0x28) = 1,
	// a field number personLayout never declared.
	data := []byte{0x08, 0x1E, 0x28, 0x01}

	_, err := turbopb.Decode(data, layout)
	require.Error(t, err)
	var parseErr *turbopb.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, turbopb.ErrorUnknownField, parseErr.Code)
}

// WithDiscardUnknown(true) skips an unrecognised field instead of
// failing, still decoding every field the layout does know about.
func TestDecodeDiscardUnknownOption(t *testing.T) {
	layout := personLayout()

	data := []byte{0x08, 0x1E, 0x28, 0x01, 0x12, 0x03, 'A', 'd', 'a'}

	msg, err := turbopb.Decode(data, layout, turbopb.WithDiscardUnknown(true))
	require.NoError(t, err)
	require.EqualValues(t, 30, msg.GetInt32(8))
	require.Equal(t, "Ada", msg.GetString(16))
}

func TestOptionsClone(t *testing.T) {
	var o turbopb.Options
	clone, err := o.Clone()
	require.NoError(t, err)
	require.Equal(t, o, clone)
}
