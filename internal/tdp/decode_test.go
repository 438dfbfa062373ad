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

package tdp_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/turbopb/turbopb/internal/arena"
	"github.com/turbopb/turbopb/internal/tdp"
	"github.com/turbopb/turbopb/internal/tdp/compiler"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// padInput returns data with BoundsPad bytes of safe-to-read padding past
// its end, mirroring what package turbopb's Decode does to its input
// before handing it to the decode core.
func padInput(data []byte) []byte {
	padded := make([]byte, len(data)+tdp.BoundsPad)
	copy(padded, data)
	return padded[:len(data)]
}

func runDecode(t *testing.T, data []byte, layout *tdp.Layout, opts tdp.Options) (xunsafe.Addr[byte], *arena.Arena, *tdp.ParseError) {
	t.Helper()
	a := new(arena.Arena)
	root := tdp.AllocMessage(a, layout)
	padded := padInput(data)
	src := xunsafe.AddrOf(unsafe.SliceData(padded))
	d := tdp.NewDecoder(a, src, len(data), opts)
	err := d.Decode(root, layout)
	return root, a, err
}

// A singular int32 field decodes to the expected value with its
// presence bit set.
func TestSingularVarint(t *testing.T) {
	layout := tdp.NewLayout(16)
	tag := tdp.EncodeTag(1, tdp.WireVarint)
	layout.Fast[tdp.SlotIndex(tag[0])] = tdp.Slot{
		Parse: tdp.VarintParser(tdp.KindInt32, tdp.Singular, len(tag)),
		Data:  tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8),
	}

	root, _, err := runDecode(t, []byte{0x08, 0x96, 0x01}, layout, tdp.Options{})
	require.Nil(t, err)
	require.True(t, tdp.HasField(root, 0))
	require.EqualValues(t, 150, *xunsafe.ByteAdd[int32](root.AssertValid(), 8))
}

// A repeated int32 field declared unpacked still decodes correctly
// when the wire encodes it packed, via the flip-and-retry check.
func TestPackedUnpackedFlip(t *testing.T) {
	layout := tdp.NewLayout(16)
	tag := tdp.EncodeTag(1, tdp.WireVarint) // declared (unpacked) wire form
	layout.Fast[tdp.SlotIndex(tag[0])] = tdp.Slot{
		Parse: tdp.VarintParser(tdp.KindInt32, tdp.RepeatedUnpacked, len(tag)),
		Data:  tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8),
	}

	data := []byte{0x0A, 0x06, 0x03, 0x8E, 0x02, 0x9E, 0xA7, 0x05}
	root, _, err := runDecode(t, data, layout, tdp.Options{})
	require.Nil(t, err)

	hdr := *xunsafe.ByteAdd[*tdp.RepeatedArray](root.AssertValid(), 8)
	require.NotNil(t, hdr)
	got := xunsafe.Slice(xunsafe.ByteAdd[int32](hdr.Data.AssertValid(), 0), hdr.Len)
	require.Equal(t, []int32{3, 270, 86942}, got)
}

// A packed-varint region whose last element's bytes run past the
// declared length fails instead of being silently accepted: the lax
// bounds check that lets parseVarint load unconditionally from the
// padded buffer only guards the physical buffer end, not the scope's own
// limit, so the packed loop must check the limit was landed on exactly.
func TestPackedVarintTruncated(t *testing.T) {
	layout := tdp.NewLayout(16)
	tag := tdp.EncodeTag(1, tdp.WireBytes)
	layout.Fast[tdp.SlotIndex(tag[0])] = tdp.Slot{
		Parse: tdp.VarintParser(tdp.KindInt32, tdp.RepeatedPacked, len(tag)),
		Data:  tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8),
	}

	// 0x8E, 0x02 is the two-byte varint encoding of 270; declaring the
	// packed region as only 1 byte long lies about where it ends.
	data := []byte{tag[0], 0x01, 0x8E, 0x02}
	_, _, err := runDecode(t, data, layout, tdp.Options{})
	require.NotNil(t, err)
	require.Equal(t, tdp.ErrorInvalidLimit, err.Code)
}

func stringLayout() *tdp.Layout {
	layout := tdp.NewLayout(24)
	tag := tdp.EncodeTag(1, tdp.WireBytes)
	layout.Fast[tdp.SlotIndex(tag[0])] = tdp.Slot{
		Parse: tdp.StringParser(tdp.Singular, len(tag)),
		Data:  tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8),
	}
	return layout
}

// With aliasing enabled, a short string's view points directly into
// the input buffer and consumes no arena bytes beyond the message record.
func TestAliasedString(t *testing.T) {
	layout := stringLayout()
	a := new(arena.Arena)
	root := tdp.AllocMessage(a, layout)
	before := a.Next

	data := []byte{0x0A, 0x05, 'h', 'e', 'l', 'l', 'o'}
	padded := padInput(data)
	src := xunsafe.AddrOf(unsafe.SliceData(padded))
	d := tdp.NewDecoder(a, src, len(data), tdp.Options{AllowAlias: true})
	err := d.Decode(root, layout)
	require.Nil(t, err)

	view := *xunsafe.ByteAdd[tdp.StringView](root.AssertValid(), 8)
	require.Equal(t, "hello", view.String())
	require.Equal(t, src.Add(2), view.Data)
	require.Equal(t, before, a.Next)
}

// With aliasing disabled, the same string is copied into the arena
// using the 16-byte cascade width.
func TestCopiedString(t *testing.T) {
	layout := stringLayout()
	a := new(arena.Arena)
	root := tdp.AllocMessage(a, layout)
	before := a.Next

	data := []byte{0x0A, 0x05, 'h', 'e', 'l', 'l', 'o'}
	padded := padInput(data)
	src := xunsafe.AddrOf(unsafe.SliceData(padded))
	d := tdp.NewDecoder(a, src, len(data), tdp.Options{AllowAlias: false})
	err := d.Decode(root, layout)
	require.Nil(t, err)

	view := *xunsafe.ByteAdd[tdp.StringView](root.AssertValid(), 8)
	require.Equal(t, "hello", view.String())
	require.EqualValues(t, 16, int(a.Next-before))
}

// Decoding a message nested one level deeper than the configured max
// depth fails with ErrorRecursionLimit.
func TestRecursionLimit(t *testing.T) {
	self := compiler.NewLayout(16)
	compiler.CompileInto(self, []compiler.FieldSpec{
		{Number: 1, Kind: tdp.KindMessage, Cardinality: tdp.Singular, Offset: 8, Hasbit: 0, Submsg: self, Ceiling: tdp.CeilingUnbounded},
	})

	var data []byte
	for i := 0; i < 101; i++ {
		frame := protowire.AppendTag(nil, 1, protowire.BytesType)
		frame = protowire.AppendVarint(frame, uint64(len(data)))
		frame = append(frame, data...)
		data = frame
	}

	_, _, err := runDecode(t, data, self, tdp.Options{MaxDepth: 100})
	require.NotNil(t, err)
	require.Equal(t, tdp.ErrorRecursionLimit, err.Code)
}

// 32 consecutive encodings of the same unpacked repeated field fuse
// into one array of length 32, growing its backing store by doubling
// from an initial capacity of 8 (8 -> 16 -> 32): exactly
// log2(32/8)+1 = 3 growth steps.
func TestRepeatedRunFusion(t *testing.T) {
	layout := tdp.NewLayout(16)
	tag := tdp.EncodeTag(1, tdp.WireVarint)
	layout.Fast[tdp.SlotIndex(tag[0])] = tdp.Slot{
		Parse: tdp.VarintParser(tdp.KindInt32, tdp.RepeatedUnpacked, len(tag)),
		Data:  tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8),
	}

	var data []byte
	for i := 1; i <= 32; i++ {
		data = append(data, tag[0], byte(i))
	}

	root, _, err := runDecode(t, data, layout, tdp.Options{})
	require.Nil(t, err)

	hdr := *xunsafe.ByteAdd[*tdp.RepeatedArray](root.AssertValid(), 8)
	require.EqualValues(t, 32, hdr.Len)
	require.EqualValues(t, 32, hdr.Cap)

	got := xunsafe.Slice(xunsafe.ByteAdd[int32](hdr.Data.AssertValid(), 0), hdr.Len)
	want := make([]int32, 32)
	for i := range want {
		want[i] = int32(i + 1)
	}
	require.Equal(t, want, got)
}

// A packed-repeated field whose tag never fits the fasttable (field
// number 2048 needs a 3-byte tag) still decodes every element through the generic
// fallback path, not just the first one misread as a lone scalar.
func TestFallbackPackedVarint(t *testing.T) {
	layout := compiler.NewLayout(16)
	compiler.CompileInto(layout, []compiler.FieldSpec{
		{Number: 2048, Kind: tdp.KindInt32, Cardinality: tdp.RepeatedPacked, Offset: 8},
	})

	var payload []byte
	for _, v := range []uint64{3, 270, 86942} {
		payload = protowire.AppendVarint(payload, v)
	}
	data := protowire.AppendTag(nil, 2048, protowire.BytesType)
	data = protowire.AppendVarint(data, uint64(len(payload)))
	data = append(data, payload...)

	root, _, err := runDecode(t, data, layout, tdp.Options{})
	require.Nil(t, err)

	hdr := *xunsafe.ByteAdd[*tdp.RepeatedArray](root.AssertValid(), 8)
	require.NotNil(t, hdr)
	got := xunsafe.Slice(xunsafe.ByteAdd[int32](hdr.Data.AssertValid(), 0), hdr.Len)
	require.Equal(t, []int32{3, 270, 86942}, got)
}

// The same boundary check applies to a packed field reached through the
// fallback path.
func TestFallbackPackedVarintTruncated(t *testing.T) {
	layout := compiler.NewLayout(16)
	compiler.CompileInto(layout, []compiler.FieldSpec{
		{Number: 2048, Kind: tdp.KindInt32, Cardinality: tdp.RepeatedPacked, Offset: 8},
	})

	payload := []byte{0x8E, 0x02} // two-byte varint encoding of 270
	data := protowire.AppendTag(nil, 2048, protowire.BytesType)
	data = protowire.AppendVarint(data, 1) // declares only 1 byte; a lie
	data = append(data, payload...)

	_, _, err := runDecode(t, data, layout, tdp.Options{})
	require.NotNil(t, err)
	require.Equal(t, tdp.ErrorInvalidLimit, err.Code)
}

// A packed-repeated fixed-width field reached through the fallback path
// decodes every element, exercising storeFallbackPacked's bulk-copy arm.
func TestFallbackPackedFixed32(t *testing.T) {
	layout := compiler.NewLayout(16)
	compiler.CompileInto(layout, []compiler.FieldSpec{
		{Number: 2048, Kind: tdp.KindFixed32, Cardinality: tdp.RepeatedPacked, Offset: 8},
	})

	payload := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
	}
	data := protowire.AppendTag(nil, 2048, protowire.BytesType)
	data = protowire.AppendVarint(data, uint64(len(payload)))
	data = append(data, payload...)

	root, _, err := runDecode(t, data, layout, tdp.Options{})
	require.Nil(t, err)

	hdr := *xunsafe.ByteAdd[*tdp.RepeatedArray](root.AssertValid(), 8)
	require.NotNil(t, hdr)
	got := xunsafe.Slice(xunsafe.ByteAdd[uint32](hdr.Data.AssertValid(), 0), hdr.Len)
	require.Equal(t, []uint32{1, 2}, got)
}

// Dispatch always selects the slot whose field_data, XORed against the
// wire tag, leaves the relevant tag bits at zero.
func TestDispatchStability(t *testing.T) {
	for number := uint32(1); number <= 15; number++ {
		tag := tdp.EncodeTag(protowire.Number(number), tdp.WireVarint)
		data := tdp.PackFieldData(uint16(tag[0]), 0, 0, 0, 8)
		slotData := data ^ tdp.FieldData(tag[0])
		require.Zero(t, slotData&0xFF, "field number %d", number)
	}
}
