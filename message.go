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
	"github.com/turbopb/turbopb/internal/arena"
	"github.com/turbopb/turbopb/internal/tdp"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// Message is a decoded record: a message's presence bitmap and field
// values, laid out the way its [Layout] describes, plus everything
// needed to keep that memory (and any aliased input bytes) alive.
//
// A Message's field values are read with the typed Get* accessors below,
// addressed by the same byte offsets the Layout's [FieldSpec.Offset]
// values use — there is no reflection step in between.
type Message struct {
	arena  *arena.Arena
	addr   xunsafe.Addr[byte]
	layout *Layout
	src    []byte
}

// Layout returns the layout this message was decoded against.
func (m *Message) Layout() *Layout { return m.layout }

// HasField reports whether the field at the given presence-bit index was
// present on the wire.
func (m *Message) HasField(bit uint8) bool { return tdp.HasField(m.addr, bit) }

func scalar[T any](m *Message, offset uint16) T {
	return xunsafe.ByteLoad[T](m.addr.AssertValid(), int(offset))
}

func (m *Message) GetBool(offset uint16) bool       { return scalar[byte](m, offset) != 0 }
func (m *Message) GetInt32(offset uint16) int32     { return scalar[int32](m, offset) }
func (m *Message) GetInt64(offset uint16) int64     { return scalar[int64](m, offset) }
func (m *Message) GetUint32(offset uint16) uint32   { return scalar[uint32](m, offset) }
func (m *Message) GetUint64(offset uint16) uint64   { return scalar[uint64](m, offset) }
func (m *Message) GetSint32(offset uint16) int32    { return scalar[int32](m, offset) }
func (m *Message) GetSint64(offset uint16) int64    { return scalar[int64](m, offset) }
func (m *Message) GetFixed32(offset uint16) uint32  { return scalar[uint32](m, offset) }
func (m *Message) GetFixed64(offset uint16) uint64  { return scalar[uint64](m, offset) }
func (m *Message) GetSfixed32(offset uint16) int32  { return scalar[int32](m, offset) }
func (m *Message) GetSfixed64(offset uint16) int64  { return scalar[int64](m, offset) }
func (m *Message) GetFloat(offset uint16) float32   { return scalar[float32](m, offset) }
func (m *Message) GetDouble(offset uint16) float64  { return scalar[float64](m, offset) }

// GetString returns the string field at offset. The returned string may
// alias the input data handed to [Decode] (see [WithAllowAlias]); it
// stays valid for as long as this Message does either way, since Message
// retains whatever memory it points into.
func (m *Message) GetString(offset uint16) string {
	return scalar[tdp.StringView](m, offset).String()
}

// GetBytes returns the bytes field at offset. See GetString's aliasing
// note; callers must not mutate the returned slice.
func (m *Message) GetBytes(offset uint16) []byte {
	return scalar[tdp.StringView](m, offset).Bytes()
}

// GetMessage returns the sub-message field at offset, or nil if it was
// never present. layout must be the same Layout the field was compiled
// with.
func (m *Message) GetMessage(offset uint16, layout *Layout) *Message {
	sub := scalar[xunsafe.Addr[byte]](m, offset)
	if sub.IsNil() {
		return nil
	}
	return &Message{arena: m.arena, addr: sub, layout: layout, src: m.src}
}

// GetOneofCase returns the field number currently occupying the oneof
// whose case word lives at offset, or 0 if none has been set.
func (m *Message) GetOneofCase(offset uint16) uint32 {
	return scalar[uint32](m, offset)
}

func repeatedHeader(m *Message, offset uint16) *tdp.RepeatedArray {
	return scalar[*tdp.RepeatedArray](m, offset)
}

func repeatedSlice[T any](h *tdp.RepeatedArray) []T {
	if h == nil {
		return nil
	}
	return xunsafe.Slice(xunsafe.ByteAdd[T](h.Data.AssertValid(), 0), h.Len)
}

func (m *Message) GetRepeatedBool(offset uint16) []bool {
	raw := repeatedSlice[byte](repeatedHeader(m, offset))
	if raw == nil {
		return nil
	}
	out := make([]bool, len(raw))
	for i, b := range raw {
		out[i] = b != 0
	}
	return out
}

func (m *Message) GetRepeatedInt32(offset uint16) []int32 {
	return repeatedSlice[int32](repeatedHeader(m, offset))
}
func (m *Message) GetRepeatedInt64(offset uint16) []int64 {
	return repeatedSlice[int64](repeatedHeader(m, offset))
}
func (m *Message) GetRepeatedUint32(offset uint16) []uint32 {
	return repeatedSlice[uint32](repeatedHeader(m, offset))
}
func (m *Message) GetRepeatedUint64(offset uint16) []uint64 {
	return repeatedSlice[uint64](repeatedHeader(m, offset))
}
func (m *Message) GetRepeatedFloat(offset uint16) []float32 {
	return repeatedSlice[float32](repeatedHeader(m, offset))
}
func (m *Message) GetRepeatedDouble(offset uint16) []float64 {
	return repeatedSlice[float64](repeatedHeader(m, offset))
}

// GetRepeatedString materialises the repeated field's string views into a
// fresh []string. Each element may still alias the input buffer the same
// way GetString's result does.
func (m *Message) GetRepeatedString(offset uint16) []string {
	views := repeatedSlice[tdp.StringView](repeatedHeader(m, offset))
	if views == nil {
		return nil
	}
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.String()
	}
	return out
}

// GetRepeatedBytes is GetRepeatedString's []byte counterpart.
func (m *Message) GetRepeatedBytes(offset uint16) [][]byte {
	views := repeatedSlice[tdp.StringView](repeatedHeader(m, offset))
	if views == nil {
		return nil
	}
	out := make([][]byte, len(views))
	for i, v := range views {
		out[i] = v.Bytes()
	}
	return out
}

// GetRepeatedMessage returns the repeated sub-message field at offset,
// wrapping each element as a Message sharing this message's arena.
func (m *Message) GetRepeatedMessage(offset uint16, layout *Layout) []*Message {
	addrs := repeatedSlice[xunsafe.Addr[byte]](repeatedHeader(m, offset))
	if addrs == nil {
		return nil
	}
	out := make([]*Message, len(addrs))
	for i, a := range addrs {
		out[i] = &Message{arena: m.arena, addr: a, layout: layout, src: m.src}
	}
	return out
}
