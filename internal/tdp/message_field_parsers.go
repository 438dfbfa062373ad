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

// MessageParser builds the specialised parser for one {cardinality,
// tag-length, ceiling} combination.
func MessageParser(card Cardinality, tagBytes int, layout *Layout, ceiling Ceiling) ParseFunc {
	switch card {
	case Singular, Oneof:
		return func(d *Decoder, data FieldData) bool {
			return d.parseMessageScalar(data, tagBytes, card, layout, ceiling)
		}
	default:
		return func(d *Decoder, data FieldData) bool {
			return d.parseMessageRepeated(data, tagBytes, layout, ceiling)
		}
	}
}

func (d *Decoder) parseMessageScalar(data FieldData, tagBytes int, card Cardinality, layout *Layout, ceiling Ceiling) bool {
	if data&FieldData(tagMask(tagBytes)) != 0 {
		return false
	}

	var dst = d.msg.Add(int(data.FieldOffset()))
	if card == Singular {
		d.flushHasbits()
		d.setPresenceBitNow(data.Hasbit())
	} else {
		dst = d.oneofDst(data)
	}

	d.ptr = d.ptr.Add(tagBytes)
	return d.parseSubmessage(dst, layout, ceiling, false)
}

func (d *Decoder) parseMessageRepeated(data FieldData, tagBytes int, layout *Layout, ceiling Ceiling) bool {
	if data&FieldData(tagMask(tagBytes)) != 0 {
		return false
	}

	matchTag := peekTag(d.ptr)
	d.ptr = d.ptr.Add(tagBytes)
	d.flushHasbits()

	hdr := d.repeatedArrayAt(data.FieldOffset(), KindMessage.elemLog2())
	count := 0

	for {
		dst := hdr.ReserveAt(d.arena, int(hdr.Len)+count)
		if !d.parseSubmessage(dst, layout, ceiling, true) {
			return false
		}
		count++

		sig, _ := d.nextInRun(matchTag, tagBytes)
		if sig != SignalSameField {
			hdr.Commit(count)
			return true
		}
		d.ptr = d.ptr.Add(tagBytes)
	}
}
