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

import "github.com/turbopb/turbopb/internal/xunsafe"

// StringParser builds the specialised parser for one {cardinality,
// tag-length} combination. Unlike the varint/fixed
// matrices, alias vs. copy is not baked in at this layer: it is decided
// per call (and, in a repeated run, re-checked per element) by d.alias.
// NewDecoder sets d.alias from Options.AllowAlias, and nothing in this
// package changes it during a decode.
func StringParser(card Cardinality, tagBytes int) ParseFunc {
	switch card {
	case Singular, Oneof:
		return func(d *Decoder, data FieldData) bool {
			return d.parseStringScalar(data, tagBytes, card)
		}
	default:
		return func(d *Decoder, data FieldData) bool {
			return d.parseStringRepeated(data, tagBytes)
		}
	}
}

func (d *Decoder) readString() (StringView, bool) {
	if d.alias {
		return d.aliasString()
	}
	return d.copyStringCascade(2)
}

func (d *Decoder) parseStringScalar(data FieldData, tagBytes int, card Cardinality) bool {
	if data&FieldData(tagMask(tagBytes)) != 0 {
		return false
	}

	var dst xunsafe.Addr[byte]
	if card == Singular {
		dst = d.singularDst(data)
	} else {
		dst = d.oneofDst(data)
	}

	d.ptr = d.ptr.Add(tagBytes)
	view, ok := d.readString()
	if !ok {
		return false
	}
	*xunsafe.ByteAdd[StringView](dst.AssertValid(), 0) = view
	return true
}

// parseStringRepeated fuses a run of string elements of the same field.
// A mid-run alias flip simply ends the run
// (commit, return) instead of switching copy strategy inline; the next
// dispatch naturally picks up the copy-mode behaviour since d.alias has
// changed.
func (d *Decoder) parseStringRepeated(data FieldData, tagBytes int) bool {
	if data&FieldData(tagMask(tagBytes)) != 0 {
		return false
	}

	matchTag := peekTag(d.ptr)
	d.ptr = d.ptr.Add(tagBytes)

	startedAliased := d.alias
	hdr := d.repeatedArrayFor(data, KindString.elemLog2())
	count := 0

	for {
		if d.alias != startedAliased {
			hdr.Commit(count)
			return true
		}

		view, ok := d.readString()
		if !ok {
			return false
		}
		*xunsafe.ByteAdd[StringView](hdr.ReserveAt(d.arena, int(hdr.Len)+count).AssertValid(), 0) = view
		count++

		sig, _ := d.nextInRun(matchTag, tagBytes)
		if sig != SignalSameField {
			hdr.Commit(count)
			return true
		}
		d.ptr = d.ptr.Add(tagBytes)
	}
}
