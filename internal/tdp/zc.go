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

import (
	"unicode/utf8"
	"unsafe"

	"github.com/turbopb/turbopb/internal/xunsafe"
)

// StringView is a non-owning (data, size) pair. When produced by the alias
// family of string parsers it points directly into the input buffer the
// caller supplied to Decode; when produced by the copy family it points
// into the decode's arena. Either way its lifetime is the caller's
// responsibility to manage (see the alias field on [Decoder]).
type StringView struct {
	Data xunsafe.Addr[byte]
	Size uint32
}

// Bytes returns the view's contents. The returned slice aliases either the
// input buffer or the arena and must not be mutated.
func (v StringView) Bytes() []byte {
	if v.Size == 0 {
		return nil
	}
	return unsafe.Slice(v.Data.AssertValid(), v.Size)
}

// String returns the view's contents as a string, without copying.
func (v StringView) String() string {
	return unsafe.String(v.Data.AssertValid(), v.Size)
}

// ValidUTF8 reports whether the view's bytes form valid UTF-8. The string
// field parsers in this package do not call it; they store string fields
// without UTF-8 validation.
func (v StringView) ValidUTF8() bool {
	return utf8.Valid(v.Bytes())
}
