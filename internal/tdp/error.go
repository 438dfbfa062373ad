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
	"errors"
	"fmt"
	"io"
)

// ErrorCode identifies the taxonomy of failures the decoder can produce.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota
	ErrorTruncated
	ErrorMalformedVarint
	ErrorBoundsExceeded
	ErrorInvalidLimit
	ErrorRecursionLimit
	ErrorUnterminatedGroup
	ErrorAllocationFailed
	ErrorFieldNumber
	ErrorOverflow
	ErrorInvalidUTF8
	ErrorTooBig
	ErrorUnknownField
)

var sentinels = [...]error{
	ErrorNone:              nil,
	ErrorTruncated:         io.ErrUnexpectedEOF,
	ErrorMalformedVarint:   errors.New("tdp: malformed varint"),
	ErrorBoundsExceeded:    errors.New("tdp: read past end of buffer"),
	ErrorInvalidLimit:      errors.New("tdp: length prefix exceeds enclosing limit"),
	ErrorRecursionLimit:    errors.New("tdp: message nesting too deep"),
	ErrorUnterminatedGroup: errors.New("tdp: mismatched end-group marker"),
	ErrorAllocationFailed:  errors.New("tdp: arena allocation failed"),
	ErrorFieldNumber:       errors.New("tdp: invalid field number"),
	ErrorOverflow:          errors.New("tdp: integer overflow while decoding tag or length"),
	ErrorInvalidUTF8:       errors.New("tdp: string field is not valid UTF-8"),
	ErrorTooBig:            errors.New("tdp: input larger than 2GiB"),
	ErrorUnknownField:      errors.New("tdp: field absent from layout and DiscardUnknown is false"),
}

// ParseError is returned by [Decode] when the input cannot be parsed
// against its layout.
type ParseError struct {
	Code   ErrorCode
	Offset int
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("tdp: parse error at offset %d: %v", e.Offset, e.Unwrap())
}

// Unwrap implements the interface used by errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return sentinels[e.Code]
}
