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

import "github.com/turbopb/turbopb/internal/tdp"

// ParseError is returned by [Decode] when the input cannot be parsed
// against its [Layout]. Its Code identifies the failure category; Offset
// is the byte offset into the input at which it was detected.
type ParseError = tdp.ParseError

// ErrorCode identifies the taxonomy of decode failures.
type ErrorCode = tdp.ErrorCode

const (
	ErrorTruncated         = tdp.ErrorTruncated
	ErrorMalformedVarint   = tdp.ErrorMalformedVarint
	ErrorBoundsExceeded    = tdp.ErrorBoundsExceeded
	ErrorInvalidLimit      = tdp.ErrorInvalidLimit
	ErrorRecursionLimit    = tdp.ErrorRecursionLimit
	ErrorUnterminatedGroup = tdp.ErrorUnterminatedGroup
	ErrorAllocationFailed  = tdp.ErrorAllocationFailed
	ErrorFieldNumber       = tdp.ErrorFieldNumber
	ErrorOverflow          = tdp.ErrorOverflow
	ErrorInvalidUTF8       = tdp.ErrorInvalidUTF8
	ErrorTooBig            = tdp.ErrorTooBig
	ErrorUnknownField      = tdp.ErrorUnknownField
)
