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

// savedScope captures the enclosing limit so a delimited sub-scope can
// restore it on exit.
type savedScope struct {
	limit    int64
	limitPtr xunsafe.Addr[byte]
}

// pushLengthLimit narrows the active scope to the next n bytes, on the
// fast path: the payload must fit entirely inside the enclosing limit,
// which this package always has fully buffered (see the dispatch core's
// doc comment), so the slow "refill mid-scope" path this is grounded on
// never triggers here.
func (d *Decoder) pushLengthLimit(n int) (savedScope, bool) {
	cur := int64(d.ptr) - int64(d.end)
	if cur+int64(n) > d.limit {
		d.fail(ErrorInvalidLimit)
		return savedScope{}, false
	}

	saved := savedScope{d.limit, d.limitPtr}
	d.limitPtr = d.ptr.Add(n)
	d.limit = int64(d.limitPtr) - int64(d.end)
	return saved, true
}

// popLimit restores a scope saved by pushLengthLimit.
func (d *Decoder) popLimit(saved savedScope) {
	d.limit = saved.limit
	d.limitPtr = saved.limitPtr
}
