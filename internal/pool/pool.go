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

// Package pool provides a strongly-typed wrapper over sync.Pool, used to
// reuse Decoder structs across calls to Decode.
package pool

import "sync"

// Pool is a sync.Pool specialized to T, with an optional reset hook run
// before a value is returned to the pool.
type Pool[T any] struct {
	New   func() *T
	Reset func(*T)

	impl sync.Pool
}

// Get returns a pooled (or freshly constructed) *T, and a drop function
// that must be called once the caller is done with it.
//
// Typical use:
//
//	v, drop := p.Get()
//	defer drop()
func (p *Pool[T]) Get() (v *T, drop func()) {
	v, _ = p.impl.Get().(*T)
	if v == nil {
		if p.New != nil {
			v = p.New()
		} else {
			v = new(T)
		}
	}

	return v, func() {
		if p.Reset != nil {
			p.Reset(v)
		}
		p.impl.Put(v)
	}
}
