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
	"github.com/turbopb/turbopb/internal/arena"
	"github.com/turbopb/turbopb/internal/pool"
	"github.com/turbopb/turbopb/internal/xunsafe"
)

// decoderPool reuses Decoder structs across calls to Decode: every decode
// allocates one regardless of how deeply it recurses (recursion reuses the
// same struct through the Go call stack), so the struct itself is
// the only per-call allocation left worth pooling.
var decoderPool = pool.Pool[Decoder]{
	Reset: func(d *Decoder) { *d = Decoder{} },
}

// NewDecoder prepares a Decoder to parse a conditioned input buffer of the
// given logical length, starting at src. src must have at least
// BoundsPad bytes of safe-to-read padding past src+length; the caller
// (package turbopb's Decode) is responsible for conditioning the buffer
// before calling this.
//
// The returned Decoder is borrowed from a pool and must not be used again
// after Decode returns.
func NewDecoder(a *arena.Arena, src xunsafe.Addr[byte], length int, opts Options) *Decoder {
	end := src.Add(length)

	d, release := decoderPool.Get()
	d.ptr = src
	d.end = end
	d.limit = 0
	d.limitPtr = end
	d.src = src
	d.alias = opts.AllowAlias
	d.arena = a
	d.depth = opts.maxDepth()
	d.opts = opts
	d.release = release
	return d
}

// Decode runs the dispatch core over the prepared Decoder against root,
// a message record already allocated for layout (see AllocMessage), and
// returns the Decoder to its pool.
func (d *Decoder) Decode(root xunsafe.Addr[byte], layout *Layout) *ParseError {
	d.msg = root
	d.table = layout
	err := d.run()
	release := d.release
	release()
	return err
}
