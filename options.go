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
	"github.com/tiendc/go-deepcopy"

	"github.com/turbopb/turbopb/internal/tdp"
)

// Options configures a single [Decode] call. The zero value is a usable
// default: a max nesting depth of [tdp.DefaultMaxDepth], no input aliasing,
// and decoding fails on a field number absent from the layout rather than
// silently dropping it.
type Options struct {
	impl tdp.Options
}

// DecodeOption mutates an Options value. Constructed with the With*
// functions below; the indirection keeps the option set extensible
// without breaking callers as new knobs are added.
type DecodeOption struct{ apply func(*Options) }

// WithMaxDepth sets the maximum sub-message nesting depth. Exceeding it
// fails the decode with [ErrorRecursionLimit]. Setting a very large value
// reopens a stack-exhaustion DoS vector the limit exists to close.
func WithMaxDepth(depth int) DecodeOption {
	return DecodeOption{func(o *Options) { o.impl.MaxDepth = int32(depth) }}
}

// WithAllowAlias sets whether string and bytes fields may alias the input
// buffer instead of being copied into the decode arena. Aliasing avoids a
// copy but requires the caller keep the input slice alive and unmodified
// for as long as the decoded message is in use.
func WithAllowAlias(allow bool) DecodeOption {
	return DecodeOption{func(o *Options) { o.impl.AllowAlias = allow }}
}

// WithDiscardUnknown sets whether a field number absent from the layout
// is silently skipped (true) instead of failing the decode with
// [ErrorUnknownField] (false, the default). This decoder has no
// unknown-field storage, so "discard" is the only way to tolerate a
// layout that's missing fields the input actually contains.
func WithDiscardUnknown(discard bool) DecodeOption {
	return DecodeOption{func(o *Options) { o.impl.DiscardUnknown = discard }}
}

func newOptions(opts []DecodeOption) tdp.Options {
	var o Options
	for _, opt := range opts {
		if opt.apply != nil {
			opt.apply(&o)
		}
	}
	return o.impl
}

// Clone returns a deep copy of o, safe to mutate independently of the
// original. Options currently holds no pointer-valued fields, but decode
// callers that hand an Options value across goroutines should still clone
// it first: a future profiling hook or resolver field would otherwise be
// shared mutable state between concurrent decodes.
func (o Options) Clone() (Options, error) {
	var clone Options
	if err := deepcopy.Copy(&clone.impl, &o.impl); err != nil {
		return Options{}, err
	}
	return clone, nil
}
