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

// Options configures a single decode call.
type Options struct {
	// MaxDepth bounds sub-message nesting. Exceeding it fails with
	// ErrorRecursionLimit.
	MaxDepth int32

	// AllowAlias permits string and bytes fields to alias the input
	// buffer instead of copying into the arena. The caller must then keep
	// the input buffer alive for as long as the decoded message.
	AllowAlias bool

	// DiscardUnknown controls what happens to a field number absent from
	// the layout. This decoder has no unknown-field storage to preserve
	// them for later re-encoding, so the choice is between silently
	// skipping the value (true) and failing the decode with
	// ErrorUnknownField (false, the default) so the caller notices its
	// layout is stale instead of quietly losing data.
	DiscardUnknown bool
}

// DefaultMaxDepth is used when Options.MaxDepth is zero.
const DefaultMaxDepth = 100

func (o Options) maxDepth() int32 {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
