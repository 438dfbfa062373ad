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

//go:build !tdpdebug

// Package debug contains debugging helpers used throughout the decoder.
//
// Everything in this file compiles to nothing when the tdpdebug build tag
// is absent: [Enabled] becomes a compile-time constant false, so the Go
// compiler deletes every `if debug.Enabled { ... }` block and the calls to
// [Log] and [Assert] along with it. Build with `-tags tdpdebug` to get
// full tracing of the decode loop.
package debug

// Enabled is true only in builds tagged tdpdebug.
const Enabled = false

// Log prints debugging information to stderr. A no-op in release builds.
func Log(context []any, operation string, format string, args ...any) {}

// Assert panics if cond is false. A no-op in release builds: callers must
// not rely on side effects inside the cond expression evaluation being
// elided, since Go does not guarantee this without the build tag check
// being constant-folded away, which it is here.
func Assert(cond bool, format string, args ...any) {}
