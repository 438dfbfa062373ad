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

// Package turbopb decodes length-prefixed binary records against a
// compiled field layout, using a 32-slot tag-dispatch table to route each
// field straight to a specialised parser instead of a generic switch over
// wire type and field number.
//
// Build a [Layout] once per message shape with [NewLayout], then call
// [Decode] as many times as needed
// against that layout. A Layout is safe for concurrent use by multiple
// decodes; a single decode is not safe for concurrent use by multiple
// goroutines.
package turbopb
