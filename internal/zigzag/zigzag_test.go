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

package zigzag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbopb/turbopb/internal/zigzag"
)

func TestDecode32(t *testing.T) {
	cases := []struct {
		raw  uint64
		want int32
	}{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, -2},
		{4294967294, 2147483647},
		{4294967295, -2147483648},
	}
	for _, c := range cases {
		require.Equal(t, c.want, zigzag.Decode[int32](c.raw), "raw=%d", c.raw)
	}
}

func TestDecode64(t *testing.T) {
	cases := []struct {
		raw  uint64
		want int64
	}{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, -2},
	}
	for _, c := range cases {
		require.Equal(t, c.want, zigzag.Decode[int64](c.raw), "raw=%d", c.raw)
	}
}
