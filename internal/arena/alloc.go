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

package arena

import (
	"math/bits"
	"reflect"
	"unsafe"

	"github.com/turbopb/turbopb/internal/xunsafe"
)

func suggestSizeLog(size int) uint {
	return max(6, uint(bits.Len(uint(size)-1)))
}

func (a *Arena) allocChunk(size int) (*byte, int) {
	log := suggestSizeLog(size)
	n := 1 << log
	if int(log) < len(a.blocks) {
		if a.blocks[log] == nil {
			a.blocks[log] = allocTraceable(n, unsafe.Pointer(a))
		}
		return a.blocks[log], n
	}

	p := allocTraceable(n, unsafe.Pointer(a))
	a.blocks = append(a.blocks, make([]*byte, int(log+1)-len(a.blocks))...)
	a.blocks[log] = p
	return p, n
}

// allocTraceable allocates size bytes of GC-visible memory, shaped so that a
// pointer anywhere inside the returned region keeps owner alive too. See the
// package doc comment for why this matters.
func allocTraceable(size int, owner unsafe.Pointer) *byte {
	size += Align - 1
	size &^= (Align - 1)

	var shape reflect.Type
	if log := bits.TrailingZeros(uint(size)); size != 0 && 1<<log == size && log < len(chunkShapes) {
		shape = chunkShapes[log]
	} else {
		shape = chunkShape(size)
	}

	p := (*byte)(reflect.New(shape).UnsafePointer())
	xunsafe.ByteStore(p, size, owner)
	return p
}

var chunkShapes [bits.UintSize - 1]reflect.Type

func init() {
	for i := range chunkShapes {
		chunkShapes[i] = chunkShape(1 << i)
	}
}

func chunkShape(size int) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "Data", Type: reflect.ArrayOf(size, reflect.TypeFor[byte]())},
		{Name: "Owner", Type: reflect.TypeFor[unsafe.Pointer]()},
	})
}
