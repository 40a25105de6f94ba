// Copyright 2026 The rawpb Authors
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

package rawpb

import (
	"unsafe"

	"github.com/rawpb/rawpb/internal/xunsafe"
)

// Array is the header for a repeated field of any type. A repeated field's
// instance slot holds a *Array; element storage is managed externally, and
// the element stride derives from the field's type.
type Array struct {
	Data unsafe.Pointer // Element storage.
	Len  uint32         // Measured in elements.
}

// ArrayOf returns an Array header viewing the elements of s, without
// copying. The caller keeps s alive.
func ArrayOf[T Value](s []T) Array {
	return Array{Data: unsafe.Pointer(unsafe.SliceData(s)), Len: uint32(len(s))}
}

// ArrayPtr returns a pointer to the nth element of a, as a T.
//
// Like [GetPtr], this performs no bounds or type check. Protobuf does not
// encode arrays of arrays, so T is never *Array in practice.
func ArrayPtr[T Value](a *Array, n int) *T {
	return xunsafe.Add((*T)(a.Data), n)
}

// ArrayGet loads the nth element of a.
func ArrayGet[T Value](a *Array, n int) T {
	return *ArrayPtr[T](a, n)
}

// ArraySet stores v into the nth element of a.
func ArraySet[T Value](a *Array, n int, v T) {
	*ArrayPtr[T](a, n) = v
}

// Slice converts a into a slice of T, without copying.
func Slice[T Value](a *Array) []T {
	if a.Len == 0 {
		return nil
	}
	return unsafe.Slice((*T)(a.Data), a.Len)
}
