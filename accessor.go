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

// Value is any type that may occupy a field slot: the scalar slot types,
// plus the pointer slot types used by strings, bytes, submessages and
// repeated fields.
type Value interface {
	~bool |
		~int32 | ~int64 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~*String | ~*Array | ~unsafe.Pointer
}

// GetPtr returns a pointer to the slot of field f in instance m: the
// instance base plus the field's byte offset, reinterpreted as T. Never nil.
//
// Like the rest of the typed access surface, this performs no presence,
// bounds or type check. The caller gates reads with [IsSet], records writes
// with [MarkSet], and supplies a field whose slot type matches T; mismatches
// are undefined.
func GetPtr[T Value](m unsafe.Pointer, f *AbbrevField) *T {
	return xunsafe.Cast[T](xunsafe.ByteAdd((*byte)(m), f.byteOffset))
}

// Get loads the value of field f out of instance m.
func Get[T Value](m unsafe.Pointer, f *AbbrevField) T {
	return *GetPtr[T](m, f)
}

// Set stores v into the slot of field f in instance m.
//
// Set does not mark the field present, and for pointer-typed slots it does
// not keep the pointee alive; the caller does both.
func Set[T Value](m unsafe.Pointer, f *AbbrevField, v T) {
	*GetPtr[T](m, f) = v
}
