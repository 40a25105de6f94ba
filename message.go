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

// Operations on the is-set bitmap at the front of an instance. Bit i of the
// bitmap belongs to the field with field index i: byte i/8, mask 1<<(i%8).
//
// None of these touch field slots or any memory those slots reference; any
// such memory management is the caller's responsibility. They cannot fail
// given a well-formed (instance, field, type) triple.

func isSetOffset(n uint16) int { return int(n) / 8 }
func isSetMask(n uint16) byte  { return 1 << (n % 8) }

// MarkSet marks field f of instance m as present.
func MarkSet(m unsafe.Pointer, f *AbbrevField) {
	p := xunsafe.Add((*byte)(m), isSetOffset(f.fieldIndex))
	*p |= isSetMask(f.fieldIndex)
}

// MarkUnset marks field f of instance m as absent.
func MarkUnset(m unsafe.Pointer, f *AbbrevField) {
	p := xunsafe.Add((*byte)(m), isSetOffset(f.fieldIndex))
	*p &^= isSetMask(f.fieldIndex)
}

// IsSet reports whether field f of instance m is marked present.
func IsSet(m unsafe.Pointer, f *AbbrevField) bool {
	return xunsafe.Load((*byte)(m), isSetOffset(f.fieldIndex))&isSetMask(f.fieldIndex) != 0
}

// Clear marks every field of instance m unset by zeroing the bitmap prefix.
// Field slots are left untouched.
func Clear(m unsafe.Pointer, t *MessageType) {
	if t.setFlagsBytes == 0 {
		return
	}
	b := unsafe.Slice((*byte)(m), t.setFlagsBytes)
	for i := range b {
		b[i] = 0
	}
}

// AllRequiredSet reports whether every required field of instance m is
// marked present.
//
// Because required fields occupy the lowest bit indices, this is a scan of
// the low-order flag bytes: full bytes compare against 0xFF, and the partial
// trailing byte is masked down to the required bits so that set optional
// fields sharing the byte cannot cause a false negative.
func AllRequiredSet(m unsafe.Pointer, t *MessageType) bool {
	r := int(t.numRequired)
	p := (*byte)(m)

	i := 0
	for ; r >= 8; r -= 8 {
		if xunsafe.Load(p, i) != 0xff {
			return false
		}
		i++
	}
	if r > 0 {
		mask := byte(1<<r) - 1
		if xunsafe.Load(p, i)&mask != mask {
			return false
		}
	}
	return true
}
