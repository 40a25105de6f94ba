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

package swiss

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"unsafe"
)

// fxhash is a simple hasher.
type fxhash uint64

func (h fxhash) h1() uint64 { return uint64(h >> 7) }

// h2 is the per-slot control byte. The complement keeps the high bit set, so
// an occupied slot is never confused with an empty one.
func (h fxhash) h2() byte { return ^(byte(h) & 0x7f) }

// zext zero-extends k regardless of its sign.
func zext[T Key](k T) uint64 {
	n := uint64(k)
	n &= 1<<(8*unsafe.Sizeof(k)) - 1
	return n
}

func (h fxhash) u64(n uint64) fxhash {
	const (
		rotate = 5
		key    = 0x517cc1b727220a95
	)

	// See https://docs.rs/fxhash.
	hi, lo := bits.Mul64(bits.RotateLeft64(uint64(h), rotate)^n, key)
	return fxhash(lo ^ hi)
}

func (h fxhash) bytes(b []byte) fxhash {
	h = h.u64(uint64(len(b)))
	for len(b) >= 8 {
		h = h.u64(binary.LittleEndian.Uint64(b))
		b = b[8:]
	}
	if len(b) > 0 {
		var tail [8]byte
		copy(tail[:], b)
		h = h.u64(binary.LittleEndian.Uint64(tail[:]))
	}
	return h
}

// String implements [fmt.Stringer].
func (h fxhash) String() string {
	return fmt.Sprintf("%015x:%02x", h.h1(), h.h2())
}
