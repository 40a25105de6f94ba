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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestH2NeverEmpty(t *testing.T) {
	t.Parallel()

	// The control byte for an occupied slot must never collide with the
	// empty marker.
	for i := range 1 << 12 {
		h := fxhash(0).u64(uint64(i))
		assert.NotEqual(t, byte(empty), h.h2())
	}
}

func TestBytesDeterminism(t *testing.T) {
	t.Parallel()

	seed := fxhash(0x1234)
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("field_name"),
		[]byte("exactly8"),
		[]byte("just over eight bytes"),
		make([]byte, 1024),
	}
	for _, in := range inputs {
		assert.Equal(t, seed.bytes(in), seed.bytes(append([]byte(nil), in...)))
	}

	// Length participates in the hash, so a prefix hashes differently.
	assert.NotEqual(t, seed.bytes([]byte("field_name")), seed.bytes([]byte("field_nam")))
}

func TestZext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0xff), zext(int8(-1)))
	assert.Equal(t, uint64(0xffff_ffff), zext(int32(-1)))
	assert.Equal(t, uint64(7), zext(uint16(7)))
}
