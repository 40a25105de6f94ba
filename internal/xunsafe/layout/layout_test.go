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

package layout_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/rawpb/rawpb/internal/xunsafe/layout"
)

func TestAlign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 8, layout.RoundUp(8, 8))
	assert.Equal(t, 16, layout.RoundUp(9, 8))
	assert.Equal(t, 16, layout.RoundUp(15, 8))
	assert.Equal(t, 16, layout.RoundUp(16, 8))
	assert.Equal(t, 4, layout.RoundUp(1, 4))
	assert.Equal(t, 0, layout.RoundUp(0, 8))

	assert.Equal(t, 0, layout.Padding(8, 8))
	assert.Equal(t, 7, layout.Padding(9, 8))
	assert.Equal(t, 1, layout.Padding(15, 8))
	assert.Equal(t, 0, layout.Padding(16, 8))
}

func TestOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, layout.Layout{Size: 8, Align: 8}, layout.Of[uint64]())
	assert.Equal(t, layout.Layout{Size: 4, Align: 4}, layout.Of[int32]())
	assert.Equal(t, layout.Layout{Size: 1, Align: 1}, layout.Of[bool]())
	assert.Equal(t,
		layout.Layout{Size: layout.Size[unsafe.Pointer](), Align: layout.Align[unsafe.Pointer]()},
		layout.Of[unsafe.Pointer]())

	assert.Equal(t, layout.Layout{Size: 8, Align: 8}, layout.Of[int32]().Max(layout.Of[float64]()))
}
