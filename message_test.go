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

package rawpb_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/rawpb/rawpb"
)

func TestBitmapOps(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(scenarioDesc(t))
	require.NoError(t, err)

	s := m.New()
	for _, f := range m.Fields() {
		a := &f.AbbrevField
		assert.False(t, rawpb.IsSet(s, a))

		// Both operations are idempotent.
		rawpb.MarkSet(s, a)
		assert.True(t, rawpb.IsSet(s, a))
		rawpb.MarkSet(s, a)
		assert.True(t, rawpb.IsSet(s, a))

		rawpb.MarkUnset(s, a)
		assert.False(t, rawpb.IsSet(s, a))
		rawpb.MarkUnset(s, a)
		assert.False(t, rawpb.IsSet(s, a))
	}

	// Bits are independent of each other.
	rawpb.MarkSet(s, &m.ByIndex(0).AbbrevField)
	rawpb.MarkSet(s, &m.ByIndex(2).AbbrevField)
	assert.True(t, rawpb.IsSet(s, &m.ByIndex(0).AbbrevField))
	assert.False(t, rawpb.IsSet(s, &m.ByIndex(1).AbbrevField))
	assert.True(t, rawpb.IsSet(s, &m.ByIndex(2).AbbrevField))
}

func TestClear(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(scenarioDesc(t))
	require.NoError(t, err)

	buf := make([]byte, m.Size())
	for i := range buf {
		buf[i] = 0xaa
	}

	s := m.Instance(buf)
	rawpb.Clear(s, m)

	// The bitmap prefix is zeroed; field slots are untouched.
	for i, b := range buf {
		if i < m.SetFlagsBytes() {
			assert.Zero(t, b)
		} else {
			assert.Equal(t, byte(0xaa), b)
		}
	}
	for _, f := range m.Fields() {
		assert.False(t, rawpb.IsSet(s, &f.AbbrevField))
	}
}

func TestAllRequiredSet(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(scenarioDesc(t))
	require.NoError(t, err)

	fA := m.ByNumber(1)
	fB := m.ByNumber(2)
	fC := m.ByNumber(3)

	s := m.New()
	rawpb.Clear(s, m)
	assert.False(t, rawpb.AllRequiredSet(s, m))

	rawpb.MarkSet(s, fA)
	assert.False(t, rawpb.AllRequiredSet(s, m))

	rawpb.MarkSet(s, fC)
	assert.True(t, rawpb.AllRequiredSet(s, m))

	// The optional field's bit lives in the same byte; it must not affect
	// the answer in either direction.
	rawpb.MarkSet(s, fB)
	assert.True(t, rawpb.AllRequiredSet(s, m))
	rawpb.MarkUnset(s, fC)
	assert.False(t, rawpb.AllRequiredSet(s, m))
}

func TestAllRequiredSetManyFields(t *testing.T) {
	t.Parallel()

	// Nine required fields spill the required bits into a second bitmap
	// byte, exercising both the full-byte scan and the trailing mask.
	var fields []*descriptorpb.FieldDescriptorProto
	for i := int32(1); i <= 9; i++ {
		fields = append(fields,
			fieldProto(fmt.Sprintf("r%d", i), i, required, descriptorpb.FieldDescriptorProto_TYPE_INT32))
	}
	fields = append(fields,
		fieldProto("opt", 10, optional, descriptorpb.FieldDescriptorProto_TYPE_BOOL))

	m, err := rawpb.Compile(messageDesc(t, fields...))
	require.NoError(t, err)
	require.Equal(t, 9, m.NumRequiredFields())
	require.Equal(t, 2, m.SetFlagsBytes())

	s := m.New()
	for i := range 9 {
		assert.False(t, rawpb.AllRequiredSet(s, m))
		rawpb.MarkSet(s, &m.ByIndex(i).AbbrevField)
	}
	assert.True(t, rawpb.AllRequiredSet(s, m))

	// The optional field shares the trailing byte with required bit 8.
	opt := m.ByName([]byte("opt"))
	rawpb.MarkSet(s, opt)
	assert.True(t, rawpb.AllRequiredSet(s, m))

	rawpb.MarkUnset(s, &m.ByIndex(8).AbbrevField)
	assert.False(t, rawpb.AllRequiredSet(s, m))

	rawpb.MarkUnset(s, &m.ByIndex(0).AbbrevField)
	rawpb.MarkSet(s, &m.ByIndex(8).AbbrevField)
	assert.False(t, rawpb.AllRequiredSet(s, m))
}
