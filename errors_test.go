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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/rawpb/rawpb"
)

// protodesc refuses to materialize descriptors with duplicate numbers or
// names, so the malformed-descriptor paths are driven through hand-rolled
// descriptor stubs. Only the methods the layout compiler touches are
// implemented; anything else panics through the embedded nil interface.

type stubMessage struct {
	protoreflect.MessageDescriptor
	fields stubFields
}

func (m stubMessage) FullName() protoreflect.FullName       { return "rawpb.test.Stub" }
func (m stubMessage) Fields() protoreflect.FieldDescriptors { return m.fields }

type stubFields struct {
	protoreflect.FieldDescriptors
	list []protoreflect.FieldDescriptor
	len  int // Overrides len(list) when nonzero.
}

func (f stubFields) Len() int {
	if f.len != 0 {
		return f.len
	}
	return len(f.list)
}

func (f stubFields) Get(i int) protoreflect.FieldDescriptor { return f.list[i] }

type stubField struct {
	protoreflect.FieldDescriptor
	name   protoreflect.Name
	number protoreflect.FieldNumber
	kind   protoreflect.Kind
	card   protoreflect.Cardinality
}

func (f stubField) Name() protoreflect.Name               { return f.name }
func (f stubField) Number() protoreflect.FieldNumber      { return f.number }
func (f stubField) Kind() protoreflect.Kind               { return f.kind }
func (f stubField) Cardinality() protoreflect.Cardinality { return f.card }

func (f stubField) ContainingMessage() protoreflect.MessageDescriptor {
	return stubMessage{}
}

func stubDesc(fields ...protoreflect.FieldDescriptor) protoreflect.MessageDescriptor {
	return stubMessage{fields: stubFields{list: fields}}
}

func TestDuplicateFieldNumber(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(stubDesc(
		stubField{name: "x", number: 1, kind: protoreflect.Int32Kind, card: protoreflect.Optional},
		stubField{name: "y", number: 1, kind: protoreflect.Int32Kind, card: protoreflect.Optional},
	))
	assert.Nil(t, m)
	require.ErrorIs(t, err, rawpb.ErrDuplicateFieldNumber)
	assert.Contains(t, err.Error(), "rawpb.test.Stub")
}

func TestDuplicateFieldName(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(stubDesc(
		stubField{name: "x", number: 1, kind: protoreflect.Int32Kind, card: protoreflect.Optional},
		stubField{name: "x", number: 2, kind: protoreflect.BoolKind, card: protoreflect.Optional},
	))
	assert.Nil(t, m)
	require.ErrorIs(t, err, rawpb.ErrDuplicateFieldName)
}

func TestUnknownKind(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(stubDesc(
		stubField{name: "x", number: 1, kind: protoreflect.Kind(0), card: protoreflect.Optional},
	))
	assert.Nil(t, m)
	require.ErrorIs(t, err, rawpb.ErrUnknownKind)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestTooManyFields(t *testing.T) {
	t.Parallel()

	m, err := rawpb.Compile(stubMessage{fields: stubFields{len: 1 << 17}})
	assert.Nil(t, m)
	require.ErrorIs(t, err, rawpb.ErrTooManyFields)
}
