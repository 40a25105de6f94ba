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
	"math"
	"unsafe"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/rawpb/rawpb/internal/debug"
	"github.com/rawpb/rawpb/internal/swiss"
	"github.com/rawpb/rawpb/internal/xunsafe/layout"
)

// Compile compiles a message descriptor into a [MessageType].
//
// The returned type borrows md, which must outlive it. Type references of
// message, group and enum fields start out unresolved; fill them with
// [MessageType.Resolve], or use [CompileGraph] to compile and resolve a
// whole message graph at once.
//
// Compile fails if a field declares a kind it cannot lay out, or if two
// fields share a number or a name; no type is published in that case.
func Compile(md protoreflect.MessageDescriptor) (*MessageType, error) {
	fds := md.Fields()
	n := fds.Len()
	if n > math.MaxUint16 {
		return nil, &errCompile{code: errCodeTooManyFields, message: md.FullName()}
	}

	t := &MessageType{
		desc:          md,
		setFlagsBytes: uint32(n+7) / 8,
		fields:        make([]Field, 0, n),
		names:         make([][]byte, n),
		byNumber:      swiss.New[int32, AbbrevField](n),
		byName:        swiss.New[uint32, AbbrevField](n),
	}
	t.nameOf = func(i uint32) []byte { return t.names[i] }

	// Partition the fields into required first, then everything else,
	// preserving descriptor order within each group. Field indices are
	// assigned in the concatenated order, so indices 0..numRequired-1 are
	// the required fields and the "all required fields set" check reduces
	// to scanning the low-order flag bytes.
	for i := range n {
		if fds.Get(i).Cardinality() == protoreflect.Required {
			t.fields = append(t.fields, Field{desc: fds.Get(i)})
		}
	}
	t.numRequired = uint32(len(t.fields))
	for i := range n {
		if fds.Get(i).Cardinality() != protoreflect.Required {
			t.fields = append(t.fields, Field{desc: fds.Get(i)})
		}
	}

	// Lay out the slots: start past the bitmap, align each field's cursor
	// to the slot's natural alignment, and round the final size up to the
	// largest alignment seen. An empty message stays at size zero.
	cursor := int(t.setFlagsBytes)
	maxAlign := 1
	for i := range t.fields {
		f := &t.fields[i]
		lay, err := slotLayout(f.desc)
		if err != nil {
			return nil, err
		}

		cursor = layout.RoundUp(cursor, lay.Align)
		maxAlign = max(maxAlign, lay.Align)

		f.byteOffset = uint32(cursor)
		f.fieldIndex = uint16(i)
		f.kind = uint8(f.desc.Kind())
		cursor += lay.Size

		t.names[i] = []byte(f.desc.Name())
	}
	t.size = uint32(layout.RoundUp(cursor, maxAlign))

	// Populate both lookup indices with an abbreviated record per field.
	for i := range t.fields {
		f := &t.fields[i]

		slot, ok := t.byNumber.Insert(int32(f.desc.Number()))
		if !ok {
			return nil, &errCompile{
				code:    errCodeDupNumber,
				message: md.FullName(),
				field:   f.desc.Name(),
			}
		}
		*slot = f.AbbrevField

		slot, ok = t.byName.InsertFunc(uint32(i), t.nameOf)
		if !ok {
			return nil, &errCompile{
				code:    errCodeDupName,
				message: md.FullName(),
				field:   f.desc.Name(),
			}
		}
		*slot = f.AbbrevField
	}

	if debug.Enabled {
		debug.Log("compile", "%+v", t)
	}
	return t, nil
}

// slotLayout returns the size and alignment of the instance slot for a
// field. Alignment is computed from Go types, not from a hardcoded ABI
// table.
//
// A repeated field stores a pointer to an external [Array] regardless of
// its element type.
func slotLayout(fd protoreflect.FieldDescriptor) (layout.Layout, error) {
	if fd.Cardinality() == protoreflect.Repeated {
		return layout.Of[*Array](), nil
	}

	switch fd.Kind() {
	case protoreflect.DoubleKind, protoreflect.Int64Kind, protoreflect.Uint64Kind,
		protoreflect.Fixed64Kind, protoreflect.Sfixed64Kind, protoreflect.Sint64Kind:
		return layout.Of[uint64](), nil

	case protoreflect.FloatKind, protoreflect.Int32Kind, protoreflect.Uint32Kind,
		protoreflect.Fixed32Kind, protoreflect.Sfixed32Kind, protoreflect.Sint32Kind,
		protoreflect.EnumKind:
		return layout.Of[uint32](), nil

	case protoreflect.BoolKind:
		return layout.Of[bool](), nil

	case protoreflect.StringKind, protoreflect.BytesKind:
		return layout.Of[*String](), nil

	case protoreflect.MessageKind, protoreflect.GroupKind:
		return layout.Of[unsafe.Pointer](), nil

	default:
		return layout.Layout{}, &errCompile{
			code:    errCodeUnknownKind,
			message: fd.ContainingMessage().FullName(),
			field:   fd.Name(),
		}
	}
}
