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
	"fmt"
	"iter"
	"unsafe"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/rawpb/rawpb/internal/debug"
	"github.com/rawpb/rawpb/internal/swiss"
)

// MessageType is the compiled, run-time layout of one message schema.
//
// A MessageType is built once by [Compile], is immutable thereafter (except
// for ref resolution, see [MessageType.Resolve]), and may be shared freely
// between goroutines. It borrows its descriptor, which must outlive it.
type MessageType struct {
	desc protoreflect.MessageDescriptor

	size          uint32
	setFlagsBytes uint32
	numRequired   uint32

	// Ordered by field index; the index also names each field's set bit.
	// Required fields come first.
	fields []Field

	byNumber *swiss.Table[int32, AbbrevField]
	byName   *swiss.Table[uint32, AbbrevField]

	// byName keys are field indices; nameOf recovers the key bytes. The
	// closure is built once at compile time so lookups do not allocate.
	names  [][]byte
	nameOf func(uint32) []byte
}

// Descriptor returns the source message descriptor.
func (t *MessageType) Descriptor() protoreflect.MessageDescriptor {
	if t == nil {
		return nil
	}
	return t.desc
}

// Size returns the total number of bytes of an instance of this type.
func (t *MessageType) Size() int { return int(t.size) }

// SetFlagsBytes returns how many leading bytes of an instance hold the
// is-set bitmap.
func (t *MessageType) SetFlagsBytes() int { return int(t.setFlagsBytes) }

// NumFields returns the number of fields of this type.
func (t *MessageType) NumFields() int { return len(t.fields) }

// NumRequiredFields returns the number of required fields. Required fields
// occupy bit indices 0 through NumRequiredFields-1.
func (t *MessageType) NumRequiredFields() int { return int(t.numRequired) }

// ByIndex returns the field with the given field index.
//
// This function does not perform bounds checks.
func (t *MessageType) ByIndex(n int) *Field {
	return &t.fields[n]
}

// ByNumber looks up a field by its descriptor number.
//
// Returns nil if there is no such field. The returned record is resident in
// the index slot: it is not a copy, and it remains valid as long as t lives.
func (t *MessageType) ByNumber(n protoreflect.FieldNumber) *AbbrevField {
	return t.byNumber.Lookup(int32(n))
}

// ByName looks up a field by its descriptor name, given as a byte string.
//
// Returns nil if there is no such field. Like [MessageType.ByNumber], the
// returned record is resident in the index slot; the lookup neither copies
// nor allocates.
func (t *MessageType) ByName(name []byte) *AbbrevField {
	return t.byName.LookupFunc(name, t.nameOf)
}

// Fields ranges over this type's fields in field-index order.
func (t *MessageType) Fields() iter.Seq2[int, *Field] {
	return func(yield func(int, *Field) bool) {
		for i := range t.fields {
			if !yield(i, &t.fields[i]) {
				return
			}
		}
	}
}

// Resolve fills in the type reference of the field with index n, updating
// the field record and both lookup-index slots.
//
// Resolution is a separate pass from [Compile] so that mutually recursive
// message definitions can be built: construct all types first with
// unresolved refs, then fill each ref once all handles are known.
// [CompileGraph] drives this automatically.
//
// Resolve is not safe to call concurrently with lookups on t.
func (t *MessageType) Resolve(n int, ref TypeRef) {
	f := &t.fields[n]
	f.ref = ref
	if a := t.byNumber.Lookup(int32(f.desc.Number())); a != nil {
		a.ref = ref
	}
	if a := t.byName.LookupFunc(t.names[n], t.nameOf); a != nil {
		a.ref = ref
	}
	debug.Log("resolve", "%v.%v -> %v", t.desc.FullName(), f.desc.Name(), ref)
}

// New allocates a zeroed instance of this type and returns its base pointer.
//
// This is a convenience only; any caller-owned buffer of [MessageType.Size]
// bytes works, see [MessageType.Instance].
func (t *MessageType) New() unsafe.Pointer {
	return t.Instance(make([]byte, max(t.size, 1)))
}

// Instance returns the instance base pointer for a caller-owned buffer. The
// buffer must be at least [MessageType.Size] bytes and must be kept alive by
// the caller for as long as the instance is in use.
func (t *MessageType) Instance(buf []byte) unsafe.Pointer {
	debug.Assert(len(buf) >= int(t.size), "undersized instance buffer")
	return unsafe.Pointer(unsafe.SliceData(buf))
}

// Format implements [fmt.Formatter].
//
// Plain %v prints the type's full name; %+v additionally dumps the computed
// layout, one field per line in offset order.
func (t *MessageType) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, t.desc.FullName())
	if verb != 'v' || !s.Flag('+') {
		return
	}

	fmt.Fprintf(s, " [%d:%d]", t.size, t.setFlagsBytes)
	for i := range t.fields {
		f := &t.fields[i]
		lay, _ := slotLayout(f.desc)
		fmt.Fprintf(s, "\n  %#04x(%d)[%d:%d] %s: %s%v",
			f.byteOffset, f.fieldIndex, lay.Size, lay.Align,
			f.desc.Name(), cardinalityPrefix(f.desc), f.Kind())
	}
}

func cardinalityPrefix(fd protoreflect.FieldDescriptor) string {
	switch fd.Cardinality() {
	case protoreflect.Required:
		return "required "
	case protoreflect.Repeated:
		return "repeated "
	default:
		return ""
	}
}
