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

	"google.golang.org/protobuf/reflect/protoreflect"
)

// AbbrevField is the abbreviated description of one field: exactly the data
// the hot path of a parser needs, stored by value inside each lookup-index
// slot so that a single slot hit also delivers the byte offset and type tag
// for decoding the value.
//
// The full [Field] is recovered with [MessageType.ByIndex], a single array
// index.
type AbbrevField struct {
	byteOffset uint32 // Where to find the data.
	fieldIndex uint16 // Indexes MessageType.fields. Also names the set bit.
	kind       uint8  // Copied from the descriptor for cache-friendliness.
	ref        TypeRef
}

// Offset returns the byte offset of this field's slot within an instance.
func (f *AbbrevField) Offset() int { return int(f.byteOffset) }

// Index returns this field's zero-based ordinal. It addresses both the
// [Field] in its [MessageType] and the field's is-set bit.
func (f *AbbrevField) Index() int { return int(f.fieldIndex) }

// Kind returns the field's declared kind.
func (f *AbbrevField) Kind() protoreflect.Kind { return protoreflect.Kind(f.kind) }

// Ref returns the resolved reference to the type this field points at.
//
// For message, group and enum fields the reference is unresolved until the
// caller (or [CompileGraph]) fills it in; see [MessageType.Resolve].
func (f *AbbrevField) Ref() TypeRef { return f.ref }

// Format implements [fmt.Formatter].
func (f *AbbrevField) Format(s fmt.State, verb rune) {
	fmt.Fprintf(s, "%d@%#04x:%v", f.fieldIndex, f.byteOffset, f.Kind())
}

// Field is the full description of one field of a [MessageType].
//
// Field embeds its own [AbbrevField], so everything the abbreviated record
// answers, the full record answers too.
type Field struct {
	desc protoreflect.FieldDescriptor // Borrowed from the source descriptor.
	AbbrevField
}

// Descriptor returns the source field descriptor.
func (f *Field) Descriptor() protoreflect.FieldDescriptor { return f.desc }

// TypeRef is a reference to the type a field points at: nothing at all for
// scalar fields, another [MessageType] for message and group fields, or an
// [EnumType] for enum fields. The discriminating tag is the field's kind.
//
// Refs start out unresolved so that mutually recursive message definitions
// can be compiled: construct every type first, then fill refs once all
// handles exist.
type TypeRef struct {
	message *MessageType
	enum    *EnumType
}

// MessageRef returns a reference to a message type.
func MessageRef(t *MessageType) TypeRef { return TypeRef{message: t} }

// EnumRef returns a reference to an enum type.
func EnumRef(e *EnumType) TypeRef { return TypeRef{enum: e} }

// Message returns the referenced message type, or nil if the reference is
// not a resolved message reference.
func (r TypeRef) Message() *MessageType { return r.message }

// Enum returns the referenced enum type, or nil if the reference is not a
// resolved enum reference.
func (r TypeRef) Enum() *EnumType { return r.enum }

// IsResolved reports whether this reference has been filled in.
func (r TypeRef) IsResolved() bool { return r.message != nil || r.enum != nil }

// EnumType is the compiled handle for an enum. Enum values occupy a 4-byte
// slot; the handle exists so that a [TypeRef] can lead back to the enum's
// descriptor.
type EnumType struct {
	desc protoreflect.EnumDescriptor
}

// Descriptor returns the source enum descriptor.
func (e *EnumType) Descriptor() protoreflect.EnumDescriptor { return e.desc }
