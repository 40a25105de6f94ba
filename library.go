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
	"iter"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Library is a registry of compiled types, keyed by full name. It owns the
// [MessageType] and [EnumType] handles that resolved [TypeRef] values borrow,
// so no ownership cycle forms even when message types reference each other.
type Library struct {
	messages map[protoreflect.FullName]*MessageType
	enums    map[protoreflect.FullName]*EnumType
}

// CompileGraph compiles md and every message type reachable from it, then
// resolves all type references.
//
// Construction runs in two passes so that cyclic (including self-referential)
// message definitions work: first every reachable type is compiled with
// unresolved refs, then each ref is filled via [MessageType.Resolve].
func CompileGraph(md protoreflect.MessageDescriptor) (*Library, error) {
	l := &Library{
		messages: make(map[protoreflect.FullName]*MessageType),
		enums:    make(map[protoreflect.FullName]*EnumType),
	}
	if err := l.add(md); err != nil {
		return nil, err
	}

	for _, t := range l.messages {
		for i := range t.fields {
			fd := t.fields[i].desc
			switch {
			case fd.Message() != nil:
				t.Resolve(i, MessageRef(l.messages[fd.Message().FullName()]))
			case fd.Enum() != nil:
				t.Resolve(i, EnumRef(l.enums[fd.Enum().FullName()]))
			}
		}
	}
	return l, nil
}

// add compiles md and recurses into its submessage fields. The type is
// registered before recursing, which is what terminates cycles.
func (l *Library) add(md protoreflect.MessageDescriptor) error {
	name := md.FullName()
	if _, ok := l.messages[name]; ok {
		return nil
	}

	t, err := Compile(md)
	if err != nil {
		return err
	}
	l.messages[name] = t

	for i := range t.fields {
		fd := t.fields[i].desc
		switch {
		case fd.Message() != nil:
			if err := l.add(fd.Message()); err != nil {
				return err
			}
		case fd.Enum() != nil:
			ed := fd.Enum()
			if _, ok := l.enums[ed.FullName()]; !ok {
				l.enums[ed.FullName()] = &EnumType{desc: ed}
			}
		}
	}
	return nil
}

// Lookup returns the compiled type with the given full name, or nil if the
// library does not contain it.
func (l *Library) Lookup(name protoreflect.FullName) *MessageType {
	return l.messages[name]
}

// LookupEnum returns the enum handle with the given full name, or nil.
func (l *Library) LookupEnum(name protoreflect.FullName) *EnumType {
	return l.enums[name]
}

// Types ranges over the compiled message types in the library.
func (l *Library) Types() iter.Seq2[protoreflect.FullName, *MessageType] {
	return func(yield func(protoreflect.FullName, *MessageType) bool) {
		for name, t := range l.messages {
			if !yield(name, t) {
				return
			}
		}
	}
}
