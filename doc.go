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

// Package rawpb is a run-time message-layout engine for Protobuf. Given a
// [protoreflect.MessageDescriptor], it computes a C-struct-like in-memory
// layout for the message: a byte offset for each field, a packed bitmap of
// is-set flags, and two cache-friendly lookup indices, one keyed by field
// number and one by field name.
//
// To use this package, compile a [MessageType] with [Compile] (or a whole
// graph of mutually recursive types with [CompileGraph]). This is a one-time
// cost. Field values are then read and written directly on a caller-owned
// byte image with [Get], [Set] and friends, so touching a field costs about
// as much as accessing a member of a generated struct, while the layout
// remains fully discoverable at run time.
//
// # Instance format
//
// An instance of a compiled type is a contiguous byte buffer of
// [MessageType.Size] bytes: first [MessageType.SetFlagsBytes] bytes of
// presence bitmap, then each field at its recorded offset. Scalars occupy
// their natural size at their natural alignment; strings, bytes, submessages
// and every repeated field occupy one pointer-sized slot referring to
// externally managed storage.
//
// The format is host-endian and host-alignment dependent; it is a random
// access format, not an interchange format. Use the Protobuf wire format to
// move data between machines.
//
// # What this package does not do
//
// The accessors perform no presence, bounds or type checks; callers gate
// reads with [IsSet] and record writes with [MarkSet] themselves. The
// package never allocates or frees instance memory and knows nothing about
// the lifetime of the storage that pointer-typed slots refer to. In
// particular, the instance image is invisible to the garbage collector:
// whatever a [String], [Array] or submessage slot points at must be kept
// alive by the caller for as long as it may be read.
//
// Concurrent lookups and reads on a compiled [MessageType] are safe, since
// the structure is immutable after construction. Concurrent mutation of a
// single instance requires external synchronization.
package rawpb
