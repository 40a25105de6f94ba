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
	"bytes"
	"fmt"
	"unsafe"
)

// String is a length-counted byte buffer, not NUL-terminated. String and
// bytes field slots hold a *String referring to externally managed storage.
//
// The zero value faithfully represents an empty string.
type String struct {
	Data *byte
	Len  uint32
}

// StringOf returns a String viewing b. The returned value aliases b's
// storage; it does not copy.
func StringOf(b []byte) String {
	return String{Data: unsafe.SliceData(b), Len: uint32(len(b))}
}

// Bytes returns the bytes of s, without copying.
func (s String) Bytes() []byte {
	if s.Len == 0 {
		return nil
	}
	return unsafe.Slice(s.Data, s.Len)
}

// Text converts s into a Go string, without copying. The result is only as
// immutable as the underlying storage.
func (s String) Text() string {
	if s.Len == 0 {
		return ""
	}
	return unsafe.String(s.Data, s.Len)
}

// Equal reports whether two strings hold equal bytes.
func (s String) Equal(that String) bool {
	return bytes.Equal(s.Bytes(), that.Bytes())
}

// Format implements [fmt.Formatter].
func (s String) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), s.Text())
}
