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
	"errors"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Errors reported by [Compile] for malformed descriptors. Match them with
// [errors.Is]; the concrete error carries the message and field names.
var (
	ErrUnknownKind          = errors.New("unknown field kind")
	ErrDuplicateFieldNumber = errors.New("duplicate field number")
	ErrDuplicateFieldName   = errors.New("duplicate field name")
	ErrTooManyFields        = errors.New("too many fields")
)

const (
	errCodeOk errCode = iota
	errCodeUnknownKind
	errCodeDupNumber
	errCodeDupName
	errCodeTooManyFields
)

type errCode int

var errs = [...]error{
	errCodeOk:            nil,
	errCodeUnknownKind:   ErrUnknownKind,
	errCodeDupNumber:     ErrDuplicateFieldNumber,
	errCodeDupName:       ErrDuplicateFieldName,
	errCodeTooManyFields: ErrTooManyFields,
}

// errCompile is an error returned by the layout compiler.
type errCompile struct {
	code    errCode
	message protoreflect.FullName
	field   protoreflect.Name
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *errCompile) Unwrap() error {
	return errs[e.code]
}

// Error implements [error].
func (e *errCompile) Error() string {
	if e.field == "" {
		return fmt.Sprintf("rawpb: cannot lay out %v: %v", e.message, e.Unwrap())
	}
	return fmt.Sprintf("rawpb: cannot lay out %v: field %q: %v", e.message, e.field, e.Unwrap())
}
