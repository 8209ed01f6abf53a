// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape provides the shape and scalar/multi-type algebra shared
// by every operator the compiler knows how to compile: element counts,
// ranks, chunk vectors, and the packed-vector element types used by the
// generated WGSL shaders.
package shape

import "fmt"

// ScalarType is the closed set of element types the engine understands.
// Each value maps to exactly one WGSL scalar type.
type ScalarType int32

const (
	// ScalarF32 is a 32-bit IEEE-754 float, WGSL "f32".
	ScalarF32 ScalarType = iota
	// ScalarI32 is a 32-bit signed integer, WGSL "i32".
	ScalarI32
	// ScalarI64 is a 64-bit signed integer. WGSL has no native i64; values
	// are narrowed to a single 32-bit lane and the generated shaders address
	// them as i32.
	ScalarI64
	// ScalarU8 is an 8-bit unsigned integer, packed four-to-a-word in buffers.
	ScalarU8
)

// InvalidTypeError is returned by [ScalarTypeFromCode] when the given
// operator-format data-type code has no known mapping.
type InvalidTypeError struct {
	Code int32
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type encountered: unrecognized data type code %d", e.Code)
}

// the operator-exchange format's data-type enum codes for the scalar
// types this engine supports (the rest of that enum — e.g. complex,
// bfloat16 — has no entry here and maps to [InvalidTypeError]).
const (
	codeF32 int32 = 1
	codeU8  int32 = 2
	codeI64 int32 = 7
	codeI32 int32 = 6
)

// ScalarTypeFromCode maps an operator-format data-type enum code to a
// [ScalarType], or returns an [InvalidTypeError] if the code is not one of
// the scalar types this engine supports.
func ScalarTypeFromCode(code int32) (ScalarType, error) {
	switch code {
	case codeF32:
		return ScalarF32, nil
	case codeU8:
		return ScalarU8, nil
	case codeI64:
		return ScalarI64, nil
	case codeI32:
		return ScalarI32, nil
	default:
		return 0, &InvalidTypeError{Code: code}
	}
}

// WGSLTypeName returns the WGSL scalar type name for s.
func (s ScalarType) WGSLTypeName() string {
	switch s {
	case ScalarF32:
		return "f32"
	case ScalarI32:
		return "i32"
	case ScalarI64:
		return "i32" // narrowed to one i32 lane per element
	case ScalarU8:
		return "u32" // packed four-to-a-word
	default:
		return "f32"
	}
}

// Stride returns the size, in bytes, of one element of this scalar type
// as laid out in a storage buffer.
func (s ScalarType) Stride() uint64 {
	switch s {
	case ScalarU8:
		return 1
	default:
		return 4
	}
}

// String implements [fmt.Stringer].
func (s ScalarType) String() string {
	switch s {
	case ScalarF32:
		return "F32"
	case ScalarI32:
		return "I32"
	case ScalarI64:
		return "I64"
	case ScalarU8:
		return "U8"
	default:
		return fmt.Sprintf("ScalarType(%d)", int32(s))
	}
}
