// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package attribute provides typed, default-substituting retrieval of
// operator attributes, decoded from the small closed set of value kinds
// the operator-exchange format supports: integers, floats, strings, and
// lists of integers or floats.
package attribute

import "fmt"

// Kind discriminates the payload actually stored in a [Value].
type Kind uint8

const (
	// KindInt is a single signed integer attribute.
	KindInt Kind = iota
	// KindFloat is a single floating-point attribute.
	KindFloat
	// KindString is a single string attribute.
	KindString
	// KindInts is a list-of-integer attribute.
	KindInts
	// KindFloats is a list-of-float attribute.
	KindFloats
)

// Value is a tagged union over the attribute kinds the operator-exchange
// format supports. Exactly one of the fields matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Str    string
	Ints   []int64
	Floats []float32
}

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Ints returns a list-of-integer Value.
func Ints(v []int64) Value { return Value{Kind: KindInts, Ints: v} }

// Floats returns a list-of-float Value.
func Floats(v []float32) Value { return Value{Kind: KindFloats, Floats: v} }

// NotFoundError is returned by [Get] when the named attribute is absent
// and no default was supplied.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("attribute not found: %s", e.Name)
}

// Get retrieves the attribute named name from attrs, decoding it into T.
// If the attribute is absent, def is returned when non-nil; otherwise a
// [*NotFoundError] is returned. The underlying [Kind] of the stored value
// is assumed to match T — a mismatch is a caller bug and is not recovered
// from here, per the attribute resolver's contract.
func Get[T any](name string, def *T, attrs map[string]Value) (T, error) {
	var zero T
	v, ok := attrs[name]
	if !ok {
		if def != nil {
			return *def, nil
		}
		return zero, &NotFoundError{Name: name}
	}

	switch any(zero).(type) {
	case int64:
		return any(v.Int).(T), nil
	case int:
		return any(int(v.Int)).(T), nil
	case float64:
		return any(v.Float).(T), nil
	case float32:
		return any(float32(v.Float)).(T), nil
	case string:
		return any(v.Str).(T), nil
	case []int64:
		return any(v.Ints).(T), nil
	case []float32:
		return any(v.Floats).(T), nil
	default:
		// Programmer error: T is not one of the supported attribute kinds.
		return zero, fmt.Errorf("attribute %q: unsupported target type %T", name, zero)
	}
}
