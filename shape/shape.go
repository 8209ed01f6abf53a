// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import "fmt"

// Shape is the ordered dimension vector and element type of one tensor.
// Shapes are read-only once constructed: the compiler borrows them and
// never mutates them.
type Shape struct {
	Dims     []uint64
	DataType ScalarType
}

// New constructs a Shape from a literal list of dimensions.
func New(dataType ScalarType, dims ...uint64) Shape {
	return Shape{Dims: dims, DataType: dataType}
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s.Dims) }

// Dim returns the size of dimension i.
func (s Shape) Dim(i int) uint64 { return s.Dims[i] }

// ElementCount returns the total number of scalar elements in the shape,
// i.e. the product of all dimensions (1 for a rank-0 shape).
func (s Shape) ElementCount() uint64 {
	n := uint64(1)
	for _, d := range s.Dims {
		n *= d
	}
	return n
}

// Chunks returns the chunk vector: for dims = [d0,...,d(k-1)], the chunk
// vector is [prod(dims[1:]), prod(dims[2:]), ..., prod(dims[k-1:]), 1].
// Its length equals rank and its last element is always 1. It is used by
// the generated shaders to translate a flat buffer index into a
// multidimensional tensor index.
func (s Shape) Chunks() []uint64 {
	r := s.Rank()
	if r == 0 {
		return nil
	}
	chunks := make([]uint64, r)
	chunks[r-1] = 1
	for i := r - 2; i >= 0; i-- {
		chunks[i] = chunks[i+1] * s.Dims[i+1]
	}
	return chunks
}

// String implements [fmt.Stringer], used in error messages.
func (s Shape) String() string {
	return fmt.Sprintf("%v (%s)", s.Dims, s.DataType)
}

// TypesDisagreeError is returned by [Agree] when two shapes in the same
// agreement set specify different scalar types.
type TypesDisagreeError struct {
	A, B ScalarType
}

func (e *TypesDisagreeError) Error() string {
	return fmt.Sprintf("cannot determine data type to use: %s or %s", e.A, e.B)
}

// TypeUnderspecifiedError is returned by [Agree] when neither the input
// nor the output set contains any shape to infer a type from.
type TypeUnderspecifiedError struct{}

func (e *TypeUnderspecifiedError) Error() string {
	return "cannot infer data type to use"
}

// Agree returns the single [ScalarType] shared by every shape in
// inputShapes and outputShapes, failing on the first mismatch or when both
// sets are empty.
func Agree(inputShapes, outputShapes []Shape) (ScalarType, error) {
	var dataType *ScalarType

	check := func(t ScalarType) error {
		if dataType == nil {
			dataType = &t
			return nil
		}
		if *dataType != t {
			return &TypesDisagreeError{A: *dataType, B: t}
		}
		return nil
	}

	for _, s := range inputShapes {
		if err := check(s.DataType); err != nil {
			return 0, err
		}
	}
	for _, s := range outputShapes {
		if err := check(s.DataType); err != nil {
			return 0, err
		}
	}

	if dataType == nil {
		return 0, &TypeUnderspecifiedError{}
	}
	return *dataType, nil
}
