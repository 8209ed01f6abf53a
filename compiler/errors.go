// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/shape"
)

// DimensionsMissingError reports that shape information for an input or
// output of a node was not propagated before compilation. The caller must
// run shape inference first.
type DimensionsMissingError struct {
	Tensor string
	Node   string
}

func (e *DimensionsMissingError) Error() string {
	return fmt.Sprintf("dimensions information missing for input/output %q of node %q. You may want to run shape inference on the model first.", e.Tensor, e.Node)
}

// InvalidOperationError reports an op that the compiler's contract requires
// to have already been removed from the graph (Reshape, Dropout, Identity,
// Flatten, Squeeze, Unsqueeze), or an op that reached a handler which does
// not cover it. Ops the compiler does not know at all are reported as
// [UnimplementedOpError] instead.
type InvalidOperationError struct {
	Op string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("operation not recognized: %s", e.Op)
}

// UnimplementedOpError reports an operator this compiler does not support.
type UnimplementedOpError struct {
	Op string
}

func (e *UnimplementedOpError) Error() string {
	return fmt.Sprintf("op %s is not implemented yet", e.Op)
}

// UnimplementedVariantError reports an operator that is supported in
// general but not for the specific combination of attribute values given.
type UnimplementedVariantError struct {
	Op      string
	Variant string
}

func (e *UnimplementedVariantError) Error() string {
	return fmt.Sprintf("%q is not yet implemented for op %s", e.Variant, e.Op)
}

// UnsupportedOpsetVersionError reports that this op's semantics at the
// given opset version are not handled.
type UnsupportedOpsetVersionError struct {
	OpsetVersion int64
}

func (e *UnsupportedOpsetVersionError) Error() string {
	return fmt.Sprintf("the opset version %d is not supported", e.OpsetVersion)
}

// InvalidAttributeValueError reports an attribute value out of range for
// the chosen opset.
type InvalidAttributeValueError struct {
	Attribute    string
	Value        string
	OpsetVersion int64
}

func (e *InvalidAttributeValueError) Error() string {
	return fmt.Sprintf("the value %q is invalid for attribute %q (opset version %d)", e.Value, e.Attribute, e.OpsetVersion)
}

// InvalidInputShapeError reports that an input's shape fails an
// op-specific precondition.
type InvalidInputShapeError struct {
	InputIndex int
	InputShape shape.Shape
}

func (e *InvalidInputShapeError) Error() string {
	return fmt.Sprintf("input %d has invalid shape %s", e.InputIndex, e.InputShape)
}

// ComputeLimitExceededError reports that a dispatch size exceeds a GPU
// device limit after solving for workgroup size.
type ComputeLimitExceededError struct {
	Dimension string
	Requested uint32
	Limit     uint32
}

func (e *ComputeLimitExceededError) Error() string {
	return fmt.Sprintf("the model exceeds the limit for %s: %d > %d", e.Dimension, e.Requested, e.Limit)
}
