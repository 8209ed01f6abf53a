// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"cogentcore.org/webonnx/shape"
)

// mapHandler compiles the unary endomorphism family (Abs, Sqrt, Tanh, ...):
// one output scalar per input scalar, dispatched four lanes at a time.
func mapHandler(s *compileState) (nodeTemplate, error) {
	xThreads, workgroupSizeX, err := workgroupSize(ceilDiv(s.outputLengths[0], 4), MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["workgroup_size_x"] = workgroupSizeX

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/map.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}

// arithmeticOpType maps each binary-arithmetic op name to the WGSL infix
// operator its shader should use.
var arithmeticOpType = map[string]string{
	"Add":            "+",
	"And":            "&",
	"Div":            "/",
	"Equal":          "==",
	"Greater":        ">",
	"GreaterOrEqual": ">=",
	"Less":           "<",
	"LessOrEqual":    "<=",
	"Mod":            "%",
	"Mul":            "*",
	"Or":             "|",
	"Sub":            "-",
}

// arithmeticHandler compiles the binary elementwise family: Add, Sub, Mul,
// comparisons, and friends. The op-name variable is rebound to the
// corresponding WGSL infix operator before rendering.
func arithmeticHandler(s *compileState) (nodeTemplate, error) {
	defaultCoefficient := 1.0
	coefficient, err := attr(s.node, "coefficient", &defaultCoefficient)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["coefficient"] = coefficient

	opType, ok := arithmeticOpType[s.node.OpType]
	if !ok {
		return nodeTemplate{}, &UnimplementedOpError{Op: s.node.OpType}
	}
	s.ctx["op_type"] = opType

	xThreads, workgroupSizeX, err := workgroupSize(ceilDiv(s.outputLengths[0], 4), MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["workgroup_size_x"] = workgroupSizeX

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/arithmetic.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}

// activationHandler compiles Relu/Sigmoid/Clip/Celu/Elu/LeakyRelu/... —
// all share one alpha-parameterized template.
func activationHandler(s *compileState) (nodeTemplate, error) {
	defaultAlpha := 1.0
	alpha, err := attr(s.node, "alpha", &defaultAlpha)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["alpha"] = alpha

	xThreads, workgroupSizeX, err := workgroupSize(ceilDiv(s.outputLengths[0], 4), MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["workgroup_size_x"] = workgroupSizeX

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/activation.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}

// castHandler compiles Cast: the "to" attribute names the target scalar
// type, but only the inputs participate in the agreed-type check — the
// output's declared type is irrelevant to dispatch.
func castHandler(s *compileState) (nodeTemplate, error) {
	var noDefault *int64
	to, err := attr(s.node, "to", noDefault)
	if err != nil {
		return nodeTemplate{}, err
	}
	castToType, err := shape.ScalarTypeFromCode(int32(to))
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["cast_to_type"] = castToType.WGSLTypeName()

	xThreads, workgroupSizeX, err := workgroupSize(ceilDiv(s.outputLengths[0], 4), MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["workgroup_size_x"] = workgroupSizeX

	scalarType, err := shape.Agree(s.inputShapes, nil)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/cast.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}
