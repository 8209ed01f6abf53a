// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// gemmMatMulHandler compiles Gemm and MatMul. Gemm only supports the
// untransposed, non-broadcast form (transA/transB/broadcast all zero).
// A row-vector left operand (dim(0)==1) gets a specialized template.
func gemmMatMulHandler(s *compileState) (nodeTemplate, error) {
	op := s.node.OpType

	defaultAlpha := 1.0
	alpha, err := attr(s.node, "alpha", &defaultAlpha)
	if err != nil {
		return nodeTemplate{}, err
	}
	defaultBeta := 1.0
	beta, err := attr(s.node, "beta", &defaultBeta)
	if err != nil {
		return nodeTemplate{}, err
	}

	if op == "Gemm" {
		zero := int64(0)
		transA, err := attr(s.node, "transA", &zero)
		if err != nil {
			return nodeTemplate{}, err
		}
		transB, err := attr(s.node, "transB", &zero)
		if err != nil {
			return nodeTemplate{}, err
		}
		broadcast, err := attr(s.node, "broadcast", &zero)
		if err != nil {
			return nodeTemplate{}, err
		}
		if transA != 0 || transB != 0 || broadcast != 0 {
			return nodeTemplate{}, &UnimplementedVariantError{Op: op, Variant: "Gemm with transA/transB/broadcast not equal to zero"}
		}
	}

	s.ctx["alpha"] = alpha
	s.ctx["beta"] = beta

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	if s.inputShapes[0].Dim(0) == 1 {
		return nodeTemplate{
			scalarType: scalarType,
			name:       "matrix/gemm_1.wgsl",
			threads:    [3]uint32{uint32(s.outputShapes[0].Dim(1)), 1, 1},
		}, nil
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "matrix/gemm.wgsl",
		threads:    [3]uint32{uint32(s.inputShapes[0].Dim(0) * s.inputShapes[1].Dim(1) / 16), 1, 1},
	}, nil
}
