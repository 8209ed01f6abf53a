// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/shape"
)

// batchNormalizationHandler compiles BatchNormalization. For [N,C,W,H]
// inputs, the [W,H] elements of each (N,C) slice are normalized with that
// channel's scale, bias, mean and variance inputs; lower-rank inputs are
// treated as having the missing leading dims fixed at 1 (rank 3 has no N;
// the rank guard below keeps ranks 1-2 out entirely).
func batchNormalizationHandler(s *compileState) (nodeTemplate, error) {
	var noDefault *int64
	if spatial, err := attr(s.node, "spatial", noDefault); err == nil {
		// The 'spatial' attribute's meaning changed at opset 9; neither
		// meaning is supported here.
		if s.opsetVersion < 9 {
			return nodeTemplate{}, &UnimplementedVariantError{Op: "BatchNormalization", Variant: "spatial"}
		}
		return nodeTemplate{}, &InvalidAttributeValueError{Attribute: "spatial", Value: fmt.Sprint(spatial), OpsetVersion: s.opsetVersion}
	}

	rank := s.inputShapes[0].Rank()
	if rank <= 2 || rank > 4 {
		return nodeTemplate{}, &UnimplementedVariantError{Op: "BatchNormalization", Variant: fmt.Sprintf("with input %s", s.inputShapes[0])}
	}

	var n, c, w, h uint64
	switch rank {
	case 3:
		n, c, w, h = 1, s.inputShapes[0].Dim(0), s.inputShapes[0].Dim(1), s.inputShapes[0].Dim(2)
	case 4:
		n, c, w, h = s.inputShapes[0].Dim(0), s.inputShapes[0].Dim(1), s.inputShapes[0].Dim(2), s.inputShapes[0].Dim(3)
	}

	if n == 0 || c == 0 {
		return nodeTemplate{}, &InvalidInputShapeError{InputIndex: 0, InputShape: s.inputShapes[0]}
	}

	elemType := shape.ForSize(w*h, shape.ScalarF32)
	s.ctx["elem_type"] = elemType.WGSLTypeName()
	s.ctx["elem_stride"] = elemType.Stride()

	defaultEpsilon := 1e-5
	epsilon, err := attr(s.node, "epsilon", &defaultEpsilon)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["epsilon"] = epsilon

	elements := uint64(elemType.Elements())
	s.ctx["batch_size"] = ceilDiv(c*w*h, elements)
	s.ctx["channel_size"] = ceilDiv(w*h, elements)

	scalarType, err := shape.Agree(s.inputShapes[:1], s.outputShapes[:1])
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/batchnormalization.wgsl",
		threads:    [3]uint32{uint32(ceilDiv(w*h, elements)), uint32(c), uint32(n)},
	}, nil
}
