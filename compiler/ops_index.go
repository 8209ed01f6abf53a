// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/shape"
)

// oneHotHandler compiles OneHot. Only the last-axis variant is supported;
// the depth input must be a single scalar and the values input a 2-tuple
// of (off_value, on_value).
func oneHotHandler(s *compileState) (nodeTemplate, error) {
	defaultAxis := int64(-1)
	axis, err := attr(s.node, "axis", &defaultAxis)
	if err != nil {
		return nodeTemplate{}, err
	}
	if axis != -1 {
		return nodeTemplate{}, &UnimplementedVariantError{Op: "OneHot", Variant: fmt.Sprintf("axis=%d", axis)}
	}

	if s.inputShapes[1].ElementCount() != 1 {
		return nodeTemplate{}, &InvalidInputShapeError{InputIndex: 1, InputShape: s.inputShapes[1]}
	}
	if s.inputShapes[2].ElementCount() != 2 {
		return nodeTemplate{}, &InvalidInputShapeError{InputIndex: 2, InputShape: s.inputShapes[2]}
	}

	// OneHot is invoked once per element of the indices input; each
	// invocation writes depth output lanes.
	xThreads, workgroupSizeX, err := workgroupSize(s.inputLengths[0], MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["workgroup_size_x"] = workgroupSizeX

	return nodeTemplate{
		scalarType: s.outputShapes[0].DataType,
		name:       "endomorphism/onehot.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}

// gatherHandler compiles Gather. Only axis=0 is supported: the X
// dimension iterates the index tensor, the Y dimension iterates the
// per-index element run using the widest chunk type that evenly divides
// it, so the shader can copy with vec4/vec2 loads where possible.
func gatherHandler(s *compileState) (nodeTemplate, error) {
	defaultAxis := int64(0)
	axis, err := attr(s.node, "axis", &defaultAxis)
	if err != nil {
		return nodeTemplate{}, err
	}
	if axis != 0 {
		return nodeTemplate{}, &UnimplementedVariantError{Op: "Gather", Variant: fmt.Sprintf("axis=%d", axis)}
	}

	elementsPerIndex := s.inputChunks[0][0]
	scalarType, err := shape.Agree(s.inputShapes[:1], s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}
	chunkType := shape.ForSize(elementsPerIndex, scalarType)
	chunkSize := chunkType.Elements()

	// X iterates the indices; Y iterates the elements copied per index.
	xThreads, workgroupSizeX, err := workgroupSize(s.inputLengths[1], MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}
	yThreads, workgroupSizeY, err := workgroupSize(ceilDiv(elementsPerIndex, uint64(chunkSize)), MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeY)
	if err != nil {
		return nodeTemplate{}, err
	}

	s.ctx["chunk_type"] = chunkType.WGSLTypeName()
	s.ctx["chunk_size"] = chunkSize
	s.ctx["chunks_per_index"] = ceilDiv(elementsPerIndex, uint64(chunkSize))
	s.ctx["workgroup_size_x"] = workgroupSizeX
	s.ctx["workgroup_size_y"] = workgroupSizeY

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/gather.wgsl",
		threads:    [3]uint32{xThreads, yThreads, 1},
	}, nil
}
