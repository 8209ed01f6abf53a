// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// reduceHandler compiles ReduceSum/ReduceMean/ReduceMax/... The shader is
// invoked once per output scalar; each invocation walks the input axes
// named in "axes" using chunksWithDimsPreserved, a chunk vector computed
// as if the reduced dims were collapsed to size 1 while keeping rank.
func reduceHandler(s *compileState) (nodeTemplate, error) {
	rank := s.inputShapes[0].Rank()
	allAxes := make([]int64, rank)
	for i := range allAxes {
		allAxes[i] = int64(i)
	}

	rawAxes, err := attr(s.node, "axes", &allAxes)
	if err != nil {
		return nodeTemplate{}, err
	}
	axes := make([]int64, len(rawAxes))
	for i, idx := range rawAxes {
		if idx < 0 {
			idx = int64(rank) + idx
		}
		axes[i] = idx
	}

	scalarType, err := shape.Agree(s.inputShapes[:1], s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	isReduced := make(map[int64]bool, len(axes))
	for _, a := range axes {
		isReduced[a] = true
	}
	dimsRemoved := make([]uint64, rank)
	for i, d := range s.inputShapes[0].Dims {
		if isReduced[int64(i)] {
			dimsRemoved[i] = 1
		} else {
			dimsRemoved[i] = d
		}
	}
	chunksWithDimsPreserved := shape.New(scalarType, dimsRemoved...).Chunks()

	// The reduce shader runs once per scalar in the output; each
	// invocation performs one full reduction.
	xThreads, workgroupSizeX, err := workgroupSize(s.outputLengths[0], MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	if err != nil {
		return nodeTemplate{}, err
	}

	s.ctx["workgroup_size_x"] = workgroupSizeX
	s.ctx["chunks_with_dims_preserved"] = chunksWithDimsPreserved
	s.ctx["axes"] = axes

	return nodeTemplate{
		scalarType: scalarType,
		name:       "pool/reduce.wgsl",
		threads:    [3]uint32{xThreads, 1, 1},
	}, nil
}
