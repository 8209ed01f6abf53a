// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// splitSpan is one output's slice of the split axis, rendered into the
// shader as compile-time constants.
type splitSpan struct {
	Start  uint64 // first position along the axis
	Extent uint64 // number of positions along the axis
	Len    uint64 // flat element count of this output
}

// splitHandler compiles Split.
//
// TODO: when axis is negative, this normalizes it by adding the input's
// element count, not its rank. The operator-exchange format's negative-axis
// convention is rank-relative, so this is very likely wrong, but existing
// graphs compiled against the current behavior depend on it; reconcile
// against the format specification before changing it.
func splitHandler(s *compileState) (nodeTemplate, error) {
	defaultAxis := int64(0)
	axis, err := attr(s.node, "axis", &defaultAxis)
	if err != nil {
		return nodeTemplate{}, err
	}
	if axis < 0 {
		axis += int64(s.inputShapes[0].ElementCount())
	}
	s.ctx["axis"] = axis

	splitChunk := s.inputShapes[0].Dim(int(axis)) / uint64(len(s.outputShapes))
	defaultSplit := make([]int64, len(s.outputShapes))
	for i := range defaultSplit {
		defaultSplit[i] = int64(uint64(i+1) * splitChunk)
	}

	split, err := attr(s.node, "split", &defaultSplit)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["split"] = split

	// The split values are cumulative end positions along the axis; the
	// shader wants per-output (start, extent, flat length) spans instead.
	inner := uint64(1)
	for _, d := range s.inputShapes[0].Dims[axis+1:] {
		inner *= d
	}
	outer := s.inputShapes[0].ElementCount() / (s.inputShapes[0].Dim(int(axis)) * inner)
	spans := make([]splitSpan, len(split))
	var start uint64
	for i, end := range split {
		extent := uint64(end) - start
		spans[i] = splitSpan{Start: start, Extent: extent, Len: outer * extent * inner}
		start = uint64(end)
	}
	s.ctx["split_spans"] = spans
	s.ctx["split_inner"] = inner
	s.ctx["split_axis_dim"] = s.inputShapes[0].Dim(int(axis))

	scalarType, err := shape.Agree(s.inputShapes[:1], s.outputShapes[:1])
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "matrix/split.wgsl",
		threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 256)), 1, 1},
	}, nil
}
