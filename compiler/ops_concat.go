// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// concatHandler compiles Concat. The shader needs the cumulative length
// of each input in turn, so it can tell which input a given output index
// falls into.
func concatHandler(s *compileState) (nodeTemplate, error) {
	cumulativeLength := make([]uint64, len(s.inputLengths))
	var sum uint64
	for i, length := range s.inputLengths {
		sum += length
		cumulativeLength[i] = sum
	}
	s.ctx["cum_len"] = cumulativeLength

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "matrix/concat.wgsl",
		threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 256)), 1, 1},
	}, nil
}
