// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// transposeHandler compiles Transpose. A missing "perm" attribute is
// rejected outright: there is no usable default (a silently-empty
// permutation would produce an empty chunk vector and a shader that
// copies nothing), and every real producer writes the attribute.
func transposeHandler(s *compileState) (nodeTemplate, error) {
	var noDefault *[]int64
	perm, err := attr(s.node, "perm", noDefault)
	if err != nil {
		return nodeTemplate{}, &UnimplementedVariantError{Op: "Transpose", Variant: "perm not specified"}
	}

	permutedDims := make([]uint64, len(perm))
	for i, p := range perm {
		permutedDims[i] = s.outputShapes[0].Dim(int(p))
	}

	chunks := make([]uint64, len(permutedDims))
	if len(chunks) > 0 {
		chunks[len(chunks)-1] = 1
		for i := 0; i < len(permutedDims)-1; i++ {
			product := uint64(1)
			for _, d := range permutedDims[i+1:] {
				product *= d
			}
			chunks[i] = product
		}
	}
	s.ctx["perm"] = perm
	s.ctx["permuted_chunks"] = chunks

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "matrix/transpose.wgsl",
		threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 256)), 1, 1},
	}, nil
}
