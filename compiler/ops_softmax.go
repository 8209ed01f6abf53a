// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/shape"
)

// softmaxHandler compiles Softmax. Only axis==1 over a [1,n] input is
// implemented; the default axis and the legality of negative axes both
// depend on the opset version the node was produced under.
func softmaxHandler(s *compileState) (nodeTemplate, error) {
	var defaultAxis int64
	switch {
	case s.opsetVersion >= 1 && s.opsetVersion <= 12:
		defaultAxis = 1
	case s.opsetVersion >= 13 && s.opsetVersion <= 15:
		defaultAxis = -1
	default:
		return nodeTemplate{}, &UnsupportedOpsetVersionError{OpsetVersion: s.opsetVersion}
	}

	axis, err := attr(s.node, "axis", &defaultAxis)
	if err != nil {
		return nodeTemplate{}, err
	}

	if axis < 0 {
		if s.opsetVersion >= 13 {
			axis += int64(s.inputShapes[0].Rank())
		} else {
			return nodeTemplate{}, &InvalidAttributeValueError{Attribute: "axis", Value: fmt.Sprint(axis), OpsetVersion: s.opsetVersion}
		}
	}

	if axis >= int64(s.inputShapes[0].Rank()) {
		return nodeTemplate{}, &InvalidAttributeValueError{Attribute: "axis", Value: fmt.Sprint(axis), OpsetVersion: s.opsetVersion}
	}

	if axis != 1 {
		return nodeTemplate{}, &UnimplementedVariantError{
			Op:      "Softmax",
			Variant: fmt.Sprintf("softmax on an axis (%d) other than the second with [1,n] inputs", axis),
		}
	}

	scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "endomorphism/softmax.wgsl",
		threads:    [3]uint32{1, 1, 1},
	}, nil
}
