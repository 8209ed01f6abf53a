// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/shape"
)

// resizeHandler compiles Resize. Only "nearest" mode with nearest_mode
// "floor" is implemented; coordinate_transformation_mode is otherwise
// accepted for any of its five ONNX values.
func resizeHandler(s *compileState) (nodeTemplate, error) {
	defaultMode := "half_pixel"
	coordinateTransformationMode, err := attr(s.node, "coordinate_transformation_mode", &defaultMode)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["coordinate_transformation_mode"] = coordinateTransformationMode

	switch coordinateTransformationMode {
	case "half_pixel", "pytorch_half_pixel", "align_corners", "asymmetric":
	case "tf_crop_and_resize":
		var noDefaultInts *[]int64
		roi, err := attr(s.node, "roi", noDefaultInts)
		if err != nil {
			return nodeTemplate{}, err
		}
		defaultExtrapolation := 0.0
		extrapolationValue, err := attr(s.node, "extrapolation_value", &defaultExtrapolation)
		if err != nil {
			return nodeTemplate{}, err
		}
		s.ctx["roi"] = roi
		s.ctx["extrapolation_value"] = extrapolationValue
	default:
		return nodeTemplate{}, &UnimplementedVariantError{Op: "Resize", Variant: "coordinate_transformation_mode=" + coordinateTransformationMode}
	}

	var emptyFloats []float32
	scales, err := attr(s.node, "scales", &emptyFloats)
	if err != nil {
		return nodeTemplate{}, err
	}

	var scalePrints []string
	if len(scales) == 0 {
		var emptyInts []int64
		sizes, err := attr(s.node, "sizes", &emptyInts)
		if err != nil {
			return nodeTemplate{}, err
		}
		for i, size := range sizes {
			scalePrints = append(scalePrints, fmt.Sprintf("%.2f", float64(size)/float64(s.inputShapes[0].Dim(i))))
		}
	} else {
		for _, sc := range scales {
			scalePrints = append(scalePrints, fmt.Sprintf("%.2f", sc))
		}
	}

	defaultResizeMode := "nearest"
	mode, err := attr(s.node, "mode", &defaultResizeMode)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["mode"] = mode
	s.ctx["scales"] = scalePrints

	switch mode {
	case "nearest":
		defaultNearestMode := "round_prefer_floor"
		nearestMode, err := attr(s.node, "nearest_mode", &defaultNearestMode)
		if err != nil {
			return nodeTemplate{}, err
		}
		if nearestMode != "floor" {
			return nodeTemplate{}, &UnimplementedVariantError{Op: "Resize", Variant: "nearest_mode=" + nearestMode}
		}
	case "cubic":
		defaultCubicCoeff := -0.75
		cubicCoeffA, err := attr(s.node, "cubic_coeff_a", &defaultCubicCoeff)
		if err != nil {
			return nodeTemplate{}, err
		}
		s.ctx["cubic_coeff_a"] = cubicCoeffA
		return nodeTemplate{}, &UnimplementedVariantError{Op: "Resize", Variant: "mode=" + mode}
	default:
		return nodeTemplate{}, &UnimplementedVariantError{Op: "Resize", Variant: "mode=" + mode}
	}

	defaultExcludeOutside := int64(0)
	excludeOutside, err := attr(s.node, "exclude_outside", &defaultExcludeOutside)
	if err != nil {
		return nodeTemplate{}, err
	}
	s.ctx["exclude_outside"] = excludeOutside

	scalarType, err := shape.Agree(s.inputShapes[:1], s.outputShapes[:1])
	if err != nil {
		return nodeTemplate{}, err
	}

	return nodeTemplate{
		scalarType: scalarType,
		name:       "matrix/resize.wgsl",
		threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 256)), 1, 1},
	}, nil
}
