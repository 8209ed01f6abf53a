// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import "cogentcore.org/webonnx/shape"

// poolConvHandler compiles MaxPool, AveragePool, GlobalAveragePool, Conv
// and its fused-activation variants. All of them share one NCHW padding
// computation; only the final template choice differs.
func poolConvHandler(s *compileState) (nodeTemplate, error) {
	op := s.node.OpType
	if s.inputShapes[0].Rank() != 4 {
		return nodeTemplate{}, &InvalidInputShapeError{InputIndex: 0, InputShape: s.inputShapes[0]}
	}

	// GlobalAveragePool is AveragePool with the kernel set to the full
	// spatial extent of the input; render it as AveragePool.
	isGlobalAveragePool := op == "GlobalAveragePool"
	if isGlobalAveragePool {
		s.ctx["op_type"] = "AveragePool"
	}

	defaultAutoPad := "NOTSET"
	autoPad, err := attr(s.node, "auto_pad", &defaultAutoPad)
	if err != nil {
		return nodeTemplate{}, err
	}

	defaultDilations := []int64{1, 1}
	dilations, err := attr(s.node, "dilations", &defaultDilations)
	if err != nil {
		return nodeTemplate{}, err
	}

	var kernelShape []int64
	if isGlobalAveragePool {
		kernelShape = []int64{int64(s.inputShapes[0].Dim(2)), int64(s.inputShapes[0].Dim(3))}
	} else {
		var noDefault *[]int64
		kernelShape, err = attr(s.node, "kernel_shape", noDefault)
		if err != nil {
			return nodeTemplate{}, err
		}
	}

	defaultStrides := []int64{1, 1}
	strides, err := attr(s.node, "strides", &defaultStrides)
	if err != nil {
		return nodeTemplate{}, err
	}

	defaultPads := []int64{0, 0, 0, 0}
	pads, err := attr(s.node, "pads", &defaultPads)
	if err != nil {
		return nodeTemplate{}, err
	}

	switch autoPad {
	case "NOTSET":
		// pads as given.
	case "SAME_UPPER", "SAME_LOWER":
		slack0 := -strides[0] + (kernelShape[0]-1)*dilations[0] + 1
		slack0Div2, slackRest0 := slack0/2, slack0%2
		slack1 := -strides[1] + (kernelShape[1]-1)*dilations[1] + 1
		slack1Div2, slackRest1 := slack1/2, slack1%2
		if autoPad == "SAME_UPPER" {
			pads = []int64{slack0Div2, slack1Div2, slack0Div2 + slackRest0, slack1Div2 + slackRest1}
		} else {
			pads = []int64{slack0Div2 + slackRest0, slack1Div2 + slackRest1, slack0Div2, slack1Div2}
		}
	default:
		return nodeTemplate{}, &UnimplementedVariantError{Op: op, Variant: "auto_pad=" + autoPad}
	}

	inputShape := s.inputShapes[0]
	outputShape := s.outputShapes[0]

	s.ctx["original_width"] = inputShape.Dim(3)
	s.ctx["width"] = outputShape.Dim(3)
	s.ctx["original_height"] = inputShape.Dim(2)
	s.ctx["channel"] = inputShape.Dim(1)
	s.ctx["stride"] = strides
	s.ctx["kernel_shape"] = kernelShape
	s.ctx["kernel_len"] = kernelShape[0] * kernelShape[1]
	s.ctx["kernel_channel_len"] = uint64(kernelShape[0]) * uint64(kernelShape[1]) * inputShape.Dim(1)
	s.ctx["pad"] = pads
	s.ctx["dilation"] = dilations

	switch op {
	case "MaxPool", "AveragePool", "GlobalAveragePool":
		scalarType, err := shape.Agree(s.inputShapes, s.outputShapes[:1])
		if err != nil {
			return nodeTemplate{}, err
		}
		return nodeTemplate{
			scalarType: scalarType,
			name:       "pool/aggregate.wgsl",
			threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 1024)), 1, 1},
		}, nil

	case "Conv", "ConvRelu", "ConvLeakyRelu", "ConvMish":
		// alpha is the LeakyRelu coefficient; bound regardless of whether
		// this particular Conv variant uses it.
		defaultAlpha := 0.01
		alpha, err := attr(s.node, "alpha", &defaultAlpha)
		if err != nil {
			return nodeTemplate{}, err
		}
		s.ctx["alpha"] = alpha

		scalarType, err := shape.Agree(s.inputShapes, s.outputShapes)
		if err != nil {
			return nodeTemplate{}, err
		}

		switch {
		case eqInts(strides, 1, 1) && eqInts(kernelShape, 1, 1) && eqInts(dilations, 1, 1) &&
			eqInts(pads, 0, 0, 0, 0) && inputShape.Dim(1)%16 == 0 && outputShape.Dim(1)%4 == 0:
			return nodeTemplate{
				scalarType: scalarType,
				name:       "pool/conv_kernel_1.wgsl",
				threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 1024)), 1, 1},
			}, nil

		case eqInts(strides, 1, 1) && eqInts(kernelShape, 3, 3) && eqInts(dilations, 1, 1) &&
			outputShape.Dim(1)%4 == 0:
			return nodeTemplate{
				scalarType: scalarType,
				name:       "pool/conv_kernel_3.wgsl",
				threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 1024)), 1, 1},
			}, nil

		default:
			return nodeTemplate{
				scalarType: scalarType,
				name:       "pool/conv.wgsl",
				threads:    [3]uint32{uint32(ceilDiv(s.outputLengths[0], 256)), 1, 1},
			}, nil
		}

	default:
		return nodeTemplate{}, &InvalidOperationError{Op: op}
	}
}

// eqInts reports whether a equals the literal sequence want, element for
// element, used to match the Conv specialization ladder's exact-shape
// guards (strides == [1,1], kernel_shape == [3,3], ...).
func eqInts(a []int64, want ...int64) bool {
	if len(a) != len(want) {
		return false
	}
	for i := range a {
		if a[i] != want[i] {
			return false
		}
	}
	return true
}
