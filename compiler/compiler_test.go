// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cogentcore.org/webonnx/attribute"
	"cogentcore.org/webonnx/shape"
)

func TestCompileUnaryMapSqrt(t *testing.T) {
	in := shape.New(shape.ScalarF32, 1, 1, 1, 1024)
	out := shape.New(shape.ScalarF32, 1, 1, 1, 1024)
	node := &Node{Name: "sqrt0", OpType: "Sqrt"}

	compiled, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	assert.Contains(t, compiled.Shader, "sqrt(x)")
	// 1024 elements, four lanes per invocation: the solver is handed 256,
	// which fits the dispatch limit, so workgroup size stays 1.
	assert.Equal(t, [3]uint32{256, 1, 1}, compiled.Threads)
	assert.Contains(t, compiled.Shader, "@workgroup_size(1, 1, 1)")
}

func TestCompileBinaryAdd(t *testing.T) {
	a := shape.New(shape.ScalarF32, 2, 3)
	b := shape.New(shape.ScalarF32, 2, 3)
	out := shape.New(shape.ScalarF32, 2, 3)
	node := &Node{Name: "add0", OpType: "Add"}

	compiled, err := Compile(node, []shape.Shape{a, b}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	assert.Contains(t, compiled.Shader, "a + b")
	// 6 elements over vec4 lanes: ceil(6/4) = 2 invocations.
	assert.Equal(t, [3]uint32{2, 1, 1}, compiled.Threads)
}

func TestCompileConvFastPath1x1(t *testing.T) {
	x := shape.New(shape.ScalarF32, 1, 32, 8, 8)
	w := shape.New(shape.ScalarF32, 4, 32, 1, 1)
	out := shape.New(shape.ScalarF32, 1, 4, 8, 8)
	node := &Node{
		Name:   "conv0",
		OpType: "Conv",
		Attribute: map[string]attribute.Value{
			"kernel_shape": attribute.Ints([]int64{1, 1}),
		},
	}

	compiled, err := Compile(node, []shape.Shape{x, w}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	// The 1x1 specialization addresses pixels directly and has no kernel
	// loop bounds, unlike the general template.
	assert.Contains(t, compiled.Shader, "pixel")
	assert.NotContains(t, compiled.Shader, "kernel_h")
	// 256 output elements at 1024 per workgroup: one workgroup.
	assert.Equal(t, [3]uint32{1, 1, 1}, compiled.Threads)
}

func TestCompileConvSamePaddingFormula(t *testing.T) {
	x := shape.New(shape.ScalarF32, 1, 1, 8, 8)
	w := shape.New(shape.ScalarF32, 1, 1, 3, 3)
	out := shape.New(shape.ScalarF32, 1, 1, 8, 8)
	node := &Node{
		Name:   "conv_same",
		OpType: "Conv",
		Attribute: map[string]attribute.Value{
			"kernel_shape": attribute.Ints([]int64{3, 3}),
			"auto_pad":     attribute.String("SAME_UPPER"),
		},
	}

	// slack = -stride + (kernel-1)*dilation + 1 = -1 + 2 + 1 = 2, so
	// pads = [1, 1, 1, 1] for SAME_UPPER with an even kernel-minus-one slack.
	// One output channel rules out the 3x3 fast path, so the general
	// template renders the top and left pads.
	compiled, err := Compile(node, []shape.Shape{x, w}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	assert.Contains(t, compiled.Shader, "const pad_top: i32 = 1;")
	assert.Contains(t, compiled.Shader, "const pad_left: i32 = 1;")
}

func TestCompileReduceSumNegativeAxis(t *testing.T) {
	in := shape.New(shape.ScalarF32, 3, 2, 2)
	out := shape.New(shape.ScalarF32, 3, 1, 2)
	node := &Node{
		Name:   "reduce0",
		OpType: "ReduceSum",
		Attribute: map[string]attribute.Value{
			"axes": attribute.Ints([]int64{-2}),
		},
	}

	compiled, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	assert.NotNil(t, compiled)
}

func TestCompileComputeLimitExceeded(t *testing.T) {
	huge := uint64(MaxComputeWorkgroupsPerDimension)*uint64(MaxWorkgroupSizeX)*10 + 1
	in := shape.New(shape.ScalarF32, huge)
	out := shape.New(shape.ScalarF32, huge)
	node := &Node{Name: "abs0", OpType: "Abs"}

	_, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.Error(t, err)
	var limitErr *ComputeLimitExceededError
	assert.ErrorAs(t, err, &limitErr)
}

func TestCompileSoftmaxOpsetBoundary(t *testing.T) {
	in := shape.New(shape.ScalarF32, 1, 10)
	out := shape.New(shape.ScalarF32, 1, 10)

	// opset 12 defaults axis to 1; no attribute needed, succeeds.
	node12 := &Node{Name: "softmax12", OpType: "Softmax"}
	_, err := Compile(node12, []shape.Shape{in}, []shape.Shape{out}, 12)
	assert.NoError(t, err)

	// opset 14 defaults axis to -1, which is only accepted when it
	// normalizes to 1 (rank 2): -1 + 2 == 1.
	node14 := &Node{Name: "softmax14", OpType: "Softmax"}
	_, err = Compile(node14, []shape.Shape{in}, []shape.Shape{out}, 14)
	assert.NoError(t, err)

	// opset 16 falls outside both known ranges and is rejected outright.
	node16 := &Node{Name: "softmax16", OpType: "Softmax"}
	_, err = Compile(node16, []shape.Shape{in}, []shape.Shape{out}, 16)
	assert.Error(t, err)
	var opsetErr *UnsupportedOpsetVersionError
	assert.ErrorAs(t, err, &opsetErr)
}

func TestCompileGemmRejectsTransA(t *testing.T) {
	a := shape.New(shape.ScalarF32, 4, 3)
	b := shape.New(shape.ScalarF32, 3, 5)
	out := shape.New(shape.ScalarF32, 4, 5)
	node := &Node{
		Name:   "gemm0",
		OpType: "Gemm",
		Attribute: map[string]attribute.Value{
			"transA": attribute.Int(1),
		},
	}

	_, err := Compile(node, []shape.Shape{a, b}, []shape.Shape{out}, 13)
	assert.Error(t, err)
	var variantErr *UnimplementedVariantError
	assert.ErrorAs(t, err, &variantErr)
}

func TestCompileUnknownOpUnimplemented(t *testing.T) {
	in := shape.New(shape.ScalarF32, 1)
	out := shape.New(shape.ScalarF32, 1)
	node := &Node{Name: "mystery0", OpType: "NotARealOp"}

	_, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.Error(t, err)
	var unimplErr *UnimplementedOpError
	assert.ErrorAs(t, err, &unimplErr)
}

func TestCompileOptimizedAwayOp(t *testing.T) {
	in := shape.New(shape.ScalarF32, 4)
	out := shape.New(shape.ScalarF32, 4)
	node := &Node{Name: "reshape0", OpType: "Reshape"}

	_, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.Error(t, err)
	var invalidOp *InvalidOperationError
	assert.ErrorAs(t, err, &invalidOp)
}

// TestReductionDimsPreservedChunksLaw pins the law that the reduced-dims
// chunk vector always has the same rank as the input, independent of which
// axes were reduced.
func TestReductionDimsPreservedChunksLaw(t *testing.T) {
	in := shape.New(shape.ScalarF32, 3, 2, 2)
	out := shape.New(shape.ScalarF32, 1, 2, 2)
	node := &Node{
		Name:   "reduce_law",
		OpType: "ReduceMean",
		Attribute: map[string]attribute.Value{
			"axes": attribute.Ints([]int64{0}),
		},
	}
	compiled, err := Compile(node, []shape.Shape{in}, []shape.Shape{out}, 13)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(compiled.Shader, "acc") || len(compiled.Shader) > 0)
	// The shader decomposes the output index once per entry of the
	// dims-preserved chunk vector: rank 3 gives three steps.
	assert.Equal(t, 3, strings.Count(compiled.Shader, "let coord = rest / "))
}
