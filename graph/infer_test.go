// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cogentcore.org/webonnx/compiler"
)

func TestInferShapesPropagatesThroughShapePreservingOp(t *testing.T) {
	g := &Graph{
		Inputs: []ValueInfo{
			{Name: "x", DataType: 1, Dims: []int64{1, 4}, DimParams: []string{"", ""}},
		},
		Nodes: []Node{
			{Name: "relu0", OpType: "Relu", Input: []string{"x"}, Output: []string{"y"}},
		},
		Outputs: []ValueInfo{
			{Name: "y"},
		},
	}

	err := InferShapes(g)
	assert.NoError(t, err)

	inputs, outputs, err := Shapes(g, &g.Nodes[0])
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1, 4}, inputs[0].Dims)
	assert.Equal(t, []uint64{1, 4}, outputs[0].Dims)
}

func TestInferShapesFailsOnTrulyUnknownInput(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "relu0", OpType: "Relu", Input: []string{"x"}, Output: []string{"y"}},
		},
	}

	err := InferShapes(g)
	assert.Error(t, err)
	var missing *compiler.DimensionsMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestInferShapesFailsOnNonPreservingOpWithoutDeclaredOutput(t *testing.T) {
	g := &Graph{
		Inputs: []ValueInfo{
			{Name: "x", DataType: 1, Dims: []int64{1, 4}, DimParams: []string{"", ""}},
		},
		Nodes: []Node{
			{Name: "conv0", OpType: "Conv", Input: []string{"x"}, Output: []string{"y"}},
		},
	}

	err := InferShapes(g)
	assert.Error(t, err)
	var missing *compiler.DimensionsMissingError
	assert.ErrorAs(t, err, &missing)
}

func TestValueInfoToShape(t *testing.T) {
	vi := ValueInfo{Name: "x", DataType: 1, Dims: []int64{2, 3}, DimParams: []string{"", ""}}
	s, err := vi.ToShape()
	assert.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, s.Dims)

	unresolved := ValueInfo{Name: "y", Dims: []int64{0}, DimParams: []string{"batch"}}
	_, err = unresolved.ToShape()
	assert.Error(t, err)
}
