// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldIdentityRewiresDownstreamInput(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "reshape0", OpType: "Reshape", Input: []string{"x"}, Output: []string{"x_reshaped"}},
			{Name: "relu0", OpType: "Relu", Input: []string{"x_reshaped"}, Output: []string{"y"}},
		},
		Outputs: []ValueInfo{{Name: "y"}},
	}

	folded, err := FoldIdentity(g)
	assert.NoError(t, err)
	assert.Len(t, folded.Nodes, 1)
	assert.Equal(t, "relu0", folded.Nodes[0].Name)
	assert.Equal(t, []string{"x"}, folded.Nodes[0].Input)

	// The original graph's node inputs must not have been mutated in place.
	assert.Equal(t, []string{"x_reshaped"}, g.Nodes[1].Input)
}

func TestFoldIdentityRewritesGraphOutput(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "identity0", OpType: "Identity", Input: []string{"x"}, Output: []string{"y"}},
		},
		Outputs: []ValueInfo{{Name: "y"}},
	}

	folded, err := FoldIdentity(g)
	assert.NoError(t, err)
	assert.Empty(t, folded.Nodes)
	assert.Equal(t, "x", folded.Outputs[0].Name)
}

func TestFoldIdentityDropsReshapeShapeOperand(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "reshape0", OpType: "Reshape", Input: []string{"x", "shape"}, Output: []string{"x_reshaped"}},
			{Name: "relu0", OpType: "Relu", Input: []string{"x_reshaped"}, Output: []string{"y"}},
		},
		Outputs: []ValueInfo{{Name: "y"}},
	}

	folded, err := FoldIdentity(g)
	assert.NoError(t, err)
	assert.Len(t, folded.Nodes, 1)
	assert.Equal(t, []string{"x"}, folded.Nodes[0].Input)
}

func TestFoldIdentityRejectsMultiOutputDropout(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{Name: "dropout0", OpType: "Dropout", Input: []string{"x"}, Output: []string{"y", "mask"}},
		},
	}

	_, err := FoldIdentity(g)
	assert.Error(t, err)
}
