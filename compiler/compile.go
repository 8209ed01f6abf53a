// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler turns a single graph node plus its resolved input and
// output shapes into a compute shader and a dispatch size. It is the core
// of this module: stateless, side-effect-free beyond rendering a fresh
// shader string, and safe to call concurrently from many goroutines.
package compiler

import (
	"fmt"

	"cogentcore.org/webonnx/attribute"
	"cogentcore.org/webonnx/shape"
)

// Node is the minimal view of a graph node the compiler needs: its
// operator type and its typed attributes. It deliberately does not depend
// on the graph package — callers translate whatever in-memory graph
// representation they use into this shape immediately before calling
// [Compile].
type Node struct {
	Name      string
	OpType    string
	Attribute map[string]attribute.Value
}

// CompiledNode is the result of compiling one node: a complete WGSL
// compute shader and the number of threads to dispatch along each axis.
type CompiledNode struct {
	Shader  string
	Threads [3]uint32
}

// nodeTemplate is the intermediate result of algorithm selection, before
// the scalar-type bindings common to every template are attached.
type nodeTemplate struct {
	scalarType shape.ScalarType
	name       string
	threads    [3]uint32
}

// compileState carries one node's resolved shapes and the variable
// environment accumulated so far through algorithm selection. Each op
// handler reads from the shape fields and writes template variables into
// ctx; it never touches the others.
type compileState struct {
	node *Node

	inputShapes, outputShapes   []shape.Shape
	inputLengths, outputLengths []uint64
	inputChunks, outputChunks   [][]uint64

	opsetVersion int64
	ctx          map[string]any
}

// opHandler selects an algorithm variant for one operator family, binds
// whatever template variables it needs into s.ctx, and returns the chosen
// template name, scalar type, and dispatch extent. Dispatch is data: one
// closure per family instead of a type hierarchy.
type opHandler func(s *compileState) (nodeTemplate, error)

// attr is a thin wrapper around [attribute.Get] that attaches the node
// name to the error for easier diagnosis; every op handler goes through
// it instead of calling attribute.Get directly.
func attr[T any](n *Node, name string, def *T) (T, error) {
	v, err := attribute.Get[T](name, def, n.Attribute)
	if err != nil {
		return v, fmt.Errorf("compiler: node %q: %w", n.Name, err)
	}
	return v, nil
}

// Compile renders the WGSL shader and thread count for node, given the
// resolved shapes of its inputs and outputs and the opset version under
// which the graph was produced.
func Compile(node *Node, inputShapes, outputShapes []shape.Shape, opsetVersion int64) (*CompiledNode, error) {
	inputLengths := make([]uint64, len(inputShapes))
	inputChunks := make([][]uint64, len(inputShapes))
	for i, s := range inputShapes {
		inputLengths[i] = s.ElementCount()
		inputChunks[i] = s.Chunks()
	}
	outputLengths := make([]uint64, len(outputShapes))
	outputChunks := make([][]uint64, len(outputShapes))
	for i, s := range outputShapes {
		outputLengths[i] = s.ElementCount()
		outputChunks[i] = s.Chunks()
	}

	state := &compileState{
		node:          node,
		inputShapes:   inputShapes,
		outputShapes:  outputShapes,
		inputLengths:  inputLengths,
		outputLengths: outputLengths,
		inputChunks:   inputChunks,
		outputChunks:  outputChunks,
		opsetVersion:  opsetVersion,
		ctx: map[string]any{
			"i_lens":        inputLengths,
			"o_lens":        outputLengths,
			"i_shape":       dimsOf(inputShapes),
			"o_shape":       dimsOf(outputShapes),
			"i_chunks":      inputChunks,
			"o_chunks":      outputChunks,
			"op_type":       node.OpType,
			"opset_version": opsetVersion,
		},
	}

	nt, err := selectTemplate(state)
	if err != nil {
		return nil, err
	}

	for i, dim := range []string{"X threads", "Y threads", "Z threads"} {
		if nt.threads[i] > MaxComputeWorkgroupsPerDimension {
			return nil, &ComputeLimitExceededError{Dimension: dim, Requested: nt.threads[i], Limit: MaxComputeWorkgroupsPerDimension}
		}
	}

	state.ctx["scalar_type"] = nt.scalarType.WGSLTypeName()
	state.ctx["scalar_stride"] = nt.scalarType.Stride()
	state.ctx["vec4_stride"] = shape.Vec(nt.scalarType, 4).Stride()
	state.ctx["mat4x4_stride"] = shape.Mat(nt.scalarType, 4, 4).Stride()
	state.ctx["mat3x3_stride"] = uint64(48)

	shader := Templates.Render(nt.name, state.ctx)

	return &CompiledNode{Shader: shader, Threads: nt.threads}, nil
}

func dimsOf(shapes []shape.Shape) [][]uint64 {
	out := make([][]uint64, len(shapes))
	for i, s := range shapes {
		out[i] = s.Dims
	}
	return out
}
