// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"cogentcore.org/webonnx/compiler"
	"cogentcore.org/webonnx/shape"
)

// shapePreservingOps are operators whose single output has exactly the same
// shape as their first input. This lets InferShapes propagate a known shape
// forward without understanding every operator's own shape algebra — the
// compiler requires every shape to be statically resolved before dispatch,
// so any shape this pass cannot resolve is a hard failure, not a
// best-effort guess.
var shapePreservingOps = map[string]bool{
	"Abs": true, "Acos": true, "Asin": true, "Atan": true, "Ceil": true,
	"Cos": true, "Cosh": true, "Exp": true, "Floor": true, "Log": true,
	"Round": true, "Sign": true, "Sin": true, "Sinh": true, "Sqrt": true,
	"Tan": true, "Tanh": true, "Reciprocal": true,
	"Relu": true, "Sigmoid": true, "Softsign": true, "Softplus": true,
	"Clip": true, "Celu": true, "Elu": true, "LeakyRelu": true,
	"Add": true, "Sub": true, "Mul": true, "Div": true, "Mod": true,
	"And": true, "Or": true, "Equal": true, "Greater": true,
	"GreaterOrEqual": true, "Less": true, "LessOrEqual": true,
	"Softmax": true, "BatchNormalization": true,
	"Dropout": true, "Identity": true,
}

// resolvedWithType reports whether vi carries both a full, non-empty
// dimension vector and a declared (non-zero) data type. [ValueInfo.Resolved]
// alone permits an altogether-empty ValueInfo (a rank-0 placeholder), which
// is not useful here: a value with no data type can never become a
// [shape.Shape].
func resolvedWithType(vi ValueInfo) bool {
	return vi.Resolved() && len(vi.Dims) > 0 && vi.DataType != 0
}

// ToShape converts a resolved ValueInfo into a [shape.Shape]. It fails if
// vi is not fully resolved or its data type is not one the engine supports.
func (vi ValueInfo) ToShape() (shape.Shape, error) {
	if !resolvedWithType(vi) {
		return shape.Shape{}, fmt.Errorf("graph: value %q has unresolved dimensions", vi.Name)
	}
	dt, err := shape.ScalarTypeFromCode(vi.DataType)
	if err != nil {
		return shape.Shape{}, fmt.Errorf("graph: value %q: %w", vi.Name, err)
	}
	dims := make([]uint64, len(vi.Dims))
	for i, d := range vi.Dims {
		dims[i] = uint64(d)
	}
	return shape.New(dt, dims...), nil
}

// InferShapes propagates shapes through g until every tensor that a node in
// g.Nodes consumes or produces is fully resolved, or returns an error naming
// the first tensor it could not resolve. Known shapes come from g.Inputs,
// g.Initializers, and any pre-declared g.ValueInfo/g.Outputs entries;
// unknown shapes are filled in only for [shapePreservingOps], and any newly
// resolved value is written back into g.ValueInfo (or g.Outputs, if that is
// where the placeholder lived) so later lookups via [Shapes] see it.
func InferShapes(g *Graph) error {
	known := map[string]ValueInfo{}
	record := func(vis []ValueInfo) {
		for _, vi := range vis {
			if resolvedWithType(vi) {
				known[vi.Name] = vi
			}
		}
	}
	record(g.Inputs)
	record(g.Initializers)
	record(g.ValueInfo)
	record(g.Outputs)

	resolved := map[string]ValueInfo{}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		for _, in := range n.Input {
			if _, ok := known[in]; !ok {
				return &compiler.DimensionsMissingError{Tensor: in, Node: n.Name}
			}
		}

		if !shapePreservingOps[n.OpType] {
			for _, out := range n.Output {
				if _, ok := known[out]; !ok {
					return &compiler.DimensionsMissingError{Tensor: out, Node: n.Name}
				}
			}
			continue
		}

		src, ok := known[n.Input[0]]
		if !ok {
			return &compiler.DimensionsMissingError{Tensor: n.Input[0], Node: n.Name}
		}
		for _, out := range n.Output {
			if _, ok := known[out]; ok {
				continue
			}
			propagated := src
			propagated.Name = out
			known[out] = propagated
			resolved[out] = propagated
		}
	}

	writeBack(g.Outputs, resolved)
	for name, vi := range resolved {
		if _, onOutput := findByName(g.Outputs, name); onOutput {
			continue // already filled in by writeBack
		}
		if _, onValueInfo := findByName(g.ValueInfo, name); !onValueInfo {
			g.ValueInfo = append(g.ValueInfo, vi)
		}
	}
	return nil
}

func findByName(vis []ValueInfo, name string) (int, bool) {
	for i, vi := range vis {
		if vi.Name == name {
			return i, true
		}
	}
	return 0, false
}

// writeBack fills in any g.Outputs entry that is an unresolved placeholder
// (declared by name only) with its propagated shape.
func writeBack(outputs []ValueInfo, resolved map[string]ValueInfo) {
	for i, vi := range outputs {
		if resolvedWithType(vi) {
			continue
		}
		if prop, ok := resolved[vi.Name]; ok {
			outputs[i] = prop
		}
	}
}

// Shapes returns the resolved input and output shapes for node n, looked up
// from g.Inputs, g.Initializers, g.ValueInfo, and g.Outputs — the tables
// [InferShapes] populates. Every name in n.Input/n.Output must already be
// resolved there.
func Shapes(g *Graph, n *Node) (inputs, outputs []shape.Shape, err error) {
	known := map[string]ValueInfo{}
	record := func(vis []ValueInfo) {
		for _, vi := range vis {
			known[vi.Name] = vi
		}
	}
	record(g.Inputs)
	record(g.Initializers)
	record(g.ValueInfo)
	record(g.Outputs)

	lookup := func(names []string) ([]shape.Shape, error) {
		shapes := make([]shape.Shape, len(names))
		for i, name := range names {
			vi, ok := known[name]
			if !ok {
				return nil, &compiler.DimensionsMissingError{Tensor: name, Node: n.Name}
			}
			s, err := vi.ToShape()
			if err != nil {
				return nil, err
			}
			shapes[i] = s
		}
		return shapes, nil
	}

	inputs, err = lookup(n.Input)
	if err != nil {
		return nil, nil, err
	}
	outputs, err = lookup(n.Output)
	if err != nil {
		return nil, nil, err
	}
	return inputs, outputs, nil
}
