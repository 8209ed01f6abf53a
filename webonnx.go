// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webonnx is the thin session façade over the engine's three real
// subsystems (graph, compiler, gpux): it loads a graph, walks its nodes in
// the order the file already declares them (the operator-exchange format
// requires producers to precede consumers), compiles each one, and
// dispatches it on the GPU session, handing tensors from one node's output
// to the next node's input.
package webonnx

import (
	"context"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"cogentcore.org/webonnx/compiler"
	"cogentcore.org/webonnx/gpux"
	"cogentcore.org/webonnx/graph"
	"cogentcore.org/webonnx/shape"
)

// Tensor is a host-side tensor: a shape plus its row-major bytes, in the
// scalar type shape.DataType names.
type Tensor struct {
	Shape shape.Shape
	Data  []byte
}

// Engine owns a loaded, shape-resolved graph and the GPU session it runs
// on. All the interesting logic lives in compiler.Compile; Engine only
// sequences calls into it.
type Engine struct {
	graph   *graph.Graph
	session *gpux.Session
}

// Load reads a graph file from path, decodes it, infers every shape the
// compiler's contract requires, and folds away the identity-like ops the
// compiler refuses to see.
func Load(path string) (*Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("webonnx: opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := graph.Load(f)
	if err != nil {
		return nil, fmt.Errorf("webonnx: loading %s: %w", path, err)
	}

	g, err = graph.FoldIdentity(g)
	if err != nil {
		return nil, fmt.Errorf("webonnx: folding %s: %w", path, err)
	}

	if err := graph.InferShapes(g); err != nil {
		return nil, fmt.Errorf("webonnx: inferring shapes for %s: %w", path, err)
	}

	session, err := gpux.NewSession()
	if err != nil {
		return nil, fmt.Errorf("webonnx: starting GPU session: %w", err)
	}

	return &Engine{graph: g, session: session}, nil
}

// Close releases the engine's GPU session.
func (e *Engine) Close() {
	e.session.Release()
}

// Run dispatches every node in the graph in file order, feeding inputs'
// tensors into the named graph inputs, and returns the named graph
// outputs' resulting tensors.
func (e *Engine) Run(ctx context.Context, inputs map[string]Tensor) (map[string]Tensor, error) {
	buffers := map[string]gpux.Buffer{}
	shapes := map[string]shape.Shape{}

	for name, t := range inputs {
		buffers[name] = e.session.NewBufferInit(name, t.Data, t.Shape.DataType.Stride(),
			wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		shapes[name] = t.Shape
	}
	for _, init := range e.graph.Initializers {
		if _, ok := shapes[init.Name]; ok {
			continue
		}
		s, err := init.ToShape()
		if err != nil {
			return nil, fmt.Errorf("webonnx: initializer %q: %w", init.Name, err)
		}
		shapes[init.Name] = s
		if init.Data != nil {
			buffers[init.Name] = e.session.NewBufferInit(init.Name, init.Data, s.DataType.Stride(),
				wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		}
	}

	for i := range e.graph.Nodes {
		n := &e.graph.Nodes[i]

		inputShapes, outputShapes, err := graph.Shapes(e.graph, n)
		if err != nil {
			return nil, fmt.Errorf("webonnx: node %q: %w", n.Name, err)
		}
		for i, out := range n.Output {
			shapes[out] = outputShapes[i]
		}

		compiled, err := compiler.Compile(&compiler.Node{
			Name:      n.Name,
			OpType:    n.OpType,
			Attribute: n.Attribute,
		}, inputShapes, outputShapes, e.graph.OpsetVersion)
		if err != nil {
			return nil, fmt.Errorf("webonnx: compiling node %q: %w", n.Name, err)
		}

		nodeInputs := make([]gpux.Buffer, len(n.Input))
		for i, in := range n.Input {
			buf, ok := buffers[in]
			if !ok {
				return nil, fmt.Errorf("webonnx: node %q: input %q has no buffer (graph not in producer-before-consumer order)", n.Name, in)
			}
			nodeInputs[i] = buf
		}

		nodeOutputs := make([]gpux.Buffer, len(n.Output))
		for i, out := range n.Output {
			s := outputShapes[i]
			nodeOutputs[i] = e.session.NewBuffer(out, s.ElementCount(), s.DataType.Stride(),
				wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
			buffers[out] = nodeOutputs[i]
		}

		if err := e.session.Dispatch(ctx, compiled, nodeInputs, nodeOutputs); err != nil {
			return nil, fmt.Errorf("webonnx: dispatching node %q: %w", n.Name, err)
		}
	}

	results := make(map[string]Tensor, len(e.graph.Outputs))
	for _, out := range e.graph.Outputs {
		buf, ok := buffers[out.Name]
		if !ok {
			return nil, fmt.Errorf("webonnx: graph output %q was never produced", out.Name)
		}
		data, err := e.session.Readback(ctx, buf)
		if err != nil {
			return nil, fmt.Errorf("webonnx: reading back output %q: %w", out.Name, err)
		}
		results[out.Name] = Tensor{Shape: shapes[out.Name], Data: data}
	}
	return results, nil
}
