// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph provides the in-memory operator-exchange graph model the
// compiler consumes, plus the external collaborators that produce it: a
// minimal protobuf decoder for the wire format, a shape-inference
// bootstrap, and constant folding of the operators the compiler expects
// to have already been removed.
package graph

import "cogentcore.org/webonnx/attribute"

// Node is a single vertex in the graph: an operator invocation naming its
// ordered input and output tensors and its typed attributes. Nodes are
// read-only once parsed; the compiler never mutates them.
type Node struct {
	Name      string
	OpType    string
	Input     []string
	Output    []string
	Attribute map[string]attribute.Value
}

// ValueInfo names a graph input, output, or intermediate value and its
// declared shape, as found in the wire format's ValueInfoProto.
type ValueInfo struct {
	Name     string
	DataType int32 // operator-format data-type code, 0 if unknown
	Dims     []int64
	// DimParams holds symbolic (non-literal) dimension names, empty-string
	// where the corresponding Dims entry is a literal size. Used to detect
	// shapes that are not fully resolved.
	DimParams []string
	// Data is the constant payload for initializers, already in the
	// engine's buffer layout: little-endian, with 64-bit integers narrowed
	// to the 32-bit lanes the shaders address. Nil for non-initializers.
	Data []byte
}

// Graph is the parsed, in-memory operator-exchange graph: an ordered list
// of nodes plus the named inputs, outputs, and initializer (constant)
// values that feed them.
type Graph struct {
	Name         string
	OpsetVersion int64
	Nodes        []Node
	Inputs       []ValueInfo
	Outputs      []ValueInfo
	ValueInfo    []ValueInfo // intermediate value shape hints, if present
	Initializers []ValueInfo // constants; shapes are always fully known
}

// Resolved reports whether every dimension of vi is a literal size (i.e.
// shape inference has nothing left to do for it).
func (vi ValueInfo) Resolved() bool {
	if len(vi.Dims) != len(vi.DimParams) {
		return len(vi.DimParams) == 0 && len(vi.Dims) > 0
	}
	for _, p := range vi.DimParams {
		if p != "" {
			return false
		}
	}
	return true
}
