// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "fmt"

// identityOps are the operators FoldIdentity removes: each is a pure
// passthrough of its single input to its single output once shapes are
// fixed, which is exactly why compiler.InvalidOperationError treats seeing
// one of them as a contract violation rather than a supported op.
var identityOps = map[string]bool{
	"Reshape": true, "Dropout": true, "Identity": true,
	"Flatten": true, "Squeeze": true, "Unsqueeze": true,
}

// FoldIdentity returns a copy of g with every [identityOps] node removed,
// rewiring every downstream reference to its output onto its first input.
// Trailing inputs (Reshape's shape operand, Squeeze's axes operand) are
// parameters, not data, and are dropped with the node. It fails if a fold
// candidate has more than one output (e.g. Dropout's training-mode mask
// output), since there is then no single name to rewire onto.
func FoldIdentity(g *Graph) (*Graph, error) {
	rename := map[string]string{}
	kept := make([]Node, 0, len(g.Nodes))

	resolve := func(name string) string {
		for {
			to, ok := rename[name]
			if !ok {
				return name
			}
			name = to
		}
	}

	for _, n := range g.Nodes {
		if !identityOps[n.OpType] {
			n.Input = append([]string(nil), n.Input...)
			kept = append(kept, n)
			continue
		}
		if len(n.Input) == 0 || len(n.Output) != 1 {
			return nil, fmt.Errorf("graph: cannot fold %s node %q: expected at least one input and exactly one output, got %d and %d",
				n.OpType, n.Name, len(n.Input), len(n.Output))
		}
		rename[n.Output[0]] = n.Input[0]
	}

	for i := range kept {
		for j, in := range kept[i].Input {
			kept[i].Input[j] = resolve(in)
		}
	}

	out := &Graph{
		Name:         g.Name,
		OpsetVersion: g.OpsetVersion,
		Nodes:        kept,
		Inputs:       g.Inputs,
		ValueInfo:    g.ValueInfo,
		Initializers: g.Initializers,
	}
	out.Outputs = make([]ValueInfo, len(g.Outputs))
	for i, vi := range g.Outputs {
		vi.Name = resolve(vi.Name)
		out.Outputs[i] = vi
	}
	return out, nil
}
