// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

// optimizedAwayOps names the operators the compiler's contract requires
// an earlier graph pass to have already removed. Seeing one here is a
// contract violation by the caller, not a missing feature.
var optimizedAwayOps = map[string]bool{
	"Reshape":   true,
	"Dropout":   true,
	"Identity":  true,
	"Flatten":   true,
	"Squeeze":   true,
	"Unsqueeze": true,
}

// opHandlers is the op-name -> algorithm-selection table, built once at
// package init. Every entry corresponds to one operator family; several
// families share a single handler because they only differ in which WGSL
// infix/function the rendered shader uses.
var opHandlers map[string]opHandler

func init() {
	opHandlers = make(map[string]opHandler)

	for _, op := range []string{
		"Abs", "Acos", "Asin", "Atan", "Ceil", "Cos", "Cosh", "Exp", "Floor",
		"Log", "Round", "Sign", "Sin", "Sinh", "Sqrt", "Tan", "Tanh", "Reciprocal",
	} {
		opHandlers[op] = mapHandler
	}

	for _, op := range []string{
		"ReduceMean", "ReduceSum", "ReduceMax", "ReduceMin", "ReduceProd",
		"ReduceL1", "ReduceL2", "ReduceLogSum", "ReduceLogSumExp", "ReduceSumSquare",
	} {
		opHandlers[op] = reduceHandler
	}

	opHandlers["OneHot"] = oneHotHandler
	opHandlers["Gather"] = gatherHandler
	opHandlers["Cast"] = castHandler
	opHandlers["Softmax"] = softmaxHandler

	for op := range arithmeticOpType {
		opHandlers[op] = arithmeticHandler
	}

	opHandlers["BatchNormalization"] = batchNormalizationHandler

	for _, op := range []string{
		"Relu", "Sigmoid", "Softsign", "Softplus", "Clip", "Celu", "Elu", "LeakyRelu",
	} {
		opHandlers[op] = activationHandler
	}

	opHandlers["Concat"] = concatHandler

	for _, op := range []string{
		"MaxPool", "AveragePool", "Conv", "ConvRelu", "ConvLeakyRelu", "ConvMish", "GlobalAveragePool",
	} {
		opHandlers[op] = poolConvHandler
	}

	opHandlers["Gemm"] = gemmMatMulHandler
	opHandlers["MatMul"] = gemmMatMulHandler
	opHandlers["Resize"] = resizeHandler
	opHandlers["Split"] = splitHandler
	opHandlers["Transpose"] = transposeHandler

	// "Sum" and any op not listed above fall through to UnimplementedOpError
	// via the lookup miss in selectTemplate — no entry needed.
}

// selectTemplate is the single point where an operator name becomes a
// chosen template, scalar type, and dispatch extent.
func selectTemplate(s *compileState) (nodeTemplate, error) {
	if optimizedAwayOps[s.node.OpType] {
		return nodeTemplate{}, &InvalidOperationError{Op: s.node.OpType}
	}
	h, ok := opHandlers[s.node.OpType]
	if !ok {
		return nodeTemplate{}, &UnimplementedOpError{Op: s.node.OpType}
	}
	return h(s)
}
