// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command webonnxrun loads a graph file, compiles every node, and either
// prints the generated shaders (-dry-run) or dispatches them against a
// real adapter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cogentcore.org/webonnx"
	"cogentcore.org/webonnx/compiler"
	"cogentcore.org/webonnx/graph"
	"cogentcore.org/webonnx/webonnxcfg"
)

func main() {
	var configPath string
	var modelPath string
	var dryRun bool

	flag.StringVar(&configPath, "config", "", "path to a JSON config file (see webonnxcfg.Config); flags below override it")
	flag.StringVar(&modelPath, "model", "", "graph file to load, overrides the config's modelPath")
	flag.BoolVar(&dryRun, "dry-run", false, "compile every node and print its shader instead of dispatching")
	flag.Parse()

	cfg := webonnxcfg.Default()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		cfg, err = webonnxcfg.Load(f)
		if err != nil {
			fatal(err)
		}
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}
	if dryRun {
		cfg.DryRun = true
	}
	if cfg.ModelPath == "" {
		fmt.Fprintln(os.Stderr, "webonnxrun: no model path given (-model or config's modelPath)")
		os.Exit(2)
	}

	slog.SetLogLoggerLevel(cfg.SlogLevel())

	if cfg.DryRun {
		if err := runDryRun(cfg); err != nil {
			fatal(err)
		}
		return
	}

	engine, err := webonnx.Load(cfg.ModelPath)
	if err != nil {
		fatal(err)
	}
	defer engine.Close()

	ctx := context.Background()
	outputs, err := engine.Run(ctx, nil)
	if err != nil {
		fatal(err)
	}
	for name, t := range outputs {
		fmt.Printf("%s: %s, %d bytes\n", name, t.Shape, len(t.Data))
	}
}

func fatal(err error) {
	slog.Error(err.Error())
	os.Exit(1)
}

// runDryRun loads the graph and compiles every node without starting a GPU
// session, printing each node's generated shader.
func runDryRun(cfg webonnxcfg.Config) error {
	f, err := os.Open(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("webonnxrun: opening %s: %w", cfg.ModelPath, err)
	}
	defer f.Close()

	g, err := graph.Load(f)
	if err != nil {
		return fmt.Errorf("webonnxrun: loading %s: %w", cfg.ModelPath, err)
	}
	g, err = graph.FoldIdentity(g)
	if err != nil {
		return fmt.Errorf("webonnxrun: folding %s: %w", cfg.ModelPath, err)
	}
	opset := g.OpsetVersion
	if opset == 0 {
		opset = cfg.DefaultOpsetVersion
	}
	if err := graph.InferShapes(g); err != nil {
		return fmt.Errorf("webonnxrun: inferring shapes for %s: %w", cfg.ModelPath, err)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		inputShapes, outputShapes, err := graph.Shapes(g, n)
		if err != nil {
			return fmt.Errorf("webonnxrun: node %q: %w", n.Name, err)
		}
		compiled, err := compiler.Compile(&compiler.Node{
			Name:      n.Name,
			OpType:    n.OpType,
			Attribute: n.Attribute,
		}, inputShapes, outputShapes, opset)
		if err != nil {
			return fmt.Errorf("webonnxrun: compiling node %q: %w", n.Name, err)
		}
		if err := checkLimits(cfg.Limits, compiled); err != nil {
			return fmt.Errorf("webonnxrun: node %q: %w", n.Name, err)
		}
		fmt.Printf("// node %s (%s)\n%s\n", n.Name, n.OpType, compiled.Shader)
	}
	return nil
}

// checkLimits validates a compiled dispatch against the config's pinned
// device limits, so a model can be vetted for a weaker adapter than the
// one the compiler's built-in constants assume.
func checkLimits(limits *webonnxcfg.Limits, compiled *compiler.CompiledNode) error {
	if limits == nil || limits.MaxComputeWorkgroupsPerDimension == 0 {
		return nil
	}
	for i, dim := range []string{"x", "y", "z"} {
		if compiled.Threads[i] > limits.MaxComputeWorkgroupsPerDimension {
			return fmt.Errorf("dispatch %s extent %d exceeds configured limit %d",
				dim, compiled.Threads[i], limits.MaxComputeWorkgroupsPerDimension)
		}
	}
	return nil
}
