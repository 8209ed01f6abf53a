// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package webonnxcfg holds process configuration for cmd/webonnxrun: device
// limit overrides, the opset version to compile against when a model does
// not declare one, and the log level. It is deliberately small — the
// reflective CLI flag framework cogentcore.org/core/cli provides is not
// exercised here, since config parsing belongs entirely at the process edge
// and never inside the compiler.
package webonnxcfg

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Config is the top-level process configuration, loaded from a JSON file by
// cmd/webonnxrun.
type Config struct {
	// ModelPath is the graph file to load.
	ModelPath string `json:"modelPath"`

	// DefaultOpsetVersion is used when a model's opset_import is absent.
	DefaultOpsetVersion int64 `json:"defaultOpsetVersion,omitzero"`

	// DryRun, when true, compiles every node and prints its shader instead
	// of dispatching to a real adapter.
	DryRun bool `json:"dryRun,omitzero"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"logLevel,omitzero"`

	// Limits optionally sets the device limits that the dry-run path
	// validates compiled dispatch sizes against; the GPU dispatch path does
	// not consult it.
	Limits *Limits `json:"limits,omitzero"`
}

// Limits pins the dispatch-extent limit compiled nodes are validated
// against below the real adapter's, so a model can be vetted for a weaker
// target device (or the limit error path tested without a pathologically
// large model).
type Limits struct {
	MaxComputeWorkgroupsPerDimension uint32 `json:"maxComputeWorkgroupsPerDimension,omitzero"`
}

// Default returns the zero-value configuration with its defaults filled in.
func Default() Config {
	return Config{
		DefaultOpsetVersion: 13,
		LogLevel:            "info",
	}
}

// Load decodes a JSON-encoded Config from r, starting from [Default] so
// unset fields keep their default value.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("webonnxcfg: decoding config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a [slog.Level], defaulting to [slog.LevelInfo]
// for an empty or unrecognized value.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
