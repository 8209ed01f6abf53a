// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webonnxcfg

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadKeepsDefaultsForUnsetFields(t *testing.T) {
	cfg, err := Load(strings.NewReader(`{"modelPath": "model.onnx"}`))
	assert.NoError(t, err)
	assert.Equal(t, "model.onnx", cfg.ModelPath)
	assert.Equal(t, int64(13), cfg.DefaultOpsetVersion)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(`{"defaultOpsetVersion": 17, "logLevel": "debug", "dryRun": true}`))
	assert.NoError(t, err)
	assert.Equal(t, int64(17), cfg.DefaultOpsetVersion)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestSlogLevelUnrecognizedDefaultsToInfo(t *testing.T) {
	cfg := Config{LogLevel: "verbose"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}
