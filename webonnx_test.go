// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webonnx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("testdata/does-not-exist.onnx")
	assert.Error(t, err)
}
