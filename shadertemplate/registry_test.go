// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shadertemplate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/endomorphism/map.wgsl": &fstest.MapFile{Data: []byte("fn f(x: {{.ScalarType}}) -> {{.ScalarType}} { return x; }")},
		"templates/structs.wgsl":          &fstest.MapFile{Data: []byte("struct S { x: {{.ScalarType}} }")},
	}
}

func TestRenderKnownTemplate(t *testing.T) {
	r := New(testFS(), "templates/*/*.wgsl", "templates/*.wgsl")
	out := r.Render("endomorphism/map.wgsl", struct{ ScalarType string }{"f32"})
	assert.Contains(t, out, "f32")
}

func TestRenderRootLevelTemplate(t *testing.T) {
	r := New(testFS(), "templates/*/*.wgsl", "templates/*.wgsl")
	out := r.Render("structs.wgsl", struct{ ScalarType string }{"i32"})
	assert.Equal(t, "struct S { x: i32 }", out)
}

func TestRenderUnknownTemplatePanics(t *testing.T) {
	r := New(testFS(), "templates/*/*.wgsl", "templates/*.wgsl")
	assert.Panics(t, func() {
		r.Render("does/not/exist.wgsl", nil)
	})
}

func TestRenderIsIdempotentUnderConcurrentFirstUse(t *testing.T) {
	r := New(testFS(), "templates/*/*.wgsl", "templates/*.wgsl")
	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- r.Render("structs.wgsl", struct{ ScalarType string }{"u32"})
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, "struct S { x: u32 }", <-done)
	}
}
