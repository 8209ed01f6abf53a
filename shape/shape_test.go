// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunks(t *testing.T) {
	s := New(ScalarF32, 3, 2, 2)
	chunks := s.Chunks()
	assert.Equal(t, []uint64{4, 2, 1}, chunks)
	assert.Equal(t, uint64(1), chunks[len(chunks)-1])
	assert.Equal(t, s.ElementCount()/s.Dim(0), chunks[0])
}

func TestChunksRankZero(t *testing.T) {
	s := New(ScalarF32)
	assert.Nil(t, s.Chunks())
	assert.Equal(t, uint64(1), s.ElementCount())
}

func TestElementCount(t *testing.T) {
	s := New(ScalarI32, 1, 1, 1, 1024)
	assert.Equal(t, uint64(1024), s.ElementCount())
}

func TestForSize(t *testing.T) {
	assert.Equal(t, 4, ForSize(16, ScalarF32).Elements())
	assert.Equal(t, 2, ForSize(6, ScalarF32).Elements())
	assert.Equal(t, 1, ForSize(5, ScalarF32).Elements())
}

func TestVec3StrideMatchesVec4(t *testing.T) {
	assert.Equal(t, Vec(ScalarF32, 4).Stride(), Vec(ScalarF32, 3).Stride())
}

func TestWGSLTypeName(t *testing.T) {
	assert.Equal(t, "vec4<f32>", Vec(ScalarF32, 4).WGSLTypeName())
	assert.Equal(t, "mat4x4<f32>", Mat(ScalarF32, 4, 4).WGSLTypeName())
	assert.Equal(t, "f32", Scalar(ScalarF32).WGSLTypeName())
}

func TestAgree(t *testing.T) {
	a := New(ScalarF32, 2, 3)
	b := New(ScalarF32, 2, 3)
	dt, err := Agree([]Shape{a}, []Shape{b})
	assert.NoError(t, err)
	assert.Equal(t, ScalarF32, dt)

	c := New(ScalarI32, 2, 3)
	_, err = Agree([]Shape{a}, []Shape{c})
	assert.Error(t, err)
	var disagree *TypesDisagreeError
	assert.ErrorAs(t, err, &disagree)

	_, err = Agree(nil, nil)
	assert.Error(t, err)
	var underspecified *TypeUnderspecifiedError
	assert.ErrorAs(t, err, &underspecified)
}

func TestScalarTypeFromCode(t *testing.T) {
	st, err := ScalarTypeFromCode(1)
	assert.NoError(t, err)
	assert.Equal(t, ScalarF32, st)

	_, err = ScalarTypeFromCode(99)
	assert.Error(t, err)
	var invalid *InvalidTypeError
	assert.ErrorAs(t, err, &invalid)
}
