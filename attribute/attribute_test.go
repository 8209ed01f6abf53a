// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPresent(t *testing.T) {
	attrs := map[string]Value{"alpha": Float(0.5)}
	v, err := Get[float64]("alpha", nil, attrs)
	assert.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestGetDefault(t *testing.T) {
	attrs := map[string]Value{}
	def := 1.0
	v, err := Get[float64]("alpha", &def, attrs)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestGetNotFound(t *testing.T) {
	attrs := map[string]Value{}
	_, err := Get[float64]("alpha", nil, attrs)
	assert.Error(t, err)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, "alpha", nf.Name)
}

func TestGetListOfInts(t *testing.T) {
	attrs := map[string]Value{"axes": Ints([]int64{-2, 1})}
	v, err := Get[[]int64]("axes", nil, attrs)
	assert.NoError(t, err)
	assert.Equal(t, []int64{-2, 1}, v)
}

func TestGetString(t *testing.T) {
	attrs := map[string]Value{"mode": String("nearest")}
	v, err := Get[string]("mode", nil, attrs)
	assert.NoError(t, err)
	assert.Equal(t, "nearest", v)
}
