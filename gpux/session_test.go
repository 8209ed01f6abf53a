// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddedElementCount(t *testing.T) {
	assert.Equal(t, uint64(0), paddedElementCount(0))
	assert.Equal(t, uint64(4), paddedElementCount(1))
	assert.Equal(t, uint64(4), paddedElementCount(3))
	assert.Equal(t, uint64(4), paddedElementCount(4))
	assert.Equal(t, uint64(8), paddedElementCount(5))
}
