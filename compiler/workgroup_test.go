// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, uint64(1), ceilDiv(1, 4))
	assert.Equal(t, uint64(1), ceilDiv(4, 4))
	assert.Equal(t, uint64(2), ceilDiv(5, 4))
	assert.Equal(t, uint64(0), ceilDiv(0, 4))
}

func TestWorkgroupSizeUnderLimit(t *testing.T) {
	threads, groupSize, err := workgroupSize(100, MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	assert.NoError(t, err)
	assert.Equal(t, uint32(100), threads)
	assert.Equal(t, uint32(1), groupSize)
}

// TestWorkgroupSizeSolverInvariant pins the invariant the solver must
// preserve whenever x exceeds the dispatch-dimension limit: the returned
// (threads, groupSize) pair must still cover at least x total invocations,
// and both values must respect their respective device limits.
func TestWorkgroupSizeSolverInvariant(t *testing.T) {
	x := uint64(MaxComputeWorkgroupsPerDimension) + 1000
	threads, groupSize, err := workgroupSize(x, MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	assert.NoError(t, err)
	assert.LessOrEqual(t, threads, MaxComputeWorkgroupsPerDimension)
	assert.LessOrEqual(t, groupSize, MaxWorkgroupSizeX)
	assert.GreaterOrEqual(t, uint64(threads)*uint64(groupSize), x)
}

func TestWorkgroupSizeExceedsLimit(t *testing.T) {
	// Pick x so large that even the largest legal workgroup size cannot
	// bring the thread count under the dispatch-dimension limit.
	x := uint64(MaxComputeWorkgroupsPerDimension) * uint64(MaxWorkgroupSizeX) * 10
	_, _, err := workgroupSize(x, MaxComputeWorkgroupsPerDimension, MaxWorkgroupSizeX)
	assert.Error(t, err)
	var limitErr *ComputeLimitExceededError
	assert.ErrorAs(t, err, &limitErr)
}
