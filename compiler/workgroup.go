// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

// Device limit constants, bit-exact to the WebGPU specification.
const (
	MaxComputeWorkgroupsPerDimension uint32 = 65535
	MaxWorkgroupSizeX                uint32 = 256
	MaxWorkgroupSizeY                uint32 = 256
	MaxWorkgroupSizeZ                uint32 = 64
)

// ceilDiv returns ⌈x/y⌉ for positive y.
func ceilDiv(x, y uint64) uint64 {
	return (x + y - 1) / y
}

// workgroupSize determines the number of threads to dispatch and the
// per-workgroup size given that the shader's entry point must run x times,
// subject to the maxThreads (dispatch dimension limit) and
// maxWorkgroupSize (per-dimension workgroup size limit) constraints.
func workgroupSize(x uint64, maxThreads, maxWorkgroupSize uint32) (threads uint32, groupSize uint32, err error) {
	maxX := uint64(maxThreads)
	if x <= maxX {
		return uint32(x), 1, nil
	}

	gs := ceilDiv(x, maxX)
	t := ceilDiv(x, gs)

	if t > uint64(maxThreads) {
		return 0, 0, &ComputeLimitExceededError{Dimension: "threads", Requested: uint32(t), Limit: maxThreads}
	}
	if gs > uint64(maxWorkgroupSize) {
		return 0, 0, &ComputeLimitExceededError{Dimension: "workgroup size", Requested: uint32(gs), Limit: maxWorkgroupSize}
	}
	return uint32(t), uint32(gs), nil
}
