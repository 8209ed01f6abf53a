// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpux is the GPU session layer: it turns a [compiler.CompiledNode]
// into a dispatched compute pass over storage buffers on a real device,
// using github.com/cogentcore/webgpu. It obtains the device/queue once and
// sizes/pads buffers before handing them to a compute pipeline.
package gpux

import (
	"context"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"cogentcore.org/webonnx/compiler"
)

// Session owns one GPU device and command queue, obtained once and reused
// across every node a graph run compiles and dispatches.
type Session struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// Limits mirrors the device limits the compiler's workgroup solver assumes
// are fixed constants (compiler.MaxComputeWorkgroupsPerDimension etc.), read
// from the real adapter so integration tests can assert the two agree.
type Limits struct {
	MaxComputeWorkgroupsPerDimension uint32
	MaxComputeWorkgroupSizeX         uint32
	MaxComputeWorkgroupSizeY         uint32
	MaxComputeWorkgroupSizeZ         uint32
}

// NewSession requests a high-performance adapter and a device with a
// default descriptor, leaving backend selection to the wgpu instance's own
// defaults.
func NewSession() (*Session, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpux: requesting adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("gpux: requesting device: %w", err)
	}

	return &Session{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// Limits reads the session's device limits.
func (s *Session) Limits() Limits {
	l := s.device.GetLimits()
	return Limits{
		MaxComputeWorkgroupsPerDimension: l.MaxComputeWorkgroupsPerDimension,
		MaxComputeWorkgroupSizeX:         l.MaxComputeWorkgroupSizeX,
		MaxComputeWorkgroupSizeY:         l.MaxComputeWorkgroupSizeY,
		MaxComputeWorkgroupSizeZ:         l.MaxComputeWorkgroupSizeZ,
	}
}

// Release frees the device and adapter. Buffers created from this session
// must not be used afterward.
func (s *Session) Release() {
	s.device.Release()
	s.adapter.Release()
	s.instance.Release()
}

// Buffer is a storage buffer sized so the generated shaders' vec4-grouped
// access never reads past the end: buffers are padded to a multiple of 4
// elements, and the underlying GPU allocation is never smaller than 16
// bytes.
type Buffer struct {
	native     *wgpu.Buffer
	sizeBytes  uint64
	elemStride uint64
}

const minBufferBytes = 16

// paddedElementCount returns n rounded up to a multiple of 4, so shaders
// that address buffers with vec4 loads always have a full final lane.
func paddedElementCount(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return ((n + 3) / 4) * 4
}

// NewBuffer allocates a storage buffer capable of holding at least n
// elements of elemStride bytes each, padded per [paddedElementCount].
func (s *Session) NewBuffer(name string, n, elemStride uint64, usage wgpu.BufferUsage) Buffer {
	padded := paddedElementCount(n)
	size := padded * elemStride
	if size < minBufferBytes {
		size = minBufferBytes
	}
	native := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	return Buffer{native: native, sizeBytes: size, elemStride: elemStride}
}

// NewBufferInit allocates a storage buffer and uploads data immediately,
// applying the same element padding and minimum size as [Session.NewBuffer]
// first.
func (s *Session) NewBufferInit(name string, data []byte, elemStride uint64, usage wgpu.BufferUsage) Buffer {
	n := uint64(len(data)) / elemStride
	padded := paddedElementCount(n)
	if padded > n {
		data = append(append([]byte(nil), data...), make([]byte, (padded-n)*elemStride)...)
	}
	if len(data) < minBufferBytes {
		data = append(append([]byte(nil), data...), make([]byte, minBufferBytes-len(data))...)
	}
	native := s.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: data,
		Usage:    usage,
	})
	return Buffer{native: native, sizeBytes: uint64(len(data)), elemStride: elemStride}
}

// Dispatch creates a shader module and compute pipeline for compiled, binds
// inputs and outputs as storage buffers in binding order, and runs one
// compute pass of compiled.Threads workgroups.
func (s *Session) Dispatch(ctx context.Context, compiled *compiler.CompiledNode, inputs, outputs []Buffer) error {
	module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "webonnx-node",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: compiled.Shader},
	})
	if err != nil {
		return fmt.Errorf("gpux: compiling shader module: %w", err)
	}
	defer module.Release()

	pipeline, err := s.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "webonnx-node",
		Layout: nil, // auto layout, derived from the shader's binding group
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("gpux: creating compute pipeline: %w", err)
	}
	defer pipeline.Release()

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+len(outputs))
	binding := uint32(0)
	for _, in := range inputs {
		entries = append(entries, wgpu.BindGroupEntry{Binding: binding, Buffer: in.native, Size: in.sizeBytes})
		binding++
	}
	for _, out := range outputs {
		entries = append(entries, wgpu.BindGroupEntry{Binding: binding, Buffer: out.native, Size: out.sizeBytes})
		binding++
	}

	bindGroup := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "webonnx-node",
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	defer bindGroup.Release()

	encoder := s.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "webonnx-node"})
	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "webonnx-node"})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(compiled.Threads[0], compiled.Threads[1], compiled.Threads[2])
	pass.End()

	cmd := encoder.Finish(&wgpu.CommandBufferDescriptor{Label: "webonnx-node"})
	s.queue.Submit([]*wgpu.CommandBuffer{cmd})

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

// Readback copies buf into a fresh staging buffer, maps that back to host
// memory, and returns a copy of its bytes. buf must have been created with
// wgpu.BufferUsageCopySrc; storage buffers cannot be mapped directly.
func (s *Session) Readback(ctx context.Context, buf Buffer) ([]byte, error) {
	staging := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "webonnx-readback",
		Size:             buf.sizeBytes,
		Usage:            wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		MappedAtCreation: false,
	})
	defer staging.Release()

	encoder := s.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "webonnx-readback"})
	encoder.CopyBufferToBuffer(buf.native, 0, staging, 0, buf.sizeBytes)
	cmd := encoder.Finish(&wgpu.CommandBufferDescriptor{Label: "webonnx-readback"})
	s.queue.Submit([]*wgpu.CommandBuffer{cmd})

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, buf.sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- fmt.Errorf("gpux: mapping buffer for readback failed: %v", status)
			return
		}
		done <- nil
	})
	s.device.Poll(true, nil)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	data := staging.GetMappedRange(0, uint(buf.sizeBytes))
	out := make([]byte, len(data))
	copy(out, data)
	staging.Unmap()
	return out, nil
}
