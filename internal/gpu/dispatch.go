//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/wgpu/hal"
)

const (
	pixelStride = 16 // vec4<f32>
	paramsSize  = 16 // Params in brush_composite.wgsl
	waitTimeout = 5 * time.Second

	minNormalF32 = 0x1p-126
)

// dispatch runs one compute pass over n pixels and returns the blended
// destination bytes.
func (a *CompositeAccelerator) dispatch(srcBytes, dstBytes []byte, n int, mode texpaint.BlendMode) ([]byte, error) {
	size := uint64(len(dstBytes))

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "brush_composite_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	srcBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "brush_composite_src", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create source buffer: %w", err)
	}
	defer a.device.DestroyBuffer(srcBuf)

	dstBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "brush_composite_dst", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create target buffer: %w", err)
	}
	defer a.device.DestroyBuffer(dstBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "brush_composite_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, makeParams(uint32(n), mode)) //nolint:gosec // n bounded by buffer size
	a.queue.WriteBuffer(srcBuf, 0, srcBytes)
	a.queue.WriteBuffer(dstBuf, 0, dstBytes)

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "brush_composite_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: size}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "brush_composite_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("brush_composite"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "brush_composite_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(workgroups(n), 1, 1)
	pass.End()
	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, waitTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, size)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

// workgroups returns the dispatch size covering n invocations.
func workgroups(n int) uint32 {
	return uint32((n + workgroupSize - 1) / workgroupSize) //nolint:gosec // n bounded by buffer size
}

// makeParams serializes the Params uniform.
func makeParams(count uint32, mode texpaint.BlendMode) []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:4], count)
	if mode == texpaint.BlendSubtract {
		binary.LittleEndian.PutUint32(buf[4:8], 1)
	}
	return buf
}

// packRGBA serializes pixels as little-endian vec4<f32>. It reports false
// if any channel changes when narrowed to float32.
func packRGBA(px []texpaint.RGBA) ([]byte, bool) {
	out := make([]byte, len(px)*pixelStride)
	for i, c := range px {
		off := i * pixelStride
		for j, v := range [4]float64{c.R, c.G, c.B, c.A} {
			f := float32(v)
			if float64(f) != v {
				return nil, false
			}
			binary.LittleEndian.PutUint32(out[off+j*4:], math.Float32bits(f))
		}
	}
	return out, true
}

// exactInF32 reports whether blending every dst/src pair in float32 gives
// the same result as the float64 CPU path. Inputs must already be exact
// float32 values.
func exactInF32(dst, src []texpaint.RGBA, mode texpaint.BlendMode) bool {
	for i := range dst {
		want := mode.Blend(dst[i], src[i])
		for _, v := range [4]float64{want.R, want.G, want.B, want.A} {
			if float64(float32(v)) != v {
				return false
			}
			// Devices may flush float32 subnormals to zero.
			if v != 0 && math.Abs(v) < minNormalF32 {
				return false
			}
		}
	}
	return true
}

// unpackRGBA decodes vec4<f32> pixels into dst.
func unpackRGBA(data []byte, dst []texpaint.RGBA) {
	for i := range dst {
		off := i * pixelStride
		dst[i] = texpaint.RGBA{
			R: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))),
			G: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:]))),
			B: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:]))),
			A: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off+12:]))),
		}
	}
}
