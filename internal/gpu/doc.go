//go:build !nogpu

// Package gpu provides the wgpu compute backend for texpaint compositing.
//
// CompositeAccelerator implements texpaint.CompositeAccelerator. It runs
// the add/subtract blend of a brush placement as a single compute pass over
// the clipped rectangle: the target and source regions are uploaded as
// vec4<f32> storage buffers, the shader in shaders/brush_composite.wgsl
// combines them in place, and the result is read back into the target.
//
// The shader computes in float32. Placements smaller than the configured
// minimum, and regions whose inputs or blended results a float32 cannot
// represent exactly, return texpaint.ErrFallbackToCPU and are composited by
// texpaint.CompositeCPU instead. Accelerated results are therefore
// identical to the CPU path.
//
// The device is either opened by Init (Vulkan, discrete or integrated GPU
// preferred) or shared with a host application through SetDeviceProvider.
package gpu
