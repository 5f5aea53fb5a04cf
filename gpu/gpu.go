//go:build !nogpu

// Package gpu registers the wgpu compositing accelerator.
//
// Import this package to run large brush composites as a compute pass on
// the GPU. Small placements and values a float32 cannot hold exactly are
// still composited on the CPU.
//
// If GPU initialization fails (no Vulkan device available), the accelerator
// stays registered and every composite falls back to the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/texpaint/gpu" // enable GPU compositing
package gpu

import (
	"github.com/gogpu/texpaint"
	gpuimpl "github.com/gogpu/texpaint/internal/gpu"
)

func init() {
	accel := gpuimpl.NewCompositeAccelerator(gpuimpl.DefaultMinPixels)
	if err := texpaint.RegisterAccelerator(accel); err != nil {
		texpaint.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider. This avoids creating a separate GPU instance.
//
// The provider must expose HalDevice() any and HalQueue() any returning
// wgpu hal.Device and hal.Queue values.
func SetDeviceProvider(provider any) error {
	return texpaint.SetAcceleratorDeviceProvider(provider)
}
