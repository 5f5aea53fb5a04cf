package texpaint

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the accelerator cannot handle this composite.
// The caller should transparently fall back to the CPU path.
var ErrFallbackToCPU = errors.New("texpaint: falling back to CPU compositing")

// CompositeAccelerator is an optional hardware composite provider.
//
// When registered via RegisterAccelerator, Composite tries the accelerator
// first. If it returns ErrFallbackToCPU or any error, compositing
// transparently falls back to CompositeCPU. Implementations receive the
// buffers for the duration of one call and must not retain them.
//
// Users opt in via blank import:
//
//	import _ "github.com/gogpu/texpaint/gpu" // enables GPU compositing
type CompositeAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes resources. Called once during registration.
	Init() error

	// Close releases resources.
	Close()

	// Composite applies a planned composite to target.
	// Returns ErrFallbackToCPU if it cannot be accelerated.
	Composite(target, source *Buffer, p Placement, mode BlendMode) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   CompositeAccelerator
)

// RegisterAccelerator registers a composite accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one, which is closed. Init is called during registration; if it
// fails the accelerator is not registered and the error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    texpaint.RegisterAccelerator(NewCompositeAccelerator(DefaultMinPixels))
//	}
func RegisterAccelerator(a CompositeAccelerator) error {
	if a == nil {
		return errors.New("texpaint: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	return nil
}

// Accelerator returns the registered accelerator, or nil if none.
func Accelerator() CompositeAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator. If no accelerator is registered or it doesn't support device
// sharing, this is a no-op.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
