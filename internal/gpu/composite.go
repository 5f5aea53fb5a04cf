//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DefaultMinPixels is the smallest placement, in pixels, worth a dispatch.
// Anything smaller costs more in buffer setup and readback than the blend.
const DefaultMinPixels = 64 * 64

// workgroupSize matches @workgroup_size in brush_composite.wgsl.
const workgroupSize = 64

// CompositeAccelerator runs brush compositing as a wgpu/hal compute pass.
// It implements texpaint.CompositeAccelerator.
type CompositeAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	minPixels      int
	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
	dispatches     int
}

var (
	_ texpaint.CompositeAccelerator = (*CompositeAccelerator)(nil)
	_ texpaint.DeviceProviderAware  = (*CompositeAccelerator)(nil)
)

// NewCompositeAccelerator creates an accelerator that dispatches placements
// of at least minPixels pixels. A value <= 0 selects DefaultMinPixels.
// The GPU is not touched until Init or SetDeviceProvider.
func NewCompositeAccelerator(minPixels int) *CompositeAccelerator {
	if minPixels <= 0 {
		minPixels = DefaultMinPixels
	}
	return &CompositeAccelerator{minPixels: minPixels}
}

func (a *CompositeAccelerator) Name() string { return "wgpu-composite" }

// Init opens a Vulkan device. Failure is not an error: the accelerator
// stays registered and every Composite call falls back to the CPU.
func (a *CompositeAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpuReady {
		return nil
	}
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu-composite: GPU init failed, using CPU fallback", "err", err)
		a.releaseLocked()
	}
	return nil
}

func (a *CompositeAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

// SetLogger routes accelerator logging to l.
func (a *CompositeAccelerator) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// GPUReady reports whether a device and pipeline are available.
func (a *CompositeAccelerator) GPUReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Dispatches returns the number of placements composited on the GPU.
func (a *CompositeAccelerator) Dispatches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dispatches
}

// SetDeviceProvider switches the accelerator to a GPU device shared by the
// host application. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (a *CompositeAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu-composite: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu-composite: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu-composite: provider HalQueue is not hal.Queue")
	}
	return a.SetDevice(device, queue)
}

// SetDevice makes the accelerator use an externally owned device and queue.
// Close releases the pipelines but leaves the device alive.
func (a *CompositeAccelerator) SetDevice(device hal.Device, queue hal.Queue) error {
	if device == nil || queue == nil {
		return errors.New("gpu-composite: nil device or queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.releaseLocked()
		return fmt.Errorf("gpu-composite: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-composite: switched to shared GPU device")
	return nil
}

// Composite blends the source rectangle of p onto the target on the GPU.
// It returns texpaint.ErrFallbackToCPU when no device is ready, when the
// placement is below the dispatch threshold, or when an input channel or
// a blended result cannot be represented exactly as float32.
func (a *CompositeAccelerator) Composite(target, source *texpaint.Buffer, p texpaint.Placement, mode texpaint.BlendMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady || p.Empty() {
		return texpaint.ErrFallbackToCPU
	}
	n := p.Dst.Dx() * p.Dst.Dy()
	if n < a.minPixels {
		return texpaint.ErrFallbackToCPU
	}

	dst := target.Region(p.Dst)
	src := source.Region(p.Dst.Sub(p.Dst.Min).Add(p.Src))
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("gpu-composite: placement %v outside buffers", p)
	}
	dstBytes, ok := packRGBA(dst)
	if !ok {
		return texpaint.ErrFallbackToCPU
	}
	srcBytes, ok := packRGBA(src)
	if !ok {
		return texpaint.ErrFallbackToCPU
	}
	if !exactInF32(dst, src, mode) {
		return texpaint.ErrFallbackToCPU
	}

	out, err := a.dispatch(srcBytes, dstBytes, n, mode)
	if err != nil {
		return fmt.Errorf("gpu-composite: %w", err)
	}
	unpackRGBA(out, dst)
	if err := target.SetRegion(p.Dst, dst); err != nil {
		return fmt.Errorf("gpu-composite: %w", err)
	}
	a.dispatches++
	return nil
}

func (a *CompositeAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-composite: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *CompositeAccelerator) createPipelines() error {
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "brush_composite",
		Source: shaderSource("brush_composite", brushCompositeShaderSource),
	})
	if err != nil {
		return fmt.Errorf("create brush_composite shader: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "brush_composite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "brush_composite_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "brush_composite_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *CompositeAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// releaseLocked destroys pipelines and any device the accelerator owns.
func (a *CompositeAccelerator) releaseLocked() {
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.queue = nil
	a.instance = nil
	a.gpuReady = false
	a.externalDevice = false
}
