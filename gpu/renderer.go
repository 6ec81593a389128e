// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu renders the bulb on a WebGPU compute pipeline via wgpu/hal.
//
// The renderer runs the same per-pixel math as the CPU backend in the root
// package, inside an 8x8-workgroup WGSL kernel. Per frame, the only state
// crossing the CPU/GPU boundary is a 32-byte camera uniform; the output
// pixels come back through a staging buffer after a fence wait, giving
// at-most-one-frame-in-flight behavior.
//
// If no adapter is available, New returns an error and the caller should
// fall back to the CPU renderer.
package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import the Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/bulb"
)

// fenceTimeout bounds the per-frame wait on the GPU.
const fenceTimeout = 5 * time.Second

// Renderer implements bulb.Renderer on a wgpu/hal compute pipeline.
// Render serializes frames with an internal lock, matching the
// one-frame-in-flight model; all other methods are safe for concurrent use.
type Renderer struct {
	mu sync.Mutex

	cfg bulb.Config

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	// Session-lifetime buffers. frameBuf is rewritten every frame; the
	// others are written once (sessionBuf) or only touched by the GPU.
	frameBuf   hal.Buffer
	sessionBuf hal.Buffer
	pixelBuf   hal.Buffer
	stagingBuf hal.Buffer
	bindGroup  hal.BindGroup

	readback []byte

	externalDevice bool
	closed         bool
}

var _ bulb.Renderer = (*Renderer)(nil)

// New creates a GPU renderer for cfg, opening the first usable adapter and
// building the compute pipeline and session buffers. The returned error is
// the caller's cue to fall back to the CPU backend.
func New(cfg bulb.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{cfg: cfg}
	if err := r.initDevice(); err != nil {
		return nil, fmt.Errorf("bulb/gpu: %w", err)
	}
	if err := r.createPipeline(); err != nil {
		r.destroyDevice()
		return nil, fmt.Errorf("bulb/gpu: %w", err)
	}
	return r, nil
}

// Name implements bulb.Renderer.
func (r *Renderer) Name() string { return "gpu" }

// SetDeviceProvider switches the renderer onto a shared GPU device from a
// host framework (e.g. a gogpu application), instead of the device it
// opened itself. The provider must expose its HAL handles.
func (r *Renderer) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("bulb/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("bulb/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("bulb/gpu: provider HalQueue is not hal.Queue")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyPipeline()
	if !r.externalDevice && r.device != nil {
		r.device.Destroy()
	}
	if r.instance != nil {
		r.instance.Destroy()
		r.instance = nil
	}

	r.device = device
	r.queue = queue
	r.externalDevice = true

	if err := r.createPipelineLocked(); err != nil {
		return fmt.Errorf("bulb/gpu: rebuild pipeline on shared device: %w", err)
	}
	bulb.Logger().Info("gpu renderer switched to shared device")
	return nil
}

// Render implements bulb.Renderer: upload the camera uniform, dispatch one
// compute pass over the pixel grid, wait on the frame fence and read the
// pixels back into frame.
func (r *Renderer) Render(cam bulb.Camera, frame *bulb.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frame == nil {
		return fmt.Errorf("bulb/gpu: nil frame")
	}
	if r.closed || r.device == nil {
		return fmt.Errorf("bulb/gpu: renderer is closed")
	}
	if frame.Width != r.cfg.Width || frame.Height != r.cfg.Height {
		return fmt.Errorf("bulb/gpu: frame is %dx%d, renderer configured for %dx%d",
			frame.Width, frame.Height, r.cfg.Width, r.cfg.Height)
	}
	cam.Power = bulb.ClampPower(cam.Power)

	start := time.Now()
	r.queue.WriteBuffer(r.frameBuf, 0, packFrameParams(cam, r.cfg.Aspect()))

	w, h := uint32(r.cfg.Width), uint32(r.cfg.Height)
	pixelBufSize := uint64(w) * uint64(h) * 4

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "bulb_frame_encoder"})
	if err != nil {
		return fmt.Errorf("bulb/gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("bulb_frame"); err != nil {
		return fmt.Errorf("bulb/gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "bulb_march"})
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(r.pixelBuf, r.stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("bulb/gpu: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("bulb/gpu: create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("bulb/gpu: submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("bulb/gpu: wait for frame: ok=%v err=%w", fenceOK, err)
	}

	if err := r.queue.ReadBuffer(r.stagingBuf, 0, r.readback); err != nil {
		return fmt.Errorf("bulb/gpu: readback: %w", err)
	}
	unpackPixels(r.readback, frame.Pix, int(w*h))

	bulb.Logger().Debug("gpu frame rendered", "elapsed", time.Since(start), "power", cam.Power)
	return nil
}

// Close implements bulb.Renderer, releasing all pipeline objects, buffers
// and (when owned) the device and instance. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.destroyPipeline()
	r.destroyDevice()
	return nil
}

func (r *Renderer) initDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	r.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		r.instance = nil
		return fmt.Errorf("no GPU adapters found")
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
		instance.Destroy()
		r.instance = nil
		return fmt.Errorf("open device: %w", err)
	}
	r.device = openDev.Device
	r.queue = openDev.Queue

	bulb.Logger().Info("gpu renderer ready",
		"adapter", selected.Info.Name,
		"width", r.cfg.Width, "height", r.cfg.Height)
	return nil
}

func (r *Renderer) createPipeline() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createPipelineLocked()
}

func (r *Renderer) createPipelineLocked() error {
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "bulb_march",
		Source: hal.ShaderSource{WGSL: mandelbulbShaderWGSL},
	})
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "bulb_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "bulb_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "bulb_pipeline",
		Layout:  r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	r.pipeline = pipeline

	return r.createBuffersLocked()
}

func (r *Renderer) createBuffersLocked() error {
	pixelBufSize := uint64(r.cfg.Width) * uint64(r.cfg.Height) * 4

	frameBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bulb_frame_params", Size: frameParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create frame params buffer: %w", err)
	}
	r.frameBuf = frameBuf

	sessionBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bulb_session_params", Size: sessionParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create session params buffer: %w", err)
	}
	r.sessionBuf = sessionBuf

	pixelBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bulb_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create pixel buffer: %w", err)
	}
	r.pixelBuf = pixelBuf

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bulb_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	r.stagingBuf = stagingBuf

	// Session tunables never change after init; write them once.
	r.queue.WriteBuffer(r.sessionBuf, 0, packSessionParams(r.cfg))

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "bulb_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.frameBuf.NativeHandle(), Offset: 0, Size: frameParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: r.sessionBuf.NativeHandle(), Offset: 0, Size: sessionParamsSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: r.pixelBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup

	r.readback = make([]byte, pixelBufSize)
	return nil
}

func (r *Renderer) destroyPipeline() {
	if r.device == nil {
		return
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, buf := range []hal.Buffer{r.frameBuf, r.sessionBuf, r.pixelBuf, r.stagingBuf} {
		if buf != nil {
			r.device.DestroyBuffer(buf)
		}
	}
	r.frameBuf, r.sessionBuf, r.pixelBuf, r.stagingBuf = nil, nil, nil, nil
	if r.pipeline != nil {
		r.device.DestroyComputePipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

func (r *Renderer) destroyDevice() {
	if r.externalDevice {
		// Shared resources belong to the host.
		r.device = nil
		r.queue = nil
		r.instance = nil
		return
	}
	if r.device != nil {
		r.device.Destroy()
		r.device = nil
	}
	if r.instance != nil {
		r.instance.Destroy()
		r.instance = nil
	}
	r.queue = nil
}
