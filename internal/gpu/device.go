// Package gpu implements the device-context half of the GPU layer (C2):
// acquiring and releasing the shared Instance/Adapter/Device, built
// directly on the root wgpu package (this repository's own API,
// including the CopyBufferToTexture/CopyTextureToBuffer extensions
// added to encoder.go for this daemon), and Pipelines (pipelines.go),
// the four render pipeline families spec.md 4.2 describes: scale,
// shader, overlay and blend.
//
// A failed Acquire (or a failed NewPipelines on top of it) disables
// the GPU path for the process lifetime: callers log it once and
// proceed CPU-only, falling back to internal/imagesrc, internal/shader,
// internal/overlay and internal/transition for every render (spec.md
// 4.2: "on failure, the entire GPU path is disabled and C3-C7 fall
// back to CPU where paths exist"). The same fallback applies per-call
// to a transient pipeline error, and permanently to the transition
// kinds BlendSupported excludes (wipe-angle, random).
package gpu

import (
	"fmt"
	"sync"

	wgpu "github.com/chikof/momoi"
)

// Context holds the single shared device/queue used across every
// output, matching spec.md 4.2's "one device/queue is shared across
// every output."
type Context struct {
	mu       sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
}

// Acquire tries to obtain a high-performance GPU device. A non-nil
// error means the GPU path must be disabled for the process lifetime;
// callers should log it once and proceed CPU-only.
func Acquire() (*Context, error) {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	return &Context{instance: instance, adapter: adapter, device: device}, nil
}

// Device exposes the underlying device for pipeline construction.
func (c *Context) Device() *wgpu.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

// Close releases the device, adapter and instance in order.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
