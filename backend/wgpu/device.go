// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

// Device adapts a hal.Device to present.Device. It is its own
// present.Presenter and present.PresentQueue for *Swapchain surfaces.
//
// Signals are hal.Fence values, image resources are the swapchain's
// hal.Texture values and views are hal.TextureView values.
type Device struct {
	hal hal.Device

	fences atomic.Int64
	views  atomic.Int64
}

var (
	_ present.Device       = (*Device)(nil)
	_ present.Presenter    = (*Device)(nil)
	_ present.PresentQueue = (*Device)(nil)
)

// NewDevice wraps d.
func NewDevice(d hal.Device) *Device {
	return &Device{hal: d}
}

// HAL returns the wrapped device.
func (d *Device) HAL() hal.Device { return d.hal }

// Live returns the number of fences and views created and not yet
// destroyed.
func (d *Device) Live() (fences, views int) {
	return int(d.fences.Load()), int(d.views.Load())
}

// NewSignal creates a hal.Fence.
func (d *Device) NewSignal() (present.Signal, error) {
	f, err := d.hal.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	d.fences.Add(1)
	return f, nil
}

// DestroySignal destroys a hal.Fence.
func (d *Device) DestroySignal(sig present.Signal) {
	f, ok := sig.(hal.Fence)
	if !ok {
		slogger().Warn("wgpu: destroy of foreign signal", "type", fmt.Sprintf("%T", sig))
		return
	}
	d.hal.DestroyFence(f)
	d.fences.Add(-1)
}

// WrapImage accepts a swapchain hal.Texture. The texture stays owned by
// its swapchain.
func (d *Device) WrapImage(img present.NativeImage, _ present.RenderTargetSpec) (present.ImageResource, error) {
	tex, ok := img.(hal.Texture)
	if !ok || tex == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidImage, img)
	}
	return tex, nil
}

// DestroyImage does nothing: swapchain textures are destroyed with the
// swapchain.
func (d *Device) DestroyImage(present.ImageResource) {}

// NewRenderTargetView creates a 2D color view over a swapchain texture in
// the surface format.
func (d *Device) NewRenderTargetView(res present.ImageResource, spec present.RenderTargetSpec) (present.RenderTargetView, error) {
	tex, ok := res.(hal.Texture)
	if !ok || tex == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidImage, res)
	}
	view, err := d.hal.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "present-render-target",
		Format:          spec.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create render target view: %w", err)
	}
	d.views.Add(1)
	return view, nil
}

// DestroyRenderTargetView destroys a hal.TextureView.
func (d *Device) DestroyRenderTargetView(view present.RenderTargetView) {
	v, ok := view.(hal.TextureView)
	if !ok {
		slogger().Warn("wgpu: destroy of foreign view", "type", fmt.Sprintf("%T", view))
		return
	}
	d.hal.DestroyTextureView(v)
	d.views.Add(-1)
}

// Presenter returns d.
func (d *Device) Presenter() present.Presenter { return d }

func swapchainOf(s present.NativeSurface) (*Swapchain, error) {
	sc, ok := s.(*Swapchain)
	if !ok || sc == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidSurface, s)
	}
	return sc, nil
}

// ImageCount returns the number of textures of a *Swapchain.
func (d *Device) ImageCount(s present.NativeSurface) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	return sc.ImageCount(), nil
}

// Images fills dst with the textures of a *Swapchain.
func (d *Device) Images(s present.NativeSurface, dst []present.NativeImage) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	n := min(len(dst), len(sc.textures))
	for i := range n {
		dst[i] = sc.textures[i]
	}
	return n, nil
}

// AcquireNextImage takes the next free texture. signal must be a
// hal.Fence or nil; host-signalable fences are raised immediately.
func (d *Device) AcquireNextImage(s present.NativeSurface, timeout uint64, signal present.Signal) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return -1, err
	}
	fence, _ := signal.(hal.Fence)
	idx, err := sc.acquire(timeout, fence)
	if err != nil {
		return -1, mapError(err)
	}
	return idx, nil
}

// Present returns image index to the swapchain. ready is ignored.
func (d *Device) Present(s present.NativeSurface, index int, _ present.Signal) error {
	sc, err := swapchainOf(s)
	if err != nil {
		return err
	}
	return mapError(sc.present(index))
}

// DestroySurface destroys the swapchain textures.
func (d *Device) DestroySurface(s present.NativeSurface) {
	sc, err := swapchainOf(s)
	if err != nil {
		slogger().Warn("wgpu: destroy surface", "err", err)
		return
	}
	sc.close()
}
