//go:build vulkan

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/gogpu/present"
)

// Swapchain wraps a VkSwapchainKHR. It is the Vulkan backend's
// present.NativeSurface.
type Swapchain struct {
	Handle vk.Swapchain
	Format vk.Format
}

// NewSwapchain wraps handle. The Device the swapchain is initialized
// against takes ownership and destroys it.
func NewSwapchain(handle vk.Swapchain, format vk.Format) *Swapchain {
	return &Swapchain{Handle: handle, Format: format}
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithPresentQueue sets the queue Present submits to.
func WithPresentQueue(q vk.Queue) DeviceOption {
	return func(d *Device) {
		d.queue = q
		d.hasQueue = true
	}
}

// Device adapts a VkDevice to present.Device. It is its own
// present.Presenter, and a present.PresentQueue when created with
// WithPresentQueue.
type Device struct {
	dev      vk.Device
	queue    vk.Queue
	hasQueue bool
}

var (
	_ present.Device       = (*Device)(nil)
	_ present.Presenter    = (*Device)(nil)
	_ present.PresentQueue = (*Device)(nil)
)

// NewDevice wraps dev.
func NewDevice(dev vk.Device, opts ...DeviceOption) *Device {
	d := &Device{dev: dev}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewSignal creates a binary VkSemaphore.
func (d *Device) NewSignal() (present.Signal, error) {
	var sem vk.Semaphore
	res := vk.CreateSemaphore(d.dev, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if res != vk.Success {
		return nil, resultError("create semaphore", res)
	}
	return sem, nil
}

// DestroySignal destroys a VkSemaphore.
func (d *Device) DestroySignal(sig present.Signal) {
	sem, ok := sig.(vk.Semaphore)
	if !ok {
		slogger().Warn("vulkan: destroy of foreign signal", "type", fmt.Sprintf("%T", sig))
		return
	}
	vk.DestroySemaphore(d.dev, sem, nil)
}

// WrapImage accepts a swapchain VkImage.
func (d *Device) WrapImage(img present.NativeImage, _ present.RenderTargetSpec) (present.ImageResource, error) {
	image, ok := img.(vk.Image)
	if !ok {
		return nil, fmt.Errorf("%w: image %T", ErrInvalidHandle, img)
	}
	return image, nil
}

// DestroyImage does nothing: swapchain images are destroyed with the
// swapchain.
func (d *Device) DestroyImage(present.ImageResource) {}

// NewRenderTargetView creates a 2D color VkImageView in the surface format.
func (d *Device) NewRenderTargetView(res present.ImageResource, spec present.RenderTargetSpec) (present.RenderTargetView, error) {
	image, ok := res.(vk.Image)
	if !ok {
		return nil, fmt.Errorf("%w: image %T", ErrInvalidHandle, res)
	}
	format, ok := ToVkFormat(spec.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, spec.Format)
	}

	var view vk.ImageView
	result := vk.CreateImageView(d.dev, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if result != vk.Success {
		return nil, resultError("create image view", result)
	}
	return view, nil
}

// DestroyRenderTargetView destroys a VkImageView.
func (d *Device) DestroyRenderTargetView(view present.RenderTargetView) {
	v, ok := view.(vk.ImageView)
	if !ok {
		slogger().Warn("vulkan: destroy of foreign view", "type", fmt.Sprintf("%T", view))
		return
	}
	vk.DestroyImageView(d.dev, v, nil)
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

// ImageCount queries the number of swapchain images.
func (d *Device) ImageCount(s present.NativeSurface) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	var n uint32
	if res := vk.GetSwapchainImages(d.dev, sc.Handle, &n, nil); res != vk.Success {
		return 0, resultError("get swapchain image count", res)
	}
	return int(n), nil
}

// Images fills dst with the swapchain VkImage handles.
func (d *Device) Images(s present.NativeSurface, dst []present.NativeImage) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	n := uint32(len(dst))
	images := make([]vk.Image, n)
	res := vk.GetSwapchainImages(d.dev, sc.Handle, &n, images)
	if res != vk.Success && res != vk.Incomplete {
		return 0, resultError("get swapchain images", res)
	}
	for i := range n {
		dst[i] = images[i]
	}
	return int(n), nil
}

// AcquireNextImage calls vkAcquireNextImageKHR with signal as the
// semaphore to raise. A suboptimal swapchain still yields an image.
func (d *Device) AcquireNextImage(s present.NativeSurface, timeout uint64, signal present.Signal) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return -1, err
	}
	sem, ok := signal.(vk.Semaphore)
	if !ok {
		return -1, fmt.Errorf("%w: signal %T", ErrInvalidHandle, signal)
	}

	var idx uint32
	res := vk.AcquireNextImage(d.dev, sc.Handle, timeout, sem, vk.NullFence, &idx)
	switch res {
	case vk.Success:
	case vk.Suboptimal:
		slogger().Debug("vulkan: swapchain suboptimal", "image", idx)
	default:
		return -1, resultError("acquire next image", res)
	}
	return int(idx), nil
}

// Present queues image index for presentation after ready is raised.
func (d *Device) Present(s present.NativeSurface, index int, ready present.Signal) error {
	if !d.hasQueue {
		return ErrNoQueue
	}
	sc, err := swapchainOf(s)
	if err != nil {
		return err
	}
	info := &vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{sc.Handle},
		PImageIndices:  []uint32{uint32(index)},
	}
	if sem, ok := ready.(vk.Semaphore); ok {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{sem}
	}
	switch res := vk.QueuePresent(d.queue, info); res {
	case vk.Success, vk.Suboptimal:
		return nil
	default:
		return resultError("queue present", res)
	}
}

// DestroySurface destroys the VkSwapchainKHR.
func (d *Device) DestroySurface(s present.NativeSurface) {
	sc, err := swapchainOf(s)
	if err != nil {
		slogger().Warn("vulkan: destroy surface", "err", err)
		return
	}
	vk.DestroySwapchain(d.dev, sc.Handle, nil)
}
