// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// NoTimeout is the acquire timeout meaning "wait until an image is
// available". It matches the UINT64_MAX convention of native APIs.
const NoTimeout uint64 = math.MaxUint64

// NativeSurface is a type token for a platform presentation surface
// (VkSwapchainKHR, a backend swapchain object, ...). The nil value is the
// invalid handle.
type NativeSurface = gpucontext.Surface

// NativeImage is a type token for one platform image belonging to a
// NativeSurface (VkImage, hal.Texture, *image.RGBA, ...).
type NativeImage interface{}

// Signal is a type token for a synchronization primitive created by a
// Device (VkSemaphore, hal.Fence, ...).
type Signal interface{}

// ImageResource is a type token for a wrapped GPU image.
type ImageResource interface{}

// RenderTargetView is a type token for a view over an ImageResource that
// can be bound as a rendering destination.
type RenderTargetView interface{}

// RenderTargetSpec describes the render targets shared by every image of
// a surface.
type RenderTargetSpec struct {
	// Format is the pixel format of the presentable images.
	Format gputypes.TextureFormat
}

// Presenter is the platform presentation API a Device dispatches to.
//
// Implementations must report the same image set for a surface for its
// whole lifetime. AcquireNextImage blocks until an image is available or
// timeout (in nanoseconds) expires; NoTimeout means no bound.
type Presenter interface {
	// ImageCount returns the number of images backing s.
	ImageCount(s NativeSurface) (int, error)

	// Images fills dst with the images backing s and returns how many
	// were written.
	Images(s NativeSurface, dst []NativeImage) (int, error)

	// AcquireNextImage returns the index of the next writable image and
	// arranges for signal to be raised once the image may be written.
	AcquireNextImage(s NativeSurface, timeout uint64, signal Signal) (int, error)

	// DestroySurface releases s. It is called exactly once per
	// initialized surface.
	DestroySurface(s NativeSurface)
}

// Device is the device context a Surface provisions its rings against.
// Every Destroy method receives only values produced by the matching
// New/Wrap method of the same Device.
type Device interface {
	// NewSignal creates a synchronization signal.
	NewSignal() (Signal, error)

	// DestroySignal releases a signal.
	DestroySignal(sig Signal)

	// WrapImage wraps a platform image as an image resource.
	WrapImage(img NativeImage, spec RenderTargetSpec) (ImageResource, error)

	// DestroyImage releases a wrapped image. The platform image itself
	// stays owned by its surface.
	DestroyImage(res ImageResource)

	// NewRenderTargetView creates a render-target view over res.
	NewRenderTargetView(res ImageResource, spec RenderTargetSpec) (RenderTargetView, error)

	// DestroyRenderTargetView releases a view.
	DestroyRenderTargetView(view RenderTargetView)

	// Presenter returns the presentation API bound to this device.
	Presenter() Presenter
}

// Owner is the manager that owns a Surface's existence.
type Owner interface {
	// Device returns the device the owned surfaces are created against.
	Device() Device
}

// PresentQueue is implemented by presenters that can also present acquired
// images. Surface never calls it; frame loops type-assert a Presenter to it.
type PresentQueue interface {
	// Present queues image index of s for display once ready is raised.
	Present(s NativeSurface, index int, ready Signal) error
}
