// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
)

// View is a render-target view over a swapchain image. It shares pixels
// with the image it was created from.
type View struct {
	img    *image.RGBA
	format gputypes.TextureFormat
}

// Image returns the pixels the view renders into.
func (v *View) Image() *image.RGBA { return v.img }

// Format returns the view format.
func (v *View) Format() gputypes.TextureFormat { return v.format }

// Device is a CPU device. It is its own present.Presenter and
// present.PresentQueue, operating on *Swapchain surfaces.
//
// Signals are *Event values, image resources are *image.RGBA and views
// are *View.
type Device struct {
	signals atomic.Int64
	images  atomic.Int64
	views   atomic.Int64
}

var (
	_ present.Device       = (*Device)(nil)
	_ present.Presenter    = (*Device)(nil)
	_ present.PresentQueue = (*Device)(nil)
)

// NewDevice returns a CPU device.
func NewDevice() *Device {
	return &Device{}
}

// Live returns the number of signals, image resources and views created
// and not yet destroyed.
func (d *Device) Live() (signals, images, views int) {
	return int(d.signals.Load()), int(d.images.Load()), int(d.views.Load())
}

// SupportsFormat reports whether the device can render in f.
func SupportsFormat(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatRGBA8Unorm || f == gputypes.TextureFormatRGBA8UnormSrgb
}

// NewSignal creates a lowered *Event.
func (d *Device) NewSignal() (present.Signal, error) {
	d.signals.Add(1)
	return NewEvent(), nil
}

// DestroySignal releases an event.
func (d *Device) DestroySignal(sig present.Signal) {
	if _, ok := sig.(*Event); !ok {
		slogger().Warn("software: destroy of foreign signal", "type", fmt.Sprintf("%T", sig))
		return
	}
	d.signals.Add(-1)
}

// WrapImage accepts an *image.RGBA swapchain image.
func (d *Device) WrapImage(img present.NativeImage, spec present.RenderTargetSpec) (present.ImageResource, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidImage, img)
	}
	if !SupportsFormat(spec.Format) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, spec.Format)
	}
	d.images.Add(1)
	return rgba, nil
}

// DestroyImage releases a wrapped image. The pixels stay owned by the
// swapchain.
func (d *Device) DestroyImage(res present.ImageResource) {
	if _, ok := res.(*image.RGBA); !ok {
		slogger().Warn("software: destroy of foreign image", "type", fmt.Sprintf("%T", res))
		return
	}
	d.images.Add(-1)
}

// NewRenderTargetView creates a *View over res.
func (d *Device) NewRenderTargetView(res present.ImageResource, spec present.RenderTargetSpec) (present.RenderTargetView, error) {
	rgba, ok := res.(*image.RGBA)
	if !ok || rgba == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidImage, res)
	}
	d.views.Add(1)
	return &View{img: rgba, format: spec.Format}, nil
}

// DestroyRenderTargetView releases a view.
func (d *Device) DestroyRenderTargetView(view present.RenderTargetView) {
	v, ok := view.(*View)
	if !ok {
		slogger().Warn("software: destroy of foreign view", "type", fmt.Sprintf("%T", view))
		return
	}
	v.img = nil
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

// ImageCount returns the number of images of a *Swapchain.
func (d *Device) ImageCount(s present.NativeSurface) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	return sc.ImageCount(), nil
}

// Images fills dst with the *image.RGBA images of a *Swapchain.
func (d *Device) Images(s present.NativeSurface, dst []present.NativeImage) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, img := range sc.images {
		if n == len(dst) {
			break
		}
		dst[n] = img
		n++
	}
	return n, nil
}

// AcquireNextImage takes the next free image and raises signal, which
// must be an *Event or nil.
func (d *Device) AcquireNextImage(s present.NativeSurface, timeout uint64, signal present.Signal) (int, error) {
	sc, err := swapchainOf(s)
	if err != nil {
		return -1, err
	}
	idx, err := sc.acquire(timeout)
	if err != nil {
		return -1, err
	}
	if ev, ok := signal.(*Event); ok {
		ev.Signal()
	}
	return idx, nil
}

// Present waits until ready is raised, then queues image index for
// composition. ready must be an *Event or nil; nil presents immediately.
func (d *Device) Present(s present.NativeSurface, index int, ready present.Signal) error {
	sc, err := swapchainOf(s)
	if err != nil {
		return err
	}
	ev, _ := ready.(*Event)
	return sc.present(index, ev)
}

// DestroySurface stops the swapchain's compositor.
func (d *Device) DestroySurface(s present.NativeSurface) {
	sc, err := swapchainOf(s)
	if err != nil {
		slogger().Warn("software: destroy surface", "err", err)
		return
	}
	sc.close()
}
