// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/present"
)

// init registers a backend over the default HAL variant.
func init() {
	present.RegisterBackend(NewBackend())
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithHALDevice makes the backend open surfaces on d instead of opening
// its own device.
func WithHALDevice(d hal.Device) BackendOption {
	return func(b *Backend) {
		b.device = d
	}
}

// WithVariant selects the HAL backend the device is opened on. The
// default is gputypes.BackendEmpty, the noop HAL backend.
func WithVariant(v gputypes.Backend) BackendOption {
	return func(b *Backend) {
		b.variant = v
	}
}

// WithSwapchainOptions sets options applied to every swapchain the
// backend opens.
func WithSwapchainOptions(opts ...SwapchainOption) BackendOption {
	return func(b *Backend) {
		b.swapchainOpts = append(b.swapchainOpts, opts...)
	}
}

// Backend opens *Swapchain surfaces on a HAL device. The device is opened
// lazily on first use and shared by every surface.
type Backend struct {
	variant       gputypes.Backend
	swapchainOpts []SwapchainOption

	mu     sync.Mutex
	device hal.Device
	dev    *Device
}

// NewBackend creates a backend.
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{variant: gputypes.BackendEmpty}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns present.BackendWGPU.
func (b *Backend) Name() string { return present.BackendWGPU }

// SetLogger sets the package logger and the HAL logger.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Device returns the shared device, opening it if needed.
func (b *Backend) Device() (*Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dev != nil {
		return b.dev, nil
	}
	if b.device == nil {
		d, err := openHALDevice(b.variant)
		if err != nil {
			return nil, err
		}
		b.device = d
	}
	b.dev = NewDevice(b.device)
	return b.dev, nil
}

// Open creates a swapchain sized by cfg. An Undefined format selects
// BGRA8Unorm.
func (b *Backend) Open(cfg present.SurfaceConfig) (present.Device, present.NativeSurface, gputypes.TextureFormat, error) {
	dev, err := b.Device()
	if err != nil {
		return nil, nil, gputypes.TextureFormatUndefined, err
	}

	format := cfg.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	w, h := cfg.PhysicalSize()
	opts := append([]SwapchainOption{WithSize(uint32(w), uint32(h)), WithFormat(format)}, b.swapchainOpts...)

	sc, err := NewSwapchain(dev.HAL(), max(cfg.ImageCount, DefaultImageCount), opts...)
	if err != nil {
		return nil, nil, gputypes.TextureFormatUndefined, err
	}
	return dev, sc, sc.Format(), nil
}

// openHALDevice opens a device on the first adapter of the registered HAL
// backend v.
func openHALDevice(v gputypes.Backend) (hal.Device, error) {
	api, ok := hal.GetBackend(v)
	if !ok {
		return nil, fmt.Errorf("%w: hal %s", present.ErrBackendNotFound, v)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	slogger().Info("wgpu: device opened",
		"adapter", adapters[0].Info.Name,
		"backend", v)
	return open.Device, nil
}
