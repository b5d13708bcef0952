//go:build vulkan

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
)

// SwapchainFunc creates a swapchain for cfg on the backend's device.
type SwapchainFunc func(cfg present.SurfaceConfig) (*Swapchain, error)

// Backend opens Vulkan swapchains through a caller-supplied SwapchainFunc.
type Backend struct {
	device *Device
	create SwapchainFunc
}

// NewBackend returns a backend that opens swapchains on device with create.
// Register it with present.RegisterBackend.
func NewBackend(device *Device, create SwapchainFunc) *Backend {
	return &Backend{device: device, create: create}
}

// Name returns present.BackendVulkan.
func (b *Backend) Name() string { return present.BackendVulkan }

// SetLogger sets the package logger.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Open creates a swapchain and reports its format.
func (b *Backend) Open(cfg present.SurfaceConfig) (present.Device, present.NativeSurface, gputypes.TextureFormat, error) {
	sc, err := b.create(cfg)
	if err != nil {
		return nil, nil, gputypes.TextureFormatUndefined, err
	}
	format, ok := FromVkFormat(sc.Format)
	if !ok {
		b.device.DestroySurface(sc)
		return nil, nil, gputypes.TextureFormatUndefined, ErrUnsupportedFormat
	}
	return b.device, sc, format, nil
}
