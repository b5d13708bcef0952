// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
)

// init registers the software backend on package import.
func init() {
	present.RegisterBackend(Backend{})
}

// Backend opens *Swapchain surfaces on a fresh CPU Device.
type Backend struct{}

// Name returns present.BackendSoftware.
func (Backend) Name() string { return present.BackendSoftware }

// SetLogger sets the package logger.
func (Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Open creates a device and a swapchain sized by cfg. At least
// DefaultImageCount images are allocated. An Undefined format selects
// RGBA8Unorm.
func (Backend) Open(cfg present.SurfaceConfig) (present.Device, present.NativeSurface, gputypes.TextureFormat, error) {
	format := cfg.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	if !SupportsFormat(format) {
		return nil, nil, gputypes.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	w, h := cfg.PhysicalSize()
	sc := NewSwapchain(
		WithImageCount(max(cfg.ImageCount, DefaultImageCount)),
		WithSize(w, h),
	)
	return NewDevice(), sc, format, nil
}
