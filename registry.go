// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Standard backend names, in order of preference.
const (
	BackendVulkan   = "vulkan"
	BackendWGPU     = "wgpu"
	BackendSoftware = "software"
)

// SurfaceConfig describes the presentation surface a Backend opens.
type SurfaceConfig struct {
	// Window supplies the surface extent. Physical pixels are
	// Size() * ScaleFactor().
	Window gpucontext.WindowProvider

	// ImageCount is the number of images requested. Backends may
	// allocate more.
	ImageCount int

	// Format is the requested pixel format. Undefined selects the
	// backend's preferred format.
	Format gputypes.TextureFormat
}

// PhysicalSize returns the surface extent in physical pixels, at least 1x1.
func (c SurfaceConfig) PhysicalSize() (width, height int) {
	if c.Window == nil {
		return 1, 1
	}
	w, h := c.Window.Size()
	sf := c.Window.ScaleFactor()
	width, height = int(float64(w)*sf), int(float64(h)*sf)
	return max(width, 1), max(height, 1)
}

// Backend opens presentation surfaces on one platform.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Open creates a native surface and the device it must be
	// initialized against. The returned format is the one the surface
	// images were created with.
	Open(cfg SurfaceConfig) (Device, NativeSurface, gputypes.TextureFormat, error)
}

var backends = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(BackendVulkan, BackendWGPU, BackendSoftware),
)

// RegisterBackend adds b to the global registry under b.Name(),
// replacing any backend registered under the same name. The current
// logger is propagated to b if it accepts one.
func RegisterBackend(b Backend) {
	backends.Register(b.Name(), func() Backend { return b })
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
}

// UnregisterBackend removes the backend registered under name.
func UnregisterBackend(name string) {
	backends.Unregister(name)
}

// Backends returns the names of all registered backends.
func Backends() []string {
	return backends.Available()
}

// BackendByName returns the backend registered under name.
func BackendByName(name string) (Backend, error) {
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
	}
	return backends.Get(name), nil
}

// BestBackend returns the most preferred registered backend.
func BestBackend() (Backend, error) {
	b := backends.Best()
	if b == nil {
		return nil, ErrBackendNotFound
	}
	return b, nil
}

// propagateLogger passes l to every registered backend that accepts a
// logger.
func propagateLogger(l *slog.Logger) {
	for _, name := range backends.Available() {
		if ls, ok := backends.Get(name).(loggerSetter); ok {
			ls.SetLogger(l)
		}
	}
}
