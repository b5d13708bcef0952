// Package present provides the presentation-surface core of a renderer:
// the ring of presentable images a platform swapchain exposes, and a
// separately sized ring of per-frame synchronization slots.
//
// # Overview
//
// A Surface is initialized over a platform surface (NativeSurface) against
// a Device. It wraps every platform image as an image resource with a
// render-target view, and creates an acquire signal and a present-ready
// signal for each frame in flight:
//
//   - the frame-sync ring has minImageCount entries and is indexed by
//     CurrentFrameIndex
//   - the image ring has as many entries as the platform reports and is
//     indexed by CurrentImageIndex
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/present"
//		_ "github.com/gogpu/present/backend/software"
//	)
//
//	b, _ := present.BestBackend()
//	dev, native, format, _ := b.Open(present.SurfaceConfig{ImageCount: 2})
//
//	m, _ := present.NewManager(dev)
//	defer m.Close()
//	_, s, _ := m.Create(native, 2, format)
//
//	for {
//		s.AcquireNextImage()
//		view := s.CurrentImageView()
//		ready := s.CurrentFrameSync().PresentReadySignal
//		// render into view, raise ready, present s.CurrentImageIndex()
//	}
//
// # Failure Policy
//
// Contract violations and platform failures inside a Surface are fatal:
// the Surface panics with an *InvariantError. errors.Is matches it
// against ErrInvariant and against the platform cause, such as
// ErrSurfaceOutdated. Recreating an outdated surface is the owner's job.
//
// # Backends
//
// Backends register themselves with RegisterBackend on import:
//   - backend/software: CPU images composited with golang.org/x/image/draw
//   - backend/wgpu: offscreen textures on a gogpu/wgpu HAL device
//   - backend/vulkan: VkSwapchainKHR via vulkan-go (build tag vulkan)
//
// # Logging
//
// present is silent by default. Use SetLogger to route its log/slog
// output, which is propagated to every registered backend.
package present
