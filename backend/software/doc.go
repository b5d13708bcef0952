// Package software provides a CPU presentation backend.
//
// A Swapchain owns a fixed set of *image.RGBA images. Images are acquired
// through Device.AcquireNextImage, rendered into through their *View, and
// handed back with Device.Present once their ready Event is raised. A
// compositor goroutine composites each presented image onto the display
// buffer using golang.org/x/image/draw and returns it to the free list.
//
// The backend registers itself with present on import:
//
//	import _ "github.com/gogpu/present/backend/software"
//
// It is the lowest-priority backend and is always available.
package software
