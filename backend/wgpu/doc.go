// Package wgpu provides a presentation backend over the gogpu/wgpu HAL.
//
// Device adapts a hal.Device: frame signals are hal.Fence values and
// render-target views are hal.TextureView values created with
// CreateTextureView. Swapchain is an offscreen ring of render-attachment
// textures that a frame loop acquires and presents.
//
// The package registers a Backend on import. By default it opens the noop
// HAL backend (imported here for its registration); link a real HAL
// backend and pass WithVariant to render on a GPU:
//
//	present.RegisterBackend(wgpu.NewBackend(wgpu.WithVariant(gputypes.BackendVulkan)))
//
// HAL surface errors are reported as present.ErrSurfaceOutdated and
// present.ErrSurfaceLost.
package wgpu
