// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

// wgpu backend errors.
var (
	// ErrInvalidSurface is returned when a native surface is not a *Swapchain.
	ErrInvalidSurface = errors.New("wgpu: invalid native surface")

	// ErrInvalidImage is returned for image indices or images the backend
	// did not create.
	ErrInvalidImage = errors.New("wgpu: invalid image")

	// ErrNotAcquired is returned when presenting an image that is not
	// currently acquired.
	ErrNotAcquired = errors.New("wgpu: image not acquired")

	// ErrNoAdapter is returned when a HAL backend exposes no adapters.
	ErrNoAdapter = errors.New("wgpu: no adapter available")
)

// mapError translates HAL surface errors into present sentinels, keeping
// the HAL error in the chain.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", present.ErrSurfaceOutdated, err)
	case errors.Is(err, hal.ErrSurfaceLost):
		return fmt.Errorf("%w: %w", present.ErrSurfaceLost, err)
	default:
		return err
	}
}
