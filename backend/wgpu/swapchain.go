// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present"
)

// DefaultImageCount is the number of textures a Swapchain creates when no
// count is requested.
const DefaultImageCount = 3

// DefaultUsage is the usage of swapchain textures.
const DefaultUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc

// SwapchainOption configures a Swapchain during creation.
type SwapchainOption func(*swapchainOptions)

type swapchainOptions struct {
	width, height uint32
	format        gputypes.TextureFormat
	usage         gputypes.TextureUsage
	label         string
}

func defaultSwapchainOptions() swapchainOptions {
	return swapchainOptions{
		width:  640,
		height: 480,
		format: gputypes.TextureFormatBGRA8Unorm,
		usage:  DefaultUsage,
		label:  "present-swapchain",
	}
}

// WithSize sets the texture extent. Zero values are ignored.
func WithSize(width, height uint32) SwapchainOption {
	return func(o *swapchainOptions) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithFormat sets the texture format. Undefined is ignored.
func WithFormat(f gputypes.TextureFormat) SwapchainOption {
	return func(o *swapchainOptions) {
		if f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithUsage adds usage flags to DefaultUsage.
func WithUsage(u gputypes.TextureUsage) SwapchainOption {
	return func(o *swapchainOptions) {
		o.usage |= u
	}
}

// WithLabel sets the debug label prefix of the textures.
func WithLabel(label string) SwapchainOption {
	return func(o *swapchainOptions) {
		o.label = label
	}
}

// fenceSignaler is implemented by HAL fences that can be raised from the
// host (noop, software).
type fenceSignaler interface {
	Signal(value uint64)
}

// Swapchain is an offscreen ring of render-attachment textures created on
// a hal.Device. It is the wgpu backend's present.NativeSurface.
type Swapchain struct {
	device   hal.Device
	textures []hal.Texture
	format   gputypes.TextureFormat
	width    uint32
	height   uint32

	free chan int
	done chan struct{}

	heldMu sync.Mutex
	held   []bool

	// serial is the value host-signalable fences are raised to on acquire.
	serial    atomic.Uint64
	presented atomic.Uint64
	closeOnce sync.Once
}

// NewSwapchain creates count textures on device. On failure every texture
// created so far is destroyed.
func NewSwapchain(device hal.Device, count int, opts ...SwapchainOption) (*Swapchain, error) {
	if count < 1 {
		count = DefaultImageCount
	}
	o := defaultSwapchainOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sc := &Swapchain{
		device:   device,
		textures: make([]hal.Texture, 0, count),
		format:   o.format,
		width:    o.width,
		height:   o.height,
		free:     make(chan int, count),
		done:     make(chan struct{}),
		held:     make([]bool, count),
	}
	for i := range count {
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         fmt.Sprintf("%s-%d", o.label, i),
			Size:          hal.Extent3D{Width: o.width, Height: o.height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        o.format,
			Usage:         o.usage,
		})
		if err != nil {
			sc.destroyTextures()
			return nil, fmt.Errorf("wgpu: create swapchain texture %d: %w", i, err)
		}
		sc.textures = append(sc.textures, tex)
		sc.free <- i
	}

	slogger().Debug("wgpu: swapchain created",
		"images", count,
		"width", o.width,
		"height", o.height,
		"format", o.format)
	return sc, nil
}

// ImageCount returns the number of textures.
func (sc *Swapchain) ImageCount() int { return len(sc.textures) }

// Texture returns texture i.
func (sc *Swapchain) Texture(i int) hal.Texture { return sc.textures[i] }

// Format returns the texture format.
func (sc *Swapchain) Format() gputypes.TextureFormat { return sc.format }

// Size returns the texture extent.
func (sc *Swapchain) Size() (width, height uint32) { return sc.width, sc.height }

// Presented returns the number of presented images.
func (sc *Swapchain) Presented() uint64 { return sc.presented.Load() }

func (sc *Swapchain) closed() bool {
	select {
	case <-sc.done:
		return true
	default:
		return false
	}
}

// acquire takes a free texture index and raises fence if the fence can be
// raised from the host. Errors are HAL errors.
func (sc *Swapchain) acquire(timeout uint64, fence hal.Fence) (int, error) {
	idx, err := sc.take(timeout)
	if err != nil {
		return -1, err
	}
	sc.heldMu.Lock()
	sc.held[idx] = true
	sc.heldMu.Unlock()

	if f, ok := fence.(fenceSignaler); ok {
		f.Signal(sc.serial.Add(1))
	}
	return idx, nil
}

func (sc *Swapchain) take(timeout uint64) (int, error) {
	if sc.closed() {
		return -1, hal.ErrSurfaceLost
	}
	switch timeout {
	case 0:
		select {
		case idx := <-sc.free:
			return idx, nil
		default:
			return -1, hal.ErrNotReady
		}
	case present.NoTimeout:
		select {
		case idx := <-sc.free:
			return idx, nil
		case <-sc.done:
			return -1, hal.ErrSurfaceLost
		}
	}

	t := time.NewTimer(time.Duration(min(timeout, uint64(1<<63-1))))
	defer t.Stop()
	select {
	case idx := <-sc.free:
		return idx, nil
	case <-sc.done:
		return -1, hal.ErrSurfaceLost
	case <-t.C:
		return -1, hal.ErrTimeout
	}
}

// present returns an acquired texture to the ring.
func (sc *Swapchain) present(index int) error {
	if sc.closed() {
		return hal.ErrSurfaceLost
	}
	if index < 0 || index >= len(sc.held) {
		return ErrInvalidImage
	}
	sc.heldMu.Lock()
	held := sc.held[index]
	sc.held[index] = false
	sc.heldMu.Unlock()
	if !held {
		return ErrNotAcquired
	}
	sc.presented.Add(1)
	sc.free <- index
	return nil
}

func (sc *Swapchain) destroyTextures() {
	for i := len(sc.textures) - 1; i >= 0; i-- {
		sc.device.DestroyTexture(sc.textures[i])
	}
	sc.textures = nil
}

// close destroys the textures. Blocked acquires fail with ErrSurfaceLost.
func (sc *Swapchain) close() {
	sc.closeOnce.Do(func() {
		close(sc.done)
		sc.destroyTextures()
		slogger().Debug("wgpu: swapchain destroyed", "presented", sc.presented.Load())
	})
}
