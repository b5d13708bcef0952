// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/present"
)

// DefaultImageCount is the number of images a Swapchain allocates when no
// count is requested.
const DefaultImageCount = 3

// SwapchainOption configures a Swapchain during creation.
type SwapchainOption func(*swapchainOptions)

type swapchainOptions struct {
	imageCount    int
	width, height int
	displayW      int
	displayH      int
	scaler        draw.Scaler
}

func defaultSwapchainOptions() swapchainOptions {
	return swapchainOptions{
		imageCount: DefaultImageCount,
		width:      640,
		height:     480,
		scaler:     draw.ApproxBiLinear,
	}
}

// WithImageCount sets the number of images. Values below 1 are ignored.
func WithImageCount(n int) SwapchainOption {
	return func(o *swapchainOptions) {
		if n > 0 {
			o.imageCount = n
		}
	}
}

// WithSize sets the image extent in pixels. Non-positive values are ignored.
func WithSize(width, height int) SwapchainOption {
	return func(o *swapchainOptions) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithDisplaySize sets the extent of the display buffer images are
// composited onto. By default it matches the image extent.
func WithDisplaySize(width, height int) SwapchainOption {
	return func(o *swapchainOptions) {
		if width > 0 && height > 0 {
			o.displayW, o.displayH = width, height
		}
	}
}

// WithScaler sets the scaler used when the display extent differs from
// the image extent. The default is draw.ApproxBiLinear.
func WithScaler(s draw.Scaler) SwapchainOption {
	return func(o *swapchainOptions) {
		if s != nil {
			o.scaler = s
		}
	}
}

// Swapchain is a CPU presentation engine: a fixed set of RGBA images
// cycled between the application and a compositor goroutine that copies
// presented images onto a display buffer.
//
// Swapchain is the software backend's present.NativeSurface.
type Swapchain struct {
	images []*image.RGBA
	free   chan int
	queue  chan int

	// held marks images acquired and not yet presented.
	heldMu sync.Mutex
	held   []bool

	mu      sync.Mutex
	display *image.RGBA
	scaler  draw.Scaler

	presented atomic.Uint64

	// pending counts images queued and not yet composited.
	idleMu  sync.Mutex
	idle    *sync.Cond
	pending int

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSwapchain allocates the images and starts the compositor.
func NewSwapchain(opts ...SwapchainOption) *Swapchain {
	o := defaultSwapchainOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.displayW == 0 {
		o.displayW, o.displayH = o.width, o.height
	}

	sc := &Swapchain{
		images:  make([]*image.RGBA, o.imageCount),
		held:    make([]bool, o.imageCount),
		free:    make(chan int, o.imageCount),
		queue:   make(chan int, o.imageCount),
		display: image.NewRGBA(image.Rect(0, 0, o.displayW, o.displayH)),
		scaler:  o.scaler,
		done:    make(chan struct{}),
	}
	sc.idle = sync.NewCond(&sc.idleMu)
	for i := range sc.images {
		sc.images[i] = image.NewRGBA(image.Rect(0, 0, o.width, o.height))
		sc.free <- i
	}

	sc.wg.Add(1)
	go sc.compose()

	slogger().Debug("software: swapchain created",
		"images", o.imageCount,
		"width", o.width,
		"height", o.height)
	return sc
}

// ImageCount returns the number of images.
func (sc *Swapchain) ImageCount() int { return len(sc.images) }

// Bounds returns the image extent.
func (sc *Swapchain) Bounds() image.Rectangle { return sc.images[0].Bounds() }

// Presented returns the number of images composited so far.
func (sc *Swapchain) Presented() uint64 { return sc.presented.Load() }

// Display returns a copy of the display buffer.
func (sc *Swapchain) Display() *image.RGBA {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := image.NewRGBA(sc.display.Bounds())
	copy(out.Pix, sc.display.Pix)
	return out
}

func (sc *Swapchain) closed() bool {
	select {
	case <-sc.done:
		return true
	default:
		return false
	}
}

// acquire takes a free image index. timeout follows present.Presenter
// semantics: 0 polls, present.NoTimeout waits without bound.
func (sc *Swapchain) acquire(timeout uint64) (int, error) {
	idx, err := sc.take(timeout)
	if err != nil {
		return -1, err
	}
	sc.heldMu.Lock()
	sc.held[idx] = true
	sc.heldMu.Unlock()
	return idx, nil
}

func (sc *Swapchain) take(timeout uint64) (int, error) {
	if sc.closed() {
		return -1, present.ErrSurfaceLost
	}

	switch timeout {
	case 0:
		select {
		case idx := <-sc.free:
			return idx, nil
		default:
			return -1, ErrNotReady
		}
	case present.NoTimeout:
		select {
		case idx := <-sc.free:
			return idx, nil
		case <-sc.done:
			return -1, present.ErrSurfaceLost
		}
	}

	t := time.NewTimer(time.Duration(min(timeout, uint64(1<<63-1))))
	defer t.Stop()
	select {
	case idx := <-sc.free:
		return idx, nil
	case <-sc.done:
		return -1, present.ErrSurfaceLost
	case <-t.C:
		return -1, ErrTimeout
	}
}

// present waits for ready (if non-nil) and hands image index to the
// compositor.
func (sc *Swapchain) present(index int, ready *Event) error {
	if index < 0 || index >= len(sc.images) {
		return ErrInvalidImage
	}
	if sc.closed() {
		return present.ErrSurfaceLost
	}
	sc.heldMu.Lock()
	held := sc.held[index]
	sc.held[index] = false
	sc.heldMu.Unlock()
	if !held {
		return ErrNotAcquired
	}

	if ready != nil {
		select {
		case <-ready.ch:
		case <-sc.done:
			return present.ErrSurfaceLost
		}
	}
	sc.idleMu.Lock()
	sc.pending++
	sc.idleMu.Unlock()
	select {
	case sc.queue <- index:
		return nil
	case <-sc.done:
		sc.composited()
		return present.ErrSurfaceLost
	}
}

func (sc *Swapchain) composited() {
	sc.idleMu.Lock()
	sc.pending--
	sc.idleMu.Unlock()
	sc.idle.Broadcast()
}

// WaitIdle blocks until every presented image has been composited or the
// swapchain is destroyed.
func (sc *Swapchain) WaitIdle() {
	sc.idleMu.Lock()
	defer sc.idleMu.Unlock()
	for sc.pending > 0 && !sc.closed() {
		sc.idle.Wait()
	}
}

func (sc *Swapchain) compose() {
	defer sc.wg.Done()
	for {
		var index int
		select {
		case index = <-sc.queue:
		case <-sc.done:
			return
		}

		src := sc.images[index]
		sc.mu.Lock()
		if src.Bounds() == sc.display.Bounds() {
			copy(sc.display.Pix, src.Pix)
		} else {
			sc.scaler.Scale(sc.display, sc.display.Bounds(), src, src.Bounds(), draw.Src, nil)
		}
		sc.mu.Unlock()
		sc.presented.Add(1)

		sc.free <- index
		sc.composited()
	}
}

// close stops the compositor. Images still queued are dropped.
func (sc *Swapchain) close() {
	sc.closeOnce.Do(func() {
		close(sc.done)
		sc.wg.Wait()
		sc.idleMu.Lock()
		sc.idle.Broadcast()
		sc.idleMu.Unlock()
		slogger().Debug("software: swapchain destroyed", "presented", sc.presented.Load())
	})
}
