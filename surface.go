// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"context"
	"log/slog"

	"github.com/gogpu/gputypes"
)

// ID distinguishes one initialization of a Surface from any other,
// including earlier ones of the same object.
type ID uint32

// InvalidID is the identity of a torn-down surface.
const InvalidID ID = 0

// FrameSync holds the synchronization signals of one frame-in-flight slot.
type FrameSync struct {
	// AcquireSignal is raised by the platform when the image acquired
	// through this slot may be written.
	AcquireSignal Signal

	// PresentReadySignal is raised by the GPU when rendering into the
	// acquired image is complete. The present call waits on it.
	PresentReadySignal Signal
}

// Image is one entry of the presentable-image ring.
type Image struct {
	// Resource wraps the platform image.
	Resource ImageResource

	// View is the render-target view over Resource.
	View RenderTargetView
}

// Surface is a presentation surface: a ring of presentable images and a
// separately sized ring of per-frame synchronization slots.
//
// A Surface is either fully initialized or fully torn down. It is driven
// by one goroutine at a time: Initialize, any number of AcquireNextImage
// calls, then Finalize. Contract and platform violations panic with an
// *InvariantError.
//
// The zero value is a torn-down surface ready for Initialize.
type Surface struct {
	owner  Owner
	native NativeSurface
	spec   RenderTargetSpec

	// frames is indexed by the frame-in-flight counter and has the
	// platform's minimum image count entries.
	frames []FrameSync

	// images is indexed by the acquired image index and has the
	// platform's actual image count entries.
	images []Image

	currentFrameIndex int
	currentImageIndex int
	id                ID
}

// IsInitialized reports whether s currently owns a native surface.
func (s *Surface) IsInitialized() bool {
	return s.native != nil
}

// Initialize provisions both rings for native and marks s ready for
// AcquireNextImage.
//
// minImageCount sizes the frame-sync ring; the image ring is sized by the
// number of images the platform reports for native. id must differ from
// InvalidID.
func (s *Surface) Initialize(owner Owner, native NativeSurface, id ID, minImageCount int, format gputypes.TextureFormat) {
	const op = "initialize"
	assert(!s.IsInitialized(), op, "surface already initialized (id %d)", s.id)
	assert(owner != nil, op, "nil owner")
	assert(native != nil, op, "invalid native surface")
	assert(id != InvalidID, op, "invalid identity token")
	assert(minImageCount > 0, op, "minimum image count %d, want > 0", minImageCount)

	dev := owner.Device()
	assert(dev != nil, op, "owner has no device")
	pr := dev.Presenter()
	assert(pr != nil, op, "device has no presenter")

	spec := RenderTargetSpec{Format: format}

	imageCount, err := pr.ImageCount(native)
	assertOK(err, op, "query image count")
	assert(imageCount > 0, op, "platform reported %d images", imageCount)

	scratch := make([]NativeImage, imageCount)
	n, err := pr.Images(native, scratch)
	assertOK(err, op, "retrieve images")
	assert(n == imageCount, op, "platform returned %d images, reported %d", n, imageCount)

	frames := make([]FrameSync, minImageCount)
	images := make([]Image, imageCount)
	if err := provision(dev, spec, scratch, frames, images); err != nil {
		fail(op, err, "provision rings")
	}

	s.owner = owner
	s.native = native
	s.spec = spec
	s.frames = frames
	s.images = images
	s.id = id
	s.currentFrameIndex = -1
	s.currentImageIndex = -1

	Logger().Info("present: surface initialized",
		"id", id,
		"frames", len(frames),
		"images", len(images),
		"format", format)
}

// provision constructs the signals of every frame slot and the resource
// and view of every image. On failure everything built so far is
// released in reverse order and the rings are left zeroed.
func provision(dev Device, spec RenderTargetSpec, natives []NativeImage, frames []FrameSync, images []Image) error {
	builtFrames, builtImages := 0, 0
	rollback := func() {
		releaseImages(dev, images[:builtImages])
		releaseFrames(dev, frames[:builtFrames])
	}

	for i := range frames {
		acq, err := dev.NewSignal()
		if err != nil {
			rollback()
			return err
		}
		ready, err := dev.NewSignal()
		if err != nil {
			dev.DestroySignal(acq)
			rollback()
			return err
		}
		frames[i] = FrameSync{AcquireSignal: acq, PresentReadySignal: ready}
		builtFrames++
	}

	for i := range images {
		res, err := dev.WrapImage(natives[i], spec)
		if err != nil {
			rollback()
			return err
		}
		view, err := dev.NewRenderTargetView(res, spec)
		if err != nil {
			dev.DestroyImage(res)
			rollback()
			return err
		}
		images[i] = Image{Resource: res, View: view}
		builtImages++
	}
	return nil
}

// releaseImages releases images last to first, view before resource.
func releaseImages(dev Device, images []Image) {
	for i := len(images) - 1; i >= 0; i-- {
		dev.DestroyRenderTargetView(images[i].View)
		dev.DestroyImage(images[i].Resource)
		images[i] = Image{}
	}
}

// releaseFrames releases frame slots last to first, present-ready signal
// before acquire signal.
func releaseFrames(dev Device, frames []FrameSync) {
	for i := len(frames) - 1; i >= 0; i-- {
		dev.DestroySignal(frames[i].PresentReadySignal)
		dev.DestroySignal(frames[i].AcquireSignal)
		frames[i] = FrameSync{}
	}
}

// Finalize releases everything Initialize constructed, in reverse order,
// and releases the native surface. Calling Finalize on a torn-down
// surface does nothing.
func (s *Surface) Finalize() {
	if !s.IsInitialized() {
		return
	}
	dev := s.owner.Device()
	id := s.id

	releaseImages(dev, s.images)
	releaseFrames(dev, s.frames)
	s.images = nil
	s.frames = nil

	dev.Presenter().DestroySurface(s.native)
	s.native = nil
	s.owner = nil
	s.spec = RenderTargetSpec{}
	s.id = InvalidID

	Logger().Info("present: surface finalized", "id", id)
}

// AcquireNextImage advances to the next frame slot and blocks until the
// platform hands out the next writable image. Read the result with
// CurrentImageIndex.
//
// It must be called once per frame, after the previous frame's image has
// been submitted for presentation.
func (s *Surface) AcquireNextImage() {
	const op = "acquire"
	assert(s.IsInitialized(), op, "surface not initialized")

	n := len(s.frames)
	s.currentFrameIndex = clamp((s.currentFrameIndex+1)%n, 0, n-1)

	slot := &s.frames[s.currentFrameIndex]
	idx, err := s.owner.Device().Presenter().AcquireNextImage(s.native, NoTimeout, slot.AcquireSignal)
	s.currentImageIndex = idx
	// The success path must not allocate.
	if err != nil {
		fail(op, err, "acquire next image (frame %d)", s.currentFrameIndex)
	}
	if idx < 0 || idx >= len(s.images) {
		fail(op, nil, "image index %d out of range [0,%d)", idx, len(s.images))
	}

	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("present: acquired image", "id", s.id, "frame", s.currentFrameIndex, "image", idx)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ID returns the identity token of the current initialization, or
// InvalidID.
func (s *Surface) ID() ID { return s.id }

// Owner returns the owning manager, or nil when torn down.
func (s *Surface) Owner() Owner { return s.owner }

// Native returns the native surface handle, or nil when torn down.
func (s *Surface) Native() NativeSurface { return s.native }

// RenderTargetSpec returns the description shared by all images.
func (s *Surface) RenderTargetSpec() RenderTargetSpec { return s.spec }

// CurrentFrameIndex returns the frame slot used by the last acquire, or -1.
func (s *Surface) CurrentFrameIndex() int { return s.currentFrameIndex }

// CurrentImageIndex returns the image index returned by the last acquire,
// or -1.
func (s *Surface) CurrentImageIndex() int { return s.currentImageIndex }

// FrameCount returns the length of the frame-sync ring.
func (s *Surface) FrameCount() int { return len(s.frames) }

// ImageCount returns the length of the image ring.
func (s *Surface) ImageCount() int { return len(s.images) }

// FrameSync returns the signals of frame slot i.
func (s *Surface) FrameSync(i int) FrameSync {
	assert(i >= 0 && i < len(s.frames), "frame sync", "slot %d out of range [0,%d)", i, len(s.frames))
	return s.frames[i]
}

// Image returns image ring entry i.
func (s *Surface) Image(i int) Image {
	assert(i >= 0 && i < len(s.images), "image", "index %d out of range [0,%d)", i, len(s.images))
	return s.images[i]
}

// ImageView returns the render-target view of image i.
func (s *Surface) ImageView(i int) RenderTargetView {
	return s.Image(i).View
}

// CurrentFrameSync returns the signals of the slot used by the last acquire.
func (s *Surface) CurrentFrameSync() FrameSync {
	return s.FrameSync(s.currentFrameIndex)
}

// CurrentImageView returns the view of the image returned by the last
// acquire.
func (s *Surface) CurrentImageView() RenderTargetView {
	return s.ImageView(s.currentImageIndex)
}
