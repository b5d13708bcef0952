package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
)

func TestDeviceWrapImageValidation(t *testing.T) {
	d := NewDevice()
	spec := present.RenderTargetSpec{Format: gputypes.TextureFormatRGBA8Unorm}

	if _, err := d.WrapImage("not an image", spec); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("WrapImage(string) error = %v, want %v", err, ErrInvalidImage)
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	bgra := present.RenderTargetSpec{Format: gputypes.TextureFormatBGRA8Unorm}
	if _, err := d.WrapImage(img, bgra); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WrapImage(BGRA) error = %v, want %v", err, ErrUnsupportedFormat)
	}
	if _, _, n := d.Live(); n != 0 {
		t.Errorf("live views = %d after failed wraps", n)
	}
}

func TestDeviceForeignSurface(t *testing.T) {
	d := NewDevice()
	if _, err := d.ImageCount(42); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("ImageCount(int) error = %v, want %v", err, ErrInvalidSurface)
	}
	if _, err := d.AcquireNextImage(nil, 0, nil); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("AcquireNextImage(nil) error = %v, want %v", err, ErrInvalidSurface)
	}
	d.DestroySurface(42) // logs and returns
}

func TestDeviceAcquireRaisesSignal(t *testing.T) {
	d := NewDevice()
	sc := NewSwapchain(WithImageCount(2), WithSize(2, 2))
	defer d.DestroySurface(sc)

	sig, err := d.NewSignal()
	if err != nil {
		t.Fatalf("NewSignal() error = %v", err)
	}
	defer d.DestroySignal(sig)

	if _, err := d.AcquireNextImage(sc, present.NoTimeout, sig); err != nil {
		t.Fatalf("AcquireNextImage() error = %v", err)
	}
	if !sig.(*Event).TryWait() {
		t.Error("acquire signal not raised")
	}
}

// TestSurfaceFrameLoop drives a present.Surface over a software swapchain
// with more images than frame slots.
func TestSurfaceFrameLoop(t *testing.T) {
	d := NewDevice()
	m, err := present.NewManager(d)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	sc := NewSwapchain(WithImageCount(3), WithSize(4, 4))

	ref, s, err := m.Create(sc, 2, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.FrameCount() != 2 || s.ImageCount() != 3 {
		t.Fatalf("rings = %d frames, %d images; want 2, 3", s.FrameCount(), s.ImageCount())
	}
	if sig, img, view := d.Live(); sig != 4 || img != 3 || view != 3 {
		t.Fatalf("Live() = %d, %d, %d; want 4, 3, 3", sig, img, view)
	}

	const frames = 12
	for n := 1; n <= frames; n++ {
		s.AcquireNextImage()
		if got, want := s.CurrentFrameIndex(), (n-1)%2; got != want {
			t.Fatalf("frame %d: CurrentFrameIndex() = %d, want %d", n, got, want)
		}
		fs := s.CurrentFrameSync()
		if !fs.AcquireSignal.(*Event).TryWait() {
			t.Fatalf("frame %d: acquire signal not raised", n)
		}

		view := s.CurrentImageView().(*View)
		c := color.RGBA{R: uint8(n), A: 255}
		b := view.Image().Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				view.Image().SetRGBA(x, y, c)
			}
		}

		ready := fs.PresentReadySignal.(*Event)
		ready.Signal()
		if err := d.Present(s.Native(), s.CurrentImageIndex(), ready); err != nil {
			t.Fatalf("frame %d: Present() error = %v", n, err)
		}
	}

	sc.WaitIdle()
	if sc.Presented() != frames {
		t.Errorf("Presented() = %d, want %d", sc.Presented(), frames)
	}
	if got := sc.Display().RGBAAt(0, 0); got.R != frames {
		t.Errorf("display pixel = %v, want last frame (R=%d)", got, frames)
	}

	if err := m.Destroy(ref); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if sig, img, view := d.Live(); sig != 0 || img != 0 || view != 0 {
		t.Errorf("Live() after Destroy = %d, %d, %d; want all zero", sig, img, view)
	}
	if _, err := sc.acquire(0); !errors.Is(err, present.ErrSurfaceLost) {
		t.Errorf("swapchain still open after Destroy: %v", err)
	}
}

func TestBackendOpen(t *testing.T) {
	b, err := present.BackendByName(present.BackendSoftware)
	if err != nil {
		t.Fatalf("BackendByName() error = %v", err)
	}

	cfg := present.SurfaceConfig{
		Window:     gpucontext.NullWindowProvider{W: 20, H: 10, SF: 2},
		ImageCount: 2,
	}
	dev, native, format, err := b.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dev.Presenter().DestroySurface(native)

	if format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want RGBA8Unorm", format)
	}
	sc := native.(*Swapchain)
	if sc.ImageCount() != DefaultImageCount {
		t.Errorf("ImageCount() = %d, want %d", sc.ImageCount(), DefaultImageCount)
	}
	if bb := sc.Bounds(); bb.Dx() != 40 || bb.Dy() != 20 {
		t.Errorf("Bounds() = %v, want 40x20", bb)
	}

	cfg.Format = gputypes.TextureFormatBGRA8Unorm
	if _, _, _, err := b.Open(cfg); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(BGRA) error = %v, want %v", err, ErrUnsupportedFormat)
	}
}
