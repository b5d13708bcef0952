// Command presentdemo drives a presentation surface for a number of
// frames and saves the final display as PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/present"
	"github.com/gogpu/present/backend/software"
	_ "github.com/gogpu/present/backend/wgpu"
)

func main() {
	var (
		backendName = flag.String("backend", present.BackendSoftware, "backend name")
		frames      = flag.Int("frames", 60, "number of frames")
		minImages   = flag.Int("min-images", 2, "frames in flight")
		images      = flag.Int("images", 3, "requested swapchain images")
		width       = flag.Int("width", 320, "surface width")
		height      = flag.Int("height", 240, "surface height")
		output      = flag.String("output", "present.png", "output file (software backend)")
		verbose     = flag.Bool("v", false, "log every acquired image")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	present.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*backendName, *frames, *minImages, *images, *width, *height, *output); err != nil {
		log.Fatalf("presentdemo: %v", err)
	}
}

func run(backendName string, frames, minImages, images, width, height int, output string) error {
	b, err := present.BackendByName(backendName)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, present.Backends())
	}

	dev, native, format, err := b.Open(present.SurfaceConfig{
		Window:     gpucontext.NullWindowProvider{W: width, H: height},
		ImageCount: images,
	})
	if err != nil {
		return fmt.Errorf("open %s surface: %w", backendName, err)
	}

	m, err := present.NewManager(dev, present.WithCapacity(1))
	if err != nil {
		dev.Presenter().DestroySurface(native)
		return err
	}
	defer m.Close()

	ref, s, err := m.Create(native, minImages, format)
	if err != nil {
		dev.Presenter().DestroySurface(native)
		return err
	}

	queue, canPresent := dev.Presenter().(present.PresentQueue)
	for n := range frames {
		s.AcquireNextImage()

		if v, ok := s.CurrentImageView().(*software.View); ok {
			drawFrame(v.Image(), n, frames)
		}
		fs := s.CurrentFrameSync()
		if ev, ok := fs.PresentReadySignal.(*software.Event); ok {
			ev.Signal()
		}
		if canPresent {
			if err := queue.Present(s.Native(), s.CurrentImageIndex(), fs.PresentReadySignal); err != nil {
				return fmt.Errorf("present frame %d: %w", n, err)
			}
		}
	}

	var display *image.RGBA
	if sc, ok := s.Native().(*software.Swapchain); ok {
		sc.WaitIdle()
		display = sc.Display()
		present.Logger().Info("presentdemo: composited", "frames", sc.Presented())
	}

	if err := m.Destroy(ref); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	if display == nil {
		log.Print(p.Sprintf("Ran %d frames on %s (no display to save)", frames, backendName))
		return nil
	}
	if err := savePNG(output, display); err != nil {
		return err
	}
	log.Print(p.Sprintf("Ran %d frames on %s, display saved to %s (%dx%d)",
		frames, backendName, output, display.Bounds().Dx(), display.Bounds().Dy()))
	return nil
}

// drawFrame paints a vertical gradient and a square that moves across the
// image as frame n of total advances.
func drawFrame(img *image.RGBA, n, total int) {
	b := img.Bounds()
	steps := 32
	for i := range steps {
		t := float64(i) / float64(steps)
		c := color.RGBA{
			R: uint8(255 * (0.1 + t*0.4)),
			G: uint8(255 * (0.2 + t*0.3)),
			B: uint8(255 * (0.4 + t*0.2)),
			A: 255,
		}
		y0 := b.Min.Y + b.Dy()*i/steps
		y1 := b.Min.Y + b.Dy()*(i+1)/steps
		draw.Draw(img, image.Rect(b.Min.X, y0, b.Max.X, y1), image.NewUniform(c), image.Point{}, draw.Src)
	}

	size := max(b.Dy()/4, 1)
	phase := float64(n) / float64(max(total-1, 1))
	x := b.Min.X + int(phase*float64(b.Dx()-size))
	y := b.Min.Y + (b.Dy()-size)/2 + int(float64(size)*0.5*math.Sin(phase*2*math.Pi))
	draw.Draw(img, image.Rect(x, y, x+size, y+size), image.NewUniform(color.RGBA{R: 255, G: 200, A: 255}), image.Point{}, draw.Src)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
