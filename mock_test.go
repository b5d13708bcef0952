package present

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
)

var errInjected = errors.New("injected failure")

type mockSignal struct{ name string }
type mockImage struct{ index int }
type mockResource struct{ index int }
type mockView struct{ index int }

// mockDevice records every construction and release call in order.
// It is its own Presenter over *mockSurface values.
type mockDevice struct {
	calls []string

	signals int // signals created, used for naming
	live    int // constructed and not yet released

	failSignalAt int // fail the n-th NewSignal call (1-based), 0 = never
	failViewAt   int // fail NewRenderTargetView for this image index + 1
	noPresenter  bool
}

type mockSurface struct {
	count      int
	reported   int // Images returns this many when > 0
	countErr   error
	imagesErr  error
	next       int
	acquireErr error
	forceIndex *int

	lastTimeout uint64
	lastSignal  Signal
	acquires    int
}

func newMockDevice() *mockDevice { return &mockDevice{} }

func (d *mockDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *mockDevice) NewSignal() (Signal, error) {
	d.signals++
	if d.failSignalAt == d.signals {
		return nil, errInjected
	}
	s := &mockSignal{name: fmt.Sprintf("sig%d", d.signals)}
	d.live++
	d.record("new signal %s", s.name)
	return s, nil
}

func (d *mockDevice) DestroySignal(sig Signal) {
	d.live--
	d.record("destroy signal %s", sig.(*mockSignal).name)
}

func (d *mockDevice) WrapImage(img NativeImage, _ RenderTargetSpec) (ImageResource, error) {
	mi := img.(mockImage)
	d.live++
	d.record("wrap image %d", mi.index)
	return &mockResource{index: mi.index}, nil
}

func (d *mockDevice) DestroyImage(res ImageResource) {
	d.live--
	d.record("destroy image %d", res.(*mockResource).index)
}

func (d *mockDevice) NewRenderTargetView(res ImageResource, _ RenderTargetSpec) (RenderTargetView, error) {
	r := res.(*mockResource)
	if d.failViewAt == r.index+1 {
		return nil, errInjected
	}
	d.live++
	d.record("new view %d", r.index)
	return &mockView{index: r.index}, nil
}

func (d *mockDevice) DestroyRenderTargetView(view RenderTargetView) {
	d.live--
	d.record("destroy view %d", view.(*mockView).index)
}

func (d *mockDevice) Presenter() Presenter {
	if d.noPresenter {
		return nil
	}
	return d
}

func (d *mockDevice) ImageCount(s NativeSurface) (int, error) {
	ms := s.(*mockSurface)
	return ms.count, ms.countErr
}

func (d *mockDevice) Images(s NativeSurface, dst []NativeImage) (int, error) {
	ms := s.(*mockSurface)
	if ms.imagesErr != nil {
		return 0, ms.imagesErr
	}
	n := ms.count
	if ms.reported > 0 {
		n = ms.reported
	}
	n = min(n, len(dst))
	for i := range n {
		dst[i] = mockImage{index: i}
	}
	return n, nil
}

func (d *mockDevice) AcquireNextImage(s NativeSurface, timeout uint64, signal Signal) (int, error) {
	ms := s.(*mockSurface)
	ms.acquires++
	ms.lastTimeout = timeout
	ms.lastSignal = signal
	if ms.acquireErr != nil {
		return -1, ms.acquireErr
	}
	if ms.forceIndex != nil {
		return *ms.forceIndex, nil
	}
	idx := ms.next
	ms.next = (ms.next + 1) % ms.count
	return idx, nil
}

func (d *mockDevice) DestroySurface(s NativeSurface) {
	d.record("destroy surface")
}

// mockOwner owns surfaces created against dev.
type mockOwner struct{ dev Device }

func (o mockOwner) Device() Device { return o.dev }

const testFormat = gputypes.TextureFormatBGRA8Unorm

// mustPanic runs f and returns the *InvariantError it panics with.
func mustPanic(t *testing.T, f func()) (ie *InvariantError) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got none")
		}
		e, ok := r.(*InvariantError)
		if !ok {
			t.Fatalf("panic value = %T (%v), want *InvariantError", r, r)
		}
		ie = e
	}()
	f()
	return nil
}
