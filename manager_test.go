package present

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, opts ...ManagerOption) (*Manager, *mockDevice) {
	t.Helper()
	dev := newMockDevice()
	m, err := NewManager(dev, opts...)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m, dev
}

func TestNewManagerNilDevice(t *testing.T) {
	if _, err := NewManager(nil); err == nil {
		t.Error("NewManager(nil) succeeded")
	}
}

func TestManagerOptions(t *testing.T) {
	m, _ := newTestManager(t)
	if m.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", m.Capacity(), DefaultCapacity)
	}

	m, _ = newTestManager(t, WithCapacity(2), WithCapacity(0))
	if m.Capacity() != 2 {
		t.Errorf("Capacity() = %d, want 2 (non-positive values ignored)", m.Capacity())
	}
}

func TestManagerCreateDestroy(t *testing.T) {
	m, dev := newTestManager(t, WithCapacity(2))

	ref, s, err := m.Create(&mockSurface{count: 3}, 2, testFormat)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ref.ID() == InvalidID || s.ID() != ref.ID() {
		t.Errorf("ref ID %d, surface ID %d", ref.ID(), s.ID())
	}
	if s.Owner() != m {
		t.Error("surface owner is not the manager")
	}
	if m.Active() != 1 {
		t.Errorf("Active() = %d, want 1", m.Active())
	}

	got, err := m.Lookup(ref)
	if err != nil || got != s {
		t.Fatalf("Lookup() = %p, %v; want %p", got, err, s)
	}

	if err := m.Destroy(ref); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if dev.live != 0 {
		t.Errorf("%d objects live after Destroy", dev.live)
	}
	if _, err := m.Lookup(ref); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Lookup(destroyed) error = %v, want %v", err, ErrStaleHandle)
	}
	if err := m.Destroy(ref); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Destroy(destroyed) error = %v, want %v", err, ErrStaleHandle)
	}
	if err := m.Destroy(SurfaceRef{}); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Destroy(zero ref) error = %v, want %v", err, ErrStaleHandle)
	}
}

func TestManagerSlotReuseIssuesNewID(t *testing.T) {
	m, _ := newTestManager(t, WithCapacity(1))

	first, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := m.Destroy(first); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	second, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	if second.ID() == first.ID() {
		t.Errorf("reused slot kept ID %d", first.ID())
	}
	if _, err := m.Lookup(first); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Lookup(old ref) error = %v, want %v", err, ErrStaleHandle)
	}
}

func TestManagerIssueIDSkipsInvalid(t *testing.T) {
	m, _ := newTestManager(t)
	m.nextID = ^ID(0)
	if id := m.issueID(); id == InvalidID {
		t.Error("issueID() returned InvalidID on wrap")
	}
}

func TestManagerCapacity(t *testing.T) {
	m, _ := newTestManager(t, WithCapacity(1))
	if _, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat); !errors.Is(err, ErrCapacity) {
		t.Errorf("Create() on full pool error = %v, want %v", err, ErrCapacity)
	}
}

func TestManagerClose(t *testing.T) {
	m, dev := newTestManager(t, WithCapacity(3))
	for range 2 {
		if _, _, err := m.Create(&mockSurface{count: 2}, 1, testFormat); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	m.Close()
	m.Close()

	if dev.live != 0 {
		t.Errorf("%d objects live after Close", dev.live)
	}
	destroyed := 0
	for _, c := range dev.calls {
		if c == "destroy surface" {
			destroyed++
		}
	}
	if destroyed != 2 {
		t.Errorf("native surfaces destroyed %d times, want 2", destroyed)
	}
	if m.Active() != 0 {
		t.Errorf("Active() = %d after Close", m.Active())
	}
	if _, _, err := m.Create(&mockSurface{count: 2}, 1, testFormat); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("Create() after Close error = %v, want %v", err, ErrManagerClosed)
	}
}

func TestManagerCreateContractViolationPanics(t *testing.T) {
	m, _ := newTestManager(t)
	mustPanic(t, func() { _, _, _ = m.Create(&mockSurface{count: 2}, 0, testFormat) })

	// The lock is released by the panic and the slot stays free.
	if _, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat); err != nil {
		t.Errorf("Create() after recovered panic error = %v", err)
	}
}

func TestManagerWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, _ := newTestManager(t, WithLogger(l))

	ref, _, err := m.Create(&mockSurface{count: 2}, 2, testFormat)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := m.Destroy(ref); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	for _, msg := range []string{"manager created surface", "manager destroyed surface"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}
