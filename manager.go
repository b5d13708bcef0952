// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
)

// DefaultCapacity is the number of surfaces a Manager pools by default.
const DefaultCapacity = 4

// ManagerOption configures a Manager during creation.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	capacity int
	logger   *slog.Logger
}

func defaultManagerOptions() managerOptions {
	return managerOptions{capacity: DefaultCapacity}
}

// WithCapacity sets how many surfaces the manager can keep initialized
// at once. Values below 1 are ignored.
func WithCapacity(n int) ManagerOption {
	return func(o *managerOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets a manager-specific logger. By default the manager logs
// through Logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(o *managerOptions) {
		o.logger = l
	}
}

// SurfaceRef identifies one initialization of a pooled surface. A ref
// becomes stale once the surface is finalized, even if the slot is
// reused.
type SurfaceRef struct {
	index int
	id    ID
}

// ID returns the identity token the ref was issued with.
func (r SurfaceRef) ID() ID { return r.id }

// Manager owns a device and a fixed pool of Surface objects. It issues
// identity tokens and drives Surface initialization and teardown.
//
// Manager is safe for concurrent use. The surfaces it hands out are not:
// each must be driven by one goroutine at a time.
type Manager struct {
	mu       sync.Mutex
	device   Device
	surfaces []Surface
	nextID   ID
	logger   *slog.Logger
	closed   bool
}

// NewManager creates a manager that provisions surfaces against device.
func NewManager(device Device, opts ...ManagerOption) (*Manager, error) {
	if device == nil {
		return nil, errors.New("present: nil device")
	}
	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		device:   device,
		surfaces: make([]Surface, o.capacity),
		logger:   o.logger,
	}, nil
}

// Device implements Owner.
func (m *Manager) Device() Device { return m.device }

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return Logger()
}

// Capacity returns the size of the surface pool.
func (m *Manager) Capacity() int { return len(m.surfaces) }

// Active returns the number of initialized surfaces.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.surfaces {
		if m.surfaces[i].IsInitialized() {
			n++
		}
	}
	return n
}

// issueID returns the next identity token, skipping InvalidID on wrap.
// Callers hold m.mu.
func (m *Manager) issueID() ID {
	m.nextID++
	if m.nextID == InvalidID {
		m.nextID++
	}
	return m.nextID
}

// Create initializes a pooled surface over native and returns a reference
// to it. The surface takes ownership of native: it is released when the
// surface is destroyed.
//
// Contract violations (minImageCount <= 0, platform failures) panic as
// documented on Surface.Initialize.
func (m *Manager) Create(native NativeSurface, minImageCount int, format gputypes.TextureFormat) (SurfaceRef, *Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return SurfaceRef{}, nil, ErrManagerClosed
	}
	for i := range m.surfaces {
		s := &m.surfaces[i]
		if s.IsInitialized() {
			continue
		}
		id := m.issueID()
		s.Initialize(m, native, id, minImageCount, format)
		m.log().Debug("present: manager created surface", "slot", i, "id", id)
		return SurfaceRef{index: i, id: id}, s, nil
	}
	return SurfaceRef{}, nil, ErrCapacity
}

// Lookup returns the surface ref points to, or ErrStaleHandle if that
// initialization has been finalized.
func (m *Manager) Lookup(ref SurfaceRef) (*Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(ref)
}

func (m *Manager) lookup(ref SurfaceRef) (*Surface, error) {
	if ref.id == InvalidID || ref.index < 0 || ref.index >= len(m.surfaces) {
		return nil, ErrStaleHandle
	}
	s := &m.surfaces[ref.index]
	if s.ID() != ref.id {
		return nil, ErrStaleHandle
	}
	return s, nil
}

// Destroy finalizes the surface ref points to. Destroying a stale ref
// returns ErrStaleHandle and releases nothing.
func (m *Manager) Destroy(ref SurfaceRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.lookup(ref)
	if err != nil {
		return err
	}
	s.Finalize()
	m.log().Debug("present: manager destroyed surface", "slot", ref.index, "id", ref.id)
	return nil
}

// Close finalizes every pooled surface, last slot first. The manager
// cannot create surfaces afterwards. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for i := len(m.surfaces) - 1; i >= 0; i-- {
		m.surfaces[i].Finalize()
	}
}
