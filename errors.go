// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"
)

// Package errors.
var (
	// ErrInvariant is matched by every fatal contract or platform violation
	// raised by a Surface. Use errors.Is on a recovered *InvariantError.
	ErrInvariant = errors.New("present: invariant violated")

	// ErrSurfaceOutdated is reported by backends when the native surface no
	// longer matches the window (resize, display mode change). The surface
	// must be recreated by its owner.
	ErrSurfaceOutdated = errors.New("present: surface outdated")

	// ErrSurfaceLost is reported by backends when the native surface has been
	// destroyed underneath the presenter.
	ErrSurfaceLost = errors.New("present: surface lost")

	// ErrCapacity is returned by Manager when every pooled surface is in use.
	ErrCapacity = errors.New("present: surface pool exhausted")

	// ErrManagerClosed is returned when creating a surface on a closed Manager.
	ErrManagerClosed = errors.New("present: manager closed")

	// ErrStaleHandle is returned by Manager when a SurfaceRef refers to a
	// surface that has been finalized or reused.
	ErrStaleHandle = errors.New("present: stale surface reference")

	// ErrBackendNotFound is returned when no backend is registered under a name.
	ErrBackendNotFound = errors.New("present: backend not found")
)

// InvariantError describes a fatal violation detected by a Surface.
// It is the value passed to panic; it never travels as an ordinary
// error return.
type InvariantError struct {
	// Op is the surface operation that detected the violation.
	Op string

	// Msg describes the violated condition.
	Msg string

	// Err is the underlying platform error, if any.
	Err error
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("present: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("present: %s: %s", e.Op, e.Msg)
}

// Unwrap returns the platform cause so that errors.Is can match backend
// sentinels such as ErrSurfaceOutdated.
func (e *InvariantError) Unwrap() error { return e.Err }

// Is reports ErrInvariant as a match for every InvariantError.
func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// assert panics with an *InvariantError when cond is false.
func assert(cond bool, op, format string, args ...any) {
	if !cond {
		fail(op, nil, format, args...)
	}
}

// assertOK panics with an *InvariantError wrapping err when err is non-nil.
func assertOK(err error, op, format string, args ...any) {
	if err != nil {
		fail(op, err, format, args...)
	}
}

func fail(op string, err error, format string, args ...any) {
	e := &InvariantError{Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
	Logger().Error("present: fatal invariant", "op", op, "err", e)
	panic(e)
}
