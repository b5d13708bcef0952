// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import "context"

// Event is a binary signal. Signal raises it; a successful Wait or
// TryWait lowers it again. Raising a raised event does nothing.
//
// Event is the software backend's present.Signal.
type Event struct {
	ch chan struct{}
}

// NewEvent returns a lowered event.
func NewEvent() *Event {
	return &Event{ch: make(chan struct{}, 1)}
}

// Signal raises e.
func (e *Event) Signal() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until e is raised, then lowers it.
func (e *Event) Wait(ctx context.Context) error {
	select {
	case <-e.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryWait lowers e and reports true if it was raised.
func (e *Event) TryWait() bool {
	select {
	case <-e.ch:
		return true
	default:
		return false
	}
}

// Signaled reports whether e is raised without lowering it.
func (e *Event) Signaled() bool {
	return len(e.ch) > 0
}
