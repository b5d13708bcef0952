package software

import "errors"

// Software backend errors.
var (
	// ErrNotReady is returned by a polling acquire when no image is free.
	ErrNotReady = errors.New("software: no image ready")

	// ErrTimeout is returned when an acquire times out.
	ErrTimeout = errors.New("software: acquire timed out")

	// ErrInvalidSurface is returned when a native surface is not a *Swapchain.
	ErrInvalidSurface = errors.New("software: invalid native surface")

	// ErrInvalidImage is returned for image indices or images the backend
	// did not create.
	ErrInvalidImage = errors.New("software: invalid image")

	// ErrNotAcquired is returned when presenting an image that is not
	// currently acquired.
	ErrNotAcquired = errors.New("software: image not acquired")

	// ErrUnsupportedFormat is returned for formats other than 8-bit RGBA.
	ErrUnsupportedFormat = errors.New("software: unsupported format")
)
