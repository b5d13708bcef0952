//go:build vulkan

package vulkan

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/gogpu/present"
)

// Vulkan backend errors.
var (
	// ErrInvalidSurface is returned when a native surface is not a *Swapchain.
	ErrInvalidSurface = errors.New("vulkan: invalid native surface")

	// ErrInvalidHandle is returned for signals, images or views that are not
	// Vulkan handles of the expected type.
	ErrInvalidHandle = errors.New("vulkan: invalid handle")

	// ErrUnsupportedFormat is returned for formats without a Vulkan mapping.
	ErrUnsupportedFormat = errors.New("vulkan: unsupported format")

	// ErrNoQueue is returned by Present when the device has no present queue.
	ErrNoQueue = errors.New("vulkan: no present queue")
)

// resultError converts a failed VkResult. Out-of-date and lost surfaces
// wrap the present sentinels.
func resultError(op string, res vk.Result) error {
	err := pkgerrors.Wrap(vk.Error(res), "vulkan: "+op)
	switch res {
	case vk.ErrorOutOfDate:
		return fmt.Errorf("%w: %w", present.ErrSurfaceOutdated, err)
	case vk.ErrorSurfaceLost:
		return fmt.Errorf("%w: %w", present.ErrSurfaceLost, err)
	default:
		return err
	}
}
