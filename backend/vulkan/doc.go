// Package vulkan provides a presentation backend over VkSwapchainKHR using
// github.com/vulkan-go/vulkan.
//
// The package requires cgo and a Vulkan loader and is only built with the
// vulkan build tag:
//
//	go build -tags vulkan
//
// Frame signals are VkSemaphore handles and render-target views are
// VkImageView handles. Swapchain images are owned by the swapchain and are
// never destroyed individually.
//
// Swapchain creation is platform specific and stays with the caller:
// wrap an existing handle with NewSwapchain, or give NewBackend a function
// that creates one for a SurfaceConfig.
package vulkan
