//go:build vulkan

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"github.com/gogpu/gputypes"
	vk "github.com/vulkan-go/vulkan"
)

var formatTable = []struct {
	gpu gputypes.TextureFormat
	vk  vk.Format
}{
	{gputypes.TextureFormatBGRA8Unorm, vk.FormatB8g8r8a8Unorm},
	{gputypes.TextureFormatBGRA8UnormSrgb, vk.FormatB8g8r8a8Srgb},
	{gputypes.TextureFormatRGBA8Unorm, vk.FormatR8g8b8a8Unorm},
	{gputypes.TextureFormatRGBA8UnormSrgb, vk.FormatR8g8b8a8Srgb},
	{gputypes.TextureFormatRGB10A2Unorm, vk.FormatA2b10g10r10UnormPack32},
	{gputypes.TextureFormatRGBA16Float, vk.FormatR16g16b16a16Sfloat},
}

// ToVkFormat returns the Vulkan format for f.
func ToVkFormat(f gputypes.TextureFormat) (vk.Format, bool) {
	for _, e := range formatTable {
		if e.gpu == f {
			return e.vk, true
		}
	}
	return vk.FormatUndefined, false
}

// FromVkFormat returns the texture format for f.
func FromVkFormat(f vk.Format) (gputypes.TextureFormat, bool) {
	for _, e := range formatTable {
		if e.vk == f {
			return e.gpu, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}
