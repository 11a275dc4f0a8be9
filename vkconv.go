// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"

	"github.com/kestrelgpu/coral/vk"
)

// vkFormat converts a PixelFormat to its backend equivalent, mirroring
// driver/vk/ext.go's format conversion table.
func vkFormat(f PixelFormat) vk.Format {
	switch f {
	case R8SRGB:
		return vulkan.FORMAT_R8_SRGB
	case RG8SRGB:
		return vulkan.FORMAT_R8G8_SRGB
	case RGB8SRGB:
		return vulkan.FORMAT_R8G8B8_SRGB
	case RGBA8SRGB:
		return vulkan.FORMAT_R8G8B8A8_SRGB
	case R8UI:
		return vulkan.FORMAT_R8_UINT
	case RG8UI:
		return vulkan.FORMAT_R8G8_UINT
	case RGB8UI:
		return vulkan.FORMAT_R8G8B8_UINT
	case RGBA8UI:
		return vulkan.FORMAT_R8G8B8A8_UINT
	case R8I:
		return vulkan.FORMAT_R8_SINT
	case RG8I:
		return vulkan.FORMAT_R8G8_SINT
	case RGB8I:
		return vulkan.FORMAT_R8G8B8_SINT
	case RGBA8I:
		return vulkan.FORMAT_R8G8B8A8_SINT
	case R16UI:
		return vulkan.FORMAT_R16_UINT
	case RG16UI:
		return vulkan.FORMAT_R16G16_UINT
	case RGB16UI:
		return vulkan.FORMAT_R16G16B16_UINT
	case RGBA16UI:
		return vulkan.FORMAT_R16G16B16A16_UINT
	case R16I:
		return vulkan.FORMAT_R16_SINT
	case RG16I:
		return vulkan.FORMAT_R16G16_SINT
	case RGB16I:
		return vulkan.FORMAT_R16G16B16_SINT
	case RGBA16I:
		return vulkan.FORMAT_R16G16B16A16_SINT
	case R32UI:
		return vulkan.FORMAT_R32_UINT
	case RG32UI:
		return vulkan.FORMAT_R32G32_UINT
	case RGB32UI:
		return vulkan.FORMAT_R32G32B32_UINT
	case RGBA32UI:
		return vulkan.FORMAT_R32G32B32A32_UINT
	case R32I:
		return vulkan.FORMAT_R32_SINT
	case RG32I:
		return vulkan.FORMAT_R32G32_SINT
	case RGB32I:
		return vulkan.FORMAT_R32G32B32_SINT
	case RGBA32I:
		return vulkan.FORMAT_R32G32B32A32_SINT
	case R16F:
		return vulkan.FORMAT_R16_SFLOAT
	case RG16F:
		return vulkan.FORMAT_R16G16_SFLOAT
	case RGB16F:
		return vulkan.FORMAT_R16G16B16_SFLOAT
	case RGBA16F:
		return vulkan.FORMAT_R16G16B16A16_SFLOAT
	case R32F:
		return vulkan.FORMAT_R32_SFLOAT
	case RG32F:
		return vulkan.FORMAT_R32G32_SFLOAT
	case RGB32F:
		return vulkan.FORMAT_R32G32B32_SFLOAT
	case RGBA32F:
		return vulkan.FORMAT_R32G32B32A32_SFLOAT
	case Depth16:
		return vulkan.FORMAT_D16_UNORM
	case Depth24Stencil8:
		return vulkan.FORMAT_D24_UNORM_S8_UINT
	case Depth32F:
		return vulkan.FORMAT_D32_SFLOAT
	default:
		panic("coral: unknown PixelFormat")
	}
}

// vkAttributeFormat converts an AttributeFormat to its backend
// equivalent, used by PipelineState's vertex input state.
func vkAttributeFormat(f AttributeFormat) vk.Format {
	switch f {
	case UInt16:
		return vulkan.FORMAT_R16_UINT
	case UInt32:
		return vulkan.FORMAT_R32_UINT
	case Int16:
		return vulkan.FORMAT_R16_SINT
	case Int32:
		return vulkan.FORMAT_R32_SINT
	case Float:
		return vulkan.FORMAT_R32_SFLOAT
	case Vec2F:
		return vulkan.FORMAT_R32G32_SFLOAT
	case Vec3F:
		return vulkan.FORMAT_R32G32B32_SFLOAT
	case Vec4F:
		return vulkan.FORMAT_R32G32B32A32_SFLOAT
	default:
		panic("coral: unknown AttributeFormat")
	}
}

// vkImageLayout converts an ImageLayout to its backend equivalent.
func vkImageLayout(l ImageLayout) vk.ImageLayout {
	switch l {
	case LayoutColorAttachmentOptimal:
		return vk.ImageLayoutColorAttachmentOptimal
	case LayoutDepthStencilAttachmentOptimal:
		return vk.ImageLayoutDepthAttachmentOptimal
	case LayoutTransferSrc:
		return vk.ImageLayoutTransferSrc
	case LayoutTransferDst:
		return vk.ImageLayoutTransferDst
	case LayoutShaderReadOnly:
		return vk.ImageLayoutShaderReadOnly
	case LayoutPresentSrc:
		return vk.ImageLayoutPresentSrc
	default:
		return vk.ImageLayoutUndefined
	}
}

// vkFilter converts a Filter to its backend equivalent.
func vkFilter(f Filter) vk.SamplerFilter {
	if f == Linear {
		return vk.FilterLinear
	}
	return vk.FilterNearest
}

// vkWrapMode converts a WrapMode to its backend equivalent.
func vkWrapMode(w WrapMode) vk.SamplerWrapMode {
	switch w {
	case Repeat:
		return vk.WrapRepeat
	case Mirror:
		return vk.WrapMirror
	case WrapOne:
		return vk.WrapClampToOne
	case WrapZero:
		return vk.WrapClampToOne
	default:
		return vk.WrapClampToEdge
	}
}
