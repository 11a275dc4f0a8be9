// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// AttachmentLoadOp selects how a dynamic-rendering attachment's prior
// contents are treated at the start of rendering.
type AttachmentLoadOp = vulkan.AttachmentLoadOp

const (
	AttachmentLoadOpClear    = vulkan.ATTACHMENT_LOAD_OP_CLEAR
	AttachmentLoadOpLoad     = vulkan.ATTACHMENT_LOAD_OP_LOAD
	AttachmentLoadOpDontCare = vulkan.ATTACHMENT_LOAD_OP_DONT_CARE
)

// RenderingColorAttachment describes one color attachment of a
// BeginRendering call.
type RenderingColorAttachment struct {
	View                   ImageView
	Layout                 ImageLayout
	LoadOp                 AttachmentLoadOp
	ClearR, ClearG, ClearB, ClearA float32
}

// RenderingDepthAttachment describes the depth attachment of a
// BeginRendering call.
type RenderingDepthAttachment struct {
	View       ImageView
	Layout     ImageLayout
	LoadOp     AttachmentLoadOp
	ClearDepth float32
}

// RenderingInfo configures a dynamic-rendering pass (no render-pass
// object or framebuffer object involved, per §4.9).
type RenderingInfo struct {
	Width, Height uint32
	Colors        []RenderingColorAttachment
	Depth         *RenderingDepthAttachment
}

// BeginRendering starts a dynamic-rendering pass.
func BeginRendering(cb CommandBuffer, info RenderingInfo) {
	colors := make([]vulkan.RenderingAttachmentInfo, len(info.Colors))
	for i, c := range info.Colors {
		colors[i] = vulkan.RenderingAttachmentInfo{
			ImageView:   c.View,
			ImageLayout: c.Layout,
			LoadOp:      c.LoadOp,
			StoreOp:     vulkan.ATTACHMENT_STORE_OP_STORE,
			ClearValue:  vulkan.ClearValue{Color: [4]float32{c.ClearR, c.ClearG, c.ClearB, c.ClearA}},
		}
	}
	rendering := &vulkan.RenderingInfo{
		RenderArea:     vulkan.Rect2D{Extent: vulkan.Extent2D{Width: info.Width, Height: info.Height}},
		LayerCount:     1,
		ColorAttachments: colors,
	}
	if info.Depth != nil {
		d := info.Depth
		rendering.DepthAttachment = &vulkan.RenderingAttachmentInfo{
			ImageView:   d.View,
			ImageLayout: d.Layout,
			LoadOp:      d.LoadOp,
			StoreOp:     vulkan.ATTACHMENT_STORE_OP_STORE,
			ClearValue:  vulkan.ClearValue{Depth: d.ClearDepth},
		}
	}
	cb.BeginRendering(rendering)
}

// EndRendering ends a dynamic-rendering pass.
func EndRendering(cb CommandBuffer) { cb.EndRendering() }

// ClearColorImage clears a non-presentable color image's mip chain
// outside a render pass.
func ClearColorImage(cb CommandBuffer, img Image, layout ImageLayout, color [4]float32, mipLevels uint32) {
	cb.ClearColorImage(img, layout, &vulkan.ClearColorValue{Float32: color}, []vulkan.ImageSubresourceRange{
		{AspectMask: AspectColor, BaseMipLevel: 0, LevelCount: mipLevels, BaseArrayLayer: 0, LayerCount: 1},
	})
}

// CopyBuffer records a device-to-device buffer copy.
func CopyBuffer(cb CommandBuffer, src, dst Buffer, srcOffset, dstOffset, size uint64) {
	cb.CopyBuffer(src, dst, []vulkan.BufferCopy{{SrcOffset: srcOffset, DstOffset: dstOffset, Size: size}})
}

// CopyBufferToImage copies a tightly packed buffer into an image's mip
// level 0.
func CopyBufferToImage(cb CommandBuffer, src Buffer, dst Image, width, height uint32) {
	cb.CopyBufferToImage(src, dst, ImageLayoutTransferDst, []vulkan.BufferImageCopy{
		{
			ImageSubresource: vulkan.ImageSubresourceLayers{AspectMask: AspectColor, MipLevel: 0, LayerCount: 1},
			ImageExtent:      vulkan.Extent3D{Width: width, Height: height, Depth: 1},
		},
	})
}

// CopyImage records a region-to-region image copy between two mip levels.
func CopyImage(cb CommandBuffer, src Image, srcLayout ImageLayout, srcMip uint32, dst Image, dstLayout ImageLayout, dstMip uint32, width, height uint32) {
	cb.CopyImage(src, srcLayout, dst, dstLayout, []vulkan.ImageCopy{
		{
			SrcSubresource: vulkan.ImageSubresourceLayers{AspectMask: AspectColor, MipLevel: srcMip, LayerCount: 1},
			DstSubresource: vulkan.ImageSubresourceLayers{AspectMask: AspectColor, MipLevel: dstMip, LayerCount: 1},
			Extent:         vulkan.Extent3D{Width: width, Height: height, Depth: 1},
		},
	})
}

// BlitImage records a single linear-filtered blit between two mip levels.
func BlitImage(cb CommandBuffer, src Image, srcMip uint32, srcW, srcH uint32, dst Image, dstMip uint32, dstW, dstH uint32) {
	cb.BlitImage(
		src, ImageLayoutTransferSrc, dst, ImageLayoutTransferDst,
		[]vulkan.ImageBlit{
			{
				SrcSubresource: vulkan.ImageSubresourceLayers{AspectMask: AspectColor, MipLevel: srcMip, LayerCount: 1},
				SrcOffsets:     [2]vulkan.Offset3D{{}, {X: int32(srcW), Y: int32(srcH), Z: 1}},
				DstSubresource: vulkan.ImageSubresourceLayers{AspectMask: AspectColor, MipLevel: dstMip, LayerCount: 1},
				DstOffsets:     [2]vulkan.Offset3D{{}, {X: int32(dstW), Y: int32(dstH), Z: 1}},
			},
		},
		vulkan.FILTER_LINEAR,
	)
}

// BindVertexBuffer binds a single vertex buffer at the given binding,
// with its per-draw stride set via the dynamic vertex-input-stride
// extension rather than the pipeline's fixed stride (§4.7).
func BindVertexBuffer(cb CommandBuffer, binding uint32, buf Buffer, offset uint64, stride uint32) {
	cb.BindVertexBuffers2(binding, []vulkan.Buffer{buf}, []uint64{offset}, nil, []uint32{stride})
}

// BindIndexBuffer binds the index stream used by subsequent draws.
func BindIndexBuffer(cb CommandBuffer, buf Buffer, offset uint64, t IndexType) {
	cb.BindIndexBuffer(buf, offset, t)
}

// BindGraphicsPipeline binds a compiled graphics pipeline.
func BindGraphicsPipeline(cb CommandBuffer, p Pipeline) {
	cb.BindPipeline(vulkan.PIPELINE_BIND_POINT_GRAPHICS, p)
}

// SetViewport sets the dynamic viewport and a matching full-size scissor.
func SetViewport(cb CommandBuffer, x, y, width, height float32) {
	cb.SetViewport([]vulkan.Viewport{
		{X: x, Y: y, Width: width, Height: height, MinDepth: 0, MaxDepth: 1},
	})
	w, h := width, height
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	cb.SetScissor([]vulkan.Rect2D{
		{Extent: vulkan.Extent2D{Width: uint32(w), Height: uint32(h)}},
	})
}

// DrawIndexed records an indexed draw call.
func DrawIndexed(cb CommandBuffer, indexCount, instanceCount uint32) {
	cb.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}
