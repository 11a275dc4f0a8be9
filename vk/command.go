// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// CommandPool is the backend command buffer allocator.
type CommandPool = vulkan.CommandPool

// CommandBuffer is the backend recordable command buffer handle. Its
// recording methods (Begin, End, PipelineBarrier, BeginRendering,
// BindPipeline, SetViewport, SetScissor, BindVertexBuffers,
// BindIndexBuffer, DrawIndexed, CopyBuffer, CopyBufferToImage,
// CopyImage, BlitImage, PushDescriptorSet, ...) are called directly on
// the value returned by AllocateCommandBuffer.
type CommandBuffer = vulkan.CommandBuffer

// ImageLayout is a backend image layout.
type ImageLayout = vulkan.ImageLayout

// Backend image layouts used by coral's transition bookkeeping.
const (
	ImageLayoutUndefined              = vulkan.IMAGE_LAYOUT_UNDEFINED
	ImageLayoutColorAttachmentOptimal = vulkan.IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL
	ImageLayoutDepthAttachmentOptimal = vulkan.IMAGE_LAYOUT_DEPTH_STENCIL_ATTACHMENT_OPTIMAL
	ImageLayoutTransferSrc            = vulkan.IMAGE_LAYOUT_TRANSFER_SRC_OPTIMAL
	ImageLayoutTransferDst            = vulkan.IMAGE_LAYOUT_TRANSFER_DST_OPTIMAL
	ImageLayoutShaderReadOnly         = vulkan.IMAGE_LAYOUT_SHADER_READ_ONLY_OPTIMAL
	ImageLayoutPresentSrc             = vulkan.IMAGE_LAYOUT_PRESENT_SRC_KHR
)

// PipelineStageFlags is a backend pipeline stage mask.
type PipelineStageFlags = vulkan.PipelineStageFlags

// Pipeline stages used by coral's recorded barriers.
const (
	StageTopOfPipe         = vulkan.PIPELINE_STAGE_TOP_OF_PIPE_BIT
	StageTransfer          = vulkan.PIPELINE_STAGE_TRANSFER_BIT
	StageColorAttachment   = vulkan.PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT
	StageFragmentShader    = vulkan.PIPELINE_STAGE_FRAGMENT_SHADER_BIT
	StageBottomOfPipe      = vulkan.PIPELINE_STAGE_BOTTOM_OF_PIPE_BIT
	StageAllCommands       = vulkan.PIPELINE_STAGE_ALL_COMMANDS_BIT
)

// AccessFlags is a backend memory access mask.
type AccessFlags = vulkan.AccessFlags

// Access flags used by coral's recorded barriers.
const (
	AccessNone                 = vulkan.ACCESS_NONE
	AccessTransferRead         = vulkan.ACCESS_TRANSFER_READ_BIT
	AccessTransferWrite        = vulkan.ACCESS_TRANSFER_WRITE_BIT
	AccessColorAttachmentWrite = vulkan.ACCESS_COLOR_ATTACHMENT_WRITE_BIT
	AccessShaderRead           = vulkan.ACCESS_SHADER_READ_BIT
)

// ImageAspectFlags selects an image's aspect (color, depth, ...).
type ImageAspectFlags = vulkan.ImageAspectFlags

const (
	AspectColor = vulkan.IMAGE_ASPECT_COLOR_BIT
	AspectDepth = vulkan.IMAGE_ASPECT_DEPTH_BIT
)

// ImageBarrier describes a single recorded image layout transition.
type ImageBarrier struct {
	Image                    Image
	Aspect                   ImageAspectFlags
	BaseMipLevel, LevelCount uint32
	OldLayout, NewLayout     ImageLayout
	SrcAccess, DstAccess     AccessFlags
}

// CreateCommandPool creates a transient, individually-resettable
// command pool bound to queueFamily. Each CommandQueue creates one
// such pool up front and guards it with a mutex.
func (d *Device) CreateCommandPool(queueFamily uint32) (CommandPool, error) {
	return d.handle.CreateCommandPool(&vulkan.CommandPoolCreateInfo{
		Flags: vulkan.COMMAND_POOL_CREATE_TRANSIENT_BIT |
			vulkan.COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT,
		QueueFamilyIndex: queueFamily,
	})
}

// DestroyCommandPool destroys a command pool and every buffer
// allocated from it.
func (d *Device) DestroyCommandPool(p CommandPool) { d.handle.DestroyCommandPool(p) }

// AllocateCommandBuffer allocates a single primary command buffer from pool.
func (d *Device) AllocateCommandBuffer(pool CommandPool) (CommandBuffer, error) {
	bufs, err := d.handle.AllocateCommandBuffers(&vulkan.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:               vulkan.COMMAND_BUFFER_LEVEL_PRIMARY,
		CommandBufferCount: 1,
	})
	if err != nil {
		return CommandBuffer{}, err
	}
	return bufs[0], nil
}

// FreeCommandBuffer returns a command buffer's memory to its pool.
func (d *Device) FreeCommandBuffer(pool CommandPool, cb CommandBuffer) {
	d.handle.FreeCommandBuffers(pool, []vulkan.CommandBuffer{cb})
}

// RecordImageBarrier records a pipeline barrier transitioning a single
// image's mip range from one layout to another. This backs every
// layout-transition case the spec's CommandBuffer/Swapchain require
// (update-image, generate-mips, blit-image, swapchain acquire/present).
func RecordImageBarrier(cb CommandBuffer, b ImageBarrier) {
	cb.PipelineBarrier(
		srcStageFor(b.OldLayout),
		dstStageFor(b.NewLayout),
		0,
		[]vulkan.ImageMemoryBarrier{
			{
				SrcAccessMask:       b.SrcAccess,
				DstAccessMask:       b.DstAccess,
				OldLayout:           b.OldLayout,
				NewLayout:           b.NewLayout,
				SrcQueueFamilyIndex: vulkan.QUEUE_FAMILY_IGNORED,
				DstQueueFamilyIndex: vulkan.QUEUE_FAMILY_IGNORED,
				Image:               b.Image,
				SubresourceRange: vulkan.ImageSubresourceRange{
					AspectMask:     b.Aspect,
					BaseMipLevel:   b.BaseMipLevel,
					LevelCount:     b.LevelCount,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
			},
		},
	)
}

func srcStageFor(l ImageLayout) PipelineStageFlags {
	switch l {
	case ImageLayoutTransferSrc, ImageLayoutTransferDst:
		return StageTransfer
	case ImageLayoutColorAttachmentOptimal:
		return StageColorAttachment
	default:
		return StageTopOfPipe
	}
}

func dstStageFor(l ImageLayout) PipelineStageFlags {
	switch l {
	case ImageLayoutTransferSrc, ImageLayoutTransferDst:
		return StageTransfer
	case ImageLayoutColorAttachmentOptimal:
		return StageColorAttachment
	case ImageLayoutShaderReadOnly:
		return StageFragmentShader
	case ImageLayoutPresentSrc:
		return StageBottomOfPipe
	default:
		return StageTopOfPipe
	}
}
