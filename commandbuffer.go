// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"github.com/kestrelgpu/coral/vk"
)

// CommandBufferState tracks where a CommandBuffer sits in its
// begin/end/submit/complete lifecycle (§3).
type CommandBufferState int

const (
	CmdInitial CommandBufferState = iota
	CmdRecording
	CmdExecutable
	CmdPending
	CmdInvalid
)

// LoadOp selects how a render-pass attachment's previous contents are
// treated at the start of rendering.
type LoadOp int

const (
	LoadClear LoadOp = iota
	LoadLoad
	LoadDontCare
)

// YMode selects the viewport's Y convention: Y_DOWN matches Vulkan's
// default (origin top-left); Y_UP flips the viewport height sign and
// shifts Y by height, matching the OpenGL-style convention some
// client code expects (§4.9).
type YMode int

const (
	YDown YMode = iota
	YUp
)

// RenderPassColorAttachment binds one color attachment of a recorded
// dynamic-rendering pass.
type RenderPassColorAttachment struct {
	Image     *Image
	LoadOp    LoadOp
	ClearR, ClearG, ClearB, ClearA float32
}

// RenderPassDepthAttachment binds the depth attachment of a recorded
// dynamic-rendering pass.
type RenderPassDepthAttachment struct {
	Image      *Image
	LoadOp     LoadOp
	ClearDepth float32
}

// RenderPassInfo describes one BeginRenderPass/EndRenderPass bracket.
type RenderPassInfo struct {
	Framebuffer *Framebuffer
	Colors      []RenderPassColorAttachment
	Depth       *RenderPassDepthAttachment
}

// CommandBuffer records draw/copy/update/barrier commands for
// submission to a CommandQueue. Recording methods return bool:
// non-fatal failures (wrong buffer type, zero-sized viewport, a
// mismatched clear-color count) short-circuit just that command
// without invalidating the rest of the recording (§7).
type CommandBuffer struct {
	device *vk.Device
	queue  *CommandQueue
	pool   vk.CommandPool
	handle vk.CommandBuffer

	state CommandBufferState

	boundPipeline *PipelineState
	descriptors   map[uint32]pendingDescriptor

	staging []*Buffer
}

type pendingDescriptor struct {
	buffer  *Buffer
	image   *Image
	sampler *Sampler
	combo   *CombinedTextureSampler
}

func newCommandBuffer(device *vk.Device, queue *CommandQueue, pool vk.CommandPool) (*CommandBuffer, error) {
	handle, err := device.AllocateCommandBuffer(pool)
	if err != nil {
		return nil, ErrCreationInternal
	}
	return &CommandBuffer{
		device:      device,
		queue:       queue,
		pool:        pool,
		handle:      handle,
		state:       CmdInitial,
		descriptors: make(map[uint32]pendingDescriptor),
	}, nil
}

// Begin transitions the buffer Initial/Executable -> Recording.
func (cb *CommandBuffer) Begin() bool {
	if cb.state != CmdInitial && cb.state != CmdExecutable {
		return false
	}
	cb.handle.Reset(0)
	if err := cb.handle.Begin(nil); err != nil {
		return false
	}
	cb.state = CmdRecording
	cb.staging = nil
	return true
}

// End transitions the buffer Recording -> Executable.
func (cb *CommandBuffer) End() bool {
	if cb.state != CmdRecording {
		return false
	}
	if err := cb.handle.End(); err != nil {
		cb.state = CmdInvalid
		return false
	}
	cb.state = CmdExecutable
	return true
}

// BeginRenderPass starts a dynamic-rendering pass over fb's attachments.
func (cb *CommandBuffer) BeginRenderPass(info RenderPassInfo) bool {
	if cb.state != CmdRecording || info.Framebuffer == nil {
		return false
	}
	if len(info.Colors) != len(info.Framebuffer.colorAttachments) {
		return false
	}

	colors := make([]vk.RenderingColorAttachment, len(info.Colors))
	for i, c := range info.Colors {
		colors[i] = vk.RenderingColorAttachment{
			View:    c.Image.View(),
			Layout:  vkImageLayout(c.Image.Layout()),
			LoadOp:  vkLoadOp(c.LoadOp),
			ClearR:  c.ClearR,
			ClearG:  c.ClearG,
			ClearB:  c.ClearB,
			ClearA:  c.ClearA,
		}
	}
	var depth *vk.RenderingDepthAttachment
	if info.Depth != nil {
		depth = &vk.RenderingDepthAttachment{
			View:       info.Depth.Image.View(),
			Layout:     vkImageLayout(info.Depth.Image.Layout()),
			LoadOp:     vkLoadOp(info.Depth.LoadOp),
			ClearDepth: info.Depth.ClearDepth,
		}
	}

	vk.BeginRendering(cb.handle, vk.RenderingInfo{
		Width:  info.Framebuffer.Width(),
		Height: info.Framebuffer.Height(),
		Colors: colors,
		Depth:  depth,
	})
	return true
}

// EndRenderPass ends the current dynamic-rendering pass.
func (cb *CommandBuffer) EndRenderPass() bool {
	if cb.state != CmdRecording {
		return false
	}
	vk.EndRendering(cb.handle)
	return true
}

// ClearImage clears a non-presentable color image outside a render pass.
func (cb *CommandBuffer) ClearImage(img *Image, r, g, b, a float32) bool {
	if cb.state != CmdRecording || img == nil || img.Presentable() {
		return false
	}
	vk.ClearColorImage(cb.handle, img.Handle(), vkImageLayout(img.Layout()), [4]float32{r, g, b, a}, img.MipLevels())
	return true
}

// CopyBuffer records a device-to-device buffer copy.
func (cb *CommandBuffer) CopyBuffer(src, dst *Buffer, srcOffset, dstOffset, size int) bool {
	if cb.state != CmdRecording || src == nil || dst == nil || size <= 0 {
		return false
	}
	if srcOffset+size > src.Size() || dstOffset+size > dst.Size() {
		return false
	}
	vk.CopyBuffer(cb.handle, src.Handle(), dst.Handle(), uint64(srcOffset), uint64(dstOffset), uint64(size))
	return true
}

// CopyImage records a region-to-region image copy (resolving the
// original's cmdCopyImage stub per the Open Question decision).
func (cb *CommandBuffer) CopyImage(src, dst *Image, srcMip, dstMip uint32, width, height uint32) bool {
	if cb.state != CmdRecording || src == nil || dst == nil {
		return false
	}
	vk.CopyImage(cb.handle, src.Handle(), vkImageLayout(src.Layout()), srcMip, dst.Handle(), vkImageLayout(dst.Layout()), dstMip, width, height)
	return true
}

// BindVertexBuffer binds a BufferView as a vertex attribute stream at
// the given pipeline input binding.
func (cb *CommandBuffer) BindVertexBuffer(view *BufferView, binding uint32) bool {
	if cb.state != CmdRecording || view == nil || view.Buffer().Type() != VertexBuffer {
		return false
	}
	vk.BindVertexBuffer(cb.handle, binding, view.Buffer().Handle(), uint64(view.Offset()), view.Stride())
	return true
}

// BindIndexBuffer binds a BufferView as the index stream for subsequent draws.
func (cb *CommandBuffer) BindIndexBuffer(view *BufferView) bool {
	if cb.state != CmdRecording || view == nil || view.Buffer().Type() != IndexBuffer {
		return false
	}
	if !view.AttributeFormat().IsIndexFormat() {
		return false
	}
	vk.BindIndexBuffer(cb.handle, view.Buffer().Handle(), uint64(view.Offset()), vkIndexType(view.AttributeFormat()))
	return true
}

// BindPipeline binds a compiled PipelineState for subsequent draws.
func (cb *CommandBuffer) BindPipeline(ps *PipelineState) bool {
	if cb.state != CmdRecording || ps == nil {
		return false
	}
	vk.BindGraphicsPipeline(cb.handle, ps.Handle())
	cb.boundPipeline = ps
	return true
}

// SetViewport sets the dynamic viewport state. A zero width or height
// is rejected without recording anything (§8's boundary case).
func (cb *CommandBuffer) SetViewport(x, y, width, height float32, mode YMode) bool {
	if cb.state != CmdRecording || width == 0 || height == 0 {
		return false
	}
	if mode == YUp {
		y += height
		height = -height
	}
	vk.SetViewport(cb.handle, x, y, width, height)
	return true
}

// DrawIndexed records an indexed draw call of the currently bound pipeline.
func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount uint32) bool {
	if cb.state != CmdRecording || cb.boundPipeline == nil {
		return false
	}
	cb.flushDescriptors()
	vk.DrawIndexed(cb.handle, indexCount, instanceCount)
	return true
}

// BindDescriptor caches a descriptor to push at the next draw call.
func (cb *CommandBuffer) BindDescriptor(binding uint32, d Descriptor) bool {
	if cb.state != CmdRecording {
		return false
	}
	pd := pendingDescriptor{}
	switch v := d.(type) {
	case *Buffer:
		pd.buffer = v
	case *Image:
		pd.image = v
	case *Sampler:
		pd.sampler = v
	case CombinedTextureSampler:
		pd.combo = &v
	default:
		return false
	}
	cb.descriptors[binding] = pd
	return true
}

func (cb *CommandBuffer) flushDescriptors() {
	if len(cb.descriptors) == 0 || cb.boundPipeline == nil {
		return
	}
	var buffers []vk.WriteDescriptorBuffer
	var images []vk.WriteDescriptorImage
	for binding, pd := range cb.descriptors {
		switch {
		case pd.buffer != nil:
			typ := vk.DescriptorUniformBuffer
			if pd.buffer.Type() == StorageBuffer {
				typ = vk.DescriptorStorageBuffer
			}
			buffers = append(buffers, vk.WriteDescriptorBuffer{
				Binding: binding, Type: typ, Buffer: pd.buffer.Handle(), Range: uint64(pd.buffer.Size()),
			})
		case pd.combo != nil:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding, Type: vk.DescriptorCombinedImageSampler,
				View: pd.combo.Texture.View(), Sampler: pd.combo.Sampler.Handle(),
				Layout: vkImageLayout(pd.combo.Texture.Layout()),
			})
		case pd.image != nil:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding, Type: vk.DescriptorSampledImage,
				View: pd.image.View(), Layout: vkImageLayout(pd.image.Layout()),
			})
		case pd.sampler != nil:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding, Type: vk.DescriptorSampler, Sampler: pd.sampler.Handle(),
			})
		}
	}
	vk.PushDescriptorSet(cb.handle, cb.boundPipeline.Layout(), buffers, images)
}

// UpdateBufferData acquires a staging buffer from the context's pool,
// copies data into it, and records a copy-buffer command into dst
// (§4.9).
func (cb *CommandBuffer) UpdateBufferData(dst *Buffer, offset int, data []byte) bool {
	if cb.state != CmdRecording || dst == nil || offset+len(data) > dst.Size() {
		return false
	}
	staging, err := cb.queue.stagingPool.requestBuffer(len(data))
	if err != nil {
		return false
	}
	mapped := staging.Map()
	if mapped == nil {
		return false
	}
	copy(mapped, data)
	staging.Unmap()
	cb.staging = append(cb.staging, staging)

	vk.CopyBuffer(cb.handle, staging.Handle(), dst.Handle(), 0, uint64(offset), uint64(len(data)))
	return true
}

// UpdateImageData acquires a staging buffer, copies base-level pixel
// data into dst's mip 0, and optionally recurses into the blit
// cascade that fills the rest of the mip chain, leaving the whole
// chain in SHADER_READ_ONLY layout (§4.9).
func (cb *CommandBuffer) UpdateImageData(dst *Image, data []byte, updateMips bool) bool {
	if cb.state != CmdRecording || dst == nil {
		return false
	}
	staging, err := cb.queue.stagingPool.requestBuffer(len(data))
	if err != nil {
		return false
	}
	mapped := staging.Map()
	if mapped == nil {
		return false
	}
	copy(mapped, data)
	staging.Unmap()
	cb.staging = append(cb.staging, staging)

	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: dst.Handle(), Aspect: vk.AspectColor,
		BaseMipLevel: 0, LevelCount: 1,
		OldLayout: vk.ImageLayoutUndefined, NewLayout: vk.ImageLayoutTransferDst,
		SrcAccess: vk.AccessNone, DstAccess: vk.AccessTransferWrite,
	})
	vk.CopyBufferToImage(cb.handle, staging.Handle(), dst.Handle(), dst.Width(), dst.Height())

	if updateMips && dst.MipLevels() > 1 {
		cb.recordMipCascade(dst)
	} else {
		vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
			Image: dst.Handle(), Aspect: vk.AspectColor,
			BaseMipLevel: 0, LevelCount: dst.MipLevels(),
			OldLayout: vk.ImageLayoutTransferDst, NewLayout: vk.ImageLayoutShaderReadOnly,
			SrcAccess: vk.AccessTransferWrite, DstAccess: vk.AccessShaderRead,
		})
	}
	dst.setLayout(LayoutShaderReadOnly)
	return true
}

// GenerateMipMaps records the explicit blit cascade described in §4.9
// over an image whose mip 0 is already populated and in TRANSFER_DST
// layout.
func (cb *CommandBuffer) GenerateMipMaps(img *Image) bool {
	if cb.state != CmdRecording || img == nil || img.MipLevels() <= 1 {
		return false
	}
	cb.recordMipCascade(img)
	img.setLayout(LayoutShaderReadOnly)
	return true
}

// recordMipCascade implements §4.9's generate_mip_maps sequence: for
// each level i in 1..N, transition level i-1 to TRANSFER_SRC and
// level i to TRANSFER_DST, blit i-1 -> i, then transition the whole
// chain to SHADER_READ_ONLY.
func (cb *CommandBuffer) recordMipCascade(img *Image) {
	w, h := img.Width(), img.Height()
	for i := uint32(1); i < img.MipLevels(); i++ {
		vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
			Image: img.Handle(), Aspect: vk.AspectColor,
			BaseMipLevel: i - 1, LevelCount: 1,
			OldLayout: vk.ImageLayoutTransferDst, NewLayout: vk.ImageLayoutTransferSrc,
			SrcAccess: vk.AccessTransferWrite, DstAccess: vk.AccessTransferRead,
		})
		vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
			Image: img.Handle(), Aspect: vk.AspectColor,
			BaseMipLevel: i, LevelCount: 1,
			OldLayout: vk.ImageLayoutUndefined, NewLayout: vk.ImageLayoutTransferDst,
			SrcAccess: vk.AccessNone, DstAccess: vk.AccessTransferWrite,
		})
		dstW, dstH := w/2, h/2
		if dstW == 0 {
			dstW = 1
		}
		if dstH == 0 {
			dstH = 1
		}
		vk.BlitImage(cb.handle, img.Handle(), i-1, w, h, img.Handle(), i, dstW, dstH)
		w, h = dstW, dstH
	}
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: img.Handle(), Aspect: vk.AspectColor,
		BaseMipLevel: 0, LevelCount: img.MipLevels(),
		OldLayout: vk.ImageLayoutTransferDst, NewLayout: vk.ImageLayoutShaderReadOnly,
		SrcAccess: vk.AccessTransferWrite, DstAccess: vk.AccessShaderRead,
	})
}

// BlitImage records a full-image linear blit from src to dst,
// transitioning both images' layouts before and after (§4.9).
func (cb *CommandBuffer) BlitImage(src, dst *Image) bool {
	if cb.state != CmdRecording || src == nil || dst == nil {
		return false
	}
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: src.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vkImageLayout(src.Layout()), NewLayout: vk.ImageLayoutTransferSrc,
		SrcAccess: vk.AccessShaderRead, DstAccess: vk.AccessTransferRead,
	})
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: dst.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vkImageLayout(dst.Layout()), NewLayout: vk.ImageLayoutTransferDst,
		SrcAccess: vk.AccessNone, DstAccess: vk.AccessTransferWrite,
	})
	vk.BlitImage(cb.handle, src.Handle(), 0, src.Width(), src.Height(), dst.Handle(), 0, dst.Width(), dst.Height())
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: src.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vk.ImageLayoutTransferSrc, NewLayout: vk.ImageLayoutShaderReadOnly,
		SrcAccess: vk.AccessTransferRead, DstAccess: vk.AccessShaderRead,
	})
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: dst.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vk.ImageLayoutTransferDst, NewLayout: vk.ImageLayoutShaderReadOnly,
		SrcAccess: vk.AccessTransferWrite, DstAccess: vk.AccessShaderRead,
	})
	src.setLayout(LayoutShaderReadOnly)
	dst.setLayout(LayoutShaderReadOnly)
	return true
}

// Handle returns the backend command buffer handle.
func (cb *CommandBuffer) Handle() vk.CommandBuffer { return cb.handle }

// State returns the command buffer's current lifecycle state.
func (cb *CommandBuffer) State() CommandBufferState { return cb.state }

// takeStaging returns and clears the staging buffers this recording
// borrowed, transferring ownership to the caller (CommandQueue.Submit).
func (cb *CommandBuffer) takeStaging() []*Buffer {
	s := cb.staging
	cb.staging = nil
	return s
}

func vkLoadOp(op LoadOp) vk.AttachmentLoadOp {
	switch op {
	case LoadLoad:
		return vk.AttachmentLoadOpLoad
	case LoadDontCare:
		return vk.AttachmentLoadOpDontCare
	default:
		return vk.AttachmentLoadOpClear
	}
}

func vkIndexType(f AttributeFormat) vk.IndexType {
	if f == UInt16 {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}
