// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "errors"

// ErrInternal means that an operation failed for reasons internal to
// the backend or to coral's own bookkeeping (an unparseable SPIR-V
// binary, a submission of a command buffer that is not executable, an
// unknown descriptor set, swapchain acquire retries exhausted).
// Creation entry points report their failures through the typed
// creation errors below instead.
var ErrInternal = errors.New("coral: internal error")

// ErrNoDeviceMemory means that a device allocation could not be
// satisfied because the device is out of memory.
var ErrNoDeviceMemory = errors.New("coral: out of device memory")

// BufferCreationError is returned by Context.NewBuffer.
type BufferCreationError int

const (
	// BufferErrInvalidSize means size was zero or negative.
	BufferErrInvalidSize BufferCreationError = iota
	// BufferErrInternal means allocation failed for an internal reason.
	BufferErrInternal
	// BufferErrOutOfMemory means the device could not satisfy the
	// allocation.
	BufferErrOutOfMemory
)

func (e BufferCreationError) Error() string {
	switch e {
	case BufferErrInvalidSize:
		return "coral: buffer size must be greater than zero"
	case BufferErrOutOfMemory:
		return "coral: out of memory allocating buffer"
	default:
		return "coral: internal error creating buffer"
	}
}

// BufferViewCreationError is returned by NewBufferView.
type BufferViewCreationError int

const (
	BufferViewErrInvalidBuffer BufferViewCreationError = iota
	BufferViewErrInvalidSize
	BufferViewErrEmptyView
	BufferViewErrInvalidStride
)

func (e BufferViewCreationError) Error() string {
	switch e {
	case BufferViewErrInvalidBuffer:
		return "coral: buffer view references an invalid buffer"
	case BufferViewErrInvalidSize:
		return "coral: buffer view range exceeds buffer size"
	case BufferViewErrEmptyView:
		return "coral: buffer view count must be greater than zero"
	case BufferViewErrInvalidStride:
		return "coral: index buffer view stride must be zero or sizeof(attribute)"
	default:
		return "coral: invalid buffer view"
	}
}

// FramebufferCreationError is returned by Context.NewFramebuffer.
type FramebufferCreationError int

const (
	FramebufferErrInternal FramebufferCreationError = iota
	FramebufferErrDuplicateColorAttachments
	FramebufferErrInvalidColorAttachmentFormat
	FramebufferErrInvalidDepthStencilAttachmentFormat
)

func (e FramebufferCreationError) Error() string {
	switch e {
	case FramebufferErrDuplicateColorAttachments:
		return "coral: framebuffer color attachments must be distinct images"
	case FramebufferErrInvalidColorAttachmentFormat:
		return "coral: framebuffer color attachment must use a color PixelFormat"
	case FramebufferErrInvalidDepthStencilAttachmentFormat:
		return "coral: framebuffer depth attachment must use a depth/stencil PixelFormat"
	default:
		return "coral: internal error creating framebuffer"
	}
}

// CreationError is a generic error kind shared by resources whose
// only documented failure mode is an internal error: ShaderModule,
// PipelineState, DescriptorSet, Fence, Semaphore, Image, Sampler,
// CommandBuffer, Swapchain and Context.
type CreationError int

const (
	ErrCreationInternal CreationError = iota
)

func (e CreationError) Error() string { return "coral: internal error" }
