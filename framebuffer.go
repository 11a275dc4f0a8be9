// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

// ColorAttachment binds an Image to a color attachment index.
type ColorAttachment struct {
	Attachment uint32
	Image      *Image
}

// DepthAttachment binds an Image as the depth/stencil attachment.
type DepthAttachment struct {
	Image *Image
}

// FramebufferConfig configures Framebuffer creation.
type FramebufferConfig struct {
	ColorAttachments []ColorAttachment
	DepthAttachment  *DepthAttachment
}

// FramebufferSignature is the (color formats, depth format) tuple a
// PipelineState is compiled against via dynamic rendering.
type FramebufferSignature struct {
	ColorAttachmentFormats      []PixelFormat
	DepthStencilAttachmentFormat *PixelFormat
}

// Framebuffer is a named grouping of color/depth image attachments
// used as the target of a render pass recorded with dynamic rendering.
type Framebuffer struct {
	colorAttachments []ColorAttachment
	depthAttachment  *DepthAttachment
	width, height    uint32
}

func newFramebuffer(cfg FramebufferConfig) (*Framebuffer, error) {
	seen := make(map[uint32]bool, len(cfg.ColorAttachments))
	var width, height uint32
	for _, ca := range cfg.ColorAttachments {
		if seen[ca.Attachment] {
			return nil, FramebufferErrDuplicateColorAttachments
		}
		seen[ca.Attachment] = true

		if ca.Image == nil || !ca.Image.Format().IsColor() {
			return nil, FramebufferErrInvalidColorAttachmentFormat
		}
		if width == 0 {
			width, height = ca.Image.Width(), ca.Image.Height()
		}
	}

	if cfg.DepthAttachment != nil {
		img := cfg.DepthAttachment.Image
		if img == nil || !img.Format().IsDepthStencil() {
			return nil, FramebufferErrInvalidDepthStencilAttachmentFormat
		}
		if width == 0 {
			width, height = img.Width(), img.Height()
		}
	}

	return &Framebuffer{
		colorAttachments: cfg.ColorAttachments,
		depthAttachment:  cfg.DepthAttachment,
		width:            width,
		height:           height,
	}, nil
}

// Signature returns the (color formats, depth format) tuple this
// Framebuffer was built with, for matching against a PipelineState.
func (f *Framebuffer) Signature() FramebufferSignature {
	sig := FramebufferSignature{ColorAttachmentFormats: make([]PixelFormat, len(f.colorAttachments))}
	for i, ca := range f.colorAttachments {
		sig.ColorAttachmentFormats[i] = ca.Image.Format()
	}
	if f.depthAttachment != nil {
		format := f.depthAttachment.Image.Format()
		sig.DepthStencilAttachmentFormat = &format
	}
	return sig
}

// Width returns the framebuffer's width in texels.
func (f *Framebuffer) Width() uint32 { return f.width }

// Height returns the framebuffer's height in texels.
func (f *Framebuffer) Height() uint32 { return f.height }

// ColorAttachmentImage returns the Image bound at the given
// attachment index, or nil if none is bound there.
func (f *Framebuffer) ColorAttachmentImage(attachment uint32) *Image {
	for _, ca := range f.colorAttachments {
		if ca.Attachment == attachment {
			return ca.Image
		}
	}
	return nil
}

// DepthAttachmentImage returns the depth/stencil Image, or nil.
func (f *Framebuffer) DepthAttachmentImage() *Image {
	if f.depthAttachment == nil {
		return nil
	}
	return f.depthAttachment.Image
}
