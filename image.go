// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"math/bits"

	"github.com/kestrelgpu/coral/vk"
)

// ImageUsageHint hints to the backend how an Image will primarily be
// used, to choose a favorable memory layout. The hint is not binding:
// an Image may still be used in the other role.
type ImageUsageHint int

const (
	FramebufferAttachment ImageUsageHint = iota
	ShaderReadOnly
)

// ImageConfig configures Image creation.
type ImageConfig struct {
	Width     uint32
	Height    uint32
	HasMips   bool
	Format    PixelFormat
	UsageHint ImageUsageHint
}

// ImageLayout tracks the current Vulkan image layout, used by
// CommandBuffer to decide what transitions are required.
type ImageLayout int

const (
	LayoutUndefined ImageLayout = iota
	LayoutColorAttachmentOptimal
	LayoutDepthStencilAttachmentOptimal
	LayoutTransferSrc
	LayoutTransferDst
	LayoutShaderReadOnly
	LayoutPresentSrc
)

// Image is a device-resident texel array, optionally presentable
// (swapchain-owned).
type Image struct {
	device      *vk.Device
	handle      vk.Image
	view        vk.ImageView
	memory      vk.DeviceMemory
	width       uint32
	height      uint32
	format      PixelFormat
	mipLevels   uint32
	presentable bool
	layout      ImageLayout
	ownsMemory  bool
}

func mipLevelCount(w, h uint32) uint32 {
	m := w
	if h > m {
		m = h
	}
	return uint32(bits.Len32(m))
}

func newImage(device *vk.Device, cfg ImageConfig) (*Image, error) {
	mipLevels := uint32(1)
	if cfg.HasMips {
		mipLevels = mipLevelCount(cfg.Width, cfg.Height)
	}

	handle, view, memory, err := device.AllocateImage(vk.ImageAllocConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		MipLevels: mipLevels,
		Format:    vkFormat(cfg.Format),
		DepthStencil: cfg.Format.IsDepthStencil(),
	})
	if err != nil {
		return nil, ErrCreationInternal
	}

	return &Image{
		device:     device,
		handle:     handle,
		view:       view,
		memory:     memory,
		width:      cfg.Width,
		height:     cfg.Height,
		format:     cfg.Format,
		mipLevels:  mipLevels,
		layout:     LayoutUndefined,
		ownsMemory: true,
	}, nil
}

// wrapPresentableImage wraps an already-allocated swapchain image; it
// does not own the backing memory.
func wrapPresentableImage(device *vk.Device, handle vk.Image, view vk.ImageView, format PixelFormat, w, h uint32) *Image {
	return &Image{
		device:      device,
		handle:      handle,
		view:        view,
		width:       w,
		height:      h,
		format:      format,
		mipLevels:   1,
		presentable: true,
		layout:      LayoutUndefined,
	}
}

// Width returns the image's width in texels.
func (i *Image) Width() uint32 { return i.width }

// Height returns the image's height in texels.
func (i *Image) Height() uint32 { return i.height }

// Format returns the image's pixel format.
func (i *Image) Format() PixelFormat { return i.format }

// MipLevels returns the number of mip levels in the image's mip chain.
func (i *Image) MipLevels() uint32 { return i.mipLevels }

// Presentable reports whether the image is owned by a Swapchain.
func (i *Image) Presentable() bool { return i.presentable }

// Handle returns the backend image handle.
func (i *Image) Handle() vk.Image { return i.handle }

// View returns the backend image view handle covering the whole mip chain.
func (i *Image) View() vk.ImageView { return i.view }

// Layout returns the image's currently tracked Vulkan layout.
func (i *Image) Layout() ImageLayout { return i.layout }

func (i *Image) setLayout(l ImageLayout) { i.layout = l }

// Close releases the image's device memory and view. Presentable
// images are owned by their Swapchain and must not be closed directly.
func (i *Image) Close() error {
	if i.presentable {
		return nil
	}
	i.device.DestroyImageView(i.view)
	if i.ownsMemory {
		i.device.FreeImage(i.handle, i.memory)
	}
	return nil
}
