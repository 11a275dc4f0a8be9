// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// Image is the backend image handle.
type Image = vulkan.Image

// ImageView is the backend image view handle.
type ImageView = vulkan.ImageView

// Format is a backend pixel format.
type Format = vulkan.Format

// ImageAllocConfig configures AllocateImage.
type ImageAllocConfig struct {
	Width, Height uint32
	MipLevels     uint32
	Format        Format
	DepthStencil  bool
}

// AllocateImage creates a 2D image, binds freshly allocated
// device-local memory to it, and creates a view covering the whole
// mip chain, in a single step.
func (d *Device) AllocateImage(cfg ImageAllocConfig) (Image, ImageView, DeviceMemory, error) {
	usage := vulkan.IMAGE_USAGE_TRANSFER_SRC_BIT | vulkan.IMAGE_USAGE_TRANSFER_DST_BIT | vulkan.IMAGE_USAGE_SAMPLED_BIT
	aspect := vulkan.IMAGE_ASPECT_COLOR_BIT
	if cfg.DepthStencil {
		usage |= vulkan.IMAGE_USAGE_DEPTH_STENCIL_ATTACHMENT_BIT
		aspect = vulkan.IMAGE_ASPECT_DEPTH_BIT
	} else {
		usage |= vulkan.IMAGE_USAGE_COLOR_ATTACHMENT_BIT
	}

	img, err := d.handle.CreateImage(&vulkan.ImageCreateInfo{
		ImageType:   vulkan.IMAGE_TYPE_2D,
		Format:      cfg.Format,
		Extent:      vulkan.Extent3D{Width: cfg.Width, Height: cfg.Height, Depth: 1},
		MipLevels:   cfg.MipLevels,
		ArrayLayers: 1,
		Samples:     vulkan.SAMPLE_COUNT_1_BIT,
		Tiling:      vulkan.IMAGE_TILING_OPTIMAL,
		Usage:       usage,
		SharingMode: vulkan.SHARING_MODE_EXCLUSIVE,
	})
	if err != nil {
		return Image{}, ImageView{}, DeviceMemory{}, mapAllocError(err)
	}

	req := d.handle.GetImageMemoryRequirements(img)
	typeIndex, ok := d.findMemoryType(req.MemoryTypeBits, vulkan.MEMORY_PROPERTY_DEVICE_LOCAL_BIT)
	if !ok {
		d.handle.DestroyImage(img)
		return Image{}, ImageView{}, DeviceMemory{}, ErrOutOfDeviceMemory
	}

	mem, err := d.handle.AllocateMemory(&vulkan.MemoryAllocateInfo{
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		d.handle.DestroyImage(img)
		return Image{}, ImageView{}, DeviceMemory{}, mapAllocError(err)
	}

	if err := d.handle.BindImageMemory(img, mem, 0); err != nil {
		d.handle.FreeMemory(mem)
		d.handle.DestroyImage(img)
		return Image{}, ImageView{}, DeviceMemory{}, mapAllocError(err)
	}

	view, err := d.handle.CreateImageView(&vulkan.ImageViewCreateInfo{
		Image:    img,
		ViewType: vulkan.IMAGE_VIEW_TYPE_2D,
		Format:   cfg.Format,
		SubresourceRange: vulkan.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     cfg.MipLevels,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		d.handle.FreeMemory(mem)
		d.handle.DestroyImage(img)
		return Image{}, ImageView{}, DeviceMemory{}, mapAllocError(err)
	}

	return img, view, mem, nil
}

// DestroyImageView destroys an image view.
func (d *Device) DestroyImageView(view ImageView) { d.handle.DestroyImageView(view) }

// FreeImage destroys an image and frees its backing memory.
func (d *Device) FreeImage(img Image, mem DeviceMemory) {
	d.handle.DestroyImage(img)
	d.handle.FreeMemory(mem)
}
