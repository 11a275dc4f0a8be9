// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// Sampler is the backend sampler handle.
type Sampler = vulkan.Sampler

// SamplerFilter is a backend texel filter mode.
type SamplerFilter = vulkan.Filter

// SamplerWrapMode is a backend texture-coordinate wrap mode.
type SamplerWrapMode = vulkan.SamplerAddressMode

// Backend filter modes.
const (
	FilterNearest = vulkan.FILTER_NEAREST
	FilterLinear  = vulkan.FILTER_LINEAR
)

// Backend wrap modes.
const (
	WrapClampToEdge = vulkan.SAMPLER_ADDRESS_MODE_CLAMP_TO_EDGE
	WrapRepeat      = vulkan.SAMPLER_ADDRESS_MODE_REPEAT
	WrapMirror      = vulkan.SAMPLER_ADDRESS_MODE_MIRRORED_REPEAT
	WrapClampToOne  = vulkan.SAMPLER_ADDRESS_MODE_CLAMP_TO_BORDER
)

// SamplerConfig configures CreateSampler.
type SamplerConfig struct {
	MinFilter    SamplerFilter
	MagFilter    SamplerFilter
	MipmapFilter SamplerFilter
	WrapMode     SamplerWrapMode
}

// CreateSampler creates a sampler object.
func (d *Device) CreateSampler(cfg SamplerConfig) (Sampler, error) {
	mipmapMode := vulkan.SAMPLER_MIPMAP_MODE_NEAREST
	if cfg.MipmapFilter == FilterLinear {
		mipmapMode = vulkan.SAMPLER_MIPMAP_MODE_LINEAR
	}

	return d.handle.CreateSampler(&vulkan.SamplerCreateInfo{
		MinFilter:    cfg.MinFilter,
		MagFilter:    cfg.MagFilter,
		MipmapMode:   mipmapMode,
		AddressModeU: cfg.WrapMode,
		AddressModeV: cfg.WrapMode,
		AddressModeW: cfg.WrapMode,
		MaxLod:       vulkan.LOD_CLAMP_NONE,
	})
}

// DestroySampler destroys a sampler object.
func (d *Device) DestroySampler(s Sampler) { d.handle.DestroySampler(s) }
