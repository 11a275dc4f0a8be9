// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// Filter selects how texels are combined when sampling between texels
// or between mip levels.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// WrapMode selects how texture coordinates outside [0,1] are resolved.
type WrapMode int

const (
	ClampToEdge WrapMode = iota
	Repeat
	Mirror
	WrapOne
	WrapZero
)

// SamplerConfig configures Sampler creation.
type SamplerConfig struct {
	MinFilter    Filter
	MagFilter    Filter
	MipmapFilter Filter
	WrapMode     WrapMode
}

// Sampler describes how an Image is sampled in a shader.
type Sampler struct {
	device       *vk.Device
	handle       vk.Sampler
	minFilter    Filter
	magFilter    Filter
	mipmapFilter Filter
	wrapMode     WrapMode
}

func newSampler(device *vk.Device, cfg SamplerConfig) (*Sampler, error) {
	handle, err := device.CreateSampler(vk.SamplerConfig{
		MinFilter:    vkFilter(cfg.MinFilter),
		MagFilter:    vkFilter(cfg.MagFilter),
		MipmapFilter: vkFilter(cfg.MipmapFilter),
		WrapMode:     vkWrapMode(cfg.WrapMode),
	})
	if err != nil {
		return nil, ErrCreationInternal
	}

	return &Sampler{
		device:       device,
		handle:       handle,
		minFilter:    cfg.MinFilter,
		magFilter:    cfg.MagFilter,
		mipmapFilter: cfg.MipmapFilter,
		wrapMode:     cfg.WrapMode,
	}, nil
}

func (s *Sampler) MinFilter() Filter    { return s.minFilter }
func (s *Sampler) MagFilter() Filter    { return s.magFilter }
func (s *Sampler) MipmapFilter() Filter { return s.mipmapFilter }
func (s *Sampler) WrapMode() WrapMode   { return s.wrapMode }

// Handle returns the backend sampler handle.
func (s *Sampler) Handle() vk.Sampler { return s.handle }

// Close destroys the backend sampler object.
func (s *Sampler) Close() error {
	s.device.DestroySampler(s.handle)
	return nil
}
