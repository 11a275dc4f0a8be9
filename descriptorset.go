// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// DescriptorSetConfig configures DescriptorSet creation: the bindings
// to populate, each carrying the Descriptor value written at it.
type DescriptorSetConfig struct {
	Bindings []DescriptorBinding
}

// DescriptorSet binds buffers/images/samplers to a pipeline layout. It
// builds its own descriptor set layout from its bindings' types and
// allocates from the context-wide DescriptorSetPool (§4.8).
type DescriptorSet struct {
	device *vk.Device
	pool   *descriptorSetPool

	layout  vk.DescriptorSetLayout
	handle  vk.DescriptorSet
	binding map[uint32]DescriptorBinding
}

func newDescriptorSet(device *vk.Device, pool *descriptorSetPool, cfg DescriptorSetConfig) (*DescriptorSet, error) {
	layoutBindings := make([]vk.DescriptorSetLayoutBinding, len(cfg.Bindings))
	binding := make(map[uint32]DescriptorBinding, len(cfg.Bindings))
	for i, b := range cfg.Bindings {
		layoutBindings[i] = vk.DescriptorSetLayoutBinding{
			Binding: b.Binding,
			Type:    descriptorTypeOf(b.Descriptor),
			Count:   1,
		}
		binding[b.Binding] = b
	}

	layout, err := device.CreateDescriptorSetLayout(layoutBindings)
	if err != nil {
		return nil, ErrCreationInternal
	}

	handle, err := pool.allocate(layout)
	if err != nil {
		device.DestroyDescriptorSetLayout(layout)
		return nil, ErrCreationInternal
	}

	ds := &DescriptorSet{
		device:  device,
		pool:    pool,
		layout:  layout,
		handle:  handle,
		binding: binding,
	}
	ds.write()
	return ds, nil
}

func descriptorTypeOf(d Descriptor) vk.DescriptorType {
	switch v := d.(type) {
	case *Buffer:
		if v.Type() == StorageBuffer {
			return vk.DescriptorStorageBuffer
		}
		return vk.DescriptorUniformBuffer
	case *Sampler:
		return vk.DescriptorSampler
	case *Image:
		return vk.DescriptorSampledImage
	case CombinedTextureSampler:
		return vk.DescriptorCombinedImageSampler
	default:
		return vk.DescriptorUniformBuffer
	}
}

func (ds *DescriptorSet) write() {
	var buffers []vk.WriteDescriptorBuffer
	var images []vk.WriteDescriptorImage
	for binding, b := range ds.binding {
		switch v := b.Descriptor.(type) {
		case *Buffer:
			buffers = append(buffers, vk.WriteDescriptorBuffer{
				Binding: binding,
				Type:    descriptorTypeOf(v),
				Buffer:  v.Handle(),
				Offset:  0,
				Range:   uint64(v.Size()),
			})
		case *Sampler:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding,
				Type:    vk.DescriptorSampler,
				Sampler: v.Handle(),
			})
		case *Image:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding,
				Type:    vk.DescriptorSampledImage,
				View:    v.View(),
				Layout:  vkImageLayout(v.Layout()),
			})
		case CombinedTextureSampler:
			images = append(images, vk.WriteDescriptorImage{
				Binding: binding,
				Type:    vk.DescriptorCombinedImageSampler,
				View:    v.Texture.View(),
				Sampler: v.Sampler.Handle(),
				Layout:  vkImageLayout(v.Texture.Layout()),
			})
		}
	}
	ds.device.UpdateDescriptorSet(ds.handle, buffers, images)
}

// Layout returns the descriptor set's own layout (distinct from any
// PipelineState's unioned layout — callers bind a DescriptorSet
// against a pipeline whose per-binding types agree with it).
func (ds *DescriptorSet) Layout() vk.DescriptorSetLayout { return ds.layout }

// Handle returns the backend descriptor set handle.
func (ds *DescriptorSet) Handle() vk.DescriptorSet { return ds.handle }

// Close returns the set's memory to its backing pool and destroys its layout.
func (ds *DescriptorSet) Close() error {
	err := ds.pool.free(ds.handle)
	ds.device.DestroyDescriptorSetLayout(ds.layout)
	return err
}
