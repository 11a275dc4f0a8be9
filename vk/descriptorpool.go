// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// DescriptorPool is a backend descriptor-set allocator.
type DescriptorPool = vulkan.DescriptorPool

// DescriptorSet is a backend allocated descriptor set.
type DescriptorSet = vulkan.DescriptorSet

// DescriptorSetLayout is a backend descriptor-set layout.
type DescriptorSetLayout = vulkan.DescriptorSetLayout

// DescriptorType selects what kind of resource a binding describes.
type DescriptorType = vulkan.DescriptorType

// Descriptor types coral's DescriptorSetPool accounts for.
const (
	DescriptorUniformBuffer        = vulkan.DESCRIPTOR_TYPE_UNIFORM_BUFFER
	DescriptorStorageBuffer        = vulkan.DESCRIPTOR_TYPE_STORAGE_BUFFER
	DescriptorSampledImage         = vulkan.DESCRIPTOR_TYPE_SAMPLED_IMAGE
	DescriptorSampler              = vulkan.DESCRIPTOR_TYPE_SAMPLER
	DescriptorCombinedImageSampler = vulkan.DESCRIPTOR_TYPE_COMBINED_IMAGE_SAMPLER
)

// DescriptorPoolSize pairs a descriptor type with how many of them a
// backing pool must be able to allocate.
type DescriptorPoolSize struct {
	Type  DescriptorType
	Count uint32
}

// CreateDescriptorPool creates a backing pool able to allocate maxSets
// sets drawing from the given per-type budgets.
func (d *Device) CreateDescriptorPool(maxSets uint32, sizes []DescriptorPoolSize) (DescriptorPool, error) {
	vkSizes := make([]vulkan.DescriptorPoolSize, len(sizes))
	for i, s := range sizes {
		vkSizes[i] = vulkan.DescriptorPoolSize{Type: s.Type, DescriptorCount: s.Count}
	}
	return d.handle.CreateDescriptorPool(&vulkan.DescriptorPoolCreateInfo{
		Flags:   vulkan.DESCRIPTOR_POOL_CREATE_FREE_DESCRIPTOR_SET_BIT,
		MaxSets: maxSets,
		PoolSizes: vkSizes,
	})
}

// DestroyDescriptorPool destroys a backing pool and every set
// allocated from it.
func (d *Device) DestroyDescriptorPool(p DescriptorPool) { d.handle.DestroyDescriptorPool(p) }

// AllocateDescriptorSet allocates a single set matching layout from pool.
func (d *Device) AllocateDescriptorSet(pool DescriptorPool, layout DescriptorSetLayout) (DescriptorSet, error) {
	sets, err := d.handle.AllocateDescriptorSets(&vulkan.DescriptorSetAllocateInfo{
		DescriptorPool: pool,
		SetLayouts:     []vulkan.DescriptorSetLayout{layout},
	})
	if err != nil {
		return DescriptorSet{}, err
	}
	return sets[0], nil
}

// IsOutOfPoolMemory reports whether err is the specific allocation
// failure that should trigger DescriptorSetPool's pool-growth policy
// (§4.8): VK_ERROR_OUT_OF_POOL_MEMORY or VK_ERROR_FRAGMENTED_POOL.
func IsOutOfPoolMemory(err error) bool {
	return err == vulkan.ErrOutOfPoolMemory || err == vulkan.ErrFragmentedPool
}

// FreeDescriptorSet returns a set's memory to its backing pool.
func (d *Device) FreeDescriptorSet(pool DescriptorPool, set DescriptorSet) error {
	return d.handle.FreeDescriptorSets(pool, []vulkan.DescriptorSet{set})
}

// DescriptorSetLayoutBinding describes one binding slot of a
// DescriptorSetLayout.
type DescriptorSetLayoutBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
}

// CreateDescriptorSetLayout creates a descriptor set layout visible to
// every graphics stage (coral's single-descriptor-set pipeline layout
// model, §4.7).
func (d *Device) CreateDescriptorSetLayout(bindings []DescriptorSetLayoutBinding) (DescriptorSetLayout, error) {
	vkBindings := make([]vulkan.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		n := b.Count
		if n == 0 {
			n = 1
		}
		vkBindings[i] = vulkan.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  b.Type,
			DescriptorCount: n,
			StageFlags:      vulkan.SHADER_STAGE_ALL_GRAPHICS,
		}
	}
	return d.handle.CreateDescriptorSetLayout(&vulkan.DescriptorSetLayoutCreateInfo{
		Flags:    vulkan.DESCRIPTOR_SET_LAYOUT_CREATE_PUSH_DESCRIPTOR_BIT_KHR,
		Bindings: vkBindings,
	})
}

// DestroyDescriptorSetLayout destroys a descriptor set layout.
func (d *Device) DestroyDescriptorSetLayout(l DescriptorSetLayout) {
	d.handle.DestroyDescriptorSetLayout(l)
}

// WriteDescriptorBuffer describes a single buffer descriptor write,
// used both by DescriptorSet.write and by CommandBuffer's push
// descriptors.
type WriteDescriptorBuffer struct {
	Binding uint32
	Type    DescriptorType
	Buffer  Buffer
	Offset  uint64
	Range   uint64
}

// WriteDescriptorImage describes a single image/sampler/combined
// descriptor write.
type WriteDescriptorImage struct {
	Binding uint32
	Type    DescriptorType
	View    ImageView
	Sampler Sampler
	Layout  ImageLayout
}

// UpdateDescriptorSet writes buffer and image descriptors into an
// already-allocated set.
func (d *Device) UpdateDescriptorSet(set DescriptorSet, buffers []WriteDescriptorBuffer, images []WriteDescriptorImage) {
	writes := make([]vulkan.WriteDescriptorSet, 0, len(buffers)+len(images))
	for _, b := range buffers {
		writes = append(writes, vulkan.WriteDescriptorSet{
			DstSet:          set,
			DstBinding:      b.Binding,
			DescriptorCount: 1,
			DescriptorType:  b.Type,
			BufferInfo: []vulkan.DescriptorBufferInfo{
				{Buffer: b.Buffer, Offset: b.Offset, Range: b.Range},
			},
		})
	}
	for _, im := range images {
		writes = append(writes, vulkan.WriteDescriptorSet{
			DstSet:          set,
			DstBinding:      im.Binding,
			DescriptorCount: 1,
			DescriptorType:  im.Type,
			ImageInfo: []vulkan.DescriptorImageInfo{
				{ImageView: im.View, Sampler: im.Sampler, ImageLayout: im.Layout},
			},
		})
	}
	d.handle.UpdateDescriptorSets(writes, nil)
}

// PushDescriptorSet binds descriptors directly into the command
// stream without a persistent DescriptorSet allocation, backing
// CommandBuffer's bind_descriptor/draw-time push (§4.9).
func PushDescriptorSet(cb CommandBuffer, layout PipelineLayout, buffers []WriteDescriptorBuffer, images []WriteDescriptorImage) {
	writes := make([]vulkan.WriteDescriptorSet, 0, len(buffers)+len(images))
	for _, b := range buffers {
		writes = append(writes, vulkan.WriteDescriptorSet{
			DstBinding:      b.Binding,
			DescriptorCount: 1,
			DescriptorType:  b.Type,
			BufferInfo: []vulkan.DescriptorBufferInfo{
				{Buffer: b.Buffer, Offset: b.Offset, Range: b.Range},
			},
		})
	}
	for _, im := range images {
		writes = append(writes, vulkan.WriteDescriptorSet{
			DstBinding:      im.Binding,
			DescriptorCount: 1,
			DescriptorType:  im.Type,
			ImageInfo: []vulkan.DescriptorImageInfo{
				{ImageView: im.View, Sampler: im.Sampler, ImageLayout: im.Layout},
			},
		})
	}
	cb.PushDescriptorSetKHR(vulkan.PIPELINE_BIND_POINT_GRAPHICS, layout, 0, writes)
}
