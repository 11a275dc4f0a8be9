// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// Buffer is the backend buffer handle.
type Buffer = vulkan.Buffer

// DeviceMemory is a backing memory allocation, shared by Buffer and Image.
type DeviceMemory = vulkan.DeviceMemory

// BufferUsageFlags selects what a buffer may be used for.
type BufferUsageFlags = vulkan.BufferUsageFlags

// Buffer usage flags, forwarded from vulkango.
const (
	BufferUsageVertexBuffer  = vulkan.BUFFER_USAGE_VERTEX_BUFFER_BIT
	BufferUsageIndexBuffer   = vulkan.BUFFER_USAGE_INDEX_BUFFER_BIT
	BufferUsageUniformBuffer = vulkan.BUFFER_USAGE_UNIFORM_BUFFER_BIT
	BufferUsageStorageBuffer = vulkan.BUFFER_USAGE_STORAGE_BUFFER_BIT
	BufferUsageTransferSrc   = vulkan.BUFFER_USAGE_TRANSFER_SRC_BIT
	BufferUsageTransferDst   = vulkan.BUFFER_USAGE_TRANSFER_DST_BIT
)

// BufferAllocConfig configures AllocateBuffer.
type BufferAllocConfig struct {
	Size       uint64
	Usage      BufferUsageFlags
	CPUVisible bool
}

// AllocateBuffer creates a buffer and binds freshly allocated device
// memory to it in a single step, mirroring driver/vk's bundling of
// vkCreateBuffer+vkAllocateMemory+vkBindBufferMemory into one call.
func (d *Device) AllocateBuffer(cfg BufferAllocConfig) (Buffer, DeviceMemory, error) {
	buf, err := d.handle.CreateBuffer(&vulkan.BufferCreateInfo{
		Size:        cfg.Size,
		Usage:       cfg.Usage,
		SharingMode: vulkan.SHARING_MODE_EXCLUSIVE,
	})
	if err != nil {
		return Buffer{}, DeviceMemory{}, mapAllocError(err)
	}

	req := d.handle.GetBufferMemoryRequirements(buf)

	props := vulkan.MEMORY_PROPERTY_DEVICE_LOCAL_BIT
	if cfg.CPUVisible {
		props = vulkan.MEMORY_PROPERTY_HOST_VISIBLE_BIT | vulkan.MEMORY_PROPERTY_HOST_COHERENT_BIT
	}
	typeIndex, ok := d.findMemoryType(req.MemoryTypeBits, props)
	if !ok {
		d.handle.DestroyBuffer(buf)
		return Buffer{}, DeviceMemory{}, ErrOutOfDeviceMemory
	}

	mem, err := d.handle.AllocateMemory(&vulkan.MemoryAllocateInfo{
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		d.handle.DestroyBuffer(buf)
		return Buffer{}, DeviceMemory{}, mapAllocError(err)
	}

	if err := d.handle.BindBufferMemory(buf, mem, 0); err != nil {
		d.handle.FreeMemory(mem)
		d.handle.DestroyBuffer(buf)
		return Buffer{}, DeviceMemory{}, mapAllocError(err)
	}

	return buf, mem, nil
}

// MapMemory maps a range of device memory for CPU access.
func (d *Device) MapMemory(mem DeviceMemory, offset, size uint64) ([]byte, error) {
	return d.handle.MapMemory(mem, offset, size)
}

// UnmapMemory unmaps memory previously mapped with MapMemory.
func (d *Device) UnmapMemory(mem DeviceMemory) { d.handle.UnmapMemory(mem) }

// FreeBuffer destroys a buffer and frees its backing memory.
func (d *Device) FreeBuffer(buf Buffer, mem DeviceMemory) {
	d.handle.DestroyBuffer(buf)
	d.handle.FreeMemory(mem)
}

func mapAllocError(err error) error {
	switch err {
	case vulkan.ErrOutOfDeviceMemory:
		return ErrOutOfDeviceMemory
	case vulkan.ErrOutOfHostMemory:
		return ErrOutOfHostMemory
	default:
		return err
	}
}
