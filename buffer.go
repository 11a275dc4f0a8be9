// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// BufferType identifies what a Buffer's memory is used for.
type BufferType int

const (
	VertexBuffer BufferType = iota
	IndexBuffer
	UniformBuffer
	StorageBuffer
)

// BufferConfig configures Buffer creation.
type BufferConfig struct {
	Size       int
	Type       BufferType
	CPUVisible bool
}

// Buffer is a device memory allocation, optionally CPU-mapped.
type Buffer struct {
	device     *vk.Device
	handle     vk.Buffer
	memory     vk.DeviceMemory
	size       int
	typ        BufferType
	cpuVisible bool
	mapped     []byte
}

func newBuffer(device *vk.Device, cfg BufferConfig) (*Buffer, error) {
	if cfg.Size <= 0 {
		return nil, BufferErrInvalidSize
	}

	handle, memory, err := device.AllocateBuffer(vk.BufferAllocConfig{
		Size:       uint64(cfg.Size),
		Usage:      bufferUsage(cfg.Type),
		CPUVisible: cfg.CPUVisible,
	})
	if err != nil {
		if err == vk.ErrOutOfDeviceMemory || err == vk.ErrOutOfHostMemory {
			return nil, BufferErrOutOfMemory
		}
		return nil, BufferErrInternal
	}

	return &Buffer{
		device:     device,
		handle:     handle,
		memory:     memory,
		size:       cfg.Size,
		typ:        cfg.Type,
		cpuVisible: cfg.CPUVisible,
	}, nil
}

func bufferUsage(t BufferType) vk.BufferUsageFlags {
	switch t {
	case VertexBuffer:
		return vk.BufferUsageVertexBuffer | vk.BufferUsageTransferDst | vk.BufferUsageTransferSrc
	case IndexBuffer:
		return vk.BufferUsageIndexBuffer | vk.BufferUsageTransferDst | vk.BufferUsageTransferSrc
	case UniformBuffer:
		return vk.BufferUsageUniformBuffer | vk.BufferUsageTransferDst | vk.BufferUsageTransferSrc
	default:
		return vk.BufferUsageStorageBuffer | vk.BufferUsageTransferDst | vk.BufferUsageTransferSrc
	}
}

// Size returns the size of the buffer in bytes.
func (b *Buffer) Size() int { return b.size }

// Type returns the buffer's usage type.
func (b *Buffer) Type() BufferType { return b.typ }

// Handle returns the backend handle, for use by CommandBuffer and
// DescriptorSet when binding this buffer.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Map returns a CPU-visible view of the buffer's memory. It returns
// nil if the buffer was not created with CPUVisible set, or if it is
// already mapped.
func (b *Buffer) Map() []byte {
	if !b.cpuVisible || b.mapped != nil {
		return nil
	}
	data, err := b.device.MapMemory(b.memory, 0, uint64(b.size))
	if err != nil {
		return nil
	}
	b.mapped = data
	return data
}

// Unmap releases the mapping obtained from Map, flushing writes to
// device memory. Returns false if the buffer was not mapped.
func (b *Buffer) Unmap() bool {
	if b.mapped == nil {
		return false
	}
	b.device.UnmapMemory(b.memory)
	b.mapped = nil
	return true
}

// Close releases the buffer's device memory.
func (b *Buffer) Close() error {
	b.device.FreeBuffer(b.handle, b.memory)
	return nil
}
