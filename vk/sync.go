// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// Fence is the backend host-waitable sync primitive.
type Fence = vulkan.Fence

// Semaphore is the backend GPU-to-GPU sync primitive.
type Semaphore = vulkan.Semaphore

// CreateFence creates a fence, optionally pre-signaled.
func (d *Device) CreateFence(signaled bool) (Fence, error) {
	var flags vulkan.FenceCreateFlags
	if signaled {
		flags = vulkan.FENCE_CREATE_SIGNALED_BIT
	}
	return d.handle.CreateFence(&vulkan.FenceCreateInfo{Flags: flags})
}

// DestroyFence destroys a fence.
func (d *Device) DestroyFence(f Fence) { d.handle.DestroyFence(f) }

// WaitForFence blocks until f is signaled or timeoutNanos elapses.
// timeoutNanos of ^uint64(0) waits indefinitely.
func (d *Device) WaitForFence(f Fence, timeoutNanos uint64) error {
	return d.handle.WaitForFences([]vulkan.Fence{f}, true, timeoutNanos)
}

// ResetFence returns f to the unsignaled state.
func (d *Device) ResetFence(f Fence) error {
	return d.handle.ResetFences([]vulkan.Fence{f})
}

// FenceSignaled reports whether f is currently signaled, without blocking.
func (d *Device) FenceSignaled(f Fence) (bool, error) {
	return d.handle.GetFenceStatus(f)
}

// CreateSemaphore creates a binary semaphore.
func (d *Device) CreateSemaphore() (Semaphore, error) {
	return d.handle.CreateSemaphore(&vulkan.SemaphoreCreateInfo{})
}

// DestroySemaphore destroys a semaphore.
func (d *Device) DestroySemaphore(s Semaphore) { d.handle.DestroySemaphore(s) }
