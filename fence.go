// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"time"

	"github.com/kestrelgpu/coral/vk"
)

// FenceConfig configures Fence creation.
type FenceConfig struct {
	// Signaled requests that the fence start in the signaled state.
	Signaled bool
}

// Fence is a host-waitable, resettable binary synchronization
// primitive signaled by GPU completion.
type Fence struct {
	device *vk.Device
	handle vk.Fence
}

func newFence(device *vk.Device, cfg FenceConfig) (*Fence, error) {
	handle, err := device.CreateFence(cfg.Signaled)
	if err != nil {
		return nil, ErrCreationInternal
	}
	return &Fence{device: device, handle: handle}, nil
}

// Handle returns the backend fence handle.
func (f *Fence) Handle() vk.Fence { return f.handle }

// Wait blocks the calling goroutine until the fence is signaled. A
// zero timeout waits indefinitely, matching §5's "unbounded timeout"
// default for Fence::wait.
func (f *Fence) Wait(timeout time.Duration) error {
	nanos := ^uint64(0)
	if timeout > 0 {
		nanos = uint64(timeout.Nanoseconds())
	}
	return f.device.WaitForFence(f.handle, nanos)
}

// Reset returns the fence to the unsignaled state.
func (f *Fence) Reset() error { return f.device.ResetFence(f.handle) }

// Signaled reports whether the fence is currently signaled, without blocking.
func (f *Fence) Signaled() (bool, error) { return f.device.FenceSignaled(f.handle) }

// Close destroys the backend fence object.
func (f *Fence) Close() error {
	f.device.DestroyFence(f.handle)
	return nil
}
