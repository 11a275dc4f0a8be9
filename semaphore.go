// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// Semaphore is a binary GPU-to-GPU synchronization primitive: a
// submission's signal semaphores must appear as a later submission's
// or present's wait semaphores for that later work to proceed (§5).
type Semaphore struct {
	device *vk.Device
	handle vk.Semaphore
}

func newSemaphore(device *vk.Device) (*Semaphore, error) {
	handle, err := device.CreateSemaphore()
	if err != nil {
		return nil, ErrCreationInternal
	}
	return &Semaphore{device: device, handle: handle}, nil
}

// Handle returns the backend semaphore handle.
func (s *Semaphore) Handle() vk.Semaphore { return s.handle }

// Close destroys the backend semaphore object.
func (s *Semaphore) Close() error {
	s.device.DestroySemaphore(s.handle)
	return nil
}
