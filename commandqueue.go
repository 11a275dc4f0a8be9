// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"log"
	"sync"

	"github.com/kestrelgpu/coral/vk"
)

// CommandBufferSubmitInfo describes one CommandQueue.Submit call: the
// recorded, Executable-state buffers to submit together, and the
// semaphores that gate and signal the batch (§4.10).
type CommandBufferSubmitInfo struct {
	Buffers []*CommandBuffer
	Wait    []*Semaphore
	Signal  []*Semaphore
}

type releaseTask struct {
	fence   vk.Fence
	owned   bool
	buffers []*Buffer
}

// CommandQueue allocates CommandBuffers and submits them to a single
// Vulkan queue role. Submissions that touched the transient staging
// pool hand their borrowed buffers to a single long-running
// reclamation worker that waits on the submission's fence and returns
// them once the GPU is done — replacing the original's fire-and-forget
// per-submission release task with one goroutine draining a channel,
// so WaitIdle has something concrete to block on (§9 DESIGN NOTES).
type CommandQueue struct {
	device      *vk.Device
	role        vk.QueueRole
	stagingPool *bufferPool

	mu   sync.Mutex
	pool vk.CommandPool

	release    chan releaseTask
	reclaiming sync.WaitGroup
	workerDone chan struct{}
}

func newCommandQueue(device *vk.Device, role vk.QueueRole, queueFamily uint32, staging *bufferPool) (*CommandQueue, error) {
	pool, err := device.CreateCommandPool(queueFamily)
	if err != nil {
		return nil, ErrCreationInternal
	}

	q := &CommandQueue{
		device:      device,
		role:        role,
		stagingPool: staging,
		pool:        pool,
		release:     make(chan releaseTask, 64),
		workerDone:  make(chan struct{}),
	}
	go q.reclaimLoop()
	return q, nil
}

func (q *CommandQueue) reclaimLoop() {
	defer close(q.workerDone)
	for task := range q.release {
		if err := q.device.WaitForFence(task.fence, ^uint64(0)); err != nil {
			log.Printf("coral: staging buffer reclamation: wait for fence: %v", err)
		}
		q.stagingPool.returnBuffers(task.buffers)
		if task.owned {
			q.device.DestroyFence(task.fence)
		}
		q.reclaiming.Done()
	}
}

// CreateCommandBuffer allocates a new primary command buffer from the
// queue's command pool.
func (q *CommandQueue) CreateCommandBuffer() (*CommandBuffer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return newCommandBuffer(q.device, q, q.pool)
}

// Submit submits one batch of Executable-state command buffers. If
// fence is nil but any of the buffers borrowed staging buffers, an
// internal fence is created to track their reclamation and destroyed
// once they are returned to the pool.
func (q *CommandQueue) Submit(info CommandBufferSubmitInfo, fence *Fence) error {
	handles := make([]vk.CommandBuffer, len(info.Buffers))
	var staging []*Buffer
	for i, cb := range info.Buffers {
		if cb.state != CmdExecutable {
			return ErrInternal
		}
		handles[i] = cb.handle
		staging = append(staging, cb.takeStaging()...)
	}

	wait := make([]vk.Semaphore, len(info.Wait))
	for i, s := range info.Wait {
		wait[i] = s.Handle()
	}
	signal := make([]vk.Semaphore, len(info.Signal))
	for i, s := range info.Signal {
		signal[i] = s.Handle()
	}

	var fenceHandle vk.Fence
	owned := false
	if fence != nil {
		fenceHandle = fence.Handle()
	} else if len(staging) > 0 {
		var err error
		fenceHandle, err = q.device.CreateFence(false)
		if err != nil {
			return err
		}
		owned = true
	}

	err := q.device.Submit(q.role, []vk.SubmitInfo{
		{Wait: wait, Buffers: handles, Signal: signal},
	}, fenceHandle)
	if err != nil {
		if owned {
			q.device.DestroyFence(fenceHandle)
		}
		return err
	}

	for _, cb := range info.Buffers {
		cb.state = CmdPending
	}

	if len(staging) > 0 {
		q.reclaiming.Add(1)
		q.release <- releaseTask{fence: fenceHandle, owned: owned, buffers: staging}
	}
	return nil
}

// Present issues a present call on the device's graphics queue,
// whichever role this CommandQueue has, waiting on wait and presenting
// imageIndex of swapchain.
func (q *CommandQueue) Present(wait []*Semaphore, swapchain vk.Swapchain, imageIndex uint32) error {
	waits := make([]vk.Semaphore, len(wait))
	for i, s := range wait {
		waits[i] = s.Handle()
	}
	return q.device.Present(vk.PresentInfo{
		Wait:         waits,
		Swapchains:   []vk.Swapchain{swapchain},
		ImageIndices: []uint32{imageIndex},
	})
}

// WaitIdle blocks until the underlying Vulkan queue has no
// outstanding work and every in-flight staging buffer has been
// reclaimed.
func (q *CommandQueue) WaitIdle() error {
	if err := q.device.QueueWaitIdle(q.role); err != nil {
		return err
	}
	q.reclaiming.Wait()
	return nil
}

// Close waits for outstanding work to finish, stops the reclamation
// worker, and destroys the queue's command pool.
func (q *CommandQueue) Close() error {
	if err := q.WaitIdle(); err != nil {
		return err
	}
	close(q.release)
	<-q.workerDone
	q.device.DestroyCommandPool(q.pool)
	return nil
}
