// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// SubmitInfo describes one batch of command buffers to submit, with
// the semaphores that gate and signal it.
type SubmitInfo struct {
	Wait       []Semaphore
	WaitStages []PipelineStageFlags
	Buffers    []CommandBuffer
	Signal     []Semaphore
}

// Submit submits one or more command-buffer batches to the given
// queue role, signaling fence (if non-zero) on completion of the
// whole batch set.
func (d *Device) Submit(role QueueRole, infos []SubmitInfo, fence Fence) error {
	vkInfos := make([]vulkan.SubmitInfo, len(infos))
	for i, in := range infos {
		stages := in.WaitStages
		if len(stages) == 0 && len(in.Wait) > 0 {
			stages = make([]PipelineStageFlags, len(in.Wait))
			for j := range stages {
				stages[j] = StageAllCommands
			}
		}
		vkInfos[i] = vulkan.SubmitInfo{
			WaitSemaphores:   in.Wait,
			WaitDstStageMask: stages,
			CommandBuffers:   in.Buffers,
			SignalSemaphores: in.Signal,
		}
	}
	return d.queues[role].Submit(vkInfos, fence)
}

// PresentInfo describes a present call: the images to present, gated
// on the given semaphores.
type PresentInfo struct {
	Wait         []Semaphore
	Swapchains   []Swapchain
	ImageIndices []uint32
}

// Present issues a present call on the graphics queue (the only role
// the KHR_swapchain extension is enabled against).
func (d *Device) Present(info PresentInfo) error {
	return d.queue.PresentKHR(&vulkan.PresentInfoKHR{
		WaitSemaphores: info.Wait,
		Swapchains:     info.Swapchains,
		ImageIndices:   info.ImageIndices,
	})
}

// QueueWaitIdle blocks until the given queue role has no outstanding work.
func (d *Device) QueueWaitIdle(role QueueRole) error { return d.queues[role].WaitIdle() }
