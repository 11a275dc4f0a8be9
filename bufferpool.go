// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"sort"
	"sync"

	"github.com/kestrelgpu/coral/vk"
)

// stagingBuffer is a pool-owned, CPU-visible buffer handed out to
// exactly one borrower at a time. The pool's free list holds the
// buffers nobody currently holds; a buffer leaves the free list the
// moment it is returned by requestBuffer and re-enters it only
// through returnBuffers (§9's reshape away from the original's
// reference-counted "available when refcount==1" idiom: ownership
// passes explicitly instead).
type stagingBuffer struct {
	buffer *Buffer
}

// bufferPool is the transient staging-buffer pool described in §4.11:
// a size-sorted collection of CPU-visible buffers, checked out by
// CommandBuffer recording and returned by CommandQueue's reclamation
// worker once the submission that used them has completed on the GPU.
type bufferPool struct {
	mu      sync.Mutex
	device  *vk.Device
	free    []*stagingBuffer
}

func newBufferPool(device *vk.Device) *bufferPool {
	return &bufferPool{device: device}
}

// requestBuffer returns the smallest free buffer with size >= n,
// removing it from the pool, or allocates a fresh one if none
// qualifies. This implements the Open Question's resolved intent for
// BufferPool.cpp's find-but-don't-extract bug: use the found buffer.
func (p *bufferPool) requestBuffer(n int) (*Buffer, error) {
	p.mu.Lock()
	sort.Slice(p.free, func(i, j int) bool { return p.free[i].buffer.Size() < p.free[j].buffer.Size() })
	for i, sb := range p.free {
		if sb.buffer.Size() >= n {
			p.free = append(p.free[:i], p.free[i+1:]...)
			p.mu.Unlock()
			return sb.buffer, nil
		}
	}
	p.mu.Unlock()

	return newBuffer(p.device, BufferConfig{
		Size:       n,
		Type:       StorageBuffer,
		CPUVisible: true,
	})
}

// returnBuffers reinserts buffers into the pool's free list once their
// submission's fence has signaled.
func (p *bufferPool) returnBuffers(buffers []*Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range buffers {
		p.free = append(p.free, &stagingBuffer{buffer: b})
	}
}

// close releases every buffer still held by the pool's free list.
// Buffers checked out to in-flight submissions are not touched; the
// caller must have drained those first (CommandQueue.WaitIdle).
func (p *bufferPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sb := range p.free {
		sb.buffer.Close()
	}
	p.free = nil
}
