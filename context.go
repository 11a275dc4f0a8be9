// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// ContextConfig configures Context creation.
type ContextConfig struct {
	// ApplicationName is forwarded to the Vulkan instance for
	// diagnostic purposes (driver logs, validation messages).
	ApplicationName string
	// EnableValidation is copied into the vk.DeviceConfig passed to
	// vk.NewDevice; instance creation does not read it, so no
	// validation layer is enabled by it.
	EnableValidation bool
	// DescriptorPool tunes the context-wide descriptor-set pool's
	// initial capacity. The zero value uses defaultPoolCapacity.
	DescriptorPool DescriptorSetPoolConfig
}

// Context owns the Vulkan instance/device, the three logical queues,
// the transient staging-buffer pool and the shared descriptor-set
// pool. Every other Coral type is created through one of its factory
// methods and is only valid for the lifetime of the Context that made
// it (§4.13).
type Context struct {
	device *vk.Device

	queues [3]*CommandQueue

	staging     *bufferPool
	descriptors *descriptorSetPool
}

// NewContext creates a Vulkan 1.3 instance and device, selects the
// graphics/compute/transfer queues (aliased down per §4.13 when the
// device exposes fewer than three), and initializes the context-wide
// staging-buffer and descriptor-set pools.
func NewContext(cfg ContextConfig) (*Context, error) {
	device, err := vk.NewDevice(vk.DeviceConfig{
		ApplicationName:  cfg.ApplicationName,
		EnableValidation: cfg.EnableValidation,
	})
	if err != nil {
		return nil, ErrCreationInternal
	}

	ctx := &Context{
		device:      device,
		staging:     newBufferPool(device),
		descriptors: newDescriptorSetPool(device, cfg.DescriptorPool),
	}

	for _, role := range [3]vk.QueueRole{vk.RoleGraphics, vk.RoleCompute, vk.RoleTransfer} {
		q, err := newCommandQueue(device, role, device.QueueFamily(), ctx.staging)
		if err != nil {
			ctx.closeQueues()
			device.Close()
			return nil, err
		}
		ctx.queues[role] = q
	}

	return ctx, nil
}

func (c *Context) closeQueues() {
	for _, q := range c.queues {
		if q != nil {
			q.Close()
		}
	}
}

// GraphicsQueue returns the context's graphics-capable CommandQueue.
func (c *Context) GraphicsQueue() *CommandQueue { return c.queues[vk.RoleGraphics] }

// ComputeQueue returns the context's compute-capable CommandQueue, which
// may be the same queue as GraphicsQueue on devices with fewer than
// three hardware queues.
func (c *Context) ComputeQueue() *CommandQueue { return c.queues[vk.RoleCompute] }

// TransferQueue returns the context's transfer-only CommandQueue, which
// may alias GraphicsQueue/ComputeQueue on devices with fewer queues.
func (c *Context) TransferQueue() *CommandQueue { return c.queues[vk.RoleTransfer] }

// NewBuffer creates a device buffer.
func (c *Context) NewBuffer(cfg BufferConfig) (*Buffer, error) { return newBuffer(c.device, cfg) }

// NewBufferView creates a structured view over a Buffer's data.
func (c *Context) NewBufferView(cfg BufferViewConfig) (*BufferView, error) { return newBufferView(cfg) }

// NewImage creates a device image.
func (c *Context) NewImage(cfg ImageConfig) (*Image, error) { return newImage(c.device, cfg) }

// NewSampler creates a texture sampler.
func (c *Context) NewSampler(cfg SamplerConfig) (*Sampler, error) { return newSampler(c.device, cfg) }

// NewFramebuffer groups color/depth Images into a render target.
func (c *Context) NewFramebuffer(cfg FramebufferConfig) (*Framebuffer, error) { return newFramebuffer(cfg) }

// NewShaderModule creates a ShaderModule from already-compiled SPIR-V
// byte code and reflects its input/output/descriptor layout.
func (c *Context) NewShaderModule(cfg ShaderModuleConfig) (*ShaderModule, error) {
	return newShaderModule(c.device, cfg)
}

// NewPipelineState compiles a graphics pipeline from a vertex/fragment
// ShaderModule pair and fixed-function state.
func (c *Context) NewPipelineState(cfg PipelineStateConfig) (*PipelineState, error) {
	return newPipelineState(c.device, cfg)
}

// NewDescriptorSet allocates and populates a descriptor set from the
// context-wide descriptor-set pool.
func (c *Context) NewDescriptorSet(cfg DescriptorSetConfig) (*DescriptorSet, error) {
	return newDescriptorSet(c.device, c.descriptors, cfg)
}

// NewFence creates a host-waitable fence.
func (c *Context) NewFence(cfg FenceConfig) (*Fence, error) { return newFence(c.device, cfg) }

// NewSemaphore creates a GPU-to-GPU binary semaphore.
func (c *Context) NewSemaphore() (*Semaphore, error) { return newSemaphore(c.device) }

// NewSwapchain creates a presentation swapchain bound to window.
func (c *Context) NewSwapchain(cfg SwapchainConfig) (*Swapchain, error) { return newSwapchain(c, cfg) }

// WaitIdle blocks until every queue in the context has no outstanding
// work and all in-flight staging buffers have been reclaimed.
func (c *Context) WaitIdle() error {
	for _, q := range c.queues {
		if err := q.WaitIdle(); err != nil {
			return err
		}
	}
	return nil
}

// Close waits for outstanding work to finish and releases the
// context's queues, pools, device and instance. Resources created
// through the context's factory methods must already be closed.
func (c *Context) Close() error {
	c.closeQueues()
	c.descriptors.close()
	c.staging.close()
	return c.device.Close()
}
