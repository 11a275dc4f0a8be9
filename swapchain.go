// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/kestrelgpu/coral/vk"
)

// maxAcquireRetries bounds the OUT_OF_DATE recreate-and-retry loop in
// AcquireNextSwapchainImage, replacing the original's unbounded
// recursion with an iterative loop that gives up deterministically
// (§9 REDESIGN FLAGS).
const maxAcquireRetries = 4

// SwapchainConfig configures Swapchain creation.
type SwapchainConfig struct {
	Window      *glfw.Window
	Format      PixelFormat
	Width       uint32
	Height      uint32
	ImageCount  uint32
	LockToVSync bool
	WithDepth   bool
	DepthFormat PixelFormat
}

type swapchainImage struct {
	image       *Image
	depth       *Image
	framebuffer *Framebuffer
	acquired    *Semaphore
	ready       *Semaphore
	presentable *Semaphore
}

// Swapchain owns a platform presentation surface and the ring of
// presentable images, per-image Framebuffers and synchronization
// objects described in §4.12.
type Swapchain struct {
	ctx    *Context
	window *glfw.Window
	surface vk.Surface
	handle vk.Swapchain

	format PixelFormat
	extent vk.Extent2D

	images []swapchainImage

	cfg SwapchainConfig
}

func newSwapchain(ctx *Context, cfg SwapchainConfig) (*Swapchain, error) {
	surface, err := ctx.device.CreateSurface(cfg.Window)
	if err != nil {
		return nil, ErrCreationInternal
	}

	s := &Swapchain{ctx: ctx, window: cfg.Window, surface: surface, cfg: cfg}
	if err := s.create(vk.Swapchain{}); err != nil {
		ctx.device.DestroySurface(surface)
		return nil, err
	}
	return s, nil
}

// create (re)builds the backend swapchain, presentable Images,
// per-image depth Images and Framebuffers, and sync objects. Passing a
// non-zero old swapchain reuses it per §4.12's recreation path.
func (s *Swapchain) create(old vk.Swapchain) error {
	handle, format, extent, err := s.ctx.device.CreateSwapchain(vk.SwapchainConfig{
		Surface:      s.surface,
		Format:       vkFormat(s.cfg.Format),
		Width:        s.cfg.Width,
		Height:       s.cfg.Height,
		ImageCount:   s.cfg.ImageCount,
		LockToVSync:  s.cfg.LockToVSync,
		OldSwapchain: old,
	})
	if err != nil {
		return ErrCreationInternal
	}

	rawImages, err := s.ctx.device.SwapchainImages(handle)
	if err != nil {
		return ErrCreationInternal
	}
	views, err := s.ctx.device.CreateSwapchainImageViews(rawImages, format)
	if err != nil {
		return ErrCreationInternal
	}

	images := make([]swapchainImage, len(rawImages))
	for i := range rawImages {
		img := wrapPresentableImage(s.ctx.device, rawImages[i], views[i], s.cfg.Format, extent.Width, extent.Height)

		var depth *Image
		var depthAttachment *DepthAttachment
		if s.cfg.WithDepth {
			depth, err = newImage(s.ctx.device, ImageConfig{
				Width: extent.Width, Height: extent.Height,
				Format: s.cfg.DepthFormat, UsageHint: FramebufferAttachment,
			})
			if err != nil {
				return err
			}
			depthAttachment = &DepthAttachment{Image: depth}
		}

		fb, err := newFramebuffer(FramebufferConfig{
			ColorAttachments: []ColorAttachment{{Attachment: 0, Image: img}},
			DepthAttachment:  depthAttachment,
		})
		if err != nil {
			return err
		}

		acquired, err := newSemaphore(s.ctx.device)
		if err != nil {
			return err
		}
		ready, err := newSemaphore(s.ctx.device)
		if err != nil {
			return err
		}
		presentable, err := newSemaphore(s.ctx.device)
		if err != nil {
			return err
		}

		images[i] = swapchainImage{
			image: img, depth: depth, framebuffer: fb,
			acquired: acquired, ready: ready, presentable: presentable,
		}
	}

	s.handle = handle
	s.format = s.cfg.Format
	s.extent = extent
	s.images = images
	return nil
}

func (s *Swapchain) destroyImages() {
	for _, si := range s.images {
		si.acquired.Close()
		si.ready.Close()
		si.presentable.Close()
		if si.depth != nil {
			si.depth.Close()
		}
	}
	s.images = nil
}

// Recreate tears down the current per-image resources and rebuilds the
// swapchain against the surface's current size (e.g. after a window
// resize or an OUT_OF_DATE acquire/present result).
func (s *Swapchain) Recreate() error {
	old := s.handle
	s.destroyImages()
	if err := s.create(old); err != nil {
		return err
	}
	return nil
}

// AcquireNextSwapchainImage acquires the next presentable image and
// records + submits the UNDEFINED/PRESENT_SRC -> COLOR_ATTACHMENT_OPTIMAL
// transition needed before it can be rendered to. On OUT_OF_DATE it
// recreates the swapchain and retries, bounded by maxAcquireRetries
// (§9 REDESIGN FLAGS).
func (s *Swapchain) AcquireNextSwapchainImage(queue *CommandQueue) (uint32, *Framebuffer, error) {
	for attempt := 0; attempt < maxAcquireRetries; attempt++ {
		idx, err := s.acquireOnce(queue)
		if err == vk.ErrOutOfDate {
			if rerr := s.Recreate(); rerr != nil {
				return 0, nil, rerr
			}
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		return idx, s.images[idx].framebuffer, nil
	}
	return 0, nil, ErrInternal
}

func (s *Swapchain) acquireOnce(queue *CommandQueue) (uint32, error) {
	// The acquire semaphore used must belong to a slot not currently
	// in flight; index 0 is used to probe since AcquireNextImage
	// reports which image became available before a slot-specific
	// semaphore can be chosen.
	probe := s.images[0].acquired
	idx, err := s.ctx.device.AcquireNextImage(s.handle, ^uint64(0), probe.Handle(), vk.Fence{})
	if err != nil {
		return 0, err
	}

	si := s.images[idx]
	cb, err := queue.CreateCommandBuffer()
	if err != nil {
		return 0, err
	}
	cb.Begin()
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: si.image.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vk.ImageLayoutUndefined, NewLayout: vk.ImageLayoutColorAttachmentOptimal,
		SrcAccess: vk.AccessNone, DstAccess: vk.AccessColorAttachmentWrite,
	})
	cb.End()
	if err := queue.Submit(CommandBufferSubmitInfo{
		Buffers: []*CommandBuffer{cb},
		Wait:    []*Semaphore{probe},
		Signal:  []*Semaphore{si.ready},
	}, nil); err != nil {
		return 0, err
	}
	si.image.setLayout(LayoutColorAttachmentOptimal)
	return idx, nil
}

// Present records the PRESENT_SRC transition for imageIndex and
// presents it, waiting on the caller's semaphore (typically the one
// signaled by the last draw submission against that image).
func (s *Swapchain) Present(queue *CommandQueue, imageIndex uint32, wait *Semaphore) error {
	si := s.images[imageIndex]

	cb, err := queue.CreateCommandBuffer()
	if err != nil {
		return err
	}
	cb.Begin()
	vk.RecordImageBarrier(cb.handle, vk.ImageBarrier{
		Image: si.image.Handle(), Aspect: vk.AspectColor, LevelCount: 1,
		OldLayout: vk.ImageLayoutColorAttachmentOptimal, NewLayout: vk.ImageLayoutPresentSrc,
		SrcAccess: vk.AccessColorAttachmentWrite, DstAccess: vk.AccessNone,
	})
	cb.End()
	var waitSems []*Semaphore
	if wait != nil {
		waitSems = append(waitSems, wait)
	}
	if err := queue.Submit(CommandBufferSubmitInfo{
		Buffers: []*CommandBuffer{cb},
		Wait:    waitSems,
		Signal:  []*Semaphore{si.presentable},
	}, nil); err != nil {
		return err
	}
	si.image.setLayout(LayoutPresentSrc)

	err = queue.Present([]*Semaphore{si.presentable}, s.handle, imageIndex)
	if err == vk.ErrOutOfDate {
		return s.Recreate()
	}
	return err
}

// Width returns the swapchain's current image width in texels.
func (s *Swapchain) Width() uint32 { return s.extent.Width }

// Height returns the swapchain's current image height in texels.
func (s *Swapchain) Height() uint32 { return s.extent.Height }

// Format returns the swapchain's current image format.
func (s *Swapchain) Format() PixelFormat { return s.format }

// Close destroys the swapchain's per-image resources and the
// swapchain and surface themselves.
func (s *Swapchain) Close() error {
	s.destroyImages()
	s.ctx.device.DestroySwapchain(s.handle)
	s.ctx.device.DestroySurface(s.surface)
	return nil
}
