// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	"fmt"

	vulkan "github.com/NOT-REAL-GAMES/vulkango"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Surface is a backend presentation surface.
type Surface = vulkan.SurfaceKHR

// Swapchain is a backend swapchain handle.
type Swapchain = vulkan.SwapchainKHR

// Extent2D is a backend 2D pixel extent.
type Extent2D = vulkan.Extent2D

// PresentMode selects the swapchain's presentation engine timing.
type PresentMode = vulkan.PresentModeKHR

const (
	PresentModeImmediate = vulkan.PRESENT_MODE_IMMEDIATE_KHR
	PresentModeMailbox   = vulkan.PRESENT_MODE_MAILBOX_KHR
	PresentModeFIFO      = vulkan.PRESENT_MODE_FIFO_KHR
)

// ErrOutOfDate is returned by AcquireNextImage when the swapchain no
// longer matches the surface (window resize, etc) and must be recreated.
var ErrOutOfDate = vulkan.ErrOutOfDateKHR

// CreateSurface wraps a native window handle (via GLFW, the only
// window-handle source this repo wires in; window creation itself
// remains the caller's responsibility per §6) into a Vulkan surface.
func (d *Device) CreateSurface(window *glfw.Window) (Surface, error) {
	return vulkan.CreateWindowSurface(d.instance, window)
}

// DestroySurface destroys a presentation surface.
func (d *Device) DestroySurface(s Surface) { d.instance.DestroySurfaceKHR(s) }

// SwapchainConfig configures swapchain (re)creation.
type SwapchainConfig struct {
	Surface      Surface
	Format       Format
	Width        uint32
	Height       uint32
	ImageCount   uint32
	LockToVSync  bool
	OldSwapchain Swapchain
}

// CreateSwapchain implements §4.12's init algorithm: pick a surface
// format matching the request, pick a present mode (immediate if
// unlocked and available, else mailbox, else FIFO), clamp the
// requested extent to the surface's capabilities, and create the
// swapchain (reusing + then destroying any OldSwapchain given).
func (d *Device) CreateSwapchain(cfg SwapchainConfig) (Swapchain, Format, Extent2D, error) {
	formats, err := d.physicalDevice.GetSurfaceFormatsKHR(cfg.Surface)
	if err != nil || len(formats) == 0 {
		return Swapchain{}, Format(0), Extent2D{}, fmt.Errorf("vk: no surface formats: %w", err)
	}
	chosen, ok := formats[0], false
	for _, f := range formats {
		if f.Format == cfg.Format {
			chosen, ok = f, true
			break
		}
	}
	if !ok {
		return Swapchain{}, Format(0), Extent2D{}, fmt.Errorf("vk: requested surface format unavailable")
	}

	presentModes, err := d.physicalDevice.GetSurfacePresentModesKHR(cfg.Surface)
	if err != nil {
		return Swapchain{}, Format(0), Extent2D{}, fmt.Errorf("vk: surface present modes: %w", err)
	}
	presentMode := PresentModeFIFO
	has := func(m PresentMode) bool {
		for _, pm := range presentModes {
			if pm == m {
				return true
			}
		}
		return false
	}
	switch {
	case !cfg.LockToVSync && has(PresentModeImmediate):
		presentMode = PresentModeImmediate
	case has(PresentModeMailbox):
		presentMode = PresentModeMailbox
	}

	caps, err := d.physicalDevice.GetSurfaceCapabilitiesKHR(cfg.Surface)
	if err != nil {
		return Swapchain{}, Format(0), Extent2D{}, fmt.Errorf("vk: surface capabilities: %w", err)
	}
	extent := clampExtent(Extent2D{Width: cfg.Width, Height: cfg.Height}, caps)

	imageCount := cfg.ImageCount
	if imageCount < caps.MinImageCount {
		imageCount = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	sc, err := d.handle.CreateSwapchainKHR(&vulkan.SwapchainCreateInfoKHR{
		Surface:          cfg.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      chosen.Format,
		ImageColorSpace:  chosen.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vulkan.IMAGE_USAGE_COLOR_ATTACHMENT_BIT | vulkan.IMAGE_USAGE_TRANSFER_DST_BIT,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vulkan.COMPOSITE_ALPHA_OPAQUE_BIT_KHR,
		PresentMode:      presentMode,
		Clipped:          true,
		OldSwapchain:     cfg.OldSwapchain,
	})
	if err != nil {
		return Swapchain{}, Format(0), Extent2D{}, fmt.Errorf("vk: create swapchain: %w", err)
	}

	if cfg.OldSwapchain != (Swapchain{}) {
		d.handle.DestroySwapchainKHR(cfg.OldSwapchain)
	}

	return sc, chosen.Format, extent, nil
}

func clampExtent(requested Extent2D, caps vulkan.SurfaceCapabilitiesKHR) Extent2D {
	clamp := func(v, lo, hi uint32) uint32 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	return Extent2D{
		Width:  clamp(requested.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(requested.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// DestroySwapchain destroys a swapchain (its images are owned by the
// implementation and destroyed along with it).
func (d *Device) DestroySwapchain(s Swapchain) { d.handle.DestroySwapchainKHR(s) }

// SwapchainImages returns the presentable images owned by a swapchain.
func (d *Device) SwapchainImages(s Swapchain) ([]Image, error) {
	return d.handle.GetSwapchainImagesKHR(s)
}

// CreateSwapchainImageViews wraps each swapchain image with a 2D color view.
func (d *Device) CreateSwapchainImageViews(images []Image, format Format) ([]ImageView, error) {
	return vulkan.CreateSwapchainImageViews(d.handle, images, format)
}

// AcquireNextImage acquires the next presentable image, signaling
// semaphore (and fence, if non-zero) on completion.
func (d *Device) AcquireNextImage(s Swapchain, timeoutNanos uint64, semaphore Semaphore, fence Fence) (uint32, error) {
	return d.handle.AcquireNextImageKHR(s, timeoutNanos, semaphore, fence)
}
