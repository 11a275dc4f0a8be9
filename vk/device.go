// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package vk wraps github.com/NOT-REAL-GAMES/vulkango with the
// higher-level, allocation-bundling entry points the coral package
// needs (create-resource-and-back-it-with-memory in one call), the
// same way driver/vk bundles vkCreateBuffer+vkAllocateMemory+
// vkBindBufferMemory into a single NewBuffer/NewImage call.
package vk

import (
	"errors"
	"fmt"

	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// ErrOutOfDeviceMemory is returned when a device-local allocation could
// not be satisfied.
var ErrOutOfDeviceMemory = errors.New("vk: out of device memory")

// ErrOutOfHostMemory is returned when a host allocation could not be
// satisfied.
var ErrOutOfHostMemory = errors.New("vk: out of host memory")

// DeviceConfig configures Device creation.
type DeviceConfig struct {
	ApplicationName string
	EnableValidation bool
}

// QueueRole identifies which of Context's three logical queues a
// submission targets. Roles may alias the same underlying vulkango
// queue when the physical device exposes fewer than three queues from
// the selected family (see selectQueues).
type QueueRole int

const (
	RoleGraphics QueueRole = iota
	RoleCompute
	RoleTransfer
	numRoles
)

// Device owns a Vulkan instance, physical device, logical device and
// up to three graphics/compute/transfer queues (aliased down to as
// few as one, per §4.13). It is the backend handle the coral package
// builds every resource against.
type Device struct {
	instance       *vulkan.Instance
	physicalDevice vulkan.PhysicalDevice
	handle         *vulkan.Device
	queue          *vulkan.Queue // RoleGraphics, kept for the single-queue call sites
	queues         [numRoles]*vulkan.Queue
	queueFamily    uint32

	memProps vulkan.PhysicalDeviceMemoryProperties
}

// NewDevice creates a Vulkan 1.3 instance and logical device with
// dynamic rendering and synchronization2 enabled (timeline semaphores
// are not enabled), and picks the first queue family that supports
// graphics.
func NewDevice(cfg DeviceConfig) (*Device, error) {
	instance, err := vulkan.CreateInstance(&vulkan.InstanceCreateInfo{
		ApplicationInfo: &vulkan.ApplicationInfo{
			ApplicationName:    cfg.ApplicationName,
			ApplicationVersion: vulkan.MakeApiVersion(0, 1, 0, 0),
			EngineName:         "coral",
			EngineVersion:      vulkan.MakeApiVersion(0, 1, 0, 0),
			ApiVersion:         vulkan.ApiVersion_1_3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vk: create instance: %w", err)
	}

	physicalDevices, err := instance.EnumeratePhysicalDevices()
	if err != nil || len(physicalDevices) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("vk: no physical devices available")
	}
	physicalDevice := physicalDevices[0]

	queueFamily := uint32(0)
	found := false
	for i, family := range physicalDevice.GetQueueFamilyProperties() {
		if family.QueueFlags&vulkan.QUEUE_GRAPHICS_BIT != 0 {
			queueFamily = uint32(i)
			found = true
			break
		}
	}
	if !found {
		instance.Destroy()
		return nil, fmt.Errorf("vk: no graphics-capable queue family")
	}

	familyProps := physicalDevice.GetQueueFamilyProperties()
	available := familyProps[queueFamily].QueueCount
	if available > 3 {
		available = 3
	}
	priorities := make([]float32, available)
	for i := range priorities {
		priorities[i] = 1.0
	}

	device, err := physicalDevice.CreateDevice(&vulkan.DeviceCreateInfo{
		QueueCreateInfos: []vulkan.DeviceQueueCreateInfo{
			{QueueFamilyIndex: queueFamily, QueuePriorities: priorities},
		},
		EnabledExtensionNames: []string{"VK_KHR_swapchain"},
		Vulkan13Features: &vulkan.PhysicalDeviceVulkan13Features{
			DynamicRendering: true,
			Synchronization2: true,
		},
	})
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("vk: create device: %w", err)
	}

	d := &Device{
		instance:       instance,
		physicalDevice: physicalDevice,
		handle:         device,
		queueFamily:    queueFamily,
		memProps:       physicalDevice.GetMemoryProperties(),
	}
	selectQueues(d, device, queueFamily, available)
	d.queue = d.queues[RoleGraphics]
	return d, nil
}

// selectQueues implements §4.13's queue-aliasing policy: one queue
// available aliases all three roles; two aliases graphics=compute
// with transfer separate; three assigns one queue per role.
func selectQueues(d *Device, device *vulkan.Device, family uint32, available uint32) {
	switch available {
	case 1:
		q := device.GetQueue(family, 0)
		d.queues[RoleGraphics], d.queues[RoleCompute], d.queues[RoleTransfer] = q, q, q
	case 2:
		shared := device.GetQueue(family, 0)
		d.queues[RoleGraphics], d.queues[RoleCompute] = shared, shared
		d.queues[RoleTransfer] = device.GetQueue(family, 1)
	default:
		d.queues[RoleGraphics] = device.GetQueue(family, 0)
		d.queues[RoleCompute] = device.GetQueue(family, 1)
		d.queues[RoleTransfer] = device.GetQueue(family, 2)
	}
}

// Instance returns the underlying vulkango instance handle, for
// Swapchain's surface creation.
func (d *Device) Instance() *vulkan.Instance { return d.instance }

// PhysicalDevice returns the underlying vulkango physical device handle.
func (d *Device) PhysicalDevice() vulkan.PhysicalDevice { return d.physicalDevice }

// Handle returns the underlying vulkango logical device handle.
func (d *Device) Handle() *vulkan.Device { return d.handle }

// Queue returns the device's graphics/present queue.
func (d *Device) Queue() *vulkan.Queue { return d.queue }

// QueueForRole returns the queue backing the given role, which may
// alias another role's queue (see selectQueues).
func (d *Device) QueueForRole(role QueueRole) *vulkan.Queue { return d.queues[role] }

// QueueFamily returns the index of the queue family Queue belongs to.
func (d *Device) QueueFamily() uint32 { return d.queueFamily }

// WaitIdle blocks until all work submitted to the device has completed.
func (d *Device) WaitIdle() error { return d.handle.WaitIdle() }

// Close destroys the logical device and instance.
func (d *Device) Close() error {
	d.handle.Destroy()
	d.instance.Destroy()
	return nil
}

// findMemoryType returns the index of a memory type satisfying
// typeBits whose property flags contain required.
func (d *Device) findMemoryType(typeBits uint32, required vulkan.MemoryPropertyFlags) (uint32, bool) {
	for i, t := range d.memProps.MemoryTypes {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if t.PropertyFlags&required == required {
			return uint32(i), true
		}
	}
	return 0, false
}
