// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// ShaderModule is the backend shader module handle.
type ShaderModule = vulkan.ShaderModule

// CreateShaderModule creates a shader module from SPIR-V byte code.
func (d *Device) CreateShaderModule(code []byte) (ShaderModule, error) {
	return d.handle.CreateShaderModule(&vulkan.ShaderModuleCreateInfo{Code: code})
}

// DestroyShaderModule destroys a shader module.
func (d *Device) DestroyShaderModule(m ShaderModule) { d.handle.DestroyShaderModule(m) }
