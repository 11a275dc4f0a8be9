// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/vk"

// ShaderModuleConfig configures ShaderModule creation.
type ShaderModuleConfig struct {
	Name       string
	Stage      ShaderStage
	Source     []byte // SPIR-V byte code, 4-byte words
	EntryPoint string
}

// ShaderModule wraps a compiled SPIR-V shader and the descriptor and
// attribute layout reflected from its binary.
type ShaderModule struct {
	device     *vk.Device
	handle     vk.ShaderModule
	name       string
	stage      ShaderStage
	entryPoint string

	inputs      []AttributeBindingLayout
	outputs     []AttributeBindingLayout
	descriptors []DescriptorBindingLayout
}

func newShaderModule(device *vk.Device, cfg ShaderModuleConfig) (*ShaderModule, error) {
	handle, err := device.CreateShaderModule(cfg.Source)
	if err != nil {
		return nil, ErrCreationInternal
	}

	sm := &ShaderModule{
		device:     device,
		handle:     handle,
		name:       cfg.Name,
		stage:      cfg.Stage,
		entryPoint: cfg.EntryPoint,
	}

	if err := sm.reflect(cfg.Source); err != nil {
		device.DestroyShaderModule(handle)
		return nil, ErrCreationInternal
	}

	return sm, nil
}

func (sm *ShaderModule) reflect(code []byte) error {
	mod, err := parseSPIRV(code)
	if err != nil {
		return err
	}
	if mod.entryPoint == "" {
		return ErrInternal
	}

	type ioVar struct {
		id       uint32
		location uint32
		name     string
		format   AttributeFormat
	}
	var inputs, outputs []ioVar

	for id, v := range mod.variables {
		switch v.storageClass {
		case storageClassUniform, storageClassUniformConstant:
			binding, hasBinding := mod.bindings[id]
			if !hasBinding {
				continue
			}
			descriptor := sm.reflectDescriptor(mod, id, v.typeID, binding)
			sm.descriptors = append(sm.descriptors, descriptor)

		case storageClassInput:
			loc, ok := mod.locations[id]
			if !ok {
				continue
			}
			format, ok := mod.reflectAttributeFormat(v.typeID)
			if !ok {
				return ErrInternal
			}
			inputs = append(inputs, ioVar{id: id, location: loc, name: mod.names[id], format: format})

		case storageClassOutput:
			loc, ok := mod.locations[id]
			if !ok {
				continue
			}
			format, ok := mod.reflectAttributeFormat(v.typeID)
			if !ok {
				continue
			}
			outputs = append(outputs, ioVar{id: id, location: loc, name: mod.names[id], format: format})
		}
	}

	sortIOVarsByLocation := func(vars []ioVar) {
		for i := 1; i < len(vars); i++ {
			for j := i; j > 0 && vars[j].location < vars[j-1].location; j-- {
				vars[j], vars[j-1] = vars[j-1], vars[j]
			}
		}
	}
	sortIOVarsByLocation(inputs)
	sortIOVarsByLocation(outputs)

	for i, v := range inputs {
		sm.inputs = append(sm.inputs, AttributeBindingLayout{
			Binding:  uint32(i),
			Location: v.location,
			Format:   v.format,
			Name:     v.name,
		})
	}
	for _, v := range outputs {
		sm.outputs = append(sm.outputs, AttributeBindingLayout{
			Location: v.location,
			Format:   v.format,
			Name:     v.name,
		})
	}

	return nil
}

func (sm *ShaderModule) reflectDescriptor(mod *spvModule, varID, typeID, binding uint32) DescriptorBindingLayout {
	set := mod.sets[varID]
	t := mod.types[typeID]

	layout := DescriptorBindingLayout{Binding: binding}
	_ = set // Coral's GLSL emission fixes set=0; binding is the addressable axis.

	if t == nil {
		layout.Definition = SamplerDefinition{}
		return layout
	}

	switch t.op {
	case opTypeStruct:
		layout.Name = mod.names[typeID]
		layout.Definition = mod.buildUniformBlockDefinition(typeID)
	case opTypeSampledImage:
		layout.Name = mod.names[varID]
		layout.Definition = CombinedTextureSamplerDefinition{}
	case opTypeImage:
		layout.Name = mod.names[varID]
		layout.Definition = TextureDefinition{}
	case opTypeSampler:
		layout.Name = mod.names[varID]
		layout.Definition = SamplerDefinition{}
	default:
		layout.Name = mod.names[varID]
		layout.Definition = SamplerDefinition{}
	}

	return layout
}

func (sm *ShaderModule) Name() string             { return sm.name }
func (sm *ShaderModule) ShaderStage() ShaderStage  { return sm.stage }
func (sm *ShaderModule) EntryPoint() string        { return sm.entryPoint }
func (sm *ShaderModule) Handle() vk.ShaderModule   { return sm.handle }

// InputAttributeBindingLayout returns the shader's reflected input
// attribute layout, sorted by location with sequential binding
// indices 0..N-1.
func (sm *ShaderModule) InputAttributeBindingLayout() []AttributeBindingLayout { return sm.inputs }

// OutputAttributeBindingLayout returns the shader's reflected output
// attribute layout, sorted by location.
func (sm *ShaderModule) OutputAttributeBindingLayout() []AttributeBindingLayout { return sm.outputs }

// DescriptorBindingLayout returns the shader's reflected descriptor layout.
func (sm *ShaderModule) DescriptorBindingLayout() []DescriptorBindingLayout { return sm.descriptors }

// Close destroys the backend shader module object.
func (sm *ShaderModule) Close() error {
	sm.device.DestroyShaderModule(sm.handle)
	return nil
}
