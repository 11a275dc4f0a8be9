// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

// ShaderStage identifies which pipeline stage a ShaderModule was
// compiled for.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// DescriptorDefinition is the type-level description of a single
// descriptor binding: exactly one of UniformBlockDefinition,
// SamplerDefinition, TextureDefinition or
// CombinedTextureSamplerDefinition.
type DescriptorDefinition interface {
	isDescriptorDefinition()
}

func (UniformBlockDefinition) isDescriptorDefinition()           {}
func (SamplerDefinition) isDescriptorDefinition()                 {}
func (TextureDefinition) isDescriptorDefinition()                 {}
func (CombinedTextureSamplerDefinition) isDescriptorDefinition()  {}

// SamplerDefinition marks a descriptor binding as a sampler-only
// binding (no associated image).
type SamplerDefinition struct{}

// TextureDefinition marks a descriptor binding as a sampled-image-only
// binding (no associated sampler).
type TextureDefinition struct{}

// CombinedTextureSamplerDefinition marks a descriptor binding as a
// combined image+sampler, the binding shape GLSL's sampler2D compiles to.
type CombinedTextureSamplerDefinition struct{}

// AttributeBindingLayout describes one vertex input/output attribute
// slot required or produced by a ShaderModule.
type AttributeBindingLayout struct {
	Binding  uint32
	Location uint32
	Format   AttributeFormat
	Name     string
}

// DescriptorBindingLayout describes one descriptor slot a
// ShaderModule expects to be bound at draw/dispatch time.
type DescriptorBindingLayout struct {
	Binding    uint32
	Name       string
	ByteSize   int
	Definition DescriptorDefinition
}

// CombinedTextureSampler pairs an Image and Sampler bound together at
// a single combined-image-sampler descriptor binding.
type CombinedTextureSampler struct {
	Texture *Image
	Sampler *Sampler
}

// Descriptor is the value bound at a single DescriptorBinding: a
// Buffer (uniform/storage), a Sampler, an Image, or a
// CombinedTextureSampler.
type Descriptor interface {
	isDescriptor()
}

func (*Buffer) isDescriptor()                 {}
func (*Sampler) isDescriptor()                {}
func (*Image) isDescriptor()                  {}
func (CombinedTextureSampler) isDescriptor()  {}

// DescriptorBinding associates a Descriptor value with the binding
// slot it must be written to.
type DescriptorBinding struct {
	Binding    uint32
	Descriptor Descriptor
}
