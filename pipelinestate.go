// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"fmt"

	"github.com/kestrelgpu/coral/vk"
)

// CullMode selects which triangle winding is discarded before rasterization.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// FrontFace selects which vertex winding order is front-facing.
type FrontFace int

const (
	CounterClockwise FrontFace = iota
	Clockwise
)

// PolygonMode selects whether triangle interiors are filled or only
// their edges are rasterized.
type PolygonMode int

const (
	Fill PolygonMode = iota
	Line
)

// Topology selects how BufferView-bound vertices assemble into primitives.
type Topology int

const TriangleList Topology = iota

// CompareOp selects a depth or stencil comparison function.
type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpAlways
)

// BlendFactor selects a color-blend-equation operand.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// BlendOp selects a color-blend-equation combine operator.
type BlendOp int

const BlendAdd BlendOp = iota

// DepthTest configures the pipeline's depth-stencil test.
type DepthTest struct {
	Enable     bool
	Write      bool
	CompareOp  CompareOp
}

// BlendState configures the pipeline's single color-attachment blend
// equation (premultiplied or not is expressed via the factor choice).
type BlendState struct {
	Enable      bool
	SrcFactor   BlendFactor
	DstFactor   BlendFactor
	Op          BlendOp
}

// StencilTest optionally configures a stencil test alongside DepthTest.
type StencilTest struct {
	CompareOp   CompareOp
	Reference   uint32
	CompareMask uint32
	WriteMask   uint32
}

// PipelineStateConfig configures PipelineState creation.
type PipelineStateConfig struct {
	VertexModule, FragmentModule *ShaderModule
	FramebufferSignature         FramebufferSignature
	CullMode                     CullMode
	FrontFace                    FrontFace
	DepthTest                    DepthTest
	Blend                        BlendState
	PolygonMode                  PolygonMode
	Topology                     Topology
	StencilTest                  *StencilTest
}

// PipelineState is an immutable compiled graphics pipeline: shader
// modules, fixed-function state, and the descriptor set layout
// derived by unioning all stages' descriptor bindings.
type PipelineState struct {
	device *vk.Device

	vertexModule, fragmentModule *ShaderModule
	signature                    FramebufferSignature

	setLayout    vk.DescriptorSetLayout
	layout       vk.PipelineLayout
	handle       vk.Pipeline
	descriptors  []DescriptorBindingLayout
	vertexInputs []AttributeBindingLayout
}

func newPipelineState(device *vk.Device, cfg PipelineStateConfig) (ps *PipelineState, err error) {
	if cfg.VertexModule == nil {
		return nil, ErrCreationInternal
	}
	if cfg.VertexModule.ShaderStage() != StageVertex {
		return nil, ErrCreationInternal
	}

	descriptors, err := unionDescriptorBindings(cfg.VertexModule, cfg.FragmentModule)
	if err != nil {
		return nil, err
	}

	setLayout, err := device.CreateDescriptorSetLayout(descriptorLayoutBindings(descriptors))
	if err != nil {
		return nil, ErrCreationInternal
	}
	defer func() {
		if err != nil {
			device.DestroyDescriptorSetLayout(setLayout)
		}
	}()

	layout, err := device.CreatePipelineLayout(setLayout)
	if err != nil {
		return nil, ErrCreationInternal
	}
	defer func() {
		if err != nil {
			device.DestroyPipelineLayout(layout)
		}
	}()

	bindings, attrs := vertexInputState(cfg.VertexModule.InputAttributeBindingLayout())

	fragModule := vk.ShaderModule{}
	fragEntry := "main"
	if cfg.FragmentModule != nil {
		fragModule = cfg.FragmentModule.Handle()
		fragEntry = cfg.FragmentModule.EntryPoint()
	}

	colorFormats := make([]vk.Format, len(cfg.FramebufferSignature.ColorAttachmentFormats))
	for i, f := range cfg.FramebufferSignature.ColorAttachmentFormats {
		colorFormats[i] = vkFormat(f)
	}
	var depthFormat *vk.Format
	if cfg.FramebufferSignature.DepthStencilAttachmentFormat != nil {
		f := vkFormat(*cfg.FramebufferSignature.DepthStencilAttachmentFormat)
		depthFormat = &f
	}

	var stencil *vk.StencilOp
	if cfg.StencilTest != nil {
		stencil = &vk.StencilOp{
			CompareOp:   vkCompareOp(cfg.StencilTest.CompareOp),
			Reference:   cfg.StencilTest.Reference,
			CompareMask: cfg.StencilTest.CompareMask,
			WriteMask:   cfg.StencilTest.WriteMask,
		}
	}

	handle, err := device.CreateGraphicsPipeline(vk.GraphicsPipelineConfig{
		VertexModule:     cfg.VertexModule.Handle(),
		FragmentModule:   fragModule,
		VertexEntry:      cfg.VertexModule.EntryPoint(),
		FragmentEntry:    fragEntry,
		VertexBindings:   bindings,
		VertexAttributes: attrs,
		Topology:         vk.PrimitiveTriangleList,
		PolygonMode:      vkPolygonMode(cfg.PolygonMode),
		CullMode:         vkCullMode(cfg.CullMode),
		FrontFace:        vkFrontFace(cfg.FrontFace),
		DepthTestEnable:  cfg.DepthTest.Enable,
		DepthWriteEnable: cfg.DepthTest.Write,
		DepthCompareOp:   vkCompareOp(cfg.DepthTest.CompareOp),
		StencilTest:      stencil,
		BlendEnable:      cfg.Blend.Enable,
		SrcColorFactor:   vkBlendFactor(cfg.Blend.SrcFactor),
		DstColorFactor:   vkBlendFactor(cfg.Blend.DstFactor),
		ColorBlendOp:     vkBlendOp(cfg.Blend.Op),
		Layout:           layout,
		ColorFormats:     colorFormats,
		DepthFormat:      depthFormat,
	})
	if err != nil {
		return nil, ErrCreationInternal
	}

	return &PipelineState{
		device:         device,
		vertexModule:   cfg.VertexModule,
		fragmentModule: cfg.FragmentModule,
		signature:      cfg.FramebufferSignature,
		setLayout:      setLayout,
		layout:         layout,
		handle:         handle,
		descriptors:    descriptors,
		vertexInputs:   cfg.VertexModule.InputAttributeBindingLayout(),
	}, nil
}

// unionDescriptorBindings merges the descriptor bindings of both
// stages; the same binding index appearing in both stages must
// describe the same resource (§3's PipelineState invariant).
func unionDescriptorBindings(vs, fs *ShaderModule) ([]DescriptorBindingLayout, error) {
	byBinding := make(map[uint32]DescriptorBindingLayout)
	var order []uint32
	merge := func(m *ShaderModule) error {
		if m == nil {
			return nil
		}
		for _, d := range m.DescriptorBindingLayout() {
			if existing, ok := byBinding[d.Binding]; ok {
				if fmt.Sprintf("%T", existing.Definition) != fmt.Sprintf("%T", d.Definition) {
					return ErrCreationInternal
				}
				continue
			}
			byBinding[d.Binding] = d
			order = append(order, d.Binding)
		}
		return nil
	}
	if err := merge(vs); err != nil {
		return nil, err
	}
	if err := merge(fs); err != nil {
		return nil, err
	}

	out := make([]DescriptorBindingLayout, len(order))
	for i, b := range order {
		out[i] = byBinding[b]
	}
	return out, nil
}

func descriptorLayoutBindings(descriptors []DescriptorBindingLayout) []vk.DescriptorSetLayoutBinding {
	out := make([]vk.DescriptorSetLayoutBinding, len(descriptors))
	for i, d := range descriptors {
		out[i] = vk.DescriptorSetLayoutBinding{Binding: d.Binding, Type: descriptorType(d.Definition), Count: 1}
	}
	return out
}

func descriptorType(def DescriptorDefinition) vk.DescriptorType {
	switch def.(type) {
	case UniformBlockDefinition:
		return vk.DescriptorUniformBuffer
	case SamplerDefinition:
		return vk.DescriptorSampler
	case TextureDefinition:
		return vk.DescriptorSampledImage
	case CombinedTextureSamplerDefinition:
		return vk.DescriptorCombinedImageSampler
	default:
		return vk.DescriptorUniformBuffer
	}
}

// vertexInputState derives one vertex-input binding per reflected
// input attribute (stride fixed at bind time, per §4.7).
func vertexInputState(inputs []AttributeBindingLayout) ([]vk.VertexBinding, []vk.VertexAttribute) {
	bindings := make([]vk.VertexBinding, len(inputs))
	attrs := make([]vk.VertexAttribute, len(inputs))
	for i, in := range inputs {
		bindings[i] = vk.VertexBinding{Binding: in.Binding}
		attrs[i] = vk.VertexAttribute{
			Location: in.Location,
			Binding:  in.Binding,
			Format:   vkAttributeFormat(in.Format),
			Offset:   0,
		}
	}
	return bindings, attrs
}

func vkPolygonMode(m PolygonMode) vk.PolygonMode {
	if m == Line {
		return vk.PolygonModeLine
	}
	return vk.PolygonModeFill
}

func vkCullMode(m CullMode) vk.CullMode {
	switch m {
	case CullFront:
		return vk.CullModeFront
	case CullBack:
		return vk.CullModeBack
	default:
		return vk.CullModeNone
	}
}

func vkFrontFace(f FrontFace) vk.FrontFace {
	if f == Clockwise {
		return vk.FrontFaceCW
	}
	return vk.FrontFaceCCW
}

func vkCompareOp(c CompareOp) vk.CompareOp {
	switch c {
	case CompareOpNever:
		return vk.CompareNever
	case CompareOpEqual:
		return vk.CompareEqual
	case CompareOpLessOrEqual:
		return vk.CompareLEqual
	case CompareOpGreater:
		return vk.CompareGreater
	case CompareOpAlways:
		return vk.CompareAlways
	default:
		return vk.CompareLess
	}
}

func vkBlendFactor(f BlendFactor) vk.BlendFactor {
	switch f {
	case BlendOne:
		return vk.BlendFactorOne
	case BlendSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case BlendOneMinusSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	default:
		return vk.BlendFactorZero
	}
}

func vkBlendOp(BlendOp) vk.BlendOp { return vk.BlendOpAdd }

// FramebufferSignature returns the (color formats, depth format) this
// pipeline was compiled against.
func (p *PipelineState) FramebufferSignature() FramebufferSignature { return p.signature }

// DescriptorBindingLayout returns the pipeline's unioned descriptor
// layout, the binding contract a DescriptorSet must satisfy to be
// used with this pipeline.
func (p *PipelineState) DescriptorBindingLayout() []DescriptorBindingLayout { return p.descriptors }

// VertexInputAttributeLayout returns the vertex stage's reflected
// input attribute layout.
func (p *PipelineState) VertexInputAttributeLayout() []AttributeBindingLayout { return p.vertexInputs }

// Handle returns the backend pipeline handle.
func (p *PipelineState) Handle() vk.Pipeline { return p.handle }

// Layout returns the backend pipeline layout handle.
func (p *PipelineState) Layout() vk.PipelineLayout { return p.layout }

// Close destroys the pipeline, its layout and its descriptor set layout.
func (p *PipelineState) Close() error {
	p.device.DestroyPipeline(p.handle)
	p.device.DestroyPipelineLayout(p.layout)
	p.device.DestroyDescriptorSetLayout(p.setLayout)
	return nil
}
