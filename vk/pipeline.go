// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package vk

import (
	vulkan "github.com/NOT-REAL-GAMES/vulkango"
)

// PipelineLayout is a backend pipeline layout.
type PipelineLayout = vulkan.PipelineLayout

// Pipeline is a backend compiled graphics pipeline.
type Pipeline = vulkan.Pipeline

// PolygonMode selects how a primitive's area is rasterized.
type PolygonMode = vulkan.PolygonMode

const (
	PolygonModeFill = vulkan.POLYGON_MODE_FILL
	PolygonModeLine = vulkan.POLYGON_MODE_LINE
)

// CullMode selects which primitive faces are discarded.
type CullMode = vulkan.CullModeFlags

const (
	CullModeNone  = vulkan.CULL_MODE_NONE
	CullModeFront = vulkan.CULL_MODE_FRONT_BIT
	CullModeBack  = vulkan.CULL_MODE_BACK_BIT
)

// FrontFace selects which primitive winding order is front-facing.
type FrontFace = vulkan.FrontFace

const (
	FrontFaceCCW = vulkan.FRONT_FACE_COUNTER_CLOCKWISE
	FrontFaceCW  = vulkan.FRONT_FACE_CLOCKWISE
)

// CompareOp selects a depth/stencil comparison function.
type CompareOp = vulkan.CompareOp

const (
	CompareNever   = vulkan.COMPARE_OP_NEVER
	CompareLess    = vulkan.COMPARE_OP_LESS
	CompareEqual   = vulkan.COMPARE_OP_EQUAL
	CompareLEqual  = vulkan.COMPARE_OP_LESS_OR_EQUAL
	CompareGreater = vulkan.COMPARE_OP_GREATER
	CompareAlways  = vulkan.COMPARE_OP_ALWAYS
)

// BlendFactor selects a blend-equation operand.
type BlendFactor = vulkan.BlendFactor

const (
	BlendFactorZero             = vulkan.BLEND_FACTOR_ZERO
	BlendFactorOne              = vulkan.BLEND_FACTOR_ONE
	BlendFactorSrcAlpha         = vulkan.BLEND_FACTOR_SRC_ALPHA
	BlendFactorOneMinusSrcAlpha = vulkan.BLEND_FACTOR_ONE_MINUS_SRC_ALPHA
)

// BlendOp selects a blend-equation combine operator.
type BlendOp = vulkan.BlendOp

const BlendOpAdd = vulkan.BLEND_OP_ADD

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology = vulkan.PrimitiveTopology

const PrimitiveTriangleList = vulkan.PRIMITIVE_TOPOLOGY_TRIANGLE_LIST

// IndexType selects the width of an index buffer's elements.
type IndexType = vulkan.IndexType

const (
	IndexTypeUint16 = vulkan.INDEX_TYPE_UINT16
	IndexTypeUint32 = vulkan.INDEX_TYPE_UINT32
)

// CreatePipelineLayout creates a pipeline layout from a single
// descriptor set layout, matching §4.7's "union of all stages'
// descriptor bindings" design (one set, index 0).
func (d *Device) CreatePipelineLayout(setLayout DescriptorSetLayout) (PipelineLayout, error) {
	return d.handle.CreatePipelineLayout(&vulkan.PipelineLayoutCreateInfo{
		SetLayouts: []vulkan.DescriptorSetLayout{setLayout},
	})
}

// DestroyPipelineLayout destroys a pipeline layout.
func (d *Device) DestroyPipelineLayout(l PipelineLayout) { d.handle.DestroyPipelineLayout(l) }

// VertexBinding describes one vertex-input binding slot, with its
// stride left dynamic per §4.7 ("stride fixed dynamically").
type VertexBinding struct {
	Binding uint32
}

// VertexAttribute describes one vertex-input attribute, sourced from
// a binding at a byte offset.
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   Format
	Offset   uint32
}

// StencilOp describes a stencil test's compare/pass/fail operations.
type StencilOp struct {
	CompareOp   CompareOp
	Reference   uint32
	CompareMask uint32
	WriteMask   uint32
}

// GraphicsPipelineConfig assembles the fixed-function state for a
// single graphics pipeline compiled against dynamic rendering, per §4.7.
type GraphicsPipelineConfig struct {
	VertexModule, FragmentModule ShaderModule
	VertexEntry, FragmentEntry   string

	VertexBindings   []VertexBinding
	VertexAttributes []VertexAttribute

	Topology    PrimitiveTopology
	PolygonMode PolygonMode
	CullMode    CullMode
	FrontFace   FrontFace

	DepthTestEnable, DepthWriteEnable bool
	DepthCompareOp                    CompareOp
	StencilTest                       *StencilOp

	BlendEnable    bool
	SrcColorFactor BlendFactor
	DstColorFactor BlendFactor
	ColorBlendOp   BlendOp

	Layout       PipelineLayout
	ColorFormats []Format
	DepthFormat  *Format
}

// CreateGraphicsPipeline compiles a graphics pipeline using dynamic
// rendering (no render-pass object) and dynamic viewport/scissor/
// vertex-binding-stride state, per §4.7.
func (d *Device) CreateGraphicsPipeline(cfg GraphicsPipelineConfig) (Pipeline, error) {
	bindings := make([]vulkan.VertexInputBindingDescription, len(cfg.VertexBindings))
	for i, b := range cfg.VertexBindings {
		bindings[i] = vulkan.VertexInputBindingDescription{
			Binding:   b.Binding,
			Stride:    0, // set per-draw via CmdBindVertexBuffers2/SetVertexInputStride
			InputRate: vulkan.VERTEX_INPUT_RATE_VERTEX,
		}
	}
	attrs := make([]vulkan.VertexInputAttributeDescription, len(cfg.VertexAttributes))
	for i, a := range cfg.VertexAttributes {
		attrs[i] = vulkan.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Binding,
			Format:   a.Format,
			Offset:   a.Offset,
		}
	}

	depthStencil := &vulkan.PipelineDepthStencilStateCreateInfo{
		DepthTestEnable:  cfg.DepthTestEnable,
		DepthWriteEnable: cfg.DepthWriteEnable,
		DepthCompareOp:   cfg.DepthCompareOp,
	}
	if cfg.StencilTest != nil {
		st := cfg.StencilTest
		depthStencil.StencilTestEnable = true
		op := vulkan.StencilOpState{
			FailOp:      vulkan.STENCIL_OP_KEEP,
			PassOp:      vulkan.STENCIL_OP_KEEP,
			DepthFailOp: vulkan.STENCIL_OP_KEEP,
			CompareOp:   st.CompareOp,
			CompareMask: st.CompareMask,
			WriteMask:   st.WriteMask,
			Reference:   st.Reference,
		}
		depthStencil.Front = op
		depthStencil.Back = op
	}

	renderingInfo := &vulkan.PipelineRenderingCreateInfo{ColorAttachmentFormats: cfg.ColorFormats}
	if cfg.DepthFormat != nil {
		renderingInfo.DepthAttachmentFormat = *cfg.DepthFormat
	}

	dynamicStates := []vulkan.DynamicState{
		vulkan.DYNAMIC_STATE_VIEWPORT,
		vulkan.DYNAMIC_STATE_SCISSOR,
		vulkan.DYNAMIC_STATE_VERTEX_INPUT_BINDING_STRIDE_EXT,
	}

	return d.handle.CreateGraphicsPipeline(&vulkan.GraphicsPipelineCreateInfo{
		Stages: []vulkan.PipelineShaderStageCreateInfo{
			{Stage: vulkan.SHADER_STAGE_VERTEX_BIT, Module: cfg.VertexModule, Name: cfg.VertexEntry},
			{Stage: vulkan.SHADER_STAGE_FRAGMENT_BIT, Module: cfg.FragmentModule, Name: cfg.FragmentEntry},
		},
		VertexInputState: &vulkan.PipelineVertexInputStateCreateInfo{
			VertexBindingDescriptions:   bindings,
			VertexAttributeDescriptions: attrs,
		},
		InputAssemblyState: &vulkan.PipelineInputAssemblyStateCreateInfo{Topology: cfg.Topology},
		ViewportState: &vulkan.PipelineViewportStateCreateInfo{
			Viewports: make([]vulkan.Viewport, 1),
			Scissors:  make([]vulkan.Rect2D, 1),
		},
		RasterizationState: &vulkan.PipelineRasterizationStateCreateInfo{
			PolygonMode: cfg.PolygonMode,
			CullMode:    cfg.CullMode,
			FrontFace:   cfg.FrontFace,
			LineWidth:   1.0,
		},
		MultisampleState: &vulkan.PipelineMultisampleStateCreateInfo{
			RasterizationSamples: vulkan.SAMPLE_COUNT_1_BIT,
		},
		DepthStencilState: depthStencil,
		ColorBlendState: &vulkan.PipelineColorBlendStateCreateInfo{
			Attachments: []vulkan.PipelineColorBlendAttachmentState{
				{
					BlendEnable:         cfg.BlendEnable,
					SrcColorBlendFactor: cfg.SrcColorFactor,
					DstColorBlendFactor: cfg.DstColorFactor,
					ColorBlendOp:        cfg.ColorBlendOp,
					SrcAlphaBlendFactor: cfg.SrcColorFactor,
					DstAlphaBlendFactor: cfg.DstColorFactor,
					AlphaBlendOp:        cfg.ColorBlendOp,
					ColorWriteMask:      vulkan.COLOR_COMPONENT_ALL,
				},
			},
		},
		DynamicState: &vulkan.PipelineDynamicStateCreateInfo{DynamicStates: dynamicStates},
		Layout:       cfg.Layout,
		RenderingInfo: renderingInfo,
	})
}

// DestroyPipeline destroys a compiled graphics pipeline.
func (d *Device) DestroyPipeline(p Pipeline) { d.handle.DestroyPipeline(p) }
