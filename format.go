// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

// PixelFormat describes the channel layout, bit depth and numeric
// interpretation of an Image's texels.
type PixelFormat int

// Pixel formats.
const (
	R8SRGB PixelFormat = iota
	RG8SRGB
	RGB8SRGB
	RGBA8SRGB

	R8UI
	RG8UI
	RGB8UI
	RGBA8UI

	R8I
	RG8I
	RGB8I
	RGBA8I

	R16UI
	RG16UI
	RGB16UI
	RGBA16UI

	R16I
	RG16I
	RGB16I
	RGBA16I

	R32UI
	RG32UI
	RGB32UI
	RGBA32UI

	R32I
	RG32I
	RGB32I
	RGBA32I

	R16F
	RG16F
	RGB16F
	RGBA16F

	R32F
	RG32F
	RGB32F
	RGBA32F

	// Depth16 through Depth32F are depth/stencil formats. They are
	// never valid as a Framebuffer color attachment.
	Depth16
	Depth24Stencil8
	Depth32F
)

// IsDepthStencil reports whether f is one of the depth/stencil formats.
func (f PixelFormat) IsDepthStencil() bool {
	return f == Depth16 || f == Depth24Stencil8 || f == Depth32F
}

// IsColor reports whether f is a color format.
func (f PixelFormat) IsColor() bool { return !f.IsDepthStencil() }

// SizeInBytes returns the number of bytes occupied by a single texel
// in format f.
func (f PixelFormat) SizeInBytes() uint32 {
	switch f {
	case R8SRGB, R8UI, R8I:
		return 1
	case RG8SRGB, RG8UI, RG8I:
		return 2
	case RGB8SRGB, RGB8UI, RGB8I:
		return 3
	case RGBA8SRGB, RGBA8UI, RGBA8I:
		return 4

	case R16UI, R16I, R16F, Depth16:
		return 2
	case RG16UI, RG16I, RG16F:
		return 4
	case RGB16UI, RGB16I, RGB16F:
		return 6
	case RGBA16UI, RGBA16I, RGBA16F:
		return 8

	case R32UI, R32I, R32F, Depth24Stencil8, Depth32F:
		return 4
	case RG32UI, RG32I, RG32F:
		return 8
	case RGB32UI, RGB32I, RGB32F:
		return 12
	case RGBA32UI, RGBA32I, RGBA32F:
		return 16
	}
	panic("coral: unknown PixelFormat")
}

// AttributeFormat describes the layout of a single vertex/index
// attribute stored in a Buffer.
type AttributeFormat int

// Attribute formats.
const (
	UInt16 AttributeFormat = iota
	UInt32
	Int16
	Int32
	Float
	Vec2F
	Vec3F
	Vec4F
)

// SizeInBytes returns the byte size of a single value in format f.
func (f AttributeFormat) SizeInBytes() uint32 {
	switch f {
	case UInt16, Int16:
		return 2
	case UInt32, Int32, Float:
		return 4
	case Vec2F:
		return 8
	case Vec3F:
		return 12
	case Vec4F:
		return 16
	}
	panic("coral: unknown AttributeFormat")
}

// IsIndexFormat reports whether f is a valid index-buffer format
// (UInt16 or UInt32).
func (f AttributeFormat) IsIndexFormat() bool { return f == UInt16 || f == UInt32 }

// UniformFormat describes the type of a single member of a
// UniformBlockDefinition.
type UniformFormat int

// Uniform formats.
const (
	UniformBool UniformFormat = iota
	UniformInt32
	UniformFloat
	UniformVec2I
	UniformVec3I
	UniformVec4I
	UniformVec2F
	UniformVec3F
	UniformVec4F
	UniformMat33F
	UniformMat44F
)

// SizeInBytes returns the tightly-packed (non-std140) size in bytes
// of a single element of format f. Use UniformBlockBuilder/std140
// layout rules to compute buffer offsets and strides instead.
func (f UniformFormat) SizeInBytes() uint32 {
	switch f {
	case UniformBool, UniformInt32, UniformFloat:
		return 4
	case UniformVec2F, UniformVec2I:
		return 8
	case UniformVec3F, UniformVec3I:
		return 12
	case UniformVec4F, UniformVec4I:
		return 16
	case UniformMat33F:
		return 36
	case UniformMat44F:
		return 64
	}
	panic("coral: unknown UniformFormat")
}
