// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "github.com/kestrelgpu/coral/linear"

// SetVec3FV sets a vec3 float member from a linear.V3, matching
// SetVec3F's layout.
func (b *UniformBlockBuilder) SetVec3FV(index int, value linear.V3, element uint32) bool {
	return b.SetVec3F(index, [3]float32(value), element)
}

// SetVec4FV sets a vec4 float member from a linear.V4, matching
// SetVec4F's layout.
func (b *UniformBlockBuilder) SetVec4FV(index int, value linear.V4, element uint32) bool {
	return b.SetVec4F(index, [4]float32(value), element)
}

// SetVec3FNormalized normalizes value before writing it to a vec3
// member, for uniforms that hold a direction (light direction, view
// direction) rather than a raw vector.
func (b *UniformBlockBuilder) SetVec3FNormalized(index int, value linear.V3, element uint32) bool {
	var n linear.V3
	n.Norm(&value)
	return b.SetVec3FV(index, n, element)
}

// SetVec4FNormalized normalizes value before writing it to a vec4 member.
func (b *UniformBlockBuilder) SetVec4FNormalized(index int, value linear.V4, element uint32) bool {
	var n linear.V4
	n.Norm(&value)
	return b.SetVec4FV(index, n, element)
}

// SetMat33FV sets a mat3 member from a linear.M3, flattening its three
// column V3s into the contiguous column-major layout SetMat33F expects.
func (b *UniformBlockBuilder) SetMat33FV(index int, value linear.M3, element uint32) bool {
	return b.SetMat33F(index, [9]float32{
		value[0][0], value[0][1], value[0][2],
		value[1][0], value[1][1], value[1][2],
		value[2][0], value[2][1], value[2][2],
	}, element)
}

// SetMat44FV sets a mat4 member from a linear.M4, flattening its four
// column V4s into the contiguous column-major layout SetMat44F expects.
func (b *UniformBlockBuilder) SetMat44FV(index int, value linear.M4, element uint32) bool {
	return b.SetMat44F(index, [16]float32{
		value[0][0], value[0][1], value[0][2], value[0][3],
		value[1][0], value[1][1], value[1][2], value[1][3],
		value[2][0], value[2][1], value[2][2], value[2][3],
		value[3][0], value[3][1], value[3][2], value[3][3],
	}, element)
}
