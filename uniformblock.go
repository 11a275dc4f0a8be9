// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "math"

// MemberDefinition describes a single member of a UniformBlockDefinition.
type MemberDefinition struct {
	Type  UniformFormat
	Name  string
	Count uint32
}

// UniformBlockDefinition is the ordered list of members that make up
// a std140 uniform block.
type UniformBlockDefinition struct {
	Members []MemberDefinition
}

// std140Layout is the per-member (alignment, size, stride) triple
// computed from the std140 layout rules:
// https://registry.khronos.org/OpenGL/specs/gl/glspec45.core.pdf#page=159
type std140Layout struct {
	alignment uint32
	size      uint32
	stride    uint32
}

// getMemberLayout computes the std140 layout of member.
func getMemberLayout(member MemberDefinition) std140Layout {
	const n uint32 = 4
	c := member.Count
	if c == 0 {
		c = 1
	}
	if c > 1 {
		// std140 rule 4: array elements are aligned and strided to vec4.
		elem := getMemberLayout(MemberDefinition{Type: member.Type, Count: 1})
		stride := nextMultipleOf(n*4, elem.stride)
		return std140Layout{n * 4, c * stride, stride}
	}
	switch member.Type {
	case UniformBool, UniformInt32, UniformFloat:
		return std140Layout{n, c * n, n}
	case UniformVec2I, UniformVec2F:
		return std140Layout{n * 2, c * n * 2, n * 2}
	case UniformVec3I, UniformVec3F:
		return std140Layout{n * 4, c * n * 3, n * 4}
	case UniformVec4I, UniformVec4F:
		return std140Layout{n * 4, c * n * 4, n * 4}
	case UniformMat33F:
		// mat3 is stored as 3 columns, each a vec4 (std140 rule 5).
		return std140Layout{n * 4, c * n * 12, n * 12}
	case UniformMat44F:
		return std140Layout{n * 4, c * n * 16, n * 16}
	}
	panic("coral: unknown UniformFormat")
}

// nextMultipleOf rounds v up to the next multiple of n.
func nextMultipleOf(n, v uint32) uint32 {
	if n == 0 {
		return v
	}
	return ((v + n - 1) / n) * n
}

// UniformBlockBuilder packs CPU-side values into a byte buffer laid
// out according to the std140 rules, matching a UniformBlockDefinition.
// It is the host-side counterpart of a GLSL uniform block: the byte
// slice returned by Data is suitable for direct upload to a uniform
// Buffer.
type UniformBlockBuilder struct {
	definition  UniformBlockDefinition
	byteOffsets []uint32
	data        []byte
}

// NewUniformBlockBuilder creates a builder for definition, allocating
// a zero-initialized byte buffer sized according to std140 layout
// rules.
func NewUniformBlockBuilder(definition UniformBlockDefinition) *UniformBlockBuilder {
	b := &UniformBlockBuilder{definition: definition}

	var size uint32
	b.byteOffsets = make([]uint32, len(definition.Members))
	for i, member := range definition.Members {
		layout := getMemberLayout(member)
		size = nextMultipleOf(layout.alignment, size)
		b.byteOffsets[i] = size
		size += layout.size
	}
	// std140 rule 9: the block's size rounds up to a vec4 multiple.
	size = nextMultipleOf(16, size)
	b.data = make([]byte, size)
	return b
}

// Definition returns the UniformBlockDefinition the builder was
// created from.
func (b *UniformBlockBuilder) Definition() UniformBlockDefinition { return b.definition }

// Data returns the packed byte buffer. Its length always equals the
// std140 size of the builder's definition.
func (b *UniformBlockBuilder) Data() []byte { return b.data }

// Size returns len(b.Data()).
func (b *UniformBlockBuilder) Size() int { return len(b.data) }

// SetScalarBool sets a bool member (stored as a 4-byte int, 0 or 1).
func (b *UniformBlockBuilder) SetScalarBool(index int, value bool, element uint32) bool {
	var v int32
	if value {
		v = 1
	}
	return b.setValue(index, UniformBool, int32Bytes(v), element)
}

// SetScalarI sets an int member.
func (b *UniformBlockBuilder) SetScalarI(index int, value int32, element uint32) bool {
	return b.setValue(index, UniformInt32, int32Bytes(value), element)
}

// SetScalarF sets a float member.
func (b *UniformBlockBuilder) SetScalarF(index int, value float32, element uint32) bool {
	return b.setValue(index, UniformFloat, float32Bytes(value), element)
}

// SetScalarBoolByName is the name-addressed counterpart of SetScalarBool.
func (b *UniformBlockBuilder) SetScalarBoolByName(name string, value bool, element uint32) bool {
	var v int32
	if value {
		v = 1
	}
	return b.setValueByName(name, UniformBool, int32Bytes(v), element)
}

// SetScalarIByName is the name-addressed counterpart of SetScalarI.
func (b *UniformBlockBuilder) SetScalarIByName(name string, value int32, element uint32) bool {
	return b.setValueByName(name, UniformInt32, int32Bytes(value), element)
}

// SetScalarFByName is the name-addressed counterpart of SetScalarF.
func (b *UniformBlockBuilder) SetScalarFByName(name string, value float32, element uint32) bool {
	return b.setValueByName(name, UniformFloat, float32Bytes(value), element)
}

// SetVec2F sets a vec2 float member.
func (b *UniformBlockBuilder) SetVec2F(index int, value [2]float32, element uint32) bool {
	return b.setValue(index, UniformVec2F, floatsBytes(value[:]), element)
}

// SetVec3F sets a vec3 float member.
func (b *UniformBlockBuilder) SetVec3F(index int, value [3]float32, element uint32) bool {
	return b.setValue(index, UniformVec3F, floatsBytes(value[:]), element)
}

// SetVec4F sets a vec4 float member.
func (b *UniformBlockBuilder) SetVec4F(index int, value [4]float32, element uint32) bool {
	return b.setValue(index, UniformVec4F, floatsBytes(value[:]), element)
}

// SetVec2I sets a vec2 int member.
func (b *UniformBlockBuilder) SetVec2I(index int, value [2]int32, element uint32) bool {
	return b.setValue(index, UniformVec2I, int32sBytes(value[:]), element)
}

// SetVec3I sets a vec3 int member.
func (b *UniformBlockBuilder) SetVec3I(index int, value [3]int32, element uint32) bool {
	return b.setValue(index, UniformVec3I, int32sBytes(value[:]), element)
}

// SetVec4I sets a vec4 int member.
func (b *UniformBlockBuilder) SetVec4I(index int, value [4]int32, element uint32) bool {
	return b.setValue(index, UniformVec4I, int32sBytes(value[:]), element)
}

// SetMat33F sets a mat3 member. value holds 9 contiguous floats in
// column-major order; the builder expands them into the std140-padded
// layout of three vec4 columns (12 floats, the 4th of each column
// zeroed) before writing.
func (b *UniformBlockBuilder) SetMat33F(index int, value [9]float32, element uint32) bool {
	padded := [12]float32{
		value[0], value[1], value[2], 0,
		value[3], value[4], value[5], 0,
		value[6], value[7], value[8], 0,
	}
	return b.setValue(index, UniformMat33F, floatsBytes(padded[:]), element)
}

// SetMat44F sets a mat4 member. value holds 16 contiguous floats in
// column-major order.
func (b *UniformBlockBuilder) SetMat44F(index int, value [16]float32, element uint32) bool {
	return b.setValue(index, UniformMat44F, floatsBytes(value[:]), element)
}

// setValue writes raw bytes for member index, failing if index is out
// of range, format mismatches the member's declared type, or element
// exceeds the member's declared count.
func (b *UniformBlockBuilder) setValue(index int, format UniformFormat, value []byte, element uint32) bool {
	if index < 0 || index >= len(b.definition.Members) {
		return false
	}
	member := b.definition.Members[index]
	if format != member.Type || element >= countOrOne(member.Count) {
		return false
	}
	return b.setValueUnchecked(index, value, element)
}

// setValueByName resolves name to a member index and delegates to
// setValueUnchecked.
func (b *UniformBlockBuilder) setValueByName(name string, format UniformFormat, value []byte, element uint32) bool {
	for i, member := range b.definition.Members {
		if member.Name == name && element < countOrOne(member.Count) {
			if format != member.Type {
				return false
			}
			return b.setValueUnchecked(i, value, element)
		}
	}
	return false
}

func countOrOne(c uint32) uint32 {
	if c == 0 {
		return 1
	}
	return c
}

// setValueUnchecked copies value into the buffer at the offset for
// member index's element-th array slot. Tail padding bytes within the
// member's stride that are not covered by value are left untouched.
func (b *UniformBlockBuilder) setValueUnchecked(index int, value []byte, element uint32) bool {
	layout := getMemberLayout(b.definition.Members[index])
	offset := b.byteOffsets[index] + element*layout.stride
	if int(offset)+len(value) > len(b.data) {
		return false
	}
	copy(b.data[offset:], value)
	return true
}

func int32Bytes(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
}

func float32Bytes(f float32) []byte {
	return int32Bytes(int32(math.Float32bits(f)))
}

func int32sBytes(vs []int32) []byte {
	out := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, int32Bytes(v)...)
	}
	return out
}

func floatsBytes(vs []float32) []byte {
	out := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, float32Bytes(v)...)
	}
	return out
}
