// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestUniformBlockBuilderLayout(t *testing.T) {
	definition := UniformBlockDefinition{
		Members: []MemberDefinition{
			{Type: UniformFloat, Name: "m1", Count: 1},
			{Type: UniformMat44F, Name: "m2", Count: 1},
			{Type: UniformVec2F, Name: "m3", Count: 1},
			{Type: UniformMat33F, Name: "m4", Count: 1},
			{Type: UniformVec3F, Name: "m5", Count: 1},
			{Type: UniformFloat, Name: "m6", Count: 1},
			{Type: UniformVec4F, Name: "m7", Count: 1},
			{Type: UniformVec2F, Name: "m8", Count: 1},
			{Type: UniformVec3F, Name: "m9", Count: 1},
		},
	}

	b := NewUniformBlockBuilder(definition)

	// Equivalent std140-padded struct layout (offsets in bytes):
	// m1   float   @0
	// a1   pad     @4  (12 bytes, aligning m2 to 16)
	// m2   mat4    @16 (64 bytes)
	// m3   vec2    @80
	// a2   pad     @88 (8 bytes, aligning m4 to 16)
	// m4   mat3    @96 (48 bytes, as 3x vec4)
	// m5   vec3    @144
	// m6   float   @156
	// m7   vec4    @160
	// m8   vec2    @176
	// a5   pad     @184 (8 bytes, aligning m9 to 16)
	// m9   vec3    @192 (12 bytes, rounded to 16 for total size)
	const wantSize = 208
	if got := b.Size(); got != wantSize {
		t.Fatalf("Size() = %d, want %d", got, wantSize)
	}

	counter := float32(1)
	next := func() float32 { v := counter; counter++; return v }

	b.SetScalarF(0, next(), 0)
	var m2 [16]float32
	for i := range m2 {
		m2[i] = next()
	}
	b.SetMat44F(1, m2, 0)
	var m3 [2]float32
	for i := range m3 {
		m3[i] = next()
	}
	b.SetVec2F(2, m3, 0)
	var m4 [9]float32
	for i := range m4 {
		m4[i] = next()
	}
	b.SetMat33F(3, m4, 0)
	var m5 [3]float32
	for i := range m5 {
		m5[i] = next()
	}
	b.SetVec3F(4, m5, 0)
	m6 := next()
	b.SetScalarF(5, m6, 0)
	var m7 [4]float32
	for i := range m7 {
		m7[i] = next()
	}
	b.SetVec4F(6, m7, 0)
	var m8 [2]float32
	for i := range m8 {
		m8[i] = next()
	}
	b.SetVec2F(7, m8, 0)
	var m9 [3]float32
	for i := range m9 {
		m9[i] = next()
	}
	b.SetVec3F(8, m9, 0)

	data := b.Data()
	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}

	checkF32 := func(name string, off int, want float32) {
		t.Helper()
		if got := readF32(off); got != want {
			t.Errorf("%s @%d = %v, want %v", name, off, got, want)
		}
	}

	checkF32("m1", 0, 1)
	for i, v := range m2 {
		checkF32("m2", 16+i*4, v)
	}
	checkF32("m3.x", 80, m3[0])
	checkF32("m3.y", 84, m3[1])
	// m4 is expanded into 3 padded vec4 columns.
	checkF32("m4.col0.x", 96, m4[0])
	checkF32("m4.col0.y", 100, m4[1])
	checkF32("m4.col0.z", 104, m4[2])
	checkF32("m4.col1.x", 112, m4[3])
	checkF32("m4.col1.y", 116, m4[4])
	checkF32("m4.col1.z", 120, m4[5])
	checkF32("m4.col2.x", 128, m4[6])
	checkF32("m4.col2.y", 132, m4[7])
	checkF32("m4.col2.z", 136, m4[8])
	for i, v := range m5 {
		checkF32("m5", 144+i*4, v)
	}
	checkF32("m6", 156, m6)
	for i, v := range m7 {
		checkF32("m7", 160+i*4, v)
	}
	for i, v := range m8 {
		checkF32("m8", 176+i*4, v)
	}
	for i, v := range m9 {
		checkF32("m9", 192+i*4, v)
	}
}

func TestUniformBlockBuilderBoundaryFailures(t *testing.T) {
	b := NewUniformBlockBuilder(UniformBlockDefinition{Members: []MemberDefinition{
		{Type: UniformFloat, Name: "a", Count: 2},
	}})

	if b.SetScalarF(5, 1, 0) {
		t.Fatal("SetScalarF with out-of-range index should fail")
	}
	if b.SetScalarI(0, 1, 0) {
		t.Fatal("SetScalarI with mismatched type should fail")
	}
	if b.SetScalarF(0, 1, 2) {
		t.Fatal("SetScalarF with out-of-range element should fail")
	}
	if !b.SetScalarF(0, 1, 1) {
		t.Fatal("SetScalarF with valid element should succeed")
	}
}

func TestUniformBlockBuilderIdempotent(t *testing.T) {
	definition := UniformBlockDefinition{Members: []MemberDefinition{
		{Type: UniformVec4F, Name: "a", Count: 1},
	}}
	b := NewUniformBlockBuilder(definition)
	b.SetVec4F(0, [4]float32{1, 2, 3, 4}, 0)
	first := append([]byte(nil), b.Data()...)
	b.SetVec4F(0, [4]float32{1, 2, 3, 4}, 0)
	second := b.Data()
	if string(first) != string(second) {
		t.Fatal("repeated identical Set followed by Data should be idempotent")
	}
}
