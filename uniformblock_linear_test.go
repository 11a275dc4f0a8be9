// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kestrelgpu/coral/linear"
)

func TestUniformBlockBuilderSetVec3FV(t *testing.T) {
	definition := UniformBlockDefinition{Members: []MemberDefinition{
		{Type: UniformVec3F, Name: "a", Count: 1},
	}}
	b := NewUniformBlockBuilder(definition)
	v := linear.V3{1, 2, 3}
	if !b.SetVec3FV(0, v, 0) {
		t.Fatal("SetVec3FV with valid element should succeed")
	}
	got := append([]byte(nil), b.Data()...)
	if !b.SetVec3F(0, [3]float32(v), 0) {
		t.Fatal("reference SetVec3F call should succeed")
	}
	if string(got) != string(b.Data()) {
		t.Fatal("SetVec3FV packed different bytes than SetVec3F")
	}
}

func TestUniformBlockBuilderSetMat44FV(t *testing.T) {
	definition := UniformBlockDefinition{Members: []MemberDefinition{
		{Type: UniformMat44F, Name: "a", Count: 1},
	}}
	b := NewUniformBlockBuilder(definition)
	m := linear.M4{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 16},
	}
	if !b.SetMat44FV(0, m, 0) {
		t.Fatal("SetMat44FV with valid element should succeed")
	}
	want := [16]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	got := append([]byte(nil), b.Data()...)
	if !b.SetMat44F(0, want, 0) {
		t.Fatal("reference SetMat44F call should succeed")
	}
	if string(got) != string(b.Data()) {
		t.Fatal("SetMat44FV packed different bytes than SetMat44F")
	}
}

// TestUniformBlockBuilderSetVec3FNormalized exercises the linear/math32
// Sqrt path: a non-unit direction must come out unit length in the
// packed bytes.
func TestUniformBlockBuilderSetVec3FNormalized(t *testing.T) {
	definition := UniformBlockDefinition{Members: []MemberDefinition{
		{Type: UniformVec3F, Name: "dir", Count: 1},
	}}
	b := NewUniformBlockBuilder(definition)
	if !b.SetVec3FNormalized(0, linear.V3{0, 3, 4}, 0) {
		t.Fatal("SetVec3FNormalized with valid element should succeed")
	}

	data := b.Data()
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(data[4:8]))
	z := math.Float32frombits(binary.LittleEndian.Uint32(data[8:12]))

	const eps = 1e-6
	if x < -eps || x > eps {
		t.Fatalf("x = %v, want ~0", x)
	}
	if diff := y - 0.6; diff < -eps || diff > eps {
		t.Fatalf("y = %v, want ~0.6", y)
	}
	if diff := z - 0.8; diff < -eps || diff > eps {
		t.Fatalf("z = %v, want ~0.8", z)
	}
}

