// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import (
	"testing"

	"github.com/kestrelgpu/coral/vk"
)

func TestVkLoadOp(t *testing.T) {
	cases := map[LoadOp]vk.AttachmentLoadOp{
		LoadClear:    vk.AttachmentLoadOpClear,
		LoadLoad:     vk.AttachmentLoadOpLoad,
		LoadDontCare: vk.AttachmentLoadOpDontCare,
	}
	for op, want := range cases {
		if got := vkLoadOp(op); got != want {
			t.Fatalf("vkLoadOp(%v) = %v, want %v", op, got, want)
		}
	}
}

func TestVkIndexType(t *testing.T) {
	if vkIndexType(UInt16) != vk.IndexTypeUint16 {
		t.Fatalf("vkIndexType(UInt16) = %v, want IndexTypeUint16", vkIndexType(UInt16))
	}
	if vkIndexType(UInt32) != vk.IndexTypeUint32 {
		t.Fatalf("vkIndexType(UInt32) = %v, want IndexTypeUint32", vkIndexType(UInt32))
	}
}
