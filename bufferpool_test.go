// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "testing"

// TestBufferPoolRequestUsesSmallestFit exercises the Open Question's
// resolved fix for BufferPool.cpp's find-but-don't-extract bug:
// requestBuffer must return (and remove) the smallest free buffer
// whose size is at least the requested size, not fall through to
// allocating a fresh one.
func TestBufferPoolRequestUsesSmallestFit(t *testing.T) {
	p := newBufferPool(nil)
	small := &Buffer{size: 64}
	mid := &Buffer{size: 128}
	large := &Buffer{size: 256}
	p.free = []*stagingBuffer{{buffer: large}, {buffer: small}, {buffer: mid}}

	got, err := p.requestBuffer(100)
	if err != nil {
		t.Fatalf("requestBuffer: %v", err)
	}
	if got != mid {
		t.Fatalf("requestBuffer(100) = buffer of size %d, want the 128-byte buffer", got.Size())
	}
	if len(p.free) != 2 {
		t.Fatalf("requestBuffer did not remove the returned buffer from the free list: len = %d", len(p.free))
	}
	for _, sb := range p.free {
		if sb.buffer == mid {
			t.Fatal("requestBuffer left the returned buffer in the free list")
		}
	}
}

func TestBufferPoolRequestExactFit(t *testing.T) {
	p := newBufferPool(nil)
	exact := &Buffer{size: 64}
	p.free = []*stagingBuffer{{buffer: exact}}

	got, err := p.requestBuffer(64)
	if err != nil {
		t.Fatalf("requestBuffer: %v", err)
	}
	if got != exact {
		t.Fatal("requestBuffer(64) did not return the exact-size free buffer")
	}
	if len(p.free) != 0 {
		t.Fatalf("free list should be empty after extracting the only buffer, got len = %d", len(p.free))
	}
}

func TestBufferPoolReturnBuffers(t *testing.T) {
	p := newBufferPool(nil)
	a := &Buffer{size: 32}
	b := &Buffer{size: 48}

	p.returnBuffers([]*Buffer{a, b})

	if len(p.free) != 2 {
		t.Fatalf("returnBuffers: len(free) = %d, want 2", len(p.free))
	}

	got, err := p.requestBuffer(32)
	if err != nil {
		t.Fatalf("requestBuffer: %v", err)
	}
	if got != a {
		t.Fatal("requestBuffer(32) after return did not find the returned 32-byte buffer")
	}
}
