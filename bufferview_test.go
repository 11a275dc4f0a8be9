// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

import "testing"

func TestBufferViewEmptyCountFails(t *testing.T) {
	buf := &Buffer{size: 256}
	_, err := newBufferView(BufferViewConfig{
		Buffer:    buf,
		Count:     0,
		Attribute: Float,
	})
	if err != BufferViewErrEmptyView {
		t.Fatalf("newBufferView(count=0) = %v, want BufferViewErrEmptyView", err)
	}
}

func TestBufferViewNilBufferFails(t *testing.T) {
	_, err := newBufferView(BufferViewConfig{Count: 1, Attribute: Float})
	if err != BufferViewErrInvalidBuffer {
		t.Fatalf("newBufferView(buffer=nil) = %v, want BufferViewErrInvalidBuffer", err)
	}
}

func TestBufferViewBoundsCheck(t *testing.T) {
	buf := &Buffer{size: 16}

	// offset + (count-1)*stride + sizeof(attribute) == 16, exactly fits.
	v, err := newBufferView(BufferViewConfig{Buffer: buf, Count: 4, Attribute: Float})
	if err != nil {
		t.Fatalf("exact-fit view rejected: %v", err)
	}
	if v.Stride() != 4 {
		t.Fatalf("tightly packed stride = %d, want 4", v.Stride())
	}

	// One element over the end of the buffer.
	if _, err := newBufferView(BufferViewConfig{Buffer: buf, Count: 5, Attribute: Float}); err != BufferViewErrInvalidSize {
		t.Fatalf("over-bounds view = %v, want BufferViewErrInvalidSize", err)
	}

	// A non-zero offset that pushes the view past the buffer's end.
	if _, err := newBufferView(BufferViewConfig{Buffer: buf, Count: 4, Attribute: Float, Offset: 4}); err != BufferViewErrInvalidSize {
		t.Fatalf("offset-overrun view = %v, want BufferViewErrInvalidSize", err)
	}
}

func TestBufferViewIndexStrideMustBeTightlyPacked(t *testing.T) {
	buf := &Buffer{size: 64}

	// stride=0 normalizes to sizeof(attribute); this is the only other
	// stride an INDEX buffer view may use.
	v, err := newBufferView(BufferViewConfig{Buffer: buf, Count: 4, Attribute: UInt32})
	if err != nil {
		t.Fatalf("tightly packed index view rejected: %v", err)
	}
	if v.Stride() != 4 {
		t.Fatalf("index view stride = %d, want 4", v.Stride())
	}

	// Any other explicit stride is rejected for index formats.
	if _, err := newBufferView(BufferViewConfig{
		Buffer: buf, Count: 4, Attribute: UInt32, Stride: 8,
	}); err != BufferViewErrInvalidStride {
		t.Fatalf("padded-stride index view = %v, want BufferViewErrInvalidStride", err)
	}
}

func TestBufferViewNonIndexStrideMayBePadded(t *testing.T) {
	buf := &Buffer{size: 64}

	// Non-index formats may use an arbitrary (larger) stride, e.g. for
	// an interleaved vertex layout.
	v, err := newBufferView(BufferViewConfig{Buffer: buf, Count: 2, Attribute: Vec3F, Stride: 32})
	if err != nil {
		t.Fatalf("interleaved vertex view rejected: %v", err)
	}
	if v.Stride() != 32 {
		t.Fatalf("explicit stride = %d, want 32", v.Stride())
	}
}
