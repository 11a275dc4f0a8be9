// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package coral

// BufferViewConfig configures BufferView creation.
type BufferViewConfig struct {
	Buffer    *Buffer
	Count     uint32
	Attribute AttributeFormat
	Offset    uint32
	// Stride is the byte stride between elements. If zero, elements are
	// tightly packed and the stride is set to the attribute's size.
	Stride uint32
}

// BufferView provides structured GPU access to a Buffer's data: a
// vertex attribute stream or an index stream.
type BufferView struct {
	buffer    *Buffer
	count     uint32
	attribute AttributeFormat
	offset    uint32
	stride    uint32
}

func newBufferView(cfg BufferViewConfig) (*BufferView, error) {
	if cfg.Buffer == nil {
		return nil, BufferViewErrInvalidBuffer
	}
	if cfg.Count == 0 {
		return nil, BufferViewErrEmptyView
	}

	stride := cfg.Stride
	elemSize := cfg.Attribute.SizeInBytes()
	if stride == 0 {
		stride = elemSize
	}

	if cfg.Attribute.IsIndexFormat() && stride != elemSize {
		return nil, BufferViewErrInvalidStride
	}

	end := uint64(cfg.Offset) + uint64(cfg.Count-1)*uint64(stride) + uint64(elemSize)
	if end > uint64(cfg.Buffer.Size()) {
		return nil, BufferViewErrInvalidSize
	}

	return &BufferView{
		buffer:    cfg.Buffer,
		count:     cfg.Count,
		attribute: cfg.Attribute,
		offset:    cfg.Offset,
		stride:    stride,
	}, nil
}

// Buffer returns the underlying Buffer.
func (v *BufferView) Buffer() *Buffer { return v.buffer }

// Count returns the number of elements in the view.
func (v *BufferView) Count() uint32 { return v.count }

// AttributeFormat returns the format of each element.
func (v *BufferView) AttributeFormat() AttributeFormat { return v.attribute }

// Offset returns the byte offset from the buffer's base address to
// the first element.
func (v *BufferView) Offset() uint32 { return v.offset }

// Stride returns the byte stride between elements.
func (v *BufferView) Stride() uint32 { return v.stride }
