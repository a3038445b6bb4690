// Package imgbuf implements the 16-byte-aligned, row-padded image
// buffers (C1) that every downstream stage of the stereo pipeline reads
// from. Input images are copied in once at the start of a Process call
// and never mutated.
package imgbuf

// Buffer is an 8-bit grayscale image padded so every row starts on a
// 16-byte boundary, letting descriptor construction (C2) issue aligned
// SIMD-width loads.
type Buffer struct {
	Width, Height int
	BytesPerLine  int
	Pix           []uint8
}

// AlignedBytesPerLine returns the row stride that keeps every row
// 16-byte aligned, matching the reference bpl formula exactly:
// bpl = width + 15 − (width−1) mod 16.
func AlignedBytesPerLine(width int) int {
	return width + 15 - (width-1)%16
}

// New allocates a zeroed buffer of the given logical dimensions.
func New(width, height int) *Buffer {
	bpl := AlignedBytesPerLine(width)
	return &Buffer{
		Width:        width,
		Height:       height,
		BytesPerLine: bpl,
		Pix:          make([]uint8, bpl*height),
	}
}

// FromRows copies a caller-owned grayscale image (width x height, row
// stride srcStride) into a freshly allocated aligned Buffer. Bytes
// beyond width in each row are left zero.
func FromRows(width, height, srcStride int, src []uint8) *Buffer {
	buf := New(width, height)
	if srcStride == buf.BytesPerLine {
		copy(buf.Pix, src[:buf.BytesPerLine*height])
		return buf
	}
	for y := 0; y < height; y++ {
		srcRow := src[y*srcStride : y*srcStride+width]
		dstRow := buf.Pix[y*buf.BytesPerLine : y*buf.BytesPerLine+width]
		copy(dstRow, srcRow)
	}
	return buf
}

// At returns the pixel value at (u,v). Callers are responsible for
// staying within [0,width)x[0,height); no bounds check is performed on
// the hot path elsewhere, but At is safe for tests and tooling.
func (b *Buffer) At(u, v int) uint8 {
	return b.Pix[v*b.BytesPerLine+u]
}

// RowOffset returns the byte offset of the first pixel of row v.
func (b *Buffer) RowOffset(v int) int {
	return v * b.BytesPerLine
}
