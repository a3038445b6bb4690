// Package descriptor computes the Sobel-derived gradient images and
// packs the sparse 16-byte-per-pixel descriptor (C2) that C3 and C7
// match against via internal/simd.
package descriptor

import "github.com/cwbudde/goelas/internal/imgbuf"

// Margin is the minimum distance from the image border within which a
// descriptor is well defined; samples inside Margin read outside the
// gradient images and are never produced by Build.
const Margin = 3

// offset is a relative (du, dv) sample position.
type offset struct{ du, dv int }

// crossOffsets describes the sparse 8-tap cross pattern sampled from
// each gradient image. No reference descriptor.cpp implementation was
// available to copy verbatim (see DESIGN.md); this fixed pattern
// approximates the published 50-D descriptor while packing into a
// single 16-byte, SIMD-loadable word per spec §4.2.
var crossOffsets = [8]offset{
	{0, -2}, {-2, 0}, {2, 0}, {0, 2},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// Set holds the full descriptor image for one view: 16 bytes per pixel,
// row-major, addr(u,v) = 16*(v*width+u).
type Set struct {
	Width, Height int
	Desc          []byte
}

// Addr returns the byte offset of pixel (u,v)'s 16-byte descriptor.
func (s *Set) Addr(u, v int) int {
	return 16 * (v*s.Width + u)
}

// At returns the 16-byte descriptor slice for pixel (u,v).
func (s *Set) At(u, v int) []byte {
	a := s.Addr(u, v)
	return s.Desc[a : a+16]
}

// Energy returns the descriptor's texture measure, Σ|b-128|, used by
// both the support finder and the dense matcher to reject low-texture
// candidates (spec §4.3 step 1, §4.7 validity check).
func Energy(desc []byte) int {
	sum := 0
	for _, b := range desc[:16] {
		d := int(b) - 128
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

// Build computes the Sobel gradient images for buf and packs them into
// a descriptor Set. Pixels within Margin of the border have an
// all-zero descriptor and must not be used as match candidates.
func Build(buf *imgbuf.Buffer) *Set {
	w, h := buf.Width, buf.Height
	du := sobelHorizontal(buf)
	dv := sobelVertical(buf)

	s := &Set{Width: w, Height: h, Desc: make([]byte, 16*w*h)}
	for v := Margin; v < h-Margin; v++ {
		for u := Margin; u < w-Margin; u++ {
			d := s.At(u, v)
			for i, o := range crossOffsets {
				d[i] = du[(v+o.dv)*w+(u+o.du)]
			}
			for i, o := range crossOffsets {
				d[8+i] = dv[(v+o.dv)*w+(u+o.du)]
			}
		}
	}
	return s
}

// sobelHorizontal computes the horizontal derivative with the kernel
// [-1 0 1; -2 0 2; -1 0 1] / 4, biased by 128 and clamped to [0,255] so
// it can be packed as an unsigned descriptor byte.
func sobelHorizontal(buf *imgbuf.Buffer) []uint8 {
	return sobel3x3(buf, func(p [3][3]int) int {
		return -p[0][0] + p[0][2] - 2*p[1][0] + 2*p[1][2] - p[2][0] + p[2][2]
	})
}

// sobelVertical computes the vertical derivative with the transposed
// kernel.
func sobelVertical(buf *imgbuf.Buffer) []uint8 {
	return sobel3x3(buf, func(p [3][3]int) int {
		return -p[0][0] - 2*p[0][1] - p[0][2] + p[2][0] + 2*p[2][1] + p[2][2]
	})
}

func sobel3x3(buf *imgbuf.Buffer, kernel func([3][3]int) int) []uint8 {
	w, h := buf.Width, buf.Height
	out := make([]uint8, w*h)
	for v := 1; v < h-1; v++ {
		for u := 1; u < w-1; u++ {
			var p [3][3]int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					p[dy+1][dx+1] = int(buf.At(u+dx, v+dy))
				}
			}
			raw := kernel(p)/4 + 128
			if raw < 0 {
				raw = 0
			} else if raw > 255 {
				raw = 255
			}
			out[v*w+u] = uint8(raw)
		}
	}
	return out
}
