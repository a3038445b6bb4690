// Package consistency enforces left-right agreement between the two
// dense disparity maps produced by C7 (C8).
package consistency

// Enforce invalidates pixels whose D1/D2 mapping disagrees beyond
// threshold. Reads happen against copies of both inputs so the two
// maps update consistently regardless of iteration order. halfRes
// halves the disparity used to compute the cross-view column.
func Enforce(d1, d2 []float32, width, height int, threshold int32, halfRes bool) {
	src1 := append([]float32(nil), d1...)
	src2 := append([]float32(nil), d2...)

	checkOne(d1, src1, src2, width, height, threshold, halfRes, false)
	checkOne(d2, src2, src1, width, height, threshold, halfRes, true)
}

func checkOne(dst []float32, src, other []float32, width, height int, threshold int32, halfRes, addDisparity bool) {
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			idx := v*width + u
			d := src[idx]
			if d < 0 {
				dst[idx] = -10
				continue
			}
			shift := d
			if halfRes {
				shift = d / 2
			}
			var uPrime int
			if addDisparity {
				uPrime = u + int(shift)
			} else {
				uPrime = u - int(shift)
			}
			if uPrime < 0 || uPrime >= width {
				dst[idx] = -10
				continue
			}
			od := other[v*width+uPrime]
			if od < 0 || absf32(od-d) > float32(threshold) {
				dst[idx] = -10
			}
		}
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
