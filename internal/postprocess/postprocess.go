// Package postprocess implements the two optional disparity-map
// cleanup filters (C11): a separable adaptive-mean (bilateral-style)
// smoother and a separable two-pass median filter. Both operate on a
// width*height (or half-resolution) float32 buffer using the -10/-1
// sentinel convention.
package postprocess

// AdaptiveMean runs the row pass then the column pass of the
// bilateral-style smoother. Window width is 8 in full resolution, 4
// when subsampling is enabled; weight for a sample x against the
// window centre x_c is max(0, 4-|x-x_c|).
//
// The row pass writes into a scratch buffer while reading the
// original input, and the column pass reads that scratch buffer while
// writing the final output — but the column index used to locate the
// pass-one centre sample is offset from the outer loop index by the
// same asymmetric amount as the row pass (3 in full resolution, 1 when
// subsampling). This asymmetry reproduces the reference filter
// byte-for-byte and must not be "corrected" into a symmetric window.
func AdaptiveMean(d []float32, width, height int, subsampling bool) {
	w, h := width, height
	if subsampling {
		w, h = width/2, height/2
	}

	copyBuf := make([]float32, w*h)
	tmp := make([]float32, w*h)
	copy(copyBuf, d)
	for i, v := range d {
		if v < 0 {
			copyBuf[i] = -10
			tmp[i] = -10
		}
	}

	winWidth := 8
	centerBack := 3
	if subsampling {
		winWidth = 4
		centerBack = 1
	}

	// Horizontal pass: read copyBuf, write tmp.
	for v := 3; v < h-3; v++ {
		base := v * w
		for u := winWidth - 1; u < w; u++ {
			center := u - centerBack
			windowStart := u - winWidth + 1
			valCurr := copyBuf[base+center]

			var sumW, sumF float32
			for off := 0; off < winWidth; off++ {
				val := copyBuf[base+windowStart+off]
				wgt := float32(4) - absf32(val-valCurr)
				if wgt < 0 {
					wgt = 0
				}
				sumW += wgt
				sumF += wgt * val
			}
			if sumW > 0 {
				dv := sumF / sumW
				if dv >= 0 {
					tmp[base+center] = dv
				}
			}
		}
	}

	// Vertical pass: read tmp, write d.
	for u := 3; u < w-3; u++ {
		for v := winWidth - 1; v < h; v++ {
			center := v - centerBack
			windowStart := v - winWidth + 1
			valCurr := tmp[center*w+u]

			var sumW, sumF float32
			for off := 0; off < winWidth; off++ {
				val := tmp[(windowStart+off)*w+u]
				wgt := float32(4) - absf32(val-valCurr)
				if wgt < 0 {
					wgt = 0
				}
				sumW += wgt
				sumF += wgt * val
			}
			if sumW > 0 {
				dv := sumF / sumW
				if dv >= 0 {
					d[center*w+u] = dv
				}
			}
		}
	}
}

// Median runs a two-pass separable 3x3 median (window radius 3 in
// each pass, 7 samples via insertion sort). Only pixels with d >= 0 in
// the ORIGINAL input are updated by either pass; the second pass's
// fallback branch re-reads the original d (not the row-pass scratch
// buffer) for pixels the first pass skipped, matching the reference
// implementation's (intentional-looking) self-assignment.
func Median(d []float32, width, height int, subsampling bool) {
	w, h := width, height
	if subsampling {
		w, h = width/2, height/2
	}
	const windowSize = 3

	tmp := make([]float32, w*h)

	for u := windowSize; u < w-windowSize; u++ {
		for v := windowSize; v < h-windowSize; v++ {
			idx := v*w + u
			if d[idx] >= 0 {
				tmp[idx] = insertionMedian(d, u-windowSize, u+windowSize, v, w, true)
			} else {
				tmp[idx] = d[idx]
			}
		}
	}

	for u := windowSize; u < w-windowSize; u++ {
		for v := windowSize; v < h-windowSize; v++ {
			idx := v*w + u
			if d[idx] >= 0 {
				d[idx] = insertionMedian(tmp, v-windowSize, v+windowSize, u, w, false)
			}
			// else: leave d[idx] as-is (self-assignment in the reference).
		}
	}
}

// insertionMedian gathers lo..hi samples along a row (horizontal=true,
// fixed v=other) or column (horizontal=false, fixed u=other) from buf
// and returns the middle element of the insertion-sorted window.
func insertionMedian(buf []float32, lo, hi, other, width int, horizontal bool) float32 {
	n := hi - lo + 1
	vals := make([]float32, 0, n)
	for k := lo; k <= hi; k++ {
		var idx int
		if horizontal {
			idx = other*width + k
		} else {
			idx = k*width + other
		}
		val := buf[idx]
		j := len(vals) - 1
		vals = append(vals, 0)
		for j >= 0 && vals[j] > val {
			vals[j+1] = vals[j]
			j--
		}
		vals[j+1] = val
	}
	return vals[n/2]
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
