// Package interp fills short invalid runs in a dense disparity map
// (C10): a row-wise pass followed by a column-wise pass, each optionally
// extrapolating to the image borders.
package interp

// Fill runs the row pass then the column pass over d in place.
// gapWidth is the maximum run length eligible for interior filling;
// addCorners also extrapolates from the outermost valid pixel to the
// nearest border, up to gapWidth pixels.
func Fill(d []float32, width, height int, gapWidth int, addCorners bool) {
	rowPass(d, width, height, gapWidth, addCorners)
	colPass(d, width, height, gapWidth, addCorners)
}

func rowPass(d []float32, width, height, gapWidth int, addCorners bool) {
	for v := 0; v < height; v++ {
		base := v * width
		fillLine(d, base, 1, width, gapWidth, addCorners)
	}
}

func colPass(d []float32, width, height, gapWidth int, addCorners bool) {
	for u := 0; u < width; u++ {
		fillLine(d, u, width, height, gapWidth, addCorners)
	}
}

// fillLine scans a 1-D line of n samples starting at base with the
// given stride, filling interior gaps and (optionally) extrapolating
// to both ends.
func fillLine(d []float32, base, stride, n, gapWidth int, addCorners bool) {
	idx := func(i int) int { return base + i*stride }

	firstValid := -1
	lastValid := -1
	i := 0
	for i < n {
		if d[idx(i)] < 0 {
			start := i
			for i < n && d[idx(i)] < 0 {
				i++
			}
			runLen := i - start
			leftOK := start > 0
			rightOK := i < n
			if leftOK && rightOK && runLen <= gapWidth {
				dl := d[idx(start-1)]
				dr := d[idx(i)]
				var fill float32
				if absf32(dl-dr) < 3.0 {
					fill = (dl + dr) / 2
				} else {
					fill = minf32(dl, dr)
				}
				for k := start; k < i; k++ {
					d[idx(k)] = fill
				}
			}
			continue
		}
		if firstValid < 0 {
			firstValid = i
		}
		lastValid = i
		i++
	}

	if !addCorners || firstValid < 0 {
		return
	}

	fv := d[idx(firstValid)]
	for k := firstValid - 1; k >= 0 && firstValid-k <= gapWidth; k-- {
		if d[idx(k)] < 0 {
			d[idx(k)] = fv
		}
	}
	lv := d[idx(lastValid)]
	for k := lastValid + 1; k < n && k-lastValid <= gapWidth; k++ {
		if d[idx(k)] < 0 {
			d[idx(k)] = lv
		}
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
