// Package support implements the support-point finder (C3): a coarse
// lattice of high-confidence correspondences used to anchor the
// Delaunay triangulation and dense-matching prior.
package support

import (
	"github.com/cwbudde/goelas/internal/descriptor"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/simd"
)

// Point is a single robust correspondence (u,v,d).
type Point struct {
	U, V, D int32
}

const (
	matchWindowSize = 3
	matchStep       = 2
	redunMaxDist    = 5
	redunThreshold  = 1
)

// ComputeSupportMatches runs the full C3 pipeline: lattice candidate
// matching with forward/backward cross-check, inconsistent- and
// redundant-support removal, and (if enabled) corner anchoring.
func ComputeSupportMatches(left, right *descriptor.Set, width, height int, p elasconfig.Parameters) []Point {
	step := int(stepSize(p))
	margin := matchWindowSize + matchStep

	var gridU, gridV []int
	for u := margin; u < width-margin; u += step {
		gridU = append(gridU, u)
	}
	for v := margin; v < height-margin; v += step {
		gridV = append(gridV, v)
	}
	if len(gridU) == 0 || len(gridV) == 0 {
		return nil
	}

	dCan := make([][]int32, len(gridV))
	for j := range dCan {
		dCan[j] = make([]int32, len(gridU))
		for i := range dCan[j] {
			dCan[j][i] = -1
		}
	}

	for j, v := range gridV {
		for i, u := range gridU {
			d, ok := findMatch(left, right, width, height, u, v, false, p)
			if !ok {
				continue
			}
			d2, ok2 := findMatch(right, left, width, height, u-int(d), v, true, p)
			if !ok2 {
				continue
			}
			if abs32(d-d2) <= p.LRThreshold {
				dCan[j][i] = d
			}
		}
	}

	removeInconsistentSupportPoints(dCan, p)
	removeRedundantSupportPoints(dCan, true)
	removeRedundantSupportPoints(dCan, false)

	var pts []Point
	for j, v := range gridV {
		for i, u := range gridU {
			if dCan[j][i] >= 0 {
				pts = append(pts, Point{U: int32(u), V: int32(v), D: dCan[j][i]})
			}
		}
	}

	if p.AddCorners {
		pts = addCornerSupportPoints(pts, width, height)
	}
	return pts
}

func stepSize(p elasconfig.Parameters) int32 {
	step := p.CandidateStepSize
	if p.Subsampling && step%2 != 0 {
		step++
	}
	return step
}

// findMatch mirrors computeMatchingDisparity: it searches the
// permissible disparity window for the candidate pixel using four
// diagonal 16-byte descriptor blocks reduced via SAD, and accepts only
// when the best cost beats the second best by support_threshold.
func findMatch(cur, other *descriptor.Set, width, height, u, v int, rightImage bool, p elasconfig.Parameters) (int32, bool) {
	if u < matchWindowSize+matchStep || u >= width-matchWindowSize-matchStep {
		return 0, false
	}
	if v < matchWindowSize+matchStep || v >= height-matchWindowSize-matchStep {
		return 0, false
	}
	if descriptor.Energy(cur.At(u, v)) < int(p.SupportTexture) {
		return 0, false
	}

	offsets := [4][2]int{
		{-matchStep, -matchStep}, {matchStep, -matchStep},
		{-matchStep, matchStep}, {matchStep, matchStep},
	}

	var dispMaxValid int32
	if !rightImage {
		dispMaxValid = min32(p.DispMax, int32(u-matchWindowSize-matchStep))
	} else {
		dispMaxValid = min32(p.DispMax, int32(width-u-matchWindowSize-matchStep))
	}
	dispMinValid := p.DispMin
	if dispMaxValid-dispMinValid < 10 {
		return 0, false
	}

	min1E, min1D := int32(-1), int32(-1)
	min2E := int32(-1)

	for d := dispMinValid; d <= dispMaxValid; d++ {
		var sum int32
		valid := true
		for _, o := range offsets {
			cu, cv := u+o[0], v+o[1]
			var ou int
			if !rightImage {
				ou = cu - int(d)
			} else {
				ou = cu + int(d)
			}
			if ou < 0 || ou >= width || cv < 0 || cv >= height {
				valid = false
				break
			}
			sum += simd.SAD16(cur.At(cu, cv), other.At(ou, cv))
		}
		if !valid {
			continue
		}
		switch {
		case min1D < 0 || sum < min1E:
			min2E = min1E
			min1E, min1D = sum, d
		case min2E < 0 || sum < min2E:
			min2E = sum
		}
	}

	if min1D < 0 || min2E < 0 {
		return 0, false
	}
	if float32(min1E) < p.SupportThreshold*float32(min2E) {
		return min1D, true
	}
	return 0, false
}

// removeInconsistentSupportPoints invalidates a candidate whose
// (2*incon_window_size+1)^2 neighbourhood contains fewer than
// incon_min_support candidates (the candidate itself included) within
// incon_threshold disparity.
func removeInconsistentSupportPoints(d [][]int32, p elasconfig.Parameters) {
	nv := len(d)
	if nv == 0 {
		return
	}
	nu := len(d[0])
	win := int(p.InconWindowSize)
	orig := cloneGrid(d)
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			if orig[j][i] < 0 {
				continue
			}
			count := 0
			for jj := maxInt(0, j-win); jj <= minInt(nv-1, j+win); jj++ {
				for ii := maxInt(0, i-win); ii <= minInt(nu-1, i+win); ii++ {
					if orig[jj][ii] < 0 {
						continue
					}
					if abs32(orig[j][i]-orig[jj][ii]) <= p.InconThreshold {
						count++
					}
				}
			}
			if int32(count) < p.InconMinSupport {
				d[j][i] = -1
			}
		}
	}
}

// removeRedundantSupportPoints invalidates a candidate when both
// opposite search directions (vertical or horizontal) find, within
// redunMaxDist steps, another candidate whose disparity agrees within
// redunThreshold.
func removeRedundantSupportPoints(d [][]int32, vertical bool) {
	nv := len(d)
	if nv == 0 {
		return
	}
	nu := len(d[0])
	orig := cloneGrid(d)
	for j := 0; j < nv; j++ {
		for i := 0; i < nu; i++ {
			cur := orig[j][i]
			if cur < 0 {
				continue
			}
			found1, found2 := false, false
			for s := 1; s <= redunMaxDist; s++ {
				if vertical {
					if j-s >= 0 && orig[j-s][i] >= 0 && abs32(cur-orig[j-s][i]) <= redunThreshold {
						found1 = true
					}
					if j+s < nv && orig[j+s][i] >= 0 && abs32(cur-orig[j+s][i]) <= redunThreshold {
						found2 = true
					}
				} else {
					if i-s >= 0 && orig[j][i-s] >= 0 && abs32(cur-orig[j][i-s]) <= redunThreshold {
						found1 = true
					}
					if i+s < nu && orig[j][i+s] >= 0 && abs32(cur-orig[j][i+s]) <= redunThreshold {
						found2 = true
					}
				}
				if found1 && found2 {
					break
				}
			}
			if found1 && found2 {
				d[j][i] = -1
			}
		}
	}
}

// addCornerSupportPoints appends supports at the four image corners
// (disparity copied from the nearest existing support by squared
// distance) plus two right-view anchors at (u+d, v) for the two
// right-side corners.
func addCornerSupportPoints(pts []Point, width, height int) []Point {
	if len(pts) == 0 {
		return pts
	}
	corners := [4][2]int32{
		{0, 0}, {0, int32(height - 1)},
		{int32(width - 1), 0}, {int32(width - 1), int32(height - 1)},
	}
	var anchors [4]Point
	for k, c := range corners {
		best := pts[0]
		bestDist := int64(1) << 62
		for _, pt := range pts {
			du := int64(pt.U - c[0])
			dv := int64(pt.V - c[1])
			dist := du*du + dv*dv
			if dist < bestDist {
				bestDist = dist
				best = pt
			}
		}
		anchors[k] = Point{U: c[0], V: c[1], D: best.D}
	}
	pts = append(pts, anchors[0], anchors[1], anchors[2], anchors[3])
	pts = append(pts,
		Point{U: anchors[2].U + anchors[2].D, V: anchors[2].V, D: anchors[2].D},
		Point{U: anchors[3].U + anchors[3].D, V: anchors[3].V, D: anchors[3].D},
	)
	return pts
}

func cloneGrid(d [][]int32) [][]int32 {
	out := make([][]int32, len(d))
	for i, row := range d {
		out[i] = append([]int32(nil), row...)
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
