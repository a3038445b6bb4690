// Package scenario generates synthetic rectified stereo pairs for
// exercising elas.Process without touching real image files. Image
// decoding is an explicit external collaborator the pipeline never
// performs itself, so the CLI and diagnostic job server drive it with
// these generators instead.
package scenario

import (
	"fmt"
	"math/rand"
)

// Pair is one synthetic rectified stereo pair plus the ground-truth
// disparity at every pixel (GroundTruth is nil when a scenario has no
// well-defined per-pixel answer).
type Pair struct {
	Width, Height int
	Left, Right   []uint8
	GroundTruth   []float32
}

// Names lists the scenarios Generate accepts, in the order the bench
// command's --scenario flag help lists them.
var Names = []string{"shifted-noise", "fronto-plane", "speckle", "gap", "cones-stand-in"}

// Generate builds the named synthetic scenario at the given size. Seed
// controls the noise pattern; the same (name, width, height, seed)
// always reproduces the same pair.
func Generate(name string, width, height int, seed int64) (Pair, error) {
	switch name {
	case "shifted-noise":
		return shiftedNoise(width, height, seed, 12), nil
	case "fronto-plane":
		return frontoPlane(width, height, seed), nil
	case "speckle":
		return speckleField(width, height, seed), nil
	case "gap":
		return gapField(width, height, seed), nil
	case "cones-stand-in":
		return conesStandIn(width, height, seed), nil
	default:
		return Pair{}, fmt.Errorf("scenario: unknown scenario %q", name)
	}
}

func texturedPlane(width, height int, seed int64) []uint8 {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			base := 64
			if (u/4+v/4)%2 == 0 {
				base = 192
			}
			noise := rng.Intn(40) - 20
			val := base + noise
			if val < 0 {
				val = 0
			}
			if val > 255 {
				val = 255
			}
			pix[v*width+u] = uint8(val)
		}
	}
	return pix
}

func shiftRight(pix []uint8, width, height, shift int) []uint8 {
	out := make([]uint8, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			su := u - shift
			if su >= 0 {
				out[v*width+u] = pix[v*width+su]
			}
		}
	}
	return out
}

// shiftedNoise is a constant-disparity textured plane: every pixel's
// true disparity equals shift, so mean absolute error is well defined
// everywhere except the left border strip uncovered by the shift.
func shiftedNoise(width, height int, seed int64, shift int) Pair {
	left := texturedPlane(width, height, seed)
	right := shiftRight(left, width, height, shift)
	gt := make([]float32, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			if u >= shift {
				gt[v*width+u] = float32(shift)
			} else {
				gt[v*width+u] = -1
			}
		}
	}
	return Pair{Width: width, Height: height, Left: left, Right: right, GroundTruth: gt}
}

// frontoPlane renders a slanted plane whose disparity rises linearly
// with u, from 8 at the left edge to 40 at the right edge.
func frontoPlane(width, height int, seed int64) Pair {
	left := texturedPlane(width, height, seed)
	right := make([]uint8, width*height)
	gt := make([]float32, width*height)
	minShift, maxShift := 8, 40
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			frac := float64(u) / float64(width-1)
			shift := int(float64(minShift) + frac*float64(maxShift-minShift))
			su := u - shift
			if su >= 0 {
				right[v*width+u] = left[v*width+su]
				gt[v*width+u] = float32(shift)
			} else {
				gt[v*width+u] = -1
			}
		}
	}
	return Pair{Width: width, Height: height, Left: left, Right: right, GroundTruth: gt}
}

// speckleField is a shifted-noise pair with a handful of small,
// isolated foreground islands punched in at a different disparity, to
// exercise speckle removal (C9).
func speckleField(width, height int, seed int64) Pair {
	p := shiftedNoise(width, height, seed, 20)
	rng := rand.New(rand.NewSource(seed + 1))
	islandShift := 45
	for i := 0; i < 6; i++ {
		cx := 10 + rng.Intn(width-20)
		cy := 10 + rng.Intn(height-20)
		size := 3 + rng.Intn(3)
		for dy := -size; dy <= size; dy++ {
			for dx := -size; dx <= size; dx++ {
				u, v := cx+dx, cy+dy
				if u < 0 || u >= width || v < 0 || v >= height {
					continue
				}
				su := u - islandShift
				if su >= 0 {
					p.Right[v*width+u] = p.Left[v*width+su]
					p.GroundTruth[v*width+u] = float32(islandShift)
				}
			}
		}
	}
	return p
}

// gapField is a shifted-noise pair with a rectangular low-texture hole
// punched into both views, producing a region with no support points
// that C10's gap interpolation must fill from its border.
func gapField(width, height int, seed int64) Pair {
	p := shiftedNoise(width, height, seed, 18)
	x0, y0 := width/3, height/3
	x1, y1 := x0+width/6, y0+height/6
	for v := y0; v < y1 && v < height; v++ {
		for u := x0; u < x1 && u < width; u++ {
			p.Left[v*width+u] = 128
			p.Right[v*width+u] = 128
			p.GroundTruth[v*width+u] = -1
		}
	}
	return p
}

// conesStandIn is a small synthetic stand-in for the Middlebury
// "cones" pair: a few fronto-parallel steps at different disparities,
// approximating the piecewise-planar structure the MIDDLEBURY preset
// is tuned for, since the real dataset requires network access this
// repo does not perform.
func conesStandIn(width, height int, seed int64) Pair {
	left := texturedPlane(width, height, seed)
	right := make([]uint8, width*height)
	gt := make([]float32, width*height)
	steps := []int{10, 22, 35, 50}
	band := width / len(steps)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			shift := steps[min(u/band, len(steps)-1)]
			su := u - shift
			if su >= 0 {
				right[v*width+u] = left[v*width+su]
				gt[v*width+u] = float32(shift)
			} else {
				gt[v*width+u] = -1
			}
		}
	}
	return Pair{Width: width, Height: height, Left: left, Right: right, GroundTruth: gt}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
