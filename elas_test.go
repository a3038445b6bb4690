package elas

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/goelas/internal/elasconfig"
)

func flatInput(width, height int, value uint8) Input {
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = value
	}
	return Input{Width: width, Height: height, Stride: width, Pix: pix}
}

// S1: a constant image pair carries no texture, so no supports pass
// the texture gate and the pipeline reports ErrInsufficientSupports.
func TestProcessConstantImageReportsInsufficientSupports(t *testing.T) {
	left := flatInput(256, 256, 128)
	right := flatInput(256, 256, 128)
	p := elasconfig.Robotics()

	_, _, err := Process(left, right, p)
	if err != ErrInsufficientSupports {
		t.Fatalf("err = %v, want ErrInsufficientSupports", err)
	}
}

func randomTexturedInput(width, height int, seed int64) []uint8 {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			// Checkerboard-biased noise: guarantees strong local gradients
			// everywhere so the descriptor energy gate is never starved.
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

// S2: a shifted textured pair should recover a disparity map
// dominated by the known shift at interior pixels.
func TestProcessShiftedTexturedPairRecoversDisparity(t *testing.T) {
	width, height, shift := 200, 150, 25
	leftPix := randomTexturedInput(width, height, 7)
	rightPix := shiftRight(leftPix, width, height, shift)

	left := Input{Width: width, Height: height, Stride: width, Pix: leftPix}
	right := Input{Width: width, Height: height, Stride: width, Pix: rightPix}

	p := elasconfig.Robotics()
	d1, d2, err := Process(left, right, p)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	margin := 20
	checkNearShift := func(name string, d []float32) {
		var total, close int
		for v := margin; v < height-margin; v++ {
			for u := margin; u < width-margin; u++ {
				dv := d[v*width+u]
				if dv < 0 {
					continue
				}
				total++
				if absf(dv-float32(shift)) <= 1 {
					close++
				}
			}
		}
		if total == 0 {
			t.Fatalf("%s: no valid interior disparities were produced", name)
		}
		if ratio := float64(close) / float64(total); ratio < 0.5 {
			t.Fatalf("%s: only %.2f%% of valid interior disparities were near the true shift", name, ratio*100)
		}
	}

	checkNearShift("d1", d1)
	checkNearShift("d2", d2)
}

// ProcessTraced must report one stage timing per C1-C11 component, in
// pipeline order, and a support count of at least minSupports.
func TestProcessTracedReportsAllStages(t *testing.T) {
	width, height, shift := 160, 120, 18
	leftPix := randomTexturedInput(width, height, 11)
	rightPix := shiftRight(leftPix, width, height, shift)

	left := Input{Width: width, Height: height, Stride: width, Pix: leftPix}
	right := Input{Width: width, Height: height, Stride: width, Pix: rightPix}

	p := elasconfig.Robotics()
	_, _, stages, supportCount, err := ProcessTraced(left, right, p)
	if err != nil {
		t.Fatalf("ProcessTraced returned error: %v", err)
	}
	if supportCount < minSupports {
		t.Fatalf("supportCount = %d, want >= %d", supportCount, minSupports)
	}

	wantStages := []string{"imgbuf", "descriptor", "support", "delaunay", "plane", "grid", "match", "consistency", "speckle", "interp", "postprocess"}
	if len(stages) != len(wantStages) {
		t.Fatalf("got %d stage timings, want %d", len(stages), len(wantStages))
	}
	for i, name := range wantStages {
		if stages[i].Name != name {
			t.Errorf("stage %d = %q, want %q", i, stages[i].Name, name)
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
