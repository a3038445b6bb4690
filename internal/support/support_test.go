package support

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/goelas/internal/descriptor"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/imgbuf"
)

// shiftedPair builds a textured left image and a right image equal to
// the left shifted right by shift pixels (border zero-filled).
func shiftedPair(width, height, shift int, seed int64) (*imgbuf.Buffer, *imgbuf.Buffer) {
	rng := rand.New(rand.NewSource(seed))
	left := make([]uint8, width*height)
	for i := range left {
		left[i] = uint8(rng.Intn(256))
	}
	right := make([]uint8, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			su := u - shift
			if su >= 0 {
				right[v*width+u] = left[v*width+su]
			}
		}
	}
	return imgbuf.FromRows(width, height, width, left), imgbuf.FromRows(width, height, width, right)
}

func TestComputeSupportMatchesFindsShift(t *testing.T) {
	width, height, shift := 200, 120, 20
	left, right := shiftedPair(width, height, shift, 1)
	dLeft := descriptor.Build(left)
	dRight := descriptor.Build(right)

	p := elasconfig.Robotics()
	pts := ComputeSupportMatches(dLeft, dRight, width, height, p)
	if len(pts) == 0 {
		t.Fatal("expected at least one support point on textured shifted pair")
	}
	for _, pt := range pts {
		if d := int(pt.D); d < shift-2 || d > shift+2 {
			t.Errorf("support at (%d,%d) has disparity %d, want near %d", pt.U, pt.V, d, shift)
		}
	}
}

func TestComputeSupportMatchesFlatImageFindsNone(t *testing.T) {
	width, height := 100, 100
	flat := make([]uint8, width*height)
	for i := range flat {
		flat[i] = 128
	}
	buf := imgbuf.FromRows(width, height, width, flat)
	d := descriptor.Build(buf)
	p := elasconfig.Robotics()
	pts := ComputeSupportMatches(d, d, width, height, p)
	if len(pts) != 0 {
		t.Fatalf("expected no supports on a flat, textureless image, got %d", len(pts))
	}
}

func TestAddCornerSupportPoints(t *testing.T) {
	pts := []Point{{U: 50, V: 50, D: 7}}
	out := addCornerSupportPoints(pts, 100, 80)
	if len(out) != 1+4+2 {
		t.Fatalf("len(out) = %d, want %d", len(out), 1+4+2)
	}
	for _, c := range out[1:5] {
		if c.D != 7 {
			t.Errorf("corner disparity = %d, want 7", c.D)
		}
	}
}
