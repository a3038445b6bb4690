package descriptor

import (
	"testing"

	"github.com/cwbudde/goelas/internal/imgbuf"
)

func flatBuffer(width, height int, value uint8) *imgbuf.Buffer {
	src := make([]uint8, width*height)
	for i := range src {
		src[i] = value
	}
	return imgbuf.FromRows(width, height, width, src)
}

func TestBuildFlatImageHasZeroEnergy(t *testing.T) {
	buf := flatBuffer(40, 40, 128)
	set := Build(buf)
	u, v := 20, 20
	if got := Energy(set.At(u, v)); got != 0 {
		t.Fatalf("Energy on flat image = %d, want 0", got)
	}
}

func TestBuildBorderUndefined(t *testing.T) {
	buf := flatBuffer(40, 40, 200)
	set := Build(buf)
	d := set.At(0, 0)
	for _, b := range d {
		if b != 0 {
			t.Fatalf("border descriptor not zero: %v", d)
		}
	}
}

func TestBuildEdgeHasEnergy(t *testing.T) {
	width, height := 40, 40
	src := make([]uint8, width*height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			if u < width/2 {
				src[v*width+u] = 50
			} else {
				src[v*width+u] = 220
			}
		}
	}
	buf := imgbuf.FromRows(width, height, width, src)
	set := Build(buf)
	if got := Energy(set.At(width/2, height/2)); got == 0 {
		t.Fatalf("Energy across a step edge = 0, want > 0")
	}
}
