package interp

import "testing"

func TestFillRowGapAverages(t *testing.T) {
	width, height := 10, 1
	d := make([]float32, width*height)
	for i := range d {
		d[i] = -10
	}
	d[2] = 10
	d[3] = -10
	d[4] = -10
	d[5] = 12

	Fill(d, width, height, 3, false)

	if d[3] != 11 || d[4] != 11 {
		t.Fatalf("gap = [%v %v], want [11 11]", d[3], d[4])
	}
}

func TestFillRowGapTakesMinWhenFarApart(t *testing.T) {
	width, height := 10, 1
	d := make([]float32, width*height)
	for i := range d {
		d[i] = -10
	}
	d[2] = 10
	d[3] = -10
	d[5] = 20

	Fill(d, width, height, 3, false)

	if d[3] != 10 {
		t.Fatalf("gap = %v, want 10 (min of far-apart endpoints)", d[3])
	}
}

func TestFillSkipsGapWiderThanLimit(t *testing.T) {
	width, height := 10, 1
	d := make([]float32, width*height)
	for i := range d {
		d[i] = -10
	}
	d[0] = 10
	d[9] = 12

	Fill(d, width, height, 2, false)

	for i := 1; i < 9; i++ {
		if d[i] != -10 {
			t.Fatalf("d[%d] = %v, want -10 (gap wider than ipol_gap_width)", i, d[i])
		}
	}
}

func TestFillAddCornersExtrapolates(t *testing.T) {
	width, height := 10, 1
	d := make([]float32, width*height)
	for i := range d {
		d[i] = -10
	}
	d[3] = 7

	Fill(d, width, height, 5, true)

	if d[0] != 7 || d[1] != 7 || d[2] != 7 {
		t.Fatalf("left border not extrapolated: %v", d)
	}
}
