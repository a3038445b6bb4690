package postprocess

import "testing"

func TestAdaptiveMeanSmoothsConstantRegion(t *testing.T) {
	width, height := 20, 20
	d := make([]float32, width*height)
	for i := range d {
		d[i] = 15
	}
	AdaptiveMean(d, width, height, false)
	for v := 7; v < height-7; v++ {
		for u := 7; u < width-7; u++ {
			if d[v*width+u] != 15 {
				t.Fatalf("d[%d,%d] = %v, want 15 on a flat region", u, v, d[v*width+u])
			}
		}
	}
}

func TestAdaptiveMeanLeavesInvalidPixelsZeroWeighted(t *testing.T) {
	width, height := 20, 20
	d := make([]float32, width*height)
	for i := range d {
		d[i] = -10
	}
	AdaptiveMean(d, width, height, false)
	for _, v := range d {
		if v > 0 {
			t.Fatalf("expected no positive output from an all-invalid input, got %v", v)
		}
	}
}

func TestMedianPreservesValidConstantRegion(t *testing.T) {
	width, height := 20, 20
	d := make([]float32, width*height)
	for i := range d {
		d[i] = 8
	}
	Median(d, width, height, false)
	for v := 3; v < height-3; v++ {
		for u := 3; u < width-3; u++ {
			if d[v*width+u] != 8 {
				t.Fatalf("d[%d,%d] = %v, want 8", u, v, d[v*width+u])
			}
		}
	}
}

func TestMedianSkipsInvalidPixels(t *testing.T) {
	width, height := 20, 20
	d := make([]float32, width*height)
	for i := range d {
		d[i] = 8
	}
	d[10*width+10] = -10
	Median(d, width, height, false)
	if d[10*width+10] != -10 {
		t.Fatalf("invalid pixel was overwritten: %v", d[10*width+10])
	}
}

func TestMedianRemovesOutlier(t *testing.T) {
	width, height := 20, 20
	d := make([]float32, width*height)
	for i := range d {
		d[i] = 8
	}
	d[10*width+10] = 99
	Median(d, width, height, false)
	if d[10*width+10] == 99 {
		t.Fatalf("median filter failed to remove a lone outlier")
	}
}
