package imgbuf

import "testing"

func TestAlignedBytesPerLine(t *testing.T) {
	cases := map[int]int{
		1:   16,
		16:  16,
		17:  32,
		640: 640,
		641: 656,
	}
	for width, want := range cases {
		if got := AlignedBytesPerLine(width); got != want {
			t.Errorf("AlignedBytesPerLine(%d) = %d, want %d", width, got, want)
		}
	}
}

func TestFromRowsPadsZero(t *testing.T) {
	width, height := 17, 2
	src := make([]uint8, width*height)
	for i := range src {
		src[i] = 200
	}
	buf := FromRows(width, height, width, src)
	if buf.BytesPerLine != 32 {
		t.Fatalf("bpl = %d, want 32", buf.BytesPerLine)
	}
	for v := 0; v < height; v++ {
		for u := width; u < buf.BytesPerLine; u++ {
			if got := buf.At(u, v); got != 0 {
				t.Errorf("padding at (%d,%d) = %d, want 0", u, v, got)
			}
		}
		for u := 0; u < width; u++ {
			if got := buf.At(u, v); got != 200 {
				t.Errorf("pixel at (%d,%d) = %d, want 200", u, v, got)
			}
		}
	}
}

func TestFromRowsFastPathWhenStrideMatches(t *testing.T) {
	width, height := 16, 3
	src := make([]uint8, width*height)
	for i := range src {
		src[i] = uint8(i)
	}
	buf := FromRows(width, height, width, src)
	for i, want := range src {
		if buf.Pix[i] != want {
			t.Fatalf("Pix[%d] = %d, want %d", i, buf.Pix[i], want)
		}
	}
}
