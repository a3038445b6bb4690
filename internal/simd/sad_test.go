package simd

import "testing"

func TestSAD16Zero(t *testing.T) {
	a := make([]byte, 16)
	for i := range a {
		a[i] = byte(i * 7)
	}
	if got := SAD16(a, a); got != 0 {
		t.Fatalf("SAD16(a, a) = %d, want 0", got)
	}
}

func TestSAD16KnownDiff(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	for i := range a {
		a[i] = 100
		b[i] = 105
	}
	if got, want := SAD16(a, b), int32(16*5); got != want {
		t.Fatalf("SAD16 = %d, want %d", got, want)
	}
}

func TestSAD16MatchesScalar(t *testing.T) {
	a := []byte{0, 255, 128, 64, 32, 16, 8, 4, 1, 2, 3, 5, 7, 11, 13, 17}
	b := []byte{255, 0, 0, 200, 32, 16, 9, 3, 0, 2, 3, 5, 200, 11, 1, 17}
	want := sad16Scalar(a, b)
	if got := sad16Vectorized(a, b); got != want {
		t.Fatalf("vectorized SAD16 = %d, want %d (scalar)", got, want)
	}
}

func TestSADBlocks(t *testing.T) {
	a := make([]byte, 64)
	b := make([]byte, 64)
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(i + 1)
	}
	offsets := []int{0, 16, 32, 48}
	if got, want := SADBlocks(a, b, offsets), int32(64); got != want {
		t.Fatalf("SADBlocks = %d, want %d", got, want)
	}
}
