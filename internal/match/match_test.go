package match

import (
	"testing"

	"github.com/cwbudde/goelas/internal/grid"
	"github.com/cwbudde/goelas/internal/support"
)

func buildTestGrid() *grid.Grid {
	return grid.Build([]support.Point{{U: 50, V: 50, D: 30}}, 200, 200, 20, 64, false)
}

func TestBuildPriorTableNegativeAtZero(t *testing.T) {
	table := BuildPriorTable(0.02, 3, 1, 16)
	if len(table) != 16 {
		t.Fatalf("len(table) = %d, want 16", len(table))
	}
	if table[0] >= 0 {
		t.Fatalf("table[0] = %d, want < 0 (Δd=0 gives the strongest cost reduction)", table[0])
	}
	for i := 1; i < len(table); i++ {
		if table[i] < table[i-1] {
			t.Fatalf("prior table not monotonic at %d: %v", i, table)
		}
	}
	if last := table[len(table)-1]; last > 0 {
		t.Fatalf("prior table tail = %d, want <= 0 (approaches uniform)", last)
	}
}

func TestPlaneRadiusFloor(t *testing.T) {
	if r := PlaneRadius(0.1, 2); r != 2 {
		t.Fatalf("PlaneRadius(0.1,2) = %d, want 2 (floored)", r)
	}
	if r := PlaneRadius(3, 2); r != 6 {
		t.Fatalf("PlaneRadius(3,2) = %d, want 6", r)
	}
}

func TestLerpAtUEndpoints(t *testing.T) {
	a := vertex{u: 0, v: 10}
	b := vertex{u: 10, v: 20}
	if v := lerpAtU(a, b, 0); v != 10 {
		t.Fatalf("lerpAtU at start = %v, want 10", v)
	}
	if v := lerpAtU(a, b, 10); v != 20 {
		t.Fatalf("lerpAtU at end = %v, want 20", v)
	}
	if v := lerpAtU(a, b, 5); v != 15 {
		t.Fatalf("lerpAtU at midpoint = %v, want 15", v)
	}
}

func TestCandidateSetIncludesRadiusWindow(t *testing.T) {
	g := buildTestGrid()
	cands := candidateSet(g, 50, 50, 10, 2, 64)
	want := map[int32]bool{8: true, 9: true, 10: true, 11: true, 12: true}
	got := map[int32]bool{}
	for _, d := range cands {
		got[d] = true
	}
	for d := range want {
		if !got[d] {
			t.Errorf("candidate set %v missing %d", cands, d)
		}
	}
}
