package grid

import (
	"testing"

	"github.com/cwbudde/goelas/internal/support"
)

func TestBuildSingleSupportCentersCandidate(t *testing.T) {
	pts := []support.Point{{U: 25, V: 25, D: 10}}
	g := Build(pts, 100, 100, 20, 64, false)
	cands := g.At(25, 25)
	found := false
	for _, d := range cands {
		if d == 10 {
			found = true
		}
	}
	if !found {
		t.Fatalf("candidates at support cell = %v, want to include 10", cands)
	}
}

func TestBuildDilationReachesNeighbourCell(t *testing.T) {
	pts := []support.Point{{U: 5, V: 5, D: 7}}
	g := Build(pts, 100, 100, 20, 64, false)
	// cell (1,0) is an 8-neighbour of the support's cell (0,0).
	cands := g.At(25, 5)
	found := false
	for _, d := range cands {
		if d == 7 {
			found = true
		}
	}
	if !found {
		t.Fatalf("dilated neighbour cell candidates = %v, want to include 7", cands)
	}
}

func TestBuildFarCellHasNoCandidates(t *testing.T) {
	pts := []support.Point{{U: 5, V: 5, D: 7}}
	g := Build(pts, 200, 200, 20, 64, false)
	cands := g.At(195, 195)
	if len(cands) != 0 {
		t.Fatalf("far cell candidates = %v, want none", cands)
	}
}

func TestBuildRightViewShiftsByDisparity(t *testing.T) {
	pts := []support.Point{{U: 90, V: 5, D: 50}}
	g := Build(pts, 200, 200, 20, 64, true)
	// u-d = 40, falls in cell gx=2; the left-view cell (gx=4) is not a
	// neighbour of it and should not see it after 3x3 dilation.
	left := g.At(90, 5)
	for _, d := range left {
		if d == 50 {
			t.Fatalf("left-view cell unexpectedly saw right-shifted candidate")
		}
	}
	right := g.At(40, 5)
	found := false
	for _, d := range right {
		if d == 50 {
			found = true
		}
	}
	if !found {
		t.Fatalf("right-shifted cell candidates = %v, want to include 50", right)
	}
}
