package delaunay

import "testing"

func TestTriangulateTooFewPoints(t *testing.T) {
	tris := BowyerWatson{}.Triangulate([]Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if tris != nil {
		t.Fatalf("expected nil for <3 points, got %v", tris)
	}
}

func TestTriangulateSquareCoversArea(t *testing.T) {
	pts := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	tris := BowyerWatson{}.Triangulate(pts)
	if len(tris) != 2 {
		t.Fatalf("len(tris) = %d, want 2", len(tris))
	}
	var area float64
	for _, tr := range tris {
		area += triangleArea(pts[tr.A], pts[tr.B], pts[tr.C])
	}
	if area < 99.9 || area > 100.1 {
		t.Fatalf("total area = %v, want 100", area)
	}
}

func TestTriangulateGridAllIndicesUsed(t *testing.T) {
	var pts []Point2D
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			pts = append(pts, Point2D{X: float64(x), Y: float64(y)})
		}
	}
	tris := BowyerWatson{}.Triangulate(pts)
	if len(tris) == 0 {
		t.Fatal("expected triangles for a 5x5 grid")
	}
	seen := make(map[int]bool)
	for _, tr := range tris {
		seen[tr.A], seen[tr.B], seen[tr.C] = true, true, true
		if tr.A >= len(pts) || tr.B >= len(pts) || tr.C >= len(pts) {
			t.Fatalf("triangle references super-triangle vertex: %+v", tr)
		}
	}
	if len(seen) != len(pts) {
		t.Fatalf("only %d of %d points referenced by triangulation", len(seen), len(pts))
	}
}

func triangleArea(a, b, c Point2D) float64 {
	area := (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y)) / 2
	if area < 0 {
		return -area
	}
	return area
}
