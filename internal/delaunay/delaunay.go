// Package delaunay defines the Triangulator collaborator contract (C4)
// and a self-contained Bowyer-Watson implementation. No third-party 2-D
// Delaunay library exists anywhere in the retrieval pack (see
// DESIGN.md), so BowyerWatson is the bundled default; callers may
// supply any other implementation satisfying Triangulator, matching
// the external-collaborator contract in spec §4.4/§6.
package delaunay

import (
	"math"
	"sort"
)

// Point2D is a 2-D coordinate fed to the triangulator.
type Point2D struct {
	X, Y float64
}

// Triangle is a triple of indices into the input point slice.
type Triangle struct {
	A, B, C int
}

// Triangulator takes N 2-D points and returns a set of index triples
// covering their convex hull. Implementations need not produce a
// unique triangulation; degenerate (near-collinear) configurations may
// be triangulated in any consistent way, since the plane fitter flags
// degenerate triangles explicitly.
type Triangulator interface {
	Triangulate(points []Point2D) []Triangle
}

// BowyerWatson is the bundled default Triangulator.
type BowyerWatson struct{}

type edge struct{ a, b int }

// internal triangle representation carrying the indices into the
// super-triangle-augmented point array.
type triRec struct {
	a, b, c int
}

// Triangulate computes a Delaunay triangulation via the incremental
// Bowyer-Watson algorithm. Points with fewer than 3 entries yield no
// triangles.
func (BowyerWatson) Triangulate(points []Point2D) []Triangle {
	n := len(points)
	if n < 3 {
		return nil
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	dx := maxX - minX
	dy := maxY - minY
	delta := math.Max(dx, dy)
	if delta == 0 {
		delta = 1
	}
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2

	// Super-triangle large enough to contain every input point.
	pts := make([]Point2D, n, n+3)
	copy(pts, points)
	pts = append(pts,
		Point2D{midX - 20*delta, midY - delta},
		Point2D{midX, midY + 20*delta},
		Point2D{midX + 20*delta, midY - delta},
	)
	superA, superB, superC := n, n+1, n+2

	tris := []triRec{{superA, superB, superC}}

	for pi := 0; pi < n; pi++ {
		p := pts[pi]
		var bad []triRec
		var keep []triRec
		for _, t := range tris {
			if inCircumcircle(pts[t.a], pts[t.b], pts[t.c], p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		boundary := polygonBoundary(bad)
		for _, e := range boundary {
			keep = append(keep, triRec{e.a, e.b, pi})
		}
		tris = keep
	}

	out := make([]Triangle, 0, len(tris))
	for _, t := range tris {
		if t.a == superA || t.a == superB || t.a == superC ||
			t.b == superA || t.b == superB || t.b == superC ||
			t.c == superA || t.c == superB || t.c == superC {
			continue
		}
		out = append(out, Triangle{A: t.a, B: t.b, C: t.c})
	}
	return out
}

// polygonBoundary returns the edges of bad that are not shared with
// another triangle in bad — the hole boundary to re-triangulate from
// the newly inserted point.
func polygonBoundary(bad []triRec) []edge {
	count := make(map[edge]int)
	order := make([]edge, 0, len(bad)*3)
	add := func(a, b int) {
		e := edge{a, b}
		if e.a > e.b {
			e.a, e.b = e.b, e.a
		}
		if count[e] == 0 {
			order = append(order, e)
		}
		count[e]++
	}
	for _, t := range bad {
		add(t.a, t.b)
		add(t.b, t.c)
		add(t.c, t.a)
	}
	var boundary []edge
	for _, e := range order {
		if count[e] == 1 {
			boundary = append(boundary, e)
		}
	}
	sort.Slice(boundary, func(i, j int) bool {
		if boundary[i].a != boundary[j].a {
			return boundary[i].a < boundary[j].a
		}
		return boundary[i].b < boundary[j].b
	})
	return boundary
}

// inCircumcircle reports whether point d lies strictly inside the
// circumcircle of triangle (a,b,c).
func inCircumcircle(a, b, c, d Point2D) bool {
	ax, ay := a.X-d.X, a.Y-d.Y
	bx, by := b.X-d.X, b.Y-d.Y
	cx, cy := c.X-d.X, c.Y-d.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	// Orientation of (a,b,c) determines the sign convention for "inside".
	orient := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if orient < 0 {
		return det < 0
	}
	return det > 0
}
