// Package plane fits a disparity plane d = a*u + b*v + c to each
// triangle of support points (C5), once per reference view.
package plane

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/goelas/internal/delaunay"
	"github.com/cwbudde/goelas/internal/support"
)

// Tuple holds the coefficients of a fitted disparity plane.
type Tuple struct {
	A, B, C float64
}

// degenEps is the determinant threshold below which a triangle is
// declared degenerate and its plane set to the zero tuple.
const degenEps = 1e-6

// Fit solves the 3x3 linear system A*x = b for one triangle, where row
// i of A is (u_i, v_i, 1) and b_i is the disparity at vertex i. It
// returns the zero tuple when the system is singular.
func Fit(u, v, d [3]float64) Tuple {
	a := mat.NewDense(3, 3, []float64{
		u[0], v[0], 1,
		u[1], v[1], 1,
		u[2], v[2], 1,
	})
	if mat.Det(a) < degenEps && mat.Det(a) > -degenEps {
		return Tuple{}
	}

	b := mat.NewVecDense(3, []float64{d[0], d[1], d[2]})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Tuple{}
	}
	return Tuple{A: x.AtVec(0), B: x.AtVec(1), C: x.AtVec(2)}
}

// Triangle bundles the three support indices of a Delaunay triangle
// with its left-referenced and right-referenced plane fits.
type Triangle struct {
	C1, C2, C3 int
	Plane1     Tuple // fit against the left view's u coordinates
	Plane2     Tuple // fit against u-d (right view projection)
}

// FitAll fits both the left-referenced and right-referenced planes for
// every triangle in tri. tri is the output of one Delaunay
// triangulation over pts (either the left-view coordinates or the
// u-d-shifted right-view coordinates, per §4.4); regardless of which
// view produced the index triples, both plane forms are computed from
// the same three support indices so the dense matcher can run its
// two-view slope-validity check.
func FitAll(pts []support.Point, tri []delaunay.Triangle) []Triangle {
	out := make([]Triangle, 0, len(tri))
	for _, t := range tri {
		tr := Triangle{C1: t.A, C2: t.B, C3: t.C}
		tr.Plane1 = Fit(
			[3]float64{float64(pts[t.A].U), float64(pts[t.B].U), float64(pts[t.C].U)},
			[3]float64{float64(pts[t.A].V), float64(pts[t.B].V), float64(pts[t.C].V)},
			[3]float64{float64(pts[t.A].D), float64(pts[t.B].D), float64(pts[t.C].D)},
		)
		tr.Plane2 = Fit(
			[3]float64{
				float64(pts[t.A].U) - float64(pts[t.A].D),
				float64(pts[t.B].U) - float64(pts[t.B].D),
				float64(pts[t.C].U) - float64(pts[t.C].D),
			},
			[3]float64{float64(pts[t.A].V), float64(pts[t.B].V), float64(pts[t.C].V)},
			[3]float64{float64(pts[t.A].D), float64(pts[t.B].D), float64(pts[t.C].D)},
		)
		out = append(out, tr)
	}
	return out
}

// Valid implements the slope check from the dense matcher: a plane is
// usable as a prior only when both its own u-slope and the paired
// right-view slope are within range.
func (t Triangle) Valid() bool {
	return absf(t.Plane1.A) < 0.7 && absf(t.Plane2.A) < 0.7
}

// At evaluates the plane at pixel (u,v).
func (t Tuple) At(u, v float64) float64 {
	return t.A*u + t.B*v + t.C
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
