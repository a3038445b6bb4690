// Package match implements the prior-guided dense matcher (C7): for
// every pixel inside a triangle, it minimises a cost combining
// descriptor SAD with a Gaussian+uniform prior centred on the
// triangle's fitted plane.
package match

import (
	"math"
	"sort"

	"github.com/cwbudde/goelas/internal/descriptor"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/grid"
	"github.com/cwbudde/goelas/internal/plane"
	"github.com/cwbudde/goelas/internal/simd"
	"github.com/cwbudde/goelas/internal/support"
)

const windowMargin = 3

// PriorTable precomputes P(Δd) for Δd in [0, dispNum).
type PriorTable []int32

// BuildPriorTable computes P(Δd) = round((-ln(γ+exp(-Δd²/2σ²))+ln γ)/β)
// for every Δd from 0 up to dispNum-1.
func BuildPriorTable(beta, gamma, sigma float32, dispNum int32) PriorTable {
	if dispNum < 1 {
		dispNum = 1
	}
	table := make(PriorTable, dispNum)
	logGamma := math.Log(float64(gamma))
	for dd := int32(0); dd < dispNum; dd++ {
		delta := float64(dd)
		val := (-math.Log(float64(gamma)+math.Exp(-delta*delta/(2*float64(sigma)*float64(sigma)))) + logGamma) / float64(beta)
		table[dd] = int32(math.Round(val))
	}
	return table
}

// PlaneRadius returns max(ceil(sigma*sradius), 2).
func PlaneRadius(sigma, sradius float32) int32 {
	r := int32(math.Ceil(float64(sigma * sradius)))
	if r < 2 {
		return 2
	}
	return r
}

// View runs the dense matcher for one reference view over every
// triangle in tris, writing into a width*height disparity buffer
// (or halved dimensions when p.Subsampling is set). Sentinel -10
// marks pixels never visited by any triangle; -1 marks pixels visited
// but for which no candidate disparity could be evaluated.
func View(
	cur, other *descriptor.Set,
	g *grid.Grid,
	tris []plane.Triangle,
	pts []support.Point,
	width, height int,
	p elasconfig.Parameters,
	rightImage bool,
	prior PriorTable,
) []float32 {
	outW, outH := width, height
	if p.Subsampling {
		outW, outH = width/2, height/2
	}
	out := make([]float32, outW*outH)
	for i := range out {
		out[i] = -10
	}

	planeRadius := PlaneRadius(p.Sigma, p.SRadius)

	for _, tri := range tris {
		vx := [3]vertex{
			viewVertex(pts[tri.C1], rightImage),
			viewVertex(pts[tri.C2], rightImage),
			viewVertex(pts[tri.C3], rightImage),
		}
		sort.Slice(vx[:], func(i, j int) bool { return vx[i].u < vx[j].u })
		a, b, c := vx[0], vx[1], vx[2]

		pl := tri.Plane1
		if rightImage {
			pl = tri.Plane2
		}
		valid := tri.Valid()

		rasterizeHalf(a, b, a, c, p.Subsampling, func(u, v int) {
			matchPixel(cur, other, g, pl, valid, planeRadius, prior, width, height, u, v, outW, rightImage, p, out)
		})
		rasterizeHalf(b, c, a, c, p.Subsampling, func(u, v int) {
			matchPixel(cur, other, g, pl, valid, planeRadius, prior, width, height, u, v, outW, rightImage, p, out)
		})
	}
	return out
}

type vertex struct{ u, v float64 }

func viewVertex(p support.Point, rightImage bool) vertex {
	u := float64(p.U)
	if rightImage {
		u -= float64(p.D)
	}
	return vertex{u: u, v: float64(p.V)}
}

// rasterizeHalf scans integer u across [e1a.u, e1b.u] (edge e1 is the
// short edge of this half; e2 is always the long A-C edge) and visits
// every integer v between the two edges at that u.
func rasterizeHalf(e1a, e1b, e2a, e2b vertex, subsample bool, visit func(u, v int)) {
	uLo := int(math.Ceil(e1a.u))
	uHi := int(math.Floor(e1b.u))
	if uLo > uHi {
		return
	}
	for u := uLo; u <= uHi; u++ {
		if subsample && u%2 != 0 {
			continue
		}
		v1 := lerpAtU(e1a, e1b, float64(u))
		v2 := lerpAtU(e2a, e2b, float64(u))
		vLo, vHi := v1, v2
		if vLo > vHi {
			vLo, vHi = vHi, vLo
		}
		vStart := int(math.Ceil(vLo))
		vEnd := int(math.Floor(vHi))
		for v := vStart; v <= vEnd; v++ {
			if subsample && v%2 != 0 {
				continue
			}
			visit(u, v)
		}
	}
}

func lerpAtU(a, b vertex, u float64) float64 {
	if b.u == a.u {
		return a.v
	}
	t := (u - a.u) / (b.u - a.u)
	return a.v + t*(b.v-a.v)
}

func matchPixel(
	cur, other *descriptor.Set,
	g *grid.Grid,
	pl plane.Tuple,
	planeValid bool,
	planeRadius int32,
	prior PriorTable,
	width, height, u, v int,
	outW int,
	rightImage bool,
	p elasconfig.Parameters,
	out []float32,
) {
	if u < windowMargin || u >= width-windowMargin || v < windowMargin || v >= height-windowMargin {
		return
	}
	if descriptor.Energy(cur.At(u, v)) < int(p.MatchTexture) {
		return
	}

	dPlane := pl.At(float64(u), float64(v))

	candidates := candidateSet(g, u, v, dPlane, planeRadius, p.DispMax)

	var bestCost int32 = -1
	var bestD int32 = -1

	refDesc := cur.At(u, v)
	for _, d := range candidates {
		var ou int
		if rightImage {
			ou = u + int(d)
		} else {
			ou = u - int(d)
		}
		if ou < windowMargin || ou >= width-windowMargin {
			continue
		}
		cost := simd.SAD16(refDesc, other.At(ou, v))

		delta := math.Abs(float64(d) - dPlane)
		withinRadius := delta <= float64(planeRadius)
		if withinRadius && planeValid {
			idx := int(math.Round(delta))
			if idx >= 0 && idx < len(prior) {
				cost += prior[idx]
			} else if len(prior) > 0 {
				cost += prior[len(prior)-1]
			}
		}

		if bestD < 0 || cost < bestCost {
			bestCost = cost
			bestD = d
		}
	}

	ow, oh := u, v
	if p.Subsampling {
		ow, oh = u/2, v/2
	}
	idx := oh*outW + ow
	if idx < 0 || idx >= len(out) {
		return
	}
	if bestD < 0 {
		out[idx] = -1
		return
	}
	out[idx] = float32(bestD)
}

// candidateSet returns the union of (i) grid candidates outside the
// plane radius window (uniform prior, i.e. zero weight) and (ii)
// every integer disparity inside the plane radius window.
func candidateSet(g *grid.Grid, u, v int, dPlane float64, planeRadius int32, dispMax int32) []int32 {
	seen := make(map[int32]bool)
	var out []int32
	add := func(d int32) {
		if d < 0 || d > dispMax || seen[d] {
			return
		}
		seen[d] = true
		out = append(out, d)
	}

	for _, d := range g.At(u, v) {
		delta := math.Abs(float64(d) - dPlane)
		if delta > float64(planeRadius) {
			add(d)
		}
	}

	lo := int32(math.Floor(dPlane - float64(planeRadius)))
	hi := int32(math.Ceil(dPlane + float64(planeRadius)))
	for d := lo; d <= hi; d++ {
		add(d)
	}
	return out
}
