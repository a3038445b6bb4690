// Package elas implements ELAS (Efficient LArge-scale Stereo), a
// dense stereo disparity pipeline driven by sparse support-point
// matching, Delaunay-triangulated plane priors, and a left/right
// consistency + postprocessing chain.
package elas

import (
	"errors"
	"log/slog"
	"time"

	"github.com/cwbudde/goelas/internal/consistency"
	"github.com/cwbudde/goelas/internal/delaunay"
	"github.com/cwbudde/goelas/internal/descriptor"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/grid"
	"github.com/cwbudde/goelas/internal/imgbuf"
	"github.com/cwbudde/goelas/internal/interp"
	"github.com/cwbudde/goelas/internal/match"
	"github.com/cwbudde/goelas/internal/plane"
	"github.com/cwbudde/goelas/internal/postprocess"
	"github.com/cwbudde/goelas/internal/speckle"
	"github.com/cwbudde/goelas/internal/support"
)

// ErrInsufficientSupports is returned when fewer than 3 valid support
// points survive C3. The pipeline aborts cleanly and leaves the
// caller's output buffers untouched.
var ErrInsufficientSupports = errors.New("elas: fewer than 3 valid support points")

// minSupports is the smallest support-point count from which a
// Delaunay triangulation (and therefore a plane fit) is possible.
const minSupports = 3

// Input is one rectified grayscale stereo image: row-major 8-bit
// pixels with a caller-supplied stride, which may differ from the
// internal 16-byte-aligned stride.
type Input struct {
	Width, Height int
	Stride        int
	Pix           []uint8
}

// Triangulator is the external 2-D Delaunay collaborator. A default
// (delaunay.BowyerWatson{}) is used when Process is called without
// one via ProcessWith.
type Triangulator = delaunay.Triangulator

// Process runs the full pipeline on a rectified stereo pair and
// returns the left-view and right-view disparity maps. It uses the
// bundled Bowyer-Watson triangulator; call ProcessWith to supply a
// different Triangulator implementation.
func Process(left, right Input, params elasconfig.Parameters) (d1, d2 []float32, err error) {
	return ProcessWith(left, right, params, delaunay.BowyerWatson{})
}

// ProcessWith runs the full pipeline with an explicit Triangulator.
// Every stage runs in the dependency order C1 through C11; on
// ErrInsufficientSupports the returned slices are nil and the caller's
// own buffers (if any) are left untouched.
func ProcessWith(left, right Input, params elasconfig.Parameters, tri Triangulator) (d1, d2 []float32, err error) {
	if left.Width != right.Width || left.Height != right.Height {
		return nil, nil, errors.New("elas: left/right image dimensions must match")
	}
	width, height := left.Width, left.Height

	// C1: align into 16-byte-padded buffers.
	leftBuf := imgbuf.FromRows(width, height, left.Stride, left.Pix)
	rightBuf := imgbuf.FromRows(width, height, right.Stride, right.Pix)

	// C2: gradient + descriptor construction.
	leftDesc := descriptor.Build(leftBuf)
	rightDesc := descriptor.Build(rightBuf)

	// C3: support-point finder.
	pts := support.ComputeSupportMatches(leftDesc, rightDesc, width, height, params)
	if len(pts) < minSupports {
		slog.Warn("elas: insufficient support points", "count", len(pts), "min", minSupports)
		return nil, nil, ErrInsufficientSupports
	}

	// C4: Delaunay triangulation, once per reference view.
	leftPts := make([]delaunay.Point2D, len(pts))
	rightPts := make([]delaunay.Point2D, len(pts))
	for i, p := range pts {
		leftPts[i] = delaunay.Point2D{X: float64(p.U), Y: float64(p.V)}
		rightPts[i] = delaunay.Point2D{X: float64(p.U) - float64(p.D), Y: float64(p.V)}
	}
	triLeft := tri.Triangulate(leftPts)
	triRight := tri.Triangulate(rightPts)

	// C5: plane fitting, left-referenced and right-referenced.
	planesLeft := plane.FitAll(pts, triLeft)
	planesRight := plane.FitAll(pts, triRight)

	// C6: disparity grid, once per reference view.
	gridLeft := grid.Build(pts, width, height, int(params.GridSize), params.DispMax, false)
	gridRight := grid.Build(pts, width, height, int(params.GridSize), params.DispMax, true)

	// C7: dense matcher.
	dispNum := params.DispMax - params.DispMin + 1
	prior := match.BuildPriorTable(params.Beta, params.Gamma, params.Sigma, dispNum)

	d1 = match.View(leftDesc, rightDesc, gridLeft, planesLeft, pts, width, height, params, false, prior)
	d2 = match.View(rightDesc, leftDesc, gridRight, planesRight, pts, width, height, params, true, prior)

	// C8: left-right consistency.
	consistency.Enforce(d1, d2, outWidth(width, params), outHeight(height, params), params.LRThreshold, params.Subsampling)

	// C9: speckle removal.
	removeSpeckles(d1, width, height, params)
	if !params.PostprocessOnlyLeft {
		removeSpeckles(d2, width, height, params)
	}

	// C10: gap interpolation.
	gapWidth := int(params.IpolGapWidth)
	if params.Subsampling {
		gapWidth = gapWidth/2 + 1
	}
	interp.Fill(d1, outWidth(width, params), outHeight(height, params), gapWidth, params.AddCorners)
	if !params.PostprocessOnlyLeft {
		interp.Fill(d2, outWidth(width, params), outHeight(height, params), gapWidth, params.AddCorners)
	}

	// C11: adaptive mean / median postprocessing.
	postprocessMap(d1, width, height, params)
	if !params.PostprocessOnlyLeft {
		postprocessMap(d2, width, height, params)
	}

	return d1, d2, nil
}

// StageTiming records how long one named pipeline stage took during a
// ProcessTraced run, in the dependency order C1 through C11 ran.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// ProcessTraced runs the same pipeline as Process but also returns a
// per-stage timing breakdown and the support-point count, for
// diagnostic and benchmarking callers. It uses the bundled
// Bowyer-Watson triangulator.
func ProcessTraced(left, right Input, params elasconfig.Parameters) (d1, d2 []float32, stages []StageTiming, supportCount int, err error) {
	return ProcessTracedWith(left, right, params, delaunay.BowyerWatson{})
}

// ProcessTracedWith is ProcessTraced with an explicit Triangulator.
func ProcessTracedWith(left, right Input, params elasconfig.Parameters, tri Triangulator) (d1, d2 []float32, stages []StageTiming, supportCount int, err error) {
	if left.Width != right.Width || left.Height != right.Height {
		return nil, nil, nil, 0, errors.New("elas: left/right image dimensions must match")
	}
	width, height := left.Width, left.Height
	var ts []StageTiming
	mark := func(name string, start time.Time) {
		ts = append(ts, StageTiming{Name: name, Duration: time.Since(start)})
	}

	t0 := time.Now()
	leftBuf := imgbuf.FromRows(width, height, left.Stride, left.Pix)
	rightBuf := imgbuf.FromRows(width, height, right.Stride, right.Pix)
	mark("imgbuf", t0)

	t0 = time.Now()
	leftDesc := descriptor.Build(leftBuf)
	rightDesc := descriptor.Build(rightBuf)
	mark("descriptor", t0)

	t0 = time.Now()
	pts := support.ComputeSupportMatches(leftDesc, rightDesc, width, height, params)
	mark("support", t0)
	if len(pts) < minSupports {
		slog.Warn("elas: insufficient support points", "count", len(pts), "min", minSupports)
		return nil, nil, ts, len(pts), ErrInsufficientSupports
	}

	t0 = time.Now()
	leftPts := make([]delaunay.Point2D, len(pts))
	rightPts := make([]delaunay.Point2D, len(pts))
	for i, p := range pts {
		leftPts[i] = delaunay.Point2D{X: float64(p.U), Y: float64(p.V)}
		rightPts[i] = delaunay.Point2D{X: float64(p.U) - float64(p.D), Y: float64(p.V)}
	}
	triLeft := tri.Triangulate(leftPts)
	triRight := tri.Triangulate(rightPts)
	mark("delaunay", t0)

	t0 = time.Now()
	planesLeft := plane.FitAll(pts, triLeft)
	planesRight := plane.FitAll(pts, triRight)
	mark("plane", t0)

	t0 = time.Now()
	gridLeft := grid.Build(pts, width, height, int(params.GridSize), params.DispMax, false)
	gridRight := grid.Build(pts, width, height, int(params.GridSize), params.DispMax, true)
	mark("grid", t0)

	t0 = time.Now()
	dispNum := params.DispMax - params.DispMin + 1
	prior := match.BuildPriorTable(params.Beta, params.Gamma, params.Sigma, dispNum)
	d1 = match.View(leftDesc, rightDesc, gridLeft, planesLeft, pts, width, height, params, false, prior)
	d2 = match.View(rightDesc, leftDesc, gridRight, planesRight, pts, width, height, params, true, prior)
	mark("match", t0)

	t0 = time.Now()
	consistency.Enforce(d1, d2, outWidth(width, params), outHeight(height, params), params.LRThreshold, params.Subsampling)
	mark("consistency", t0)

	t0 = time.Now()
	removeSpeckles(d1, width, height, params)
	if !params.PostprocessOnlyLeft {
		removeSpeckles(d2, width, height, params)
	}
	mark("speckle", t0)

	t0 = time.Now()
	gapWidth := int(params.IpolGapWidth)
	if params.Subsampling {
		gapWidth = gapWidth/2 + 1
	}
	interp.Fill(d1, outWidth(width, params), outHeight(height, params), gapWidth, params.AddCorners)
	if !params.PostprocessOnlyLeft {
		interp.Fill(d2, outWidth(width, params), outHeight(height, params), gapWidth, params.AddCorners)
	}
	mark("interp", t0)

	t0 = time.Now()
	postprocessMap(d1, width, height, params)
	if !params.PostprocessOnlyLeft {
		postprocessMap(d2, width, height, params)
	}
	mark("postprocess", t0)

	return d1, d2, ts, len(pts), nil
}

func removeSpeckles(d []float32, width, height int, params elasconfig.Parameters) {
	minSize := int(params.SpeckleSize)
	w, h := width, height
	if params.Subsampling {
		w, h = width/2, height/2
		minSize = speckle.HalfResMinSize(minSize)
	}
	speckle.Remove(d, w, h, params.SpeckleSimThreshold, minSize)
}

func postprocessMap(d []float32, width, height int, params elasconfig.Parameters) {
	if params.FilterAdaptiveMean {
		postprocess.AdaptiveMean(d, width, height, params.Subsampling)
	}
	if params.FilterMedian {
		postprocess.Median(d, width, height, params.Subsampling)
	}
}

func outWidth(width int, params elasconfig.Parameters) int {
	if params.Subsampling {
		return width / 2
	}
	return width
}

func outHeight(height int, params elasconfig.Parameters) int {
	if params.Subsampling {
		return height / 2
	}
	return height
}
