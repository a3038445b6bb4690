// Package elasconfig defines the ELAS parameter bundle and the two
// named presets (ROBOTICS, MIDDLEBURY), field-for-field with the
// reference parameters(setting) constructor.
package elasconfig

// Parameters configures every stage of the pipeline. Zero-value
// Parameters is not meaningful; use Robotics() or Middlebury() and
// override individual fields as needed.
type Parameters struct {
	DispMin, DispMax int32

	SupportThreshold float32
	SupportTexture   int32
	MatchTexture     int32
	CandidateStepSize int32

	InconWindowSize int32
	InconThreshold  int32
	InconMinSupport int32

	AddCorners bool

	GridSize int32

	Beta, Gamma, Sigma, SRadius float32

	LRThreshold int32

	SpeckleSimThreshold float32
	SpeckleSize         int32

	IpolGapWidth int32

	FilterMedian        bool
	FilterAdaptiveMean  bool
	PostprocessOnlyLeft bool
	Subsampling         bool
}

// Robotics returns the ROBOTICS preset: favours precision over
// completeness (no corner injection, smaller gap width, postprocess
// restricted to the left map).
func Robotics() Parameters {
	return Parameters{
		DispMin: 0, DispMax: 255,
		SupportThreshold:  0.85,
		SupportTexture:    10,
		MatchTexture:      1,
		CandidateStepSize: 5,
		InconWindowSize:   5,
		InconThreshold:    5,
		InconMinSupport:   5,
		AddCorners:        false,
		GridSize:          20,
		Beta:              0.02,
		Gamma:             3,
		Sigma:             1,
		SRadius:           2,
		LRThreshold:       2,
		SpeckleSimThreshold: 1,
		SpeckleSize:         200,
		IpolGapWidth:        3,
		FilterMedian:        false,
		FilterAdaptiveMean:  true,
		PostprocessOnlyLeft: true,
		Subsampling:         false,
	}
}

// Middlebury returns the MIDDLEBURY preset: favours completeness (corner
// injection on, effectively unbounded gap interpolation, postprocessing
// of both maps, median filter instead of adaptive mean).
func Middlebury() Parameters {
	p := Robotics()
	p.SupportThreshold = 0.95
	p.SRadius = 3
	p.AddCorners = true
	p.Gamma = 5
	p.MatchTexture = 0
	p.IpolGapWidth = 5000
	p.FilterMedian = true
	p.FilterAdaptiveMean = false
	p.PostprocessOnlyLeft = false
	return p
}
