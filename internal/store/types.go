package store

import (
	"fmt"
	"time"
)

// JobConfig describes one disparity benchmark run: which synthetic
// scenario was exercised, which parameter preset drove it, and the
// image dimensions used.
type JobConfig struct {
	Scenario string `json:"scenario"` // e.g. "shifted-noise", "fronto-plane", "speckle"
	Preset   string `json:"preset"`   // "robotics" or "middlebury"
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Seed     int64  `json:"seed"`
}

// Checkpoint captures the outcome of one disparity benchmark run:
// summary accuracy statistics plus per-stage timings, persisted so a
// long-running sweep can be inspected or resumed without recomputing
// earlier scenarios.
type Checkpoint struct {
	// JobID is the unique identifier for this benchmark run.
	JobID string `json:"jobId"`

	// ValidFraction is the share of pixels in D1 that were not
	// sentinel values after the full pipeline ran.
	ValidFraction float64 `json:"validFraction"`

	// MeanAbsError is the mean absolute disparity error against the
	// scenario's known ground truth, when one is defined; -1 when the
	// scenario has no ground truth to compare against.
	MeanAbsError float64 `json:"meanAbsError"`

	// SupportCount is the number of support points C3 produced.
	SupportCount int `json:"supportCount"`

	// Timestamp records when this run completed.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the scenario configuration that produced this run.
	Config JobConfig `json:"config"`

	// Stages holds the wall-clock duration of each pipeline stage, in
	// the same dependency order the pipeline executes them.
	Stages []StageTiming `json:"stages,omitempty"`
}

// StageTiming records how long one named pipeline stage took.
type StageTiming struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"durationMs"`
}

// CheckpointInfo contains metadata about a checkpoint without the
// per-stage timing detail. Used for listing runs efficiently.
type CheckpointInfo struct {
	JobID         string    `json:"jobId"`
	ValidFraction float64   `json:"validFraction"`
	MeanAbsError  float64   `json:"meanAbsError"`
	Timestamp     time.Time `json:"timestamp"`
	Scenario      string    `json:"scenario"`
	Preset        string    `json:"preset"`
}

// NewCheckpoint creates a checkpoint from a completed benchmark run.
func NewCheckpoint(jobID string, validFraction, meanAbsError float64, supportCount int, config JobConfig, stages []StageTiming) *Checkpoint {
	return &Checkpoint{
		JobID:         jobID,
		ValidFraction: validFraction,
		MeanAbsError:  meanAbsError,
		SupportCount:  supportCount,
		Timestamp:     time.Now(),
		Config:        config,
		Stages:        stages,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:         c.JobID,
		ValidFraction: c.ValidFraction,
		MeanAbsError:  c.MeanAbsError,
		Timestamp:     c.Timestamp,
		Scenario:      c.Config.Scenario,
		Preset:        c.Config.Preset,
	}
}

// Validate checks if the checkpoint has valid data.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.ValidFraction < 0 || c.ValidFraction > 1 {
		return &ValidationError{Field: "ValidFraction", Reason: "must be within [0,1]"}
	}
	if c.SupportCount < 0 {
		return &ValidationError{Field: "SupportCount", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.Scenario == "" {
		return &ValidationError{Field: "Config.Scenario", Reason: "cannot be empty"}
	}
	if c.Config.Width <= 0 || c.Config.Height <= 0 {
		return &ValidationError{Field: "Config", Reason: "width and height must be positive"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the given
// config, i.e. refers to the same scenario and image dimensions.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.Scenario != config.Scenario {
		return &CompatibilityError{
			Field:    "Scenario",
			Expected: c.Config.Scenario,
			Actual:   config.Scenario,
		}
	}
	if c.Config.Width != config.Width || c.Config.Height != config.Height {
		return &CompatibilityError{
			Field:    "Dimensions",
			Expected: fmt.Sprintf("%dx%d", c.Config.Width, c.Config.Height),
			Actual:   fmt.Sprintf("%dx%d", config.Width, config.Height),
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
