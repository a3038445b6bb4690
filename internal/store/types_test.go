package store

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCheckpoint_JSONSerialization(t *testing.T) {
	original := &Checkpoint{
		JobID:         "test-job-123",
		ValidFraction: 0.87,
		MeanAbsError:  1.4,
		SupportCount:  212,
		Timestamp:     time.Date(2025, 10, 23, 10, 30, 0, 0, time.UTC),
		Config: JobConfig{
			Scenario: "shifted-noise",
			Preset:   "robotics",
			Width:    200,
			Height:   150,
			Seed:     42,
		},
		Stages: []StageTiming{
			{Name: "descriptor", DurationMS: 3.1},
			{Name: "match", DurationMS: 40.2},
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal checkpoint: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshaled JSON is empty")
	}

	var restored Checkpoint
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal checkpoint: %v", err)
	}

	if restored.JobID != original.JobID {
		t.Errorf("JobID mismatch: expected %s, got %s", original.JobID, restored.JobID)
	}
	if restored.ValidFraction != original.ValidFraction {
		t.Errorf("ValidFraction mismatch: expected %f, got %f", original.ValidFraction, restored.ValidFraction)
	}
	if restored.MeanAbsError != original.MeanAbsError {
		t.Errorf("MeanAbsError mismatch: expected %f, got %f", original.MeanAbsError, restored.MeanAbsError)
	}
	if restored.SupportCount != original.SupportCount {
		t.Errorf("SupportCount mismatch: expected %d, got %d", original.SupportCount, restored.SupportCount)
	}
	if !restored.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp mismatch: expected %v, got %v", original.Timestamp, restored.Timestamp)
	}
	if len(restored.Stages) != len(original.Stages) {
		t.Fatalf("Stages length mismatch: expected %d, got %d", len(original.Stages), len(restored.Stages))
	}
	for i := range original.Stages {
		if restored.Stages[i] != original.Stages[i] {
			t.Errorf("Stages[%d] mismatch: expected %+v, got %+v", i, original.Stages[i], restored.Stages[i])
		}
	}
	if restored.Config.Scenario != original.Config.Scenario {
		t.Errorf("Config.Scenario mismatch: expected %s, got %s", original.Config.Scenario, restored.Config.Scenario)
	}
	if restored.Config.Preset != original.Config.Preset {
		t.Errorf("Config.Preset mismatch: expected %s, got %s", original.Config.Preset, restored.Config.Preset)
	}
	if restored.Config.Width != original.Config.Width {
		t.Errorf("Config.Width mismatch: expected %d, got %d", original.Config.Width, restored.Config.Width)
	}
}

func TestCheckpoint_JSONIndented(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:         "test-job",
		ValidFraction: 0.5,
		MeanAbsError:  2.0,
		SupportCount:  10,
		Timestamp:     time.Now(),
		Config: JobConfig{
			Scenario: "fronto-plane",
			Preset:   "robotics",
			Width:    640,
			Height:   480,
			Seed:     0,
		},
	}

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal with indent: %v", err)
	}

	var restored Checkpoint
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal indented JSON: %v", err)
	}

	if restored.JobID != checkpoint.JobID {
		t.Errorf("JobID mismatch after indented serialization")
	}
}

func baseConfig() JobConfig {
	return JobConfig{Scenario: "shifted-noise", Preset: "robotics", Width: 200, Height: 150, Seed: 1}
}

func TestCheckpoint_Validate_Valid(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:         "valid-job",
		ValidFraction: 0.9,
		MeanAbsError:  1.0,
		SupportCount:  50,
		Timestamp:     time.Now(),
		Config:        baseConfig(),
	}

	if err := checkpoint.Validate(); err != nil {
		t.Errorf("Valid checkpoint should not have validation error: %v", err)
	}
}

func TestCheckpoint_Validate_EmptyJobID(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:         "",
		ValidFraction: 0.9,
		Timestamp:     time.Now(),
		Config:        baseConfig(),
	}

	err := checkpoint.Validate()
	if err == nil {
		t.Fatal("Expected validation error for empty JobID")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func TestCheckpoint_Validate_ValidFractionOutOfRange(t *testing.T) {
	testCases := []struct {
		name string
		frac float64
	}{
		{"negative", -0.1},
		{"above one", 1.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checkpoint := &Checkpoint{
				JobID:         "test",
				ValidFraction: tc.frac,
				Timestamp:     time.Now(),
				Config:        baseConfig(),
			}
			if err := checkpoint.Validate(); err == nil {
				t.Fatalf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestCheckpoint_Validate_NegativeSupportCount(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:        "test",
		SupportCount: -1,
		Timestamp:    time.Now(),
		Config:       baseConfig(),
	}

	if err := checkpoint.Validate(); err == nil {
		t.Fatal("Expected validation error for negative SupportCount")
	}
}

func TestCheckpoint_Validate_ZeroTimestamp(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:     "test",
		Timestamp: time.Time{},
		Config:    baseConfig(),
	}

	if err := checkpoint.Validate(); err == nil {
		t.Fatal("Expected validation error for zero timestamp")
	}
}

func TestCheckpoint_Validate_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name   string
		config JobConfig
	}{
		{"empty scenario", JobConfig{Scenario: "", Width: 100, Height: 100}},
		{"zero width", JobConfig{Scenario: "s", Width: 0, Height: 100}},
		{"zero height", JobConfig{Scenario: "s", Width: 100, Height: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checkpoint := &Checkpoint{
				JobID:     "test",
				Timestamp: time.Now(),
				Config:    tc.config,
			}
			if err := checkpoint.Validate(); err == nil {
				t.Fatalf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestCheckpoint_IsCompatible_Compatible(t *testing.T) {
	checkpoint := &Checkpoint{Config: baseConfig()}
	if err := checkpoint.IsCompatible(baseConfig()); err != nil {
		t.Errorf("Compatible configs should not return error: %v", err)
	}
}

func TestCheckpoint_IsCompatible_DifferentScenario(t *testing.T) {
	checkpoint := &Checkpoint{Config: baseConfig()}
	other := baseConfig()
	other.Scenario = "speckle"

	err := checkpoint.IsCompatible(other)
	if err == nil {
		t.Fatal("Expected compatibility error for different Scenario")
	}
	if _, ok := err.(*CompatibilityError); !ok {
		t.Errorf("Expected CompatibilityError, got %T", err)
	}
}

func TestCheckpoint_IsCompatible_DifferentDimensions(t *testing.T) {
	checkpoint := &Checkpoint{Config: baseConfig()}
	other := baseConfig()
	other.Width = 999

	if err := checkpoint.IsCompatible(other); err == nil {
		t.Fatal("Expected compatibility error for different dimensions")
	}
}

func TestCheckpointInfo_FromCheckpoint(t *testing.T) {
	checkpoint := &Checkpoint{
		JobID:         "test-job",
		ValidFraction: 0.75,
		MeanAbsError:  1.2,
		Timestamp:     time.Now(),
		Config:        baseConfig(),
	}

	info := checkpoint.ToInfo()

	if info.JobID != checkpoint.JobID {
		t.Errorf("JobID mismatch: expected %s, got %s", checkpoint.JobID, info.JobID)
	}
	if info.ValidFraction != checkpoint.ValidFraction {
		t.Errorf("ValidFraction mismatch: expected %f, got %f", checkpoint.ValidFraction, info.ValidFraction)
	}
	if !info.Timestamp.Equal(checkpoint.Timestamp) {
		t.Errorf("Timestamp mismatch")
	}
	if info.Scenario != checkpoint.Config.Scenario {
		t.Errorf("Scenario mismatch: expected %s, got %s", checkpoint.Config.Scenario, info.Scenario)
	}
	if info.Preset != checkpoint.Config.Preset {
		t.Errorf("Preset mismatch: expected %s, got %s", checkpoint.Config.Preset, info.Preset)
	}
}

func TestNewCheckpoint(t *testing.T) {
	jobID := "test-job"
	config := baseConfig()
	stages := []StageTiming{{Name: "match", DurationMS: 12.5}}

	checkpoint := NewCheckpoint(jobID, 0.9, 1.1, 50, config, stages)

	if checkpoint.JobID != jobID {
		t.Errorf("JobID mismatch: expected %s, got %s", jobID, checkpoint.JobID)
	}
	if checkpoint.ValidFraction != 0.9 {
		t.Errorf("ValidFraction mismatch: expected 0.9, got %f", checkpoint.ValidFraction)
	}
	if checkpoint.SupportCount != 50 {
		t.Errorf("SupportCount mismatch: expected 50, got %d", checkpoint.SupportCount)
	}
	if checkpoint.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if len(checkpoint.Stages) != len(stages) {
		t.Errorf("Stages length mismatch")
	}
}
