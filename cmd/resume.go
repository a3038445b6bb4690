package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	elas "github.com/cwbudde/goelas"
	"github.com/cwbudde/goelas/internal/scenario"
	"github.com/cwbudde/goelas/internal/store"
	"github.com/spf13/cobra"
)

var (
	resumeServerURL string
	resumeLocalMode bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume a benchmark run from a checkpoint",
	Long: `Resume a benchmark job from a saved checkpoint's scenario configuration.

Supports two modes:
  1. Server mode (default): POST to the server's resume endpoint
  2. Local mode (--local): load the checkpoint and re-run it in this process

Examples:
  # Resume via server
  elasbench resume abc123 --server http://localhost:8080

  # Resume locally
  elasbench resume abc123 --local --data-dir ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Run resume locally instead of via server")
	resumeCmd.Flags().StringVar(&checkpointDataDir, "data-dir", "./data", "Checkpoint directory for local resume")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

// runResumeServer sends a resume request to the server.
func runResumeServer(jobID string) error {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/resume", resumeServerURL, jobID)

	slog.Info("Resuming job via server", "job_id", jobID, "url", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		JobID   string `json:"jobId"`
		State   string `json:"state"`
		Message string `json:"message,omitempty"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Job resumed successfully\n")
	fmt.Printf("  Job ID: %s\n", result.JobID)
	fmt.Printf("  State: %s\n", result.State)
	if result.Message != "" {
		fmt.Printf("  Message: %s\n", result.Message)
	}
	fmt.Printf("\nUse 'elasbench status %s' to monitor progress\n", result.JobID)

	return nil
}

// runResumeLocal loads the checkpoint and re-runs its scenario configuration
// in this process, without involving the server.
func runResumeLocal(jobID string) error {
	slog.Info("Resuming job locally", "job_id", jobID)

	checkpointStore, err := store.NewFSStore(checkpointDataDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", checkpoint.JobID)
	fmt.Printf("  Scenario: %s\n", checkpoint.Config.Scenario)
	fmt.Printf("  Preset: %s\n", checkpoint.Config.Preset)
	fmt.Printf("  Previous valid fraction: %.4f\n", checkpoint.ValidFraction)
	fmt.Printf("  Checkpoint time: %s\n\n", checkpoint.Timestamp.Format(time.RFC3339))

	params, err := resolvePreset(checkpoint.Config.Preset)
	if err != nil {
		return err
	}

	pair, err := scenario.Generate(checkpoint.Config.Scenario, checkpoint.Config.Width, checkpoint.Config.Height, checkpoint.Config.Seed)
	if err != nil {
		return fmt.Errorf("failed to regenerate scenario: %w", err)
	}

	left := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Left}
	right := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Right}

	fmt.Printf("Re-running scenario...\n")
	start := time.Now()

	d1, _, stages, supportCount, err := elas.ProcessTraced(left, right, params)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	elapsed := time.Since(start)
	validFraction, meanAbsError := scoreDisparity(d1, pair.GroundTruth)

	fmt.Printf("\nCompleted in %s\n", elapsed.Round(time.Microsecond))
	fmt.Printf("  Valid fraction: %.4f (was %.4f)\n", validFraction, checkpoint.ValidFraction)
	if meanAbsError >= 0 {
		fmt.Printf("  Mean abs error: %.4f (was %.4f)\n", meanAbsError, checkpoint.MeanAbsError)
	}
	fmt.Printf("  Support points: %d\n", supportCount)

	updated := store.NewCheckpoint(jobID, validFraction, meanAbsError, supportCount, checkpoint.Config, toStoreStageTimings(stages))
	if err := checkpointStore.SaveCheckpoint(jobID, updated); err != nil {
		slog.Warn("Failed to update checkpoint", "error", err)
	} else {
		fmt.Printf("Checkpoint updated\n")
	}

	return nil
}

func toStoreStageTimings(stages []elas.StageTiming) []store.StageTiming {
	out := make([]store.StageTiming, len(stages))
	for i, s := range stages {
		out[i] = store.StageTiming{Name: s.Name, DurationMS: float64(s.Duration.Microseconds()) / 1000.0}
	}
	return out
}
