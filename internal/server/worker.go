package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	elas "github.com/cwbudde/goelas"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/scenario"
	"github.com/cwbudde/goelas/internal/store"
)

// runJob executes a benchmark job in the background: it generates the
// configured synthetic scenario, runs elas.ProcessTraced Repetitions
// times, and tracks running accuracy/throughput statistics as it goes.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("Starting benchmark job", "job_id", jobID, "scenario", job.Config.Scenario, "preset", job.Config.Preset)

	params, err := presetParams(job.Config.Preset)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	start := time.Now()

	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, start, progressDone)

	var (
		sumValidFraction float64
		sumMeanAbsError  float64
		validRepCount    int
		lastStages       []elas.StageTiming
		lastSupportCount int
		lastErr          error
	)

	for rep := 0; rep < job.Repetitions; rep++ {
		select {
		case <-ctx.Done():
			close(progressDone)
			markJobCancelled(jm, jobID)
			return ctx.Err()
		default:
		}

		pair, genErr := scenario.Generate(job.Config.Scenario, job.Config.Width, job.Config.Height, job.Config.Seed+int64(rep))
		if genErr != nil {
			close(progressDone)
			markJobFailed(jm, jobID, genErr)
			return genErr
		}

		left := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Left}
		right := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Right}

		d1, _, stages, supportCount, procErr := elas.ProcessTraced(left, right, params)
		lastStages = stages
		lastSupportCount = supportCount
		if procErr != nil {
			lastErr = procErr
			slog.Warn("Repetition failed", "job_id", jobID, "rep", rep, "error", procErr)
			jm.UpdateJob(jobID, func(j *Job) { j.Completed = rep + 1 })
			continue
		}

		validFraction, meanAbsError := scoreDisparity(d1, pair.GroundTruth)
		sumValidFraction += validFraction
		if meanAbsError >= 0 {
			sumMeanAbsError += meanAbsError
			validRepCount++
		}

		jm.UpdateJob(jobID, func(j *Job) {
			j.Completed = rep + 1
			j.ValidFraction = sumValidFraction / float64(rep+1)
			if validRepCount > 0 {
				j.MeanAbsError = sumMeanAbsError / float64(validRepCount)
			} else {
				j.MeanAbsError = -1
			}
			j.SupportCount = supportCount
			j.Stages = toStageDTOs(stages)
		})
	}

	close(progressDone)
	elapsed := time.Since(start)

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	if job.Completed == 0 && lastErr != nil {
		markJobFailed(jm, jobID, lastErr)
		return lastErr
	}

	endTime := time.Now()
	finalJob, _ := jm.GetJob(jobID)
	updateErr := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.EndTime = &endTime
	})
	if updateErr != nil {
		return updateErr
	}

	if checkpointStore != nil {
		checkpoint := store.NewCheckpoint(jobID, finalJob.ValidFraction, finalJob.MeanAbsError, lastSupportCount, job.Config, toStoreStages(lastStages))
		if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
			slog.Warn("Failed to save checkpoint", "job_id", jobID, "error", err)
		}
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"valid_fraction", finalJob.ValidFraction,
		"mean_abs_error", finalJob.MeanAbsError,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:         jobID,
		State:         StateCompleted,
		Completed:     finalJob.Completed,
		Repetitions:   finalJob.Repetitions,
		ValidFraction: finalJob.ValidFraction,
		MeanAbsError:  finalJob.MeanAbsError,
		Timestamp:     time.Now(),
	})

	return nil
}

// presetParams resolves a preset name to its elasconfig.Parameters.
func presetParams(name string) (elasconfig.Parameters, error) {
	switch name {
	case "", "robotics":
		return elasconfig.Robotics(), nil
	case "middlebury":
		return elasconfig.Middlebury(), nil
	default:
		return elasconfig.Parameters{}, fmt.Errorf("unknown preset: %s", name)
	}
}

// scoreDisparity reports the fraction of non-sentinel pixels in d and
// the mean absolute error against groundTruth, considering only
// pixels where the scenario defines a known disparity (gt >= 0).
// meanAbsError is -1 when no ground-truth pixel was also valid.
func scoreDisparity(d []float32, groundTruth []float32) (validFraction, meanAbsError float64) {
	if len(d) == 0 {
		return 0, -1
	}
	validCount := 0
	var errSum float64
	errCount := 0
	for i, v := range d {
		if v >= 0 {
			validCount++
			if i < len(groundTruth) && groundTruth[i] >= 0 {
				diff := float64(v) - float64(groundTruth[i])
				if diff < 0 {
					diff = -diff
				}
				errSum += diff
				errCount++
			}
		}
	}
	validFraction = float64(validCount) / float64(len(d))
	if errCount == 0 {
		return validFraction, -1
	}
	return validFraction, errSum / float64(errCount)
}

func toStageDTOs(stages []elas.StageTiming) []StageDTO {
	out := make([]StageDTO, len(stages))
	for i, s := range stages {
		out[i] = StageDTO{Name: s.Name, DurationMS: float64(s.Duration.Microseconds()) / 1000.0}
	}
	return out
}

func toStoreStages(stages []elas.StageTiming) []store.StageTiming {
	out := make([]store.StageTiming, len(stages))
	for i, s := range stages {
		out[i] = store.StageTiming{Name: s.Name, DurationMS: float64(s.Duration.Microseconds()) / 1000.0}
	}
	return out
}

// monitorProgress periodically broadcasts progress events while a job runs.
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, startTime time.Time, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:         jobID,
				State:         job.State,
				Completed:     job.Completed,
				Repetitions:   job.Repetitions,
				ValidFraction: job.ValidFraction,
				MeanAbsError:  job.MeanAbsError,
				Timestamp:     time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message.
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled.
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
