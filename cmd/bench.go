package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	elas "github.com/cwbudde/goelas"
	"github.com/cwbudde/goelas/internal/elasconfig"
	"github.com/cwbudde/goelas/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	benchScenario   string
	benchPreset     string
	benchWidth      int
	benchHeight     int
	benchSeed       int64
	benchReps       int
	benchCpuProfile string
	benchMemProfile string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a synthetic stereo scenario and report pipeline statistics",
	Long: `Generates a named synthetic rectified stereo pair, runs it through
elas.ProcessTraced, and reports valid-pixel fraction, mean absolute error
against the scenario's known ground truth, and per-stage timings.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchScenario, "scenario", "shifted-noise", fmt.Sprintf("Synthetic scenario (%v)", scenario.Names))
	benchCmd.Flags().StringVar(&benchPreset, "preset", "robotics", "Parameter preset: robotics or middlebury")
	benchCmd.Flags().IntVar(&benchWidth, "width", 320, "Stereo pair width")
	benchCmd.Flags().IntVar(&benchHeight, "height", 240, "Stereo pair height")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "Random seed")
	benchCmd.Flags().IntVar(&benchReps, "reps", 1, "Number of repetitions to average over")

	benchCmd.Flags().StringVar(&benchCpuProfile, "cpuprofile", "", "Write CPU profile to file")
	benchCmd.Flags().StringVar(&benchMemProfile, "memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchCpuProfile != "" {
		f, err := os.Create(benchCpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", benchCpuProfile)
	}

	params, err := resolvePreset(benchPreset)
	if err != nil {
		return err
	}

	slog.Info("Starting benchmark", "scenario", benchScenario, "preset", benchPreset, "reps", benchReps)

	var (
		sumValidFraction float64
		sumMeanAbsError  float64
		meanErrCount     int
		lastSupportCount int
		lastStages       []elas.StageTiming
	)

	start := time.Now()

	for rep := 0; rep < benchReps; rep++ {
		pair, err := scenario.Generate(benchScenario, benchWidth, benchHeight, benchSeed+int64(rep))
		if err != nil {
			return fmt.Errorf("failed to generate scenario: %w", err)
		}

		left := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Left}
		right := elas.Input{Width: pair.Width, Height: pair.Height, Stride: pair.Width, Pix: pair.Right}

		d1, _, stages, supportCount, err := elas.ProcessTraced(left, right, params)
		if err != nil {
			return fmt.Errorf("rep %d failed: %w", rep, err)
		}

		validFraction, meanAbsError := scoreDisparity(d1, pair.GroundTruth)
		sumValidFraction += validFraction
		if meanAbsError >= 0 {
			sumMeanAbsError += meanAbsError
			meanErrCount++
		}

		lastSupportCount = supportCount
		lastStages = stages
	}

	elapsed := time.Since(start)

	fmt.Printf("Scenario: %s (%dx%d, preset %s, %d rep(s))\n", benchScenario, benchWidth, benchHeight, benchPreset, benchReps)
	fmt.Printf("  Valid fraction:  %.4f\n", sumValidFraction/float64(benchReps))
	if meanErrCount > 0 {
		fmt.Printf("  Mean abs error:  %.4f\n", sumMeanAbsError/float64(meanErrCount))
	} else {
		fmt.Printf("  Mean abs error:  n/a (no ground-truth overlap)\n")
	}
	fmt.Printf("  Support points:  %d\n", lastSupportCount)
	fmt.Printf("  Elapsed:         %s\n", elapsed.Round(time.Microsecond))
	fmt.Println("  Stage timings (last rep):")
	for _, s := range lastStages {
		fmt.Printf("    %-14s %s\n", s.Name, s.Duration.Round(time.Microsecond))
	}

	if benchMemProfile != "" {
		f, err := os.Create(benchMemProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		slog.Info("Memory profile written", "output", benchMemProfile)
	}

	return nil
}

// resolvePreset resolves a preset name to its elasconfig.Parameters.
func resolvePreset(name string) (elasconfig.Parameters, error) {
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
// the mean absolute error against groundTruth, considering only pixels
// where both are defined. meanAbsError is -1 when no such pixel exists.
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
