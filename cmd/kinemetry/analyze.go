package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuromotionlabs/kinemetry/pkg/pipeline"
	"github.com/neuromotionlabs/kinemetry/pkg/pose"
)

// analyzeCmd runs pose sessions through the pipeline
var analyzeCmd = &cobra.Command{
	Use:   "analyze [session.json...]",
	Short: "Analyze pose sessions and score them against the patient baseline",
	Long: `Analyze one or more pose session files.

Each file holds a single session: the session and patient identifiers,
the recording duration, and the ordered 33-keypoint pose frames. Sessions
are processed in argument order, so a batch for one patient builds up the
baseline session by session.

With the memory storage driver, baselines live only for the life of the
process; a batch invocation is then the way to replay a patient history.
With the postgres driver, baselines persist across invocations.

Examples:
  # Analyze a single session
  kinemetry analyze session.json

  # Replay a patient history in order
  kinemetry analyze week1.json week2.json week3.json

  # Read a session from stdin, emit the full result as JSON
  cat session.json | kinemetry analyze -o json -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

// runAnalyze handles the analyze command
func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (must be text or json)", outputFormat)
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	for _, path := range args {
		session, err := loadSession(path)
		if err != nil {
			return err
		}

		result, err := app.pipeline.Process(ctx, session)
		if err != nil {
			return fmt.Errorf("session %s: %w", session.ID, err)
		}

		if err := printResult(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}

	return nil
}

// loadSession reads a session from a JSON file, or from stdin when the
// path is "-".
func loadSession(path string) (*pose.Session, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}

	var session pose.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}

	return &session, nil
}

// printResult writes one pipeline result in the selected output format.
func printResult(w io.Writer, result *pipeline.Result) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "%s\n", result.Summary)

	if result.Assessment != nil {
		fmt.Fprintf(w, "  Risk:     %s (deviation %.2f, confidence %.2f)\n",
			result.Assessment.Level,
			result.Assessment.DeviationScore,
			result.Assessment.Confidence,
		)
		if len(result.Assessment.ExcludedFeatures) > 0 {
			fmt.Fprintf(w, "  Excluded: %v (baseline spread too small)\n",
				result.Assessment.ExcludedFeatures)
		}
	}

	fmt.Fprintf(w, "  Baseline: %s (%d of %d sessions)\n",
		result.Baseline.State,
		result.Baseline.SampleCount,
		result.Baseline.Required,
	)

	for _, rec := range result.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}

	return nil
}
