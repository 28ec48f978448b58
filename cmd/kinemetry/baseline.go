package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
)

// patientID is the target patient for baseline subcommands
var patientID string

// baselineCmd groups baseline management subcommands
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Inspect or reset patient baselines",
	Long: `Inspect or reset the stored baseline for a patient.

A baseline collects over the first sessions and then freezes. Once frozen
it never changes shape on its own; resetting it is the only way to start
collection over, for example after a medication change or an injury that
redefines the patient's normal movement.`,
}

// baselineStatusCmd reports collection progress for one patient
var baselineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show baseline collection progress for a patient",
	Long: `Show how far a patient's baseline has progressed.

Examples:
  kinemetry baseline status --patient pt-1001
  kinemetry baseline status --patient pt-1001 -o json`,
	RunE: runBaselineStatus,
}

// baselineResetCmd discards one patient's baseline
var baselineResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard a patient's baseline and start collection over",
	Long: `Discard the stored baseline for a patient.

The next analyzed session starts a fresh collection. With the memory
storage driver this only affects the current process; with postgres the
stored baseline is deleted.

Examples:
  kinemetry baseline reset --patient pt-1001`,
	RunE: runBaselineReset,
}

func init() {
	baselineCmd.PersistentFlags().StringVar(&patientID, "patient", "", "patient identifier (required)")
	_ = baselineCmd.MarkPersistentFlagRequired("patient")
	baselineCmd.AddCommand(baselineStatusCmd)
	baselineCmd.AddCommand(baselineResetCmd)
}

// runBaselineStatus handles the baseline status command
func runBaselineStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	progress, err := app.baselines.Progress(ctx, patientID)
	if err != nil {
		return fmt.Errorf("baseline status for %s: %w", patientID, err)
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(progress)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Patient:  %s\n", patientID)
	fmt.Fprintf(cmd.OutOrStdout(), "State:    %s\n", progress.State)
	fmt.Fprintf(cmd.OutOrStdout(), "Sessions: %d of %d\n", progress.SampleCount, progress.Required)
	return nil
}

// runBaselineReset handles the baseline reset command
func runBaselineReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.baselines.Reset(ctx, patientID); err != nil {
		if errors.Is(err, baseline.ErrBaselineNotFound) {
			return fmt.Errorf("no baseline stored for patient %s", patientID)
		}
		return fmt.Errorf("baseline reset for %s: %w", patientID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Baseline for patient %s reset; collection starts over with the next session.\n", patientID)
	return nil
}
