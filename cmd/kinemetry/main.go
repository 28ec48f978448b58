// Package main implements the kinemetry CLI for running pose sessions
// through the movement analysis pipeline and managing patient baselines.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location
	configPath string
	// outputFormat selects between human-readable and JSON output
	outputFormat string

	// Version information (set via ldflags during build)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kinemetry",
	Short: "Movement analysis pipeline for remote patient monitoring",
	Long: `kinemetry analyzes pose-estimation sessions for signs of motor
function change. It extracts gait, tremor, and bradykinesia features from
33-keypoint pose frames, learns a per-patient baseline over the first
sessions, and scores every later session against that baseline.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/kinemetry/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints detailed build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kinemetry by NeuroMotion Labs\n")
		fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", gitCommit)
		fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", buildDate)
	},
}
