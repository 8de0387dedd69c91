// Package cli wires the neurotrace commands. All file discovery, logging,
// and option handling lives here; the reconstruction pipeline itself stays
// free of process-wide state.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/neurotrace-dev/neurotrace/internal/output"
)

var logger = newLogger()

func newLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetTimeFormat("")
	l.SetLevel(log.WarnLevel)
	return l
}

// NewRootCommand builds the neurotrace command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neurotrace",
		Short: "Reconstruct neuron morphology skeletons from SWC files",
		Long: `Neurotrace converts flat per-sample morphology descriptions (SWC) into
strongly-typed skeletons: a soma plus arbors (axon, basal dendrites,
apical dendrite), each arbor a tree of branch-free sections.

Reconstruction results are written as text or JSONL summaries plus a
deterministic SWC re-export.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}
			parsed, err := log.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", level, err)
			}
			logger.SetLevel(parsed)
			return nil
		},
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug|info|warn|error")

	reconstructCmd := &cobra.Command{
		Use:   "reconstruct [paths...]",
		Short: "Reconstruct morphologies from files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunReconstruct,
	}
	reconstructCmd.Flags().StringP("out", "o", "neurotrace-out", "Output directory")
	reconstructCmd.Flags().String("format", string(output.FormatText), "Summary format: text|jsonl")
	reconstructCmd.Flags().IntP("workers", "w", 4, "Number of parallel reconstruction workers")
	reconstructCmd.Flags().Bool("force", false, "Reprocess inputs even when unchanged")
	reconstructCmd.Flags().Bool("json", false, "Print machine-readable run summary")
	reconstructCmd.Flags().String("config", "", "Path to a neurotrace.yaml config file")

	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Reconstruct one file and print its analysis report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  RunInspect,
	}

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Reconstruct one file and check tree well-formedness",
		Args:  cobra.ExactArgs(1),
		RunE:  RunValidate,
	}

	rootCmd.AddCommand(reconstructCmd, inspectCmd, validateCmd)
	return rootCmd
}
