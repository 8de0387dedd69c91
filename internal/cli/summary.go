package cli

import (
	"fmt"
	"os"

	"github.com/neurotrace-dev/neurotrace/internal/fileutil"
)

// RunSummary is the per-invocation report of a reconstruct run.
type RunSummary struct {
	Mode       string              `json:"mode"`
	Format     string              `json:"format,omitempty"`
	OutputDir  string              `json:"output_dir,omitempty"`
	Scanned    int                 `json:"scanned"`
	Processed  int                 `json:"processed"`
	Skipped    int                 `json:"skipped"`
	Failed     int                 `json:"failed"`
	DurationMS int64               `json:"duration_ms"`
	Results    []reconstructResult `json:"results,omitempty"`
}

func PrintRunSummary(summary RunSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(os.Stdout, summary)
	}

	fmt.Printf("reconstruct complete in %dms\n", summary.DurationMS)
	if summary.OutputDir != "" {
		fmt.Printf("output: %s (%s)\n", summary.OutputDir, summary.Format)
	}
	fmt.Printf("files: scanned=%d processed=%d skipped=%d failed=%d\n",
		summary.Scanned, summary.Processed, summary.Skipped, summary.Failed)

	for _, res := range summary.Results {
		switch {
		case res.Error != "":
			fmt.Printf("  %s: FAILED: %s\n", res.Path, res.Error)
		case res.Skipped:
			fmt.Printf("  %s: unchanged, skipped\n", res.Path)
		default:
			fmt.Printf("  %s: stems=%d samples=%d diagnostics=%d\n",
				res.Path, res.Stems, res.Samples, res.Diagnostics)
		}
	}
	return nil
}
