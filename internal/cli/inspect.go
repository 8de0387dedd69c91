package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/builder"
	"github.com/neurotrace-dev/neurotrace/internal/fileutil"
	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

func RunInspect(cmd *cobra.Command, args []string) error {
	m, diags, err := reconstructFile(args[0])
	if err != nil {
		return err
	}

	return fileutil.PrintJSON(os.Stdout, struct {
		Report      analysis.Report  `json:"report"`
		Diagnostics []swc.Diagnostic `json:"diagnostics,omitempty"`
	}{
		Report:      analysis.Analyze(m),
		Diagnostics: diags,
	})
}

func RunValidate(cmd *cobra.Command, args []string) error {
	m, diags, err := reconstructFile(args[0])
	if err != nil {
		return err
	}

	problems := 0
	for _, arbor := range m.Arbors() {
		for _, problem := range morphology.ValidateArbor(arbor) {
			problems++
			fmt.Printf("%s: %s\n", arbor.Label(), problem)
		}
	}
	for _, d := range diags {
		fmt.Printf("[%s/%s] %s\n", d.Stage, d.Severity, d.Message)
	}

	if problems > 0 {
		return fmt.Errorf("%d structural problems in %s", problems, args[0])
	}
	fmt.Printf("%s: %d stems, %d samples, well-formed\n", m.Label(), m.StemCount(), m.SampleCount())
	return nil
}

func reconstructFile(path string) (*morphology.Morphology, []swc.Diagnostic, error) {
	registry := swc.NewDefaultRegistry()
	table, diags, err := registry.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if table == nil {
		return nil, nil, fmt.Errorf("unsupported file type %q", path)
	}

	m, buildDiags, err := builder.Reconstruct(table, morphologyLabel(path))
	if err != nil {
		return nil, nil, err
	}
	return m, append(diags, buildDiags...), nil
}
