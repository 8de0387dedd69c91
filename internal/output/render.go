package output

import (
	"fmt"
	"strings"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// renderText produces the human-readable morphology summary: soma line,
// per-arbor metrics, an indented pre-order section tree, and any
// diagnostics collected during reconstruction.
func renderText(m *morphology.Morphology, report analysis.Report, diags []swc.Diagnostic) string {
	var b strings.Builder

	fmt.Fprintf(&b, "morphology %s (%s, %d samples)\n", m.Label(), m.Format(), m.SampleCount())
	soma := m.Soma()
	fmt.Fprintf(&b, "soma: centroid=(%.3f, %.3f, %.3f) mean-radius=%.4f profile-points=%d\n",
		soma.Centroid.X, soma.Centroid.Y, soma.Centroid.Z, soma.MeanRadius, len(soma.ProfilePoints))
	fmt.Fprintf(&b, "stems: %d\n", m.StemCount())

	for i, arbor := range m.Arbors() {
		stats := report.Arbors[i]
		fmt.Fprintf(&b, "\n%s (%s): sections=%d samples=%d branch-points=%d leaves=%d order=%d length=%.3f\n",
			arbor.Label(), arbor.Type(), stats.Sections, stats.Samples,
			stats.BranchPoints, stats.Leaves, stats.MaxBranchOrder, stats.TotalLength)
		renderArborTree(&b, arbor)
	}

	if len(diags) > 0 {
		fmt.Fprintf(&b, "\ndiagnostics (%d):\n", len(diags))
		for _, d := range diags {
			if d.Sample > 0 {
				fmt.Fprintf(&b, "  [%s/%s] sample %d: %s\n", d.Stage, d.Severity, d.Sample, d.Message)
			} else {
				fmt.Fprintf(&b, "  [%s/%s] %s\n", d.Stage, d.Severity, d.Message)
			}
		}
	}

	return b.String()
}

func renderArborTree(b *strings.Builder, arbor *morphology.Arbor) {
	depths := map[int]int{arbor.Root().Index: 0}
	morphology.ForEachSection(arbor, func(sec *morphology.Section) {
		depth := depths[sec.Index]
		for _, child := range sec.Children {
			depths[child] = depth + 1
		}
		fmt.Fprintf(b, "  %s- section %d [%d..%d, %d samples]\n",
			strings.Repeat("  ", depth), sec.Index, sec.First().ID, sec.Last().ID, len(sec.Samples))
	})
}
