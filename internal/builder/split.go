package builder

import (
	"fmt"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// splitPath subdivides a connected path at its fork samples into atomic,
// branch-free runs of sample ids. The fork sequence always begins at the
// path's first element and ends at its last; every interior element found in
// the terminal set is the start of some other path, i.e. a branch point.
// Consecutive fork samples delimit exactly one run, both ends inclusive, so
// neighboring runs share their boundary sample.
func splitPath(p path, terminals terminalSet) [][]int {
	if len(p) < 2 {
		return nil
	}

	cuts := []int{0}
	for i := 1; i < len(p)-1; i++ {
		if terminals[p[i]] {
			cuts = append(cuts, i)
		}
	}
	cuts = append(cuts, len(p)-1)

	runs := make([][]int, 0, len(cuts)-1)
	for k := 0; k+1 < len(cuts); k++ {
		runs = append(runs, p[cuts[k]:cuts[k+1]+1])
	}
	return runs
}

// materializeSections resolves sample-id runs into sections appended to the
// arena. The synthetic bridging id at the start of a run may reference a
// sample outside the table (a dangling parent in the source file); the run
// then starts at its first real sample and the gap is reported as a
// diagnostic. Single-sample sections are legal degenerate stubs at branch
// points and are kept: the linker relies on them to re-establish adjacency.
func materializeSections(table *swc.Table, kind swc.SampleType, runs [][]int, arena []*morphology.Section) ([]*morphology.Section, []swc.Diagnostic) {
	diags := make([]swc.Diagnostic, 0)

	for _, run := range runs {
		samples := make([]swc.Sample, 0, len(run))
		for i, id := range run {
			s, ok := table.Get(id)
			if !ok {
				if i == 0 && id == swc.NoParent {
					continue
				}
				diags = append(diags, swc.Diagnostic{
					Stage:    "split",
					Severity: "warning",
					Sample:   id,
					Message:  fmt.Sprintf("dangling reference: sample %d is absent from the table", id),
				})
				continue
			}
			samples = append(samples, *s)
		}
		if len(samples) == 0 {
			continue
		}
		sec := &morphology.Section{
			Index:   len(arena),
			Type:    kind,
			Samples: samples,
			Parent:  morphology.NoSection,
		}
		if len(samples) == 1 {
			diags = append(diags, swc.Diagnostic{
				Stage:    "split",
				Severity: "info",
				Sample:   samples[0].ID,
				Message:  fmt.Sprintf("degenerate single-sample section %d at sample %d", sec.Index, samples[0].ID),
			})
		}
		arena = append(arena, sec)
	}

	return arena, diags
}
