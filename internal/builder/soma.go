package builder

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// buildSoma derives the cell body from the soma-typed samples plus the
// attachment point of every classified arbor. The single soma sample with no parent
// yields the centroid and a fallback radius; every other soma sample is a
// profile point. The mean radius is the mean Euclidean distance from the
// centroid to the profile points, overriding the single-sample radius. A
// soma without profile points is ill-defined but not fatal: the fallback
// radius (or zero, when no soma samples exist at all) is used and a
// diagnostic is attached for the caller to act on.
func buildSoma(table *swc.Table, arbors []*morphology.Arbor) (morphology.Soma, []swc.Diagnostic) {
	diags := make([]swc.Diagnostic, 0)

	var centroidSample *swc.Sample
	profile := make([]v3.Vec, 0)
	for _, s := range table.ByType(swc.TypeSoma) {
		if s.ParentID == swc.NoParent {
			if centroidSample == nil {
				centroidSample = s
				continue
			}
			diags = append(diags, swc.Diagnostic{
				Stage:    "soma",
				Severity: "warning",
				Sample:   s.ID,
				Message:  fmt.Sprintf("extra parentless soma sample %d ignored (centroid already set by sample %d)", s.ID, centroidSample.ID),
			})
			continue
		}
		profile = append(profile, s.Position)
	}

	soma := morphology.Soma{ProfilePoints: profile}
	switch {
	case centroidSample == nil:
		diags = append(diags, swc.Diagnostic{
			Stage:    "soma",
			Severity: "warning",
			Message:  "no parentless soma sample: soma centroid undefined, radius set to 0",
		})
	case len(profile) == 0:
		soma.Centroid = centroidSample.Position
		soma.MeanRadius = centroidSample.Radius
		diags = append(diags, swc.Diagnostic{
			Stage:    "soma",
			Severity: "warning",
			Sample:   centroidSample.ID,
			Message:  "soma has no profile points: falling back to the centroid sample's own radius",
		})
	default:
		soma.Centroid = centroidSample.Position
		total := 0.0
		for _, p := range profile {
			total += p.Sub(soma.Centroid).Length()
		}
		soma.MeanRadius = total / float64(len(profile))
	}

	soma.ArborRootPoints = make([]v3.Vec, 0, len(arbors))
	for _, arbor := range arbors {
		soma.ArborRootPoints = append(soma.ArborRootPoints, arborRootPoint(arbor.Root()))
	}

	return soma, diags
}

// arborRootPoint is where an arbor attaches: the first sample of its root
// section that is not the bridging soma copy. Roots that never bridged (a
// dangling parent) attach at their own first sample.
func arborRootPoint(root *morphology.Section) v3.Vec {
	if root.First().Type == swc.TypeSoma && len(root.Samples) > 1 {
		return root.Samples[1].Position
	}
	return root.First().Position
}
