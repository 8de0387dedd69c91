// Package analysis computes read-only metrics over a reconstructed
// morphology: per-arbor cable length, branching structure, radius
// distribution, and the overall bounding box.
package analysis

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
)

// ArborStats summarizes one arbor.
type ArborStats struct {
	Label          string  `json:"label"`
	Type           string  `json:"type"`
	Sections       int     `json:"sections"`
	Samples        int     `json:"samples"`
	BranchPoints   int     `json:"branch_points"`
	Leaves         int     `json:"leaves"`
	MaxBranchOrder int     `json:"max_branch_order"`
	TotalLength    float64 `json:"total_length"`
	MeanRadius     float64 `json:"mean_radius"`
	RadiusStdDev   float64 `json:"radius_stddev"`
}

// BoundingBox is the axis-aligned extent of a morphology's samples.
type BoundingBox struct {
	Min v3.Vec `json:"min"`
	Max v3.Vec `json:"max"`
}

// Report aggregates the metrics of a whole morphology.
type Report struct {
	Label         string       `json:"label"`
	Format        string       `json:"format"`
	Stems         int          `json:"stems"`
	Samples       int          `json:"samples"`
	SomaRadius    float64      `json:"soma_radius"`
	ProfilePoints int          `json:"profile_points"`
	Arbors        []ArborStats `json:"arbors"`
	Bounds        BoundingBox  `json:"bounds"`
}

// AnalyzeArbor walks one arbor and computes its metrics. Samples shared
// between a section and its children are counted once.
func AnalyzeArbor(a *morphology.Arbor) ArborStats {
	stats := ArborStats{
		Label: a.Label(),
		Type:  a.Type().String(),
	}

	radiiByID := make(map[int]float64)
	depths := map[int]int{a.Root().Index: 1}

	morphology.ForEachSection(a, func(sec *morphology.Section) {
		stats.Sections++
		if len(sec.Children) > 1 {
			stats.BranchPoints++
		}
		if sec.IsLeaf() {
			stats.Leaves++
		}
		depth := depths[sec.Index]
		if depth > stats.MaxBranchOrder {
			stats.MaxBranchOrder = depth
		}
		for _, child := range sec.Children {
			depths[child] = depth + 1
		}
		for i, s := range sec.Samples {
			radiiByID[s.ID] = s.Radius
			if i > 0 {
				stats.TotalLength += s.Position.Sub(sec.Samples[i-1].Position).Length()
			}
		}
	})

	stats.Samples = len(radiiByID)
	if len(radiiByID) > 0 {
		radii := make([]float64, 0, len(radiiByID))
		for _, r := range radiiByID {
			radii = append(radii, r)
		}
		stats.MeanRadius = stat.Mean(radii, nil)
		if len(radii) > 1 {
			stats.RadiusStdDev = stat.StdDev(radii, nil)
		}
	}

	return stats
}

// Analyze computes the full report for a morphology.
func Analyze(m *morphology.Morphology) Report {
	report := Report{
		Label:         m.Label(),
		Format:        string(m.Format()),
		Stems:         m.StemCount(),
		Samples:       m.SampleCount(),
		SomaRadius:    m.Soma().MeanRadius,
		ProfilePoints: len(m.Soma().ProfilePoints),
	}

	bounds := newBoundsTracker()
	for _, p := range m.Soma().ProfilePoints {
		bounds.add(p)
	}
	for _, arbor := range m.Arbors() {
		report.Arbors = append(report.Arbors, AnalyzeArbor(arbor))
		morphology.ForEachSection(arbor, func(sec *morphology.Section) {
			for _, s := range sec.Samples {
				bounds.add(s.Position)
			}
		})
	}
	report.Bounds = bounds.box()

	return report
}

type boundsTracker struct {
	seen bool
	min  v3.Vec
	max  v3.Vec
}

func newBoundsTracker() *boundsTracker { return &boundsTracker{} }

func (b *boundsTracker) add(p v3.Vec) {
	if !b.seen {
		b.min, b.max, b.seen = p, p, true
		return
	}
	b.min = b.min.Min(p)
	b.max = b.max.Max(p)
}

func (b *boundsTracker) box() BoundingBox {
	return BoundingBox{Min: b.min, Max: b.max}
}
