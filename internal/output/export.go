package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/fileutil"
	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// ExportSWC re-emits the reconstructed skeleton as a valid SWC file. Samples
// keep their original ids (unused ids stay holes, which SWC allows) and are
// written in ascending id order; a parent id that was not reconstructed is
// written as -1. Soma profile points carry no topology and are summarized in
// the header comment instead of being re-emitted.
func ExportSWC(m *morphology.Morphology) []byte {
	byID := make(map[int]swc.Sample)
	for _, arbor := range m.Arbors() {
		morphology.ForEachSection(arbor, func(sec *morphology.Section) {
			for _, s := range sec.Samples {
				byID[s.ID] = s
			}
		})
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b strings.Builder
	soma := m.Soma()
	fmt.Fprintf(&b, "# %s\n", m.Label())
	fmt.Fprintf(&b, "# soma centroid (%g %g %g) mean radius %g, %d profile points\n",
		soma.Centroid.X, soma.Centroid.Y, soma.Centroid.Z, soma.MeanRadius, len(soma.ProfilePoints))
	fmt.Fprintf(&b, "# index type x y z radius parent\n")

	for _, id := range ids {
		s := byID[id]
		parent := swc.NoParent
		if _, ok := byID[s.ParentID]; ok {
			parent = s.ParentID
		}
		fmt.Fprintf(&b, "%d %d %g %g %g %g %d\n",
			s.ID, s.Type.Code(), s.Position.X, s.Position.Y, s.Position.Z, s.Radius, parent)
	}

	return []byte(b.String())
}

type manifestRecord struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Format  string `json:"format"`
	Stems   int    `json:"stems"`
	Samples int    `json:"samples"`

	SomaRadius    float64 `json:"soma_radius"`
	ProfilePoints int     `json:"profile_points"`
	Diagnostics   int     `json:"diagnostics"`
}

type sectionRecord struct {
	Kind     string `json:"kind"`
	Arbor    string `json:"arbor"`
	Type     string `json:"type"`
	Section  int    `json:"section"`
	Parent   int    `json:"parent"`
	Children []int  `json:"children,omitempty"`
	Samples  []int  `json:"samples"`
}

// encodeJSONLSummary emits one manifest line followed by one line per
// section, arbors in classification order and sections in pre-order.
func encodeJSONLSummary(m *morphology.Morphology, report analysis.Report, diags []swc.Diagnostic) ([]byte, error) {
	records := make([]any, 0)
	records = append(records, manifestRecord{
		Kind:          "morphology",
		Label:         m.Label(),
		Format:        string(m.Format()),
		Stems:         m.StemCount(),
		Samples:       m.SampleCount(),
		SomaRadius:    report.SomaRadius,
		ProfilePoints: report.ProfilePoints,
		Diagnostics:   len(diags),
	})

	for _, arbor := range m.Arbors() {
		morphology.ForEachSection(arbor, func(sec *morphology.Section) {
			ids := make([]int, len(sec.Samples))
			for i, s := range sec.Samples {
				ids[i] = s.ID
			}
			records = append(records, sectionRecord{
				Kind:     "section",
				Arbor:    arbor.Label(),
				Type:     sec.Type.String(),
				Section:  sec.Index,
				Parent:   sec.Parent,
				Children: sec.Children,
				Samples:  ids,
			})
		})
	}

	return fileutil.EncodeJSONL(records)
}
