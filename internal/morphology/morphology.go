package morphology

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// Soma is the cell body: a centroid, a mean radius, the profile points traced
// around the body, and the points where the classified arbors attach.
type Soma struct {
	Centroid        v3.Vec
	MeanRadius      float64
	ProfilePoints   []v3.Vec
	ArborRootPoints []v3.Vec
}

// Morphology is the final reconstructed skeleton: soma plus classified
// arbors. It is constructed once by the builder and read-only afterward;
// collaborators (renderers, analysis, exporters) only borrow it.
type Morphology struct {
	soma        Soma
	axon        *Arbor
	basals      []*Arbor
	apical      *Arbor
	label       string
	format      swc.Format
	stemCount   int
	sampleCount int
}

// New bundles a reconstructed skeleton. The basals slice is taken over by the
// morphology and must not be mutated by the caller afterward.
func New(soma Soma, axon *Arbor, basals []*Arbor, apical *Arbor, label string, format swc.Format, sampleCount int) *Morphology {
	stems := len(basals)
	if axon != nil {
		stems++
	}
	if apical != nil {
		stems++
	}
	return &Morphology{
		soma:        soma,
		axon:        axon,
		basals:      basals,
		apical:      apical,
		label:       label,
		format:      format,
		stemCount:   stems,
		sampleCount: sampleCount,
	}
}

// Soma returns the reconstructed cell body.
func (m *Morphology) Soma() *Soma { return &m.soma }

// Axon returns the canonical axon arbor, or nil when the file has none.
func (m *Morphology) Axon() *Arbor { return m.axon }

// BasalDendrites returns the basal dendrite arbors, demoted duplicates
// included, in classification order.
func (m *Morphology) BasalDendrites() []*Arbor { return m.basals }

// ApicalDendrite returns the canonical apical dendrite arbor, or nil.
func (m *Morphology) ApicalDendrite() *Arbor { return m.apical }

// Label returns the morphology's display label.
func (m *Morphology) Label() string { return m.label }

// Format returns the physical layout the morphology was loaded from.
func (m *Morphology) Format() swc.Format { return m.format }

// StemCount returns the number of arbors anchored to the soma.
func (m *Morphology) StemCount() int { return m.stemCount }

// SampleCount returns the number of samples in the source table.
func (m *Morphology) SampleCount() int { return m.sampleCount }

// Arbors returns every classified arbor: axon first, then basal dendrites,
// then the apical dendrite.
func (m *Morphology) Arbors() []*Arbor {
	out := make([]*Arbor, 0, m.stemCount)
	if m.axon != nil {
		out = append(out, m.axon)
	}
	out = append(out, m.basals...)
	if m.apical != nil {
		out = append(out, m.apical)
	}
	return out
}
