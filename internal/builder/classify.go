package builder

import (
	"fmt"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// tree is a linked, privately-numbered section arena awaiting classification.
type tree struct {
	sections []*morphology.Section
	root     int
}

// Classified groups the raw trees of a morphology by functional type before
// promotion. Tree order follows path order, which promotion relies on.
type Classified struct {
	Axon   []tree
	Basal  []tree
	Apical []tree
}

func (c *Classified) add(kind swc.SampleType, t tree) {
	switch kind {
	case swc.TypeAxon:
		c.Axon = append(c.Axon, t)
	case swc.TypeApicalDendrite:
		c.Apical = append(c.Apical, t)
	default:
		c.Basal = append(c.Basal, t)
	}
}

// promote applies the consistency policy for duplicate trees: the first axon
// tree becomes the canonical axon and every additional one is folded into the
// basal-dendrite list, symmetrically for apical dendrites. Basal trees are
// never promoted or demoted. Demoted trees take on the basal type; their
// sections keep the source sample types untouched.
func promote(c Classified) (axon *morphology.Arbor, basals []*morphology.Arbor, apical *morphology.Arbor, err error) {
	basalTrees := make([]tree, 0, len(c.Basal)+len(c.Axon)+len(c.Apical))
	basalKinds := make([]swc.SampleType, 0, cap(basalTrees))
	basalTrees = append(basalTrees, c.Basal...)
	for range c.Basal {
		basalKinds = append(basalKinds, swc.TypeBasalDendrite)
	}

	if len(c.Axon) > 0 {
		axon, err = newArbor("Axon", swc.TypeAxon, c.Axon[0])
		if err != nil {
			return nil, nil, nil, err
		}
		for _, extra := range c.Axon[1:] {
			basalTrees = append(basalTrees, extra)
			basalKinds = append(basalKinds, swc.TypeBasalDendrite)
		}
	}
	if len(c.Apical) > 0 {
		apical, err = newArbor("Apical Dendrite", swc.TypeApicalDendrite, c.Apical[0])
		if err != nil {
			return nil, nil, nil, err
		}
		for _, extra := range c.Apical[1:] {
			basalTrees = append(basalTrees, extra)
			basalKinds = append(basalKinds, swc.TypeBasalDendrite)
		}
	}

	basals = make([]*morphology.Arbor, 0, len(basalTrees))
	for i, t := range basalTrees {
		arbor, err := newArbor(fmt.Sprintf("Basal Dendrite %d", i+1), basalKinds[i], t)
		if err != nil {
			return nil, nil, nil, err
		}
		basals = append(basals, arbor)
	}

	return axon, basals, apical, nil
}

func newArbor(label string, kind swc.SampleType, t tree) (*morphology.Arbor, error) {
	return morphology.NewArbor(label, kind, t.sections, t.root)
}
