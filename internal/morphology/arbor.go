package morphology

import (
	"fmt"

	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// Arbor is a rooted tree of sections of a single morphological type.
type Arbor struct {
	label    string
	kind     swc.SampleType
	sections []*Section // arena, indexed by Section.Index
	root     int
}

// NewArbor wraps an arena of linked sections into an arbor rooted at root.
// Section handles must match their arena positions.
func NewArbor(label string, kind swc.SampleType, sections []*Section, root int) (*Arbor, error) {
	if root < 0 || root >= len(sections) {
		return nil, fmt.Errorf("arbor %q: root handle %d out of range (%d sections)", label, root, len(sections))
	}
	for i, sec := range sections {
		if sec == nil {
			return nil, fmt.Errorf("arbor %q: nil section at handle %d", label, i)
		}
		if sec.Index != i {
			return nil, fmt.Errorf("arbor %q: section handle %d stored at position %d", label, sec.Index, i)
		}
	}
	return &Arbor{label: label, kind: kind, sections: sections, root: root}, nil
}

// Label returns the arbor's display label ("Axon", "Basal Dendrite 2", ...).
func (a *Arbor) Label() string { return a.label }

// Type returns the morphological type shared by every section of the arbor.
func (a *Arbor) Type() swc.SampleType { return a.kind }

// Root returns the arbor's root section.
func (a *Arbor) Root() *Section { return a.sections[a.root] }

// Section returns the section with the given arena handle.
func (a *Arbor) Section(handle int) (*Section, bool) {
	if handle < 0 || handle >= len(a.sections) {
		return nil, false
	}
	return a.sections[handle], true
}

// NumSections returns the number of sections in the arbor.
func (a *Arbor) NumSections() int { return len(a.sections) }

// Relabel returns a copy of the arbor under a new label. The section arena is
// shared: arbors are read-only once assembled.
func (a *Arbor) Relabel(label string) *Arbor {
	return &Arbor{label: label, kind: a.kind, sections: a.sections, root: a.root}
}

// ForEachSection walks the arbor depth-first in pre-order: the parent is
// visited before its children, children in insertion order from linking.
func ForEachSection(a *Arbor, visit func(*Section)) {
	if a == nil {
		return
	}
	var walk func(handle int)
	walk = func(handle int) {
		sec := a.sections[handle]
		visit(sec)
		for _, child := range sec.Children {
			walk(child)
		}
	}
	walk(a.root)
}
