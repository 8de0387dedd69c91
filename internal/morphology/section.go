// Package morphology holds the reconstructed skeleton types: sections,
// arbors, the soma, and the immutable morphology bundle handed to consumers.
package morphology

import (
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// NoSection is the handle value marking "no section" (a root's parent).
const NoSection = -1

// Section is the unit of tree topology: a branch-free run of samples.
// Sections live in a per-arbor arena and refer to each other by integer
// handle, so parent/child links cannot form ownership cycles. A section's
// first sample is physically the same point as its parent's last sample:
// a reconstructed adjacency, not a guarantee from the raw ids.
type Section struct {
	Index    int            `json:"index"`
	Type     swc.SampleType `json:"-"`
	Samples  []swc.Sample   `json:"-"`
	Parent   int            `json:"parent"`
	Children []int          `json:"children,omitempty"`
}

// IsRoot reports whether the section is the root of its arbor.
func (s *Section) IsRoot() bool { return s.Parent == NoSection }

// IsLeaf reports whether the section has no children.
func (s *Section) IsLeaf() bool { return len(s.Children) == 0 }

// First returns the section's first sample.
func (s *Section) First() swc.Sample { return s.Samples[0] }

// Last returns the section's last sample.
func (s *Section) Last() swc.Sample { return s.Samples[len(s.Samples)-1] }
