package builder

import (
	"fmt"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// linkSections resolves parent/child relations over an arena of sections of
// one morphological type: section i is the child of section j iff i's first
// sample is j's last sample. The arena is indexed by terminal sample id, a
// hash-backed equivalent of the quadratic pairwise scan with identical
// results. A section matching more than one candidate parent is ambiguous
// topology and fails with *LinkError rather than silently overwriting.
// Sections left without a parent are tree roots; a root that is not anchored
// at the soma is reported as a diagnostic, never guessed at.
func linkSections(table *swc.Table, arena []*morphology.Section) ([]swc.Diagnostic, error) {
	byLast := make(map[int][]int, len(arena))
	for _, sec := range arena {
		byLast[sec.Last().ID] = append(byLast[sec.Last().ID], sec.Index)
	}

	for _, sec := range arena {
		candidates := make([]int, 0, 1)
		for _, handle := range byLast[sec.First().ID] {
			if handle != sec.Index {
				candidates = append(candidates, handle)
			}
		}
		switch len(candidates) {
		case 0:
			// root of its tree
		case 1:
			parent := arena[candidates[0]]
			sec.Parent = parent.Index
			parent.Children = append(parent.Children, sec.Index)
		default:
			return nil, &LinkError{Section: sec.Index, Sample: sec.First().ID, Candidates: candidates}
		}
	}

	diags := make([]swc.Diagnostic, 0)
	for _, sec := range arena {
		if !sec.IsRoot() {
			continue
		}
		first := sec.First()
		if first.Type == swc.TypeSoma || first.ParentID == swc.NoParent {
			continue
		}
		if parent, ok := table.Get(first.ParentID); ok && parent.Type == swc.TypeSoma {
			continue
		}
		diags = append(diags, swc.Diagnostic{
			Stage:    "link",
			Severity: "warning",
			Sample:   first.ID,
			Message: fmt.Sprintf("section %d is a root but its first sample %d (parent %d) is not anchored at the soma",
				sec.Index, first.ID, first.ParentID),
		})
	}

	return diags, nil
}

// extractTree collects the sections reachable from root in pre-order and
// renumbers them into a private arena, so every tree owns its sections and
// handles stay dense per arbor.
func extractTree(arena []*morphology.Section, root int) ([]*morphology.Section, int) {
	remap := make(map[int]int)
	order := make([]int, 0)

	var walk func(handle int)
	walk = func(handle int) {
		remap[handle] = len(order)
		order = append(order, handle)
		for _, child := range arena[handle].Children {
			walk(child)
		}
	}
	walk(root)

	out := make([]*morphology.Section, len(order))
	for newHandle, oldHandle := range order {
		src := arena[oldHandle]
		sec := &morphology.Section{
			Index:   newHandle,
			Type:    src.Type,
			Samples: src.Samples,
			Parent:  morphology.NoSection,
		}
		if src.Parent != morphology.NoSection {
			sec.Parent = remap[src.Parent]
		}
		if len(src.Children) > 0 {
			sec.Children = make([]int, len(src.Children))
			for i, child := range src.Children {
				sec.Children[i] = remap[child]
			}
		}
		out[newHandle] = sec
	}
	return out, remap[root]
}
