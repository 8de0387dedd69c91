package morphology

import (
	"fmt"
	"sort"
)

// ValidateArbor runs structural well-formedness checks over an arbor and
// returns a list of problems, empty when the tree is sound. It checks that a
// pre-order walk from the root reaches every section exactly once, that
// parent/child links are mutually consistent, that every non-root section
// starts at its parent's last sample, and that no sample is stored in more
// than one section beyond the shared boundary copies.
func ValidateArbor(a *Arbor) []string {
	problems := make([]string, 0)

	if !a.Root().IsRoot() {
		problems = append(problems, fmt.Sprintf("root section %d has parent %d", a.root, a.Root().Parent))
	}

	visits := make([]int, len(a.sections))
	var walk func(handle int)
	walk = func(handle int) {
		visits[handle]++
		if visits[handle] > 1 {
			return // cycle; already reported through the visit count below
		}
		for _, child := range a.sections[handle].Children {
			if child < 0 || child >= len(a.sections) {
				problems = append(problems, fmt.Sprintf("section %d: child handle %d out of range", handle, child))
				continue
			}
			walk(child)
		}
	}
	walk(a.root)

	for handle, count := range visits {
		switch {
		case count == 0:
			problems = append(problems, fmt.Sprintf("section %d unreachable from root", handle))
		case count > 1:
			problems = append(problems, fmt.Sprintf("section %d visited %d times (cycle or duplicate child link)", handle, count))
		}
	}

	for _, sec := range a.sections {
		if sec.IsRoot() {
			continue
		}
		parent, ok := a.Section(sec.Parent)
		if !ok {
			problems = append(problems, fmt.Sprintf("section %d: parent handle %d out of range", sec.Index, sec.Parent))
			continue
		}
		links := 0
		for _, child := range parent.Children {
			if child == sec.Index {
				links++
			}
		}
		if links != 1 {
			problems = append(problems, fmt.Sprintf("section %d appears %d times in parent %d's children", sec.Index, links, parent.Index))
		}
		if sec.First().ID != parent.Last().ID {
			problems = append(problems, fmt.Sprintf("section %d starts at sample %d, parent %d ends at sample %d",
				sec.Index, sec.First().ID, parent.Index, parent.Last().ID))
		}
	}

	// Each sample belongs to exactly one section. The first sample of a
	// section is a shared boundary copy (the parent's last sample, or the
	// bridging anchor on a root) and is not counted.
	owned := make(map[int]int)
	for _, sec := range a.sections {
		for i, s := range sec.Samples {
			if i == 0 {
				continue
			}
			owned[s.ID]++
		}
	}
	dupes := make([]int, 0)
	for id, n := range owned {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Ints(dupes)
	for _, id := range dupes {
		problems = append(problems, fmt.Sprintf("sample %d stored in %d sections", id, owned[id]))
	}

	return problems
}
