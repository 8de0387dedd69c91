// Package builder reconstructs a strongly-typed skeleton from a flat sample
// table: it groups samples into connected paths, splits the paths into
// branch-free sections, links the sections into rooted trees, classifies the
// trees into arbors, and assembles the final morphology.
package builder

import (
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// path is an ordered run of sample ids. Element 0 is a synthetic bridging
// element equal to the first real sample's parent id; it is not produced by
// the filtered walk itself but lets the splitter recover the parent adjacency.
type path []int

// terminalSet records the first (synthetic) and last sample id of every
// closed path. A path sample found in the set is a section boundary.
type terminalSet map[int]bool

// buildPaths walks the table in ascending sample id order and groups samples
// of the given type into maximal connected paths. Two consecutive filtered
// samples continue a path iff the later one's parent id equals the earlier
// one's id; any break in continuity closes the current path and starts a new
// one. Soma samples and samples with no parent are structural anchors, never
// path members, and are skipped silently.
func buildPaths(table *swc.Table, filter swc.SampleType) ([]path, terminalSet) {
	paths := make([]path, 0)
	terminals := make(terminalSet)

	var current []int
	flush := func() {
		if len(current) == 0 {
			return
		}
		first, _ := table.Get(current[0])
		p := make(path, 0, len(current)+1)
		p = append(p, first.ParentID)
		p = append(p, current...)
		terminals[p[0]] = true
		terminals[p[len(p)-1]] = true
		paths = append(paths, p)
		current = nil
	}

	for _, s := range table.ByType(filter) {
		if s.Type == swc.TypeSoma || s.ParentID == swc.NoParent {
			continue
		}
		if len(current) > 0 && s.ParentID == current[len(current)-1] {
			current = append(current, s.ID)
			continue
		}
		flush()
		current = []int{s.ID}
	}
	flush()

	return paths, terminals
}
