package builder

import (
	"fmt"

	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

// arborTypes is the reconstruction order; tree discovery follows it, then
// path order within each type.
var arborTypes = [3]swc.SampleType{swc.TypeAxon, swc.TypeBasalDendrite, swc.TypeApicalDendrite}

// Reconstruct runs the full pipeline over a parsed sample table: connected
// paths, section splitting, tree linking, arbor classification, soma
// building, assembly. It is synchronous and purely functional over the
// table; on a hard error no morphology is returned, since a half-built tree
// is unsafe to traverse. Soft findings are returned as diagnostics on the
// successful result.
func Reconstruct(table *swc.Table, label string) (*morphology.Morphology, []swc.Diagnostic, error) {
	diags := checkSomaAnchor(table)

	var classified Classified
	for _, kind := range arborTypes {
		paths, terminals := buildPaths(table, kind)

		arena := make([]*morphology.Section, 0)
		for _, p := range paths {
			var splitDiags []swc.Diagnostic
			arena, splitDiags = materializeSections(table, kind, splitPath(p, terminals), arena)
			diags = append(diags, splitDiags...)
		}
		if len(arena) == 0 {
			continue
		}

		linkDiags, err := linkSections(table, arena)
		if err != nil {
			return nil, nil, fmt.Errorf("linking %s sections: %w", kind, err)
		}
		diags = append(diags, linkDiags...)

		for _, sec := range arena {
			if sec.IsRoot() {
				sections, root := extractTree(arena, sec.Index)
				classified.add(kind, tree{sections: sections, root: root})
			}
		}
	}

	axon, basals, apical, err := promote(classified)
	if err != nil {
		return nil, nil, err
	}

	arbors := make([]*morphology.Arbor, 0)
	if axon != nil {
		arbors = append(arbors, axon)
	}
	arbors = append(arbors, basals...)
	if apical != nil {
		arbors = append(arbors, apical)
	}

	for _, arbor := range arbors {
		if !arbor.Root().IsRoot() {
			return nil, nil, &AssemblyError{Arbor: arbor.Label(), Section: arbor.Root().Index}
		}
	}
	diags = append(diags, checkSampleBounds(table, arbors)...)

	soma, somaDiags := buildSoma(table, arbors)
	diags = append(diags, somaDiags...)

	m := morphology.New(soma, axon, basals, apical, label, table.Format(), table.Len())
	return m, diags, nil
}

// checkSomaAnchor flags samples using the literal parent id 1 as a soma
// anchor when sample 1 is not actually a soma sample. The dual root
// convention in SWC files (parent -1 versus parent 1) is only sound when id 1
// is the soma; anything else is surfaced, not guessed at.
func checkSomaAnchor(table *swc.Table) []swc.Diagnostic {
	diags := make([]swc.Diagnostic, 0)
	anchor, ok := table.Get(1)
	if ok && anchor.Type == swc.TypeSoma {
		return diags
	}

	table.Each(func(s *swc.Sample) {
		if s.Type == swc.TypeSoma || s.ParentID != 1 {
			return
		}
		why := "sample 1 is absent"
		if ok {
			why = fmt.Sprintf("sample 1 is %s, not soma", anchor.Type)
		}
		diags = append(diags, swc.Diagnostic{
			Stage:    "paths",
			Severity: "warning",
			Sample:   s.ID,
			Message:  fmt.Sprintf("sample %d uses parent 1 as a soma anchor but %s", s.ID, why),
		})
	})
	return diags
}

// checkSampleBounds verifies the per-type sanity bound: the samples stored
// across an arbor's sections, plus one bridging sample per stem, must cover
// at least the raw sample count of that type. Branch points are shared
// between sections so this is a lower bound, not an equality.
func checkSampleBounds(table *swc.Table, arbors []*morphology.Arbor) []swc.Diagnostic {
	stored := make(map[swc.SampleType]int)
	stems := make(map[swc.SampleType]int)
	for _, arbor := range arbors {
		kind := arbor.Root().Type
		stems[kind]++
		morphology.ForEachSection(arbor, func(sec *morphology.Section) {
			stored[kind] += len(sec.Samples)
		})
	}

	diags := make([]swc.Diagnostic, 0)
	for _, kind := range arborTypes {
		raw := table.CountByType(kind)
		if raw == 0 {
			continue
		}
		if stored[kind]+stems[kind] < raw {
			diags = append(diags, swc.Diagnostic{
				Stage:    "assemble",
				Severity: "warning",
				Message: fmt.Sprintf("%s sections hold %d samples (+%d bridging) but the table has %d %s samples",
					kind, stored[kind], stems[kind], raw, kind),
			})
		}
	}
	return diags
}
