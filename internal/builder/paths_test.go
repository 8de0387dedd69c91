package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

func mustTable(t *testing.T, input string) *swc.Table {
	t.Helper()
	table, _, err := swc.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return table
}

func TestBuildPathsContinuityAndBridging(t *testing.T) {
	// 2-3 are continuous, 4 breaks continuity (parent 2) and restarts.
	table := mustTable(t, `
1 1 0 0 0 5 -1
2 3 0 0 1 1 1
3 3 0 1 2 1 2
4 3 1 1 2 1 2
`)

	paths, terminals := buildPaths(table, swc.TypeBasalDendrite)
	require.Len(t, paths, 2)
	assert.Equal(t, path{1, 2, 3}, paths[0], "closed path carries a synthetic bridging parent")
	assert.Equal(t, path{2, 4}, paths[1])

	for _, id := range []int{1, 3, 2, 4} {
		assert.True(t, terminals[id], "terminal set must hold first and last of every path, id %d", id)
	}
}

func TestBuildPathsSkipsAnchors(t *testing.T) {
	// Soma samples and parentless samples never start a path.
	table := mustTable(t, `
1 1 0 0 0 5 -1
2 1 3 0 0 1 1
3 2 0 0 1 1 1
4 2 0 0 2 1 3
`)

	paths, _ := buildPaths(table, swc.TypeSoma)
	assert.Empty(t, paths)

	axonPaths, _ := buildPaths(table, swc.TypeAxon)
	require.Len(t, axonPaths, 1)
	assert.Equal(t, path{1, 3, 4}, axonPaths[0])
}

func TestSplitPathAtBranchPoints(t *testing.T) {
	p := path{1, 2, 3, 4, 5}
	terminals := terminalSet{1: true, 3: true, 5: true}

	runs := splitPath(p, terminals)
	require.Len(t, runs, 2)
	assert.Equal(t, []int{1, 2, 3}, runs[0])
	assert.Equal(t, []int{3, 4, 5}, runs[1], "neighboring runs share their boundary sample")
}

func TestSplitPathWithoutInteriorForks(t *testing.T) {
	p := path{1, 2, 3}
	terminals := terminalSet{1: true, 3: true}

	runs := splitPath(p, terminals)
	require.Len(t, runs, 1)
	assert.Equal(t, []int{1, 2, 3}, runs[0])
}

func TestMaterializeKeepsSingleSampleSections(t *testing.T) {
	table := mustTable(t, `
1 1 0 0 0 5 -1
2 3 0 0 1 1 1
`)

	// A run whose bridging id is dangling shrinks to a single real sample.
	arena, diags := materializeSections(table, swc.TypeBasalDendrite, [][]int{{99, 2}}, nil)
	require.Len(t, arena, 1)
	require.Len(t, arena[0].Samples, 1)
	assert.Equal(t, 2, arena[0].Samples[0].ID)

	messages := make([]string, 0, len(diags))
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	assert.Contains(t, strings.Join(messages, "\n"), "dangling reference")
	assert.Contains(t, strings.Join(messages, "\n"), "single-sample section")
}
