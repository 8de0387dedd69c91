package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/builder"
	"github.com/neurotrace-dev/neurotrace/internal/morphology"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

const yBranchInput = `
1 1 0 0 0 5 -1
2 3 0 0 1 1 1
3 3 0 1 1 1 2
4 3 1 0 1 1 2
`

func reconstruct(t *testing.T, input, label string) (*morphology.Morphology, analysis.Report, []swc.Diagnostic) {
	t.Helper()
	table, parseDiags, err := swc.Parse(strings.NewReader(input))
	require.NoError(t, err)
	m, diags, err := builder.Reconstruct(table, label)
	require.NoError(t, err)
	return m, analysis.Analyze(m), append(parseDiags, diags...)
}

func TestParseFormat(t *testing.T) {
	for value, want := range map[string]Format{
		"":      FormatText,
		"text":  FormatText,
		" Text": FormatText,
		"jsonl": FormatJSONL,
		"JSONL": FormatJSONL,
	} {
		got, err := ParseFormat(value)
		require.NoError(t, err, "value %q", value)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("yaml")
	assert.ErrorContains(t, err, `unsupported format "yaml"`)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "my_cell_v2", sanitizeLabel("my cell:v2"))
	assert.Equal(t, "morphology", sanitizeLabel("   "))
	assert.Equal(t, "plain", sanitizeLabel("plain"))
}

func TestExportSWCRoundTrips(t *testing.T) {
	m, _, _ := reconstruct(t, yBranchInput, "y")

	data := ExportSWC(m)
	table, diags, err := swc.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, diags)

	// The soma bridge sample and all branch samples survive with their ids.
	assert.Equal(t, 4, table.Len())
	for id, parent := range map[int]int{1: -1, 2: 1, 3: 2, 4: 2} {
		s, ok := table.Get(id)
		require.True(t, ok, "sample %d", id)
		assert.Equal(t, parent, s.ParentID)
	}

	m2, _, err := builder.Reconstruct(table, "y")
	require.NoError(t, err)
	require.Len(t, m2.BasalDendrites(), 1)
	assert.Equal(t, m.BasalDendrites()[0].NumSections(), m2.BasalDendrites()[0].NumSections())
}

func TestExportSWCDropsUnreconstructedParents(t *testing.T) {
	// The dendrite hangs off sample 9, which does not exist.
	m, _, _ := reconstruct(t, `
1 1 0 0 0 5 -1
4 3 1 1 2 1 9
5 3 1 1 3 1 4
`, "dangling")

	data := ExportSWC(m)
	table, _, err := swc.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	s, ok := table.Get(4)
	require.True(t, ok)
	assert.Equal(t, swc.NoParent, s.ParentID, "a parent outside the skeleton is rewritten to -1")
}

func TestRenderText(t *testing.T) {
	m, report, diags := reconstruct(t, yBranchInput, "y")

	text := renderText(m, report, diags)
	assert.Contains(t, text, "morphology y (swc, 4 samples)")
	assert.Contains(t, text, "mean-radius=5.0000")
	assert.Contains(t, text, "stems: 1")
	assert.Contains(t, text, "Basal Dendrite 1 (basal-dendrite)")
	assert.Contains(t, text, "- section 0 [1..2, 2 samples]")
	assert.Contains(t, text, "diagnostics (")
}

func TestWriterWritesSummaryAndExport(t *testing.T) {
	m, report, diags := reconstruct(t, yBranchInput, "my cell")
	dir := t.TempDir()

	paths, err := NewWriter(dir).Write(m, report, diags, FormatText)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "my_cell.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "my_cell.reconstructed.swc"), paths[1])
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestWriterJSONLSummary(t *testing.T) {
	m, report, diags := reconstruct(t, yBranchInput, "y")
	dir := t.TempDir()

	paths, err := NewWriter(dir).Write(m, report, diags, FormatJSONL)
	require.NoError(t, err)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4, "one manifest line plus one line per section")
	assert.Contains(t, lines[0], `"kind":"morphology"`)
	assert.Contains(t, lines[0], `"label":"y"`)
	assert.Contains(t, lines[1], `"kind":"section"`)
	assert.Contains(t, lines[1], `"samples":[1,2]`)
}
