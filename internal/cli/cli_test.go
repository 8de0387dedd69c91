package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotrace-dev/neurotrace/internal/state"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

const pyramidalFixture = "../../fixtures/pyramidal.swc"

func TestMorphologyLabel(t *testing.T) {
	assert.Equal(t, "neuron", morphologyLabel("cells/neuron.swc"))
	assert.Equal(t, "cell.v2", morphologyLabel("/data/cell.v2.swc"))
	assert.Equal(t, "plain", morphologyLabel("plain"))
}

func TestLoadConfigExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neurotrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out: results\nformat: jsonl\nworkers: 2\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "results", cfg.Out)
	assert.Equal(t, "jsonl", cfg.Format)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadConfigExplicitMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoadConfigDefaultMissingIsEmpty(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestDiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	for _, name := range []string{"b.swc", "a.swc", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("1 1 0 0 0 1 -1\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.SWC"), []byte("1 1 0 0 0 1 -1\n"), 0o644))

	registry := swc.NewDefaultRegistry()
	inputs, err := discoverInputs([]string{dir, filepath.Join(dir, "a.swc")}, registry)
	require.NoError(t, err)

	// Sorted, recursive, extension-filtered, case-insensitive, deduplicated.
	assert.Equal(t, []string{
		filepath.Join(dir, "a.swc"),
		filepath.Join(dir, "b.swc"),
		filepath.Join(sub, "c.SWC"),
	}, inputs)
}

func TestAssignLabels(t *testing.T) {
	labels := assignLabels([]string{
		"a/cell.swc",
		"b/cell.swc",
		"b/other.swc",
	})

	assert.Equal(t, "cell-1", labels["a/cell.swc"])
	assert.Equal(t, "cell-2", labels["b/cell.swc"])
	assert.Equal(t, "other", labels["b/other.swc"], "unique basenames keep their plain label")
}

func TestReconstructCommandDisambiguatesDuplicateBasenames(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	for sub, content := range map[string]string{
		"a": "1 1 0 0 0 5 -1\n2 3 0 0 1 1 1\n",
		"b": "1 1 0 0 0 5 -1\n2 3 0 0 2 1 1\n",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, sub, "cell.swc"), []byte(content), 0o644))
	}

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", dir, "--out", out, "--workers", "2"})
	require.NoError(t, cmd.Execute())

	// Both morphologies survive under distinct labels instead of the last
	// writer clobbering cell.txt.
	for _, name := range []string{
		"cell-1.txt", "cell-1.reconstructed.swc",
		"cell-2.txt", "cell-2.reconstructed.swc",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(out, "cell.txt"))
	assert.True(t, os.IsNotExist(err), "no output under the colliding plain label")
}

func TestDiscoverInputsMissingPath(t *testing.T) {
	registry := swc.NewDefaultRegistry()
	_, err := discoverInputs([]string{"/no/such/path"}, registry)
	assert.Error(t, err)
}

func TestReconstructCommandEndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", pyramidalFixture, "--out", out, "--workers", "1"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"pyramidal.txt", "pyramidal.reconstructed.swc", state.StateFile} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	st, err := state.Load(out)
	require.NoError(t, err)
	input, ok := st.Inputs[pyramidalFixture]
	require.True(t, ok)
	assert.NotEmpty(t, input.Hash)
	assert.Equal(t, 3, input.Stems)
	firstRun := input.UpdatedAt

	// Unchanged input: the second run skips it and leaves its record alone.
	cmd = NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", pyramidalFixture, "--out", out, "--workers", "1"})
	require.NoError(t, cmd.Execute())

	st, err = state.Load(out)
	require.NoError(t, err)
	assert.Equal(t, firstRun, st.Inputs[pyramidalFixture].UpdatedAt)

	// --force reprocesses and refreshes the record.
	cmd = NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", pyramidalFixture, "--out", out, "--workers", "1", "--force"})
	require.NoError(t, cmd.Execute())

	st, err = state.Load(out)
	require.NoError(t, err)
	assert.True(t, st.Inputs[pyramidalFixture].UpdatedAt.After(firstRun))
}

func TestReconstructCommandJSONLFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", pyramidalFixture, "--out", out, "--format", "jsonl", "--json"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(out, "pyramidal.jsonl"))
	assert.NoError(t, err)
}

func TestReconstructCommandConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config")
	configPath := filepath.Join(dir, "neurotrace.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("out: "+out+"\nformat: jsonl\n"), 0o644))

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", pyramidalFixture, "--config", configPath})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(out, "pyramidal.jsonl"))
	assert.NoError(t, err, "config supplies out dir and format when flags are unset")
}

func TestValidateCommand(t *testing.T) {
	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"validate", pyramidalFixture})
	assert.NoError(t, cmd.Execute())
}

func TestInvalidLogLevelIsRejected(t *testing.T) {
	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"validate", pyramidalFixture, "--log-level", "loud"})
	err := cmd.Execute()
	assert.ErrorContains(t, err, `invalid --log-level "loud"`)
}

func TestInspectCommand(t *testing.T) {
	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"inspect", pyramidalFixture})
	assert.NoError(t, cmd.Execute())
}

func TestReconstructCommandNoInputs(t *testing.T) {
	dir := t.TempDir()

	cmd := NewRootCommand("test")
	cmd.SetArgs([]string{"reconstruct", dir, "--out", filepath.Join(dir, "out")})
	err := cmd.Execute()
	assert.ErrorContains(t, err, "no morphology files found")
}
