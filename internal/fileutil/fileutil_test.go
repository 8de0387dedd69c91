package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	wrote, err := WriteIfChanged(path, []byte("hello"))
	require.NoError(t, err)
	assert.True(t, wrote, "first write creates the file and its parents")

	wrote, err = WriteIfChanged(path, []byte("hello"))
	require.NoError(t, err)
	assert.False(t, wrote, "identical content is not rewritten")

	wrote, err = WriteIfChanged(path, []byte("changed"))
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "changed", string(data))
}

func TestEncodeJSONL(t *testing.T) {
	type rec struct {
		Name string `json:"name"`
	}
	data, err := EncodeJSONL([]rec{{Name: "a"}, {Name: "b<c>"}})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, `{"name":"a"}`, string(lines[0]))
	assert.Equal(t, `{"name":"b<c>"}`, string(lines[1]), "HTML escaping is off")
}

func TestHashFileMatchesHashBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	content := []byte("1 1 0 0 0 5 -1\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	fromFile, err := HashFile(path)
	require.NoError(t, err)
	assert.Len(t, fromFile, 16)
	assert.Equal(t, HashBytes(content), fromFile)
}
