package utils

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(content)
	}
	return entries
}

func TestZipDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lambda_function.py"), []byte("def lambda_handler(event, context): pass\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "helpers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers", "meraki.py"), []byte("API = 1\n"), 0o644))

	data, err := ZipDirectory(dir, "")
	require.NoError(t, err)

	entries := readEntries(t, data)
	assert.Len(t, entries, 2)
	assert.Contains(t, entries, "lambda_function.py")
	assert.Equal(t, "API = 1\n", entries["helpers/meraki.py"])
}

func TestZipDirectory_LayerPrefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "requests"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requests", "__init__.py"), []byte(""), 0o644))

	data, err := ZipDirectory(dir, "python")
	require.NoError(t, err)

	entries := readEntries(t, data)
	assert.Contains(t, entries, "python/requests/__init__.py")
}

func TestZipDirectory_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := ZipDirectory(file, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestZipDirectory_Missing(t *testing.T) {
	_, err := ZipDirectory(filepath.Join(t.TempDir(), "nope"), "")
	require.Error(t, err)
}
