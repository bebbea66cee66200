package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, map[string]int{"count": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 3}`, out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalError(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, func() {})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestFileReader_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0o644))

	fr := &FileReader[map[string]bool]{path: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.True(t, got["ok"])
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[map[string]bool]{path: "/does/not/exist.json"}
	_, err := fr.Read()
	require.Error(t, err)
}

func TestFileReader_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":`), 0o644))

	fr := &FileReader[map[string]bool]{path: path}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestFileReader_DashReadsStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"n":7}`), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() { os.Stdin = old })

	fr := &FileReader[map[string]int]{path: "-"}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, 7, got["n"])
}
