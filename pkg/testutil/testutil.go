// Package testutil provides fixture builders shared by fatpack tests:
// in-memory jar archives and directory trees.
package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"testing"

	"github.com/fatpack/fatpack/pkg/types"
	"github.com/stretchr/testify/require"
)

// CreateZip writes a zip archive at path containing the given files,
// keyed by forward-slash entry name. Entries are written sorted so
// fixtures are deterministic.
func CreateZip(t *testing.T, fs types.FS, path string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fs.WriteFile(path, buf.Bytes(), 0644))
}

// WriteTree writes the given files under base, keyed by forward-slash
// relative path.
func WriteTree(t *testing.T, fs types.FS, base string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		full := filepath.Join(base, filepath.FromSlash(name))
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, fs.WriteFile(full, []byte(content), 0644))
	}
}

// ReadZip reads a zip archive back into a map keyed by entry name.
// Directory entries are skipped.
func ReadZip(t *testing.T, fs types.FS, path string) map[string]string {
	t.Helper()

	data, err := fs.ReadFile(path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[entry.Name] = string(content)
	}
	return files
}
