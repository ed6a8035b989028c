package workspace

import (
	"path/filepath"
	"testing"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/filesystem"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) (*Workspace, types.FS) {
	t.Helper()
	fs := filesystem.NewMemory()
	ws, err := New(fs, "/tmp")
	require.NoError(t, err)
	return ws, fs
}

func TestNewCreatesRoot(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	info, err := fs.Stat(ws.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewUniqueRoots(t *testing.T) {
	fs := filesystem.NewMemory()

	a, err := New(fs, "/tmp")
	require.NoError(t, err)
	b, err := New(fs, "/tmp")
	require.NoError(t, err)

	assert.NotEqual(t, a.Root(), b.Root())
}

func TestCloseRemovesEverything(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	dir, err := ws.ArchiveDir("/libs/foo.jar")
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "A.class"), []byte("x"), 0644))

	require.NoError(t, ws.Close())

	_, err = fs.Stat(ws.Root())
	assert.Error(t, err)
}

func TestArchiveDirSidecar(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	dir, err := ws.ArchiveDir("/libs/foo.jar")
	require.NoError(t, err)

	// Same archive maps to the same folder
	again, err := ws.ArchiveDir("/libs/foo.jar")
	require.NoError(t, err)
	assert.Equal(t, dir, again)

	marker := dir + ".jarName"
	data, err := fs.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "/libs/foo.jar\n", string(data))
}

func TestDirDirSidecar(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	dir, err := ws.DirDir("/build/classes")
	require.NoError(t, err)
	assert.True(t, filepath.Base(dir) != "", "dir created")
	assert.Contains(t, filepath.Base(dir), "_dir")

	marker := dir + ".dir"
	data, err := fs.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "/build/classes\n", string(data))
}

func TestOriginFromArchive(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	dir, err := ws.ArchiveDir("/libs/foo.jar")
	require.NoError(t, err)
	file := filepath.Join(dir, "META-INF", "services", "x.y.Z")
	require.NoError(t, fs.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, fs.WriteFile(file, []byte("impl"), 0644))

	origin, err := ws.Origin(file)
	require.NoError(t, err)

	assert.Equal(t, "/libs/foo.jar", origin.Source)
	assert.Equal(t, dir, origin.BaseDir)
	assert.Equal(t, "META-INF/services/x.y.Z", origin.RelPath)
	assert.True(t, origin.IsArchive)
}

func TestOriginFromDirectory(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	dir, err := ws.DirDir("/build/classes")
	require.NoError(t, err)
	file := filepath.Join(dir, "README")
	require.NoError(t, fs.WriteFile(file, []byte("docs"), 0644))

	origin, err := ws.Origin(file)
	require.NoError(t, err)

	assert.Equal(t, "/build/classes", origin.Source)
	assert.Equal(t, dir, origin.BaseDir)
	assert.Equal(t, "README", origin.RelPath)
	assert.False(t, origin.IsArchive)
}

func TestOriginOutsideWorkspace(t *testing.T) {
	ws, _ := newTestWorkspace(t)

	_, err := ws.Origin("/somewhere/else")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestOriginNoMarker(t *testing.T) {
	ws, fs := newTestWorkspace(t)

	stray := filepath.Join(ws.Root(), "stray", "file")
	require.NoError(t, fs.MkdirAll(filepath.Dir(stray), 0755))
	require.NoError(t, fs.WriteFile(stray, []byte("x"), 0644))

	_, err := ws.Origin(stray)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestNewScratchFileUnique(t *testing.T) {
	ws, _ := newTestWorkspace(t)

	a := ws.NewScratchFile("reference.conf")
	b := ws.NewScratchFile("reference.conf")

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, ws.Root())
}

func TestTargetFor(t *testing.T) {
	target, err := TargetFor("/ws/abc", "/ws/abc/com/example/App.class")
	require.NoError(t, err)
	assert.Equal(t, "com/example/App.class", target)

	_, err = TargetFor("/ws/abc", "/elsewhere/file")
	assert.Error(t, err)
}
