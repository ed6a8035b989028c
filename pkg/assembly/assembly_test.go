package assembly

import (
	"testing"

	"github.com/fatpack/fatpack/pkg/archive"
	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/filesystem"
	"github.com/fatpack/fatpack/pkg/rules"
	"github.com/fatpack/fatpack/pkg/testutil"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(fs types.FS) *Orchestrator {
	return New(fs, archive.NewZipWriter(fs), "/scratch")
}

func defaultLookup() types.StrategyLookup {
	return rules.NewLookup(nil).Func()
}

func TestAssembleEndToEnd(t *testing.T) {
	fs := filesystem.NewMemory()

	testutil.WriteTree(t, fs, "/build/classes", map[string]string{
		"com/example/Main.class": "main-bytecode",
		"README":                 "project readme",
	})
	testutil.CreateZip(t, fs, "/libs/dep.jar", map[string]string{
		"com/example/Lib.class":     "lib-bytecode",
		"README":                    "dep readme",
		"META-INF/MANIFEST.MF":      "Manifest-Version: 1.0\n",
		"META-INF/services/x.y.Spi": "impl.One\n",
		"reference.conf":            "dep { a = 1 }\n",
	})
	testutil.CreateZip(t, fs, "/libs/other.jar", map[string]string{
		"META-INF/MANIFEST.MF":      "Manifest-Version: 1.0\nMain-Class: other\n",
		"META-INF/services/x.y.Spi": "impl.Two\nimpl.One\n",
		"reference.conf":            "other { b = 2 }\n",
	})

	o := newOrchestrator(fs)
	out, err := o.Assemble(
		[]types.ClasspathEntry{{Path: "/build/classes", Kind: types.EntryApp}},
		[]types.ClasspathEntry{
			{Path: "/libs/dep.jar", Kind: types.EntryDep},
			{Path: "/libs/other.jar", Kind: types.EntryDep},
		},
		types.AssemblyOptions{
			OutputPath: "/dist/app.jar",
			Include:    types.FullAssembly(),
			Archive:    types.ArchiveOptions{MainClass: "com.example.Main"},
		},
		defaultLookup())
	require.NoError(t, err)
	assert.Equal(t, "/dist/app.jar", out)

	files := testutil.ReadZip(t, fs, out)

	// Class files carried over
	assert.Equal(t, "main-bytecode", files["com/example/Main.class"])
	assert.Equal(t, "lib-bytecode", files["com/example/Lib.class"])

	// Project README kept, dependency README renamed
	assert.Equal(t, "project readme", files["README"])
	assert.Equal(t, "dep readme", files["README_dep"])

	// Input manifests discarded, generated manifest present
	assert.Contains(t, files["META-INF/MANIFEST.MF"], "Main-Class: com.example.Main")

	// Service descriptors merged line-distinct
	assert.Equal(t, "impl.One\nimpl.Two\n", files["META-INF/services/x.y.Spi"])

	// reference.conf concatenated in classpath order
	assert.Equal(t, "dep { a = 1 }\nother { b = 2 }\n", files["reference.conf"])
}

func TestAssembleDeterministic(t *testing.T) {
	build := func(output string) []byte {
		fs := filesystem.NewMemory()
		testutil.CreateZip(t, fs, "/libs/a.jar", map[string]string{
			"reference.conf": "a\n", "com/X.class": "x",
		})
		testutil.CreateZip(t, fs, "/libs/b.jar", map[string]string{
			"reference.conf": "b\n", "com/X.class": "x",
		})

		o := newOrchestrator(fs)
		_, err := o.Assemble(nil,
			[]types.ClasspathEntry{
				{Path: "/libs/a.jar", Kind: types.EntryDep},
				{Path: "/libs/b.jar", Kind: types.EntryDep},
			},
			types.AssemblyOptions{OutputPath: output, Include: types.FullAssembly()},
			defaultLookup())
		require.NoError(t, err)

		data, err := fs.ReadFile(output)
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, build("/dist/app.jar"), build("/dist/app.jar"),
		"two runs over identical inputs produce byte-identical archives")
}

func TestAssembleVariants(t *testing.T) {
	setupFS := func() types.FS {
		fs := filesystem.NewMemory()
		testutil.WriteTree(t, fs, "/build/classes", map[string]string{"app.txt": "a"})
		testutil.CreateZip(t, fs, "/libs/runtime.jar", map[string]string{"runtime.txt": "r"})
		testutil.CreateZip(t, fs, "/libs/dep.jar", map[string]string{"dep.txt": "d"})
		return fs
	}
	classpath := []types.ClasspathEntry{
		{Path: "/build/classes", Kind: types.EntryApp},
		{Path: "/libs/runtime.jar", Kind: types.EntryRuntime},
	}
	deps := []types.ClasspathEntry{{Path: "/libs/dep.jar", Kind: types.EntryDep}}
	opts := types.AssemblyOptions{OutputPath: "/dist/out.jar", Include: types.FullAssembly()}

	t.Run("full", func(t *testing.T) {
		fs := setupFS()
		_, err := newOrchestrator(fs).Assemble(classpath, deps, opts, defaultLookup())
		require.NoError(t, err)
		files := testutil.ReadZip(t, fs, "/dist/out.jar")
		assert.Len(t, files, 3)
	})

	t.Run("runtime only", func(t *testing.T) {
		fs := setupFS()
		_, err := newOrchestrator(fs).AssembleRuntimeOnly(classpath, deps, opts, defaultLookup())
		require.NoError(t, err)
		files := testutil.ReadZip(t, fs, "/dist/out.jar")
		assert.Equal(t, map[string]string{"runtime.txt": "r"}, files)
	})

	t.Run("deps only", func(t *testing.T) {
		fs := setupFS()
		_, err := newOrchestrator(fs).AssembleDepsOnly(classpath, deps, opts, defaultLookup())
		require.NoError(t, err)
		files := testutil.ReadZip(t, fs, "/dist/out.jar")
		assert.Equal(t, map[string]string{"dep.txt": "d"}, files)
	})
}

func TestAssembleConflictLeavesNoArchive(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.CreateZip(t, fs, "/libs/a.jar", map[string]string{"com/X.class": "v1"})
	testutil.CreateZip(t, fs, "/libs/b.jar", map[string]string{"com/X.class": "v2"})

	o := newOrchestrator(fs)
	_, err := o.Assemble(nil,
		[]types.ClasspathEntry{
			{Path: "/libs/a.jar", Kind: types.EntryDep},
			{Path: "/libs/b.jar", Kind: types.EntryDep},
		},
		types.AssemblyOptions{OutputPath: "/dist/app.jar", Include: types.FullAssembly()},
		defaultLookup())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStrategyConflict))

	_, statErr := fs.Stat("/dist/app.jar")
	assert.Error(t, statErr, "no partial archive on failure")
}

func TestAssembleRemovesWorkspace(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.CreateZip(t, fs, "/libs/a.jar", map[string]string{"x.txt": "x"})

	o := newOrchestrator(fs)
	_, err := o.Assemble(nil,
		[]types.ClasspathEntry{{Path: "/libs/a.jar", Kind: types.EntryDep}},
		types.AssemblyOptions{OutputPath: "/dist/app.jar", Include: types.FullAssembly()},
		defaultLookup())
	require.NoError(t, err)

	entries, err := fs.ReadDir("/scratch")
	if err == nil {
		assert.Empty(t, entries, "workspace removed after success")
	}
}

func TestAssembleRemovesWorkspaceOnFailure(t *testing.T) {
	fs := filesystem.NewMemory()
	testutil.CreateZip(t, fs, "/libs/a.jar", map[string]string{"com/X.class": "v1"})
	testutil.CreateZip(t, fs, "/libs/b.jar", map[string]string{"com/X.class": "v2"})

	o := newOrchestrator(fs)
	_, err := o.Assemble(nil,
		[]types.ClasspathEntry{
			{Path: "/libs/a.jar", Kind: types.EntryDep},
			{Path: "/libs/b.jar", Kind: types.EntryDep},
		},
		types.AssemblyOptions{OutputPath: "/dist/app.jar", Include: types.FullAssembly()},
		defaultLookup())
	require.Error(t, err)

	entries, err := fs.ReadDir("/scratch")
	if err == nil {
		assert.Empty(t, entries, "workspace removed after failure")
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dist/app.jar", OutputPath("dist", "app.jar"))
}
