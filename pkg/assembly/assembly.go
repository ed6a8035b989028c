// Package assembly orchestrates one assembly run: materialize the
// classpath into a scratch workspace, resolve conflicts in two passes,
// and hand the final mapping to the archive writer. The workspace is
// removed on every exit path; the output archive only appears after
// resolution fully succeeds.
package assembly

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/materialize"
	"github.com/fatpack/fatpack/pkg/resolve"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/fatpack/fatpack/pkg/workspace"
)

// Orchestrator runs assemblies. One orchestrator can run any number of
// assemblies; each run owns a fresh workspace.
type Orchestrator struct {
	fs      types.FS
	writer  types.ArchiveWriter
	baseDir string
	logger  zerolog.Logger
}

// New creates an orchestrator. baseDir is where scratch workspaces are
// created; empty means the system temp directory.
func New(fs types.FS, writer types.ArchiveWriter, baseDir string) *Orchestrator {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Orchestrator{
		fs:      fs,
		writer:  writer,
		baseDir: baseDir,
		logger:  logging.GetLogger("assembly"),
	}
}

// Assemble runs the full pipeline over the project classpath followed
// by the dependency classpath and returns the path of the written
// archive. Entry order is significant: it defines the resolution order
// of the order-sensitive strategies.
func (o *Orchestrator) Assemble(classpath, dependencies []types.ClasspathEntry, opts types.AssemblyOptions, lookup types.StrategyLookup) (string, error) {
	done := logging.LogOperationStart(o.logger, "assemble")
	defer done()

	entries := make([]types.ClasspathEntry, 0, len(classpath)+len(dependencies))
	entries = append(entries, classpath...)
	entries = append(entries, dependencies...)

	excluder, err := materialize.NewExcluder(opts.Excludes)
	if err != nil {
		return "", err
	}

	ws, err := workspace.New(o.fs, o.baseDir)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			o.logger.Warn().Err(err).Str("root", ws.Root()).Msg("Failed to remove workspace")
		}
	}()

	pairs, err := materialize.New(ws).Materialize(entries, opts.Include, excluder)
	if err != nil {
		return "", err
	}

	final, err := resolve.New(ws, lookup).Resolve(pairs)
	if err != nil {
		return "", err
	}

	if err := o.writer.Write(opts.OutputPath, final, opts.Archive); err != nil {
		return "", err
	}

	o.logger.Info().
		Int("entries", len(entries)).
		Int("files", len(final)).
		Str("output", opts.OutputPath).
		Msg("Assembly complete")

	return opts.OutputPath, nil
}

// AssembleRuntimeOnly packages just the runtime library entries.
func (o *Orchestrator) AssembleRuntimeOnly(classpath, dependencies []types.ClasspathEntry, opts types.AssemblyOptions, lookup types.StrategyLookup) (string, error) {
	opts.Include = types.RuntimeOnly()
	return o.Assemble(classpath, dependencies, opts, lookup)
}

// AssembleDepsOnly packages just the dependency entries.
func (o *Orchestrator) AssembleDepsOnly(classpath, dependencies []types.ClasspathEntry, opts types.AssemblyOptions, lookup types.StrategyLookup) (string, error) {
	opts.Include = types.DepsOnly()
	return o.Assemble(classpath, dependencies, opts, lookup)
}

// OutputPath joins an output directory and archive name.
func OutputPath(dir, name string) string {
	return filepath.Join(dir, name)
}
