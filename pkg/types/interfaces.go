package types

import (
	"io/fs"
)

// FS abstracts the filesystem operations fatpack performs, so tests can
// run against an in-memory filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Workspace gives merge strategies scoped access to the scratch area of
// one assembly run. Strategy-generated files must live under Root so
// they are removed with the workspace.
type Workspace interface {
	// Root returns the absolute path of the scratch directory.
	Root() string

	// FS returns the filesystem the workspace lives on.
	FS() FS

	// NewScratchFile reserves a fresh file path under Root for a
	// strategy to write its merged output to. The file is not created.
	NewScratchFile(name string) string

	// Origin reports where a materialized file came from: the archive
	// or directory it was extracted out of.
	Origin(file string) (Origin, error)
}

// Origin describes the provenance of a file inside the scratch
// workspace, recovered from the sidecar markers written during
// materialization.
type Origin struct {
	// Source is the canonical path of the originating archive or
	// directory outside the workspace.
	Source string

	// BaseDir is the workspace subfolder the file was extracted or
	// copied into.
	BaseDir string

	// RelPath is the file's path relative to BaseDir, using forward
	// slashes.
	RelPath string

	// IsArchive is true when the origin is an archive rather than a
	// plain directory.
	IsArchive bool
}

// MergeStrategy resolves one conflict group: all source files mapping
// to the same target path inside the final archive.
type MergeStrategy interface {
	// Name returns the unique name of this strategy. Names are used
	// for registry lookup, logging, and the rename special case in the
	// two-pass resolution protocol.
	Name() string

	// Description returns a human-readable description of the strategy.
	Description() string

	// Merge resolves a conflict group into zero or more final pairs.
	// Sources are ordered by classpath entry order, then lexically
	// within an entry, and are never empty.
	Merge(ws Workspace, target string, sources []SourcePair) ([]SourcePair, error)
}

// ArchiveWriter is the collaborator that encodes a resolved mapping
// into the final archive. fatpack ships a zip writer; the interface
// keeps archive-format mechanics out of the resolution core.
type ArchiveWriter interface {
	// Write encodes the mapping into an archive at outputPath. The
	// mapping has unique target paths; Write must not leave a partial
	// archive behind on failure.
	Write(outputPath string, mapping []SourcePair, opts ArchiveOptions) error
}
