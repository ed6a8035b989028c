package materialize

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/fatpack/fatpack/pkg/workspace"
)

// Materializer expands classpath entries into the scratch workspace:
// archives are extracted, directories copied, each into its own
// hash-named subfolder with a sidecar marker. The output is the flat,
// ordered list of source pairs the conflict resolver works on.
type Materializer struct {
	ws     *workspace.Workspace
	fs     types.FS
	logger zerolog.Logger
}

// New creates a materializer working inside the given workspace.
func New(ws *workspace.Workspace) *Materializer {
	return &Materializer{
		ws:     ws,
		fs:     ws.FS(),
		logger: logging.GetLogger("materialize"),
	}
}

// Materialize expands the entries that pass the include flags and
// returns their files paired with target paths. Pair order is entry
// order first, lexical path order within an entry; that order is what
// gives the order-sensitive strategies (first, last, concat) their
// meaning.
func (m *Materializer) Materialize(entries []types.ClasspathEntry, include types.IncludeFlags, excluder *Excluder) ([]types.SourcePair, error) {
	var pairs []types.SourcePair

	for i, entry := range entries {
		if !included(entry.Kind, include) {
			m.logger.Debug().
				Str("path", entry.Path).
				Str("kind", string(entry.Kind)).
				Msg("Entry excluded by include flags")
			continue
		}

		info, err := m.fs.Stat(entry.Path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "classpath entry %s", entry.Path)
		}

		var base string
		if info.IsDir() {
			base, err = m.copyDirectory(entry.Path)
		} else {
			base, err = m.extractArchive(entry.Path, excluder)
		}
		if err != nil {
			return nil, err
		}

		entryPairs, err := m.collectPairs(base, i, excluder)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, entryPairs...)
	}

	m.logger.Debug().
		Int("entries", len(entries)).
		Int("pairs", len(pairs)).
		Msg("Materialization complete")

	return pairs, nil
}

func included(kind types.EntryKind, flags types.IncludeFlags) bool {
	switch kind {
	case types.EntryApp:
		return flags.App
	case types.EntryRuntime:
		return flags.Runtime
	case types.EntryDep:
		return flags.Deps
	default:
		return false
	}
}

// extractArchive unpacks a jar into its workspace subfolder and deletes
// excluded entries immediately after extraction.
func (m *Materializer) extractArchive(archivePath string, excluder *Excluder) (string, error) {
	base, err := m.ws.ArchiveDir(archivePath)
	if err != nil {
		return "", err
	}

	data, err := m.fs.ReadFile(archivePath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrExtract, "cannot read archive %s", archivePath)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrExtract, "cannot open archive %s", archivePath)
	}

	for _, entry := range zr.File {
		name := filepath.ToSlash(entry.Name)
		if !validEntryName(name) {
			return "", errors.Newf(errors.ErrExtract,
				"archive %s has invalid entry name %q", archivePath, entry.Name)
		}

		dest := filepath.Join(base, filepath.FromSlash(name))
		if entry.FileInfo().IsDir() {
			if err := m.fs.MkdirAll(dest, 0755); err != nil {
				return "", errors.Wrapf(err, errors.ErrExtract, "cannot create %s", dest)
			}
			continue
		}

		if err := m.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrExtract, "cannot create %s", filepath.Dir(dest))
		}

		rc, err := entry.Open()
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrExtract, "cannot open %s in %s", name, archivePath)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrExtract, "cannot read %s in %s", name, archivePath)
		}

		if err := m.fs.WriteFile(dest, content, 0644); err != nil {
			return "", errors.Wrapf(err, errors.ErrExtract, "cannot write %s", dest)
		}
	}

	if err := m.deleteExcluded(base, excluder); err != nil {
		return "", err
	}

	m.logger.Info().
		Str("archive", archivePath).
		Int("entries", len(zr.File)).
		Msg("Including archive")

	return base, nil
}

// validEntryName rejects absolute and workspace-escaping archive entry
// names.
func validEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// copyDirectory copies a classpath directory into its workspace
// subfolder.
func (m *Materializer) copyDirectory(dirPath string) (string, error) {
	base, err := m.ws.DirDir(dirPath)
	if err != nil {
		return "", err
	}

	if err := m.copyTree(dirPath, base); err != nil {
		return "", err
	}

	m.logger.Debug().Str("dir", dirPath).Msg("Copied directory entry")
	return base, nil
}

func (m *Materializer) copyTree(src, dst string) error {
	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := m.fs.MkdirAll(dstPath, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dstPath)
			}
			if err := m.copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		data, err := m.fs.ReadFile(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", srcPath)
		}
		if err := m.fs.WriteFile(dstPath, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dstPath)
		}
	}
	return nil
}

// deleteExcluded removes excluded files and directories from a freshly
// extracted tree.
func (m *Materializer) deleteExcluded(base string, excluder *Excluder) error {
	if excluder == nil {
		return nil
	}
	return m.deleteExcludedIn(base, base, excluder)
}

func (m *Materializer) deleteExcludedIn(base, dir string, excluder *Excluder) error {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		rel, err := workspace.TargetFor(base, full)
		if err != nil {
			return err
		}

		if excluder.Match(rel) {
			m.logger.Debug().Str("path", rel).Msg("Deleting excluded entry")
			if err := m.fs.RemoveAll(full); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "cannot delete excluded %s", full)
			}
			continue
		}

		if entry.IsDir() {
			if err := m.deleteExcludedIn(base, full, excluder); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectPairs walks a materialized subfolder and pairs every
// descendant file with its target path. ReadDir returns entries
// lexically sorted, so the walk order is deterministic.
func (m *Materializer) collectPairs(base string, entryIndex int, excluder *Excluder) ([]types.SourcePair, error) {
	var pairs []types.SourcePair

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := m.fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir)
		}

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			rel, err := workspace.TargetFor(base, full)
			if err != nil {
				return err
			}
			if excluder != nil && excluder.Match(rel) {
				continue
			}

			if entry.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}

			pairs = append(pairs, types.SourcePair{
				Source:     full,
				Target:     rel,
				EntryIndex: entryIndex,
			})
		}
		return nil
	}

	if err := walk(base); err != nil {
		return nil, err
	}
	return pairs, nil
}
