package merge

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/types"
)

// RenameStrategy keeps every source but renames the ones that came out
// of archives, inserting the archive's base name before the file
// extension (README from foo.jar becomes README_foo). Sources from
// plain directories pass through unchanged, so a project's own README
// keeps its name while dependency READMEs move aside.
//
// Rename runs in its own resolution pass because renaming a directory
// changes the target paths of all its descendants; those must be
// re-expanded before the general strategies group by target path.
type RenameStrategy struct{}

func (s *RenameStrategy) Name() string { return RenameName }

func (s *RenameStrategy) Description() string {
	return "Renames archive-provided files after their originating archive"
}

func (s *RenameStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	fs := ws.FS()

	var out []types.SourcePair
	for _, pair := range sources {
		origin, err := ws.Origin(pair.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMergeFailed,
				"cannot determine origin of %s", pair.Source)
		}

		if !origin.IsArchive {
			out = append(out, pair)
			continue
		}

		newTarget := renamedTarget(pair.Target, origin.Source)
		newSource := filepath.Join(origin.BaseDir, filepath.FromSlash(renamedTarget(origin.RelPath, origin.Source)))

		if err := fs.Rename(pair.Source, newSource); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"cannot move %s to %s", pair.Source, newSource)
		}

		info, err := fs.Stat(newSource)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"cannot stat renamed %s", newSource)
		}

		if !info.IsDir() {
			out = append(out, types.SourcePair{
				Source:     newSource,
				Target:     newTarget,
				EntryIndex: pair.EntryIndex,
			})
			continue
		}

		// A renamed directory re-derives target paths for all its
		// descendants relative to the renamed base.
		descendants, err := listFiles(fs, newSource)
		if err != nil {
			return nil, err
		}
		for _, file := range descendants {
			rel, err := filepath.Rel(newSource, file)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal,
					"renamed descendant %s escapes %s", file, newSource)
			}
			out = append(out, types.SourcePair{
				Source:     file,
				Target:     newTarget + "/" + filepath.ToSlash(rel),
				EntryIndex: pair.EntryIndex,
			})
		}
	}

	return out, nil
}

// renamedTarget inserts the archive's base name before the extension of
// the path's leaf: a/README + foo.jar -> a/README_foo,
// LICENSE.txt + bar.jar -> LICENSE_bar.txt.
func renamedTarget(target, archivePath string) string {
	archiveBase := filepath.Base(archivePath)
	archiveBase = strings.TrimSuffix(archiveBase, filepath.Ext(archiveBase))

	name := path.Base(target)
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	newName := stem + "_" + archiveBase + ext

	dir := path.Dir(target)
	if dir == "." {
		return newName
	}
	return dir + "/" + newName
}

// listFiles walks dir depth-first and returns all regular files under
// it, lexically ordered at every level.
func listFiles(fs types.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", dir)
	}

	var files []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			sub, err := listFiles(fs, full)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		files = append(files, full)
	}
	return files, nil
}
