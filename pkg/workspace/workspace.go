package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/fingerprint"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/rs/zerolog"
)

// Sidecar marker suffixes. For an archive extracted into <hash>/ the
// marker is <hash>.jarName; for a directory copied into <hash>_dir/ the
// marker is <hash>_dir.dir. Each marker holds the canonical source path
// followed by a newline.
const (
	archiveMarkerSuffix = ".jarName"
	dirFolderSuffix     = "_dir"
	dirMarkerSuffix     = ".dir"
	scratchSubdir       = "merged"
)

// Workspace is the exclusively-owned scratch directory of one assembly
// run. All extracted files, copied trees and strategy-generated
// temporaries live under it, and Close removes it wholesale.
type Workspace struct {
	root   string
	fs     types.FS
	logger zerolog.Logger

	mu      sync.Mutex
	counter int
}

var _ types.Workspace = (*Workspace)(nil)

// New creates a fresh scratch workspace under baseDir. The directory
// name carries a random suffix so concurrent runs on the same machine
// never collide.
func New(fs types.FS, baseDir string) (*Workspace, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, errors.Wrap(err, errors.ErrWorkspace, "cannot generate workspace name")
	}

	root := filepath.Join(baseDir, "fatpack-"+hex.EncodeToString(suffix))
	if err := fs.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrWorkspace, "cannot create workspace %s", root)
	}

	return &Workspace{
		root:   root,
		fs:     fs,
		logger: logging.GetLogger("workspace"),
	}, nil
}

// Root returns the absolute path of the scratch directory.
func (w *Workspace) Root() string {
	return w.root
}

// FS returns the filesystem the workspace lives on.
func (w *Workspace) FS() types.FS {
	return w.fs
}

// Close removes the workspace and everything under it. Safe to call on
// every exit path.
func (w *Workspace) Close() error {
	w.logger.Debug().Str("root", w.root).Msg("Removing workspace")
	if err := w.fs.RemoveAll(w.root); err != nil {
		return errors.Wrapf(err, errors.ErrWorkspace, "cannot remove workspace %s", w.root)
	}
	return nil
}

// ArchiveDir reserves the extraction subfolder for an archive and
// writes its sidecar marker. The folder name is a content-stable hash
// of the archive's canonical path, so re-materializing the same archive
// maps to the same folder.
func (w *Workspace) ArchiveDir(archivePath string) (string, error) {
	hash := fingerprint.String(archivePath)
	dir := filepath.Join(w.root, hash)

	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrWorkspace, "cannot create extraction dir for %s", archivePath)
	}

	marker := filepath.Join(w.root, hash+archiveMarkerSuffix)
	if err := w.fs.WriteFile(marker, []byte(archivePath+"\n"), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrWorkspace, "cannot write sidecar for %s", archivePath)
	}

	return dir, nil
}

// DirDir reserves the copy subfolder for a plain classpath directory
// and writes its sidecar marker.
func (w *Workspace) DirDir(dirPath string) (string, error) {
	hash := fingerprint.String(dirPath) + dirFolderSuffix
	dir := filepath.Join(w.root, hash)

	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrWorkspace, "cannot create copy dir for %s", dirPath)
	}

	marker := filepath.Join(w.root, hash+dirMarkerSuffix)
	if err := w.fs.WriteFile(marker, []byte(dirPath+"\n"), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrWorkspace, "cannot write sidecar for %s", dirPath)
	}

	return dir, nil
}

// NewScratchFile reserves a fresh file path for strategy output. Paths
// are numbered so two strategies merging files with the same base name
// never clash.
func (w *Workspace) NewScratchFile(name string) string {
	w.mu.Lock()
	w.counter++
	n := w.counter
	w.mu.Unlock()

	return filepath.Join(w.root, scratchSubdir, fmt.Sprintf("%d_%s", n, filepath.Base(name)))
}

// Origin reports where a materialized file came from by consulting the
// sidecar markers. It answers for any path under a materialized
// subfolder, including paths a rename strategy has moved.
func (w *Workspace) Origin(file string) (types.Origin, error) {
	rel, err := filepath.Rel(w.root, file)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return types.Origin{}, errors.Newf(errors.ErrInvalidInput, "%s is not inside workspace %s", file, w.root)
	}

	rel = filepath.ToSlash(rel)
	sub, remainder, _ := strings.Cut(rel, "/")

	baseDir := filepath.Join(w.root, sub)

	if strings.HasSuffix(sub, dirFolderSuffix) {
		marker := filepath.Join(w.root, sub+dirMarkerSuffix)
		if source, err := w.readMarker(marker); err == nil {
			return types.Origin{
				Source:    source,
				BaseDir:   baseDir,
				RelPath:   remainder,
				IsArchive: false,
			}, nil
		}
	}

	marker := filepath.Join(w.root, sub+archiveMarkerSuffix)
	if source, err := w.readMarker(marker); err == nil {
		return types.Origin{
			Source:    source,
			BaseDir:   baseDir,
			RelPath:   remainder,
			IsArchive: true,
		}, nil
	}

	return types.Origin{}, errors.Newf(errors.ErrNotFound, "no sidecar marker for %s", file)
}

func (w *Workspace) readMarker(marker string) (string, error) {
	data, err := w.fs.ReadFile(marker)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// TargetFor returns the archive target path of a file inside a
// materialized subfolder: its path relative to the subfolder root,
// forward-slash separated.
func TargetFor(baseDir, file string) (string, error) {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is not under %s", file, baseDir)
	}
	return path.Clean(filepath.ToSlash(rel)), nil
}
