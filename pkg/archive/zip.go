// Package archive writes the resolved file mapping into the final jar.
// It is the thin collaborator at the end of the pipeline: by the time
// it runs, every target path is unique and every merge decision has
// been made.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/types"
)

const manifestPath = "META-INF/MANIFEST.MF"

// Entry timestamps are pinned to the zip epoch so identical inputs
// produce byte-identical archives.
var fixedModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// ZipWriter writes jar archives through a types.FS.
type ZipWriter struct {
	fs     types.FS
	logger zerolog.Logger
}

var _ types.ArchiveWriter = (*ZipWriter)(nil)

// NewZipWriter creates a writer on the given filesystem.
func NewZipWriter(fs types.FS) *ZipWriter {
	return &ZipWriter{
		fs:     fs,
		logger: logging.GetLogger("archive.zip"),
	}
}

// Write encodes the mapping into a jar at outputPath. Entries are
// written sorted by target path, with a generated manifest first when
// an entry point is declared. The archive is assembled in memory and
// moved into place in one rename, so a failed run never leaves a
// partial jar at the output path.
func (w *ZipWriter) Write(outputPath string, mapping []types.SourcePair, opts types.ArchiveOptions) error {
	sorted := make([]types.SourcePair, len(mapping))
	copy(sorted, mapping)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Target < sorted[j].Target })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if opts.MainClass != "" {
		if err := w.writeEntry(zw, manifestPath, manifestFor(opts)); err != nil {
			return err
		}
	}

	for _, pair := range sorted {
		if pair.Target == manifestPath && opts.MainClass != "" {
			w.logger.Warn().
				Str("source", pair.Source).
				Msg("Input manifest replaced by generated manifest")
			continue
		}

		data, err := w.fs.ReadFile(pair.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileRead, "cannot read %s for archiving", pair.Source)
		}
		if err := w.writeEntry(zw, pair.Target, data); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveWrite, "cannot finalize archive")
	}

	if err := w.fs.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create output dir for %s", outputPath)
	}

	tmp := outputPath + ".tmp"
	if err := w.fs.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot write %s", tmp)
	}
	if err := w.fs.Rename(tmp, outputPath); err != nil {
		_ = w.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot move archive into place at %s", outputPath)
	}

	w.logger.Info().
		Str("output", outputPath).
		Int("entries", len(sorted)).
		Int("bytes", buf.Len()).
		Msg("Archive written")

	return nil
}

func (w *ZipWriter) writeEntry(zw *zip.Writer, name string, data []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: fixedModTime,
	}
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot create entry %s", name)
	}
	if _, err := entry.Write(data); err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "cannot write entry %s", name)
	}
	return nil
}

// manifestFor renders the jar manifest for the declared entry point.
// Manifest headers use CRLF line endings per the jar spec.
func manifestFor(opts types.ArchiveOptions) []byte {
	return []byte(fmt.Sprintf(
		"Manifest-Version: 1.0\r\nMain-Class: %s\r\nCreated-By: fatpack\r\n\r\n",
		opts.MainClass))
}
