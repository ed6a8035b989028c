package merge

import (
	"path"
	"path/filepath"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/types"
)

// ConcatStrategy byte-concatenates all sources, in order, into one new
// scratch file.
type ConcatStrategy struct{}

func (s *ConcatStrategy) Name() string { return ConcatName }

func (s *ConcatStrategy) Description() string {
	return "Concatenates all sources into one file, in classpath order"
}

func (s *ConcatStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	fs := ws.FS()

	var merged []byte
	for _, pair := range sources {
		data, err := fs.ReadFile(pair.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s for concat", pair.Source)
		}
		merged = append(merged, data...)
	}

	out := ws.NewScratchFile(path.Base(target))
	if err := fs.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create scratch dir for %s", target)
	}
	if err := fs.WriteFile(out, merged, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write concatenated %s", target)
	}

	return []types.SourcePair{{
		Source:     out,
		Target:     target,
		EntryIndex: sources[0].EntryIndex,
	}}, nil
}
