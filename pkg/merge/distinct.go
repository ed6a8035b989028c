package merge

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/types"
)

// FilterDistinctLinesStrategy concatenates all sources as text and
// keeps the first occurrence of each distinct line, preserving order.
// This is the service-descriptor merge: every provider listed once.
type FilterDistinctLinesStrategy struct{}

func (s *FilterDistinctLinesStrategy) Name() string { return FilterDistinctLinesName }

func (s *FilterDistinctLinesStrategy) Description() string {
	return "Merges sources line-wise, keeping each distinct line once"
}

func (s *FilterDistinctLinesStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	// A lone source has nothing to merge with and passes through
	// untouched, line endings and all
	if len(sources) == 1 {
		return []types.SourcePair{sources[0]}, nil
	}

	fs := ws.FS()

	seen := make(map[string]bool)
	var lines []string
	for _, pair := range sources {
		data, err := fs.ReadFile(pair.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s for line merge", pair.Source)
		}
		for _, line := range splitLines(string(data)) {
			if seen[line] {
				continue
			}
			seen[line] = true
			lines = append(lines, line)
		}
	}

	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	out := ws.NewScratchFile(path.Base(target))
	if err := fs.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create scratch dir for %s", target)
	}
	if err := fs.WriteFile(out, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write merged %s", target)
	}

	return []types.SourcePair{{
		Source:     out,
		Target:     target,
		EntryIndex: sources[0].EntryIndex,
	}}, nil
}

// splitLines splits newline-delimited text, tolerating CRLF and a
// missing final newline.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
