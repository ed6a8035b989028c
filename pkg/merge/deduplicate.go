package merge

import (
	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/fingerprint"
	"github.com/fatpack/fatpack/pkg/types"
)

// DeduplicateStrategy accepts any number of sources as long as their
// content is byte-identical, keeping the first. Differing content is a
// genuine conflict and fails the assembly.
type DeduplicateStrategy struct{}

func (s *DeduplicateStrategy) Name() string { return DeduplicateName }

func (s *DeduplicateStrategy) Description() string {
	return "Keeps one copy when all sources are identical, fails otherwise"
}

func (s *DeduplicateStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	if len(sources) == 1 {
		return []types.SourcePair{sources[0]}, nil
	}

	fs := ws.FS()

	reference, err := fingerprint.File(fs, sources[0].Source)
	if err != nil {
		return nil, err
	}
	for _, pair := range sources[1:] {
		digest, err := fingerprint.File(fs, pair.Source)
		if err != nil {
			return nil, err
		}
		if digest != reference {
			return nil, errors.Newf(errors.ErrStrategyConflict,
				"%d sources map to %s with different content", len(sources), target).
				WithDetail("strategy", DeduplicateName).
				WithDetail("origins", originsOf(ws, sources))
		}
	}

	return []types.SourcePair{sources[0]}, nil
}
