package merge

import (
	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/types"
)

// FirstStrategy keeps the first source in discovery order.
type FirstStrategy struct{}

func (s *FirstStrategy) Name() string { return FirstName }

func (s *FirstStrategy) Description() string {
	return "Keeps the first source in classpath order, drops the rest"
}

func (s *FirstStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	return []types.SourcePair{sources[0]}, nil
}

// LastStrategy keeps the last source in discovery order.
type LastStrategy struct{}

func (s *LastStrategy) Name() string { return LastName }

func (s *LastStrategy) Description() string {
	return "Keeps the last source in classpath order, drops the rest"
}

func (s *LastStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	return []types.SourcePair{sources[len(sources)-1]}, nil
}

// SingleOrErrorStrategy accepts exactly one source and refuses to
// resolve anything more.
type SingleOrErrorStrategy struct{}

func (s *SingleOrErrorStrategy) Name() string { return SingleOrErrorName }

func (s *SingleOrErrorStrategy) Description() string {
	return "Fails the assembly when more than one source maps to the path"
}

func (s *SingleOrErrorStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	if len(sources) == 1 {
		return []types.SourcePair{sources[0]}, nil
	}
	return nil, errors.Newf(errors.ErrStrategyConflict,
		"%d sources map to %s", len(sources), target).
		WithDetail("strategy", SingleOrErrorName).
		WithDetail("origins", originsOf(ws, sources))
}

// DiscardStrategy drops the conflict group entirely.
type DiscardStrategy struct{}

func (s *DiscardStrategy) Name() string { return DiscardName }

func (s *DiscardStrategy) Description() string {
	return "Omits the path from the final archive"
}

func (s *DiscardStrategy) Merge(ws types.Workspace, target string, sources []types.SourcePair) ([]types.SourcePair, error) {
	return nil, nil
}
