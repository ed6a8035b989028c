package resolve

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/merge"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/fatpack/fatpack/pkg/workspace"
)

// Resolver turns the materialized source pairs into a final mapping
// with unique target paths by applying merge strategies per conflict
// group.
//
// Resolution runs in two passes. Rename can relocate files and, for
// directories, change every descendant's target path, so rename groups
// are resolved first and their outputs re-grouped before the general
// strategies run. A strategy is matched to a pass by name, not by
// behavior.
type Resolver struct {
	ws     *workspace.Workspace
	lookup types.StrategyLookup
	logger zerolog.Logger
}

// New creates a resolver using the given strategy lookup.
func New(ws *workspace.Workspace, lookup types.StrategyLookup) *Resolver {
	return &Resolver{
		ws:     ws,
		lookup: lookup,
		logger: logging.GetLogger("resolve"),
	}
}

// Resolve applies both passes and returns the final mapping. Any
// strategy failure aborts with that strategy's diagnostic.
func (r *Resolver) Resolve(pairs []types.SourcePair) ([]types.SourcePair, error) {
	renamed, err := r.renamePass(pairs)
	if err != nil {
		return nil, err
	}

	cleaned, err := r.dropVanished(renamed)
	if err != nil {
		return nil, err
	}

	final, err := r.generalPass(cleaned)
	if err != nil {
		return nil, err
	}

	if err := r.checkUniqueTargets(final); err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("inputPairs", len(pairs)).
		Int("finalPairs", len(final)).
		Msg("Conflict resolution complete")

	return final, nil
}

// renamePass applies rename to its groups and passes everything else
// through unchanged.
func (r *Resolver) renamePass(pairs []types.SourcePair) ([]types.SourcePair, error) {
	var out []types.SourcePair

	for _, g := range groupByTarget(pairs) {
		strategy := r.lookup(g.Target)
		if strategy.Name() != merge.RenameName {
			out = append(out, g.Pairs...)
			continue
		}

		resolved, err := strategy.Merge(r.ws, g.Target, g.Pairs)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}

	return out, nil
}

// dropVanished removes pairs whose source no longer exists or is a
// directory; rename may have relocated originals.
func (r *Resolver) dropVanished(pairs []types.SourcePair) ([]types.SourcePair, error) {
	fs := r.ws.FS()

	kept := pairs[:0:0]
	for _, pair := range pairs {
		info, err := fs.Stat(pair.Source)
		if err != nil || info.IsDir() {
			r.logger.Debug().
				Str("source", pair.Source).
				Str("target", pair.Target).
				Msg("Dropping vanished source")
			continue
		}
		kept = append(kept, pair)
	}
	return kept, nil
}

// generalPass applies every non-rename strategy; rename groups were
// already resolved and pass through.
func (r *Resolver) generalPass(pairs []types.SourcePair) ([]types.SourcePair, error) {
	var out []types.SourcePair

	for _, g := range groupByTarget(pairs) {
		strategy := r.lookup(g.Target)
		if strategy.Name() == merge.RenameName {
			out = append(out, g.Pairs...)
			continue
		}

		// Deduplicate groups are routine (the same class shipped by
		// related jars); logging them would drown out real merges
		if len(g.Pairs) > 1 && strategy.Name() != merge.DeduplicateName {
			r.logger.Info().
				Str("target", g.Target).
				Str("strategy", strategy.Name()).
				Int("sources", len(g.Pairs)).
				Msg("Merging conflicting sources")
		}

		resolved, err := strategy.Merge(r.ws, g.Target, g.Pairs)
		if err != nil {
			// Conflict refusals already carry their full diagnostic
			// (strategy name plus conflicting origins)
			if errors.IsErrorCode(err, errors.ErrStrategyConflict) {
				return nil, err
			}
			return nil, errors.Wrapf(err, errors.ErrMergeFailed,
				"strategy %s failed on %s", strategy.Name(), g.Target)
		}
		out = append(out, resolved...)
	}

	return out, nil
}

// checkUniqueTargets guards the output invariant. A duplicate here is a
// fatpack defect, not a user conflict, and is reported as such.
func (r *Resolver) checkUniqueTargets(pairs []types.SourcePair) error {
	seen := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		if seen[pair.Target] {
			return errors.Newf(errors.ErrInvariant,
				"duplicate target path %s survived resolution; this is a bug in fatpack", pair.Target)
		}
		seen[pair.Target] = true
	}
	return nil
}

// groupByTarget sorts pairs into the defined resolution order
// (classpath entry index, then lexical target, then source) and groups
// them by target path, preserving first-encounter group order. Sorting
// here keeps group contents independent of map iteration order.
func groupByTarget(pairs []types.SourcePair) []types.ConflictGroup {
	sorted := make([]types.SourcePair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EntryIndex != sorted[j].EntryIndex {
			return sorted[i].EntryIndex < sorted[j].EntryIndex
		}
		if sorted[i].Target != sorted[j].Target {
			return sorted[i].Target < sorted[j].Target
		}
		return sorted[i].Source < sorted[j].Source
	})

	index := make(map[string]int)
	var groups []types.ConflictGroup
	for _, pair := range sorted {
		i, ok := index[pair.Target]
		if !ok {
			i = len(groups)
			index[pair.Target] = i
			groups = append(groups, types.ConflictGroup{Target: pair.Target})
		}
		groups[i].Pairs = append(groups[i].Pairs, pair)
	}
	return groups
}
