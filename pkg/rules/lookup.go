package rules

import (
	"path"
	"regexp"
	"strings"

	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/merge"
	"github.com/fatpack/fatpack/pkg/registry"
	"github.com/fatpack/fatpack/pkg/types"
	"github.com/rs/zerolog"
)

// Filename classes recognized by the default classification. Extensions
// are optional: README, readme.md and Readme.txt all count.
var (
	readmePattern  = regexp.MustCompile(`(?i)^readme([.]\w+)?$`)
	licensePattern = regexp.MustCompile(`(?i)^(license|licence|notice|copying)([.]\w+)?$`)
)

// Lookup resolves target paths to merge strategies. User rules run
// first, then the built-in classification table; the result is total
// over all path strings.
type Lookup struct {
	rules  []Rule
	logger zerolog.Logger
}

// NewLookup creates a lookup with the given user rules consulted before
// the defaults. Rules must have been validated (see Validate).
func NewLookup(userRules []Rule) *Lookup {
	return &Lookup{
		rules:  userRules,
		logger: logging.GetLogger("rules.lookup"),
	}
}

// Resolve returns the merge strategy for a target path. It never
// returns nil: unmatched paths get deduplicate.
func (l *Lookup) Resolve(target string) types.MergeStrategy {
	name := l.strategyNameFor(target)

	strategy, err := registry.GetStrategy(name)
	if err != nil {
		l.logger.Warn().
			Str("target", target).
			Str("strategy", name).
			Msg("Configured strategy not registered, falling back to deduplicate")
		return merge.MustGet(merge.DeduplicateName)
	}
	return strategy
}

// Func adapts the lookup to the plain function type the resolver takes.
func (l *Lookup) Func() types.StrategyLookup {
	return l.Resolve
}

func (l *Lookup) strategyNameFor(target string) string {
	clean := path.Clean(strings.TrimPrefix(normalize(target), "/"))

	for _, rule := range l.rules {
		if matchPattern(rule.Pattern, clean) {
			return rule.Strategy
		}
	}

	return defaultStrategyName(clean)
}

// normalize fixes separators; target paths are forward-slash by
// contract but tolerate accidental backslashes from Windows callers.
func normalize(target string) string {
	return strings.ReplaceAll(target, "\\", "/")
}

// matchPattern glob-matches pattern against the full target path.
// "dir/" patterns match everything under dir.
func matchPattern(pattern, target string) bool {
	if strings.HasSuffix(pattern, "/") {
		return strings.HasPrefix(target, pattern) || target == strings.TrimSuffix(pattern, "/")
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// defaultStrategyName is the built-in classification table. It must
// stay byte-compatible with the established conventions: changing it
// silently changes which archives assemble without user configuration.
func defaultStrategyName(target string) string {
	if target == "reference.conf" {
		return merge.ConcatName
	}

	segments := strings.Split(target, "/")
	last := segments[len(segments)-1]

	// readme/license-likes at the root or one directory down get moved
	// aside rather than merged
	if len(segments) <= 2 && (readmePattern.MatchString(last) || licensePattern.MatchString(last)) {
		return merge.RenameName
	}

	if segments[0] == "META-INF" && len(segments) > 1 {
		rest := make([]string, len(segments)-1)
		for i, s := range segments[1:] {
			rest[i] = strings.ToLower(s)
		}

		switch {
		case len(rest) == 1 && (rest[0] == "manifest.mf" || rest[0] == "index.list" || rest[0] == "dependencies"):
			return merge.DiscardName
		case rest[0] == "plexus":
			return merge.DiscardName
		case rest[0] == "services":
			return merge.FilterDistinctLinesName
		case len(rest) == 1 && (rest[0] == "spring.schemas" || rest[0] == "spring.handlers"):
			return merge.FilterDistinctLinesName
		default:
			return merge.DeduplicateName
		}
	}

	return merge.DeduplicateName
}
