package materialize

import (
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/fatpack/fatpack/pkg/errors"
)

// DefaultExcludes are the jar signature files stripped from every
// extracted archive. A repackaged jar can never carry its inputs'
// signatures, so these are excluded unconditionally.
var DefaultExcludes = []string{
	"META-INF/*.SF",
	"META-INF/*.sf",
	"META-INF/*.DSA",
	"META-INF/*.dsa",
	"META-INF/*.RSA",
	"META-INF/*.rsa",
}

// Excluder decides which extracted paths are dropped before conflict
// resolution. Patterns use gitignore syntax and match against paths
// relative to the archive or directory root.
type Excluder struct {
	matcher *ignore.GitIgnore
}

// NewExcluder compiles the default signature excludes plus any
// caller-supplied patterns.
func NewExcluder(extra []string) (*Excluder, error) {
	lines := make([]string, 0, len(DefaultExcludes)+len(extra))
	lines = append(lines, DefaultExcludes...)
	lines = append(lines, extra...)

	matcher, err := ignore.CompileIgnoreLines(lines...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot compile exclude patterns")
	}
	return &Excluder{matcher: matcher}, nil
}

// Match reports whether the relative path is excluded.
func (e *Excluder) Match(rel string) bool {
	return e.matcher.MatchesPath(rel)
}
