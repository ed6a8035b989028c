package merge

import (
	"fmt"

	"github.com/fatpack/fatpack/pkg/registry"
	"github.com/fatpack/fatpack/pkg/types"
)

// Strategy names. The rename name is compared by the resolver to decide
// which pass a conflict group belongs to.
const (
	FirstName               = "first"
	LastName                = "last"
	SingleOrErrorName       = "singleOrError"
	ConcatName              = "concat"
	FilterDistinctLinesName = "filterDistinctLines"
	DeduplicateName         = "deduplicate"
	RenameName              = "rename"
	DiscardName             = "discard"
)

func init() {
	for _, s := range []types.MergeStrategy{
		&FirstStrategy{},
		&LastStrategy{},
		&SingleOrErrorStrategy{},
		&ConcatStrategy{},
		&FilterDistinctLinesStrategy{},
		&DeduplicateStrategy{},
		&RenameStrategy{},
		&DiscardStrategy{},
	} {
		if err := registry.RegisterStrategy(s); err != nil {
			panic(fmt.Sprintf("failed to register strategy %s: %v", s.Name(), err))
		}
	}
}

// Get returns a registered strategy by name.
func Get(name string) (types.MergeStrategy, error) {
	return registry.GetStrategy(name)
}

// MustGet returns a built-in strategy and panics if it is missing.
// Useful when referring to built-ins whose registration is guaranteed
// by this package's init.
func MustGet(name string) types.MergeStrategy {
	s, err := registry.GetStrategy(name)
	if err != nil {
		panic(fmt.Sprintf("built-in strategy %s not registered: %v", name, err))
	}
	return s
}
