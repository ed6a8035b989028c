package registry

import (
	"github.com/fatpack/fatpack/pkg/types"
)

// Global registry for merge strategies. Strategy implementations
// register themselves here from their package init functions.
var strategyRegistry Registry[types.MergeStrategy]

func init() {
	strategyRegistry = New[types.MergeStrategy]()
}

// RegisterStrategy registers a merge strategy under its name.
func RegisterStrategy(strategy types.MergeStrategy) error {
	return strategyRegistry.Register(strategy.Name(), strategy)
}

// GetStrategy retrieves a merge strategy by name.
func GetStrategy(name string) (types.MergeStrategy, error) {
	return strategyRegistry.Get(name)
}

// HasStrategy checks whether a strategy name is registered.
func HasStrategy(name string) bool {
	return strategyRegistry.Has(name)
}

// ListStrategies returns all registered strategy names in sorted order.
func ListStrategies() []string {
	return strategyRegistry.List()
}
