package rules

// Rule maps a target-path pattern to a merge strategy name. User rules
// are consulted in order before the built-in classification; the first
// matching rule wins.
//
// Patterns are glob-matched against the full target path. A pattern
// ending in "/" matches every path under that directory.
type Rule struct {
	Pattern  string `koanf:"pattern" toml:"pattern"`
	Strategy string `koanf:"strategy" toml:"strategy"`
}
