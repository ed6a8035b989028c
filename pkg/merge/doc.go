// Package merge implements the built-in merge strategies that resolve
// target-path conflicts between classpath entries: first, last,
// singleOrError, concat, filterDistinctLines, deduplicate, rename and
// discard. Strategies register themselves in the global registry at
// init time and are selected per target path by pkg/rules.
package merge
