// Package types defines the core data model shared across fatpack:
// classpath entries, source pairs, conflict groups, the merge strategy
// contract, and the filesystem abstraction.
package types
