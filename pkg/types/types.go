package types

// EntryKind classifies a classpath entry. The three kinds can be
// included or excluded independently, which is how the full,
// runtime-only and dependency-only assembly variants differ.
type EntryKind string

const (
	// EntryApp marks the application's own compiled output.
	EntryApp EntryKind = "app"

	// EntryRuntime marks the language runtime library.
	EntryRuntime EntryKind = "runtime"

	// EntryDep marks a third-party dependency archive.
	EntryDep EntryKind = "dep"
)

// ClasspathEntry is one input to an assembly run: a directory of
// compiled classes or a jar archive, plus its classification.
// Entries are resolved by the build tool; fatpack treats them as
// read-only input.
type ClasspathEntry struct {
	// Path is the absolute path of the directory or archive.
	Path string

	// Kind classifies the entry for include filtering.
	Kind EntryKind
}

// SourcePair maps one concrete file to its path inside the final
// archive. Multiple pairs sharing a Target form a conflict group.
type SourcePair struct {
	// Source is the absolute path of the file on disk. After
	// materialization it points into the scratch workspace.
	Source string

	// Target is the destination path relative to the archive root,
	// always forward-slash separated.
	Target string

	// EntryIndex is the position of the originating classpath entry in
	// the input list. Pair ordering is (EntryIndex, lexical Source),
	// which fixes the semantics of order-sensitive strategies.
	EntryIndex int
}

// ConflictGroup is all source pairs mapping to one target path, in
// discovery order.
type ConflictGroup struct {
	Target string
	Pairs  []SourcePair
}

// StrategyLookup maps a target path to the merge strategy that resolves
// its conflict group. Implementations must be total: every path string
// gets a strategy.
type StrategyLookup func(target string) MergeStrategy

// IncludeFlags selects which classpath entry kinds participate in an
// assembly run.
type IncludeFlags struct {
	App     bool
	Runtime bool
	Deps    bool
}

// FullAssembly includes every entry kind.
func FullAssembly() IncludeFlags {
	return IncludeFlags{App: true, Runtime: true, Deps: true}
}

// RuntimeOnly includes just the runtime library.
func RuntimeOnly() IncludeFlags {
	return IncludeFlags{Runtime: true}
}

// DepsOnly includes just the dependency archives.
func DepsOnly() IncludeFlags {
	return IncludeFlags{Deps: true}
}

// ArchiveOptions carries packaging metadata for the archive writer.
type ArchiveOptions struct {
	// MainClass, when non-empty, is declared as the entry point in the
	// generated manifest.
	MainClass string
}

// AssemblyOptions configures one orchestrator run.
type AssemblyOptions struct {
	// OutputPath is where the final archive is written.
	OutputPath string

	// Include selects the entry kinds to assemble.
	Include IncludeFlags

	// Excludes are extra exclusion patterns (gitignore syntax) applied
	// to extracted archive contents, on top of the default signature
	// file excludes.
	Excludes []string

	// Archive carries packaging metadata for the writer.
	Archive ArchiveOptions
}
