package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fatpack/fatpack/pkg/archive"
	"github.com/fatpack/fatpack/pkg/assembly"
	"github.com/fatpack/fatpack/pkg/config"
	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/filesystem"
	"github.com/fatpack/fatpack/pkg/rules"
	"github.com/fatpack/fatpack/pkg/types"
)

func newAssembleCmd() *cobra.Command {
	var (
		output      string
		mainClass   string
		runtimeOnly bool
		depsOnly    bool
		excludes    []string
	)

	cmd := &cobra.Command{
		Use:   "assemble ENTRY...",
		Short: "Merge classpath entries into one archive",
		Long: `Merge class directories and jar archives into a single archive.

Each ENTRY is a path, optionally suffixed with its classification:

    target/classes:app     the application's compiled output
    scala-library.jar:runtime   the language runtime
    lib/dep.jar            a dependency (the default)

Conflicting paths across entries are resolved by the merge rules from
the config file, falling back to the built-in classification.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			var classpath, dependencies []types.ClasspathEntry
			for _, arg := range args {
				entry, err := parseEntry(arg)
				if err != nil {
					return err
				}
				if entry.Kind == types.EntryDep {
					dependencies = append(dependencies, entry)
				} else {
					classpath = append(classpath, entry)
				}
			}

			if output == "" {
				output = assembly.OutputPath(cfg.Output.Dir, cfg.Output.Name)
			}
			if mainClass == "" {
				mainClass = cfg.Output.MainClass
			}

			opts := types.AssemblyOptions{
				OutputPath: output,
				Include: types.IncludeFlags{
					App:     cfg.Include.App,
					Runtime: cfg.Include.Runtime,
					Deps:    cfg.Include.Deps,
				},
				Excludes: append(cfg.Excludes, excludes...),
				Archive:  types.ArchiveOptions{MainClass: mainClass},
			}

			fs := filesystem.NewOS()
			lookup := rules.NewLookup(cfg.MergeRules).Func()
			orch := assembly.New(fs, archive.NewZipWriter(fs), "")

			var out string
			switch {
			case runtimeOnly && depsOnly:
				return errors.New(errors.ErrConfigValid, "--runtime-only and --deps-only are mutually exclusive")
			case runtimeOnly:
				out, err = orch.AssembleRuntimeOnly(classpath, dependencies, opts, lookup)
			case depsOnly:
				out, err = orch.AssembleDepsOnly(classpath, dependencies, opts, lookup)
			default:
				out, err = orch.Assemble(classpath, dependencies, opts, lookup)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", formatBold(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output archive path (default from config)")
	cmd.Flags().StringVar(&mainClass, "main-class", "", "Main-Class for the generated manifest")
	cmd.Flags().BoolVar(&runtimeOnly, "runtime-only", false, "Package only the runtime library entries")
	cmd.Flags().BoolVar(&depsOnly, "deps-only", false, "Package only the dependency entries")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Extra exclude pattern (gitignore syntax, repeatable)")

	return cmd
}

// parseEntry splits "path[:class]" into a classpath entry. The class
// suffix is only recognized when it names a valid kind, so paths
// containing colons still work.
func parseEntry(arg string) (types.ClasspathEntry, error) {
	if i := strings.LastIndex(arg, ":"); i > 0 {
		switch kind := types.EntryKind(arg[i+1:]); kind {
		case types.EntryApp, types.EntryRuntime, types.EntryDep:
			return newEntry(arg[:i], kind)
		}
	}
	return newEntry(arg, types.EntryDep)
}

func newEntry(path string, kind types.EntryKind) (types.ClasspathEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.ClasspathEntry{}, errors.Wrapf(err, errors.ErrFileRead, "cannot resolve %s", path)
	}
	return types.ClasspathEntry{Path: abs, Kind: kind}, nil
}
