package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/rules"
)

// fileConfig is the on-disk shape of fatpack.toml. Merge rules live
// under [[merge.rules]] so the file mirrors what Load reads.
type fileConfig struct {
	Output   OutputConfig  `toml:"output"`
	Include  IncludeConfig `toml:"include"`
	Excludes []string      `toml:"excludes,omitempty"`
	Merge    mergeSection  `toml:"merge,omitempty"`
}

type mergeSection struct {
	Rules []rules.Rule `toml:"rules,omitempty"`
}

// WriteDefault writes a starter config file with the built-in defaults
// and one example merge rule. It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrFileWrite, "%s already exists", path)
	}

	starter := fileConfig{
		Output:  OutputConfig{Dir: "dist", Name: "assembly.jar"},
		Include: IncludeConfig{App: true, Runtime: true, Deps: true},
		Merge: mergeSection{
			Rules: []rules.Rule{{Pattern: "application.conf", Strategy: "concat"}},
		},
	}

	data, err := toml.Marshal(starter)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "cannot encode starter config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	return nil
}
