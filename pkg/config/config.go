// Package config loads fatpack configuration: built-in defaults, an
// optional TOML or YAML file, then FATPACK_ environment overrides, in
// that order.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/rules"
)

// DefaultConfigFile is looked for in the working directory when no
// explicit config path is given, before the yaml fallbacks.
const DefaultConfigFile = "fatpack.toml"

// defaultConfigFiles are probed in order when no explicit path is
// given.
var defaultConfigFiles = []string{DefaultConfigFile, "fatpack.yaml", "fatpack.yml"}

// Config is the fully resolved fatpack configuration.
type Config struct {
	Output   OutputConfig  `koanf:"output"`
	Include  IncludeConfig `koanf:"include"`
	Excludes []string      `koanf:"excludes"`

	// MergeRules are user rules consulted before the default
	// path classification.
	MergeRules []rules.Rule `koanf:"-"`
}

// OutputConfig controls where and what fatpack writes.
type OutputConfig struct {
	Dir       string `koanf:"dir" toml:"dir"`
	Name      string `koanf:"name" toml:"name"`
	MainClass string `koanf:"mainclass" toml:"mainclass,omitempty"`
}

// IncludeConfig toggles classpath entry kinds.
type IncludeConfig struct {
	App     bool `koanf:"app" toml:"app"`
	Runtime bool `koanf:"runtime" toml:"runtime"`
	Deps    bool `koanf:"deps" toml:"deps"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"output.dir":      "dist",
		"output.name":     "assembly.jar",
		"include.app":     true,
		"include.runtime": true,
		"include.deps":    true,
	}
}

// Load resolves the configuration. configPath may be empty, in which
// case fatpack.toml in the working directory is used when present.
func Load(configPath string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load defaults")
	}

	path := configPath
	if path == "" {
		for _, candidate := range defaultConfigFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	} else if _, err := os.Stat(path); err != nil {
		// An explicitly named file must exist
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", configPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	if err := k.Load(env.Provider("FATPACK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "FATPACK_")), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot unmarshal configuration")
	}

	mergeRules, err := rules.LoadRules(k)
	if err != nil {
		return nil, err
	}
	cfg.MergeRules = mergeRules

	return &cfg, nil
}

// parserFor picks the file parser by extension; anything that is not
// yaml is treated as toml.
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
