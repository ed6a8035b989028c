package rules

import (
	"github.com/fatpack/fatpack/pkg/errors"
	"github.com/fatpack/fatpack/pkg/logging"
	"github.com/fatpack/fatpack/pkg/registry"
	"github.com/knadh/koanf/v2"
)

// LoadRules reads user merge rules from configuration. Missing
// configuration is fine and yields no rules; invalid rules are an
// error, not a silent fallback.
func LoadRules(k *koanf.Koanf) ([]Rule, error) {
	logger := logging.GetLogger("rules.config")

	var rules []Rule
	if err := k.Unmarshal("merge.rules", &rules); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse merge rules")
	}
	if len(rules) == 0 {
		logger.Debug().Msg("No merge rules configured, using defaults only")
		return nil, nil
	}

	if err := Validate(rules); err != nil {
		return nil, err
	}

	logger.Info().Int("ruleCount", len(rules)).Msg("Loaded merge rules from configuration")
	return rules, nil
}

// Validate checks that every rule has a pattern and names a registered
// strategy.
func Validate(rules []Rule) error {
	for i, rule := range rules {
		if rule.Pattern == "" {
			return errors.Newf(errors.ErrConfigValid, "merge rule %d has empty pattern", i)
		}
		if !registry.HasStrategy(rule.Strategy) {
			return errors.Newf(errors.ErrConfigValid,
				"merge rule %d names unknown strategy %q", i, rule.Strategy)
		}
	}
	return nil
}
