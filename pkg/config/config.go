// Package config loads avalint settings from a .avalint.yaml file and
// AVALINT_* environment variables, and resolves them into a rule set.
//
// A configuration looks like:
//
//	rules:
//	  assertion-arguments: {severity: error, options: {message: always}}
//	  test-title: {severity: warning, options: always}
//	  prefer-power-assert: off
//	exclude: ["fixtures/**"]
//	include: ["test/**/*.js"]
//	workers: 4
package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
)

const (
	// FileName is the config file name searched for, without extension.
	FileName = ".avalint"
	// EnvPrefix prefixes environment variable overrides, e.g. AVALINT_WORKERS.
	EnvPrefix = "AVALINT"
)

// RuleSetting is the configured state of a single rule.
type RuleSetting struct {
	// Severity overrides the rule default when non-nil.
	Severity *domain.Severity
	// Options is passed to the rule's option parser unchanged.
	Options any
}

// Config is the decoded configuration.
type Config struct {
	Rules   map[string]RuleSetting
	Exclude []string
	Include []string
	Workers int
	// File is the config file that was read, empty when none was found.
	File string
}

// NewViper returns a viper instance set up for avalint keys and env overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("workers", 0)
	v.SetDefault("exclude", []string{})
	v.SetDefault("include", []string{})
	return v
}

// Read loads the config file at path. With an empty path, .avalint.yaml is
// searched for in dirs and a missing file is not an error.
func Read(v *viper.Viper, path string, dirs ...string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode extracts a Config from v. Every malformed entry is reported.
func Decode(v *viper.Viper) (*Config, error) {
	var result *multierror.Error

	cfg := &Config{
		Rules:   make(map[string]RuleSetting),
		Exclude: v.GetStringSlice("exclude"),
		Include: v.GetStringSlice("include"),
		Workers: v.GetInt("workers"),
		File:    v.ConfigFileUsed(),
	}
	if cfg.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("workers: must not be negative, got %d", cfg.Workers))
	}

	raw := v.GetStringMap("rules")
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		setting, err := decodeRule(raw[name])
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("rules.%s: %w", name, err))
			continue
		}
		cfg.Rules[name] = setting
	}

	return cfg, result.ErrorOrNil()
}

// Load reads and decodes configuration in one step.
func Load(path string, dirs ...string) (*Config, error) {
	v := NewViper()
	if err := Read(v, path, dirs...); err != nil {
		return nil, err
	}
	return Decode(v)
}

func decodeRule(value any) (RuleSetting, error) {
	switch val := value.(type) {
	case nil:
		return RuleSetting{}, nil
	case map[string]any:
		var setting RuleSetting
		for key, field := range val {
			switch key {
			case "severity":
				sev, err := decodeSeverity(field)
				if err != nil {
					return RuleSetting{}, err
				}
				setting.Severity = &sev
			case "options":
				setting.Options = field
			default:
				return RuleSetting{}, fmt.Errorf("unknown key %q", key)
			}
		}
		return setting, nil
	default:
		sev, err := decodeSeverity(val)
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Severity: &sev}, nil
	}
}

func decodeSeverity(value any) (domain.Severity, error) {
	switch val := value.(type) {
	case string:
		return domain.ParseSeverity(val)
	case bool:
		// false disables the rule.
		if !val {
			return domain.SeverityOff, nil
		}
	case int:
		return domain.ParseSeverity(strconv.Itoa(val))
	}
	return domain.SeverityOff, fmt.Errorf("invalid severity %v", value)
}

// Resolve builds the rule set: recommended rules with their defaults, then
// the configured overrides. A non-empty only restricts the set to the named
// rules, enabling them even when they are not recommended.
func (c *Config) Resolve(rules []*lint.Rule, only ...string) ([]lint.ConfiguredRule, error) {
	var result *multierror.Error

	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		known[r.Name] = true
	}

	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			result = multierror.Append(result, fmt.Errorf("rules.%s: unknown rule", name))
		}
	}

	selected := make(map[string]bool, len(only))
	for _, name := range only {
		if !known[name] {
			result = multierror.Append(result, fmt.Errorf("unknown rule %q", name))
		}
		selected[name] = true
	}

	var out []lint.ConfiguredRule
	for _, r := range rules {
		setting, configured := c.Rules[r.Name]
		severity := r.Severity
		if configured && setting.Severity != nil {
			severity = *setting.Severity
		}

		switch {
		case len(selected) > 0:
			if !selected[r.Name] {
				continue
			}
			if severity == domain.SeverityOff {
				severity = r.Severity
			}
		case !configured && !r.Recommended:
			continue
		}

		cr, err := lint.Configure(r, severity, setting.Options)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("rules.%s: %w", r.Name, err))
			continue
		}
		if severity == domain.SeverityOff {
			continue
		}
		out = append(out, cr)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
