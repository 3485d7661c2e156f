// Package rules implements the AVA lint rules. Each rule registers itself with
// the default lint registry on import.
package rules

import (
	"fmt"

	"github.com/specvital/avalint/pkg/lint"
)

// All returns every rule registered with the default registry, sorted by name.
func All() []*lint.Rule {
	return lint.GetRules()
}

// Recommended returns the default rule set with default severities.
func Recommended() []lint.ConfiguredRule {
	return lint.Defaults(All())
}

func parseEnum(raw any, def string, allowed ...string) (string, error) {
	if raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected one of %q, got %T", allowed, raw)
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fmt.Errorf("expected one of %q, got %q", allowed, s)
}
