package lint

import (
	"fmt"
	"sort"
	"sync"
)

var defaultRegistry = &Registry{}

// Registry manages registered rules, kept sorted by name.
type Registry struct {
	mu    sync.RWMutex
	rules []*Rule
}

// NewRegistry creates a new empty rule registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a rule to the default registry.
func Register(r *Rule) {
	defaultRegistry.Register(r)
}

// GetRules returns all registered rules from the default registry.
func GetRules() []*Rule {
	return defaultRegistry.GetRules()
}

// FindRuleByName returns the rule with the given name from the default registry.
func FindRuleByName(name string) *Rule {
	return defaultRegistry.FindByName(name)
}

// Register adds a rule to the registry. Registering a name twice panics.
func (r *Registry) Register(rule *Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.Name == rule.Name {
			panic(fmt.Sprintf("lint: rule %q registered twice", rule.Name))
		}
	}
	r.rules = append(r.rules, rule)
	sort.Slice(r.rules, func(i, j int) bool {
		return r.rules[i].Name < r.rules[j].Name
	})
}

// GetRules returns a copy of all registered rules.
func (r *Registry) GetRules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Rule, len(r.rules))
	copy(result, r.rules)
	return result
}

// FindByName returns the rule with the given name, or nil.
func (r *Registry) FindByName(name string) *Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}

// Clear removes all registered rules.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = nil
}
