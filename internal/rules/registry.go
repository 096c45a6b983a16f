package rules

import (
	"sort"
	"strings"
	"time"

	"rcmbooks/internal/domain"
)

// Registry provides lookups over the notified-rule table. It is immutable
// after construction and safe for concurrent access. A jurisdiction update is
// a new Registry built from the appended rule set, never a mutation.
type Registry struct {
	rules []domain.NotifiedRule
}

// NewRegistry builds a Registry from rules loaded from the repository.
// Rules are kept in (priority desc, effective_from desc) order so the first
// effective match wins deterministically.
func NewRegistry(rules []domain.NotifiedRule) *Registry {
	sorted := make([]domain.NotifiedRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].EffectiveFrom.After(sorted[j].EffectiveFrom)
	})
	return &Registry{rules: sorted}
}

// NormalizeCode strips separators and whitespace from an HSN/SAC code and
// uppercases it, so "9982-13" and "998213" match the same patterns.
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		switch r {
		case ' ', '-', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Match returns the notified rule applicable to the given HSN/SAC code on
// asOf, or nil when the code is not notified. A code matches a rule when it
// is an exact or prefix match against any of the rule's code patterns.
func (r *Registry) Match(code string, asOf time.Time) *domain.NotifiedRule {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil
	}
	for i := range r.rules {
		rule := &r.rules[i]
		if !rule.IsActive {
			continue
		}
		if rule.EffectiveFrom.After(asOf) {
			continue
		}
		if rule.EffectiveTo != nil && rule.EffectiveTo.Before(asOf) {
			continue
		}
		for _, pattern := range rule.CodePatterns {
			p := NormalizeCode(pattern)
			if p == "" {
				continue
			}
			if normalized == p || strings.HasPrefix(normalized, p) {
				return rule
			}
		}
	}
	return nil
}

// Len reports how many rules the registry holds.
func (r *Registry) Len() int {
	return len(r.rules)
}
