// Package dfm - Rule registry.
// A flat, ordered vector iterated once per analysis. Registration
// validates rule identity and fails fast on duplicates.
package dfm

import (
	"fmt"

	"shopquote/core/types"
)

// Registry holds the ordered rule table
type Registry struct {
	rules []Rule
	ids   map[string]bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]bool)}
}

// Register appends a rule to the table.
// Panics on an empty or duplicate id (fail fast at wiring time).
func (r *Registry) Register(rule Rule) {
	id := rule.ID()
	if id == "" {
		panic("dfm: rule with empty id")
	}
	if r.ids[id] {
		panic(fmt.Sprintf("dfm: rule already registered: %s", id))
	}
	r.ids[id] = true
	r.rules = append(r.rules, rule)
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	return len(r.rules)
}

// Analyze runs every applicable rule against the context and collects
// the non-nil suggestions, in registration order
func (r *Registry) Analyze(ctx *Context) Result {
	var suggestions []*Suggestion
	var overlays []*Overlay

	for _, rule := range r.rules {
		if !rule.Applies(ctx) {
			continue
		}
		s := rule.Evaluate(ctx)
		if s == nil {
			continue
		}
		suggestions = append(suggestions, s)
		if s.Overlay != nil {
			overlays = append(overlays, s.Overlay)
		}
	}

	ok := true
	for _, s := range suggestions {
		if s.Severity == types.SeverityError {
			ok = false
			break
		}
	}
	return Result{OK: ok, Suggestions: suggestions, Overlays: overlays}
}

// defaultRegistry is the fixed production rule set
var defaultRegistry = buildDefaultRegistry()

// Analyze runs the default rule set
func Analyze(ctx *Context) Result {
	return defaultRegistry.Analyze(ctx)
}

// DefaultRegistry exposes the production rule table
func DefaultRegistry() *Registry {
	return defaultRegistry
}
