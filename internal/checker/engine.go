package checker

import (
	"fmt"
	"sort"
	"strings"
)

// Engine runs every registered checker against a drawing and rolls up the results.
// It holds no state beyond the checker list built at construction and is safe for
// concurrent use on distinct documents.
type Engine struct {
	checkers []Checker
}

type engineOptions struct {
	checkers     []Checker
	explicitPass bool
}

// Option configures an Engine
type Option func(*engineOptions)

// WithCheckers replaces the default checker registration list
func WithCheckers(checkers ...Checker) Option {
	return func(o *engineOptions) {
		o.checkers = checkers
	}
}

// WithExplicitPass makes checkers report satisfied rules as PASS findings.
// It applies to every checker implementing PassReporter, including those
// given to WithCheckers; other checkers are used as they are.
func WithExplicitPass(enabled bool) Option {
	return func(o *engineOptions) {
		o.explicitPass = enabled
	}
}

// DefaultCheckers returns the standard registration order:
// mandatory fields first, then the organization's own standard.
func DefaultCheckers() []Checker {
	return []Checker{
		NewMandatoryFieldsChecker(),
		NewOrganizationChecker(),
	}
}

// NewEngine creates an engine with the default checkers unless overridden
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{checkers: DefaultCheckers()}
	for _, opt := range opts {
		opt(&o)
	}

	checkers := make([]Checker, 0, len(o.checkers))
	for _, c := range o.checkers {
		if pr, ok := c.(PassReporter); ok && o.explicitPass {
			c = pr.ReportPasses()
		}
		checkers = append(checkers, c)
	}

	return &Engine{checkers: checkers}
}

// Checkers returns the registered checkers in evaluation order
func (e *Engine) Checkers() []Checker {
	out := make([]Checker, len(e.checkers))
	copy(out, e.checkers)
	return out
}

// CheckAll evaluates every checker in registration order and concatenates
// their findings, preserving each checker's own emission order.
func (e *Engine) CheckAll(doc TextSource) []Finding {
	findings := make([]Finding, 0)
	for _, c := range e.checkers {
		findings = append(findings, c.Evaluate(doc)...)
	}
	return findings
}

// categoryAliases maps the short category names accepted by the HTTP and
// MCP surfaces to checker categories
var categoryAliases = map[string]string{
	"required":        CategoryMandatoryFields,
	"mandatory":       CategoryMandatoryFields,
	"organization":    CategoryOrganization,
	"souken_specific": CategoryOrganization,
}

// ResolveCategory maps an alias or a category name to the category name.
// Unknown names are returned unchanged with ok false.
func ResolveCategory(name string) (category string, ok bool) {
	name = strings.TrimSpace(name)
	if c, found := categoryAliases[strings.ToLower(name)]; found {
		return c, true
	}
	for _, c := range DefaultCheckers() {
		if c.Category() == name {
			return name, true
		}
	}
	return name, false
}

// Only returns an engine restricted to the named categories, keeping
// registration order. With no names it returns e itself.
func (e *Engine) Only(categories ...string) (*Engine, error) {
	if len(categories) == 0 {
		return e, nil
	}

	wanted := make(map[string]bool, len(categories))
	for _, name := range categories {
		category, _ := ResolveCategory(name)
		wanted[category] = true
	}

	selected := make([]Checker, 0, len(e.checkers))
	for _, c := range e.checkers {
		if wanted[c.Category()] {
			selected = append(selected, c)
			delete(wanted, c.Category())
		}
	}
	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check category: %s", strings.Join(unknown, ", "))
	}

	return &Engine{checkers: selected}, nil
}

// Summarize rolls up a findings sequence; see the package-level Summarize
func (e *Engine) Summarize(findings []Finding) Summary {
	return Summarize(findings)
}
